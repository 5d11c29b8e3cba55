// ABOUTME: Prompt templates for the LLM advisor
// ABOUTME: Renders sectioned prompts with the snapshot as JSON and the reply schema

package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/markalston/migration-advisor/models"
)

const replyFormat = "Reply with a single JSON object only. Do not wrap it in markdown fences or add prose."

type promptSpec struct {
	Role    string
	Input   any
	Context string
	Factors []string
	Rules   []string
	Schema  models.Schema
}

// promptDatabase and promptFileShare expose the bound server by name.
type promptDatabase struct {
	models.Database
	ServerID string `json:"server_id,omitempty"`
}

type promptFileShare struct {
	models.FileShare
	ServerID string `json:"server_id,omitempty"`
}

type promptSnapshot struct {
	Servers     []models.Server            `json:"servers"`
	Databases   []promptDatabase           `json:"databases"`
	FileShares  []promptFileShare          `json:"file_shares"`
	Rates       []models.ResourceRate      `json:"resource_rates,omitempty"`
	Target      models.TargetParameters    `json:"target"`
	Constraints models.BusinessConstraints `json:"business_constraints"`
}

func toPromptSnapshot(snap models.Snapshot) promptSnapshot {
	ps := promptSnapshot{
		Servers:     snap.Servers,
		Databases:   make([]promptDatabase, 0, len(snap.Databases)),
		FileShares:  make([]promptFileShare, 0, len(snap.FileShares)),
		Rates:       snap.Rates,
		Target:      snap.Parameters,
		Constraints: snap.Constraints,
	}
	if ps.Servers == nil {
		ps.Servers = []models.Server{}
	}
	for _, db := range snap.Databases {
		ps.Databases = append(ps.Databases, promptDatabase{Database: db, ServerID: snap.BoundServerID(db.BoundServer)})
	}
	for _, fs := range snap.FileShares {
		ps.FileShares = append(ps.FileShares, promptFileShare{FileShare: fs, ServerID: snap.BoundServerID(fs.BoundServer)})
	}
	return ps
}

// CostPrompt asks for a full cost estimate.
func CostPrompt(snap models.Snapshot) (string, error) {
	p := snap.Parameters
	return renderPrompt(promptSpec{
		Role: fmt.Sprintf("You are a cloud cost analyst estimating the cost of migrating an on-premise inventory to %s in %s.",
			p.Provider, p.Region),
		Input: toPromptSnapshot(snap),
		Factors: []string{
			fmt.Sprintf("Current %s on-demand prices in %s, in USD", p.Provider, p.Region),
			"Instance sizing that covers each server's vCPU and RAM, preferring burstable classes for business-hours servers",
			"Block storage class by disk type (SSD or throughput-optimised)",
			"Managed database sizing by data size, with multi-zone deployment when high availability is required and backup storage for daily backups",
			"Object storage tier by access temperature: hot, warm, or cold",
			"Professional services cost from the resource rates, or a typical architect and engineer team when none are given",
			"Reserved capacity and scheduling savings for always-on and business-hours servers",
			"The budget cap in business_constraints, when set",
		},
		Rules: []string{
			"Include one recommendation for every server, database, and file share in the input, using their ids",
			"Round every cost to cents",
			"annual_cost is monthly_cost × 12 for every component and category",
			"Each category total equals the sum of its component costs",
			"total_first_year_cost equals annual_cloud_cost plus one_time_migration_cost",
			"confidence_level is a number between 0 and 1",
		},
		Schema: models.CostEstimateSchema,
	})
}

// StrategyPrompt asks for a full migration strategy.
func StrategyPrompt(snap models.Snapshot) (string, error) {
	p := snap.Parameters
	return renderPrompt(promptSpec{
		Role: fmt.Sprintf("You are a cloud migration architect planning the move of an on-premise inventory to %s in %s.",
			p.Provider, p.Region),
		Input: toPromptSnapshot(snap),
		Factors: []string{
			"Legacy technologies and operating systems that need replatforming",
			"Server size, where 8 or more vCPU or 32 GB or more RAM suggests replatforming",
			fmt.Sprintf("Managed %s equivalents for each database engine", p.Provider),
			"Database size, high availability, downtime tolerance, and real-time sync needs",
			"File share size and access temperature when choosing transfer method and storage tier",
			fmt.Sprintf("Requested complexity: %s", p.ComplexityHint),
			"Business constraints such as the migration window and cutover date",
		},
		Rules: []string{
			"Use rehost or replatform as migration_type",
			"Plan exactly eight phases: Assessment & Planning, Landing Zone Foundation, Pilot Migration, Data Migration, Application Migration, Storage Migration, Testing & Validation, Cutover & Hypercare",
			"Reference components by their ids from the input",
			"complexity fields are low, medium, or high",
			"confidence_level is a number between 0 and 1",
		},
		Schema: models.MigrationStrategySchema,
	})
}

// TimelinePrompt asks the model to review the week-by-week plan. Phase
// windows are fixed; the model contributes insights, risks, and criteria.
func TimelinePrompt(snap models.Snapshot, baseline models.Timeline) (string, error) {
	plan, err := json.MarshalIndent(struct {
		Overview models.ProjectOverview `json:"project_overview"`
		Phases   []models.TimelinePhase `json:"phases"`
	}{baseline.ProjectOverview, baseline.Phases}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding timeline plan: %w", err)
	}

	return renderPrompt(promptSpec{
		Role:    "You are a migration program manager reviewing a week-by-week migration timeline.",
		Input:   toPromptSnapshot(snap),
		Context: string(plan),
		Factors: []string{
			"Dependencies between phases and which phases can overlap",
			"Data volume and database count driving the data migration phase",
			"Downtime tolerance and real-time sync needs at cutover",
			"Staffing from the resource rates",
			"The cutover date and migration window in business_constraints, when set",
		},
		Rules: []string{
			"Do not change phase durations; comment on them in optimization_suggestions instead",
			"probability and impact are low, medium, or high",
			"timeline_buffer_weeks is a whole number of weeks",
			"confidence_level is a number between 0 and 1",
		},
		Schema: models.TimelineInsightsSchema,
	})
}

func renderPrompt(spec promptSpec) (string, error) {
	input, err := json.MarshalIndent(spec.Input, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding inventory snapshot: %w", err)
	}

	var buf bytes.Buffer
	writeSection(&buf, "ROLE", spec.Role)
	writeSection(&buf, "INVENTORY", string(input))
	writeSection(&buf, "CURRENT_PLAN", spec.Context)
	writeSection(&buf, "CONSIDER", formatList(spec.Factors))
	writeSection(&buf, "RULES", formatList(spec.Rules))
	writeSection(&buf, "OUTPUT", spec.Schema.Describe())
	writeSection(&buf, "OUTPUT_FORMAT", replyFormat)
	return strings.TrimSpace(buf.String()) + "\n", nil
}

func writeSection(buf *bytes.Buffer, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString("[")
	buf.WriteString(title)
	buf.WriteString("]\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}

func formatList(items []string) string {
	var buf strings.Builder
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			fmt.Fprintf(&buf, "- %s\n", item)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}
