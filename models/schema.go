// ABOUTME: Declarative reply schemas for each advisory artifact
// ABOUTME: One declaration drives both the prompt description and the key validator

package models

import (
	"fmt"
	"sort"
	"strings"
)

// ArtifactKind names one of the engine's outputs.
type ArtifactKind string

const (
	KindCostEstimate      ArtifactKind = "cost-estimate"
	KindMigrationStrategy ArtifactKind = "migration-strategy"
	KindTimeline          ArtifactKind = "timeline"
)

// Field types used in schema declarations.
const (
	TypeString      = "string"
	TypeNumber      = "number"
	TypeInteger     = "integer"
	TypeBoolean     = "boolean"
	TypeObject      = "object"
	TypeStringList  = "array<string>"
	TypeObjectList  = "array<object>"
	TypeStringToStr = "object<string,string>"
)

// Field is one key of a JSON object. Nested fields apply to objects and to
// each element of an object list.
type Field struct {
	Name        string
	Type        string
	Description string
	Fields      []Field
}

// Schema is the set of keys a reply must contain.
type Schema struct {
	Kind   ArtifactKind
	Fields []Field
}

func obj(name, desc string, fields ...Field) Field {
	return Field{Name: name, Type: TypeObject, Description: desc, Fields: fields}
}

func list(name, desc string, fields ...Field) Field {
	return Field{Name: name, Type: TypeObjectList, Description: desc, Fields: fields}
}

func leaf(name, typ, desc string) Field {
	return Field{Name: name, Type: typ, Description: desc}
}

var categoryTotals = []Field{
	leaf("total_monthly_cost", TypeNumber, "sum of monthly_cost over the recommendations"),
	leaf("total_annual_cost", TypeNumber, "total_monthly_cost x 12"),
}

// CostEstimateSchema is the reply contract for cost estimation.
var CostEstimateSchema = Schema{
	Kind: KindCostEstimate,
	Fields: []Field{
		obj("grand_total", "first-year totals",
			leaf("annual_cloud_cost", TypeNumber, "equals cloud_infrastructure.total_annual_cost"),
			leaf("one_time_migration_cost", TypeNumber, "equals migration_services.total_professional_services_cost"),
			leaf("total_first_year_cost", TypeNumber, "annual_cloud_cost + one_time_migration_cost"),
		),
		obj("cloud_infrastructure", "recurring cloud spend",
			obj("servers", "compute", append(append([]Field{}, categoryTotals...),
				list("server_recommendations", "one entry per server",
					leaf("server_id", TypeString, "inventory server id"),
					leaf("recommended_instance", TypeString, "provider instance type"),
					leaf("monthly_cost", TypeNumber, "USD per month"),
					leaf("annual_cost", TypeNumber, "monthly_cost x 12"),
					leaf("reasoning", TypeString, "why this size"),
				))...),
			obj("databases", "managed databases", append(append([]Field{}, categoryTotals...),
				list("database_recommendations", "one entry per database",
					leaf("db_name", TypeString, "inventory database name"),
					leaf("recommended_instance", TypeString, "provider database class"),
					leaf("monthly_cost", TypeNumber, "USD per month including storage and backup"),
					leaf("annual_cost", TypeNumber, "monthly_cost x 12"),
					leaf("reasoning", TypeString, "why this size"),
				))...),
			obj("storage", "object storage", append(append([]Field{}, categoryTotals...),
				list("storage_recommendations", "one entry per file share",
					leaf("share_name", TypeString, "inventory share name"),
					leaf("recommended_storage", TypeString, "provider storage tier"),
					leaf("monthly_cost", TypeNumber, "USD per month"),
					leaf("annual_cost", TypeNumber, "monthly_cost x 12"),
					leaf("reasoning", TypeString, "why this tier"),
				))...),
			leaf("total_monthly_cost", TypeNumber, "servers + databases + storage monthly totals"),
			leaf("total_annual_cost", TypeNumber, "total_monthly_cost x 12"),
		),
		obj("migration_services", "one-time professional services",
			leaf("total_professional_services_cost", TypeNumber, "sum of resource_breakdown total_cost"),
			list("resource_breakdown", "one entry per role",
				leaf("role", TypeString, "role title"),
				leaf("duration_weeks", TypeInteger, "weeks engaged"),
				leaf("hours_per_week", TypeInteger, "hours per week"),
				leaf("rate_per_hour", TypeNumber, "USD per hour"),
				leaf("total_cost", TypeNumber, "weeks x hours x rate"),
			),
		),
		obj("ai_insights", "analysis metadata",
			leaf("confidence_level", TypeNumber, "between 0 and 1"),
			leaf("cost_optimization_tips", TypeStringList, "concrete savings ideas"),
			leaf("recommendations", TypeStringList, "general advice"),
		),
	},
}

// MigrationStrategySchema is the reply contract for strategy recommendation.
var MigrationStrategySchema = Schema{
	Kind: KindMigrationStrategy,
	Fields: []Field{
		obj("migration_approach", "headline recommendation",
			leaf("overall_strategy", TypeString, "lift-and-shift, hybrid, or phased-modernisation"),
			leaf("estimated_duration", TypeString, "for example \"24 weeks\""),
			leaf("complexity_level", TypeString, "low, medium, or high"),
			leaf("rationale", TypeString, "why this approach"),
		),
		obj("component_strategies", "per-component decisions",
			list("servers", "one entry per server",
				leaf("server_id", TypeString, "inventory server id"),
				leaf("migration_type", TypeString, "rehost or replatform"),
				leaf("target_state", TypeString, "target platform"),
				leaf("complexity", TypeString, "low, medium, or high"),
				leaf("rationale", TypeString, "why"),
			),
			list("databases", "one entry per database",
				leaf("db_name", TypeString, "inventory database name"),
				leaf("target_engine", TypeString, "managed service or virtual-machine-hosted engine"),
				leaf("migration_type", TypeString, "rehost or replatform"),
				leaf("approach", TypeString, "data movement approach"),
			),
			list("storage", "one entry per file share",
				leaf("share_name", TypeString, "inventory share name"),
				leaf("target_type", TypeString, "object-store-hot, object-store-warm, or object-store-cold"),
				leaf("migration_method", TypeString, "direct-copy, async-sync, or bulk-appliance + async-sync"),
			),
		),
		list("migration_phases", "ordered phase plan",
			leaf("phase", TypeInteger, "1-based order"),
			leaf("name", TypeString, "phase name"),
			leaf("duration_weeks", TypeInteger, "whole weeks"),
			leaf("components", TypeStringList, "component ids in scope"),
			leaf("risks", TypeStringList, "phase risks"),
		),
		obj("recommendations", "follow-up advice",
			leaf("quick_wins", TypeStringList, ""),
			leaf("cost_optimization", TypeStringList, ""),
			leaf("performance_improvements", TypeStringList, ""),
			leaf("modernization_opportunities", TypeStringList, ""),
		),
		obj("risk_assessment", "risks by severity",
			leaf("high_risks", TypeStringList, ""),
			leaf("medium_risks", TypeStringList, ""),
			leaf("low_risks", TypeStringList, ""),
			leaf("mitigation_strategies", TypeStringToStr, "risk to mitigation"),
		),
		obj("ai_insights", "analysis metadata",
			leaf("confidence_level", TypeNumber, "between 0 and 1"),
			leaf("strategic_recommendations", TypeStringList, ""),
		),
	},
}

// TimelineSchema is the contract of a complete timeline artifact.
var TimelineSchema = Schema{
	Kind: KindTimeline,
	Fields: []Field{
		obj("project_overview", "headline dates",
			leaf("total_duration_weeks", TypeInteger, ""),
			leaf("total_duration_months", TypeNumber, ""),
			leaf("estimated_start_date", TypeString, "YYYY-MM-DD"),
			leaf("estimated_end_date", TypeString, "YYYY-MM-DD"),
			leaf("confidence_level", TypeNumber, "between 0 and 1"),
			leaf("complexity_score", TypeNumber, "1 to 10"),
		),
		list("phases", "contiguous week windows",
			leaf("phase", TypeInteger, ""),
			leaf("title", TypeString, ""),
			leaf("duration_weeks", TypeInteger, ""),
			leaf("start_week", TypeInteger, ""),
			leaf("end_week", TypeInteger, ""),
		),
		leaf("critical_path", TypeStringList, ""),
		leaf("resource_allocation", TypeObjectList, ""),
		leaf("risk_mitigation", TypeObjectList, ""),
		leaf("success_criteria", TypeStringList, ""),
		leaf("ai_insights", TypeObject, ""),
	},
}

// TimelineInsightsSchema is the reply contract for the LLM timeline review.
// Phase windows always come from the inventory shape, so the model only
// contributes insights, risks, and success criteria.
var TimelineInsightsSchema = Schema{
	Kind: KindTimeline,
	Fields: []Field{
		obj("ai_insights", "schedule review",
			leaf("confidence_level", TypeNumber, "between 0 and 1"),
			leaf("optimization_suggestions", TypeStringList, "ways to shorten or de-risk the plan"),
			leaf("timeline_risks", TypeStringList, "schedule risks"),
			leaf("resource_recommendations", TypeStringList, "staffing advice"),
		),
		list("risk_mitigation", "schedule risks with buffers",
			leaf("risk", TypeString, ""),
			leaf("probability", TypeString, "low, medium, or high"),
			leaf("impact", TypeString, "low, medium, or high"),
			leaf("mitigation_strategy", TypeString, ""),
			leaf("timeline_buffer_weeks", TypeInteger, "whole weeks"),
		),
		leaf("success_criteria", TypeStringList, "measurable exit criteria"),
	},
}

// Describe renders the schema as an indented field list for prompts.
func (s Schema) Describe() string {
	var b strings.Builder
	describeFields(&b, s.Fields, 0)
	return strings.TrimRight(b.String(), "\n")
}

func describeFields(b *strings.Builder, fields []Field, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, fd := range fields {
		fmt.Fprintf(b, "%s- %s (%s)", indent, fd.Name, fd.Type)
		if fd.Description != "" {
			fmt.Fprintf(b, ": %s", fd.Description)
		}
		b.WriteString("\n")
		if len(fd.Fields) > 0 {
			describeFields(b, fd.Fields, depth+1)
		}
	}
}

// MissingFields returns the dotted paths of declared keys absent from v.
// Object lists are checked element by element.
func (s Schema) MissingFields(v map[string]any) []string {
	var missing []string
	checkFields(v, s.Fields, "", &missing)
	sort.Strings(missing)
	return missing
}

func checkFields(v map[string]any, fields []Field, prefix string, missing *[]string) {
	for _, fd := range fields {
		path := prefix + fd.Name
		raw, ok := v[fd.Name]
		if !ok || raw == nil {
			*missing = append(*missing, path)
			continue
		}
		if len(fd.Fields) == 0 {
			continue
		}
		switch fd.Type {
		case TypeObject:
			child, ok := raw.(map[string]any)
			if !ok {
				*missing = append(*missing, path)
				continue
			}
			checkFields(child, fd.Fields, path+".", missing)
		case TypeObjectList:
			items, ok := raw.([]any)
			if !ok {
				*missing = append(*missing, path)
				continue
			}
			for i, item := range items {
				child, ok := item.(map[string]any)
				if !ok {
					*missing = append(*missing, fmt.Sprintf("%s[%d]", path, i))
					continue
				}
				checkFields(child, fd.Fields, fmt.Sprintf("%s[%d].", path, i), missing)
			}
		}
	}
}
