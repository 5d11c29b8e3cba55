// ABOUTME: Deterministic rule-based advisor used as baseline and fallback
// ABOUTME: Shared rounding helpers and the eight-phase migration template

package services

import (
	"fmt"
	"math"

	"github.com/markalston/migration-advisor/models"
)

// Confidence reported by the rule backend per artifact.
const (
	ruleConfidenceCost     = 0.75
	ruleConfidenceStrategy = 0.70
	ruleConfidenceTimeline = 0.65
)

// RuleMessage is the human-readable note on every rule-based artifact.
const RuleMessage = "AI service unavailable - using rule-based analysis"

// RuleAdvisor produces all three artifacts without I/O. It is safe for
// concurrent use; the price table is never mutated after construction.
type RuleAdvisor struct {
	prices *PriceTable
}

// NewRuleAdvisor creates a rule advisor. A nil table selects the defaults.
func NewRuleAdvisor(prices *PriceTable) *RuleAdvisor {
	if prices == nil {
		prices = DefaultPriceTable()
	}
	return &RuleAdvisor{prices: prices}
}

func ruleProvenance(confidence float64) models.Provenance {
	return models.Provenance{
		ConfidenceLevel: confidence,
		FallbackUsed:    true,
		ModelIdentifier: "",
		Source:          models.SourceRuleBased,
		Message:         RuleMessage,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func weeksLabel(n int) string {
	if n == 1 {
		return "1 week"
	}
	return fmt.Sprintf("%d weeks", n)
}

// Phase numbers in the template.
const (
	phaseAssess = iota + 1
	phaseFoundation
	phasePilot
	phaseData
	phaseApps
	phaseStorage
	phaseTest
	phaseCutover
)

// phaseSpec is one entry of the migration template with its inventory-derived duration.
type phaseSpec struct {
	Number          int
	Name            string
	Description     string
	Weeks           int
	Components      []string
	Dependencies    []string
	Risks           []string
	SuccessCriteria []string
	Milestones      []string
}

// phasePlan builds the eight-phase template for a snapshot. Durations grow
// with the component counts and never fall below the template minimums.
func phasePlan(snap models.Snapshot) []phaseSpec {
	s, d, f := len(snap.Servers), len(snap.Databases), len(snap.FileShares)

	serverIDs := make([]string, 0, s)
	for _, srv := range snap.Servers {
		serverIDs = append(serverIDs, srv.ID)
	}
	dbIDs := make([]string, 0, d)
	for _, db := range snap.Databases {
		dbIDs = append(dbIDs, db.ID)
	}
	shareIDs := make([]string, 0, f)
	for _, fs := range snap.FileShares {
		shareIDs = append(shareIDs, fs.ID)
	}

	pilot := []string{}
	switch {
	case s > 0:
		pilot = append(pilot, serverIDs[0])
	case d > 0:
		pilot = append(pilot, dbIDs[0])
	case f > 0:
		pilot = append(pilot, shareIDs[0])
	}

	all := make([]string, 0, s+d+f)
	all = append(append(append(all, serverIDs...), dbIDs...), shareIDs...)

	return []phaseSpec{
		{
			Number: phaseAssess, Name: "Assessment & Planning", Weeks: 4,
			Description:     "Validate the inventory, map dependencies, and agree the target architecture",
			Components:      []string{},
			Dependencies:    []string{},
			Risks:           []string{"Incomplete inventory or undocumented dependencies"},
			SuccessCriteria: []string{"Dependency map signed off", "Target architecture approved"},
			Milestones:      []string{"Inventory validated", "Migration plan approved"},
		},
		{
			Number: phaseFoundation, Name: "Landing Zone Foundation", Weeks: 3,
			Description:     "Build accounts, networking, identity, and security baselines",
			Components:      []string{},
			Dependencies:    []string{"Assessment & Planning"},
			Risks:           []string{"Network connectivity and firewall approvals"},
			SuccessCriteria: []string{"Landing zone passes security review"},
			Milestones:      []string{"Network connectivity established", "Identity federation live"},
		},
		{
			Number: phasePilot, Name: "Pilot Migration", Weeks: 3,
			Description:     "Migrate a low-risk component end to end to prove the tooling",
			Components:      pilot,
			Dependencies:    []string{"Landing Zone Foundation"},
			Risks:           []string{"Tooling gaps discovered late"},
			SuccessCriteria: []string{"Pilot workload runs in the target cloud"},
			Milestones:      []string{"Pilot cut over", "Runbook updated from lessons learned"},
		},
		{
			Number: phaseData, Name: "Data Migration", Weeks: max(3, 2*d),
			Description:     "Replicate and migrate databases to their target engines",
			Components:      dbIDs,
			Dependencies:    []string{"Pilot Migration"},
			Risks:           []string{"Replication lag and data consistency"},
			SuccessCriteria: []string{"Row counts and checksums match source"},
			Milestones:      []string{"Replication established", "Data validated"},
		},
		{
			Number: phaseApps, Name: "Application Migration", Weeks: max(4, int(math.Ceil(1.5*float64(s)))),
			Description:     "Rehost or replatform servers in dependency order",
			Components:      serverIDs,
			Dependencies:    []string{"Data Migration"},
			Risks:           []string{"Application configuration drift"},
			SuccessCriteria: []string{"All servers running in the target cloud"},
			Milestones:      []string{"First wave migrated", "All waves migrated"},
		},
		{
			Number: phaseStorage, Name: "Storage Migration", Weeks: max(2, f),
			Description:     "Transfer file shares to object storage tiers",
			Components:      shareIDs,
			Dependencies:    []string{"Landing Zone Foundation"},
			Risks:           []string{"Transfer throughput below plan"},
			SuccessCriteria: []string{"File counts and sizes reconciled"},
			Milestones:      []string{"Bulk transfer complete", "Delta sync running"},
		},
		{
			Number: phaseTest, Name: "Testing & Validation", Weeks: 3,
			Description:     "Functional, performance, and failover testing",
			Components:      all,
			Dependencies:    []string{"Application Migration", "Storage Migration"},
			Risks:           []string{"Performance regressions under production load"},
			SuccessCriteria: []string{"User acceptance testing passed", "Performance within baseline"},
			Milestones:      []string{"UAT sign-off", "Go/no-go decision"},
		},
		{
			Number: phaseCutover, Name: "Cutover & Hypercare", Weeks: 2,
			Description:     "Final sync, production cutover, and post-migration support",
			Components:      all,
			Dependencies:    []string{"Testing & Validation"},
			Risks:           []string{"Rollback required during cutover window"},
			SuccessCriteria: []string{"Production traffic served from the target cloud", "On-premise systems decommission-ready"},
			Milestones:      cutoverSchedule,
		},
	}
}

// cutoverSchedule is the ordered task list of the cutover window.
var cutoverSchedule = []string{
	"Freeze changes and take final backups",
	"Final data synchronisation",
	"Switch DNS and connection strings",
	"Smoke tests and business verification",
	"Hypercare sign-off",
}

// layoutWeeks converts durations to whole weeks whose sum equals the rounded
// total. Any rounding residual is absorbed by the longest phase.
func layoutWeeks(durations []float64) []int {
	out := make([]int, len(durations))
	if len(durations) == 0 {
		return out
	}
	var total float64
	sum := 0
	longest := 0
	for i, d := range durations {
		total += d
		out[i] = max(1, int(math.Round(d)))
		sum += out[i]
		if d > durations[longest] {
			longest = i
		}
	}
	residual := int(math.Round(total)) - sum
	out[longest] = max(1, out[longest]+residual)
	return out
}

// complexityScore grows with the inventory and is clamped to [1, 10].
func complexityScore(snap models.Snapshot) float64 {
	raw := (float64(len(snap.Servers)) + 1.5*float64(len(snap.Databases)) + 0.5*float64(len(snap.FileShares))) / 10
	return round1(clamp(raw, 1, 10))
}
