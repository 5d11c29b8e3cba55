// ABOUTME: Rule-based timeline: contiguous week windows, role allocation, and schedule risks
// ABOUTME: Phase durations come from the shared migration template

package services

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/markalston/migration-advisor/models"
)

const (
	weeksPerMonth = 4.33
	phaseStatus   = "planned"
)

// rolePhases maps role keywords to the phases the role works in. The first
// matching keyword wins; unmatched roles, project managers included, work in
// every phase.
var rolePhases = []struct {
	keyword string
	phases  []int
}{
	{"storage", []int{phaseStorage}},
	{"dba", []int{phaseData, phaseTest}},
	{"database", []int{phaseData, phaseTest}},
	{"architect", []int{phaseAssess, phaseFoundation, phasePilot, phaseTest}},
	{"engineer", []int{phaseFoundation, phasePilot, phaseData, phaseApps, phaseStorage, phaseTest, phaseCutover}},
	{"developer", []int{phaseFoundation, phasePilot, phaseData, phaseApps, phaseStorage, phaseTest, phaseCutover}},
}

// phasesForRole returns the phase numbers a role is engaged in; nil means all.
func phasesForRole(role string) []int {
	r := strings.ToLower(role)
	for _, rp := range rolePhases {
		if strings.Contains(r, rp.keyword) {
			return rp.phases
		}
	}
	return nil
}

// BuildTimeline schedules the phase template from start as consecutive week windows.
func (r *RuleAdvisor) BuildTimeline(snap models.Snapshot, start time.Time) models.Timeline {
	plan := phasePlan(snap)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	durations := make([]float64, len(plan))
	for i, ph := range plan {
		durations[i] = float64(ph.Weeks)
	}
	weeks := layoutWeeks(durations)

	roles := r.timelineRoles(snap)

	phases := make([]models.TimelinePhase, 0, len(plan))
	total := 0
	for i, ph := range plan {
		startWeek := total + 1
		total += weeks[i]
		phases = append(phases, models.TimelinePhase{
			Phase:             ph.Number,
			Title:             ph.Name,
			Description:       ph.Description,
			DurationWeeks:     weeks[i],
			StartWeek:         startWeek,
			EndWeek:           total,
			Dependencies:      ph.Dependencies,
			Milestones:        ph.Milestones,
			Components:        ph.Components,
			Risks:             ph.Risks,
			ResourcesRequired: rolesInPhase(roles, ph.Number),
			Status:            phaseStatus,
		})
	}

	end := start.AddDate(0, 0, 7*total)
	risks := scheduleRisks(snap, end)

	return models.Timeline{
		ProjectOverview: models.ProjectOverview{
			TotalDurationWeeks:  total,
			TotalDurationMonths: round1(float64(total) / weeksPerMonth),
			EstimatedStartDate:  start.Format(models.DateLayout),
			EstimatedEndDate:    end.Format(models.DateLayout),
			ConfidenceLevel:     ruleConfidenceTimeline,
			ComplexityScore:     complexityScore(snap),
		},
		Phases:             phases,
		CriticalPath:       criticalPath(plan),
		ResourceAllocation: allocateRoles(roles, phases),
		RiskMitigation:     risks,
		SuccessCriteria:    timelineSuccessCriteria(snap),
		AIInsights: models.TimelineInsights{
			Provenance:              ruleProvenance(ruleConfidenceTimeline),
			OptimizationSuggestions: timelineSuggestions(snap, plan),
			TimelineRisks:           timelineRisks(snap, end),
			ResourceRecommendations: resourceRecommendations(snap, plan),
		},
	}
}

// timelineRoles lists recorded roles in order without duplicates, or the
// default roles when none are recorded.
func (r *RuleAdvisor) timelineRoles(snap models.Snapshot) []string {
	roles := []string{}
	seen := map[string]bool{}
	for _, rate := range snap.Rates {
		if rate.Role == "" || seen[rate.Role] {
			continue
		}
		seen[rate.Role] = true
		roles = append(roles, rate.Role)
	}
	if len(roles) > 0 {
		return roles
	}
	for _, d := range r.prices.DefaultRoles {
		roles = append(roles, d.Role)
	}
	return roles
}

func rolesInPhase(roles []string, phase int) []string {
	out := []string{}
	for _, role := range roles {
		mapped := phasesForRole(role)
		if mapped == nil || slices.Contains(mapped, phase) {
			out = append(out, role)
		}
	}
	return out
}

// allocateRoles sums the durations of each role's phases. The peak week is
// the start of the longest of them.
func allocateRoles(roles []string, phases []models.TimelinePhase) []models.ResourceAllocation {
	out := make([]models.ResourceAllocation, 0, len(roles))
	for _, role := range roles {
		mapped := phasesForRole(role)
		alloc := models.ResourceAllocation{Role: role, OverlapPhases: []int{}}
		var longest *models.TimelinePhase
		for i := range phases {
			ph := &phases[i]
			if mapped != nil && !slices.Contains(mapped, ph.Phase) {
				continue
			}
			alloc.WeeksAllocated += ph.DurationWeeks
			alloc.OverlapPhases = append(alloc.OverlapPhases, ph.Phase)
			if longest == nil || ph.DurationWeeks > longest.DurationWeeks {
				longest = ph
			}
		}
		if longest != nil {
			alloc.PeakUtilizationWeek = longest.StartWeek
		}
		out = append(out, alloc)
	}
	return out
}

// criticalPath follows the dependency chain from assessment to cutover.
// Storage migration runs beside it.
func criticalPath(plan []phaseSpec) []string {
	path := []string{}
	for _, ph := range plan {
		if ph.Number != phaseStorage {
			path = append(path, ph.Name)
		}
	}
	return path
}

func scheduleRisks(snap models.Snapshot, end time.Time) []models.RiskMitigation {
	risks := []models.RiskMitigation{}

	var largeDBs, zeroDowntime int
	for _, db := range snap.Databases {
		if db.SizeGB > largeDatabaseGB {
			largeDBs++
		}
		if db.DowntimeTolerance == models.DowntimeNone {
			zeroDowntime++
		}
	}
	for _, fs := range snap.FileShares {
		if fs.DowntimeTolerance == models.DowntimeNone {
			zeroDowntime++
		}
	}

	if largeDBs > 0 {
		risks = append(risks, models.RiskMitigation{
			Risk:                fmt.Sprintf("Transfer of %d database(s) over 1 TB overruns the data phase", largeDBs),
			Probability:         models.LevelMedium,
			Impact:              models.LevelHigh,
			MitigationStrategy:  "Seed from backups early and rehearse the transfer",
			TimelineBufferWeeks: 2,
		})
	}
	if zeroDowntime > 0 {
		risks = append(risks, models.RiskMitigation{
			Risk:                fmt.Sprintf("%d component(s) cannot tolerate downtime at cutover", zeroDowntime),
			Probability:         models.LevelMedium,
			Impact:              models.LevelHigh,
			MitigationStrategy:  "Rehearse the cutover with continuous replication and a rollback plan",
			TimelineBufferWeeks: 1,
		})
	}
	if n := len(snap.Servers); n > largeServerEstate {
		risks = append(risks, models.RiskMitigation{
			Risk:                fmt.Sprintf("Coordinating %d servers slows application waves", n),
			Probability:         models.LevelHigh,
			Impact:              models.LevelMedium,
			MitigationStrategy:  "Group servers into dependency-ordered waves with named owners",
			TimelineBufferWeeks: 2,
		})
	}
	if c := snap.Constraints.CutoverDate; c != nil && end.After(*c) {
		risks = append(risks, models.RiskMitigation{
			Risk: fmt.Sprintf("Estimated end date %s falls after the required cutover date %s",
				end.Format(models.DateLayout), c.Format(models.DateLayout)),
			Probability:         models.LevelHigh,
			Impact:              models.LevelHigh,
			MitigationStrategy:  "Add parallel migration teams or reduce scope for the first cutover",
			TimelineBufferWeeks: 0,
		})
	}
	risks = append(risks, models.RiskMitigation{
		Risk:                "Undocumented application dependencies surface during the pilot",
		Probability:         models.LevelMedium,
		Impact:              models.LevelMedium,
		MitigationStrategy:  "Run dependency discovery during assessment and feed findings into wave planning",
		TimelineBufferWeeks: 1,
	})
	return risks
}

func timelineSuccessCriteria(snap models.Snapshot) []string {
	p, region := snap.Parameters.Provider, snap.Parameters.Region
	criteria := []string{}
	if n := len(snap.Servers); n > 0 {
		criteria = append(criteria, fmt.Sprintf("All %d server(s) running in %s %s", n, p, region))
	}
	if n := len(snap.Databases); n > 0 {
		criteria = append(criteria, fmt.Sprintf("All %d database(s) migrated with validated data", n))
	}
	if n := len(snap.FileShares); n > 0 {
		criteria = append(criteria, fmt.Sprintf("All %d file share(s) reconciled in object storage", n))
	}
	return append(criteria,
		"Performance meets or exceeds the on-premise baseline",
		"Operations team signed off on runbooks and monitoring",
	)
}

func timelineSuggestions(snap models.Snapshot, plan []phaseSpec) []string {
	out := []string{}
	if len(snap.FileShares) > 0 {
		out = append(out, fmt.Sprintf("Run Storage Migration alongside Application Migration to save up to %s",
			weeksLabel(plan[phaseStorage-1].Weeks)))
	}
	if len(snap.Databases) > 1 {
		out = append(out, "Replicate databases in parallel once the first one is proven")
	}
	return append(out, "Automate infrastructure with code during the foundation phase to speed later waves")
}

func timelineRisks(snap models.Snapshot, end time.Time) []string {
	out := []string{}
	if c := snap.Constraints.CutoverDate; c != nil && end.After(*c) {
		out = append(out, fmt.Sprintf("Plan ends %s, after the required cutover date %s",
			end.Format(models.DateLayout), c.Format(models.DateLayout)))
	}
	if w := snap.Constraints.MigrationWindow; w != "" {
		out = append(out, fmt.Sprintf("Cutover must fit the %s migration window", w))
	}
	return append(out, "Change freezes and holidays can push cutover windows")
}

func resourceRecommendations(snap models.Snapshot, plan []phaseSpec) []string {
	out := []string{}
	if len(snap.Databases) > 0 {
		out = append(out, fmt.Sprintf("Engage a database administrator for the %s data migration",
			weeksLabel(plan[phaseData-1].Weeks)))
	}
	if len(snap.FileShares) > 0 {
		out = append(out, "Assign a storage engineer to own transfer throughput")
	}
	return append(out, "Keep the cloud architect engaged through testing and validation")
}
