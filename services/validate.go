// ABOUTME: Consistency checks applied to every artifact before it is returned
// ABOUTME: Verifies required keys, cost arithmetic, and timeline closure

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/markalston/migration-advisor/models"
)

// costTolerance is the allowed drift between related money amounts.
const costTolerance = 1.0

func missingKeys(schema models.Schema, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("decoding artifact: %w", err)
	}
	if missing := schema.MissingFields(doc); len(missing) > 0 {
		return fmt.Errorf("missing keys: %s", strings.Join(missing, ", "))
	}
	return nil
}

func within(a, b float64) bool {
	return math.Abs(a-b) <= costTolerance
}

func checkConfidence(c float64) error {
	if c < 0 || c > 1 || math.IsNaN(c) {
		return fmt.Errorf("confidence_level %v outside [0, 1]", c)
	}
	return nil
}

// ValidateCostEstimate checks required keys and that totals add up.
func ValidateCostEstimate(est models.CostEstimate) error {
	if err := missingKeys(models.CostEstimateSchema, est); err != nil {
		return err
	}

	var errs []error
	infra := est.CloudInfrastructure
	category := func(name string, monthly, annual float64, components []float64) {
		if !within(monthly*12, annual) {
			errs = append(errs, fmt.Errorf("%s: monthly %.2f x 12 does not match annual %.2f", name, monthly, annual))
		}
		var sum float64
		for _, c := range components {
			sum += c
		}
		if !within(sum, monthly) {
			errs = append(errs, fmt.Errorf("%s: components sum to %.2f, total is %.2f", name, sum, monthly))
		}
	}

	var servers, dbs, storage []float64
	for _, r := range infra.Servers.ServerRecommendations {
		servers = append(servers, r.MonthlyCost)
	}
	for _, r := range infra.Databases.DatabaseRecommendations {
		dbs = append(dbs, r.MonthlyCost)
	}
	for _, r := range infra.Storage.StorageRecommendations {
		storage = append(storage, r.MonthlyCost)
	}
	category("servers", infra.Servers.TotalMonthlyCost, infra.Servers.TotalAnnualCost, servers)
	category("databases", infra.Databases.TotalMonthlyCost, infra.Databases.TotalAnnualCost, dbs)
	category("storage", infra.Storage.TotalMonthlyCost, infra.Storage.TotalAnnualCost, storage)
	category("cloud_infrastructure", infra.TotalMonthlyCost, infra.TotalAnnualCost,
		[]float64{infra.Servers.TotalMonthlyCost, infra.Databases.TotalMonthlyCost, infra.Storage.TotalMonthlyCost})

	var services float64
	for _, r := range est.MigrationServices.ResourceBreakdown {
		services += r.TotalCost
	}
	if !within(services, est.MigrationServices.TotalProfessionalServicesCost) {
		errs = append(errs, fmt.Errorf("migration_services: roles sum to %.2f, total is %.2f",
			services, est.MigrationServices.TotalProfessionalServicesCost))
	}

	g := est.GrandTotal
	if !within(g.AnnualCloudCost, infra.TotalAnnualCost) {
		errs = append(errs, fmt.Errorf("grand_total: annual_cloud_cost %.2f does not match infrastructure %.2f",
			g.AnnualCloudCost, infra.TotalAnnualCost))
	}
	if !within(g.AnnualCloudCost+g.OneTimeMigrationCost, g.TotalFirstYearCost) {
		errs = append(errs, fmt.Errorf("grand_total: %.2f + %.2f does not match first year %.2f",
			g.AnnualCloudCost, g.OneTimeMigrationCost, g.TotalFirstYearCost))
	}
	if err := checkConfidence(est.AIInsights.ConfidenceLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateStrategy checks required keys and the phase plan.
func ValidateStrategy(st models.MigrationStrategy) error {
	if err := missingKeys(models.MigrationStrategySchema, st); err != nil {
		return err
	}

	var errs []error
	if st.MigrationApproach.OverallStrategy == "" {
		errs = append(errs, errors.New("migration_approach: overall_strategy is empty"))
	}
	if len(st.MigrationPhases) == 0 {
		errs = append(errs, errors.New("migration_phases: no phases"))
	}
	for i, ph := range st.MigrationPhases {
		if ph.Phase != i+1 {
			errs = append(errs, fmt.Errorf("migration_phases[%d]: phase %d out of order", i, ph.Phase))
		}
		if ph.DurationWeeks < 1 {
			errs = append(errs, fmt.Errorf("migration_phases[%d]: duration_weeks %d below 1", i, ph.DurationWeeks))
		}
	}
	if err := checkConfidence(st.AIInsights.ConfidenceLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateTimeline checks required keys and that phases partition the schedule.
func ValidateTimeline(tl models.Timeline) error {
	if err := missingKeys(models.TimelineSchema, tl); err != nil {
		return err
	}

	var errs []error
	total := tl.ProjectOverview.TotalDurationWeeks
	next, sum := 1, 0
	for i, ph := range tl.Phases {
		if ph.StartWeek != next {
			errs = append(errs, fmt.Errorf("phases[%d]: starts in week %d, expected %d", i, ph.StartWeek, next))
		}
		if ph.DurationWeeks < 1 || ph.EndWeek != ph.StartWeek+ph.DurationWeeks-1 {
			errs = append(errs, fmt.Errorf("phases[%d]: window %d-%d does not match %d weeks",
				i, ph.StartWeek, ph.EndWeek, ph.DurationWeeks))
		}
		next = ph.EndWeek + 1
		sum += ph.DurationWeeks
	}
	if sum != total {
		errs = append(errs, fmt.Errorf("phases sum to %d weeks, total is %d", sum, total))
	}

	start, err := time.Parse(models.DateLayout, tl.ProjectOverview.EstimatedStartDate)
	if err != nil {
		errs = append(errs, fmt.Errorf("estimated_start_date: %w", err))
	}
	end, err := time.Parse(models.DateLayout, tl.ProjectOverview.EstimatedEndDate)
	if err != nil {
		errs = append(errs, fmt.Errorf("estimated_end_date: %w", err))
	}
	if !start.IsZero() && !end.IsZero() && !start.AddDate(0, 0, 7*total).Equal(end) {
		errs = append(errs, fmt.Errorf("end date %s is not %d weeks after %s",
			tl.ProjectOverview.EstimatedEndDate, total, tl.ProjectOverview.EstimatedStartDate))
	}
	if err := checkConfidence(tl.AIInsights.ConfidenceLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
