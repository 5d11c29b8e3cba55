// ABOUTME: Rule-based migration strategy: per-component approach, phases, and risks
// ABOUTME: Component decisions follow fixed legacy, size, and temperature thresholds

package services

import (
	"fmt"

	"github.com/markalston/migration-advisor/models"
)

// Strategy thresholds.
const (
	replatformVCPU          = 8
	replatformRAMGB         = 32
	largeDatabaseGB         = 1000
	asyncSyncShareGB        = 1000
	bulkApplianceShareGB    = 10000
	largeServerEstate       = 20
	liftAndShiftComponents  = 5
	hybridComponents        = 15
	approachCDC             = "online replication (change data capture)"
	approachDumpAndRestore  = "offline dump and restore"
	lowRiskFallback         = "Minor configuration drift between source and target environments"
	noSignificantRiskNotice = "No significant risks identified beyond standard migration effort"
)

// RecommendStrategy decides how each component moves and lays out the phase plan.
func (r *RuleAdvisor) RecommendStrategy(snap models.Snapshot) models.MigrationStrategy {
	p := snap.Parameters.Provider
	cat := catalogFor(p)
	plan := phasePlan(snap)

	comps := models.ComponentStrategies{
		Servers:   make([]models.ServerStrategy, 0, len(snap.Servers)),
		Databases: make([]models.DatabaseStrategy, 0, len(snap.Databases)),
		Storage:   make([]models.StorageStrategy, 0, len(snap.FileShares)),
	}
	for _, s := range snap.Servers {
		comps.Servers = append(comps.Servers, r.serverStrategy(cat, s))
	}
	for _, db := range snap.Databases {
		ds := databaseStrategy(p, db)
		ds.HostServerID = snap.BoundServerID(db.BoundServer)
		comps.Databases = append(comps.Databases, ds)
	}
	for _, fs := range snap.FileShares {
		comps.Storage = append(comps.Storage, storageStrategy(cat, fs))
	}

	phases := make([]models.MigrationPhase, 0, len(plan))
	total := 0
	for _, ph := range plan {
		total += ph.Weeks
		phases = append(phases, models.MigrationPhase{
			Phase:           ph.Number,
			Name:            ph.Name,
			DurationWeeks:   ph.Weeks,
			Duration:        weeksLabel(ph.Weeks),
			Components:      ph.Components,
			Dependencies:    ph.Dependencies,
			Risks:           ph.Risks,
			SuccessCriteria: ph.SuccessCriteria,
		})
	}

	return models.MigrationStrategy{
		MigrationApproach:   migrationApproach(snap, total),
		ComponentStrategies: comps,
		MigrationPhases:     phases,
		Recommendations:     strategyAdvice(snap, comps),
		RiskAssessment:      assessRisks(snap),
		AIInsights: models.StrategyInsights{
			Provenance:               ruleProvenance(ruleConfidenceStrategy),
			StrategicRecommendations: strategicRecommendations(snap, comps),
		},
	}
}

func migrationApproach(snap models.Snapshot, totalWeeks int) models.MigrationApproach {
	n := snap.ComponentCount()

	overall, derived := models.ApproachPhasedModernisation, models.LevelHigh
	switch {
	case n <= liftAndShiftComponents:
		overall, derived = models.ApproachLiftAndShift, models.LevelLow
	case n <= hybridComponents:
		overall, derived = models.ApproachHybrid, models.LevelMedium
	}
	level := derived
	if snap.Parameters.ComplexityHint.Rank() > level.Rank() {
		level = snap.Parameters.ComplexityHint
	}

	var rationale string
	switch overall {
	case models.ApproachLiftAndShift:
		rationale = fmt.Sprintf("%d component(s) can move together with minimal change", n)
	case models.ApproachHybrid:
		rationale = fmt.Sprintf("%d components warrant rehosting simple workloads while replatforming the rest", n)
	default:
		rationale = fmt.Sprintf("%d components need waves that modernise as they migrate", n)
	}

	return models.MigrationApproach{
		OverallStrategy:   overall,
		EstimatedDuration: weeksLabel(totalWeeks),
		ComplexityLevel:   level,
		Rationale:         fmt.Sprintf("%s to %s %s", rationale, snap.Parameters.Provider, snap.Parameters.Region),
	}
}

func (r *RuleAdvisor) serverStrategy(cat providerCatalog, s models.Server) models.ServerStrategy {
	class, _ := r.selectInstance(s)
	st := models.ServerStrategy{
		ServerID:        s.ID,
		MigrationType:   models.MigrationTypeRehost,
		CurrentState:    fmt.Sprintf("%s, %d vCPU, %d GB RAM", displayOr(s.OSFamily, "unknown OS"), s.VCPU, s.RAMGB),
		TargetState:     fmt.Sprintf("%s (%s)", cat.instanceSKU(class.Name), class.Name),
		Complexity:      models.LevelLow,
		EstimatedEffort: "1 week",
		Rationale:       "Standard workload can be rehosted without changes",
	}
	if s.CurrentHosting != "" {
		st.CurrentState += " on " + s.CurrentHosting
	}

	if reason := legacyReason(s); reason != "" {
		st.MigrationType = models.MigrationTypeReplatform
		st.Complexity = models.LevelHigh
		st.EstimatedEffort = "3-4 weeks"
		st.Rationale = fmt.Sprintf("Runs %s and needs a supported runtime", reason)
		return st
	}
	if s.VCPU >= replatformVCPU || s.RAMGB >= replatformRAMGB {
		st.MigrationType = models.MigrationTypeReplatform
		st.Complexity = models.LevelMedium
		st.EstimatedEffort = "2-3 weeks"
		st.Rationale = fmt.Sprintf("Large footprint (%d vCPU, %d GB RAM) benefits from re-architecting onto managed services", s.VCPU, s.RAMGB)
	}
	return st
}

func databaseStrategy(p models.Provider, db models.Database) models.DatabaseStrategy {
	target, _ := managedEquivalent(p, db.EngineFamily)
	ds := models.DatabaseStrategy{
		DBName:        db.ID,
		CurrentEngine: displayOr(db.EngineFamily, "unknown"),
		TargetEngine:  target,
		MigrationType: models.MigrationTypeRehost,
		Approach:      approachDumpAndRestore,
		Complexity:    models.LevelLow,
	}
	if db.SizeGB > largeDatabaseGB || db.HARequired {
		ds.MigrationType = models.MigrationTypeReplatform
	}

	cdc := db.NeedsRealtimeSync || db.DowntimeTolerance == models.DowntimeNone || db.DowntimeTolerance == models.DowntimeLow
	if cdc {
		ds.Approach = approachCDC
	}

	switch {
	case db.SizeGB > largeDatabaseGB:
		ds.Complexity = models.LevelHigh
	case db.HARequired || db.NeedsRealtimeSync:
		ds.Complexity = models.LevelMedium
	}

	switch {
	case cdc && db.SizeGB > largeDatabaseGB:
		ds.DataMigrationStrategy = "Seed from a full backup, then stream changes until cutover"
	case cdc:
		ds.DataMigrationStrategy = "Continuous replication with a short final switchover"
	default:
		ds.DataMigrationStrategy = "Export during the maintenance window and restore into the target"
	}

	switch {
	case cdc:
		ds.DowntimeEstimate = "minutes (final switchover only)"
	case db.SizeGB <= 100:
		ds.DowntimeEstimate = "1-2 hours"
	case db.SizeGB <= largeDatabaseGB:
		ds.DowntimeEstimate = "4-8 hours"
	default:
		ds.DowntimeEstimate = "12-24 hours"
	}
	return ds
}

func storageStrategy(cat providerCatalog, fs models.FileShare) models.StorageStrategy {
	ss := models.StorageStrategy{
		ShareName:     fs.ID,
		CurrentType:   "network file share",
		TargetType:    "object-store-" + string(fs.AccessTemperature),
		TargetService: cat.objectTiers[fs.AccessTemperature],
	}

	switch {
	case fs.SizeGB > bulkApplianceShareGB:
		ss.MigrationMethod = models.MethodBulkApplianceAsyncSync
		ss.MigrationTool = cat.transferBulk + " + " + cat.transferOnline
	case fs.SizeGB > asyncSyncShareGB:
		ss.MigrationMethod = models.MethodAsyncSync
		ss.MigrationTool = cat.transferOnline
	default:
		ss.MigrationMethod = models.MethodDirectCopy
		ss.MigrationTool = "rsync or robocopy"
	}

	switch {
	case fs.NeedsRealtimeSync:
		ss.SyncStrategy = "Continuous sync until cutover"
	case ss.MigrationMethod == models.MethodDirectCopy:
		ss.SyncStrategy = "Single pass copy with checksum verification"
	default:
		ss.SyncStrategy = "Scheduled incremental sync after the initial transfer"
	}

	if fs.DowntimeTolerance == models.DowntimeNone || fs.DowntimeTolerance == models.DowntimeLow {
		ss.CutoverApproach = "Switch client mounts after the final delta sync"
	} else {
		ss.CutoverApproach = "Freeze writes, run the final copy, then repoint clients"
	}
	return ss
}

func strategyAdvice(snap models.Snapshot, comps models.ComponentStrategies) models.StrategyAdvice {
	p := snap.Parameters.Provider
	adv := models.StrategyAdvice{
		QuickWins:                  []string{},
		CostOptimization:           []string{},
		PerformanceImprovements:    []string{},
		ModernizationOpportunities: []string{},
	}

	rehost := 0
	for _, s := range comps.Servers {
		if s.MigrationType == models.MigrationTypeRehost {
			rehost++
		}
	}
	if rehost > 0 {
		adv.QuickWins = append(adv.QuickWins, fmt.Sprintf("Rehost %d server(s) without code changes", rehost))
	}
	cold := 0
	for _, fs := range snap.FileShares {
		if fs.AccessTemperature == models.TemperatureCold {
			cold++
		}
	}
	if cold > 0 {
		adv.QuickWins = append(adv.QuickWins, fmt.Sprintf("Move %d cold file share(s) straight to the archive tier", cold))
	}
	adv.QuickWins = append(adv.QuickWins, "Stand up the landing zone and identity baseline first")

	managed := 0
	for _, ds := range comps.Databases {
		if _, ok := managedEquivalent(p, ds.CurrentEngine); ok {
			managed++
		}
	}
	if managed > 0 {
		adv.CostOptimization = append(adv.CostOptimization, fmt.Sprintf("Move %d database(s) to managed services to cut maintenance effort", managed))
	}
	for _, s := range snap.Servers {
		if s.UptimePattern == models.UptimeBusinessHours {
			adv.CostOptimization = append(adv.CostOptimization, "Schedule business-hours servers to stop overnight and at weekends")
			break
		}
	}
	adv.CostOptimization = append(adv.CostOptimization, "Right-size instances after 30 days of utilisation metrics")

	for _, s := range snap.Servers {
		if s.DiskClass == models.DiskHDD {
			adv.PerformanceImprovements = append(adv.PerformanceImprovements, "Move HDD-backed servers to SSD-class block storage where latency matters")
			break
		}
	}
	for _, db := range snap.Databases {
		if db.WriteIntensity == models.LevelHigh {
			adv.PerformanceImprovements = append(adv.PerformanceImprovements, fmt.Sprintf("Provision IOPS for write-heavy database %s", db.ID))
		}
	}
	adv.PerformanceImprovements = append(adv.PerformanceImprovements, fmt.Sprintf("Keep workloads in %s close to their users", snap.Parameters.Region))

	for _, s := range snap.Servers {
		for _, tech := range s.Technologies {
			if svc, ok := managedTechFor(p, tech); ok {
				adv.ModernizationOpportunities = append(adv.ModernizationOpportunities,
					fmt.Sprintf("Replace %s on %s with %s", tech, s.ID, svc))
			}
		}
		if reason := legacyReason(s); reason != "" {
			adv.ModernizationOpportunities = append(adv.ModernizationOpportunities,
				fmt.Sprintf("Refactor %s away from %s", s.ID, reason))
		}
	}
	if len(adv.ModernizationOpportunities) == 0 {
		adv.ModernizationOpportunities = append(adv.ModernizationOpportunities, "Containerise stateless services once they run in the cloud")
	}
	return adv
}

// assessRisks buckets inventory risk factors by severity. The mitigation map
// is keyed by risk text.
func assessRisks(snap models.Snapshot) models.RiskAssessment {
	ra := models.RiskAssessment{
		HighRisks:            []string{},
		MediumRisks:          []string{},
		LowRisks:             []string{},
		MitigationStrategies: map[string]string{},
	}
	add := func(bucket *[]string, risk, mitigation string) {
		*bucket = append(*bucket, risk)
		ra.MitigationStrategies[risk] = mitigation
	}

	for _, db := range snap.Databases {
		if db.SizeGB > largeDatabaseGB {
			add(&ra.HighRisks, fmt.Sprintf("Database %s exceeds 1 TB (%d GB)", db.ID, db.SizeGB),
				"Seed from backups early and rehearse the transfer window")
		}
		if db.DowntimeTolerance == models.DowntimeNone {
			add(&ra.HighRisks, fmt.Sprintf("Database %s requires zero downtime", db.ID),
				"Use change data capture with a tested rollback path")
		}
		if db.NeedsRealtimeSync {
			add(&ra.HighRisks, fmt.Sprintf("Database %s requires real-time synchronisation", db.ID),
				"Monitor replication lag and gate cutover on it")
		}
		if db.Licensing == models.LicensingCommercial {
			add(&ra.MediumRisks, fmt.Sprintf("Commercial licence for database %s must be revalidated in the cloud", db.ID),
				"Confirm licence mobility or switch to licence-included pricing")
		}
	}
	for _, fs := range snap.FileShares {
		if fs.DowntimeTolerance == models.DowntimeNone {
			add(&ra.HighRisks, fmt.Sprintf("File share %s requires zero downtime", fs.ID),
				"Run continuous sync and switch mounts during a brief freeze")
		}
		if fs.NeedsRealtimeSync {
			add(&ra.HighRisks, fmt.Sprintf("File share %s requires real-time synchronisation", fs.ID),
				"Keep bidirectional sync until all clients are repointed")
		}
	}
	if n := len(snap.Servers); n > largeServerEstate {
		add(&ra.HighRisks, fmt.Sprintf("Large server estate (%d servers) increases coordination effort", n),
			"Migrate in waves grouped by application dependency")
	}
	for _, s := range snap.Servers {
		if reason := legacyReason(s); reason != "" {
			add(&ra.MediumRisks, fmt.Sprintf("Server %s runs %s", s.ID, reason),
				"Budget time to replatform and regression test")
		}
	}

	if len(ra.HighRisks) == 0 && len(ra.MediumRisks) == 0 {
		add(&ra.LowRisks, noSignificantRiskNotice, "Follow the standard runbook and validation checklist")
	}
	add(&ra.LowRisks, lowRiskFallback, "Manage infrastructure as code and compare configuration after cutover")
	return ra
}

func strategicRecommendations(snap models.Snapshot, comps models.ComponentStrategies) []string {
	recs := []string{"Prove tooling and runbooks in the pilot before the first production wave"}
	replatform := 0
	for _, s := range comps.Servers {
		if s.MigrationType == models.MigrationTypeReplatform {
			replatform++
		}
	}
	if replatform > 0 {
		recs = append(recs, fmt.Sprintf("Schedule the %d replatformed server(s) after their databases migrate", replatform))
	}
	if len(snap.Databases) > 0 {
		recs = append(recs, "Establish database replication before moving the applications that depend on it")
	}
	if len(snap.FileShares) > 0 {
		recs = append(recs, "Start bulk storage transfer early; it runs alongside application migration")
	}
	return recs
}

func displayOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
