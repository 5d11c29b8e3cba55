// ABOUTME: Rule-based cost estimate: instance sizing, storage tiering, and services cost
// ABOUTME: Every component cost is rounded to cents before it is summed

package services

import (
	"fmt"

	"github.com/markalston/migration-advisor/models"
)

// EstimateCost prices every component in the snapshot.
func (r *RuleAdvisor) EstimateCost(snap models.Snapshot) models.CostEstimate {
	cat := catalogFor(snap.Parameters.Provider)

	servers := models.ServerCosts{ServerRecommendations: make([]models.ServerRecommendation, 0, len(snap.Servers))}
	for _, s := range snap.Servers {
		rec := r.priceServer(cat, s)
		servers.TotalMonthlyCost += rec.MonthlyCost
		servers.ServerRecommendations = append(servers.ServerRecommendations, rec)
	}
	servers.TotalMonthlyCost = round2(servers.TotalMonthlyCost)
	servers.TotalAnnualCost = round2(servers.TotalMonthlyCost * 12)

	databases := models.DatabaseCosts{DatabaseRecommendations: make([]models.DatabaseRecommendation, 0, len(snap.Databases))}
	for _, db := range snap.Databases {
		rec := r.priceDatabase(cat, snap.Parameters.Provider, db)
		databases.TotalMonthlyCost += rec.MonthlyCost
		databases.DatabaseRecommendations = append(databases.DatabaseRecommendations, rec)
	}
	databases.TotalMonthlyCost = round2(databases.TotalMonthlyCost)
	databases.TotalAnnualCost = round2(databases.TotalMonthlyCost * 12)

	storage := models.StorageCosts{StorageRecommendations: make([]models.StorageRecommendation, 0, len(snap.FileShares))}
	for _, fs := range snap.FileShares {
		rec := r.priceShare(cat, fs)
		storage.TotalMonthlyCost += rec.MonthlyCost
		storage.StorageRecommendations = append(storage.StorageRecommendations, rec)
	}
	storage.TotalMonthlyCost = round2(storage.TotalMonthlyCost)
	storage.TotalAnnualCost = round2(storage.TotalMonthlyCost * 12)

	infra := models.CloudInfrastructure{
		Servers:          servers,
		Databases:        databases,
		Storage:          storage,
		TotalMonthlyCost: round2(servers.TotalMonthlyCost + databases.TotalMonthlyCost + storage.TotalMonthlyCost),
	}
	infra.TotalAnnualCost = round2(infra.TotalMonthlyCost * 12)

	staffing := r.migrationServices(snap)

	est := models.CostEstimate{
		GrandTotal: models.GrandTotal{
			AnnualCloudCost:      infra.TotalAnnualCost,
			OneTimeMigrationCost: staffing.TotalProfessionalServicesCost,
			TotalFirstYearCost:   round2(infra.TotalAnnualCost + staffing.TotalProfessionalServicesCost),
		},
		CloudInfrastructure: infra,
		MigrationServices:   staffing,
	}
	est.AIInsights = models.CostInsights{
		Provenance:           ruleProvenance(ruleConfidenceCost),
		CostOptimizationTips: costTips(snap),
		Recommendations:      costRecommendations(snap, est.GrandTotal),
	}
	return est
}

// selectInstance returns the cheapest class that fits the server. Equal
// prices prefer burstable for business-hours servers and general-purpose
// otherwise. When nothing fits, the largest class is returned with fits=false.
func (r *RuleAdvisor) selectInstance(s models.Server) (InstanceClass, bool) {
	preferred := FamilyGeneralPurpose
	if s.UptimePattern == models.UptimeBusinessHours {
		preferred = FamilyBurstable
	}

	var best *InstanceClass
	for i := range r.prices.InstanceClasses {
		c := &r.prices.InstanceClasses[i]
		if c.VCPU < s.VCPU || c.RAMGB < s.RAMGB {
			continue
		}
		switch {
		case best == nil, c.Hourly < best.Hourly:
			best = c
		case c.Hourly == best.Hourly && c.Family == preferred && best.Family != preferred:
			best = c
		}
	}
	if best != nil {
		return *best, true
	}

	largest := r.prices.InstanceClasses[0]
	for _, c := range r.prices.InstanceClasses[1:] {
		if c.VCPU > largest.VCPU || (c.VCPU == largest.VCPU && c.RAMGB > largest.RAMGB) {
			largest = c
		}
	}
	return largest, false
}

func (r *RuleAdvisor) priceServer(cat providerCatalog, s models.Server) models.ServerRecommendation {
	class, fits := r.selectInstance(s)
	unit := r.prices.diskUnitPrice(s.DiskClass)
	compute := class.Hourly * r.prices.HoursPerMonth
	disk := float64(s.DiskGB) * unit
	monthly := round2(compute + disk)

	reasoning := fmt.Sprintf("Cheapest %s class covering %d vCPU and %d GB RAM", class.Family, s.VCPU, s.RAMGB)
	if !fits {
		reasoning = fmt.Sprintf("No class fits; largest class %s (%d vCPU, %d GB RAM) leaves the server undersized, validate sizing manually",
			class.Name, class.VCPU, class.RAMGB)
	} else if s.UptimePattern == models.UptimeBusinessHours && class.Family == FamilyBurstable {
		reasoning += "; burstable suits business-hours usage"
	}

	return models.ServerRecommendation{
		ServerID:            s.ID,
		CurrentSpecs:        fmt.Sprintf("%d vCPU, %d GB RAM, %d GB %s", s.VCPU, s.RAMGB, s.DiskGB, s.DiskClass),
		InstanceClass:       class.Name,
		RecommendedInstance: cat.instanceSKU(class.Name),
		StorageType:         cat.blockStorage(s.DiskClass),
		ComputeMonthlyCost:  round2(compute),
		StorageMonthlyCost:  round2(disk),
		MonthlyCost:         monthly,
		AnnualCost:          round2(monthly * 12),
		Reasoning:           reasoning,
	}
}

// selectDatabaseClass buckets by size and promotes one bucket for HA,
// capped at the largest class.
func (r *RuleAdvisor) selectDatabaseClass(db models.Database) DatabaseClass {
	classes := r.prices.DatabaseClasses
	idx := len(classes) - 1
	for i, c := range classes {
		if c.MaxSizeGB == 0 || db.SizeGB <= c.MaxSizeGB {
			idx = i
			break
		}
	}
	if db.HARequired && idx < len(classes)-1 {
		idx++
	}
	return classes[idx]
}

func (r *RuleAdvisor) priceDatabase(cat providerCatalog, p models.Provider, db models.Database) models.DatabaseRecommendation {
	class := r.selectDatabaseClass(db)
	managed, _ := managedEquivalent(p, db.EngineFamily)

	backup := 0.0
	if db.BackupCadence == models.BackupDaily {
		backup = float64(db.SizeGB) * r.prices.Backup
	}
	monthly := round2(class.Hourly*r.prices.HoursPerMonth + float64(db.SizeGB)*r.prices.ManagedStorage + backup)

	reasoning := fmt.Sprintf("%d GB fits the %s size bucket", db.SizeGB, class.Name)
	if db.HARequired {
		reasoning += "; promoted one bucket for multi-zone high availability"
	}
	if backup > 0 {
		reasoning += "; includes daily backup storage"
	}

	return models.DatabaseRecommendation{
		DBName:              db.ID,
		Engine:              db.EngineFamily,
		SizeGB:              db.SizeGB,
		InstanceClass:       class.Name,
		RecommendedInstance: cat.databaseSKU(class.Name),
		ManagedService:      managed,
		MultiAZ:             db.HARequired,
		BackupMonthlyCost:   round2(backup),
		MonthlyCost:         monthly,
		AnnualCost:          round2(monthly * 12),
		Reasoning:           reasoning,
	}
}

func storageClassFor(t models.Temperature) string {
	switch t {
	case models.TemperatureHot:
		return "standard"
	case models.TemperatureWarm:
		return "infrequent-access"
	default:
		return "archive"
	}
}

func (r *RuleAdvisor) priceShare(cat providerCatalog, fs models.FileShare) models.StorageRecommendation {
	class := storageClassFor(fs.AccessTemperature)
	monthly := round2(float64(fs.SizeGB) * r.prices.objectUnitPrice(fs.AccessTemperature))
	return models.StorageRecommendation{
		ShareName:          fs.ID,
		SizeGB:             fs.SizeGB,
		AccessPattern:      string(fs.AccessTemperature),
		StorageClass:       class,
		RecommendedStorage: cat.objectTiers[fs.AccessTemperature],
		MonthlyCost:        monthly,
		AnnualCost:         round2(monthly * 12),
		Reasoning:          fmt.Sprintf("%s access maps to the %s tier", fs.AccessTemperature, class),
	}
}

// migrationServices prices recorded resource rates, or the default roles
// sized by the number of servers and databases when none are recorded.
func (r *RuleAdvisor) migrationServices(snap models.Snapshot) models.MigrationServices {
	ms := models.MigrationServices{ResourceBreakdown: []models.ResourceCostEntry{}}

	if len(snap.Rates) > 0 {
		for _, rate := range snap.Rates {
			entry := models.ResourceCostEntry{
				Role:         rate.Role,
				Weeks:        rate.Weeks,
				HoursPerWeek: rate.HoursPerWeek,
				RatePerHour:  rate.RatePerHour,
				TotalCost:    round2(rate.Total()),
			}
			ms.TotalProfessionalServicesCost += entry.TotalCost
			ms.ResourceBreakdown = append(ms.ResourceBreakdown, entry)
		}
		ms.TotalProfessionalServicesCost = round2(ms.TotalProfessionalServicesCost)
		return ms
	}

	weeks := (len(snap.Servers) + len(snap.Databases)) * r.prices.WeeksPerComponent
	if weeks == 0 {
		return ms
	}
	for _, role := range r.prices.DefaultRoles {
		entry := models.ResourceCostEntry{
			Role:         role.Role,
			Weeks:        weeks,
			HoursPerWeek: role.HoursPerWeek,
			RatePerHour:  role.RatePerHour,
			TotalCost:    round2(float64(weeks*role.HoursPerWeek) * role.RatePerHour),
		}
		ms.TotalProfessionalServicesCost += entry.TotalCost
		ms.ResourceBreakdown = append(ms.ResourceBreakdown, entry)
	}
	ms.TotalProfessionalServicesCost = round2(ms.TotalProfessionalServicesCost)
	return ms
}

func costTips(snap models.Snapshot) []string {
	var businessHours, alwaysOn, hdd int
	for _, s := range snap.Servers {
		switch s.UptimePattern {
		case models.UptimeBusinessHours:
			businessHours++
		case models.UptimeAlwaysOn:
			alwaysOn++
		}
		if s.DiskClass == models.DiskHDD {
			hdd++
		}
	}
	var coolShares int
	for _, fs := range snap.FileShares {
		if fs.AccessTemperature != models.TemperatureHot {
			coolShares++
		}
	}

	tips := []string{}
	if businessHours > 0 {
		tips = append(tips, fmt.Sprintf("Schedule %d business-hours server(s) to stop outside working hours", businessHours))
	}
	if alwaysOn > 0 {
		tips = append(tips, fmt.Sprintf("Commit to 1-year reserved capacity for %d always-on server(s)", alwaysOn))
	}
	if hdd > 0 {
		tips = append(tips, fmt.Sprintf("Keep throughput-optimised block storage for %d HDD-backed server(s) unless latency matters", hdd))
	}
	if coolShares > 0 {
		tips = append(tips, fmt.Sprintf("Apply lifecycle policies to %d warm or cold file share(s)", coolShares))
	}
	tips = append(tips, "Right-size instances after 30 days of utilisation metrics in the target cloud")
	return tips
}

func costRecommendations(snap models.Snapshot, total models.GrandTotal) []string {
	recs := []string{}
	if budget := snap.Constraints.BudgetCap; budget > 0 && total.TotalFirstYearCost > budget {
		recs = append(recs, fmt.Sprintf("Projected first-year cost %.2f exceeds the budget cap %.2f by %.2f",
			total.TotalFirstYearCost, budget, round2(total.TotalFirstYearCost-budget)))
	}
	for _, db := range snap.Databases {
		if _, ok := managedEquivalent(snap.Parameters.Provider, db.EngineFamily); !ok {
			recs = append(recs, fmt.Sprintf("Database %s has no managed equivalent on %s; budget for self-managed virtual machines",
				db.ID, snap.Parameters.Provider))
		}
		if db.Licensing == models.LicensingCommercial {
			recs = append(recs, fmt.Sprintf("Review bring-your-own-licence options for database %s", db.ID))
		}
	}
	recs = append(recs, fmt.Sprintf("Validate prices with the %s pricing calculator for %s", snap.Parameters.Provider, snap.Parameters.Region))
	return recs
}
