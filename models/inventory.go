// ABOUTME: Inventory types projected from the store for a single engine call
// ABOUTME: Servers, databases, file shares, rates, and target-cloud parameters

package models

import (
	"strings"
	"time"
)

// DiskClass is the storage medium backing a server.
type DiskClass string

const (
	DiskSSD   DiskClass = "SSD"
	DiskHDD   DiskClass = "HDD"
	DiskOther DiskClass = "other"
)

// UptimePattern describes when a server needs to run.
type UptimePattern string

const (
	UptimeAlwaysOn      UptimePattern = "always-on"
	UptimeBusinessHours UptimePattern = "business-hours"
	UptimeExtended      UptimePattern = "extended"
	UptimeOther         UptimePattern = "other"
)

// BackupCadence is how often a database is backed up.
type BackupCadence string

const (
	BackupDaily   BackupCadence = "daily"
	BackupWeekly  BackupCadence = "weekly"
	BackupMonthly BackupCadence = "monthly"
	BackupNone    BackupCadence = "none"
)

// Licensing is the database licensing model.
type Licensing string

const (
	LicensingCommercial Licensing = "commercial"
	LicensingOpenSource Licensing = "open-source"
	LicensingOther      Licensing = "other"
)

// Level is a low/medium/high rating used for write intensity and complexity.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Rank orders levels so they can be compared.
func (l Level) Rank() int {
	switch l {
	case LevelLow:
		return 1
	case LevelHigh:
		return 3
	default:
		return 2
	}
}

// DowntimeTolerance is how much outage a component can absorb during cutover.
type DowntimeTolerance string

const (
	DowntimeNone   DowntimeTolerance = "none"
	DowntimeLow    DowntimeTolerance = "low"
	DowntimeMedium DowntimeTolerance = "medium"
	DowntimeHigh   DowntimeTolerance = "high"
)

// Temperature is the access frequency of a file share.
type Temperature string

const (
	TemperatureHot  Temperature = "hot"
	TemperatureWarm Temperature = "warm"
	TemperatureCold Temperature = "cold"
)

// Provider is a target cloud.
type Provider string

const (
	ProviderAWS   Provider = "AWS"
	ProviderAzure Provider = "Azure"
	ProviderGCP   Provider = "GCP"
)

// ParseProvider matches a provider name case-insensitively.
func ParseProvider(s string) (Provider, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aws":
		return ProviderAWS, true
	case "azure":
		return ProviderAzure, true
	case "gcp", "google", "google cloud":
		return ProviderGCP, true
	}
	return "", false
}

// ParseLevel matches a low/medium/high value case-insensitively.
func ParseLevel(s string) (Level, bool) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelLow:
		return LevelLow, true
	case LevelMedium:
		return LevelMedium, true
	case LevelHigh:
		return LevelHigh, true
	}
	return "", false
}

// Server is an on-premise host to be migrated.
type Server struct {
	ID             string        `json:"server_id"`
	OSFamily       string        `json:"os_type"`
	VCPU           int           `json:"vcpu"`
	RAMGB          int           `json:"ram_gb"`
	DiskGB         int           `json:"disk_gb"`
	DiskClass      DiskClass     `json:"disk_type"`
	UptimePattern  UptimePattern `json:"uptime_pattern"`
	CurrentHosting string        `json:"current_hosting"`
	Technologies   []string      `json:"technologies"`
}

// Database is an on-premise database instance.
// BoundServer indexes into Snapshot.Servers when the database runs on a known server.
type Database struct {
	ID                string            `json:"db_name"`
	EngineFamily      string            `json:"db_type"`
	SizeGB            int               `json:"size_gb"`
	HARequired        bool              `json:"ha_dr_required"`
	BackupCadence     BackupCadence     `json:"backup_frequency"`
	Licensing         Licensing         `json:"licensing_model"`
	WriteIntensity    Level             `json:"write_frequency"`
	DowntimeTolerance DowntimeTolerance `json:"downtime_tolerance"`
	NeedsRealtimeSync bool              `json:"real_time_sync"`
	BoundServer       *int              `json:"-"`
}

// FileShare is an on-premise file share.
type FileShare struct {
	ID                string            `json:"share_name"`
	SizeGB            int               `json:"total_size_gb"`
	AccessTemperature Temperature       `json:"access_pattern"`
	SnapshotsRequired bool              `json:"snapshot_required"`
	RetentionDays     int               `json:"retention_days"`
	WriteIntensity    Level             `json:"write_frequency"`
	DowntimeTolerance DowntimeTolerance `json:"downtime_tolerance"`
	NeedsRealtimeSync bool              `json:"real_time_sync"`
	BoundServer       *int              `json:"-"`
}

// ResourceRate is a staffed role used to cost the migration effort.
type ResourceRate struct {
	Role         string  `json:"role"`
	Weeks        int     `json:"duration_weeks"`
	HoursPerWeek int     `json:"hours_per_week"`
	RatePerHour  float64 `json:"rate_per_hour"`
}

// Total returns the one-time cost contributed by this role.
func (r ResourceRate) Total() float64 {
	return float64(r.Weeks*r.HoursPerWeek) * r.RatePerHour
}

// TargetParameters select the destination cloud for an engine call.
type TargetParameters struct {
	Provider       Provider `json:"provider"`
	Region         string   `json:"region"`
	ComplexityHint Level    `json:"complexity"`
}

// BusinessConstraints are optional project-level limits recorded with the inventory.
type BusinessConstraints struct {
	MigrationWindow   string            `json:"migration_window,omitempty"`
	CutoverDate       *time.Time        `json:"cutover_date,omitempty"`
	DowntimeTolerance DowntimeTolerance `json:"downtime_tolerance,omitempty"`
	BudgetCap         float64           `json:"budget_cap,omitempty"`
}

// Snapshot is the immutable inventory view handed to the advisory engine.
type Snapshot struct {
	Servers     []Server            `json:"servers"`
	Databases   []Database          `json:"databases"`
	FileShares  []FileShare         `json:"file_shares"`
	Rates       []ResourceRate      `json:"resource_rates,omitempty"`
	Parameters  TargetParameters    `json:"target"`
	Constraints BusinessConstraints `json:"business_constraints"`

	// ProviderDefaulted is set when neither the request nor a stored
	// preference named a usable provider.
	ProviderDefaulted bool `json:"-"`
}

// ComponentCount returns the number of migratable components.
func (s Snapshot) ComponentCount() int {
	return len(s.Servers) + len(s.Databases) + len(s.FileShares)
}

// BoundServerID resolves a server index to its ID, or "" when unbound.
func (s Snapshot) BoundServerID(idx *int) string {
	if idx == nil || *idx < 0 || *idx >= len(s.Servers) {
		return ""
	}
	return s.Servers[*idx].ID
}

// InventorySummary reports snapshot counts for the summary endpoint.
type InventorySummary struct {
	Servers      int              `json:"servers"`
	Databases    int              `json:"databases"`
	FileShares   int              `json:"file_shares"`
	Rates        int              `json:"resource_rates"`
	TotalVCPU    int              `json:"total_vcpu"`
	TotalRAMGB   int              `json:"total_ram_gb"`
	TotalDataGB  int              `json:"total_data_gb"`
	Target       TargetParameters `json:"target"`
	HasTimeframe bool             `json:"has_cutover_date"`
}

// Summarize computes inventory totals.
func (s Snapshot) Summarize() InventorySummary {
	sum := InventorySummary{
		Servers:      len(s.Servers),
		Databases:    len(s.Databases),
		FileShares:   len(s.FileShares),
		Rates:        len(s.Rates),
		Target:       s.Parameters,
		HasTimeframe: s.Constraints.CutoverDate != nil,
	}
	for _, srv := range s.Servers {
		sum.TotalVCPU += srv.VCPU
		sum.TotalRAMGB += srv.RAMGB
		sum.TotalDataGB += srv.DiskGB
	}
	for _, db := range s.Databases {
		sum.TotalDataGB += db.SizeGB
	}
	for _, fs := range s.FileShares {
		sum.TotalDataGB += fs.SizeGB
	}
	return sum
}
