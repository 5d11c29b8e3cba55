// ABOUTME: Inventory projection from raw store rows into an engine snapshot
// ABOUTME: Applies defaults, coerces enumerations, and resolves server references

package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/markalston/migration-advisor/models"
	"github.com/markalston/migration-advisor/store"
)

// Defaults applied when neither the request nor the store supplies a value.
const (
	DefaultProvider   = models.ProviderAWS
	DefaultRegion     = "us-east-1"
	DefaultComplexity = models.LevelMedium
)

// InventoryReader reads the raw inventory in one pass.
type InventoryReader interface {
	ReadInventory(ctx context.Context) (*store.Inventory, error)
}

// SnapshotError reports that the inventory store could not be read.
type SnapshotError struct {
	Err error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot-unavailable: %v", e.Err)
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}

// InventoryProjector materialises snapshots for engine calls.
type InventoryProjector struct {
	reader InventoryReader
}

// NewInventoryProjector creates a projector over the given reader.
func NewInventoryProjector(reader InventoryReader) *InventoryProjector {
	return &InventoryProjector{reader: reader}
}

// Snapshot reads the store once and projects it. Non-empty fields of
// override take precedence over the stored cloud preference.
func (p *InventoryProjector) Snapshot(ctx context.Context, override models.TargetParameters) (models.Snapshot, error) {
	if p.reader == nil {
		return models.Snapshot{}, &SnapshotError{Err: fmt.Errorf("no inventory store configured")}
	}
	inv, err := p.reader.ReadInventory(ctx)
	if err != nil {
		return models.Snapshot{}, &SnapshotError{Err: err}
	}
	return Project(inv, override), nil
}

// Project converts raw rows into a snapshot. It never fails; bad values are
// coerced or dropped.
func Project(inv *store.Inventory, override models.TargetParameters) models.Snapshot {
	snap := models.Snapshot{
		Servers:    make([]models.Server, 0, len(inv.Servers)),
		Databases:  make([]models.Database, 0, len(inv.Databases)),
		FileShares: make([]models.FileShare, 0, len(inv.FileShares)),
	}

	index := make(map[string]int, len(inv.Servers))
	for _, r := range inv.Servers {
		index[r.ServerID] = len(snap.Servers)
		snap.Servers = append(snap.Servers, models.Server{
			ID:             r.ServerID,
			OSFamily:       strings.TrimSpace(r.OSType),
			VCPU:           atLeast(r.VCPU, 1),
			RAMGB:          atLeast(r.RAM, 1),
			DiskGB:         atLeast(r.DiskSize, 1),
			DiskClass:      coerceDiskClass(r.DiskType),
			UptimePattern:  coerceUptime(r.UptimePattern),
			CurrentHosting: strings.TrimSpace(r.CurrentHosting),
			Technologies:   splitTags(r.Technology),
		})
	}

	for _, r := range inv.Databases {
		snap.Databases = append(snap.Databases, models.Database{
			ID:                r.DBName,
			EngineFamily:      strings.TrimSpace(r.DBType),
			SizeGB:            atLeast(r.SizeGB, 0),
			HARequired:        r.HADRRequired,
			BackupCadence:     coerceBackup(r.BackupFrequency),
			Licensing:         coerceLicensing(r.LicensingModel),
			WriteIntensity:    coerceLevel(r.WriteFrequency),
			DowntimeTolerance: coerceDowntime(r.DowntimeTolerance),
			NeedsRealtimeSync: r.RealTimeSync,
			BoundServer:       resolveServer(index, r.ServerID, "database", r.DBName),
		})
	}

	for _, r := range inv.FileShares {
		snap.FileShares = append(snap.FileShares, models.FileShare{
			ID:                r.ShareName,
			SizeGB:            atLeast(r.TotalSizeGB, 0),
			AccessTemperature: coerceTemperature(r.AccessPattern),
			SnapshotsRequired: r.SnapshotRequired,
			RetentionDays:     atLeast(r.RetentionDays, 0),
			WriteIntensity:    coerceLevel(r.WriteFrequency),
			DowntimeTolerance: coerceDowntime(r.DowntimeTolerance),
			NeedsRealtimeSync: r.RealTimeSync,
			BoundServer:       resolveServer(index, r.ServerID, "file share", r.ShareName),
		})
	}

	for _, r := range inv.Rates {
		if r.DurationWeeks < 1 || r.HoursPerWeek < 1 || r.HoursPerWeek > 168 || r.RatePerHour <= 0 {
			slog.Warn("Dropping invalid resource rate", "role", r.Role,
				"weeks", r.DurationWeeks, "hours_per_week", r.HoursPerWeek, "rate_per_hour", r.RatePerHour)
			continue
		}
		snap.Rates = append(snap.Rates, models.ResourceRate{
			Role:         strings.TrimSpace(r.Role),
			Weeks:        r.DurationWeeks,
			HoursPerWeek: r.HoursPerWeek,
			RatePerHour:  r.RatePerHour,
		})
	}

	snap.Parameters, snap.ProviderDefaulted = resolveParameters(inv.Preference, override)
	if inv.Constraints != nil {
		snap.Constraints = projectConstraints(*inv.Constraints)
	}
	return snap
}

// resolveParameters merges the stored preference and the request. The bool
// reports that the provider fell through to DefaultProvider.
func resolveParameters(pref *store.PreferenceRow, override models.TargetParameters) (models.TargetParameters, bool) {
	params := models.TargetParameters{
		Provider:       DefaultProvider,
		Region:         DefaultRegion,
		ComplexityHint: DefaultComplexity,
	}
	defaulted := true
	if pref != nil {
		if p, ok := models.ParseProvider(pref.CloudProvider); ok {
			params.Provider = p
			defaulted = false
		}
		if r := strings.TrimSpace(pref.Region); r != "" {
			params.Region = r
		}
	}
	if override.Provider != "" {
		params.Provider = override.Provider
		defaulted = false
	}
	if override.Region != "" {
		params.Region = override.Region
	}
	if override.ComplexityHint != "" {
		params.ComplexityHint = override.ComplexityHint
	}
	return params, defaulted
}

func projectConstraints(c store.ConstraintRow) models.BusinessConstraints {
	bc := models.BusinessConstraints{
		MigrationWindow: strings.TrimSpace(c.MigrationWindow),
		BudgetCap:       c.BudgetCap,
	}
	if c.DowntimeTolerance != "" {
		bc.DowntimeTolerance = coerceDowntime(c.DowntimeTolerance)
	}
	if c.CutoverDate != "" {
		if d, err := time.Parse(models.DateLayout, strings.TrimSpace(c.CutoverDate)); err == nil {
			bc.CutoverDate = &d
		} else {
			slog.Warn("Ignoring unparseable cutover date", "value", sanitizeForLog(c.CutoverDate))
		}
	}
	if bc.BudgetCap < 0 {
		bc.BudgetCap = 0
	}
	return bc
}

func resolveServer(index map[string]int, serverID, kind, name string) *int {
	serverID = strings.TrimSpace(serverID)
	if serverID == "" {
		return nil
	}
	idx, ok := index[serverID]
	if !ok {
		slog.Warn("Dropping dangling server reference", "kind", kind, "name", name, "server_id", sanitizeForLog(serverID))
		return nil
	}
	return &idx
}

func atLeast(v, min int) int {
	if v < min {
		return min
	}
	return v
}

func splitTags(csv string) []string {
	tags := []string{}
	for _, part := range strings.Split(csv, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func coerceDiskClass(s string) models.DiskClass {
	switch norm(s) {
	case "ssd", "nvme", "flash":
		return models.DiskSSD
	case "hdd", "sas", "sata":
		return models.DiskHDD
	}
	return models.DiskOther
}

func coerceUptime(s string) models.UptimePattern {
	switch norm(s) {
	case "always-on", "always on", "24/7", "24x7":
		return models.UptimeAlwaysOn
	case "business-hours", "business hours", "business_hours":
		return models.UptimeBusinessHours
	case "extended", "extended-hours", "extended hours":
		return models.UptimeExtended
	}
	return models.UptimeOther
}

// coerceBackup defaults to none: an unknown cadence never adds a backup surcharge.
func coerceBackup(s string) models.BackupCadence {
	switch models.BackupCadence(norm(s)) {
	case models.BackupDaily:
		return models.BackupDaily
	case models.BackupWeekly:
		return models.BackupWeekly
	case models.BackupMonthly:
		return models.BackupMonthly
	}
	return models.BackupNone
}

func coerceLicensing(s string) models.Licensing {
	switch norm(s) {
	case "commercial", "proprietary", "enterprise":
		return models.LicensingCommercial
	case "open-source", "open source", "opensource", "oss":
		return models.LicensingOpenSource
	}
	return models.LicensingOther
}

func coerceLevel(s string) models.Level {
	if l, ok := models.ParseLevel(s); ok {
		return l
	}
	return models.LevelMedium
}

func coerceDowntime(s string) models.DowntimeTolerance {
	switch models.DowntimeTolerance(norm(s)) {
	case models.DowntimeNone, "zero":
		return models.DowntimeNone
	case models.DowntimeLow:
		return models.DowntimeLow
	case models.DowntimeHigh:
		return models.DowntimeHigh
	}
	return models.DowntimeMedium
}

func coerceTemperature(s string) models.Temperature {
	switch models.Temperature(norm(s)) {
	case models.TemperatureHot, "frequent":
		return models.TemperatureHot
	case models.TemperatureCold, "archive", "rare":
		return models.TemperatureCold
	}
	return models.TemperatureWarm
}
