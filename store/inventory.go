// ABOUTME: Raw inventory rows and their read/write queries
// ABOUTME: Values are stored as entered; coercion happens in the projection layer

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ServerRow is a servers table row.
type ServerRow struct {
	ServerID       string `yaml:"server_id"`
	OSType         string `yaml:"os_type"`
	VCPU           int    `yaml:"vcpu"`
	RAM            int    `yaml:"ram"`
	DiskSize       int    `yaml:"disk_size"`
	DiskType       string `yaml:"disk_type"`
	UptimePattern  string `yaml:"uptime_pattern"`
	CurrentHosting string `yaml:"current_hosting"`
	Technology     string `yaml:"technology"` // comma-separated tags
}

// DatabaseRow is a databases table row.
type DatabaseRow struct {
	DBName            string `yaml:"db_name"`
	DBType            string `yaml:"db_type"`
	SizeGB            int    `yaml:"size_gb"`
	HADRRequired      bool   `yaml:"ha_dr_required"`
	BackupFrequency   string `yaml:"backup_frequency"`
	LicensingModel    string `yaml:"licensing_model"`
	ServerID          string `yaml:"server_id"`
	WriteFrequency    string `yaml:"write_frequency"`
	DowntimeTolerance string `yaml:"downtime_tolerance"`
	RealTimeSync      bool   `yaml:"real_time_sync"`
}

// FileShareRow is a file_shares table row.
type FileShareRow struct {
	ShareName         string `yaml:"share_name"`
	TotalSizeGB       int    `yaml:"total_size_gb"`
	AccessPattern     string `yaml:"access_pattern"`
	SnapshotRequired  bool   `yaml:"snapshot_required"`
	RetentionDays     int    `yaml:"retention_days"`
	ServerID          string `yaml:"server_id"`
	WriteFrequency    string `yaml:"write_frequency"`
	DowntimeTolerance string `yaml:"downtime_tolerance"`
	RealTimeSync      bool   `yaml:"real_time_sync"`
}

// RateRow is a resource_rates table row.
type RateRow struct {
	Role          string  `yaml:"role"`
	DurationWeeks int     `yaml:"duration_weeks"`
	HoursPerWeek  int     `yaml:"hours_per_week"`
	RatePerHour   float64 `yaml:"rate_per_hour"`
}

// PreferenceRow is the single cloud_preferences row.
type PreferenceRow struct {
	CloudProvider string `yaml:"cloud_provider"`
	Region        string `yaml:"region"`
}

// ConstraintRow is the single business_constraints row.
type ConstraintRow struct {
	MigrationWindow   string  `yaml:"migration_window"`
	CutoverDate       string  `yaml:"cutover_date"`
	DowntimeTolerance string  `yaml:"downtime_tolerance"`
	BudgetCap         float64 `yaml:"budget_cap"`
}

// Inventory is everything read in one pass.
type Inventory struct {
	Servers     []ServerRow
	Databases   []DatabaseRow
	FileShares  []FileShareRow
	Rates       []RateRow
	Preference  *PreferenceRow
	Constraints *ConstraintRow
}

// ReadInventory reads every inventory table inside one read-only transaction.
// Rows are ordered by key (rates by position) so snapshots are reproducible.
func (s *Store) ReadInventory(ctx context.Context) (*Inventory, error) {
	tx, err := s.conn.BeginTx(ctx, &sql.TxOptions{ReadOnly: s.driver == "pgx"})
	if err != nil {
		return nil, fmt.Errorf("begin read: %w", err)
	}
	defer tx.Rollback()

	inv := &Inventory{}

	if inv.Servers, err = readServers(ctx, tx); err != nil {
		return nil, fmt.Errorf("read servers: %w", err)
	}
	if inv.Databases, err = readDatabases(ctx, tx); err != nil {
		return nil, fmt.Errorf("read databases: %w", err)
	}
	if inv.FileShares, err = readFileShares(ctx, tx); err != nil {
		return nil, fmt.Errorf("read file shares: %w", err)
	}
	if inv.Rates, err = readRates(ctx, tx); err != nil {
		return nil, fmt.Errorf("read resource rates: %w", err)
	}

	var pref PreferenceRow
	err = tx.QueryRowContext(ctx, `SELECT cloud_provider, region FROM cloud_preferences ORDER BY id LIMIT 1`).
		Scan(&pref.CloudProvider, &pref.Region)
	switch {
	case err == nil:
		inv.Preference = &pref
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("read cloud preferences: %w", err)
	}

	var c ConstraintRow
	err = tx.QueryRowContext(ctx, `SELECT migration_window, cutover_date, downtime_tolerance, budget_cap
		FROM business_constraints ORDER BY id LIMIT 1`).
		Scan(&c.MigrationWindow, &c.CutoverDate, &c.DowntimeTolerance, &c.BudgetCap)
	switch {
	case err == nil:
		inv.Constraints = &c
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("read business constraints: %w", err)
	}

	return inv, nil
}

func readServers(ctx context.Context, tx *sql.Tx) ([]ServerRow, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT server_id, os_type, vcpu, ram, disk_size, disk_type, uptime_pattern, current_hosting, technology
		FROM servers ORDER BY server_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ServerRow
	for rows.Next() {
		var r ServerRow
		if err := rows.Scan(&r.ServerID, &r.OSType, &r.VCPU, &r.RAM, &r.DiskSize,
			&r.DiskType, &r.UptimePattern, &r.CurrentHosting, &r.Technology); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func readDatabases(ctx context.Context, tx *sql.Tx) ([]DatabaseRow, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT db_name, db_type, size_gb, ha_dr_required, backup_frequency, licensing_model,
		       server_id, write_frequency, downtime_tolerance, real_time_sync
		FROM databases ORDER BY db_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DatabaseRow
	for rows.Next() {
		var r DatabaseRow
		if err := rows.Scan(&r.DBName, &r.DBType, &r.SizeGB, &r.HADRRequired, &r.BackupFrequency,
			&r.LicensingModel, &r.ServerID, &r.WriteFrequency, &r.DowntimeTolerance, &r.RealTimeSync); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func readFileShares(ctx context.Context, tx *sql.Tx) ([]FileShareRow, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT share_name, total_size_gb, access_pattern, snapshot_required, retention_days,
		       server_id, write_frequency, downtime_tolerance, real_time_sync
		FROM file_shares ORDER BY share_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FileShareRow
	for rows.Next() {
		var r FileShareRow
		if err := rows.Scan(&r.ShareName, &r.TotalSizeGB, &r.AccessPattern, &r.SnapshotRequired,
			&r.RetentionDays, &r.ServerID, &r.WriteFrequency, &r.DowntimeTolerance, &r.RealTimeSync); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func readRates(ctx context.Context, tx *sql.Tx) ([]RateRow, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT role, duration_weeks, hours_per_week, rate_per_hour
		FROM resource_rates ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RateRow
	for rows.Next() {
		var r RateRow
		if err := rows.Scan(&r.Role, &r.DurationWeeks, &r.HoursPerWeek, &r.RatePerHour); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpsertServer inserts a server or replaces the row with the same server_id.
func (s *Store) UpsertServer(ctx context.Context, r ServerRow) error {
	return s.exec(ctx, `
		INSERT INTO servers (server_id, os_type, vcpu, ram, disk_size, disk_type, uptime_pattern, current_hosting, technology)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (server_id) DO UPDATE SET
			os_type = excluded.os_type, vcpu = excluded.vcpu, ram = excluded.ram,
			disk_size = excluded.disk_size, disk_type = excluded.disk_type,
			uptime_pattern = excluded.uptime_pattern, current_hosting = excluded.current_hosting,
			technology = excluded.technology`,
		r.ServerID, r.OSType, r.VCPU, r.RAM, r.DiskSize, r.DiskType, r.UptimePattern, r.CurrentHosting, r.Technology)
}

// UpsertDatabase inserts a database or replaces the row with the same db_name.
func (s *Store) UpsertDatabase(ctx context.Context, r DatabaseRow) error {
	return s.exec(ctx, `
		INSERT INTO databases (db_name, db_type, size_gb, ha_dr_required, backup_frequency, licensing_model,
			server_id, write_frequency, downtime_tolerance, real_time_sync)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (db_name) DO UPDATE SET
			db_type = excluded.db_type, size_gb = excluded.size_gb, ha_dr_required = excluded.ha_dr_required,
			backup_frequency = excluded.backup_frequency, licensing_model = excluded.licensing_model,
			server_id = excluded.server_id, write_frequency = excluded.write_frequency,
			downtime_tolerance = excluded.downtime_tolerance, real_time_sync = excluded.real_time_sync`,
		r.DBName, r.DBType, r.SizeGB, r.HADRRequired, r.BackupFrequency, r.LicensingModel,
		r.ServerID, r.WriteFrequency, r.DowntimeTolerance, r.RealTimeSync)
}

// UpsertFileShare inserts a file share or replaces the row with the same share_name.
func (s *Store) UpsertFileShare(ctx context.Context, r FileShareRow) error {
	return s.exec(ctx, `
		INSERT INTO file_shares (share_name, total_size_gb, access_pattern, snapshot_required, retention_days,
			server_id, write_frequency, downtime_tolerance, real_time_sync)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (share_name) DO UPDATE SET
			total_size_gb = excluded.total_size_gb, access_pattern = excluded.access_pattern,
			snapshot_required = excluded.snapshot_required, retention_days = excluded.retention_days,
			server_id = excluded.server_id, write_frequency = excluded.write_frequency,
			downtime_tolerance = excluded.downtime_tolerance, real_time_sync = excluded.real_time_sync`,
		r.ShareName, r.TotalSizeGB, r.AccessPattern, r.SnapshotRequired, r.RetentionDays,
		r.ServerID, r.WriteFrequency, r.DowntimeTolerance, r.RealTimeSync)
}

// AppendRate adds a resource rate after the existing ones.
func (s *Store) AppendRate(ctx context.Context, r RateRow) error {
	return s.exec(ctx, `
		INSERT INTO resource_rates (position, role, duration_weeks, hours_per_week, rate_per_hour)
		VALUES ((SELECT COALESCE(MAX(position), 0) + 1 FROM resource_rates), ?, ?, ?, ?)`,
		r.Role, r.DurationWeeks, r.HoursPerWeek, r.RatePerHour)
}

// SetPreference stores the target cloud preference.
func (s *Store) SetPreference(ctx context.Context, p PreferenceRow) error {
	return s.exec(ctx, `
		INSERT INTO cloud_preferences (id, cloud_provider, region) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET cloud_provider = excluded.cloud_provider, region = excluded.region`,
		p.CloudProvider, p.Region)
}

// SetConstraints stores the business constraints.
func (s *Store) SetConstraints(ctx context.Context, c ConstraintRow) error {
	return s.exec(ctx, `
		INSERT INTO business_constraints (id, migration_window, cutover_date, downtime_tolerance, budget_cap)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			migration_window = excluded.migration_window, cutover_date = excluded.cutover_date,
			downtime_tolerance = excluded.downtime_tolerance, budget_cap = excluded.budget_cap`,
		c.MigrationWindow, c.CutoverDate, c.DowntimeTolerance, c.BudgetCap)
}

// CountByKind reports row counts per inventory table.
func (s *Store) CountByKind(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, 3)
	for kind, table := range map[string]string{
		"server":     "servers",
		"database":   "databases",
		"file_share": "file_shares",
	} {
		var n int
		if err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[kind] = n
	}
	return counts, nil
}
