// ABOUTME: Relational inventory store backed by SQLite or PostgreSQL
// ABOUTME: Owns the schema and exposes a single-pass inventory read for projection

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Store wraps a database/sql connection to the inventory tables.
type Store struct {
	conn   *sql.DB
	driver string
}

// Open connects to dsn. A postgres:// or postgresql:// URL selects pgx;
// anything else is treated as a SQLite path (":memory:" for tests).
func Open(dsn string) (*Store, error) {
	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "pgx"
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}

	if driver == "sqlite" {
		// One connection keeps ":memory:" databases coherent and serialises writers.
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("enable WAL: %w", err)
		}
	}

	s := &Store{conn: conn, driver: driver}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Driver reports the database/sql driver in use.
func (s *Store) Driver() string {
	return s.driver
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS servers (
		server_id       TEXT PRIMARY KEY,
		os_type         TEXT NOT NULL DEFAULT '',
		vcpu            INTEGER NOT NULL DEFAULT 1,
		ram             INTEGER NOT NULL DEFAULT 1,
		disk_size       INTEGER NOT NULL DEFAULT 1,
		disk_type       TEXT NOT NULL DEFAULT '',
		uptime_pattern  TEXT NOT NULL DEFAULT '',
		current_hosting TEXT NOT NULL DEFAULT '',
		technology      TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS databases (
		db_name            TEXT PRIMARY KEY,
		db_type            TEXT NOT NULL DEFAULT '',
		size_gb            INTEGER NOT NULL DEFAULT 0,
		ha_dr_required     BOOLEAN NOT NULL DEFAULT FALSE,
		backup_frequency   TEXT NOT NULL DEFAULT '',
		licensing_model    TEXT NOT NULL DEFAULT '',
		server_id          TEXT NOT NULL DEFAULT '',
		write_frequency    TEXT NOT NULL DEFAULT '',
		downtime_tolerance TEXT NOT NULL DEFAULT '',
		real_time_sync     BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS file_shares (
		share_name         TEXT PRIMARY KEY,
		total_size_gb      INTEGER NOT NULL DEFAULT 0,
		access_pattern     TEXT NOT NULL DEFAULT '',
		snapshot_required  BOOLEAN NOT NULL DEFAULT FALSE,
		retention_days     INTEGER NOT NULL DEFAULT 0,
		server_id          TEXT NOT NULL DEFAULT '',
		write_frequency    TEXT NOT NULL DEFAULT '',
		downtime_tolerance TEXT NOT NULL DEFAULT '',
		real_time_sync     BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS resource_rates (
		position       INTEGER PRIMARY KEY,
		role           TEXT NOT NULL,
		duration_weeks INTEGER NOT NULL,
		hours_per_week INTEGER NOT NULL,
		rate_per_hour  DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cloud_preferences (
		id             INTEGER PRIMARY KEY,
		cloud_provider TEXT NOT NULL DEFAULT '',
		region         TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS business_constraints (
		id                 INTEGER PRIMARY KEY,
		migration_window   TEXT NOT NULL DEFAULT '',
		cutover_date       TEXT NOT NULL DEFAULT '',
		downtime_tolerance TEXT NOT NULL DEFAULT '',
		budget_cap         DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
}

func (s *Store) migrate() error {
	for _, stmt := range schema {
		if _, err := s.conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	_, err := s.conn.ExecContext(ctx, s.rebind(query), args...)
	return err
}
