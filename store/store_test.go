// ABOUTME: Tests for the inventory store against in-memory SQLite
// ABOUTME: Covers round trips, upserts, and single-row preference tables

package store_test

import (
	"context"
	"testing"

	"github.com/markalston/migration-advisor/store"
)

// newTestStore opens a fresh in-memory SQLite store for each test.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_SQLite(t *testing.T) {
	s := newTestStore(t)
	if s.Driver() != "sqlite" {
		t.Errorf("Expected sqlite driver, got %s", s.Driver())
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestReadInventory_Empty(t *testing.T) {
	s := newTestStore(t)

	inv, err := s.ReadInventory(context.Background())
	if err != nil {
		t.Fatalf("ReadInventory: %v", err)
	}
	if len(inv.Servers) != 0 || len(inv.Databases) != 0 || len(inv.FileShares) != 0 || len(inv.Rates) != 0 {
		t.Errorf("Expected empty inventory, got %+v", inv)
	}
	if inv.Preference != nil {
		t.Errorf("Expected no preference, got %+v", inv.Preference)
	}
	if inv.Constraints != nil {
		t.Errorf("Expected no constraints, got %+v", inv.Constraints)
	}
}

func TestReadInventory_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustDo(t, s.UpsertServer(ctx, store.ServerRow{
		ServerID: "web-01", OSType: "Ubuntu 22.04", VCPU: 2, RAM: 4, DiskSize: 100,
		DiskType: "SSD", UptimePattern: "business-hours", CurrentHosting: "VMware", Technology: "nginx,php",
	}))
	mustDo(t, s.UpsertDatabase(ctx, store.DatabaseRow{
		DBName: "orders", DBType: "MySQL", SizeGB: 200, HADRRequired: true,
		BackupFrequency: "daily", LicensingModel: "open-source", ServerID: "web-01",
	}))
	mustDo(t, s.UpsertFileShare(ctx, store.FileShareRow{
		ShareName: "archive", TotalSizeGB: 12000, AccessPattern: "cold", RetentionDays: 365,
	}))
	mustDo(t, s.AppendRate(ctx, store.RateRow{Role: "Cloud Architect", DurationWeeks: 8, HoursPerWeek: 40, RatePerHour: 150}))
	mustDo(t, s.AppendRate(ctx, store.RateRow{Role: "DBA", DurationWeeks: 4, HoursPerWeek: 20, RatePerHour: 120}))
	mustDo(t, s.SetPreference(ctx, store.PreferenceRow{CloudProvider: "Azure", Region: "westeurope"}))
	mustDo(t, s.SetConstraints(ctx, store.ConstraintRow{CutoverDate: "2027-03-01", BudgetCap: 50000}))

	inv, err := s.ReadInventory(ctx)
	if err != nil {
		t.Fatalf("ReadInventory: %v", err)
	}

	if len(inv.Servers) != 1 || inv.Servers[0].Technology != "nginx,php" {
		t.Errorf("Unexpected servers: %+v", inv.Servers)
	}
	if len(inv.Databases) != 1 || !inv.Databases[0].HADRRequired || inv.Databases[0].ServerID != "web-01" {
		t.Errorf("Unexpected databases: %+v", inv.Databases)
	}
	if len(inv.FileShares) != 1 || inv.FileShares[0].TotalSizeGB != 12000 {
		t.Errorf("Unexpected file shares: %+v", inv.FileShares)
	}
	if len(inv.Rates) != 2 || inv.Rates[0].Role != "Cloud Architect" || inv.Rates[1].Role != "DBA" {
		t.Errorf("Expected rates in insertion order, got %+v", inv.Rates)
	}
	if inv.Preference == nil || inv.Preference.CloudProvider != "Azure" {
		t.Errorf("Unexpected preference: %+v", inv.Preference)
	}
	if inv.Constraints == nil || inv.Constraints.BudgetCap != 50000 {
		t.Errorf("Unexpected constraints: %+v", inv.Constraints)
	}
}

func TestUpsertServer_Replaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustDo(t, s.UpsertServer(ctx, store.ServerRow{ServerID: "app-01", VCPU: 2, RAM: 4, DiskSize: 50}))
	mustDo(t, s.UpsertServer(ctx, store.ServerRow{ServerID: "app-01", VCPU: 8, RAM: 32, DiskSize: 50}))

	inv, err := s.ReadInventory(ctx)
	if err != nil {
		t.Fatalf("ReadInventory: %v", err)
	}
	if len(inv.Servers) != 1 {
		t.Fatalf("Expected 1 server after upsert, got %d", len(inv.Servers))
	}
	if inv.Servers[0].VCPU != 8 {
		t.Errorf("Expected vcpu 8, got %d", inv.Servers[0].VCPU)
	}
}

func TestSetPreference_SingleRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustDo(t, s.SetPreference(ctx, store.PreferenceRow{CloudProvider: "AWS", Region: "us-east-1"}))
	mustDo(t, s.SetPreference(ctx, store.PreferenceRow{CloudProvider: "GCP", Region: "europe-west1"}))

	inv, err := s.ReadInventory(ctx)
	if err != nil {
		t.Fatalf("ReadInventory: %v", err)
	}
	if inv.Preference.CloudProvider != "GCP" {
		t.Errorf("Expected latest preference GCP, got %s", inv.Preference.CloudProvider)
	}
}

func TestCountByKind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustDo(t, s.UpsertServer(ctx, store.ServerRow{ServerID: "a", VCPU: 1, RAM: 1, DiskSize: 1}))
	mustDo(t, s.UpsertServer(ctx, store.ServerRow{ServerID: "b", VCPU: 1, RAM: 1, DiskSize: 1}))
	mustDo(t, s.UpsertFileShare(ctx, store.FileShareRow{ShareName: "home"}))

	counts, err := s.CountByKind(ctx)
	if err != nil {
		t.Fatalf("CountByKind: %v", err)
	}
	if counts["server"] != 2 || counts["database"] != 0 || counts["file_share"] != 1 {
		t.Errorf("Unexpected counts: %v", counts)
	}
}

func TestReadInventory_ClosedStore(t *testing.T) {
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	s.Close()

	if _, err := s.ReadInventory(context.Background()); err == nil {
		t.Error("Expected error reading from closed store")
	}
}

func mustDo(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
