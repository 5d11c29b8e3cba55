// ABOUTME: Tests for the inventory projection
// ABOUTME: Covers defaults, enumeration coercion, and server reference resolution

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markalston/migration-advisor/models"
	"github.com/markalston/migration-advisor/store"
)

type fakeReader struct {
	inv *store.Inventory
	err error
}

func (f fakeReader) ReadInventory(ctx context.Context) (*store.Inventory, error) {
	return f.inv, f.err
}

func TestProject_EmptyInventoryUsesDefaults(t *testing.T) {
	snap := Project(&store.Inventory{}, models.TargetParameters{})

	assert.Empty(t, snap.Servers)
	assert.NotNil(t, snap.Servers)
	assert.Equal(t, models.ProviderAWS, snap.Parameters.Provider)
	assert.Equal(t, "us-east-1", snap.Parameters.Region)
	assert.Equal(t, models.LevelMedium, snap.Parameters.ComplexityHint)
	assert.True(t, snap.ProviderDefaulted)
	assert.Equal(t, 0, snap.ComponentCount())
}

func TestProject_PreferenceAndOverride(t *testing.T) {
	inv := &store.Inventory{
		Preference: &store.PreferenceRow{CloudProvider: "azure", Region: "westeurope"},
	}

	snap := Project(inv, models.TargetParameters{})
	assert.Equal(t, models.ProviderAzure, snap.Parameters.Provider)
	assert.Equal(t, "westeurope", snap.Parameters.Region)
	assert.False(t, snap.ProviderDefaulted)

	snap = Project(inv, models.TargetParameters{Provider: models.ProviderGCP, ComplexityHint: models.LevelHigh})
	assert.Equal(t, models.ProviderGCP, snap.Parameters.Provider)
	assert.Equal(t, "westeurope", snap.Parameters.Region, "region falls through to the stored preference")
	assert.Equal(t, models.LevelHigh, snap.Parameters.ComplexityHint)
}

func TestProject_UnknownStoredProviderFallsBackToAWS(t *testing.T) {
	inv := &store.Inventory{Preference: &store.PreferenceRow{CloudProvider: "oracle-cloud"}}
	snap := Project(inv, models.TargetParameters{})
	assert.Equal(t, models.ProviderAWS, snap.Parameters.Provider)
	assert.True(t, snap.ProviderDefaulted)

	snap = Project(inv, models.TargetParameters{Provider: models.ProviderGCP})
	assert.False(t, snap.ProviderDefaulted)
}

func TestProject_CoercesServerFields(t *testing.T) {
	inv := &store.Inventory{
		Servers: []store.ServerRow{
			{ServerID: "web-01", OSType: " Ubuntu 22.04 ", VCPU: 0, RAM: -4, DiskSize: 0,
				DiskType: "NVMe", UptimePattern: "Business Hours", Technology: "nginx, ,redis"},
		},
	}

	snap := Project(inv, models.TargetParameters{})
	require.Len(t, snap.Servers, 1)
	s := snap.Servers[0]
	assert.Equal(t, "Ubuntu 22.04", s.OSFamily)
	assert.Equal(t, 1, s.VCPU)
	assert.Equal(t, 1, s.RAMGB)
	assert.Equal(t, 1, s.DiskGB)
	assert.Equal(t, models.DiskSSD, s.DiskClass)
	assert.Equal(t, models.UptimeBusinessHours, s.UptimePattern)
	assert.Equal(t, []string{"nginx", "redis"}, s.Technologies)
}

func TestProject_CoercesDatabaseAndShareEnums(t *testing.T) {
	inv := &store.Inventory{
		Databases: []store.DatabaseRow{
			{DBName: "orders", DBType: "MySQL", SizeGB: 200, BackupFrequency: "hourly",
				LicensingModel: "Enterprise", WriteFrequency: "extreme", DowntimeTolerance: "zero"},
		},
		FileShares: []store.FileShareRow{
			{ShareName: "archive", TotalSizeGB: 12000, AccessPattern: "Archive"},
			{ShareName: "team", TotalSizeGB: 10, AccessPattern: ""},
		},
	}

	snap := Project(inv, models.TargetParameters{})
	require.Len(t, snap.Databases, 1)
	db := snap.Databases[0]
	assert.Equal(t, models.BackupNone, db.BackupCadence, "unknown cadence never adds a surcharge")
	assert.Equal(t, models.LicensingCommercial, db.Licensing)
	assert.Equal(t, models.LevelMedium, db.WriteIntensity)
	assert.Equal(t, models.DowntimeNone, db.DowntimeTolerance)

	require.Len(t, snap.FileShares, 2)
	assert.Equal(t, models.TemperatureCold, snap.FileShares[0].AccessTemperature)
	assert.Equal(t, models.TemperatureWarm, snap.FileShares[1].AccessTemperature)
}

func TestProject_ResolvesServerReferences(t *testing.T) {
	inv := &store.Inventory{
		Servers: []store.ServerRow{{ServerID: "app-01"}, {ServerID: "db-host"}},
		Databases: []store.DatabaseRow{
			{DBName: "bound", ServerID: "db-host"},
			{DBName: "dangling", ServerID: "missing"},
			{DBName: "unbound"},
		},
	}

	snap := Project(inv, models.TargetParameters{})
	require.Len(t, snap.Databases, 3)
	require.NotNil(t, snap.Databases[0].BoundServer)
	assert.Equal(t, 1, *snap.Databases[0].BoundServer)
	assert.Equal(t, "db-host", snap.BoundServerID(snap.Databases[0].BoundServer))
	assert.Nil(t, snap.Databases[1].BoundServer, "dangling reference is dropped")
	assert.Nil(t, snap.Databases[2].BoundServer)
}

func TestProject_DropsInvalidRates(t *testing.T) {
	inv := &store.Inventory{
		Rates: []store.RateRow{
			{Role: "Architect", DurationWeeks: 4, HoursPerWeek: 40, RatePerHour: 150},
			{Role: "Zero weeks", DurationWeeks: 0, HoursPerWeek: 40, RatePerHour: 100},
			{Role: "Too many hours", DurationWeeks: 2, HoursPerWeek: 200, RatePerHour: 100},
			{Role: "Free", DurationWeeks: 2, HoursPerWeek: 10, RatePerHour: 0},
		},
	}

	snap := Project(inv, models.TargetParameters{})
	require.Len(t, snap.Rates, 1)
	assert.Equal(t, "Architect", snap.Rates[0].Role)
}

func TestProject_Constraints(t *testing.T) {
	inv := &store.Inventory{
		Constraints: &store.ConstraintRow{
			MigrationWindow:   "weekends",
			CutoverDate:       "2027-03-01",
			DowntimeTolerance: "LOW",
			BudgetCap:         -5,
		},
	}

	snap := Project(inv, models.TargetParameters{})
	require.NotNil(t, snap.Constraints.CutoverDate)
	assert.Equal(t, "2027-03-01", snap.Constraints.CutoverDate.Format(models.DateLayout))
	assert.Equal(t, models.DowntimeLow, snap.Constraints.DowntimeTolerance)
	assert.Equal(t, "weekends", snap.Constraints.MigrationWindow)
	assert.Zero(t, snap.Constraints.BudgetCap)

	inv.Constraints.CutoverDate = "next spring"
	snap = Project(inv, models.TargetParameters{})
	assert.Nil(t, snap.Constraints.CutoverDate)
}

func TestSnapshot_ReaderFailure(t *testing.T) {
	p := NewInventoryProjector(fakeReader{err: errors.New("connection refused")})

	_, err := p.Snapshot(context.Background(), models.TargetParameters{})
	require.Error(t, err)

	var snapErr *SnapshotError
	require.ErrorAs(t, err, &snapErr)
	assert.Contains(t, err.Error(), "snapshot-unavailable")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSnapshot_NilReader(t *testing.T) {
	p := NewInventoryProjector(nil)
	_, err := p.Snapshot(context.Background(), models.TargetParameters{})
	var snapErr *SnapshotError
	assert.ErrorAs(t, err, &snapErr)
}

func TestSnapshot_FromStore(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	require.NoError(t, st.UpsertServer(ctx, store.ServerRow{ServerID: "web-01", VCPU: 2, RAM: 4, DiskSize: 100, DiskType: "SSD"}))
	require.NoError(t, st.UpsertDatabase(ctx, store.DatabaseRow{DBName: "orders", DBType: "PostgreSQL", SizeGB: 50, ServerID: "web-01"}))

	snap, err := NewInventoryProjector(st).Snapshot(ctx, models.TargetParameters{Region: "eu-west-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, snap.ComponentCount())
	assert.Equal(t, "eu-west-1", snap.Parameters.Region)
	assert.Equal(t, "web-01", snap.BoundServerID(snap.Databases[0].BoundServer))
}
