// ABOUTME: Test helpers for e2e tests
// ABOUTME: Builds a full server over an in-memory store with an optional fake model

package e2e

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/markalston/migration-advisor/cache"
	"github.com/markalston/migration-advisor/handlers"
	"github.com/markalston/migration-advisor/services"
	"github.com/markalston/migration-advisor/store"
)

// scriptedModel answers every prompt with the same reply.
type scriptedModel struct {
	mu     sync.Mutex
	reply  string
	err    error
	usable bool
	calls  int
}

func (m *scriptedModel) Invoke(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.reply, m.err
}

func (m *scriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *scriptedModel) Usable() bool            { return m.usable }
func (m *scriptedModel) ModelIdentifier() string { return "anthropic.claude-3-haiku-20240307-v1:0" }

// seededStore opens an in-memory store with a small mixed inventory.
func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	steps := []error{
		st.UpsertServer(ctx, store.ServerRow{
			ServerID: "web-01", OSType: "Ubuntu 22.04", VCPU: 2, RAM: 4, DiskSize: 100,
			DiskType: "SSD", UptimePattern: "always-on", CurrentHosting: "VMware", Technology: "nginx,redis",
		}),
		st.UpsertServer(ctx, store.ServerRow{
			ServerID: "db-host-01", OSType: "RHEL 8", VCPU: 8, RAM: 32, DiskSize: 500,
			DiskType: "SSD", UptimePattern: "always-on", CurrentHosting: "VMware",
		}),
		st.UpsertDatabase(ctx, store.DatabaseRow{
			DBName: "orders", DBType: "PostgreSQL", SizeGB: 250, HADRRequired: true,
			BackupFrequency: "daily", LicensingModel: "open-source", ServerID: "db-host-01",
		}),
		st.UpsertFileShare(ctx, store.FileShareRow{
			ShareName: "archive", TotalSizeGB: 2000, AccessPattern: "cold", RetentionDays: 365,
		}),
	}
	for _, err := range steps {
		if err != nil {
			t.Fatalf("seeding store: %v", err)
		}
	}
	return st
}

// newServer wires the real handlers and middleware over st.
func newServer(t *testing.T, st *store.Store, model services.Provider, opts handlers.RouterOptions) *httptest.Server {
	t.Helper()
	projector := services.NewInventoryProjector(st)
	advisor := services.NewAdvisor(projector, nil, model)
	h := handlers.NewHandler(nil, cache.New(time.Minute), advisor, projector, st)

	server := httptest.NewServer(h.Router(opts))
	t.Cleanup(server.Close)
	return server
}
