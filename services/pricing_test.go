// ABOUTME: Tests for the price table defaults and YAML overrides
// ABOUTME: Covers partial overlays and the validation rules

package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePriceFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaultPriceTable_Valid(t *testing.T) {
	assert.NoError(t, DefaultPriceTable().Validate())
}

func TestLoadPriceTable_EmptyPath(t *testing.T) {
	pt, err := LoadPriceTable("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPriceTable(), pt)
}

func TestLoadPriceTable_PartialOverlay(t *testing.T) {
	path := writePriceFile(t, "disk_ssd: 0.10\nobject_storage:\n  archive: 0.002\n")

	pt, err := LoadPriceTable(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.10, pt.DiskSSD, 1e-9)
	assert.InDelta(t, 0.002, pt.ObjectStorage.Archive, 1e-9)
	assert.InDelta(t, 0.045, pt.DiskOther, 1e-9, "untouched keys keep their defaults")
	assert.Len(t, pt.InstanceClasses, 4)
}

func TestLoadPriceTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed", "disk_ssd: [", "parsing price file"},
		{"zero hours", "hours_per_month: 0", "hours_per_month"},
		{"no instance classes", "instance_classes: []", "instance class"},
		{"bad family", "instance_classes:\n  - {name: x, family: gpu, vcpu: 2, ram_gb: 4, hourly: 1}", "unknown family"},
		{"unbounded db class not last", "database_classes:\n  - {name: a, max_size_gb: 0, hourly: 1}\n  - {name: b, max_size_gb: 10, hourly: 2}", "unbounded"},
		{"db classes out of order", "database_classes:\n  - {name: a, max_size_gb: 100, hourly: 1}\n  - {name: b, max_size_gb: 50, hourly: 2}", "larger max_size_gb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPriceTable(writePriceFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := LoadPriceTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading price file")
}
