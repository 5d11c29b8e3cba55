// ABOUTME: Loads inventory from a YAML seed file into the store
// ABOUTME: Ships a built-in sample estate for demos and local runs

package store

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SampleSeedName selects the built-in sample instead of a file path.
const SampleSeedName = "sample"

//go:embed sample_inventory.yaml
var sampleInventory []byte

// Seed is an inventory document. Every section is optional.
type Seed struct {
	Preference  *PreferenceRow `yaml:"cloud_preference"`
	Constraints *ConstraintRow `yaml:"business_constraints"`
	Servers     []ServerRow    `yaml:"servers"`
	Databases   []DatabaseRow  `yaml:"databases"`
	FileShares  []FileShareRow `yaml:"file_shares"`
	Rates       []RateRow      `yaml:"resource_rates"`
}

// LoadSeed reads a seed document from path, or the built-in sample when path
// is SampleSeedName.
func LoadSeed(path string) (*Seed, error) {
	data := sampleInventory
	if path != SampleSeedName {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("reading seed file: %w", err)
		}
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed file %s: %w", path, err)
	}
	return &seed, nil
}

// ApplySeed writes seed into the store. Servers, databases, and file shares
// are upserted by key, so re-applying a seed is idempotent for them. Rates
// are appended only when the store has none.
func (s *Store) ApplySeed(ctx context.Context, seed *Seed) error {
	if seed.Preference != nil {
		if err := s.SetPreference(ctx, *seed.Preference); err != nil {
			return fmt.Errorf("seeding cloud preference: %w", err)
		}
	}
	if seed.Constraints != nil {
		if err := s.SetConstraints(ctx, *seed.Constraints); err != nil {
			return fmt.Errorf("seeding business constraints: %w", err)
		}
	}
	for _, r := range seed.Servers {
		if err := s.UpsertServer(ctx, r); err != nil {
			return fmt.Errorf("seeding server %s: %w", r.ServerID, err)
		}
	}
	for _, r := range seed.Databases {
		if err := s.UpsertDatabase(ctx, r); err != nil {
			return fmt.Errorf("seeding database %s: %w", r.DBName, err)
		}
	}
	for _, r := range seed.FileShares {
		if err := s.UpsertFileShare(ctx, r); err != nil {
			return fmt.Errorf("seeding file share %s: %w", r.ShareName, err)
		}
	}

	if len(seed.Rates) == 0 {
		return nil
	}
	var existing int
	if err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM resource_rates").Scan(&existing); err != nil {
		return fmt.Errorf("counting resource rates: %w", err)
	}
	if existing > 0 {
		return nil
	}
	for _, r := range seed.Rates {
		if err := s.AppendRate(ctx, r); err != nil {
			return fmt.Errorf("seeding rate %s: %w", r.Role, err)
		}
	}
	return nil
}
