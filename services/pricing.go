// ABOUTME: Price table for the rule-based cost estimate
// ABOUTME: Built-in defaults with optional YAML override loaded at startup

package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/markalston/migration-advisor/models"
)

// Instance class families.
const (
	FamilyBurstable      = "burstable"
	FamilyGeneralPurpose = "general-purpose"
)

// InstanceClass is a compute size in the ordered class family.
type InstanceClass struct {
	Name   string  `yaml:"name"`
	Family string  `yaml:"family"`
	VCPU   int     `yaml:"vcpu"`
	RAMGB  int     `yaml:"ram_gb"`
	Hourly float64 `yaml:"hourly"`
}

// DatabaseClass is a managed database size bucket. MaxSizeGB of 0 means unbounded.
type DatabaseClass struct {
	Name      string  `yaml:"name"`
	MaxSizeGB int     `yaml:"max_size_gb"`
	Hourly    float64 `yaml:"hourly"`
}

// ObjectStoragePrices are per GB-month prices by tier.
type ObjectStoragePrices struct {
	Standard         float64 `yaml:"standard"`
	InfrequentAccess float64 `yaml:"infrequent_access"`
	Archive          float64 `yaml:"archive"`
}

// DefaultRole staffs the migration when no resource rates are recorded.
type DefaultRole struct {
	Role         string  `yaml:"role"`
	HoursPerWeek int     `yaml:"hours_per_week"`
	RatePerHour  float64 `yaml:"rate_per_hour"`
}

// PriceTable holds every constant the rule backend prices with.
type PriceTable struct {
	HoursPerMonth     float64             `yaml:"hours_per_month"`
	InstanceClasses   []InstanceClass     `yaml:"instance_classes"`
	DiskSSD           float64             `yaml:"disk_ssd"`
	DiskOther         float64             `yaml:"disk_other"`
	DatabaseClasses   []DatabaseClass     `yaml:"database_classes"`
	ManagedStorage    float64             `yaml:"managed_storage"`
	Backup            float64             `yaml:"backup"`
	ObjectStorage     ObjectStoragePrices `yaml:"object_storage"`
	WeeksPerComponent int                 `yaml:"weeks_per_component"`
	DefaultRoles      []DefaultRole       `yaml:"default_roles"`
}

// DefaultPriceTable returns the built-in on-demand prices.
func DefaultPriceTable() *PriceTable {
	return &PriceTable{
		HoursPerMonth: 730,
		InstanceClasses: []InstanceClass{
			{Name: "burstable-small", Family: FamilyBurstable, VCPU: 2, RAMGB: 4, Hourly: 0.0208},
			{Name: "burstable-large", Family: FamilyBurstable, VCPU: 4, RAMGB: 16, Hourly: 0.1664},
			{Name: "general-purpose-small", Family: FamilyGeneralPurpose, VCPU: 4, RAMGB: 16, Hourly: 0.1664},
			{Name: "general-purpose-large", Family: FamilyGeneralPurpose, VCPU: 16, RAMGB: 64, Hourly: 0.768},
		},
		DiskSSD:   0.08,
		DiskOther: 0.045,
		DatabaseClasses: []DatabaseClass{
			{Name: "micro", MaxSizeGB: 20, Hourly: 0.017},
			{Name: "small", MaxSizeGB: 100, Hourly: 0.034},
			{Name: "medium", MaxSizeGB: 500, Hourly: 0.068},
			{Name: "large", MaxSizeGB: 1000, Hourly: 0.136},
			{Name: "xlarge", MaxSizeGB: 0, Hourly: 0.272},
		},
		ManagedStorage: 0.115,
		Backup:         0.095,
		ObjectStorage: ObjectStoragePrices{
			Standard:         0.023,
			InfrequentAccess: 0.0125,
			Archive:          0.004,
		},
		WeeksPerComponent: 1,
		DefaultRoles: []DefaultRole{
			{Role: "Cloud Architect", HoursPerWeek: 40, RatePerHour: 150},
			{Role: "Migration Engineer", HoursPerWeek: 40, RatePerHour: 110},
		},
	}
}

// LoadPriceTable overlays the YAML file at path onto the defaults.
// An empty path returns the defaults unchanged.
func LoadPriceTable(path string) (*PriceTable, error) {
	pt := DefaultPriceTable()
	if path == "" {
		return pt, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading price file: %w", err)
	}
	if err := yaml.Unmarshal(data, pt); err != nil {
		return nil, fmt.Errorf("parsing price file: %w", err)
	}
	if err := pt.Validate(); err != nil {
		return nil, fmt.Errorf("invalid price file %s: %w", path, err)
	}
	return pt, nil
}

// Validate checks that the table can price any inventory.
func (pt *PriceTable) Validate() error {
	if pt.HoursPerMonth <= 0 {
		return fmt.Errorf("hours_per_month must be positive")
	}
	if len(pt.InstanceClasses) == 0 {
		return fmt.Errorf("at least one instance class is required")
	}
	for _, c := range pt.InstanceClasses {
		if c.VCPU < 1 || c.RAMGB < 1 || c.Hourly <= 0 {
			return fmt.Errorf("instance class %q needs positive vcpu, ram_gb, and hourly", c.Name)
		}
		if c.Family != FamilyBurstable && c.Family != FamilyGeneralPurpose {
			return fmt.Errorf("instance class %q has unknown family %q", c.Name, c.Family)
		}
	}
	if len(pt.DatabaseClasses) == 0 {
		return fmt.Errorf("at least one database class is required")
	}
	for i, c := range pt.DatabaseClasses {
		last := i == len(pt.DatabaseClasses)-1
		if c.MaxSizeGB == 0 && !last {
			return fmt.Errorf("only the last database class may be unbounded, found %q", c.Name)
		}
		if i > 0 && c.MaxSizeGB != 0 && c.MaxSizeGB <= pt.DatabaseClasses[i-1].MaxSizeGB {
			return fmt.Errorf("database class %q must have a larger max_size_gb than the previous class", c.Name)
		}
	}
	if pt.WeeksPerComponent < 0 {
		return fmt.Errorf("weeks_per_component must not be negative")
	}
	return nil
}

// diskUnitPrice returns the block storage price for a disk class.
func (pt *PriceTable) diskUnitPrice(dc models.DiskClass) float64 {
	if dc == models.DiskSSD {
		return pt.DiskSSD
	}
	return pt.DiskOther
}

// objectUnitPrice returns the object storage price for a temperature.
func (pt *PriceTable) objectUnitPrice(t models.Temperature) float64 {
	switch t {
	case models.TemperatureHot:
		return pt.ObjectStorage.Standard
	case models.TemperatureWarm:
		return pt.ObjectStorage.InfrequentAccess
	default:
		return pt.ObjectStorage.Archive
	}
}
