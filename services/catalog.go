// ABOUTME: Provider catalogs mapping generic classes to provider offerings
// ABOUTME: Also holds the legacy technology sets and managed-service lookups

package services

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/markalston/migration-advisor/models"
)

type providerCatalog struct {
	instances      map[string]string
	databases      map[string]string
	objectTiers    map[models.Temperature]string
	blockSSD       string
	blockOther     string
	transferOnline string
	transferBulk   string
	managedEngines map[string]string
	managedTech    map[string]string
}

var catalogs = map[models.Provider]providerCatalog{
	models.ProviderAWS: {
		instances: map[string]string{
			"burstable-small":       "t3.small",
			"burstable-large":       "t3.xlarge",
			"general-purpose-small": "m5.xlarge",
			"general-purpose-large": "m5.4xlarge",
		},
		databases: map[string]string{
			"micro": "db.t3.micro", "small": "db.t3.small", "medium": "db.t3.medium",
			"large": "db.t3.large", "xlarge": "db.t3.xlarge",
		},
		objectTiers: map[models.Temperature]string{
			models.TemperatureHot:  "S3 Standard",
			models.TemperatureWarm: "S3 Standard-IA",
			models.TemperatureCold: "S3 Glacier Deep Archive",
		},
		blockSSD:       "EBS gp3",
		blockOther:     "EBS st1",
		transferOnline: "AWS DataSync",
		transferBulk:   "AWS Snowball",
		managedEngines: map[string]string{
			"mysql":      "Amazon RDS for MySQL",
			"postgresql": "Amazon RDS for PostgreSQL",
			"mariadb":    "Amazon RDS for MariaDB",
			"sql server": "Amazon RDS for SQL Server",
			"oracle":     "Amazon RDS for Oracle",
			"mongodb":    "Amazon DocumentDB",
			"redis":      "Amazon ElastiCache for Redis",
		},
		managedTech: map[string]string{
			"redis":         "Amazon ElastiCache",
			"memcached":     "Amazon ElastiCache",
			"mongodb":       "Amazon DocumentDB",
			"elasticsearch": "Amazon OpenSearch Service",
			"rabbitmq":      "Amazon MQ",
			"activemq":      "Amazon MQ",
			"kafka":         "Amazon MSK",
		},
	},
	models.ProviderAzure: {
		instances: map[string]string{
			"burstable-small":       "Standard_B2s",
			"burstable-large":       "Standard_B4ms",
			"general-purpose-small": "Standard_D4s_v5",
			"general-purpose-large": "Standard_D16s_v5",
		},
		databases: map[string]string{
			"micro": "B_Standard_B1ms", "small": "B_Standard_B2s", "medium": "GP_Standard_D2ds_v4",
			"large": "GP_Standard_D4ds_v4", "xlarge": "GP_Standard_D8ds_v4",
		},
		objectTiers: map[models.Temperature]string{
			models.TemperatureHot:  "Blob Storage Hot",
			models.TemperatureWarm: "Blob Storage Cool",
			models.TemperatureCold: "Blob Storage Archive",
		},
		blockSSD:       "Premium SSD v2",
		blockOther:     "Standard HDD",
		transferOnline: "Azure File Sync",
		transferBulk:   "Azure Data Box",
		managedEngines: map[string]string{
			"mysql":      "Azure Database for MySQL",
			"postgresql": "Azure Database for PostgreSQL",
			"sql server": "Azure SQL Managed Instance",
			"mongodb":    "Azure Cosmos DB for MongoDB",
			"redis":      "Azure Cache for Redis",
		},
		managedTech: map[string]string{
			"redis":         "Azure Cache for Redis",
			"mongodb":       "Azure Cosmos DB",
			"elasticsearch": "Elastic on Azure",
			"rabbitmq":      "Azure Service Bus",
			"activemq":      "Azure Service Bus",
			"kafka":         "Azure Event Hubs",
		},
	},
	models.ProviderGCP: {
		instances: map[string]string{
			"burstable-small":       "e2-small",
			"burstable-large":       "e2-standard-4",
			"general-purpose-small": "n2-standard-4",
			"general-purpose-large": "n2-standard-16",
		},
		databases: map[string]string{
			"micro": "db-f1-micro", "small": "db-g1-small", "medium": "db-custom-2-7680",
			"large": "db-custom-4-15360", "xlarge": "db-custom-8-30720",
		},
		objectTiers: map[models.Temperature]string{
			models.TemperatureHot:  "Cloud Storage Standard",
			models.TemperatureWarm: "Cloud Storage Nearline",
			models.TemperatureCold: "Cloud Storage Archive",
		},
		blockSSD:       "pd-ssd",
		blockOther:     "pd-standard",
		transferOnline: "Storage Transfer Service",
		transferBulk:   "Transfer Appliance",
		managedEngines: map[string]string{
			"mysql":      "Cloud SQL for MySQL",
			"postgresql": "Cloud SQL for PostgreSQL",
			"sql server": "Cloud SQL for SQL Server",
			"redis":      "Memorystore for Redis",
		},
		managedTech: map[string]string{
			"redis":         "Memorystore",
			"memcached":     "Memorystore",
			"elasticsearch": "Elastic Cloud on GCP",
			"rabbitmq":      "Pub/Sub",
			"activemq":      "Pub/Sub",
			"kafka":         "Managed Service for Apache Kafka",
		},
	},
}

func catalogFor(p models.Provider) providerCatalog {
	if c, ok := catalogs[p]; ok {
		return c
	}
	return catalogs[models.ProviderAWS]
}

// instanceSKU returns the provider label for a class, falling back to the class name
// for classes added through a price file.
func (c providerCatalog) instanceSKU(class string) string {
	if sku, ok := c.instances[class]; ok {
		return sku
	}
	return class
}

func (c providerCatalog) databaseSKU(class string) string {
	if sku, ok := c.databases[class]; ok {
		return sku
	}
	return class
}

func (c providerCatalog) blockStorage(dc models.DiskClass) string {
	if dc == models.DiskSSD {
		return c.blockSSD
	}
	return c.blockOther
}

// engineAliases normalises free-text engine names to catalog keys.
var engineAliases = map[string]string{
	"mysql":                "mysql",
	"postgres":             "postgresql",
	"postgresql":           "postgresql",
	"mariadb":              "mariadb",
	"sql server":           "sql server",
	"sql_server":           "sql server",
	"sqlserver":            "sql server",
	"mssql":                "sql server",
	"microsoft sql server": "sql server",
	"oracle":               "oracle",
	"mongodb":              "mongodb",
	"mongo":                "mongodb",
	"redis":                "redis",
}

func normaliseEngine(engine string) string {
	key := strings.ToLower(strings.TrimSpace(engine))
	if alias, ok := engineAliases[key]; ok {
		return alias
	}
	return key
}

// managedEquivalent returns the managed service for an engine, or a
// virtual-machine-hosted target when the provider has none.
func managedEquivalent(p models.Provider, engine string) (string, bool) {
	if svc, ok := catalogFor(p).managedEngines[normaliseEngine(engine)]; ok {
		return svc, true
	}
	name := strings.TrimSpace(engine)
	if name == "" {
		name = "database"
	}
	return fmt.Sprintf("virtual-machine-hosted %s", name), false
}

var legacyTechnologies = []string{
	"cobol", "vb6", "visual basic 6", "classic asp", "coldfusion", "silverlight",
	"flash", "websphere", "weblogic", "jboss", ".net framework 2", ".net framework 3",
	"php 5", "php5", "java 6", "java 1.6",
}

var legacyOperatingSystems = []string{
	"windows server 2003", "windows server 2008", "windows 2003", "windows 2008",
	"windows 2000", "centos 5", "centos 6", "rhel 5", "rhel 6", "red hat enterprise linux 5",
	"red hat enterprise linux 6", "solaris", "aix", "hp-ux",
}

// matchesAny reports the first entry of set whose words appear consecutively
// in value. Words are compared whole, so "flash" does not match "Flashback".
func matchesAny(value string, set []string) (string, bool) {
	words := tokenize(value)
	for _, s := range set {
		if containsRun(words, tokenize(s)) {
			return s, true
		}
	}
	return "", false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsRun(words, run []string) bool {
	if len(run) == 0 {
		return false
	}
	for i := 0; i+len(run) <= len(words); i++ {
		if slices.Equal(words[i:i+len(run)], run) {
			return true
		}
	}
	return false
}

// legacyReason explains why a server counts as legacy, or returns "".
func legacyReason(s models.Server) string {
	for _, tech := range s.Technologies {
		if m, ok := matchesAny(tech, legacyTechnologies); ok {
			return fmt.Sprintf("legacy technology %q", m)
		}
	}
	if m, ok := matchesAny(s.OSFamily, legacyOperatingSystems); ok {
		return fmt.Sprintf("legacy operating system %q", m)
	}
	return ""
}

// managedTechFor returns the managed service replacing a server technology tag.
func managedTechFor(p models.Provider, tech string) (string, bool) {
	svc, ok := catalogFor(p).managedTech[strings.ToLower(strings.TrimSpace(tech))]
	return svc, ok
}
