// ABOUTME: Root command for migration-advisor CLI
// ABOUTME: Handles global flags, logging, and configuration

package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markalston/migration-advisor/logger"
)

var (
	apiURL     string
	jsonOutput bool
	verbose    bool
)

const defaultAPIURL = "http://localhost:8080"

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "migration-advisor",
	Short: "CLI for the Migration Advisor",
	Long: `migration-advisor is a command-line interface for the Migration Advisor.

It fetches cloud cost estimates, migration strategies, and project timelines
for the inventory recorded in the backend.

Environment Variables:
  MIGRATION_ADVISOR_API_URL  Backend API URL (default: http://localhost:8080)`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := os.Getenv("LOG_LEVEL")
		if verbose {
			level = "debug"
		}
		slog.SetDefault(logger.New(os.Stderr, level, os.Getenv("LOG_FORMAT")))
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides MIGRATION_ADVISOR_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests to stderr")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
// without a trailing slash.
func GetAPIURL() string {
	url := defaultAPIURL
	if envURL := os.Getenv("MIGRATION_ADVISOR_API_URL"); envURL != "" {
		url = envURL
	}
	if apiURL != "" {
		url = apiURL
	}
	return strings.TrimRight(url, "/")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
