// ABOUTME: Entry point for the migration-advisor CLI
// ABOUTME: Command-line client for cost, strategy, and timeline advice

package main

import (
	"fmt"
	"os"

	"github.com/markalston/migration-advisor/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
