// ABOUTME: Status command for migration-advisor CLI
// ABOUTME: Shows whether advice comes from the AI model or the rule fallback

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/migration-advisor/cli/internal/client"
	"github.com/markalston/migration-advisor/cli/internal/style"
	"github.com/markalston/migration-advisor/models"
)

var requireAI bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show AI analysis availability",
	Long: `Display whether the backend can reach a model for AI-powered analysis or is
running in rule-based fallback mode.

Exit codes: 0 available (or fallback without --require-ai), 1 fallback with --require-ai, 2 error.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runStatus(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	statusCmd.Flags().BoolVar(&requireAI, "require-ai", false, "Exit 1 when the backend is in rule-based fallback mode")
	rootCmd.AddCommand(statusCmd)
}

// runStatus executes the status check and returns exit code
func runStatus(ctx context.Context, w io.Writer) int {
	c := client.New(GetAPIURL())

	resp, err := c.AIStatus(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(resp))
	} else {
		fmt.Fprintln(w, formatStatusHuman(resp))
	}

	if requireAI && !resp.AIEnabled {
		return 1
	}
	return 0
}

// formatStatusHuman formats status response for human readability
func formatStatusHuman(resp *models.AIStatus) string {
	var b strings.Builder
	if resp.AIEnabled {
		fmt.Fprintf(&b, "AI Analysis:  %s\n", style.Badge("AVAILABLE", style.OK))
	} else {
		fmt.Fprintf(&b, "AI Analysis:  %s\n", style.Badge("FALLBACK", style.Warning))
	}
	if resp.ModelIdentifier != nil {
		fmt.Fprintf(&b, "Model:        %s\n", *resp.ModelIdentifier)
	}
	fmt.Fprintf(&b, "Message:      %s", resp.Message)
	if len(resp.FallbackCapabilities) > 0 {
		b.WriteString("\n\nAvailable without AI:")
		for _, capability := range resp.FallbackCapabilities {
			fmt.Fprintf(&b, "\n  - %s", capability)
		}
	}
	return b.String()
}

// formatJSON renders any response as indented JSON
func formatJSON(v interface{}) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}
