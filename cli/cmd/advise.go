// ABOUTME: Advisory commands for migration-advisor CLI
// ABOUTME: Fetches cost estimates, migration strategies, and timelines

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/markalston/migration-advisor/cli/internal/client"
	"github.com/markalston/migration-advisor/cli/internal/style"
	"github.com/markalston/migration-advisor/cli/internal/tui"
	"github.com/markalston/migration-advisor/models"
)

var (
	providerFlag   string
	regionFlag     string
	complexityFlag string
	startFlag      string
)

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Estimate cloud costs for the inventory",
	Long: `Fetch a component-level cloud cost estimate. Provider and region default to the stored preference.

Run without flags on a terminal to choose them interactively.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if shouldPrompt(cmd) {
			if err := promptTarget(false); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		exitCode := runCost(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var strategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "Recommend a migration strategy",
	Long: `Fetch per-component migration approaches and the phase plan.

Run without flags on a terminal to choose the target interactively.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if shouldPrompt(cmd) {
			if err := promptTarget(true); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		exitCode := runStrategy(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Build a project timeline",
	Long:  `Fetch a week-by-week project timeline. --start takes a YYYY-MM-DD date and defaults to today.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runTimeline(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	for _, c := range []*cobra.Command{costCmd, strategyCmd} {
		c.Flags().StringVar(&providerFlag, "provider", "", "Target cloud: AWS, Azure, or GCP")
		c.Flags().StringVar(&regionFlag, "region", "", "Target region (e.g. us-east-1)")
	}
	strategyCmd.Flags().StringVar(&complexityFlag, "complexity", "", "Complexity hint: low, medium, or high")
	timelineCmd.Flags().StringVar(&startFlag, "start", "", "Project start date (YYYY-MM-DD)")

	rootCmd.AddCommand(costCmd, strategyCmd, timelineCmd)
}

// targetFlagsGiven reports whether any target flag was set on the command line.
func targetFlagsGiven(cmd *cobra.Command) bool {
	for _, name := range []string{"provider", "region", "complexity"} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			return true
		}
	}
	return false
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// shouldPrompt is true for a human at a terminal who gave no target flags.
func shouldPrompt(cmd *cobra.Command) bool {
	return !IsJSONOutput() && !targetFlagsGiven(cmd) && isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

// promptTarget fills the target flags from the interactive form.
func promptTarget(withComplexity bool) error {
	t, err := tui.NewTargetForm(withComplexity).Run()
	if err != nil {
		return err
	}
	providerFlag, regionFlag = t.Provider, t.Region
	if withComplexity {
		complexityFlag = t.Complexity
	}
	return nil
}

// fetch runs call, drawing a spinner on stderr when w is a terminal.
func fetch[T any](ctx context.Context, w io.Writer, label string, call func(context.Context) (T, error)) (T, error) {
	if f, ok := w.(*os.File); ok && !IsJSONOutput() && isTerminal(f) && isTerminal(os.Stderr) {
		return tui.Spin(ctx, os.Stderr, label, call)
	}
	return call(ctx)
}

// runCost fetches a cost estimate and returns exit code
func runCost(ctx context.Context, w io.Writer) int {
	c := client.New(GetAPIURL())
	slog.Debug("Requesting cost estimate", "provider", providerFlag, "region", regionFlag)

	req := &models.CostRequest{Provider: providerFlag, Region: regionFlag}
	est, err := fetch(ctx, w, "Estimating costs", func(ctx context.Context) (*models.CostEstimate, error) {
		return c.CostEstimate(ctx, req)
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(est))
	} else {
		fmt.Fprintln(w, formatCostHuman(est))
	}
	return 0
}

// runStrategy fetches a migration strategy and returns exit code
func runStrategy(ctx context.Context, w io.Writer) int {
	c := client.New(GetAPIURL())
	slog.Debug("Requesting migration strategy", "provider", providerFlag, "complexity", complexityFlag)

	req := &models.StrategyRequest{
		Provider:   providerFlag,
		Region:     regionFlag,
		Complexity: complexityFlag,
	}
	st, err := fetch(ctx, w, "Recommending migration strategy", func(ctx context.Context) (*models.MigrationStrategy, error) {
		return c.MigrationStrategy(ctx, req)
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(st))
	} else {
		fmt.Fprintln(w, formatStrategyHuman(st))
	}
	return 0
}

// runTimeline fetches a timeline and returns exit code
func runTimeline(ctx context.Context, w io.Writer) int {
	c := client.New(GetAPIURL())
	slog.Debug("Requesting timeline", "start", startFlag)

	req := &models.TimelineRequest{StartDate: startFlag}
	tl, err := fetch(ctx, w, "Building timeline", func(ctx context.Context) (*models.Timeline, error) {
		return c.Timeline(ctx, req)
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(tl))
	} else {
		fmt.Fprintln(w, formatTimelineHuman(tl))
	}
	return 0
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n\n%s", style.Title(heading))
	for _, item := range items {
		fmt.Fprintf(b, "\n  - %s", item)
	}
}

// formatCostHuman formats a cost estimate for human readability
func formatCostHuman(est *models.CostEstimate) string {
	p := est.AIInsights.Provenance
	infra := est.CloudInfrastructure

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", style.Title("Cost Estimate"), style.SourceBadge(p.FallbackUsed, p.FallbackReason))
	fmt.Fprintf(&b, "Servers:        $%12.2f/mo  (%d)\n", infra.Servers.TotalMonthlyCost, len(infra.Servers.ServerRecommendations))
	fmt.Fprintf(&b, "Databases:      $%12.2f/mo  (%d)\n", infra.Databases.TotalMonthlyCost, len(infra.Databases.DatabaseRecommendations))
	fmt.Fprintf(&b, "Storage:        $%12.2f/mo  (%d)\n", infra.Storage.TotalMonthlyCost, len(infra.Storage.StorageRecommendations))
	fmt.Fprintf(&b, "Monthly Total:  $%12.2f\n\n", infra.TotalMonthlyCost)
	fmt.Fprintf(&b, "Annual Cloud:   $%12.2f\n", est.GrandTotal.AnnualCloudCost)
	fmt.Fprintf(&b, "One-time:       $%12.2f\n", est.GrandTotal.OneTimeMigrationCost)
	fmt.Fprintf(&b, "First Year:     $%12.2f\n", est.GrandTotal.TotalFirstYearCost)
	fmt.Fprintf(&b, "Confidence:     %.0f%%", p.ConfidenceLevel*100)
	writeList(&b, "Recommendations", est.AIInsights.Recommendations)
	writeList(&b, "Cost Optimization", est.AIInsights.CostOptimizationTips)
	if p.Message != "" {
		fmt.Fprintf(&b, "\n\n%s", style.Muted(p.Message))
	}
	return b.String()
}

// formatStrategyHuman formats a migration strategy for human readability
func formatStrategyHuman(st *models.MigrationStrategy) string {
	p := st.AIInsights.Provenance
	approach := st.MigrationApproach

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", style.Title("Migration Strategy"), style.SourceBadge(p.FallbackUsed, p.FallbackReason))
	fmt.Fprintf(&b, "Approach:     %s\n", approach.OverallStrategy)
	fmt.Fprintf(&b, "Duration:     %s\n", approach.EstimatedDuration)
	fmt.Fprintf(&b, "Complexity:   %s\n", approach.ComplexityLevel)
	if approach.Rationale != "" {
		fmt.Fprintf(&b, "Rationale:    %s\n", approach.Rationale)
	}

	b.WriteString("\n" + style.Title("Phases"))
	for _, phase := range st.MigrationPhases {
		fmt.Fprintf(&b, "\n  %d. %s (%s)", phase.Phase, phase.Name, phase.Duration)
	}
	writeList(&b, "High Risks", st.RiskAssessment.HighRisks)
	writeList(&b, "Quick Wins", st.Recommendations.QuickWins)
	writeList(&b, "Modernization", st.Recommendations.ModernizationOpportunities)
	if p.Message != "" {
		fmt.Fprintf(&b, "\n\n%s", style.Muted(p.Message))
	}
	return b.String()
}

// formatTimelineHuman formats a timeline for human readability
func formatTimelineHuman(tl *models.Timeline) string {
	p := tl.AIInsights.Provenance
	o := tl.ProjectOverview

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", style.Title("Project Timeline"), style.SourceBadge(p.FallbackUsed, p.FallbackReason))
	fmt.Fprintf(&b, "Start:        %s\n", o.EstimatedStartDate)
	fmt.Fprintf(&b, "End:          %s\n", o.EstimatedEndDate)
	fmt.Fprintf(&b, "Duration:     %d weeks (%.1f months)\n", o.TotalDurationWeeks, o.TotalDurationMonths)
	fmt.Fprintf(&b, "Complexity:   %.1f/10\n", o.ComplexityScore)

	b.WriteString("\n" + style.Title("Phases"))
	for _, phase := range tl.Phases {
		fmt.Fprintf(&b, "\n  %d. %-40s weeks %d-%d", phase.Phase, phase.Title, phase.StartWeek, phase.EndWeek)
	}
	writeList(&b, "Critical Path", tl.CriticalPath)
	risks := make([]string, 0, len(tl.RiskMitigation))
	for _, r := range tl.RiskMitigation {
		risks = append(risks, fmt.Sprintf("%s (+%dw buffer)", r.Risk, r.TimelineBufferWeeks))
	}
	writeList(&b, "Schedule Risks", risks)
	if p.Message != "" {
		fmt.Fprintf(&b, "\n\n%s", style.Muted(p.Message))
	}
	return b.String()
}
