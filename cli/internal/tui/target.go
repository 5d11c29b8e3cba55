// ABOUTME: Interactive form for target cloud parameters
// ABOUTME: Asks for provider, region, and complexity when no flags were given

package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Mirrors the server-side region check so typos fail before the request.
var regionPattern = regexp.MustCompile(`^[a-z][a-z0-9-]{1,40}$`)

var providerOptions = []huh.Option[string]{
	huh.NewOption("Stored preference", ""),
	huh.NewOption("AWS", "AWS"),
	huh.NewOption("Azure", "Azure"),
	huh.NewOption("Google Cloud", "GCP"),
}

var complexityOptions = []huh.Option[string]{
	huh.NewOption("Derive from inventory", ""),
	huh.NewOption("Low", "low"),
	huh.NewOption("Medium", "medium"),
	huh.NewOption("High", "high"),
}

// Target is what the form collects. Empty fields defer to the backend.
type Target struct {
	Provider   string
	Region     string
	Complexity string
}

// TargetForm collects target parameters for the cost and strategy commands.
type TargetForm struct {
	target         Target
	withComplexity bool
	form           *huh.Form
}

func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	purple := lipgloss.Color("#7C3AED")
	gray := lipgloss.Color("#6B7280")
	red := lipgloss.Color("#EF4444")

	t.Group.Title = lipgloss.NewStyle().Foreground(purple).Bold(true).MarginBottom(1)
	t.Focused.Title = lipgloss.NewStyle().Foreground(purple).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(gray)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(purple).SetString("> ")
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(purple).Bold(true)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(red)
	t.Blurred.Title = lipgloss.NewStyle().Foreground(gray)
	return t
}

// NewTargetForm builds the form. Complexity is only asked for strategies.
func NewTargetForm(withComplexity bool) *TargetForm {
	f := &TargetForm{withComplexity: withComplexity}

	fields := []huh.Field{
		huh.NewSelect[string]().
			Title("Target cloud").
			Description("Use ↑/↓ to select, Enter to confirm").
			Options(providerOptions...).
			Value(&f.target.Provider),
		huh.NewInput().
			Title("Region").
			Description("Leave empty for the stored preference").
			Placeholder("e.g., us-east-1").
			CharLimit(41).
			Value(&f.target.Region).
			Validate(validateRegion),
	}
	if withComplexity {
		fields = append(fields, huh.NewSelect[string]().
			Title("Complexity").
			Options(complexityOptions...).
			Value(&f.target.Complexity))
	}

	f.form = huh.NewForm(
		huh.NewGroup(fields...).
			Title("Migration Target").
			Description("Where should the inventory move?"),
	).WithTheme(createTheme())
	return f
}

// Run shows the form on the terminal and returns the answers.
func (f *TargetForm) Run() (Target, error) {
	if err := f.form.Run(); err != nil {
		return Target{}, fmt.Errorf("target form: %w", err)
	}
	return f.Target(), nil
}

// Target returns the current answers with whitespace trimmed.
func (f *TargetForm) Target() Target {
	t := Target{
		Provider: f.target.Provider,
		Region:   strings.TrimSpace(f.target.Region),
	}
	if f.withComplexity {
		t.Complexity = f.target.Complexity
	}
	return t
}

func validateRegion(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || regionPattern.MatchString(s) {
		return nil
	}
	return fmt.Errorf("use a lowercase region name such as us-east-1")
}
