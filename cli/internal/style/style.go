// ABOUTME: Shared lipgloss styles for CLI output
// ABOUTME: Renders status badges and section titles for human-readable reports

package style

import "github.com/charmbracelet/lipgloss"

// Level is the severity a badge conveys.
type Level int

const (
	OK Level = iota
	Warning
	Critical
	Info
)

var (
	okBg   = lipgloss.Color("#10B981")
	warnBg = lipgloss.Color("#F59E0B")
	critBg = lipgloss.Color("#EF4444")
	infoBg = lipgloss.Color("#3B82F6")

	title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED"))

	muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))
)

// Badge renders text as a colored inline badge.
func Badge(text string, level Level) string {
	bg, fg := okBg, lipgloss.Color("#FFFFFF")
	switch level {
	case Warning:
		bg, fg = warnBg, lipgloss.Color("#000000")
	case Critical:
		bg = critBg
	case Info:
		bg = infoBg
	}
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// SourceBadge labels an artifact with where it came from.
func SourceBadge(fallbackUsed bool, reason string) string {
	if !fallbackUsed {
		return Badge("AI", OK)
	}
	if reason != "" {
		return Badge("RULES: "+reason, Warning)
	}
	return Badge("RULES", Info)
}

// Title renders a section heading.
func Title(s string) string {
	return title.Render(s)
}

// Muted renders secondary text.
func Muted(s string) string {
	return muted.Render(s)
}
