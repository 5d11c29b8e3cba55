// ABOUTME: Spinner shown while an advisory request is in flight
// ABOUTME: Runs the fetch as a bubbletea command and returns its result

package tui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))

type fetchedMsg[T any] struct {
	value T
	err   error
}

// spinnerModel ticks until the fetch finishes or the user presses ctrl+c.
type spinnerModel[T any] struct {
	spinner spinner.Model
	label   string
	fetch   tea.Cmd
	cancel  context.CancelFunc

	done  bool
	value T
	err   error
}

func newSpinnerModel[T any](ctx context.Context, label string, fetch func(context.Context) (T, error)) *spinnerModel[T] {
	ctx, cancel := context.WithCancel(ctx)
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return &spinnerModel[T]{
		spinner: s,
		label:   label,
		cancel:  cancel,
		fetch: func() tea.Msg {
			v, err := fetch(ctx)
			return fetchedMsg[T]{value: v, err: err}
		},
	}
}

// Init implements tea.Model
func (m *spinnerModel[T]) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch)
}

// Update implements tea.Model
func (m *spinnerModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchedMsg[T]:
		m.done = true
		m.value, m.err = msg.value, msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done = true
			m.err = context.Canceled
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m *spinnerModel[T]) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.label + "\n"
}

// Spin runs fetch while drawing a spinner with label on out.
func Spin[T any](ctx context.Context, out io.Writer, label string, fetch func(context.Context) (T, error)) (T, error) {
	m := newSpinnerModel(ctx, label, fetch)
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(out))
	if _, err := p.Run(); err != nil {
		var zero T
		return zero, err
	}
	return m.value, m.err
}
