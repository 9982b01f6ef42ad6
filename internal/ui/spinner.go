package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/razzo04/rhasspy-skills/internal/core"
)

type spinDoneMsg struct{}

type spinModel struct {
	spinner  spinner.Model
	title    string
	cancel   context.CancelFunc
	aborting bool
	done     bool
}

func newSpinModel(theme Theme, title string, cancel context.CancelFunc) spinModel {
	return spinModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(theme.Spinner),
		),
		title:  title,
		cancel: cancel,
	}
}

func (m spinModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinDoneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && !m.aborting {
			// Keep running until the operation returns so that cleanup
			// happens before the program exits.
			m.aborting = true
			m.title = "Cancelling..."
			m.cancel()
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.title + "\n"
}

// Spin runs fn while showing title. On a terminal an animated spinner is
// drawn and ctrl+c cancels fn's context; a failure of fn after that is
// reported as ErrAborted. Elsewhere the title is printed once.
func Spin(ctx context.Context, w io.Writer, title string, fn func(ctx context.Context) error) error {
	if !IsTerminal(w) {
		_, _ = fmt.Fprintln(w, title)
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newSpinModel(NewTheme(w), title, cancel), tea.WithOutput(w))
	result := make(chan error, 1)
	go func() {
		err := fn(ctx)
		result <- err
		p.Send(spinDoneMsg{})
	}()

	final, runErr := p.Run()
	err := <-result
	if m, ok := final.(spinModel); ok && runErr == nil && m.aborting && err != nil {
		return core.ErrAborted
	}
	return err
}
