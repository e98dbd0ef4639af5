package browse

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/codedesc/internal/describe"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// describeDoneMsg carries the outcome back from the describe goroutine.
type describeDoneMsg struct {
	out describe.Outcome
}

type spinnerTickMsg struct{}

type loaderModel struct {
	label    string
	ctx      context.Context
	cancel   context.CancelFunc
	describe func(ctx context.Context) describe.Outcome
	frame    int
	result   describe.Outcome
	err      error
	done     bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doDescribe(), m.tick())
}

func (m loaderModel) doDescribe() tea.Cmd {
	ctx, fn := m.ctx, m.describe
	return func() tea.Msg {
		return describeDoneMsg{out: fn(ctx)}
	}
}

func (m loaderModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case describeDoneMsg:
		m.result = msg.out
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, m.tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done = true
			m.err = fmt.Errorf("cancelled")
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
	return fmt.Sprintf("%s Describing %s...\n", spinner, m.label)
}

// RunLoader shows a spinner while run describes a file and returns its
// outcome. It renders inline (no alt screen). ctrl+c cancels the context
// handed to run.
func RunLoader(ctx context.Context, label string, run func(ctx context.Context) describe.Outcome) (describe.Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := loaderModel{
		label:    label,
		ctx:      ctx,
		cancel:   cancel,
		describe: run,
	}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return describe.Outcome{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
