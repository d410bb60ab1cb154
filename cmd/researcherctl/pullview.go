package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/webresearch/researcherctl/pkg/ollama"
)

type pullProgressMsg ollama.PullProgress

type pullDoneMsg struct{ err error }

// pullModel is the bubbletea model for the download progress view.
type pullModel struct {
	name      string
	spin      spinner.Model
	bar       progress.Model
	status    string
	completed int64
	total     int64
	done      bool
	canceled  bool
	err       error
}

func newPullModel(name string) pullModel {
	s := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(spinnerStyle))

	b := progress.New(progress.WithDefaultGradient())
	b.Width = 40

	return pullModel{
		name:   name,
		spin:   s,
		bar:    b,
		status: "connecting",
	}
}

func (m pullModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m pullModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.canceled = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)

		return m, cmd

	case pullProgressMsg:
		m.status = msg.Status
		if msg.Total > 0 {
			m.completed = msg.Completed
			m.total = msg.Total
		}

		return m, nil

	case pullDoneMsg:
		m.done = true
		m.err = msg.err

		return m, tea.Quit
	}

	return m, nil
}

func (m pullModel) View() string {
	if m.done {
		if m.err != nil {
			return errorStyle.Render(fmt.Sprintf("Failed to pull %s: %v", m.name, m.err)) + "\n"
		}

		return successStyle.Render(fmt.Sprintf("Pulled %s", m.name)) + "\n"
	}

	line := fmt.Sprintf("%s Pulling %s — %s", m.spin.View(), m.name, m.status)

	if m.total > 0 {
		pct := float64(m.completed) / float64(m.total)
		line += "\n  " + m.bar.ViewAs(pct) + " " + dimStyle.Render(fmt.Sprintf("%s / %s", fmtBytes(m.completed), fmtBytes(m.total)))
	}

	return line + "\n"
}

// runPullView downloads a model behind an animated progress view. The pull
// runs in a goroutine that feeds progress messages into the program.
func runPullView(ctx context.Context, client *ollama.Client, name string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newPullModel(name))

	go func() {
		err := client.Pull(ctx, name, func(pr ollama.PullProgress) {
			p.Send(pullProgressMsg(pr))
		})
		p.Send(pullDoneMsg{err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(pullModel); ok {
		if m.canceled {
			return fmt.Errorf("pull %s: canceled", name)
		}

		return m.err
	}

	return nil
}

// runPullPlain downloads a model with carriage-return progress output, for
// non-interactive terminals and logs.
func runPullPlain(ctx context.Context, client *ollama.Client, name string) error {
	var lastStatus string

	err := client.Pull(ctx, name, func(pr ollama.PullProgress) {
		if pr.Total > 0 {
			fmt.Printf("\r%s: %s / %s", pr.Status, fmtBytes(pr.Completed), fmtBytes(pr.Total))

			return
		}

		if pr.Status != lastStatus {
			lastStatus = pr.Status
			fmt.Printf("\n%s", pr.Status)
		}
	})

	fmt.Println()

	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("Pulled %s", name)))

	return nil
}
