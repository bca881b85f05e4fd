// Package tui is an interactive console for answering the daemon's prompts.
// It watches GET /prompt and renders whatever question the current run is
// blocked on: confirmations answer with a keypress, input prompts with a
// text field.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/foremanhq/foreman/internals/cliutil"
	"github.com/foremanhq/foreman/internals/schemas"
	"github.com/foremanhq/foreman/internals/timeouts"
	"github.com/foremanhq/foreman/sdk"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Run starts the prompt console against the given client and blocks until
// the user quits.
func Run(client *sdk.Client) error {
	if err := cliutil.EnsureDaemonRunning(client); err != nil {
		return err
	}

	program := tea.NewProgram(newPromptModel(client))
	_, err := program.Run()
	return err
}

type promptModel struct {
	client *sdk.Client
	input  textinput.Model
	view   *schemas.PromptView
	status string
	err    error
}

type promptMsg struct {
	view *schemas.PromptView
	err  error
}

type resolvedMsg struct {
	message string
	err     error
}

func newPromptModel(client *sdk.Client) promptModel {
	input := textinput.New()
	input.Prompt = "> "
	return promptModel{client: client, input: input}
}

func (m promptModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.poll())
}

func (m promptModel) poll() tea.Cmd {
	client := m.client
	return tea.Tick(timeouts.StatusPoll, func(time.Time) tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.SecondShort)
		defer cancel()
		view, err := client.CurrentPrompt(ctx)
		return promptMsg{view: view, err: err}
	})
}

func (m promptModel) resolve(response any) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.SecondShort)
		defer cancel()
		resolved, err := client.ResolvePrompt(ctx, response)
		if err != nil {
			return resolvedMsg{err: err}
		}
		return resolvedMsg{message: resolved.Message}
	}
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case promptMsg:
		return m.onPoll(msg)
	case resolvedMsg:
		return m.onResolved(msg)
	case tea.KeyMsg:
		return m.onKey(msg)
	}

	if m.view != nil && m.view.Type == schemas.PromptTypeInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// onPoll folds the latest GET /prompt answer into the model. The same
// question staying pending must not reset what the user already typed.
func (m promptModel) onPoll(msg promptMsg) (tea.Model, tea.Cmd) {
	m.err = msg.err
	if msg.err != nil {
		return m, m.poll()
	}
	if msg.view == nil {
		m.view = nil
		return m, m.poll()
	}
	if m.view != nil && m.view.Message == msg.view.Message && m.view.Type == msg.view.Type {
		return m, m.poll()
	}

	m.view = msg.view
	m.status = ""
	if msg.view.Type == schemas.PromptTypeInput {
		m.input.Reset()
		return m, tea.Batch(m.input.Focus(), m.poll())
	}
	m.input.Blur()
	return m, m.poll()
}

func (m promptModel) onResolved(msg resolvedMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, sdk.ErrNoPendingPrompt):
		m.status = "prompt was already answered"
	case msg.err != nil:
		m.status = errorStyle.Render(msg.err.Error())
		return m, nil
	default:
		m.status = "answered"
	}
	m.view = nil
	m.input.Blur()
	return m, nil
}

func (m promptModel) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.view == nil {
		if key == "q" || key == "esc" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.view.Type {
	case schemas.PromptTypeConfirm:
		switch key {
		case "y", "Y":
			return m, m.resolve(true)
		case "n", "N":
			return m, m.resolve(false)
		case "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	default:
		switch key {
		case "esc":
			return m, tea.Quit
		case "enter":
			answer := strings.TrimSpace(m.input.Value())
			if answer == "" {
				return m, nil
			}
			return m, m.resolve(answer)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m promptModel) View() string {
	lines := []string{titleStyle.Render("foreman prompts"), ""}

	switch {
	case m.view == nil:
		lines = append(lines, faintStyle.Render("waiting for prompts..."))
		if m.status != "" {
			lines = append(lines, "", m.status)
		}
		lines = append(lines, "", faintStyle.Render("q: quit"))
	case m.view.Type == schemas.PromptTypeConfirm:
		lines = append(lines,
			promptStyle.Render(m.view.Message),
			"",
			faintStyle.Render("y: approve  n: decline  q: quit"),
		)
	default:
		lines = append(lines,
			promptStyle.Render(m.view.Message),
			"",
			m.input.View(),
			"",
			faintStyle.Render("Enter: submit  Esc: quit"),
		)
	}

	if m.err != nil {
		lines = append(lines, "", errorStyle.Render(fmt.Sprintf("daemon unreachable: %v", m.err)))
	}
	return strings.Join(lines, "\n") + "\n"
}
