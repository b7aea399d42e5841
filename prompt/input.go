package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"aws-sso-login/styles"
)

type inputModel struct {
	title   string
	secret  bool
	input   textinput.Model
	warning string
	done    bool
	aborted bool
}

func newInputModel(title string, secret bool) inputModel {
	t := textinput.New()
	t.Focus()
	t.CharLimit = 256
	t.Width = 40
	t.Prompt = "› "
	t.PromptStyle = lipgloss.NewStyle().Foreground(styles.Primary)
	if secret {
		t.EchoMode = textinput.EchoPassword
		t.EchoCharacter = '•'
	}

	return inputModel{title: title, secret: secret, input: t}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.value() == "" {
				m.warning = m.title + " is required"
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		}
	}

	m.warning = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.warning != "" {
		b.WriteString(styles.WarningStyle.Render(m.warning))
		b.WriteString("\n")
	}
	b.WriteString(styles.HelpStyle.Render("enter: submit • esc: cancel"))
	b.WriteString("\n")
	return b.String()
}

// Value returns the submitted text. Secrets are returned as typed.
func (m inputModel) Value() (string, error) {
	if !m.done {
		return "", ErrUserAborted
	}
	return m.value(), nil
}

func (m inputModel) value() string {
	if m.secret {
		return m.input.Value()
	}
	return strings.TrimSpace(m.input.Value())
}

func (m inputModel) finished() bool {
	return m.done || m.aborted
}
