// Package tui is a terminal front-end for the calculator wizard.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LucianBellevue/ba-website/internal/wizard"
)

const submitTimeout = 20 * time.Second

type keyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Continue  key.Binding
	Back      key.Binding
	StartOver key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Next:      key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:      key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
	Continue:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	StartOver: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "start over")),
	Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

// submittedMsg carries the outcome of a contact-gate submission.
type submittedMsg struct{ err error }

type Model struct {
	wizard *wizard.Wizard
	fields []field
	focus  int
	err    error
	width  int
}

func NewModel(w *wizard.Wizard) Model {
	m := Model{wizard: w}
	m.loadStep()
	return m
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(w *wizard.Wizard) error {
	_, err := tea.NewProgram(NewModel(w), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m *Model) loadStep() {
	m.fields = fieldsFor(m.wizard)
	m.focus = 0
	m.setFocus()
}

func (m *Model) setFocus() {
	for i := range m.fields {
		if i == m.focus {
			m.fields[i].input.Focus()
		} else {
			m.fields[i].input.Blur()
		}
	}
}

func (m Model) submit() tea.Cmd {
	contact := contactInfo(values(m.fields))
	w := m.wizard
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		return submittedMsg{err: w.SubmitContact(ctx, contact)}
	}
}
