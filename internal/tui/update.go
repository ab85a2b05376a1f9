package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/internal/wizard"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case submittedMsg:
		if errors.Is(msg.err, wizard.ErrSubmitting) {
			return m, nil
		}
		m.err = msg.err
		if msg.err == nil {
			m.loadStep()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case m.wizard.Submitting():
		return m, nil

	case key.Matches(msg, keys.StartOver):
		if err := m.wizard.StartOver(); err != nil {
			return m, nil
		}
		m.err = nil
		m.loadStep()
		return m, nil

	case key.Matches(msg, keys.Back):
		if err := m.wizard.Back(); err == nil {
			m.err = nil
			m.loadStep()
		}
		return m, nil

	case key.Matches(msg, keys.Next):
		if len(m.fields) > 0 {
			m.focus = (m.focus + 1) % len(m.fields)
			m.setFocus()
		}
		return m, nil

	case key.Matches(msg, keys.Prev):
		if len(m.fields) > 0 {
			m.focus = (m.focus - 1 + len(m.fields)) % len(m.fields)
			m.setFocus()
		}
		return m, nil

	case key.Matches(msg, keys.Continue):
		return m.advance()
	}
	return m.updateFocused(msg)
}

// advance hands the step's answers to the wizard and moves on when they pass.
func (m Model) advance() (tea.Model, tea.Cmd) {
	v := values(m.fields)
	switch m.wizard.Step() {
	case wizard.StepBasicInfo:
		m.wizard.SetBasicInfo(basicInfo(v))
	case wizard.StepCoverageDetails:
		m.wizard.SetCoverage(coverageDetails(v))
	case wizard.StepHealthDetails:
		m.wizard.SetHealth(healthDetails(v))
	case wizard.StepContactGate:
		m.err = nil
		return m, m.submit()
	case wizard.StepResult:
		return m, nil
	}

	m.err = m.wizard.Continue()
	if m.err == nil {
		m.loadStep()
	}
	return m, nil
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus >= len(m.fields) {
		return m, nil
	}
	var cmd tea.Cmd
	m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
	return m, cmd
}

// fieldError returns the message for key from the last rejected step.
func (m Model) fieldError(key string) string {
	var fe core.FieldErrors
	if errors.As(m.err, &fe) {
		return fe[key]
	}
	return ""
}
