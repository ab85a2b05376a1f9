package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/internal/rates"
	"github.com/LucianBellevue/ba-website/internal/wizard"
)

type submitter struct {
	err error
	got []core.LeadRequest
}

func (s *submitter) SubmitLead(_ context.Context, req core.LeadRequest) (core.LeadResponse, error) {
	s.got = append(s.got, req)
	if s.err != nil {
		return core.LeadResponse{}, s.err
	}
	return core.LeadResponse{OK: true, LeadID: "lead_42_deadbeef"}, nil
}

func newTestModel(t *testing.T, product string, sub *submitter) Model {
	t.Helper()
	w, err := wizard.New(product, core.NewEstimator(rates.NewRegistry(rates.Default())), sub, "tui-test")
	require.NoError(t, err)
	return NewModel(w)
}

func send(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func typeText(s string) tea.Msg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// fill types one value per field, tabbing between them.
func fill(m Model, vals ...string) Model {
	for i, v := range vals {
		if i > 0 {
			m, _ = send(m, tab)
		}
		m, _ = send(m, typeText(v))
	}
	return m
}

func TestFlowToEstimate(t *testing.T) {
	sub := &submitter{}
	m := newTestModel(t, "final_expense", sub)
	require.Len(t, m.fields, 4)

	m = fill(m, "65", "f", "no")
	m, _ = send(m, enter)
	require.NoError(t, m.err)
	require.Equal(t, wizard.StepCoverageDetails, m.wizard.Step())
	require.Len(t, m.fields, 2, "final expense offers two styles")

	m = fill(m, "10k")
	m, _ = send(m, enter)
	require.Equal(t, wizard.StepContactGate, m.wizard.Step())

	m = fill(m, "Ada", "Lovelace", "ada@example.com", "555-123-4567", "yes")
	m, cmd := send(m, enter)
	require.NotNil(t, cmd)
	m, _ = send(m, cmd())

	require.NoError(t, m.err)
	assert.Equal(t, wizard.StepResult, m.wizard.Step())
	assert.Contains(t, m.View(), "$36 - $46")
	assert.Contains(t, m.View(), "lead_42_deadbeef")
	require.Len(t, sub.got, 1)
	assert.Equal(t, "tui-test", sub.got[0].Source)

	m, _ = send(m, esc)
	assert.Equal(t, wizard.StepCoverageDetails, m.wizard.Step())
	assert.Equal(t, "10k", m.fields[0].input.Value(), "answers are prefilled")
}

func TestValidationShownInline(t *testing.T) {
	m := newTestModel(t, "term_life", &submitter{})
	m = fill(m, "90", "m")
	m, _ = send(m, enter)

	assert.ErrorIs(t, m.err, core.ErrValidation)
	assert.Equal(t, wizard.StepBasicInfo, m.wizard.Step())
	assert.NotEmpty(t, m.fieldError("age"))
	assert.Contains(t, m.View(), m.fieldError("age"))
}

func TestSubmitFailureStaysAtGate(t *testing.T) {
	sub := &submitter{err: errors.New("offline")}
	m := newTestModel(t, "final_expense", sub)
	m = fill(m, "70", "female")
	m, _ = send(m, enter)
	m = fill(m, "35k")
	m, _ = send(m, enter)
	m = fill(m, "Ada", "Lovelace", "ada@example.com", "5551234567", "y")

	m, cmd := send(m, enter)
	m, _ = send(m, cmd())
	assert.ErrorIs(t, m.err, wizard.ErrSubmitFailed)
	assert.Equal(t, wizard.StepContactGate, m.wizard.Step())
	assert.Contains(t, m.View(), wizard.SubmitFailedMessage)

	sub.err = nil
	m, cmd = send(m, enter)
	m, _ = send(m, cmd())
	require.NoError(t, m.err)
	assert.Contains(t, m.View(), "agent")
}

func TestStartOverKey(t *testing.T) {
	m := newTestModel(t, "whole_life", &submitter{})
	m = fill(m, "40", "m")
	m, _ = send(m, enter)
	require.Equal(t, wizard.StepCoverageDetails, m.wizard.Step())

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, wizard.StepBasicInfo, m.wizard.Step())
	assert.Empty(t, m.fields[0].input.Value())
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, "term_life", &submitter{})
	_, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
