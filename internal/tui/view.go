package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/internal/ratemath"
	"github.com/LucianBellevue/ba-website/internal/wizard"
)

var stepTitles = map[wizard.Step]string{
	wizard.StepBasicInfo:       "About you",
	wizard.StepCoverageDetails: "Coverage",
	wizard.StepHealthDetails:   "Health",
	wizard.StepContactGate:     "Where should we send your estimate?",
	wizard.StepResult:          "Your estimate",
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.wizard.Product().Name))
	b.WriteString("\n")
	b.WriteString(m.progress())
	b.WriteString("\n\n")

	step := m.wizard.Step()
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(stepTitles[step]))
	b.WriteString("\n\n")

	if step == wizard.StepResult {
		b.WriteString(m.resultView())
	} else {
		b.WriteString(m.formView())
	}

	b.WriteString(helpStyle.Render(m.help()))
	return appStyle.Render(b.String())
}

func (m Model) progress() string {
	steps := m.wizard.Steps()
	cur := m.wizard.Step()
	parts := make([]string, len(steps))
	for i, s := range steps {
		label := fmt.Sprintf("%d %s", i+1, stepTitles[s])
		if s == cur {
			parts[i] = focusStyle.Render(label)
		} else {
			parts[i] = stepStyle.Render(label)
		}
	}
	return strings.Join(parts, stepStyle.Render(" > "))
}

func (m Model) formView() string {
	var b strings.Builder
	for i, f := range m.fields {
		label := labelStyle.Render(f.label)
		if i == m.focus {
			label = focusStyle.Inherit(labelStyle).Render(f.label)
		}
		b.WriteString(label + f.input.View() + "\n")
		if msg := m.fieldError(f.key); msg != "" {
			b.WriteString(errorStyle.Render("  "+msg) + "\n")
		}
	}

	if m.wizard.Submitting() {
		b.WriteString("\nSending...\n")
	}
	if msg := m.wizard.Message(); msg != "" {
		b.WriteString("\n" + errorStyle.Render(msg) + "\n")
	}
	return b.String()
}

func (m Model) resultView() string {
	est, err := m.wizard.Result()
	var body string
	switch {
	case errors.Is(err, core.ErrRateNotFound):
		body = "We could not price these details online.\nA licensed agent will follow up with a quote."
	case err != nil:
		body = errorStyle.Render(err.Error())
	case est.RequiresAgent():
		body = fmt.Sprintf("Coverage of %s needs a licensed agent's review.\nOnline estimates at your age go up to %s.",
			ratemath.FormatCoverage(est.Coverage.Amount), ratemath.FormatCoverage(est.MaxCoverage))
	default:
		body = rangeStyle.Render(ratemath.FormatCurrency(est.Low)+" - "+ratemath.FormatCurrency(est.High)) +
			" per month\n" +
			stepStyle.Render(fmt.Sprintf("%s coverage, rates %s", ratemath.FormatCoverage(est.Coverage.Amount), est.RatesVersion))
		if est.Health != nil {
			body += "\n" + stepStyle.Render(fmt.Sprintf("Health class: %s (BMI %s)", est.Health.HealthClass, est.Health.BMI))
		}
	}
	if id := m.wizard.LeadID(); id != "" {
		body += "\n\n" + stepStyle.Render("Reference "+id)
	}
	return resultBoxStyle.Render(body) + "\n"
}

func (m Model) help() string {
	bindings := []string{keys.Back.Help().Key + " " + keys.Back.Help().Desc}
	if m.wizard.Step() == wizard.StepResult {
		bindings[0] = keys.Back.Help().Key + " edit details"
	} else {
		bindings = append(bindings,
			keys.Continue.Help().Key+" "+keys.Continue.Help().Desc,
			keys.Next.Help().Key+" "+keys.Next.Help().Desc)
	}
	bindings = append(bindings,
		keys.StartOver.Help().Key+" "+keys.StartOver.Help().Desc,
		keys.Quit.Help().Key+" "+keys.Quit.Help().Desc)
	return strings.Join(bindings, " · ")
}
