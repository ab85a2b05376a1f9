package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/internal/rates"
	"github.com/LucianBellevue/ba-website/internal/wizard"
)

// field is one labelled text input. key matches the FieldErrors key it reports under.
type field struct {
	key   string
	label string
	input textinput.Model
}

func newField(key, label, placeholder, value string, limit int) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 30
	ti.SetValue(value)
	return field{key: key, label: label, input: ti}
}

// fieldsFor builds the inputs for step, prefilled from the wizard's answers.
func fieldsFor(w *wizard.Wizard) []field {
	in := w.Input()
	switch w.Step() {
	case wizard.StepBasicInfo:
		p := w.Product()
		return []field{
			newField("age", "Age", strconv.Itoa(p.MinAge)+"-"+strconv.Itoa(p.MaxAge), itoaOrEmpty(in.Age), 3),
			newField("gender", "Gender", "female / male", string(in.Gender), 6),
			newField("tobacco", "Tobacco in last 12 mo", "yes / no", yesNo(in.Tobacco, in.Age > 0), 3),
			newField("state", "State (optional)", "TX or Texas", in.State, 20),
		}
	case wizard.StepCoverageDetails:
		fs := []field{newField("coverage", "Coverage", coverageHint(w.AvailableCoverages()), in.Coverage, 5)}
		if p := w.Product(); len(p.Styles) > 1 {
			fs = append(fs, newField("policyStyle", "Policy style", joinStyles(p.Styles), string(in.Style), 10))
		}
		return fs
	case wizard.StepHealthDetails:
		h := core.HealthDetails{}
		if in.Health != nil {
			h = *in.Health
		}
		answered := h.HeightFeet > 0
		return []field{
			newField("heightFeet", "Height (feet)", "4-7", itoaOrEmpty(h.HeightFeet), 1),
			newField("heightInches", "Height (inches)", "0-11", itoaOrEmpty(h.HeightInches), 2),
			newField("weight", "Weight (lbs)", "80-500", itoaOrEmpty(h.WeightLbs), 3),
			newField("chronicCondition", "Chronic condition", "yes / no", yesNo(h.ChronicCondition, answered), 3),
			newField("familyHistory", "Family history", "yes / no", yesNo(h.FamilyHistory, answered), 3),
			newField("medications", "Daily medications", "yes / no", yesNo(h.Medications, answered), 3),
		}
	case wizard.StepContactGate:
		return []field{
			newField("firstName", "First name", "", "", 50),
			newField("lastName", "Last name", "", "", 50),
			newField("email", "Email", "you@example.com", "", 100),
			newField("phone", "Phone", "(555) 123-4567", "", 20),
			newField("consent", "OK to contact you?", "yes / no", "", 3),
		}
	}
	return nil
}

func values(fs []field) map[string]string {
	out := make(map[string]string, len(fs))
	for _, f := range fs {
		out[f.key] = strings.TrimSpace(f.input.Value())
	}
	return out
}

// Unparseable numbers become zero and fail the wizard's range checks.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func itoaOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func parseYes(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes", "true":
		return true
	}
	return false
}

func yesNo(v, answered bool) string {
	switch {
	case v:
		return "yes"
	case answered:
		return "no"
	}
	return ""
}

func basicInfo(v map[string]string) wizard.BasicInfo {
	g, _ := rates.ParseGender(v["gender"])
	return wizard.BasicInfo{
		Age:     atoi(v["age"]),
		Gender:  g,
		Tobacco: parseYes(v["tobacco"]),
		State:   v["state"],
	}
}

func coverageDetails(v map[string]string) wizard.CoverageDetails {
	return wizard.CoverageDetails{
		Coverage: strings.ToLower(v["coverage"]),
		Style:    rates.PolicyStyle(strings.ToLower(v["policyStyle"])),
	}
}

func healthDetails(v map[string]string) core.HealthDetails {
	return core.HealthDetails{
		HeightFeet:       atoi(v["heightFeet"]),
		HeightInches:     atoi(v["heightInches"]),
		WeightLbs:        atoi(v["weight"]),
		ChronicCondition: parseYes(v["chronicCondition"]),
		FamilyHistory:    parseYes(v["familyHistory"]),
		Medications:      parseYes(v["medications"]),
	}
}

func contactInfo(v map[string]string) core.ContactInfo {
	return core.ContactInfo{
		FirstName: v["firstName"],
		LastName:  v["lastName"],
		Email:     v["email"],
		Phone:     v["phone"],
		Consent:   parseYes(v["consent"]),
	}
}

func coverageHint(cs []core.Coverage) string {
	keys := make([]string, len(cs))
	for i, c := range cs {
		keys[i] = c.Key
	}
	return strings.Join(keys, " ")
}

func joinStyles(ss []rates.PolicyStyle) string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return strings.Join(out, " / ")
}
