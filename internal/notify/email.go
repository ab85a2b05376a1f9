// Package notify holds the outbound collaborators of lead capture: the
// agency's notification email and the CRM contact upsert.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/goccy/go-json"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/internal/ratemath"
)

type EmailConfig struct {
	URL    string
	APIKey string
	From   string
	To     []string
}

// EmailSender posts a JSON message to a transactional email API.
type EmailSender struct {
	cfg    EmailConfig
	client *http.Client
	log    *slog.Logger
}

func NewEmailSender(cfg EmailConfig, client *http.Client, log *slog.Logger) *EmailSender {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &EmailSender{cfg: cfg, client: client, log: log}
}

type emailMessage struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

func (s *EmailSender) NotifyLead(ctx context.Context, lead core.Lead) error {
	if s.cfg.URL == "" || len(s.cfg.To) == 0 {
		return core.ErrNotConfigured
	}

	body, err := RenderLeadEmail(lead)
	if err != nil {
		return err
	}
	msg := emailMessage{
		From:    s.cfg.From,
		To:      s.cfg.To,
		ReplyTo: lead.Contact.Email,
		Subject: LeadSubject(lead),
		Text:    body,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("send email: provider returned %d", resp.StatusCode)
	}
	s.log.DebugContext(ctx, "lead email sent", "lead_id", lead.ID)
	return nil
}

// LogNotifier stands in when no email API is configured. It records that a
// lead arrived and reports ErrNotConfigured so the lead shows emailSent=false.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyLead(ctx context.Context, lead core.Lead) error {
	n.log.InfoContext(ctx, "lead notification not sent: email not configured",
		"lead_id", lead.ID, "kind", lead.Kind, "product", lead.Product)
	return core.ErrNotConfigured
}

func LeadSubject(lead core.Lead) string {
	name := lead.Contact.FullName()
	if lead.Kind == core.LeadCalculator {
		if p, err := core.ProductFor(string(lead.Product)); err == nil {
			return fmt.Sprintf("New %s lead: %s", p.Name, name)
		}
	}
	return "New contact request: " + name
}

var leadEmail = template.Must(template.New("lead").Funcs(template.FuncMap{
	"phone":    ratemath.FormatPhone,
	"coverage": ratemath.FormatCoverage,
	"state":    core.StateName,
	"upper":    strings.ToUpper,
}).Parse(`New lead {{.ID}} ({{.Kind}})

Name:   {{.Contact.FullName}}
Email:  {{.Contact.Email}}
Phone:  {{phone .Contact.Phone}}
{{- with .Contact.State}}
State:  {{state .}}{{end}}
{{- with .Inputs}}

Product:   {{.Product}} ({{.Style}})
Age:       {{.Age}}
Gender:    {{.Gender}}
Tobacco:   {{if .Tobacco}}yes{{else}}no{{end}}
Coverage:  {{upper .Coverage}}
{{- with .State}}
State:     {{state .}}{{end}}
{{- with .Health}}
Height:    {{.HeightFeet}}' {{.HeightInches}}"
Weight:    {{.WeightLbs}} lbs
Chronic condition: {{if .ChronicCondition}}yes{{else}}no{{end}}
Family history:    {{if .FamilyHistory}}yes{{else}}no{{end}}
Medications:       {{if .Medications}}yes{{else}}no{{end}}{{end}}{{end}}
{{- with .Estimate}}

Estimate:  {{.RangeText}}
{{- if .HealthClass}}
Health class: {{.HealthClass}}{{end}}
Max coverage at this age: {{coverage .MaxCoverage}}{{end}}
{{- with .Message}}

Message:
{{.}}{{end}}

Source: {{with .Source}}{{.}}{{else}}website{{end}}
Received: {{.CreatedAt.Format "2006-01-02 15:04 MST"}}
`))

// RenderLeadEmail renders the plain-text body sent to the agency.
func RenderLeadEmail(lead core.Lead) (string, error) {
	var buf bytes.Buffer
	if err := leadEmail.Execute(&buf, lead); err != nil {
		return "", fmt.Errorf("render lead email: %w", err)
	}
	return buf.String(), nil
}
