package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type escalationAlertEmailData struct {
	baseEmailData
	LeadPhone      string
	LeadName       string
	EscalationType string
	Score          int
	Quality        string
	Message        string
}

func renderEscalationAlert(alert EscalationAlert) (string, error) {
	return renderEmailTemplate("escalation_alert.html", escalationAlertEmailData{
		baseEmailData: baseEmailData{
			Title:      "Gesprek vraagt om aandacht",
			Heading:    "Een gesprek vraagt om menselijke aandacht",
			Subheading: "De assistent heeft dit gesprek geëscaleerd.",
			CTALabel:   "Open het gesprek",
			CTAURL:     alert.DashboardURL,
		},
		LeadPhone:      alert.LeadPhone,
		LeadName:       alert.LeadName,
		EscalationType: alert.EscalationType,
		Score:          alert.Score,
		Quality:        alert.Quality,
		Message:        alert.Message,
	})
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
