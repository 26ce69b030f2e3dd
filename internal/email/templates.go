package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.html templates/subjects.yaml
var templateFS embed.FS

// subjects.yaml keeps the subject lines next to the templates so copy
// changes never touch Go code.
var subjects = mustLoadSubjects()

func mustLoadSubjects() map[string]string {
	raw, err := templateFS.ReadFile("templates/subjects.yaml")
	if err != nil {
		panic(fmt.Sprintf("email: read subjects: %v", err))
	}
	out := make(map[string]string)
	if err := yaml.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("email: parse subjects: %v", err))
	}
	return out
}

func subjectFor(key string, args ...any) string {
	format, ok := subjects[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

type baseEmailData struct {
	Title   string
	Heading string
}

type quotationWonEmailData struct {
	baseEmailData
	RecipientName  string
	Destination    string
	TotalFormatted string
}

type followUpEmailData struct {
	baseEmailData
	RecipientName string
	Destination   string
	ClientName    string
	SentAgoDays   int
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

// FormatCurrencyINR renders integer paise as rupees for display.
func FormatCurrencyINR(cents int64) string {
	return fmt.Sprintf("₹%.2f", float64(cents)/100)
}
