package email

import (
	"strings"
	"testing"
)

func TestRenderQuotationWonTemplate(t *testing.T) {
	html, err := renderEmailTemplate("quotation_won.html", quotationWonEmailData{
		baseEmailData:  baseEmailData{Title: "Quotation won", Heading: "Your quotation was accepted"},
		RecipientName:  "Priya",
		Destination:    "Bali",
		TotalFormatted: FormatCurrencyINR(1755000),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Priya", "Bali", "17550.00"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered email missing %q", want)
		}
	}
}

func TestRenderFollowUpTemplate(t *testing.T) {
	html, err := renderEmailTemplate("follow_up.html", followUpEmailData{
		baseEmailData: baseEmailData{Title: "Follow-up reminder", Heading: "A quotation is waiting"},
		RecipientName: "Arjun",
		Destination:   "Kerala",
		ClientName:    "Meera",
		SentAgoDays:   3,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "Meera") || !strings.Contains(html, "3 day(s)") {
		t.Errorf("rendered email missing client or age: %s", html)
	}
}

func TestSubjectsLoaded(t *testing.T) {
	got := subjectFor("quotation_won", "Bali")
	if got != "Quotation won: Bali" {
		t.Errorf("unexpected subject %q", got)
	}
	if subjectFor("missing_key") != "missing_key" {
		t.Error("unknown key must fall back to the key itself")
	}
}
