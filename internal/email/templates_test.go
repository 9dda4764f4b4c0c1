package email

import (
	"strings"
	"testing"
)

func TestRenderEscalationAlert(t *testing.T) {
	html, err := renderEscalationAlert(EscalationAlert{
		LeadPhone:      "+31612345678",
		LeadName:       "Jan de Vries",
		EscalationType: "complaint",
		Score:          45,
		Quality:        "WARM",
		Message:        "Ik heb een klacht over mijn auto",
		DashboardURL:   "https://app.example.com/leads/abc",
	})
	if err != nil {
		t.Fatalf("renderEscalationAlert: %v", err)
	}

	for _, want := range []string{"Jan de Vries", "+31612345678", "complaint", "45", "WARM", "https://app.example.com/leads/abc"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered email missing %q", want)
		}
	}
}

func TestEscalationSubject(t *testing.T) {
	tests := []struct {
		escalationType string
		name           string
		phone          string
		want           string
	}{
		{"human_request", "Jan", "+31612345678", "Klant Jan vraagt om een medewerker"},
		{"complaint", "", "+31612345678", "Klacht ontvangen van +31612345678"},
		{"hot_lead", "Piet", "", "Hot lead: Piet is klaar om te kopen"},
		{"unknown_type", "Kees", "", "Gesprek met Kees vraagt om aandacht"},
	}

	for _, tt := range tests {
		t.Run(tt.escalationType, func(t *testing.T) {
			got := escalationSubject(EscalationAlert{
				EscalationType: tt.escalationType,
				LeadName:       tt.name,
				LeadPhone:      tt.phone,
			})
			if got != tt.want {
				t.Errorf("escalationSubject() = %q, want %q", got, tt.want)
			}
		})
	}
}
