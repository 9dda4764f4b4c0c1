package service

import (
	"testing"

	"autoassist_backend/internal/scoring"
)

func TestEvaluateEscalation(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		score    int
		wantType string // "" means no escalation
	}{
		{
			name:     "explicit handoff request",
			message:  "Kan ik een verkoper spreken?",
			score:    20,
			wantType: EscalationHumanRequest,
		},
		{
			name:     "call me back",
			message:  "Bel me terug alstublieft",
			score:    0,
			wantType: EscalationHumanRequest,
		},
		{
			name:     "complaint",
			message:  "Ik heb een klacht over de levering",
			score:    10,
			wantType: EscalationComplaint,
		},
		{
			name:     "refund demand",
			message:  "Ik wil mijn geld terug",
			score:    0,
			wantType: EscalationComplaint,
		},
		{
			name:     "hot lead threshold",
			message:  "Ik wil de Golf 8 morgen kopen, proefrit graag",
			score:    100,
			wantType: EscalationHotLead,
		},
		{
			name:     "below threshold no trigger",
			message:  "Wat kost de Polo?",
			score:    99,
			wantType: "",
		},
		{
			name:     "handoff beats complaint",
			message:  "Ik heb een klacht en wil een medewerker spreken",
			score:    0,
			wantType: EscalationHumanRequest,
		},
		{
			name:     "complaint beats hot lead score",
			message:  "Ik ben ontevreden over de offerte",
			score:    120,
			wantType: EscalationComplaint,
		},
		{
			name:     "case insensitive",
			message:  "IK WIL EEN MEDEWERKER",
			score:    0,
			wantType: EscalationHumanRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateEscalation(tt.message, scoring.Result{Score: tt.score})

			if tt.wantType == "" {
				if got != nil {
					t.Fatalf("EvaluateEscalation() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("EvaluateEscalation() = nil, want type %q", tt.wantType)
			}
			if !got.Escalate {
				t.Error("Escalate = false, want true")
			}
			if got.EscalationType != tt.wantType {
				t.Errorf("EscalationType = %q, want %q", got.EscalationType, tt.wantType)
			}
		})
	}
}
