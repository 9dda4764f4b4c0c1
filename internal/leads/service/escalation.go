package service

import (
	"strings"

	"autoassist_backend/internal/scoring"
)

// Escalation types attached to leads and surfaced as CRM tags.
const (
	EscalationHumanRequest = "human_request"
	EscalationComplaint    = "complaint"
	EscalationHotLead      = "hot_lead"
)

// handoffPhrases are explicit requests to talk to a person.
var handoffPhrases = []string{
	"medewerker", "verkoper spreken", "iemand spreken", "een mens",
	"echte persoon", "met iemand praten", "kan iemand mij bellen",
	"bel mij", "bel me terug", "menselijk contact",
}

// complaintPhrases signal dissatisfaction that the assistant must not
// handle on its own.
var complaintPhrases = []string{
	"klacht", "ontevreden", "slechte service", "niet blij", "teleurgesteld",
	"belachelijk", "schandalig", "geld terug", "garantie",
}

// hotLeadEscalationScore is the score at which a lead is handed to sales
// even without an explicit request.
const hotLeadEscalationScore = 100

// EvaluateEscalation decides whether a conversation needs human attention.
// Rules are checked in priority order: an explicit handoff request beats a
// complaint, which beats the score threshold. Returns nil when no rule fires.
func EvaluateEscalation(message string, score scoring.Result) *scoring.EscalationDecision {
	msg := strings.ToLower(message)

	switch {
	case containsAny(msg, handoffPhrases):
		return &scoring.EscalationDecision{Escalate: true, EscalationType: EscalationHumanRequest}
	case containsAny(msg, complaintPhrases):
		return &scoring.EscalationDecision{Escalate: true, EscalationType: EscalationComplaint}
	case score.Score >= hotLeadEscalationScore:
		return &scoring.EscalationDecision{Escalate: true, EscalationType: EscalationHotLead}
	}
	return nil
}

func containsAny(s string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(s, phrase) {
			return true
		}
	}
	return false
}
