package tagging

import (
	"slices"
	"testing"

	"autoassist_backend/internal/scoring"
)

func TestGenerateTagsAlwaysEndsWithSourceTag(t *testing.T) {
	tests := []struct {
		name    string
		message string
		score   scoring.Result
	}{
		{"empty message", "", scoring.Result{Quality: scoring.QualityCold}},
		{"hot lead", "Ik wil morgen een proefrit in de Golf", scoring.Result{Score: 85, Quality: scoring.QualityHot}},
		{"plain question", "Hebben jullie occasions?", scoring.Result{Quality: scoring.QualityCold}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := GenerateTags(tt.message, tt.score, nil, nil)
			if len(tags) == 0 {
				t.Fatal("expected at least one tag")
			}
			if tags[len(tags)-1] != "whatsapp-ai" {
				t.Errorf("last tag = %q, want %q", tags[len(tags)-1], "whatsapp-ai")
			}
		})
	}
}

func TestGenerateTagsQualityAndBehavior(t *testing.T) {
	tests := []struct {
		name        string
		message     string
		score       scoring.Result
		history     []scoring.Turn
		wantPresent []string
		wantAbsent  []string
	}{
		{
			name:        "hot lead is a serious buyer",
			message:     "Ik wil morgen een proefrit maken in de Golf 8, budget 25000",
			score:       scoring.Result{Score: 100, Quality: scoring.QualityHot},
			wantPresent: []string{"hot-lead", "serious-buyer"},
			wantAbsent:  []string{"time-waster", "general-inquiry"},
		},
		{
			name:        "greeting is a time waster",
			message:     "hoi",
			score:       scoring.Result{Score: 0, Quality: scoring.QualityCold},
			wantPresent: []string{"cold-lead", "time-waster"},
			wantAbsent:  []string{"serious-buyer", "general-inquiry"},
		},
		{
			name:        "lukewarm midscore falls back to general inquiry",
			message:     "Wat kost de Audi A4 eigenlijk in verzekering?",
			score:       scoring.Result{Score: 45, Quality: scoring.QualityLukewarm},
			wantPresent: []string{"lukewarm-lead", "general-inquiry"},
			wantAbsent:  []string{"serious-buyer", "time-waster"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := GenerateTags(tt.message, tt.score, nil, tt.history)
			for _, want := range tt.wantPresent {
				if !slices.Contains(tags, want) {
					t.Errorf("tags %v missing %q", tags, want)
				}
			}
			for _, absent := range tt.wantAbsent {
				if slices.Contains(tags, absent) {
					t.Errorf("tags %v must not contain %q", tags, absent)
				}
			}
		})
	}
}

func TestGenerateTagsMakeAndFuelFirstMatchWins(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		wantTag    string
		wantAbsent []string
	}{
		{
			name:       "golf implies volkswagen",
			message:    "Is de Golf 8 nog beschikbaar?",
			wantTag:    "interesse-volkswagen",
			wantAbsent: []string{"interesse-audi", "interesse-bmw"},
		},
		{
			name:       "audi beats bmw when both named",
			message:    "Twijfel tussen de Audi en de BMW",
			wantTag:    "interesse-audi",
			wantAbsent: []string{"interesse-bmw"},
		},
		{
			name:       "bare make name volkswagen is not a trigger",
			message:    "Ik twijfel tussen een Volkswagen en een Audi",
			wantTag:    "interesse-audi",
			wantAbsent: []string{"interesse-volkswagen"},
		},
		{
			name:       "diesel beats elektrisch when both named",
			message:    "Liever diesel dan elektrisch",
			wantTag:    "brandstof-diesel",
			wantAbsent: []string{"brandstof-elektrisch"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := GenerateTags(tt.message, scoring.Result{Quality: scoring.QualityCold}, nil, nil)
			if !slices.Contains(tags, tt.wantTag) {
				t.Errorf("tags %v missing %q", tags, tt.wantTag)
			}
			for _, absent := range tt.wantAbsent {
				if slices.Contains(tags, absent) {
					t.Errorf("tags %v must not contain %q", tags, absent)
				}
			}
		})
	}
}

func TestGenerateTagsIntentAndEngagement(t *testing.T) {
	message := "Ik wil morgen de Golf kopen, mijn budget is 25000 euro, en graag eerst een proefrit"
	score := scoring.Result{Score: 100, Quality: scoring.QualityHot}

	tags := GenerateTags(message, score, nil, nil)

	for _, want := range []string{
		"immediate-purchase", "budget-specified", "urgent-timeline",
		"test-drive-requested", "impulsive", "high-engagement",
	} {
		if !slices.Contains(tags, want) {
			t.Errorf("tags %v missing %q", tags, want)
		}
	}
	for _, absent := range []string{"medium-engagement", "low-engagement", "researcher"} {
		if slices.Contains(tags, absent) {
			t.Errorf("tags %v must not contain %q", tags, absent)
		}
	}
}

func TestGenerateTagsJourneyStage(t *testing.T) {
	tests := []struct {
		historyLen int
		want       string
	}{
		{0, "first_contact"},
		{1, "initial_inquiry"},
		{3, "initial_inquiry"},
		{4, "information_gathering"},
		{6, "information_gathering"},
		{7, "comparison_shopping"},
		{10, "comparison_shopping"},
		{11, "ready_to_buy"},
	}

	for _, tt := range tests {
		got := journeyStageKey(tt.historyLen)
		if got != tt.want {
			t.Errorf("journeyStageKey(%d) = %q, want %q", tt.historyLen, got, tt.want)
		}
	}
}

func TestGenerateTagsRepeatVisitorAndResearcher(t *testing.T) {
	history := make([]scoring.Turn, 9)
	for i := range history {
		history[i] = scoring.Turn{Role: "user", Content: "Wat kost de Golf met automaat?"}
	}

	tags := GenerateTags("Ik kom graag langs voor een proefrit in de Golf", scoring.Result{Score: 55, Quality: scoring.QualityWarm}, nil, history)

	for _, want := range []string{"repeat-visitor", "researcher", "comparison-shopping"} {
		if !slices.Contains(tags, want) {
			t.Errorf("tags %v missing %q", tags, want)
		}
	}
}

func TestGenerateTagsEscalationMarkers(t *testing.T) {
	expertise := &scoring.ExpertiseOutput{
		Escalation: &scoring.EscalationDecision{Escalate: true, EscalationType: "human_request"},
	}

	tags := GenerateTags("Ik wil een medewerker spreken over de Golf", scoring.Result{Score: 40, Quality: scoring.QualityLukewarm}, expertise, nil)

	idx := slices.Index(tags, "escalated:human_request")
	if idx == -1 {
		t.Fatalf("tags %v missing escalation marker", tags)
	}
	if idx+1 >= len(tags) || tags[idx+1] != "status:needs-human-attention" {
		t.Errorf("tags %v: status marker must directly follow the escalation marker", tags)
	}
	if tags[len(tags)-1] != "whatsapp-ai" {
		t.Errorf("source tag must still come last, got %v", tags)
	}
}
