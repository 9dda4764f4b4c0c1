package scoring

import "testing"

func TestCalculateScoreScenarios(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name        string
		input       Input
		wantScore   int
		wantQuality string
		wantUrgency string
	}{
		{
			name:        "specific model seen on website with price question",
			input:       Input{Message: "Ik zag de BMW X3 op jullie website, wat kost deze?"},
			wantScore:   70, // 25 car + 25 price + 20 website
			wantQuality: QualityHot,
			wantUrgency: UrgencyLow,
		},
		{
			name:        "test drive tomorrow with model, fuel and budget",
			input:       Input{Message: "Ik wil morgen een proefrit maken in de Golf 8 diesel, mijn budget is 25000 euro"},
			wantScore:   100, // 30 car + 20 budget + 15 urgency + 20 test drive + 15 combo
			wantQuality: QualityHot,
			wantUrgency: UrgencyHigh,
		},
		{
			name:        "generic stock question scores nothing",
			input:       Input{Message: "Hebben jullie occasions?"},
			wantScore:   0,
			wantQuality: QualityCold,
			wantUrgency: UrgencyLow,
		},
		{
			name:        "budget amount with generic car interest",
			input:       Input{Message: "Ik heb €25.000 voor een auto"},
			wantScore:   35, // 15 car + 20 budget
			wantQuality: QualityLukewarm,
			wantUrgency: UrgencyLow,
		},
		{
			name:        "empty message",
			input:       Input{Message: ""},
			wantScore:   0,
			wantQuality: QualityCold,
			wantUrgency: UrgencyLow,
		},
		{
			name: "structured budget extraction without budget keywords",
			input: Input{
				Message:    "Is de Polo nog beschikbaar?",
				Extraction: &Extraction{Budget: &BudgetHint{MaxAmount: 25000}},
			},
			wantScore:   45, // 25 car + 20 budget
			wantQuality: QualityLukewarm,
			wantUrgency: UrgencyLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.CalculateScore(tt.input)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d (breakdown %v)", got.Score, tt.wantScore, got.Breakdown)
			}
			if got.Quality != tt.wantQuality {
				t.Errorf("Quality = %q, want %q", got.Quality, tt.wantQuality)
			}
			if got.Urgency != tt.wantUrgency {
				t.Errorf("Urgency = %q, want %q", got.Urgency, tt.wantUrgency)
			}
		})
	}
}

func TestCalculateScoreBreakdownSumsToTotal(t *testing.T) {
	engine := NewEngine()

	messages := []string{
		"Ik zag de BMW X3 op jullie website, wat kost deze?",
		"Ik wil morgen een proefrit maken in de Golf 8 diesel, mijn budget is 25000 euro",
		"Hebben jullie occasions?",
		"Ik heb €25.000 voor een auto",
		"Kan ik deze week een proefrit maken? Budget rond de 20000",
		"Wat kost de Audi A4 met automaat en trekhaak?",
		"",
	}

	for _, msg := range messages {
		got := engine.CalculateScore(Input{Message: msg})
		sum := 0
		for _, points := range got.Breakdown {
			sum += points
		}
		if sum != got.Score {
			t.Errorf("breakdown of %q sums to %d, total is %d", msg, sum, got.Score)
		}
		for category, points := range got.Breakdown {
			if points <= 0 {
				t.Errorf("breakdown of %q contains non-positive category %q = %d", msg, category, points)
			}
		}
	}
}

func TestQualityThresholds(t *testing.T) {
	tests := []struct {
		score        int
		wantQuality  string
		wantInterest string
	}{
		{0, QualityCold, InterestBrowsing},
		{29, QualityCold, InterestBrowsing},
		{30, QualityLukewarm, InterestConsidering},
		{49, QualityLukewarm, InterestConsidering},
		{50, QualityWarm, InterestConsidering},
		{69, QualityWarm, InterestConsidering},
		{70, QualityHot, InterestReadyToBuy},
		{120, QualityHot, InterestReadyToBuy},
	}

	for _, tt := range tests {
		quality, interest := qualityForScore(tt.score)
		if quality != tt.wantQuality {
			t.Errorf("qualityForScore(%d) quality = %q, want %q", tt.score, quality, tt.wantQuality)
		}
		if interest != tt.wantInterest {
			t.Errorf("qualityForScore(%d) interest = %q, want %q", tt.score, interest, tt.wantInterest)
		}
	}
}

func TestScoreUrgencyHistoryBump(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name       string
		msg        string
		historyLen int
		wantPoints int
		wantLevel  string
	}{
		{"critical term", "ik wil vandaag komen", 0, 20, UrgencyCritical},
		{"critical term capped after bump", "ik wil vandaag komen", 6, 20, UrgencyCritical},
		{"high term", "kan ik morgen langskomen", 0, 15, UrgencyHigh},
		{"high term with bump", "kan ik morgen langskomen", 6, 20, UrgencyHigh},
		{"medium term", "ik zoek binnenkort een auto", 0, 8, UrgencyMedium},
		{"medium term with bump", "ik zoek binnenkort een auto", 6, 13, UrgencyMedium},
		{"no term", "gewoon een vraag over de auto", 0, 0, UrgencyLow},
		{"no term but long conversation promotes to medium", "gewoon een vraag over de auto", 6, 5, UrgencyMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, level := engine.scoreUrgency(tt.msg, tt.historyLen)
			if points != tt.wantPoints {
				t.Errorf("points = %d, want %d", points, tt.wantPoints)
			}
			if level != tt.wantLevel {
				t.Errorf("level = %q, want %q", level, tt.wantLevel)
			}
		})
	}
}

func TestScoreCarInquiryCap(t *testing.T) {
	engine := NewEngine()

	// Specific model plus year/fuel plus feature would be 25+10+5 without
	// the cap.
	got := engine.scoreCarInquiry("de golf 2022 diesel met automaat")
	if got != 30 {
		t.Errorf("scoreCarInquiry = %d, want capped 30", got)
	}

	// Generic make stacks fully below the cap.
	got = engine.scoreCarInquiry("een bmw diesel met automaat")
	if got != 30 {
		t.Errorf("scoreCarInquiry generic = %d, want 30", got)
	}

	// Refinement terms without any car term score nothing.
	got = engine.scoreCarInquiry("liefst met navigatie en cruise control")
	if got != 0 {
		t.Errorf("scoreCarInquiry refinement-only = %d, want 0", got)
	}
}

func TestComboBonusesAreExclusive(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name      string
		msg       string
		wantCombo string
		absAbsent []string
	}{
		{
			name:      "hot lead combo wins over purchase ready",
			msg:       "Ik wil morgen een proefrit in de Golf, budget 25000",
			wantCombo: "hot_lead_combo",
			absAbsent: []string{"serious_buyer_combo", "purchase_ready_combo"},
		},
		{
			name:      "serious buyer combo without urgency",
			msg:       "Kan ik een proefrit maken? Mijn budget is 20000",
			wantCombo: "serious_buyer_combo",
			absAbsent: []string{"hot_lead_combo", "purchase_ready_combo"},
		},
		{
			name:      "purchase ready combo without test drive",
			msg:       "Ik zoek dringend een bmw, budget 30000",
			wantCombo: "purchase_ready_combo",
			absAbsent: []string{"hot_lead_combo", "serious_buyer_combo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.CalculateScore(Input{Message: tt.msg})
			if _, ok := got.Breakdown[tt.wantCombo]; !ok {
				t.Errorf("breakdown %v missing %q", got.Breakdown, tt.wantCombo)
			}
			for _, absent := range tt.absAbsent {
				if _, ok := got.Breakdown[absent]; ok {
					t.Errorf("breakdown %v must not contain %q", got.Breakdown, absent)
				}
			}
		})
	}
}

func TestCalculateScoreCaseInsensitive(t *testing.T) {
	engine := NewEngine()

	lower := engine.CalculateScore(Input{Message: "wat kost de bmw x3 op jullie website?"})
	upper := engine.CalculateScore(Input{Message: "WAT KOST DE BMW X3 OP JULLIE WEBSITE?"})
	if lower.Score != upper.Score {
		t.Errorf("case sensitivity: lower %d, upper %d", lower.Score, upper.Score)
	}
}
