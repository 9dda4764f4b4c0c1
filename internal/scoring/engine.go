package scoring

import "strings"

// Lead quality tiers derived from the total score.
const (
	QualityHot      = "HOT"
	QualityWarm     = "WARM"
	QualityLukewarm = "LUKEWARM"
	QualityCold     = "COLD"
)

// Interest levels derived from the quality tier.
const (
	InterestBrowsing    = "browsing"
	InterestConsidering = "considering"
	InterestReadyToBuy  = "ready-to-buy"
)

// Urgency levels, computed from urgency keywords independently of the score.
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// Quality tier thresholds, checked top down; first match wins.
const (
	hotThreshold      = 70
	warmThreshold     = 50
	lukewarmThreshold = 30
)

// Turn is a single prior message in the conversation, oldest first.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// CarInterest is a structured extraction hint about the car the customer
// asked after. Supplied by an upstream extractor when available.
type CarInterest struct {
	Make     string `json:"make,omitempty"`
	Model    string `json:"model,omitempty"`
	FuelType string `json:"fuelType,omitempty"`
}

// BudgetHint is a structured extraction hint about the customer's budget.
type BudgetHint struct {
	MaxAmount float64 `json:"maxAmount"`
}

// Extraction bundles optional structured hints. A nil Extraction or nil
// field means the engine falls back to keyword heuristics alone.
type Extraction struct {
	CarInterest *CarInterest `json:"carInterest,omitempty"`
	Budget      *BudgetHint  `json:"budget,omitempty"`
}

// EscalationDecision says whether a message should be handed to a human.
type EscalationDecision struct {
	Escalate       bool   `json:"escalate"`
	EscalationType string `json:"escalationType,omitempty"`
}

// ExpertiseOutput carries escalation metadata through the pipeline. The
// scoring math ignores it; the tagging engine consumes it.
type ExpertiseOutput struct {
	Escalation *EscalationDecision `json:"escalationDecision,omitempty"`
}

// Input is one scoring invocation. Message is required; everything else is
// optional and absent-safe.
type Input struct {
	Message    string
	Extraction *Extraction
	Expertise  *ExpertiseOutput
	History    []Turn
}

// Result is the outcome of scoring one message.
type Result struct {
	Score     int            `json:"lead_score"`
	Quality   string         `json:"lead_quality"`
	Breakdown map[string]int `json:"score_breakdown"`
	Interest  string         `json:"interest_level"`
	Urgency   string         `json:"urgency"`
}

// Engine computes lead scores. It is stateless; a single instance can be
// shared across goroutines.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// CalculateScore maps one inbound message plus conversation context to a
// purchase-readiness score with a per-category breakdown. It never returns
// an error: absence of signal yields zero points in that category, and an
// empty message scores 0 (COLD, browsing, low urgency).
//
// The message is lower-cased exactly once here and that single string is
// threaded through every sub-scorer, so no two category checks can diverge
// on casing.
func (e *Engine) CalculateScore(in Input) Result {
	msg := strings.ToLower(in.Message)
	breakdown := map[string]int{}
	total := 0

	add := func(category string, points int) {
		if points <= 0 {
			return
		}
		breakdown[category] = points
		total += points
	}

	carPoints := e.scoreCarInquiry(msg)
	add("car_inquiry", carPoints)

	if containsAny(msg, priceInquiryPhrases) {
		add("price_inquiry", 25)
	}
	if containsAny(msg, websiteReferencePhrases) {
		add("website_reference", 20)
	}

	budgetPoints := e.scoreBudget(msg, in.Extraction)
	add("budget_mentioned", budgetPoints)

	urgencyPoints, urgencyLevel := e.scoreUrgency(msg, len(in.History))
	add("urgency_signals", urgencyPoints)

	testDrivePoints := e.scoreTestDrive(msg)
	add("test_drive_request", testDrivePoints)

	if containsAny(msg, tradeInKeywords) {
		add("trade_in_interest", 10)
	}
	if containsAny(msg, financingKeywords) {
		add("financing_interest", 10)
	}

	// Combination bonuses reward signal co-occurrence. The branches are
	// mutually exclusive and checked in priority order; at most one fires.
	switch {
	case testDrivePoints >= 20 && carPoints >= 15:
		add("hot_lead_combo", 15)
	case testDrivePoints >= 15 && budgetPoints >= 10:
		add("serious_buyer_combo", 10)
	case urgencyPoints >= 15 && carPoints >= 15 && budgetPoints >= 10:
		add("purchase_ready_combo", 10)
	}

	quality, interest := qualityForScore(total)

	return Result{
		Score:     total,
		Quality:   quality,
		Breakdown: breakdown,
		Interest:  interest,
		Urgency:   urgencyLevel,
	}
}

// qualityForScore applies the threshold table. Quality and interest level
// are a pure function of the total score.
func qualityForScore(score int) (quality string, interest string) {
	switch {
	case score >= hotThreshold:
		return QualityHot, InterestReadyToBuy
	case score >= warmThreshold:
		return QualityWarm, InterestConsidering
	case score >= lukewarmThreshold:
		return QualityLukewarm, InterestConsidering
	default:
		return QualityCold, InterestBrowsing
	}
}

// scoreCarInquiry awards 25 for a named model or 15 for a make, plus 10 for
// a year/fuel term and 5 for a feature term, capped at 30. Multiple matches
// within one list never stack: these are presence tests, not counts.
func (e *Engine) scoreCarInquiry(msg string) int {
	points := 0
	switch {
	case containsAny(msg, specificModels):
		points = 25
	case containsAny(msg, genericMakes):
		points = 15
	}
	if points == 0 {
		return 0
	}
	if containsAny(msg, yearFuelTerms) {
		points += 10
	}
	if containsAny(msg, featureTerms) {
		points += 5
	}
	if points > 30 {
		points = 30
	}
	return points
}

// scoreBudget awards 20 for a budget keyword with a digit (or a structured
// budget extraction), 10 for a budget keyword alone.
func (e *Engine) scoreBudget(msg string, extraction *Extraction) int {
	if extraction != nil && extraction.Budget != nil && extraction.Budget.MaxAmount > 0 {
		return 20
	}
	if !containsAny(msg, budgetKeywords) {
		return 0
	}
	if containsDigit(msg) {
		return 20
	}
	return 10
}

// scoreUrgency performs a tiered exclusive match (critical > high > medium)
// and adds a +5 long-conversation bump (capped at 20) when the history is
// longer than five turns, promoting "low" to "medium" in the process.
func (e *Engine) scoreUrgency(msg string, historyLen int) (int, string) {
	points := 0
	level := UrgencyLow
	switch {
	case containsAny(msg, criticalUrgencyTerms):
		points, level = 20, UrgencyCritical
	case containsAny(msg, highUrgencyTerms):
		points, level = 15, UrgencyHigh
	case containsAny(msg, mediumUrgencyTerms):
		points, level = 8, UrgencyMedium
	}

	if historyLen > 5 {
		points += 5
		if points > 20 {
			points = 20
		}
		if level == UrgencyLow {
			level = UrgencyMedium
		}
	}

	return points, level
}

// scoreTestDrive awards 20 when a test drive is requested together with an
// urgent timing term, 15 for a test drive request alone.
func (e *Engine) scoreTestDrive(msg string) int {
	if !containsAny(msg, testDriveKeywords) {
		return 0
	}
	if containsAny(msg, criticalUrgencyTerms) || containsAny(msg, highUrgencyTerms) {
		return 20
	}
	return 15
}

// containsAny reports whether s contains any of the keywords.
func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
