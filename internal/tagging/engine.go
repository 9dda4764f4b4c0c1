package tagging

import (
	"strings"

	"autoassist_backend/internal/scoring"
)

// qualityTagKeys maps a quality tier to its registry key.
var qualityTagKeys = map[string]string{
	scoring.QualityHot:      "hot_lead",
	scoring.QualityWarm:     "warm_lead",
	scoring.QualityLukewarm: "lukewarm_lead",
	scoring.QualityCold:     "cold_lead",
}

// makeTagRules is an ordered (keywords, tag key) table; the first matching
// row wins, so a message naming several makes gets exactly one make tag.
// Only the Golf and Polo model names signal Volkswagen interest; the bare
// make name is not a trigger, so "volkswagen en audi" tags audi.
var makeTagRules = []struct {
	keywords []string
	key      string
}{
	{[]string{"golf", "polo"}, "volkswagen"},
	{[]string{"audi"}, "audi"},
	{[]string{"bmw"}, "bmw"},
	{[]string{"mercedes"}, "mercedes"},
}

// fuelTagRules works like makeTagRules for fuel preference.
var fuelTagRules = []struct {
	keywords []string
	key      string
}{
	{[]string{"diesel"}, "diesel"},
	{[]string{"benzine"}, "benzine"},
	{[]string{"elektrisch", "elektrische"}, "elektrisch"},
	{[]string{"hybride", "hybrid"}, "hybride"},
}

// GenerateTags derives the ordered CRM tag list for one scored message.
// It never returns an empty list: the source tag is always appended last.
// Emission order matters; some CRM views only show the first few tags.
func GenerateTags(message string, score scoring.Result, expertise *scoring.ExpertiseOutput, history []scoring.Turn) []string {
	msg := strings.ToLower(message)
	tags := make([]string, 0, 12)

	// 1. Lead quality.
	if key, ok := qualityTagKeys[score.Quality]; ok {
		tags = append(tags, Title(key))
	}

	// 2. Behavioral segmentation: exactly one of time-waster, serious
	// buyer, or the general fallback. The serious-buyer rule deliberately
	// lets WARM and COLD leads scoring 40+ through; the quality bands
	// overlap near the LUKEWARM boundary.
	switch {
	case scoring.IsTimeWaster(message, history):
		tags = append(tags, Title("time_waster"))
	case score.Quality == scoring.QualityHot || score.Score >= 70:
		tags = append(tags, Title("serious_buyer"))
	case (score.Quality == scoring.QualityWarm || score.Quality == scoring.QualityCold) && score.Score >= 40:
		tags = append(tags, Title("serious_buyer"))
	default:
		tags = append(tags, Title("general_inquiry"))
	}

	// 3. Customer journey stage by history length.
	tags = append(tags, Title(journeyStageKey(len(history))))

	// 4. Car make interest, first match wins.
	for _, rule := range makeTagRules {
		if containsAny(msg, rule.keywords) {
			tags = append(tags, Title(rule.key))
			break
		}
	}

	// 5. Fuel preference, first match wins.
	for _, rule := range fuelTagRules {
		if containsAny(msg, rule.keywords) {
			tags = append(tags, Title(rule.key))
			break
		}
	}

	// 6. Purchase intent, independently appended.
	if scoring.HasBuySignal(msg) {
		tags = append(tags, Title("immediate_purchase"))
	}
	if scoring.HasBudgetAmount(msg) {
		tags = append(tags, Title("budget_specified"))
	}
	if scoring.HasUrgencySignal(msg) {
		tags = append(tags, Title("urgent_timeline"))
	}
	if scoring.HasTradeInSignal(msg) {
		tags = append(tags, Title("trade_in_mentioned"))
	}
	if scoring.HasFinancingSignal(msg) {
		tags = append(tags, Title("financing_inquiry"))
	}

	// 7. Behavioral tags.
	if scoring.HasTestDriveSignal(msg) {
		tags = append(tags, Title("test_drive_requested"))
	}
	if scoring.HasPriceShopperSignal(msg) {
		tags = append(tags, Title("price_shopper"))
	}
	if scoring.HasDetailSignal(msg) {
		tags = append(tags, Title("detail_oriented"))
	}
	if scoring.HasUrgencySignal(msg) && score.Score >= 70 {
		tags = append(tags, Title("impulsive"))
	}
	if len(history) > 5 && score.Score >= 40 {
		tags = append(tags, Title("researcher"))
	}

	// 8. Engagement tier.
	switch {
	case score.Score >= 70:
		tags = append(tags, Title("high_engagement"))
	case score.Score >= 40:
		tags = append(tags, Title("medium_engagement"))
	default:
		tags = append(tags, Title("low_engagement"))
	}

	// 9. Repeat visitor.
	if len(history) > 8 {
		tags = append(tags, Title("repeat_visitor"))
	}

	// 10. Escalation markers are literal tags, not registry entries, so
	// downstream filters can match on the "escalated:" prefix.
	if expertise != nil && expertise.Escalation != nil && expertise.Escalation.Escalate {
		tags = append(tags, "escalated:"+expertise.Escalation.EscalationType)
		tags = append(tags, "status:needs-human-attention")
	}

	// 11. Source tag, always last.
	tags = append(tags, Title("whatsapp_ai"))

	return tags
}

// journeyStageKey buckets the conversation depth into a funnel stage.
func journeyStageKey(historyLen int) string {
	switch {
	case historyLen == 0:
		return "first_contact"
	case historyLen <= 3:
		return "initial_inquiry"
	case historyLen <= 6:
		return "information_gathering"
	case historyLen <= 10:
		return "comparison_shopping"
	default:
		return "ready_to_buy"
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
