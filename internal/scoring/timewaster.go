package scoring

import "strings"

// IsTimeWaster flags likely non-serious contacts so the tagging engine can
// suppress "serious buyer" tags even when the keyword score is nonzero.
//
// The rules are ordered cheapest and most specific first; the first rule
// that matches short-circuits. This is a coarse boolean filter, not a
// scorer.
func IsTimeWaster(message string, history []Turn) bool {
	msg := strings.TrimSpace(strings.ToLower(message))

	// 1. Very short message with no digits.
	if len(msg) < 10 && !containsDigit(msg) {
		return true
	}

	// 2. One or two tokens, all greetings or filler.
	tokens := strings.Fields(msg)
	if len(tokens) >= 1 && len(tokens) <= 2 && allFiller(tokens) {
		return true
	}

	// 3. Verbatim repeat of the same message within the last three turns.
	if len(history) >= 2 && repeatCount(msg, history) >= 2 {
		return true
	}

	// 4. Short message with no automotive vocabulary at all.
	if len(msg) < 30 && !containsAny(msg, automotiveTerms) {
		return true
	}

	// 5. Long conversation that never showed any purchase intent.
	if len(history) > 5 && !anyPurchaseSignal(msg, history) {
		return true
	}

	return false
}

func allFiller(tokens []string) bool {
	for _, tok := range tokens {
		if !spamFillerWords[tok] {
			return false
		}
	}
	return true
}

// repeatCount counts how often msg appears verbatim (trimmed, lower-cased)
// among the last three history entries.
func repeatCount(msg string, history []Turn) int {
	start := len(history) - 3
	if start < 0 {
		start = 0
	}
	count := 0
	for _, turn := range history[start:] {
		if strings.TrimSpace(strings.ToLower(turn.Content)) == msg {
			count++
		}
	}
	return count
}

// anyPurchaseSignal reports whether the current message or any history turn
// ever contained a purchase-signal keyword.
func anyPurchaseSignal(msg string, history []Turn) bool {
	if containsAny(msg, purchaseSignalTerms) {
		return true
	}
	for _, turn := range history {
		if containsAny(strings.ToLower(turn.Content), purchaseSignalTerms) {
			return true
		}
	}
	return false
}
