package scoring

// Exported presence checks over the shared keyword taxonomies. The tagging
// engine uses these so both packages read from one keyword source of truth.
// All of them expect a message that has already been lower-cased.

// HasBuySignal reports an explicit buy verb.
func HasBuySignal(msg string) bool { return containsAny(msg, buyVerbs) }

// HasBudgetAmount reports a budget keyword together with at least one digit.
func HasBudgetAmount(msg string) bool {
	return containsAny(msg, budgetKeywords) && containsDigit(msg)
}

// HasUrgencySignal reports any urgency keyword, regardless of tier.
func HasUrgencySignal(msg string) bool {
	return containsAny(msg, criticalUrgencyTerms) ||
		containsAny(msg, highUrgencyTerms) ||
		containsAny(msg, mediumUrgencyTerms)
}

// HasTradeInSignal reports trade-in interest.
func HasTradeInSignal(msg string) bool { return containsAny(msg, tradeInKeywords) }

// HasFinancingSignal reports financing interest.
func HasFinancingSignal(msg string) bool { return containsAny(msg, financingKeywords) }

// HasTestDriveSignal reports a test drive request.
func HasTestDriveSignal(msg string) bool { return containsAny(msg, testDriveKeywords) }

// HasPriceShopperSignal reports price comparison behavior: an explicit price
// question or price-hunting vocabulary.
func HasPriceShopperSignal(msg string) bool {
	return containsAny(msg, priceInquiryPhrases) || containsAny(msg, priceShopperTerms)
}

// HasDetailSignal reports spec- and technology-focused vocabulary.
func HasDetailSignal(msg string) bool { return containsAny(msg, detailTerms) }
