// Package scoring contains the deterministic lead scoring engine and the
// time-waster classifier for inbound WhatsApp messages. Everything in this
// package is a pure function over the message text and the recent
// conversation history: no I/O, no shared state, safe for concurrent use.
package scoring

// Keyword taxonomies for the Dutch automotive market. All matching is
// case-insensitive substring matching against a message that has been
// lower-cased exactly once at the engine boundary.

// specificModels are named models that indicate concrete car interest.
var specificModels = []string{
	"bmw x1", "bmw x3", "bmw x5", "x3", "x5", "3 serie", "5 serie",
	"golf", "polo", "passat", "tiguan", "t-roc", "id.3", "id.4",
	"a1", "a3", "a4", "a6", "q3", "q5",
	"a-klasse", "c-klasse", "e-klasse", "gla", "glc",
	"corolla", "yaris", "rav4",
	"fiesta", "focus", "kuga",
	"corsa", "astra",
}

// genericMakes indicate car interest without a concrete model.
var genericMakes = []string{
	"bmw", "audi", "mercedes", "volkswagen", "vw",
	"toyota", "ford", "opel", "kia", "hyundai", "volvo",
	"peugeot", "renault", "skoda", "seat", "auto",
}

// yearFuelTerms refine a car inquiry with a build year or fuel type.
var yearFuelTerms = []string{
	"bouwjaar", "diesel", "benzine", "elektrisch", "elektrische",
	"hybride", "hybrid", "lpg", "plug-in",
	"2019", "2020", "2021", "2022", "2023", "2024", "2025",
}

// featureTerms refine a car inquiry with equipment wishes.
var featureTerms = []string{
	"automaat", "handgeschakeld", "cruise control", "navigatie",
	"panoramadak", "trekhaak", "leder", "lederen", "achteruitrijcamera",
	"airco", "climate control", "stoelverwarming", "apple carplay",
}

// priceInquiryPhrases signal an explicit price question.
var priceInquiryPhrases = []string{
	"wat kost", "wat moet deze kosten", "prijs", "prijzen", "kosten",
	"hoeveel euro", "hoeveel vraagt", "vanafprijs", "prijsindicatie",
	"kost deze", "kost die", "kost hij",
}

// websiteReferencePhrases signal the customer saw a listed car.
var websiteReferencePhrases = []string{
	"op jullie website", "op de website", "jullie site", "op de site",
	"gezien op", "online gezien", "op marktplaats", "op autoscout",
	"in de advertentie", "advertentie gezien",
}

// budgetKeywords signal a budget statement; combined with a digit in the
// message they count as a concrete budget.
var budgetKeywords = []string{
	"budget", "€", "euro", "rond de", "maximaal", "max.", "te besteden",
	"wil ik uitgeven", "kan ik uitgeven",
}

// Urgency keywords, tiered. A message is matched against the critical list
// first, then high, then medium; the first tier that matches wins.
var (
	criticalUrgencyTerms = []string{
		"vandaag", "per direct", "nu meteen", "spoed", "asap", "met spoed",
	}
	highUrgencyTerms = []string{
		"morgen", "zo snel mogelijk", "deze week", "dringend", "snel nodig",
		"dit weekend",
	}
	mediumUrgencyTerms = []string{
		"binnenkort", "deze maand", "komende weken", "op korte termijn",
		"volgende week",
	}
)

// testDriveKeywords signal a test drive request.
var testDriveKeywords = []string{
	"proefrit", "testrit", "proefrijden", "testrijden", "proef rijden",
}

// tradeInKeywords signal trade-in interest.
var tradeInKeywords = []string{
	"inruil", "inruilen", "inruilwaarde", "mijn huidige auto",
	"mijn oude auto", "trade-in",
}

// financingKeywords signal financing interest.
var financingKeywords = []string{
	"financiering", "financieren", "lease", "leasen", "private lease",
	"maandbedrag", "per maand betalen", "afbetaling", "krediet", "lenen",
}

// buyVerbs signal immediate purchase intent (tagging only).
var buyVerbs = []string{
	"kopen", "koop ik", "wil ik hebben", "aanschaffen", "meenemen",
	"neem ik", "wil hem hebben",
}

// priceShopperTerms mark customers comparing on price (tagging only).
var priceShopperTerms = []string{
	"goedkoop", "goedkoopste", "korting", "vergelijk", "vergelijken",
	"aanbieding", "elders", "andere aanbieder", "beste prijs",
}

// detailTerms mark spec-focused customers (tagging only).
var detailTerms = []string{
	"specificaties", "specs", "uitvoering", "vermogen", "pk", "koppel",
	"verbruik", "actieradius", "technische", "opties", "uitrusting",
	"onderhoudshistorie", "nap",
}

// spamFillerWords are greetings and filler that carry no intent. Used by the
// time-waster classifier for very short messages.
var spamFillerWords = map[string]bool{
	"hoi": true, "hallo": true, "hey": true, "hi": true, "ha": true,
	"ok": true, "oke": true, "oké": true, "okay": true,
	"ja": true, "nee": true, "nou": true, "hmm": true,
	"lol": true, "haha": true, "hahaha": true, "test": true,
	"dag": true, "doei": true, "bedankt": true, "thanks": true, "thx": true,
	"?": true, ".": true, "!": true,
}

// automotiveTerms is the broad vocabulary check for rule 4 of the
// time-waster classifier: a short message containing none of these is
// treated as off-topic.
var automotiveTerms = []string{
	"auto", "bmw", "audi", "mercedes", "volkswagen", "golf", "polo",
	"occasion", "proefrit", "prijs", "diesel", "benzine", "elektrisch",
	"hybride", "inruil", "financiering", "lease", "rijden", "kopen",
	"model", "bouwjaar", "km", "garage", "apk",
}

// purchaseSignalTerms is the intent vocabulary for rule 5 of the
// time-waster classifier: a long conversation in which none of these ever
// occurred has shown no purchase intent at all.
var purchaseSignalTerms = []string{
	"kopen", "proefrit", "prijs", "budget", "financiering", "inruil",
	"offerte", "bezichtigen", "langskomen", "interesse", "reserveren",
}
