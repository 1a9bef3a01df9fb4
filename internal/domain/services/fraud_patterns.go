package services

import (
	"regexp"

	"callguard-lab/internal/domain/models"
)

// CatalogueVersion identifies the static pattern tables below. Bump when
// patterns change so clients caching /patterns can resync.
const CatalogueVersion = "2025.08.1"

// IndicatorGroup is a cross-cutting fraud signal: a named set of patterns
// with a weight used by the composite heuristic score.
type IndicatorGroup struct {
	Name     string
	Weight   float64
	Patterns []*regexp.Regexp
}

// CategoryPatterns maps keyword patterns to one call category
type CategoryPatterns struct {
	Category models.Category
	Patterns []*regexp.Regexp
}

// PatternCatalogue is the versioned static table of detection patterns.
// All patterns match against normalized (lowercased) text.
type PatternCatalogue struct {
	Version    string
	Indicators []IndicatorGroup
	Categories []CategoryPatterns
}

// Indicator names used across the pipeline
const (
	IndicatorUrgency       = "urgency"
	IndicatorMoney         = "money_mentions"
	IndicatorPersonalInfo  = "personal_info_requests"
	IndicatorSuspicious    = "suspicious_phrases"
	IndicatorEmotional     = "emotional_manipulation"
	IndicatorCallback      = "callback_requests"
	IndicatorAuthority     = "authority_claims"
	IndicatorVerification  = "verification_requests"
	IndicatorTimePressure  = "time_pressure"
	IndicatorPhoneNumbers  = "phone_numbers"
	IndicatorWordCount     = "word_count"
	IndicatorExclamations  = "exclamation_count"
	IndicatorQuestionMarks = "question_count"
)

func mustPatterns(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		patterns[i] = regexp.MustCompile(expr)
	}
	return patterns
}

// DefaultCatalogue returns the built-in pattern catalogue
func DefaultCatalogue() *PatternCatalogue {
	return &PatternCatalogue{
		Version:    CatalogueVersion,
		Indicators: indicatorGroups(),
		Categories: categoryPatterns(),
	}
}

func indicatorGroups() []IndicatorGroup {
	return []IndicatorGroup{
		{
			Name:   IndicatorUrgency,
			Weight: 2,
			Patterns: mustPatterns(
				`\b(urgent|urgently|immediately|right away|right now)\b`,
				`\b(act now|hurry|asap|don't wait|do not wait)\b`,
				`\b(final notice|last chance|last warning)\b`,
				`\bexpires? (today|soon|now)\b`,
			),
		},
		{
			Name:   IndicatorMoney,
			Weight: 3,
			Patterns: mustPatterns(
				`\b(money|cash|payment|dollars?|rupees?)\b`,
				`\b(wire transfer|western union|moneygram|gift cards?|bitcoin|crypto)\b`,
				`\b(refund|deposit|processing fee|transfer fee|advance fee)\b`,
				`\b(credit card|debit card|bank account)\b`,
				`\bCURRENCY_AMOUNT\b`,
			),
		},
		{
			Name:   IndicatorPersonalInfo,
			Weight: 5,
			Patterns: mustPatterns(
				`\b(ssn|social security number)\b`,
				`\b(password|passcode|pin|otp|one.time password)\b`,
				`\b(card number|account number|routing number|cvv)\b`,
				`\b(credit card|debit card) (number|details|information)\b`,
				`\b(date of birth|mother'?s maiden name|aadhaar)\b`,
			),
		},
		{
			Name:   IndicatorSuspicious,
			Weight: 2,
			Patterns: mustPatterns(
				`\bmicrosoft (technical |certified )?(support|security)\b`,
				`\byour (computer|device|account) (has|is|was) (been )?(a )?(virus|infected|hacked|compromised|suspended)\b`,
				`\b(remote access|anydesk|teamviewer)\b`,
				`\b(warrant|legal action|lawsuit) (for|against) (your arrest|you)\b`,
				`\byou (have been|are|were) selected\b`,
				`\bclaim your (prize|reward|winnings)\b`,
				`\b(keep this confidential|do not tell anyone|don't tell anyone)\b`,
			),
		},
		{
			Name:   IndicatorEmotional,
			Weight: 2,
			Patterns: mustPatterns(
				`\b(i love you|my love|darling|sweetheart)\b`,
				`\b(emergency|accident|hospital|in trouble|arrested)\b`,
				`\byour (son|daughter|grandson|granddaughter|family member)\b`,
				`\b(trust me|only you can help|i have no one else)\b`,
			),
		},
		{
			Name:   IndicatorCallback,
			Weight: 1,
			Patterns: mustPatterns(
				`\bcall (us |me )?back\b`,
				`\bcall (this|the following) number\b`,
				`\bpress (1|one|2|two)\b`,
				`\bPHONE_NUMBER\b`,
			),
		},
		{
			Name:   IndicatorAuthority,
			Weight: 2,
			Patterns: mustPatterns(
				`\b(microsoft|apple|amazon|google) (support|security|representative)?\b`,
				`\b(irs|tax department|income tax|customs)\b`,
				`\b(police|fbi|cbi|interpol|law enforcement)\b`,
				`\b(bank (officer|manager|representative)|government (agency|official))\b`,
				`\bsocial security administration\b`,
			),
		},
		{
			Name:   IndicatorVerification,
			Weight: 3,
			Patterns: mustPatterns(
				`\b(verify|confirm|validate|authenticate) (your|the) (identity|account|details|information|card)\b`,
				`\b(provide|share|give|tell) (us |me )?your\b`,
				`\bfor (security )?verification( purposes)?\b`,
			),
		},
		{
			Name:   IndicatorTimePressure,
			Weight: 2,
			Patterns: mustPatterns(
				`\bwithin (the next )?\d+ (minutes|hours)\b`,
				`\btoday only\b`,
				`\blimited time (offer)?\b`,
				`\bbefore (it'?s|it is) too late\b`,
			),
		},
	}
}

func categoryPatterns() []CategoryPatterns {
	return []CategoryPatterns{
		{
			Category: models.CategoryTechSupport,
			Patterns: mustPatterns(
				`\b(computer|laptop|device|windows|software)\b`,
				`\b(virus|malware|infected|hacked|firewall|error)\b`,
				`\b(technician|technical support|remote access|license key)\b`,
				`\bmicrosoft\b`,
			),
		},
		{
			Category: models.CategoryFinancial,
			Patterns: mustPatterns(
				`\b(bank|banking|account|transaction)\b`,
				`\b(credit card|debit card|loan|interest rate|debt)\b`,
				`\b(suspicious activity|unauthorized (charge|transaction))\b`,
				`\b(refund|investment|wire)\b`,
			),
		},
		{
			Category: models.CategoryRomance,
			Patterns: mustPatterns(
				`\b(love|darling|sweetheart|relationship|soulmate)\b`,
				`\b(lonely|marriage|meet in person)\b`,
				`\b(military|deployed|overseas|visa fees?)\b`,
			),
		},
		{
			Category: models.CategoryLotteryPrize,
			Patterns: mustPatterns(
				`\b(lottery|prize|winner|won|winnings|jackpot)\b`,
				`\b(sweepstakes|lucky draw|congratulations)\b`,
				`\b(claim|reward|million)\b`,
			),
		},
		{
			Category: models.CategoryPhishing,
			Patterns: mustPatterns(
				`\b(verify|confirm|login|log in|click)\b`,
				`\b(suspended|locked|security alert|unusual activity)\b`,
				`\b(password|otp|link)\b`,
				`\bURL\b`,
			),
		},
		{
			Category: models.CategoryRobocall,
			Patterns: mustPatterns(
				`\bpress (1|one|2|two)\b`,
				`\b(automated|recorded|recording) (message|call)\b`,
				`\b(final notice|warranty|car insurance)\b`,
				`\bdo not hang up\b`,
			),
		},
	}
}
