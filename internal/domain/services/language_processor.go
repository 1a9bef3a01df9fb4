package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"callguard-lab/internal/domain/models"
	"callguard-lab/pkg/logger"
)

// Placeholder tokens substituted during normalization
const (
	TokenPhoneNumber    = "PHONE_NUMBER"
	TokenEmailAddress   = "EMAIL_ADDRESS"
	TokenURL            = "URL"
	TokenCurrencyAmount = "CURRENCY_AMOUNT"
)

// minScriptConfidence is the fraction of letters that must belong to the
// winning script before a language is reported instead of "unknown".
const minScriptConfidence = 0.3

var (
	urlPattern      = regexp.MustCompile(`(https?://|www\.)[^\s]+`)
	emailPattern    = regexp.MustCompile(`[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	phonePattern    = regexp.MustCompile(`(\+?\d[\d\s\-().]{7,}\d)`)
	currencyPattern = regexp.MustCompile(`([$₹€£]\s?\d[\d,]*(\.\d+)?|\b\d[\d,]*(\.\d+)?\s?(dollars|rupees|euros|pounds|rs)\b)`)
	repeatPunct     = regexp.MustCompile(`!{2,}|\?{2,}|\.{2,}|,{2,}`)
	whitespace      = regexp.MustCompile(`\s+`)
	tokenSplit      = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
)

// Per-language fraud keyword dictionaries. Latin-script Hindi/Telugu
// transliterations let keyword hits vote when scripts are ambiguous.
var languageKeywords = map[models.Language][]string{
	models.LanguageEnglish: {
		"account", "bank", "urgent", "verify", "prize", "winner",
		"computer", "virus", "police", "refund", "lottery",
	},
	models.LanguageHindi: {
		"खाता", "बैंक", "तुरंत", "इनाम", "पैसा", "पुलिस", "लॉटरी",
		"paisa", "turant", "inaam", "khata",
	},
	models.LanguageTelugu: {
		"ఖాతా", "బ్యాంకు", "వెంటనే", "బహుమతి", "డబ్బు", "పోలీసు", "లాటరీ",
		"dabbu", "ventane", "bahumati",
	},
}

// LanguageProcessor detects transcript language and produces the
// canonical normalized form consumed by the extractor and classifier.
// It is stateless and safe for concurrent use.
type LanguageProcessor struct {
	logger *logger.Logger
}

// NewLanguageProcessor creates a new LanguageProcessor
func NewLanguageProcessor(log *logger.Logger) *LanguageProcessor {
	return &LanguageProcessor{
		logger: log.WithComponent("language-processor"),
	}
}

// Normalize detects the language of text and returns its normalized form.
// Empty or blank input returns ErrInvalidInput.
func (p *LanguageProcessor) Normalize(text string) (models.NormalizedText, error) {
	if strings.TrimSpace(text) == "" {
		return models.NormalizedText{}, fmt.Errorf("%w: empty transcript", models.ErrInvalidInput)
	}

	lang := p.DetectLanguage(text)
	normalized := p.normalizeText(text)
	tokens := tokenize(normalized)

	p.logger.Debug().
		Str("language", string(lang)).
		Int("tokens", len(tokens)).
		Msg("transcript normalized")

	return models.NormalizedText{
		Text:     normalized,
		Tokens:   tokens,
		Language: lang,
	}, nil
}

// DetectLanguage scores each supported language by script membership and
// keyword hits. Mixed-language input goes to the script covering the most
// letters; below the confidence floor the result is "unknown".
func (p *LanguageProcessor) DetectLanguage(text string) models.Language {
	var devanagari, telugu, latin, letters int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		switch {
		case r >= 0x0900 && r <= 0x097F:
			devanagari++
		case r >= 0x0C00 && r <= 0x0C7F:
			telugu++
		case r < 0x0250: // Latin incl. extended
			latin++
		}
	}

	if letters == 0 {
		return models.LanguageUnknown
	}

	scores := map[models.Language]float64{
		models.LanguageHindi:   float64(devanagari),
		models.LanguageTelugu:  float64(telugu),
		models.LanguageEnglish: float64(latin),
	}

	// Keyword hits break script ties (transliterated Hindi/Telugu in
	// Latin script still votes for its language).
	lower := strings.ToLower(text)
	for lang, words := range languageKeywords {
		for _, w := range words {
			if strings.Contains(lower, w) {
				scores[lang] += 3
			}
		}
	}

	best := models.LanguageUnknown
	var bestScore float64
	for _, lang := range []models.Language{models.LanguageEnglish, models.LanguageHindi, models.LanguageTelugu} {
		if scores[lang] > bestScore {
			best = lang
			bestScore = scores[lang]
		}
	}

	if bestScore == 0 || bestScore/float64(letters) < minScriptConfidence {
		return models.LanguageUnknown
	}
	return best
}

// normalizeText applies language-agnostic canonicalization: placeholder
// substitution, lowercasing, punctuation squeeze, whitespace collapse.
func (p *LanguageProcessor) normalizeText(text string) string {
	t := strings.ToLower(text)
	t = urlPattern.ReplaceAllString(t, TokenURL)
	t = emailPattern.ReplaceAllString(t, TokenEmailAddress)
	t = currencyPattern.ReplaceAllString(t, TokenCurrencyAmount)
	t = phonePattern.ReplaceAllString(t, TokenPhoneNumber)
	t = repeatPunct.ReplaceAllStringFunc(t, func(m string) string { return m[:1] })
	t = whitespace.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// tokenize splits normalized text into word tokens
func tokenize(text string) []string {
	var tokens []string
	for _, tok := range tokenSplit.Split(text, -1) {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
