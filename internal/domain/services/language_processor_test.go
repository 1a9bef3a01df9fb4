package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callguard-lab/internal/domain/models"
	"callguard-lab/pkg/logger"
)

func newTestProcessor() *LanguageProcessor {
	return NewLanguageProcessor(logger.NewNop())
}

func TestNormalizeEmptyInput(t *testing.T) {
	p := newTestProcessor()

	_, err := p.Normalize("")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = p.Normalize("   \t\n  ")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestNormalizePlaceholders(t *testing.T) {
	p := newTestProcessor()

	n, err := p.Normalize("Call me at +1 (555) 123-4567 or mail scam@example.com, see https://evil.example now!!! Pay $5,000 today.")
	require.NoError(t, err)

	assert.Contains(t, n.Text, TokenPhoneNumber)
	assert.Contains(t, n.Text, TokenEmailAddress)
	assert.Contains(t, n.Text, TokenURL)
	assert.Contains(t, n.Text, TokenCurrencyAmount)
	assert.NotContains(t, n.Text, "555")
	assert.NotContains(t, n.Text, "!!!")
}

func TestNormalizeSqueezesRepeatedPunctuation(t *testing.T) {
	p := newTestProcessor()

	n, err := p.Normalize("Wait... really??? yes!!! no,, maybe")
	require.NoError(t, err)

	assert.Equal(t, "wait. really? yes! no, maybe", n.Text)
	assert.NotContains(t, n.Text, "..")
	assert.NotContains(t, n.Text, "??")
	assert.NotContains(t, n.Text, "!!")
	assert.NotContains(t, n.Text, ",,")
}

func TestNormalizeIsDeterministic(t *testing.T) {
	p := newTestProcessor()
	text := "URGENT!!  Your  account   will be suspended. Call 555-000-1234 back now."

	a, err := p.Normalize(text)
	require.NoError(t, err)
	b, err := p.Normalize(text)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestDetectLanguageEnglish(t *testing.T) {
	p := newTestProcessor()
	lang := p.DetectLanguage("Hello, this is your bank calling about your account")
	assert.Equal(t, models.LanguageEnglish, lang)
}

func TestDetectLanguageHindi(t *testing.T) {
	p := newTestProcessor()
	lang := p.DetectLanguage("नमस्ते, मैं बैंक से बोल रहा हूं। तुरंत अपना पिन बताइए।")
	assert.Equal(t, models.LanguageHindi, lang)
}

func TestDetectLanguageTelugu(t *testing.T) {
	p := newTestProcessor()
	lang := p.DetectLanguage("నమస్కారం, మీ ఖాతా మూసివేయబడుతుంది. వెంటనే కాల్ చేయండి.")
	assert.Equal(t, models.LanguageTelugu, lang)
}

func TestDetectLanguageMixedPrefersDominantScript(t *testing.T) {
	p := newTestProcessor()
	// Mostly Devanagari with a couple of Latin words
	lang := p.DetectLanguage("ok नमस्ते मैं बैंक से बोल रहा हूं तुरंत पैसा भेजिए वरना खाता बंद हो जाएगा")
	assert.Equal(t, models.LanguageHindi, lang)
}

func TestDetectLanguageUnknown(t *testing.T) {
	p := newTestProcessor()
	assert.Equal(t, models.LanguageUnknown, p.DetectLanguage("12345 67890 ++--"))
}

func TestTokenizeKeepsPlaceholders(t *testing.T) {
	tokens := tokenize("your account PHONE_NUMBER is suspended")
	assert.Equal(t, []string{"your", "account", "PHONE_NUMBER", "is", "suspended"}, tokens)
}
