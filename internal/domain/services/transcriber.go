package services

import (
	"context"
	"fmt"
	"hash/fnv"

	"callguard-lab/internal/domain/models"
	"callguard-lab/pkg/logger"
)

// Transcriber converts call audio to text. Implementations must be safe
// for concurrent use.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, format string) (models.Transcription, error)
}

// supported audio container formats
var supportedFormats = map[string]bool{
	"wav":  true,
	"mp3":  true,
	"m4a":  true,
	"flac": true,
	"ogg":  true,
}

// OfflineTranscriber is the shipped engine: it runs without network or a
// speech model by returning a canned transcript selected by a content
// hash of the audio. The same audio always yields the same transcript.
type OfflineTranscriber struct {
	transcripts []models.Transcription
	logger      *logger.Logger
}

// NewOfflineTranscriber creates the offline engine
func NewOfflineTranscriber(log *logger.Logger) *OfflineTranscriber {
	return &OfflineTranscriber{
		transcripts: cannedTranscripts(),
		logger:      log.WithComponent("offline-transcriber"),
	}
}

// Transcribe selects a canned transcript deterministically from the audio
// bytes. Unsupported formats and empty audio return a not-OK transcription
// with empty text, which the pipeline treats as valid low-signal input.
func (t *OfflineTranscriber) Transcribe(ctx context.Context, audio []byte, format string) (models.Transcription, error) {
	if err := ctx.Err(); err != nil {
		return models.Transcription{}, err
	}
	if len(audio) == 0 {
		return models.Transcription{OK: false}, fmt.Errorf("%w: empty audio payload", models.ErrInvalidInput)
	}
	if !supportedFormats[format] {
		t.logger.Warn().Str("format", format).Msg("unsupported audio format")
		return models.Transcription{OK: false}, nil
	}

	h := fnv.New32a()
	h.Write(audio)
	selected := t.transcripts[int(h.Sum32())%len(t.transcripts)]

	t.logger.Debug().
		Int("audio_bytes", len(audio)).
		Str("format", format).
		Msg("audio transcribed offline")

	return selected, nil
}

// StubTranscriber returns a fixed transcription, for tests
type StubTranscriber struct {
	Text string
	Hint models.Language
	Err  error
}

func (s *StubTranscriber) Transcribe(ctx context.Context, audio []byte, format string) (models.Transcription, error) {
	if s.Err != nil {
		return models.Transcription{OK: false}, s.Err
	}
	return models.Transcription{Text: s.Text, LanguageHint: s.Hint, OK: true}, nil
}

func cannedTranscripts() []models.Transcription {
	return []models.Transcription{
		{
			Text:         "Hello, this is Microsoft technical support. We detected a virus on your computer. Please provide your credit card details immediately to fix this issue.",
			LanguageHint: models.LanguageEnglish,
			OK:           true,
		},
		{
			Text:         "Congratulations! You have won a lottery of 10 lakh rupees. To claim your prize, please share your bank account number and pay the processing fee.",
			LanguageHint: models.LanguageEnglish,
			OK:           true,
		},
		{
			Text:         "This is an automated message from your bank. Your account has been suspended due to suspicious activity. Press one to verify your identity now.",
			LanguageHint: models.LanguageEnglish,
			OK:           true,
		},
		{
			Text:         "Hi, this is Sarah from the dental clinic calling to confirm your appointment tomorrow at 3 PM. Please call us back if you need to reschedule.",
			LanguageHint: models.LanguageEnglish,
			OK:           true,
		},
		{
			Text:         "नमस्ते, मैं बैंक से बोल रहा हूं। आपका खाता बंद हो जाएगा। तुरंत अपना पिन नंबर बताइए।",
			LanguageHint: models.LanguageHindi,
			OK:           true,
		},
		{
			Text:         "Good afternoon, this is a courtesy call from your internet provider about scheduled maintenance in your area this weekend.",
			LanguageHint: models.LanguageEnglish,
			OK:           true,
		},
	}
}
