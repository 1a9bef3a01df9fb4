package models

// Language is the detected (or hinted) language of a transcript
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
	LanguageTelugu  Language = "te"
	LanguageUnknown Language = "unknown"
)

// InputSource identifies where a transcript came from
type InputSource string

const (
	SourceText  InputSource = "text"
	SourceAudio InputSource = "audio"
)

// TranscriptInput is a call transcript submitted for analysis
type TranscriptInput struct {
	Text         string      `json:"text"`
	Source       InputSource `json:"source"`
	LanguageHint Language    `json:"language_hint,omitempty"`
}

// NormalizedText is the canonical form of a transcript after language
// detection and normalization
type NormalizedText struct {
	Text     string   `json:"text"`
	Tokens   []string `json:"tokens"`
	Language Language `json:"language"`
}

// Transcription is the output of a speech-to-text engine
type Transcription struct {
	Text         string   `json:"text"`
	LanguageHint Language `json:"language_hint,omitempty"`
	OK           bool     `json:"ok"`
}
