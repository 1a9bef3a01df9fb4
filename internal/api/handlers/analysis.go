package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"callguard-lab/internal/config"
	"callguard-lab/internal/domain/models"
	"callguard-lab/internal/domain/services"
	"callguard-lab/pkg/logger"
)

// AnalysisHandler handles call analysis endpoints
type AnalysisHandler struct {
	detector  *services.FraudDetector
	extractor *services.FeatureExtractor
	config    config.TranscriberConfig
	logger    *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(detector *services.FraudDetector, extractor *services.FeatureExtractor, cfg config.TranscriberConfig, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		detector:  detector,
		extractor: extractor,
		config:    cfg,
		logger:    log.WithComponent("analysis-handler"),
	}
}

// AnalyzeTextRequest is the request body for text analysis. Audio fields
// are accepted here too so a single endpoint can serve both shapes.
type AnalyzeTextRequest struct {
	Text         string          `json:"text"`
	AudioBase64  string          `json:"audio_base64,omitempty"`
	Format       string          `json:"format,omitempty"`
	LanguageHint models.Language `json:"language_hint,omitempty"`
}

// AnalyzeAudioRequest is the request body for audio analysis
type AnalyzeAudioRequest struct {
	AudioBase64  string          `json:"audio_base64"`
	Format       string          `json:"format"`
	LanguageHint models.Language `json:"language_hint,omitempty"`
}

// AnalyzeText handles POST /api/v1/analysis/text
func (h *AnalysisHandler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if req.Text == "" && req.AudioBase64 == "" {
		http.Error(w, `{"error":"text or audio_base64 is required"}`, http.StatusBadRequest)
		return
	}

	if req.Text == "" {
		h.analyzeAudio(w, r, AnalyzeAudioRequest{
			AudioBase64:  req.AudioBase64,
			Format:       req.Format,
			LanguageHint: req.LanguageHint,
		})
		return
	}

	result, err := h.detector.AnalyzeText(r.Context(), models.TranscriptInput{
		Text:         req.Text,
		Source:       models.SourceText,
		LanguageHint: req.LanguageHint,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to analyze transcript")
		http.Error(w, `{"error":"analysis failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// AnalyzeAudio handles POST /api/v1/analysis/audio
func (h *AnalysisHandler) AnalyzeAudio(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeAudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if req.AudioBase64 == "" {
		http.Error(w, `{"error":"audio_base64 is required"}`, http.StatusBadRequest)
		return
	}

	h.analyzeAudio(w, r, req)
}

func (h *AnalysisHandler) analyzeAudio(w http.ResponseWriter, r *http.Request, req AnalyzeAudioRequest) {
	audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		http.Error(w, `{"error":"audio_base64 is not valid base64"}`, http.StatusBadRequest)
		return
	}

	if h.config.MaxAudioSize > 0 && int64(len(audio)) > h.config.MaxAudioSize {
		http.Error(w, `{"error":"audio payload too large"}`, http.StatusRequestEntityTooLarge)
		return
	}

	result, err := h.detector.AnalyzeAudio(r.Context(), audio, req.Format, req.LanguageHint)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to analyze audio")
		http.Error(w, `{"error":"analysis failed"}`, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// GetPatterns handles GET /api/v1/analysis/patterns - returns the
// heuristic catalogue so clients can run coarse local screening
func (h *AnalysisHandler) GetPatterns(w http.ResponseWriter, r *http.Request) {
	catalogue := h.extractor.Catalogue()

	type groupInfo struct {
		Name     string  `json:"name"`
		Weight   float64 `json:"weight"`
		Patterns int     `json:"patterns"`
	}

	groups := make([]groupInfo, len(catalogue.Indicators))
	for i, g := range catalogue.Indicators {
		groups[i] = groupInfo{Name: g.Name, Weight: g.Weight, Patterns: len(g.Patterns)}
	}

	categories := make([]models.Category, len(catalogue.Categories))
	for i, c := range catalogue.Categories {
		categories[i] = c.Category
	}

	response := struct {
		Version     string            `json:"version"`
		LastUpdated string            `json:"last_updated"`
		Indicators  []groupInfo       `json:"indicator_groups"`
		Categories  []models.Category `json:"categories"`
	}{
		Version:     catalogue.Version,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Indicators:  groups,
		Categories:  categories,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
