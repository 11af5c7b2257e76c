// internal/server/handlers/trend.go

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"trendlens/internal/domain/trend"
)

// TrendHandler handles trend-related HTTP requests
type TrendHandler struct {
	searcher trend.Searcher
	insights trend.InsightGenerator
	content  trend.ContentGenerator
	log      *zap.Logger
}

// NewTrendHandler creates a new trend handler
func NewTrendHandler(searcher trend.Searcher, insights trend.InsightGenerator, content trend.ContentGenerator, log *zap.Logger) *TrendHandler {
	return &TrendHandler{
		searcher: searcher,
		insights: insights,
		content:  content,
		log:      log,
	}
}

// SearchTrends runs a grounded trend search
func (h *TrendHandler) SearchTrends(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)

	query := stringField(body, "query")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required field: query")
		return
	}

	req := trend.SearchRequest{
		Query:    query,
		Mode:     stringField(body, "mode"),
		Platform: stringField(body, "platform"),
		Topic:    stringField(body, "topic"),
		Language: stringField(body, "language"),
		Country:  stringField(body, "country"),
		Days:     intField(body, "days", 7),
	}

	resp, err := h.searcher.Search(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// GenerateInsights produces a trend snapshot for a platform, content
// type and audience
func (h *TrendHandler) GenerateInsights(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)

	platform := stringField(body, "platform")
	contentType := stringField(body, "contentType")
	audience := stringField(body, "targetAudience")
	if platform == "" || contentType == "" || audience == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required fields: platform, contentType, targetAudience")
		return
	}

	req := trend.InsightRequest{
		Platform:       platform,
		ContentType:    contentType,
		TargetAudience: audience,
		Product:        stringField(body, "product"),
		Brand:          stringField(body, "brand"),
		Message:        stringField(body, "message"),
	}

	resp, err := h.insights.Generate(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// GenerateContent drafts post copy for a platform
func (h *TrendHandler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)

	platform := stringField(body, "platform")
	if platform == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required field: platform")
		return
	}

	req := trend.ContentRequest{
		Platform: platform,
		Tone:     stringField(body, "tone"),
		Audience: stringField(body, "audience"),
		Product:  stringField(body, "product"),
		Brand:    stringField(body, "brand"),
		Message:  stringField(body, "message"),
		Language: stringField(body, "language"),
	}

	resp, err := h.content.GenerateContent(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// GetOptions returns the static enumerations the dashboard offers
func (h *TrendHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"platforms": []string{"instagram", "tiktok", "youtube", "linkedin"},
		"contentTypes": []string{
			"promo", "educational", "behind-the-scenes", "user-generated", "announcement",
		},
		"audiences": []string{
			"genz", "millennials", "parents", "professionals", "small-business-owners",
		},
		"languages": []string{"en-US", "es-ES", "pt-BR", "fr-FR", "de-DE", "ja-JP"},
	})
}
