// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"trendlens/internal/domain/image"
	"trendlens/internal/domain/trend"
	"trendlens/internal/gemini"
)

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps service failures onto the error
// taxonomy: unparseable model output becomes a 502 carrying a truncated
// raw copy, a missing API key and everything else become 500s. 5xx
// causes are logged server-side.
func respondWithServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	var unparseable *trend.UnparseableOutputError
	if errors.As(err, &unparseable) {
		log.Warn("model output not parseable", zap.String("raw_prefix", unparseable.Raw))
		respondWithJSON(w, http.StatusBadGateway, map[string]string{
			"error": "Failed to parse AI JSON output",
			"raw":   unparseable.Raw,
		})
		return
	}

	if errors.Is(err, gemini.ErrMissingAPIKey) {
		log.Error("model call without configured key")
		respondWithError(w, http.StatusInternalServerError, gemini.ErrMissingAPIKey.Error())
		return
	}

	log.Error("request failed", zap.Error(err))
	respondWithError(w, http.StatusInternalServerError, err.Error())
}

// validationError returns true and writes a 400 when err is one of the
// client-input sentinels.
func validationError(w http.ResponseWriter, err error) bool {
	for _, sentinel := range []error{
		image.ErrInvalidImageFormat,
		image.ErrNotEnoughImages,
		image.ErrTooManyImages,
		image.ErrMissingMask,
	} {
		if errors.Is(err, sentinel) {
			respondWithError(w, http.StatusBadRequest, sentinel.Error())
			return true
		}
	}
	return false
}
