package handler

import (
	"errors"
	"net/http"

	"infoco-backoffice/internal/ai"
	"infoco-backoffice/internal/observability"
)

// AIHandler serves the news digest and free-form analysis endpoints.
type AIHandler struct {
	client *ai.Client
}

func NewAIHandler(client *ai.Client) *AIHandler {
	return &AIHandler{client: client}
}

// News returns the public-sector news digest. It requires no session so the
// login screen can show it.
func (h *AIHandler) News(w http.ResponseWriter, r *http.Request) {
	digest, err := h.client.News(r.Context())
	if h.writeAIError(w, r, err) {
		return
	}
	respondJSON(w, http.StatusOK, digest)
}

type AnalyzeRequest struct {
	Prompt string `json:"prompt"`
}

// Analyze runs a free-form prompt over the text-generation backend.
func (h *AIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	text, err := h.client.Analyze(r.Context(), req.Prompt)
	if errors.Is(err, ai.ErrEmptyPrompt) {
		respondError(w, http.StatusBadRequest, "A prompt is required")
		return
	}
	if h.writeAIError(w, r, err) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (h *AIHandler) writeAIError(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ai.ErrNotConfigured):
		respondError(w, http.StatusServiceUnavailable, "Text generation is not configured")
	default:
		observability.FromContext(r.Context()).Error("text generation failed", "error", err.Error())
		respondError(w, http.StatusBadGateway, "Text generation unavailable")
	}
	return true
}
