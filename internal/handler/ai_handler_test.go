package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"infoco-backoffice/internal/ai"
	"infoco-backoffice/internal/testutil"

	"github.com/stretchr/testify/assert"
)

// newAIServer points the client at an OpenAI-compatible fake that answers
// every completion with a fixed text.
func newAIServer(t *testing.T, status int, answer string) *AIHandler {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, answer)
	}))
	t.Cleanup(upstream.Close)

	client := ai.NewClient(ai.Config{
		APIKey:  "test-key",
		BaseURL: upstream.URL + "/v1",
		Model:   "gpt-4o-mini",
	})
	return NewAIHandler(client)
}

func TestAIHandler_News(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := newAIServer(t, http.StatusOK, "1. Nova lei de licitações avança.")

		w := httptest.NewRecorder()
		h.News(w, httptest.NewRequest(http.MethodGet, "/api/v1/ai/news", nil))
		body := testutil.AssertJSONResponse(t, w, http.StatusOK)
		assert.Equal(t, "1. Nova lei de licitações avança.", body["news"])
		assert.NotNil(t, body["sources"])
	})

	t.Run("upstream_failure", func(t *testing.T) {
		h := newAIServer(t, http.StatusInternalServerError, "")

		w := httptest.NewRecorder()
		h.News(w, httptest.NewRequest(http.MethodGet, "/api/v1/ai/news", nil))
		testutil.AssertJSONError(t, w, http.StatusBadGateway, "Text generation unavailable")
	})

	t.Run("not_configured", func(t *testing.T) {
		h := NewAIHandler(ai.NewClient(ai.Config{}))

		w := httptest.NewRecorder()
		h.News(w, httptest.NewRequest(http.MethodGet, "/api/v1/ai/news", nil))
		testutil.AssertJSONError(t, w, http.StatusServiceUnavailable, "Text generation is not configured")
	})
}

func TestAIHandler_Analyze(t *testing.T) {
	t.Run("empty_prompt", func(t *testing.T) {
		h := newAIServer(t, http.StatusOK, "irrelevante")

		w := httptest.NewRecorder()
		h.Analyze(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/ai/analyze", AnalyzeRequest{}))
		testutil.AssertJSONError(t, w, http.StatusBadRequest, "A prompt is required")
	})

	t.Run("success", func(t *testing.T) {
		h := newAIServer(t, http.StatusOK, "As despesas cresceram 12% no trimestre.")

		w := httptest.NewRecorder()
		h.Analyze(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/ai/analyze",
			AnalyzeRequest{Prompt: "Resuma as despesas do trimestre"}))
		body := testutil.AssertJSONResponse(t, w, http.StatusOK)
		assert.Equal(t, "As despesas cresceram 12% no trimestre.", body["text"])
	})
}
