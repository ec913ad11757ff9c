package recipes

import (
	"bytes"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/w-h-a/recipes/internal/logging"
	"github.com/w-h-a/recipes/storer"
)

func TestWriteJSONUnencodablePayload(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("info", &buf)

	r := httptest.NewRequest(http.MethodGet, "/api/recipes/search", nil)
	r = r.WithContext(logging.With(r.Context(), logger))
	w := httptest.NewRecorder()

	writeJSON(w, r, http.StatusOK, searchResponse{
		Query:   "pasta",
		Results: []storer.Match{{Id: 1, Title: "Pasta Carbonara", Similarity: math.NaN()}},
	})

	gt.Equal(t, w.Code, http.StatusInternalServerError)
	gt.S(t, w.Body.String()).Contains(`"message"`)
	gt.S(t, buf.String()).Contains("failed to encode response")
}

func TestWriteJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	writeJSON(w, r, http.StatusCreated, map[string]string{"message": "ok"})

	gt.Equal(t, w.Code, http.StatusCreated)
	gt.Equal(t, w.Header().Get("Content-Type"), "application/json")
	gt.Equal(t, w.Body.String(), "{\"message\":\"ok\"}\n")
}
