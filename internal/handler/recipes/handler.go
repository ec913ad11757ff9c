package recipes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/w-h-a/recipes/internal/logging"
	"github.com/w-h-a/recipes/internal/service/ingest"
	"github.com/w-h-a/recipes/internal/service/search"
	"github.com/w-h-a/recipes/internal/view"
	"github.com/w-h-a/recipes/server"
	"github.com/w-h-a/recipes/storer"
	getsafe "github.com/w-h-a/recipes/util/get_safe"
)

type searchResponse struct {
	Query      string         `json:"query"`
	Similarity float64        `json:"similarity"`
	Results    []storer.Match `json:"results"`
}

type generateResponse struct {
	Message string `json:"message"`
	Updated *int   `json:"updated,omitempty"`
	Failed  *int   `json:"failed,omitempty"`
}

type Handler struct {
	search *search.Service
	ingest *ingest.Service
}

// Register mounts every route on srv.
func (h *Handler) Register(srv server.Server) {
	srv.Handle(http.MethodGet, "/", http.HandlerFunc(h.Index))
	srv.Handle(http.MethodGet, "/recipes/search", http.HandlerFunc(h.Search))
	srv.Handle(http.MethodGet, "/api/recipes/search", http.HandlerFunc(h.SearchJSON))
	srv.Handle(http.MethodPost, "/api/generate-embeddings", http.HandlerFunc(h.GenerateEmbeddings))
	srv.Handle(http.MethodGet, "/healthz", http.HandlerFunc(h.Healthz))
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.search.List(ctx)
	if err != nil {
		logging.From(ctx).ErrorContext(ctx, "failed to list recipes", "error", err)
		http.Error(w, "Something went wrong loading recipes", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.Index(w, records); err != nil {
		logging.From(ctx).ErrorContext(ctx, "failed to render index", "error", err)
		http.Error(w, "Something went wrong rendering recipes", http.StatusInternalServerError)
	}
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query, similarity, ok := parseSearch(w, r)
	if !ok {
		return
	}

	matches, err := h.search.Search(ctx, query, similarity)
	if err != nil {
		status := statusFor(err)
		logging.From(ctx).ErrorContext(ctx, "failed to search recipes", "query", query, "similarity", similarity, "error", err)
		http.Error(w, messageFor(status), status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.Search(w, query, similarity, matches); err != nil {
		logging.From(ctx).ErrorContext(ctx, "failed to render search results", "error", err)
		http.Error(w, "Something went wrong rendering results", http.StatusInternalServerError)
	}
}

func (h *Handler) SearchJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query, similarity, ok := parseSearch(w, r)
	if !ok {
		return
	}

	matches, err := h.search.Search(ctx, query, similarity)
	if err != nil {
		status := statusFor(err)
		logging.From(ctx).ErrorContext(ctx, "failed to search recipes", "query", query, "similarity", similarity, "error", err)
		writeJSON(w, r, status, map[string]string{"message": messageFor(status)})
		return
	}

	if matches == nil {
		matches = []storer.Match{}
	}

	writeJSON(w, r, http.StatusOK, searchResponse{
		Query:      query,
		Similarity: similarity,
		Results:    matches,
	})
}

func (h *Handler) GenerateEmbeddings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts := ingest.BackfillOptions{
		OnlyMissing: getsafe.Bool(r.URL.Query(), "only_missing"),
	}

	report, err := h.ingest.Backfill(ctx, opts)
	if err != nil {
		logging.From(ctx).ErrorContext(ctx, "failed to create recipe embeddings", "error", err)
		writeJSON(w, r, http.StatusInternalServerError, generateResponse{
			Message: "Something went wrong generating embeddings",
		})
		return
	}

	writeJSON(w, r, http.StatusOK, generateResponse{
		Message: fmt.Sprintf("Success! Updated %d recipes with embeddings.", report.Updated),
		Updated: &report.Updated,
		Failed:  &report.Failed,
	})
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// parseSearch writes a 422 and reports false when the request is unusable.
func parseSearch(w http.ResponseWriter, r *http.Request) (string, float64, bool) {
	values := r.URL.Query()

	query := getsafe.String(values, "query")
	if len(query) == 0 {
		http.Error(w, "No search query provided", http.StatusUnprocessableEntity)
		return "", 0, false
	}

	similarity, err := getsafe.Float(values, "similarity", search.DefaultThreshold)
	if err != nil {
		logging.From(r.Context()).WarnContext(r.Context(), "invalid similarity", "error", err)
		http.Error(w, "Similarity must be a number between 0 and 1", http.StatusUnprocessableEntity)
		return "", 0, false
	}

	return query, similarity, true
}

func statusFor(err error) int {
	if errors.Is(err, search.ErrInvalidQuery) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func messageFor(status int) string {
	if status == http.StatusUnprocessableEntity {
		return "Invalid search: provide a query and a similarity between 0 and 1"
	}
	return "Something went wrong searching recipes"
}

// writeJSON encodes before writing the header so an unencodable payload
// becomes a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	ctx := r.Context()

	raw, err := json.Marshal(v)
	if err != nil {
		logging.From(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
		status = http.StatusInternalServerError
		raw = []byte(`{"message":"Something went wrong encoding the response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(append(raw, '\n')); err != nil {
		logging.From(ctx).WarnContext(ctx, "failed to write response", "error", err)
	}
}

func NewHandler(search *search.Service, ingest *ingest.Service) *Handler {
	if search == nil {
		panic("search service is required")
	}

	if ingest == nil {
		panic("ingest service is required")
	}

	return &Handler{
		search: search,
		ingest: ingest,
	}
}
