package recipes_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/w-h-a/recipes/embedder/embeddertest"
	"github.com/w-h-a/recipes/internal/handler/recipes"
	"github.com/w-h-a/recipes/internal/service/ingest"
	"github.com/w-h-a/recipes/internal/service/search"
	"github.com/w-h-a/recipes/server"
	httpserver "github.com/w-h-a/recipes/server/http"
	"github.com/w-h-a/recipes/storer"
	"github.com/w-h-a/recipes/storer/memory"
)

type fixture struct {
	storer   storer.Storer
	embedder *embeddertest.Static
	handler  http.Handler
}

func setup(t *testing.T) fixture {
	ctx := context.Background()
	s := memory.NewStorer(storer.WithDimensions(2))

	_, err := s.Insert(ctx, "Pasta Carbonara", []float32{0.9, 0.43588989})
	gt.NoError(t, err)
	_, err = s.Insert(ctx, "Tomato Soup", []float32{0.1, 0.99498744})
	gt.NoError(t, err)

	emb := &embeddertest.Static{
		Vectors: map[string][]float32{
			"pasta":           {1, 0},
			"Pasta Carbonara": {0.9, 0.43588989},
			"Tomato Soup":     {0.1, 0.99498744},
		},
		Fail: map[string]bool{"broken": true},
	}

	h := recipes.NewHandler(search.New(emb, s), ingest.New(emb, s))

	srv := httpserver.NewServer(
		server.WithName("recipes-test"),
		httpserver.WithMiddleware(httpserver.Recover, httpserver.RequestId, httpserver.AccessLog),
	)
	h.Register(srv)

	return fixture{storer: s, embedder: emb, handler: srv.Handler()}
}

func (f fixture) do(method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestIndexListsAllRecipes(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.S(t, w.Body.String()).Contains("Pasta Carbonara")
	gt.S(t, w.Body.String()).Contains("Tomato Soup")
	gt.S(t, w.Header().Get("Content-Type")).Contains("text/html")
	gt.NotEqual(t, w.Header().Get(httpserver.RequestIdHeader), "")
}

func TestSearchPage(t *testing.T) {
	testCases := []struct {
		name         string
		target       string
		wantCode     int
		wantContains []string
		wantMissing  []string
	}{
		{
			name:         "matches above cutoff",
			target:       "/recipes/search?query=pasta&similarity=0.3",
			wantCode:     http.StatusOK,
			wantContains: []string{"Pasta Carbonara", "0.9000"},
			wantMissing:  []string{"Tomato Soup"},
		},
		{
			name:        "nothing above cutoff",
			target:      "/recipes/search?query=pasta&similarity=0.95",
			wantCode:    http.StatusOK,
			wantMissing: []string{"Pasta Carbonara", "Tomato Soup"},
		},
		{
			name:         "default cutoff",
			target:       "/recipes/search?query=pasta",
			wantCode:     http.StatusOK,
			wantContains: []string{"Pasta Carbonara", `value="0.5"`},
		},
		{
			name:         "missing query",
			target:       "/recipes/search?similarity=0.3",
			wantCode:     http.StatusUnprocessableEntity,
			wantContains: []string{"No search query provided"},
		},
		{
			name:     "blank query",
			target:   "/recipes/search?query=%20%20",
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "unparsable similarity",
			target:   "/recipes/search?query=pasta&similarity=abc",
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "similarity out of range",
			target:   "/recipes/search?query=pasta&similarity=1.5",
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "embedding failure",
			target:   "/recipes/search?query=broken",
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setup(t)

			w := f.do(http.MethodGet, tc.target)
			gt.Equal(t, w.Code, tc.wantCode)
			for _, s := range tc.wantContains {
				gt.S(t, w.Body.String()).Contains(s)
			}
			for _, s := range tc.wantMissing {
				gt.S(t, w.Body.String()).NotContains(s)
			}
		})
	}
}

func TestSearchPageWithoutQueryNeverEmbeds(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/recipes/search")
	gt.Equal(t, w.Code, http.StatusUnprocessableEntity)
	gt.A(t, f.embedder.Calls()).Length(0)
}

func TestSearchJSON(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/api/recipes/search?query=pasta&similarity=0.05")
	gt.Equal(t, w.Code, http.StatusOK)

	var rsp struct {
		Query      string         `json:"query"`
		Similarity float64        `json:"similarity"`
		Results    []storer.Match `json:"results"`
	}
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))

	gt.Equal(t, rsp.Query, "pasta")
	gt.Equal(t, rsp.Similarity, 0.05)
	gt.A(t, rsp.Results).Length(2)
	gt.Equal(t, rsp.Results[0].Title, "Pasta Carbonara")
	gt.Equal(t, rsp.Results[1].Title, "Tomato Soup")
	gt.True(t, rsp.Results[0].Similarity > rsp.Results[1].Similarity)
}

func TestSearchJSONEmptyResultsIsArray(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/api/recipes/search?query=pasta&similarity=0.99")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.S(t, w.Body.String()).Contains(`"results":[]`)
}

func TestSearchJSONInvalid(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/api/recipes/search?query=pasta&similarity=-1")
	gt.Equal(t, w.Code, http.StatusUnprocessableEntity)
	gt.S(t, w.Body.String()).Contains(`"message"`)
}

func TestGenerateEmbeddings(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.storer.InsertMany(ctx, []string{"Mystery Stew"})
	gt.NoError(t, err)

	w := f.do(http.MethodPost, "/api/generate-embeddings")
	gt.Equal(t, w.Code, http.StatusOK)

	var rsp struct {
		Message string `json:"message"`
		Updated int    `json:"updated"`
		Failed  int    `json:"failed"`
	}
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	gt.Equal(t, rsp.Updated, 2)
	gt.Equal(t, rsp.Failed, 1)
	gt.S(t, rsp.Message).Contains("Updated 2 recipes")
}

func TestGenerateEmbeddingsOnlyMissing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.storer.InsertMany(ctx, []string{"Tomato Soup"})
	gt.NoError(t, err)

	w := f.do(http.MethodPost, "/api/generate-embeddings?only_missing=true")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, f.embedder.Calls(), []string{"Tomato Soup"})
}

func TestGenerateEmbeddingsRequiresPost(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/api/generate-embeddings")
	gt.Equal(t, w.Code, http.StatusMethodNotAllowed)
}

func TestHealthz(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/healthz")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, w.Body.String(), "ok")
}

// unavailableStorer fails every read the handlers make.
type unavailableStorer struct {
	storer.Storer
}

func (unavailableStorer) SelectAll(ctx context.Context) ([]storer.Record, error) {
	return nil, storer.Failure(errors.New("connection refused"), "failed to select recipes")
}

func (unavailableStorer) SelectMissingEmbeddings(ctx context.Context) ([]storer.Record, error) {
	return nil, storer.Failure(errors.New("connection refused"), "failed to select recipes")
}

func (unavailableStorer) SearchBySimilarity(ctx context.Context, vector []float32, threshold float64, limit int) ([]storer.Match, error) {
	return nil, storer.Failure(errors.New("connection refused"), "failed to search recipes")
}

func setupUnavailable(t *testing.T) fixture {
	s := unavailableStorer{}
	emb := &embeddertest.Static{
		Vectors: map[string][]float32{"pasta": {1, 0}},
	}

	h := recipes.NewHandler(search.New(emb, s), ingest.New(emb, s))

	srv := httpserver.NewServer(httpserver.WithMiddleware(httpserver.Recover, httpserver.RequestId))
	h.Register(srv)

	return fixture{storer: s, embedder: emb, handler: srv.Handler()}
}

func TestStoreFailureIsInternalError(t *testing.T) {
	f := setupUnavailable(t)

	testCases := []struct {
		name        string
		method      string
		target      string
		wantMessage string
	}{
		{name: "index", method: http.MethodGet, target: "/", wantMessage: "Something went wrong loading recipes"},
		{name: "search page", method: http.MethodGet, target: "/recipes/search?query=pasta", wantMessage: "Something went wrong searching recipes"},
		{name: "search api", method: http.MethodGet, target: "/api/recipes/search?query=pasta", wantMessage: "Something went wrong searching recipes"},
		{name: "generate embeddings", method: http.MethodPost, target: "/api/generate-embeddings", wantMessage: "Something went wrong generating embeddings"},
		{name: "generate missing embeddings", method: http.MethodPost, target: "/api/generate-embeddings?only_missing=true", wantMessage: "Something went wrong generating embeddings"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := f.do(tc.method, tc.target)
			gt.Equal(t, w.Code, http.StatusInternalServerError)
			gt.S(t, w.Body.String()).Contains(tc.wantMessage)
		})
	}
}

func TestGenerateEmbeddingsStoreFailureBody(t *testing.T) {
	f := setupUnavailable(t)

	w := f.do(http.MethodPost, "/api/generate-embeddings")
	gt.Equal(t, w.Code, http.StatusInternalServerError)
	gt.S(t, w.Header().Get("Content-Type")).Contains("application/json")

	var rsp map[string]any
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	gt.Equal(t, rsp, map[string]any{"message": "Something went wrong generating embeddings"})
}
