package http

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/w-h-a/recipes/internal/logging"
)

const RequestIdHeader = "X-Request-Id"

// RequestId reuses an inbound request id or mints one, echoes it in the
// response, and stores a request-scoped logger in the context.
func RequestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIdHeader)
		if len(id) == 0 {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIdHeader, id)

		logger := logging.From(r.Context()).With("request_id", id)
		ctx := logging.With(r.Context(), logger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		ctx := r.Context()
		logging.From(ctx).InfoContext(ctx, "handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"bytes", m.Written,
			"duration", m.Duration,
		)
	})
}

func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				ctx := r.Context()
				logging.From(ctx).ErrorContext(ctx, "recovered from panic", "panic", rec, "path", r.URL.Path)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
