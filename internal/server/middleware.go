package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kwezi/villagequest/internal/game"
)

type ctxKey int

const ctxKeyEngine ctxKey = iota

func profileMiddleware(profiles *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := chi.URLParam(r, "profile")
			e, err := profiles.Get(r.Context(), slug)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid profile")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyEngine, e)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func profileEngine(r *http.Request) *game.Engine {
	return r.Context().Value(ctxKeyEngine).(*game.Engine)
}

func profileSlug(r *http.Request) string {
	return chi.URLParam(r, "profile")
}

func newStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
