package httpadapter

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mcommerce/internal/requestctx"
)

const (
	headerRequestID = "X-Request-ID"
	headerUserID    = "X-User-ID"
)

// requestID reuses the caller's X-Request-ID or mints one, and echoes it back.
func (h *Handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(headerRequestID))
		if id == "" {
			id = requestctx.NewRequestID()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(requestctx.WithRequestID(r.Context(), id)))
	})
}

// actor puts the X-User-ID header on the context. Anonymous requests pass
// through; services reject them where a permission is needed.
func actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := strings.TrimSpace(r.Header.Get(headerUserID)); user != "" {
			r = r.WithContext(requestctx.WithUserID(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// observe records request count and latency by route pattern.
func (h *Handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.metrics.ObserveHTTP(r.Method, route, status, time.Since(start))
		if status >= http.StatusInternalServerError {
			h.logger.Error("request failed",
				slog.String("method", r.Method),
				slog.String("route", route),
				slog.Int("status", status),
				slog.String("request_id", requestctx.RequestID(r.Context())))
		}
	})
}
