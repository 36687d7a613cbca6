package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/h0rv/shuhan/internal/logging"
)

// withLogger attaches logger to each request context and logs completion.
func withLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logger.With("request_id", middleware.GetReqID(r.Context()))
			ctx := logging.WithLogger(r.Context(), reqLogger)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// legacyRedirect sends requests for a legacy host to the canonical host,
// keeping path and query.
func legacyRedirect(canonical string, legacy []string) func(http.Handler) http.Handler {
	hosts := make(map[string]bool, len(legacy))
	for _, h := range legacy {
		hosts[strings.ToLower(h)] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := r.Host
			if h, _, err := net.SplitHostPort(host); err == nil {
				host = h
			}
			if canonical == "" || !hosts[strings.ToLower(host)] {
				next.ServeHTTP(w, r)
				return
			}
			target := "https://" + canonical + r.URL.EscapedPath()
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
		})
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func jsonResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode JSON response", "err", err)
	}
}

func errorJSON(w http.ResponseWriter, r *http.Request, status int, message string) {
	jsonResponse(w, r, status, errorResponse{Error: http.StatusText(status), Message: message})
}
