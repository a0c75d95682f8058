package middleware

import (
	"net/http"
	"strconv"
	"time"

	"medicine-reminder/internal/platform/logger"
	"medicine-reminder/internal/platform/metrics"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger loguea cada request terminado y alimenta el contador HTTP.
// RequestID y Recoverer vienen de chi/middleware en el router.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()

			log.Info("http request", map[string]any{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     status,
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"request_id": chimw.GetReqID(r.Context()),
			})
		})
	}
}
