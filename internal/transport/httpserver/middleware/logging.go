package middleware

import (
	"net/http"
	"time"

	"family-album-go/pkg/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger writes one line per request. 4xx responses are logged at warn
// and 5xx at error.
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
			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration", time.Since(start),
				"bytes", ww.BytesWritten(),
				"remote_addr", ClientIP(r),
				"request_id", chimw.GetReqID(r.Context()),
			}

			switch {
			case status >= 500:
				log.Error("http.request: served", args...)
			case status >= 400:
				log.Warn("http.request: served", args...)
			default:
				log.Debug("http.request: served", args...)
			}
		})
	}
}
