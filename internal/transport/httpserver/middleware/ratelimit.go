package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

type Limiter interface {
	Allow(ctx context.Context, key string) bool
	Window() time.Duration
}

// RateLimit rejects callers over quota with 429. Quotas are per client IP and
// per scope, so each limited route family has its own budget.
func RateLimit(limiter Limiter, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(r.Context(), scope+":"+ClientIP(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(int(limiter.Window().Seconds())))
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
