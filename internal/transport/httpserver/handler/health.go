package handler

import (
	"context"
	"net/http"
	"time"

	"family-album-go/pkg/logger"
)

// Pinger is a dependency checked by the readiness endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health reports "ok" when every dependency answers within two seconds and
// 503 with the failing checks otherwise.
func Health(log logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		response := healthResponse{Status: "ok", Checks: make(map[string]string, len(deps))}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				log.BusinessError("health.check: dependency unavailable", err, "dependency", name)
				response.Status = "degraded"
				response.Checks[name] = "fail"
				continue
			}
			response.Checks[name] = "ok"
		}

		status := http.StatusOK
		if response.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, response)
	}
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}
