package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	auditdomain "family-album-go/internal/domain/audit"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type AuditRecorder interface {
	Record(entry auditdomain.Entry) bool
}

// targetParams are the route parameters checked, in order, for the id of the
// entity a request acted on.
var targetParams = []string{"id", "invitationId", "memberId"}

// Audit hands one entry per successful mutating request to the recorder. It
// must run after Auth; requests without an identity are not recorded.
func Audit(recorder AuditRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auditdomain.Audited(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status < 200 || status >= 300 {
				return
			}
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				return
			}

			recorder.Record(auditdomain.Entry{
				UserID:    identity.UserID,
				Action:    auditdomain.DeriveAction(r.Method, r.URL.Path),
				TargetID:  targetID(r),
				IP:        ClientIP(r),
				UserAgent: r.UserAgent(),
				At:        time.Now().UTC(),
			})
		})
	}
}

func targetID(r *http.Request) string {
	for _, name := range targetParams {
		if value := strings.TrimSpace(chi.URLParam(r, name)); value != "" {
			return value
		}
	}
	return ""
}

// ClientIP returns the caller address without the port. chi's RealIP has
// already replaced RemoteAddr when a forwarding header was present.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
