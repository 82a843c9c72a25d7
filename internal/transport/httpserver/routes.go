package httpserver

import (
	"net/http"
	"time"

	"family-album-go/internal/config"
	"family-album-go/internal/transport/httpserver/handler"
	httpmw "family-album-go/internal/transport/httpserver/middleware"
	"family-album-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Handlers *handler.Handlers
	Auth     *httpmw.Auth
	Recorder httpmw.AuditRecorder
	Limiter  httpmw.Limiter
	Health   map[string]handler.Pinger
}

func NewRouter(cfg config.Config, deps Deps, log logger.Logger) http.Handler {
	h := deps.Handlers

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(httpmw.Metrics)
	r.Use(httpmw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(httpmw.NewCORS(cfg.AllowedOrigins()))

	r.Get("/health", handler.Health(log, deps.Health))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(httpmw.RateLimit(deps.Limiter, "auth"))

			r.Post("/auth/register", h.Register)
			r.Post("/auth/login", h.Login)
			r.Post("/auth/refresh", h.Refresh)
		})

		r.With(httpmw.RateLimit(deps.Limiter, "invitations")).Get("/invitations/validate", h.ValidateInvitation)

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Middleware)
			r.Use(httpmw.Audit(deps.Recorder))

			r.Post("/auth/logout", h.Logout)

			r.Get("/users/me", h.GetMe)
			r.Patch("/users/me", h.UpdateMe)

			r.Get("/children", h.ListChildren)
			r.Post("/children", h.CreateChild)
			r.Get("/children/{id}", h.GetChild)
			r.Patch("/children/{id}", h.UpdateChild)
			r.Delete("/children/{id}", h.DeleteChild)

			r.Post("/media/request-upload", h.RequestUpload)
			r.Post("/media/complete-upload", h.CompleteUpload)
			r.Get("/media", h.ListPhotos)
			r.Get("/media/{id}", h.GetPhoto)
			r.Get("/media/{id}/url", h.GetPhotoURL)
			r.Delete("/media/{id}", h.DeletePhoto)

			r.Post("/invitations/accept", h.AcceptInvitation)

			r.Route("/families/{familyId}", func(r chi.Router) {
				r.Get("/members", h.ListFamilyMembers)
				r.Post("/members", h.AddFamilyMember)
				r.Get("/members/me", h.GetMyRole)
				r.Patch("/members/{memberId}", h.UpdateFamilyMemberRole)
				r.Delete("/members/{memberId}", h.RemoveFamilyMember)

				r.Get("/invitations", h.ListInvitations)
				r.Post("/invitations", h.CreateInvitation)
				r.Delete("/invitations/{invitationId}", h.RevokeInvitation)

				r.Get("/audit", h.FamilyAuditLogs)
			})

			r.Get("/audit", h.QueryAuditLogs)
			r.Get("/audit/actions", h.AuditActionTypes)
		})
	})

	return r
}
