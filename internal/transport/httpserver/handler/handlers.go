package handler

import (
	auditdomain "family-album-go/internal/domain/audit"
	authdomain "family-album-go/internal/domain/auth"
	childdomain "family-album-go/internal/domain/child"
	familydomain "family-album-go/internal/domain/family"
	invitationdomain "family-album-go/internal/domain/invitation"
	mediadomain "family-album-go/internal/domain/media"
	userdomain "family-album-go/internal/domain/user"
	"family-album-go/pkg/logger"
)

type Handlers struct {
	Auth        *authdomain.Service
	Users       *userdomain.Service
	Families    *familydomain.Service
	Invitations *invitationdomain.Service
	Children    *childdomain.Service
	Media       *mediadomain.Service
	Audit       *auditdomain.Service
	log         logger.Logger
}

type Services struct {
	Auth        *authdomain.Service
	Users       *userdomain.Service
	Families    *familydomain.Service
	Invitations *invitationdomain.Service
	Children    *childdomain.Service
	Media       *mediadomain.Service
	Audit       *auditdomain.Service
}

func New(services Services, log logger.Logger) *Handlers {
	return &Handlers{
		Auth:        services.Auth,
		Users:       services.Users,
		Families:    services.Families,
		Invitations: services.Invitations,
		Children:    services.Children,
		Media:       services.Media,
		Audit:       services.Audit,
		log:         log,
	}
}
