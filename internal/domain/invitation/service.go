package invitation

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	familydomain "family-album-go/internal/domain/family"
	"github.com/google/uuid"
)

const (
	defaultExpiryDays = 7
	maxExpiryDays     = 365
	tokenBytes        = 32
)

// Roles resolves a user's current role in a family.
type Roles interface {
	GetRole(ctx context.Context, familyID, userID string) (familydomain.Role, error)
}

type Service struct {
	repo  Repository
	roles Roles
	now   func() time.Time
}

func NewService(repo Repository, roles Roles) *Service {
	return &Service{repo: repo, roles: roles, now: time.Now}
}

func (s *Service) Create(ctx context.Context, familyID, inviterID string, input CreateInput) (*Invitation, error) {
	role, err := s.roles.GetRole(ctx, familyID, inviterID)
	if err != nil {
		return nil, err
	}
	if !familydomain.Allow(role, familydomain.ActionManageInvitations) {
		return nil, ErrForbidden
	}

	inviteRole, err := familydomain.ParseAssignableRole(input.Role, familydomain.RoleMember)
	if err != nil {
		return nil, err
	}
	days := input.ExpiresInDays
	if days == 0 {
		days = defaultExpiryDays
	}
	if days < 1 || days > maxExpiryDays {
		return nil, ErrInvalidExpiry
	}

	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generate invitation token: %w", err)
	}

	now := s.now().UTC()
	invitation := Invitation{
		ID:        uuid.NewString(),
		FamilyID:  familyID,
		InviterID: inviterID,
		Token:     token,
		Role:      inviteRole,
		ExpiresAt: now.Add(time.Duration(days) * 24 * time.Hour),
		CreatedAt: now,
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" {
		invitation.Email = &email
	}

	if err := s.repo.Create(ctx, &invitation); err != nil {
		return nil, err
	}
	return &invitation, nil
}

// Validate is read-only and safe to call without authentication.
func (s *Service) Validate(ctx context.Context, token string) (*Details, error) {
	invitation, err := s.repo.GetByToken(ctx, strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	if err := s.checkUsable(invitation); err != nil {
		return nil, err
	}

	family, err := s.repo.GetFamily(ctx, invitation.FamilyID)
	if err != nil {
		return nil, err
	}
	inviter, err := s.repo.GetInviter(ctx, invitation.InviterID)
	if err != nil {
		return nil, err
	}

	return &Details{Invitation: *invitation, Family: *family, Inviter: *inviter}, nil
}

// Accept consumes the invitation. The row is locked for the whole transaction,
// so of two concurrent accepts the second sees the invitation as used.
func (s *Service) Accept(ctx context.Context, token, userID string) (*familydomain.FamilyMember, error) {
	var result *familydomain.FamilyMember
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		invitation, err := tx.GetByTokenForUpdate(ctx, strings.TrimSpace(token))
		if err != nil {
			return err
		}
		if err := s.checkUsable(invitation); err != nil {
			return err
		}

		member, err := familydomain.Join(ctx, tx, invitation.FamilyID, userID, invitation.Role)
		if err != nil {
			return err
		}
		if err := tx.MarkUsed(ctx, invitation.ID, s.now().UTC()); err != nil {
			return err
		}
		result = member
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) Revoke(ctx context.Context, invitationID, familyID, requesterID string) error {
	role, err := s.roles.GetRole(ctx, familyID, requesterID)
	if err != nil {
		return err
	}
	if !familydomain.Allow(role, familydomain.ActionManageInvitations) {
		return ErrForbidden
	}

	invitation, err := s.repo.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if invitation.FamilyID != familyID {
		return ErrInvitationNotFound
	}

	return s.repo.Delete(ctx, invitation.ID)
}

// List returns every invitation of the family, newest first, including used
// and expired ones.
func (s *Service) List(ctx context.Context, familyID, userID string) ([]Listed, error) {
	role, err := s.roles.GetRole(ctx, familyID, userID)
	if err != nil {
		return nil, err
	}
	if !familydomain.Allow(role, familydomain.ActionViewInvitations) {
		return nil, ErrNotMember
	}

	return s.repo.ListByFamily(ctx, familyID)
}

func (s *Service) checkUsable(invitation *Invitation) error {
	if invitation.UsedAt != nil {
		return ErrInvitationUsed
	}
	if s.now().After(invitation.ExpiresAt) {
		return ErrInvitationExpired
	}
	return nil
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
