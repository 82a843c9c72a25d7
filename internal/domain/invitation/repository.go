package invitation

import (
	"context"
	"time"

	familydomain "family-album-go/internal/domain/family"
)

type Repository interface {
	familydomain.MembershipWriter
	Transaction(ctx context.Context, fn func(Repository) error) error
	Create(ctx context.Context, invitation *Invitation) error
	GetByID(ctx context.Context, invitationID string) (*Invitation, error)
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	// GetByTokenForUpdate locks the invitation row until the transaction ends.
	GetByTokenForUpdate(ctx context.Context, token string) (*Invitation, error)
	ListByFamily(ctx context.Context, familyID string) ([]Listed, error)
	MarkUsed(ctx context.Context, invitationID string, at time.Time) error
	Delete(ctx context.Context, invitationID string) error
	GetFamily(ctx context.Context, familyID string) (*familydomain.Family, error)
	GetInviter(ctx context.Context, userID string) (*Inviter, error)
}
