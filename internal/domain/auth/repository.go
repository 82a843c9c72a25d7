package auth

import (
	"context"
	"time"

	familydomain "family-album-go/internal/domain/family"
	userdomain "family-album-go/internal/domain/user"
)

type Repository interface {
	familydomain.MembershipWriter
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetUserByEmail(ctx context.Context, email string) (*userdomain.User, error)
	GetUserByID(ctx context.Context, userID string) (*userdomain.User, error)
	CreateUser(ctx context.Context, user *userdomain.User) error
	CreateFamily(ctx context.Context, family *familydomain.Family) error
	GetFamily(ctx context.Context, familyID string) (*familydomain.Family, error)
	// GetActiveRefreshToken locks and returns the user's non-revoked token.
	GetActiveRefreshToken(ctx context.Context, userID string) (*RefreshToken, error)
	CreateRefreshToken(ctx context.Context, token *RefreshToken) error
	RevokeRefreshToken(ctx context.Context, tokenID string, at time.Time) error
	RevokeAllRefreshTokens(ctx context.Context, userID string, at time.Time) error
}
