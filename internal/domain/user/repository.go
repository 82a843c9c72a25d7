package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, userID string) (*User, error)
	GetFamilySummary(ctx context.Context, familyID string) (*FamilySummary, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateInput) error
}
