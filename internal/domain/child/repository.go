package child

import "context"

type Repository interface {
	Create(ctx context.Context, child *Child) error
	GetByID(ctx context.Context, childID string) (*Child, error)
	ListByFamily(ctx context.Context, familyID string) ([]Child, error)
	Update(ctx context.Context, child *Child) error
	Delete(ctx context.Context, childID string) error
}
