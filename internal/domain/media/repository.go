package media

import (
	"context"
	"io"
	"time"

	familydomain "family-album-go/internal/domain/family"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	// FindByChecksum returns ErrPhotoNotFound when the family has no photo
	// with that checksum.
	FindByChecksum(ctx context.Context, familyID, checksum string) (*Photo, error)
	// Create returns ErrDuplicatePhoto when (familyID, checksum) already exists.
	Create(ctx context.Context, photo *Photo) error
	AddTags(ctx context.Context, photoID string, tags []string) error
	GetByID(ctx context.Context, photoID string) (*PhotoWithTags, error)
	List(ctx context.Context, familyID string, filter PhotoFilter) ([]PhotoWithTags, int64, error)
	Delete(ctx context.Context, photoID string) error
	// ExistingIDs returns the subset of ids that have a photo row.
	ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error)
}

type ObjectStore interface {
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	Get(ctx context.Context, key string, maxBytes int64) ([]byte, error)
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

type ImageProcessor interface {
	Derive(original []byte) (*Derivatives, error)
}

type Memberships interface {
	GetRole(ctx context.Context, familyID, userID string) (familydomain.Role, error)
	Membership(ctx context.Context, userID string) (*familydomain.FamilyMember, error)
}

type Children interface {
	BelongsTo(ctx context.Context, familyID, childID string) (bool, error)
}
