package media

import (
	"time"

	"family-album-go/internal/pagination"
)

type Photo struct {
	ID          string     `gorm:"type:uuid;primaryKey"`
	FamilyID    string     `gorm:"type:uuid;not null"`
	ChildID     *string    `gorm:"type:uuid"`
	UploaderID  string     `gorm:"type:uuid;not null"`
	OriginalKey string     `gorm:"not null"`
	ResizedKey  *string    `gorm:"column:resized_key"`
	ThumbKey    *string    `gorm:"column:thumb_key"`
	Checksum    string     `gorm:"not null"`
	FileSize    int64      `gorm:"not null"`
	MimeType    string     `gorm:"not null"`
	TakenAt     *time.Time `gorm:"column:taken_at"`
	UploadedAt  time.Time  `gorm:"autoCreateTime"`
}

func (Photo) TableName() string {
	return "photos"
}

type PhotoTag struct {
	PhotoID string `gorm:"type:uuid;primaryKey"`
	Tag     string `gorm:"primaryKey"`
}

func (PhotoTag) TableName() string {
	return "photo_tags"
}

type PhotoWithTags struct {
	Photo
	Tags []string
}

type Size string

const (
	SizeOriginal Size = "original"
	SizeResized  Size = "resized"
	SizeThumb    Size = "thumb"
)

func ParseSize(value string) (Size, error) {
	switch Size(value) {
	case "":
		return SizeResized, nil
	case SizeOriginal, SizeResized, SizeThumb:
		return Size(value), nil
	default:
		return "", ErrInvalidSize
	}
}

type SortField string

const (
	SortByUploadedAt SortField = "uploadedAt"
	SortByTakenAt    SortField = "takenAt"
)

func ParseSortField(value string) (SortField, error) {
	switch SortField(value) {
	case "":
		return SortByUploadedAt, nil
	case SortByUploadedAt, SortByTakenAt:
		return SortField(value), nil
	default:
		return "", ErrInvalidSortField
	}
}

type UploadRequest struct {
	Filename    string
	ContentType string
	Checksum    string
	FileSize    int64
}

// UploadTicket is either a presigned upload target or, when Duplicate is set,
// a pointer to the photo that already has the same checksum.
type UploadTicket struct {
	Duplicate bool
	PhotoID   string
	UploadURL string
	Key       string
	ExpiresIn time.Duration
}

type CompleteRequest struct {
	Key      string
	Checksum string
	ChildID  *string
	TakenAt  *time.Time
	Tags     []string
}

type PhotoFilter struct {
	ChildID   string
	StartDate *time.Time
	EndDate   *time.Time
	Page      pagination.Params
	SortBy    SortField
	SortOrder pagination.SortOrder
}

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Derivatives are the re-encoded variants of an original upload.
type Derivatives struct {
	Resized []byte
	Thumb   []byte
	Format  string
}
