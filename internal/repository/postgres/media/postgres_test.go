package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"family-album-go/internal/db/dbtest"
	mediadomain "family-album-go/internal/domain/media"
	"family-album-go/internal/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func seedFamilyAndUser(t *testing.T, gormDB *gorm.DB) (string, string) {
	t.Helper()
	familyID, userID := uuid.NewString(), uuid.NewString()
	if err := gormDB.Exec("INSERT INTO families (id, name) VALUES (?, ?)", familyID, "Test Family").Error; err != nil {
		t.Fatalf("seed family: %v", err)
	}
	if err := gormDB.Exec("INSERT INTO users (id, email, password_hash, family_id) VALUES (?, ?, ?, ?)", userID, userID+"@example.com", "x", familyID).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return familyID, userID
}

func newPhoto(familyID, uploaderID, checksum string, uploadedAt time.Time) mediadomain.Photo {
	id := uuid.NewString()
	return mediadomain.Photo{
		ID:          id,
		FamilyID:    familyID,
		UploaderID:  uploaderID,
		OriginalKey: "photos/" + familyID + "/" + id + "/original.jpg",
		Checksum:    checksum,
		FileSize:    10,
		MimeType:    "image/jpeg",
		UploadedAt:  uploadedAt,
	}
}

func TestChecksumUniquePerFamily(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := NewPostgres(gormDB)
	ctx := context.Background()

	familyA, userA := seedFamilyAndUser(t, gormDB)
	familyB, userB := seedFamilyAndUser(t, gormDB)

	first := newPhoto(familyA, userA, "sum", time.Now())
	if err := repo.Create(ctx, &first); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	again := newPhoto(familyA, userA, "sum", time.Now())
	if err := repo.Create(ctx, &again); !errors.Is(err, mediadomain.ErrDuplicatePhoto) {
		t.Fatalf("expected ErrDuplicatePhoto, got %v", err)
	}
	other := newPhoto(familyB, userB, "sum", time.Now())
	if err := repo.Create(ctx, &other); err != nil {
		t.Fatalf("expected same checksum allowed in another family, got %v", err)
	}
}

func TestListWithTagsAndDelete(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := NewPostgres(gormDB)
	ctx := context.Background()

	familyID, userID := seedFamilyAndUser(t, gormDB)
	base := time.Now().Add(-time.Hour).UTC()
	var ids []string
	for i, sum := range []string{"a", "b", "c"} {
		photo := newPhoto(familyID, userID, sum, base.Add(time.Duration(i)*time.Minute))
		err := repo.Transaction(ctx, func(tx mediadomain.Repository) error {
			if err := tx.Create(ctx, &photo); err != nil {
				return err
			}
			return tx.AddTags(ctx, photo.ID, []string{"beach", "summer"})
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		ids = append(ids, photo.ID)
	}

	items, total, err := repo.List(ctx, familyID, mediadomain.PhotoFilter{
		Page:      pagination.Params{Page: 1, Limit: 2},
		SortBy:    mediadomain.SortByUploadedAt,
		SortOrder: pagination.SortDesc,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 3 || len(items) != 2 || items[0].ID != ids[2] {
		t.Fatalf("unexpected page: total %d items %+v", total, items)
	}
	if len(items[0].Tags) != 2 {
		t.Fatalf("expected tags loaded, got %v", items[0].Tags)
	}

	if err := repo.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	existing, err := repo.ExistingIDs(ctx, ids)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if existing[ids[0]] || !existing[ids[1]] {
		t.Fatalf("unexpected existing ids %v", existing)
	}

	var tagCount int64
	gormDB.Table("photo_tags").Where("photo_id = ?", ids[0]).Count(&tagCount)
	if tagCount != 0 {
		t.Fatalf("expected tags cascaded, got %d", tagCount)
	}
}
