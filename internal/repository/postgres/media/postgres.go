package media

import (
	"context"
	"errors"

	"family-album-go/internal/db"
	mediadomain "family-album-go/internal/domain/media"
	"family-album-go/internal/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const checksumConstraint = "photos_family_checksum_key"

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(mediadomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) FindByChecksum(ctx context.Context, familyID, checksum string) (*mediadomain.Photo, error) {
	var photo mediadomain.Photo
	if err := r.db.WithContext(ctx).
		Where("family_id = ? AND checksum = ?", familyID, checksum).
		First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mediadomain.ErrPhotoNotFound
		}
		return nil, err
	}
	return &photo, nil
}

func (r *PostgresRepository) Create(ctx context.Context, photo *mediadomain.Photo) error {
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		if db.IsUniqueViolation(err, checksumConstraint) {
			return mediadomain.ErrDuplicatePhoto
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) AddTags(ctx context.Context, photoID string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}

	rows := make([]mediadomain.PhotoTag, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, mediadomain.PhotoTag{PhotoID: photoID, Tag: tag})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, photoID string) (*mediadomain.PhotoWithTags, error) {
	var photo mediadomain.Photo
	if err := r.db.WithContext(ctx).Where("id = ?", photoID).First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mediadomain.ErrPhotoNotFound
		}
		return nil, err
	}

	tags, err := r.tagsByPhotoIDs(ctx, []string{photo.ID})
	if err != nil {
		return nil, err
	}
	return &mediadomain.PhotoWithTags{Photo: photo, Tags: nonNil(tags[photo.ID])}, nil
}

func (r *PostgresRepository) List(ctx context.Context, familyID string, filter mediadomain.PhotoFilter) ([]mediadomain.PhotoWithTags, int64, error) {
	query := r.db.WithContext(ctx).Model(&mediadomain.Photo{}).Where("family_id = ?", familyID)
	if filter.ChildID != "" {
		query = query.Where("child_id = ?", filter.ChildID)
	}
	if filter.StartDate != nil {
		query = query.Where("taken_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("taken_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column := "uploaded_at"
	if filter.SortBy == mediadomain.SortByTakenAt {
		column = "taken_at"
	}
	desc := filter.SortOrder != pagination.SortAsc

	var photos []mediadomain.Photo
	if err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
		Limit(filter.Page.Limit).
		Offset(filter.Page.Offset()).
		Find(&photos).Error; err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(photos))
	for _, photo := range photos {
		ids = append(ids, photo.ID)
	}
	tags, err := r.tagsByPhotoIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	items := make([]mediadomain.PhotoWithTags, 0, len(photos))
	for _, photo := range photos {
		items = append(items, mediadomain.PhotoWithTags{Photo: photo, Tags: nonNil(tags[photo.ID])})
	}
	return items, total, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, photoID string) error {
	return r.db.WithContext(ctx).Delete(&mediadomain.Photo{}, "id = ?", photoID).Error
}

func (r *PostgresRepository) ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	result := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var found []string
	if err := r.db.WithContext(ctx).
		Model(&mediadomain.Photo{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		result[id] = true
	}
	return result, nil
}

func (r *PostgresRepository) tagsByPhotoIDs(ctx context.Context, photoIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(photoIDs))
	if len(photoIDs) == 0 {
		return result, nil
	}

	var rows []mediadomain.PhotoTag
	if err := r.db.WithContext(ctx).
		Where("photo_id IN ?", photoIDs).
		Order("tag asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.PhotoID] = append(result[row.PhotoID], row.Tag)
	}
	return result, nil
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
