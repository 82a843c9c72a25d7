package child

import (
	"context"
	"errors"
	"time"

	childdomain "family-album-go/internal/domain/child"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, child *childdomain.Child) error {
	return r.db.WithContext(ctx).Create(child).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, childID string) (*childdomain.Child, error) {
	var child childdomain.Child
	if err := r.db.WithContext(ctx).Where("id = ?", childID).First(&child).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, childdomain.ErrChildNotFound
		}
		return nil, err
	}
	return &child, nil
}

func (r *PostgresRepository) ListByFamily(ctx context.Context, familyID string) ([]childdomain.Child, error) {
	children := make([]childdomain.Child, 0)
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at asc").
		Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

func (r *PostgresRepository) Update(ctx context.Context, child *childdomain.Child) error {
	child.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&childdomain.Child{}).
		Where("id = ? AND family_id = ?", child.ID, child.FamilyID).
		Updates(map[string]interface{}{
			"name":       child.Name,
			"avatar":     child.Avatar,
			"birth_date": child.BirthDate,
			"gender":     child.Gender,
			"updated_at": child.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, childID string) error {
	result := r.db.WithContext(ctx).Delete(&childdomain.Child{}, "id = ?", childID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return childdomain.ErrChildNotFound
	}
	return nil
}
