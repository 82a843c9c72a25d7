package user

import (
	"context"
	"errors"
	"time"

	domain "family-album-go/internal/domain/user"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetFamilySummary(ctx context.Context, familyID string) (*domain.FamilySummary, error) {
	var rows []domain.FamilySummary
	if err := r.db.WithContext(ctx).
		Table("families").
		Select("id, name").
		Where("id = ?", familyID).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, userID string, input domain.UpdateInput) error {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if input.DisplayName != nil {
		updates["display_name"] = input.DisplayName
	}
	if input.AvatarURL != nil {
		updates["avatar_url"] = input.AvatarURL
	}

	result := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
