package family

import (
	"context"
	"errors"
	"time"

	"family-album-go/internal/db"
	familydomain "family-album-go/internal/domain/family"
	"gorm.io/gorm"
)

const (
	familyUserConstraint = "family_members_family_user_key"
	userConstraint       = "family_members_user_key"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetFamily(ctx context.Context, familyID string) (*familydomain.Family, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).Where("id = ?", familyID).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, familyID, userID string) (*familydomain.FamilyMember, error) {
	var member familydomain.FamilyMember
	if err := r.db.WithContext(ctx).Where("family_id = ? AND user_id = ?", familyID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) GetMemberByID(ctx context.Context, familyID, memberID string) (*familydomain.FamilyMember, error) {
	var member familydomain.FamilyMember
	if err := r.db.WithContext(ctx).Where("family_id = ? AND id = ?", familyID, memberID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) GetMemberByUser(ctx context.Context, userID string) (*familydomain.FamilyMember, error) {
	var member familydomain.FamilyMember
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMembersWithProfiles(ctx context.Context, familyID string) ([]familydomain.MemberProfile, error) {
	type memberRow struct {
		ID          string    `gorm:"column:id"`
		FamilyID    string    `gorm:"column:family_id"`
		UserID      string    `gorm:"column:user_id"`
		Role        string    `gorm:"column:role"`
		JoinedAt    time.Time `gorm:"column:joined_at"`
		Email       string    `gorm:"column:email"`
		DisplayName *string   `gorm:"column:display_name"`
		AvatarURL   *string   `gorm:"column:avatar_url"`
	}

	var rows []memberRow
	if err := r.db.WithContext(ctx).
		Table("family_members").
		Select("family_members.id, family_members.family_id, family_members.user_id, family_members.role, family_members.joined_at, users.email, users.display_name, users.avatar_url").
		Joins("join users on users.id = family_members.user_id").
		Where("family_members.family_id = ?", familyID).
		Order("family_members.joined_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]familydomain.MemberProfile, 0, len(rows))
	for _, row := range rows {
		members = append(members, familydomain.MemberProfile{
			ID:          row.ID,
			FamilyID:    row.FamilyID,
			UserID:      row.UserID,
			Role:        familydomain.Role(row.Role),
			JoinedAt:    row.JoinedAt,
			Email:       row.Email,
			DisplayName: row.DisplayName,
			AvatarURL:   row.AvatarURL,
		})
	}
	return members, nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *familydomain.FamilyMember) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		if db.IsUniqueViolation(err, familyUserConstraint, userConstraint) {
			return familydomain.ErrAlreadyMember
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) DeleteMembershipsByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Delete(&familydomain.FamilyMember{}, "user_id = ?", userID).Error
}

func (r *PostgresRepository) SetUserFamily(ctx context.Context, userID string, familyID *string) error {
	return r.db.WithContext(ctx).
		Table("users").
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"family_id":  familyID,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) UpdateMemberRole(ctx context.Context, memberID string, role familydomain.Role) error {
	result := r.db.WithContext(ctx).Model(&familydomain.FamilyMember{}).Where("id = ?", memberID).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return familydomain.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, memberID string) error {
	return r.db.WithContext(ctx).Delete(&familydomain.FamilyMember{}, "id = ?", memberID).Error
}

func (r *PostgresRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("users").Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
