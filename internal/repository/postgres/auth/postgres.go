package auth

import (
	"context"
	"errors"
	"time"

	"family-album-go/internal/db"
	authdomain "family-album-go/internal/domain/auth"
	familydomain "family-album-go/internal/domain/family"
	userdomain "family-album-go/internal/domain/user"
	familyrepo "family-album-go/internal/repository/postgres/family"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	emailConstraint         = "users_email_key"
	activeRefreshConstraint = "refresh_tokens_active_user_key"
)

type PostgresRepository struct {
	db      *gorm.DB
	members *familyrepo.PostgresRepository
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db, members: familyrepo.NewPostgres(db)}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(authdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewPostgres(tx))
	})
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, userID string) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *userdomain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if db.IsUniqueViolation(err, emailConstraint) {
			return authdomain.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, family *familydomain.Family) error {
	return r.db.WithContext(ctx).Create(family).Error
}

func (r *PostgresRepository) GetFamily(ctx context.Context, familyID string) (*familydomain.Family, error) {
	return r.members.GetFamily(ctx, familyID)
}

func (r *PostgresRepository) GetActiveRefreshToken(ctx context.Context, userID string) (*authdomain.RefreshToken, error) {
	var token authdomain.RefreshToken
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authdomain.ErrRefreshTokenMissing
		}
		return nil, err
	}
	return &token, nil
}

// CreateRefreshToken fails with ErrInvalidRefreshToken when a concurrent
// request already holds the user's active token.
func (r *PostgresRepository) CreateRefreshToken(ctx context.Context, token *authdomain.RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		if db.IsUniqueViolation(err, activeRefreshConstraint) {
			return authdomain.ErrInvalidRefreshToken
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) RevokeRefreshToken(ctx context.Context, tokenID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&authdomain.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", tokenID).
		Update("revoked_at", at).Error
}

func (r *PostgresRepository) RevokeAllRefreshTokens(ctx context.Context, userID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&authdomain.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", at).Error
}

func (r *PostgresRepository) GetMember(ctx context.Context, familyID, userID string) (*familydomain.FamilyMember, error) {
	return r.members.GetMember(ctx, familyID, userID)
}

func (r *PostgresRepository) DeleteMembershipsByUser(ctx context.Context, userID string) error {
	return r.members.DeleteMembershipsByUser(ctx, userID)
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *familydomain.FamilyMember) error {
	return r.members.AddMember(ctx, member)
}

func (r *PostgresRepository) SetUserFamily(ctx context.Context, userID string, familyID *string) error {
	return r.members.SetUserFamily(ctx, userID, familyID)
}
