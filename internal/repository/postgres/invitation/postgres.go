package invitation

import (
	"context"
	"errors"
	"time"

	familydomain "family-album-go/internal/domain/family"
	invitationdomain "family-album-go/internal/domain/invitation"
	familyrepo "family-album-go/internal/repository/postgres/family"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db      *gorm.DB
	members *familyrepo.PostgresRepository
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db, members: familyrepo.NewPostgres(db)}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(invitationdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewPostgres(tx))
	})
}

func (r *PostgresRepository) Create(ctx context.Context, invitation *invitationdomain.Invitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, invitationID string) (*invitationdomain.Invitation, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", invitationID))
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*invitationdomain.Invitation, error) {
	return r.first(r.db.WithContext(ctx).Where("token = ?", token))
}

func (r *PostgresRepository) GetByTokenForUpdate(ctx context.Context, token string) (*invitationdomain.Invitation, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("token = ?", token))
}

func (r *PostgresRepository) first(query *gorm.DB) (*invitationdomain.Invitation, error) {
	var invitation invitationdomain.Invitation
	if err := query.First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invitationdomain.ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

func (r *PostgresRepository) ListByFamily(ctx context.Context, familyID string) ([]invitationdomain.Listed, error) {
	type invitationRow struct {
		invitationdomain.Invitation
		InviterEmail       string  `gorm:"column:inviter_email"`
		InviterDisplayName *string `gorm:"column:inviter_display_name"`
	}

	var rows []invitationRow
	if err := r.db.WithContext(ctx).
		Table("family_invitations").
		Select("family_invitations.*, users.email AS inviter_email, users.display_name AS inviter_display_name").
		Joins("join users on users.id = family_invitations.inviter_id").
		Where("family_invitations.family_id = ?", familyID).
		Order("family_invitations.created_at desc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]invitationdomain.Listed, 0, len(rows))
	for _, row := range rows {
		result = append(result, invitationdomain.Listed{
			Invitation: row.Invitation,
			Inviter: invitationdomain.Inviter{
				ID:          row.InviterID,
				Email:       row.InviterEmail,
				DisplayName: row.InviterDisplayName,
			},
		})
	}
	return result, nil
}

// MarkUsed only updates an unused invitation. A second call reports
// ErrInvitationUsed.
func (r *PostgresRepository) MarkUsed(ctx context.Context, invitationID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&invitationdomain.Invitation{}).
		Where("id = ? AND used_at IS NULL", invitationID).
		Update("used_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return invitationdomain.ErrInvitationUsed
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, invitationID string) error {
	result := r.db.WithContext(ctx).Delete(&invitationdomain.Invitation{}, "id = ?", invitationID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return invitationdomain.ErrInvitationNotFound
	}
	return nil
}

func (r *PostgresRepository) GetFamily(ctx context.Context, familyID string) (*familydomain.Family, error) {
	return r.members.GetFamily(ctx, familyID)
}

func (r *PostgresRepository) GetInviter(ctx context.Context, userID string) (*invitationdomain.Inviter, error) {
	var rows []invitationdomain.Inviter
	if err := r.db.WithContext(ctx).
		Table("users").
		Select("id, email, display_name").
		Where("id = ?", userID).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, familydomain.ErrUserNotFound
	}
	return &rows[0], nil
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
