package invitation

import (
	"time"

	familydomain "family-album-go/internal/domain/family"
)

type Invitation struct {
	ID        string            `gorm:"type:uuid;primaryKey"`
	FamilyID  string            `gorm:"type:uuid;not null;index"`
	InviterID string            `gorm:"type:uuid;not null"`
	Token     string            `gorm:"not null;uniqueIndex"`
	Role      familydomain.Role `gorm:"type:varchar(16);not null"`
	Email     *string           `gorm:"type:text"`
	ExpiresAt time.Time         `gorm:"not null"`
	UsedAt    *time.Time        `gorm:"column:used_at"`
	CreatedAt time.Time         `gorm:"autoCreateTime"`
}

func (Invitation) TableName() string {
	return "family_invitations"
}

// IsPending reports whether the invitation can still be accepted at now.
func (i Invitation) IsPending(now time.Time) bool {
	return i.UsedAt == nil && !now.After(i.ExpiresAt)
}

type Inviter struct {
	ID          string
	Email       string
	DisplayName *string
}

// Listed is an invitation with its inviter, as shown to family members.
type Listed struct {
	Invitation
	Inviter Inviter
}

// Details is what an invitee sees before accepting.
type Details struct {
	Invitation Invitation
	Family     familydomain.Family
	Inviter    Inviter
}

type CreateInput struct {
	Role          string
	Email         string
	ExpiresInDays int
}
