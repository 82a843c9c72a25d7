package family

import "time"

type Family struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type FamilyMember struct {
	ID       string    `gorm:"type:uuid;primaryKey"`
	FamilyID string    `gorm:"type:uuid;not null"`
	UserID   string    `gorm:"type:uuid;not null;uniqueIndex"`
	Role     Role      `gorm:"type:varchar(16);not null"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

// MemberProfile is a member joined with the public part of its user.
type MemberProfile struct {
	ID          string
	FamilyID    string
	UserID      string
	Role        Role
	JoinedAt    time.Time
	Email       string
	DisplayName *string
	AvatarURL   *string
}
