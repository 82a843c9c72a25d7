package auth

import (
	"time"

	familydomain "family-album-go/internal/domain/family"
	userdomain "family-album-go/internal/domain/user"
)

type RefreshToken struct {
	ID        string     `gorm:"type:uuid;primaryKey"`
	UserID    string     `gorm:"type:uuid;not null;index"`
	TokenHash string     `gorm:"not null"`
	ExpiresAt time.Time  `gorm:"not null"`
	RevokedAt *time.Time `gorm:"column:revoked_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type Session struct {
	TokenPair
	User   userdomain.User
	Family *familydomain.Family
}
