package user

import "time"

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusDisabled Status = "DISABLED"
)

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	DisplayName  *string   `gorm:"type:text"`
	AvatarURL    *string   `gorm:"type:text"`
	Status       Status    `gorm:"type:varchar(16);not null;default:ACTIVE"`
	FamilyID     *string   `gorm:"type:uuid;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (u User) Active() bool {
	return u.Status == StatusActive
}

type FamilySummary struct {
	ID   string
	Name string
}

type Profile struct {
	User
	Family *FamilySummary
}

type UpdateInput struct {
	DisplayName *string
	AvatarURL   *string
}
