package child

import "time"

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

type Child struct {
	ID        string     `gorm:"type:uuid;primaryKey"`
	FamilyID  string     `gorm:"type:uuid;index;not null"`
	Name      string     `gorm:"not null"`
	Avatar    *string    `gorm:"column:avatar"`
	BirthDate *time.Time `gorm:"type:date"`
	Gender    *Gender    `gorm:"type:varchar(8)"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

type CreateInput struct {
	Name      string
	Avatar    *string
	BirthDate *time.Time
	Gender    *Gender
}

// UpdateInput changes only the non-nil fields.
type UpdateInput struct {
	Name      *string
	Avatar    *string
	BirthDate *time.Time
	Gender    *Gender
}
