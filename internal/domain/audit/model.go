package audit

import (
	"time"

	"family-album-go/internal/pagination"
)

type Log struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    *string   `gorm:"type:uuid"`
	Action    string    `gorm:"type:varchar(64);not null"`
	TargetID  *string   `gorm:"column:target_id"`
	IP        *string   `gorm:"column:ip"`
	UserAgent *string   `gorm:"column:user_agent"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Log) TableName() string {
	return "audit_logs"
}

// LogView is a log row with the acting user's display name.
type LogView struct {
	Log
	UserName *string
}

// Entry is what the HTTP layer hands to the recorder.
type Entry struct {
	UserID    string
	Action    string
	TargetID  string
	IP        string
	UserAgent string
	At        time.Time
}

type Filter struct {
	UserID    string
	Action    string
	TargetID  string
	StartDate *time.Time
	EndDate   *time.Time
	Page      pagination.Params
}
