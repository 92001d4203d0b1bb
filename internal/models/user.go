package models

import (
	"time"
)

// User is an anonymous study participant identified only by a session token
type User struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	SessionID   string       `gorm:"size:36;uniqueIndex;not null" json:"session_id"`
	CreatedAt   time.Time    `json:"created_at"`
	Evaluations []Evaluation `gorm:"foreignKey:UserID" json:"-"`
}

// TableName overrides the default table name
func (User) TableName() string {
	return "users"
}
