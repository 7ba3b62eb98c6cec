package model

import (
	"time"
)

// ChatSession tracks one assistant conversation so idle sessions can be
// expired by the cleanup job.
type ChatSession struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at" gorm:"index"`
}

// TableName sets the table name.
func (ChatSession) TableName() string {
	return "chat_session"
}
