package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/z1shivam/blocklift/internal/model"
)

// ErrSessionNotFound is returned for unknown or expired chat sessions.
var ErrSessionNotFound = errors.New("chat session not found")

// ChatSessionLogic manages assistant conversation sessions.
type ChatSessionLogic struct {
	db *gorm.DB
}

// NewChatSessionLogic creates the session logic.
func NewChatSessionLogic(db *gorm.DB) *ChatSessionLogic {
	return &ChatSessionLogic{db: db}
}

// CreateSession mints a fresh session id.
func (l *ChatSessionLogic) CreateSession() (*model.ChatSession, error) {
	session := &model.ChatSession{
		ID:         uuid.NewString(),
		LastUsedAt: time.Now(),
	}
	if err := l.db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}
	return session, nil
}

// TouchSession marks a session as used, rejecting unknown ids.
func (l *ChatSessionLogic) TouchSession(id string) error {
	result := l.db.Model(&model.ChatSession{}).
		Where("id = ?", id).
		Update("last_used_at", time.Now())
	if result.Error != nil {
		return fmt.Errorf("failed to touch chat session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteIdleSessions removes sessions unused for longer than maxIdle.
func (l *ChatSessionLogic) DeleteIdleSessions(maxIdle time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxIdle)
	result := l.db.Where("last_used_at < ?", cutoff).Delete(&model.ChatSession{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete idle chat sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
