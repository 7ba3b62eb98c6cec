package scheduler

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"

	"github.com/z1shivam/blocklift/internal/logger"
	"github.com/z1shivam/blocklift/internal/logic"
)

// maxSessionIdle is how long a chat session may sit unused before removal.
const maxSessionIdle = 24 * time.Hour

// SessionCleanupJob removes chat sessions that have gone idle.
type SessionCleanupJob struct {
	sessions *logic.ChatSessionLogic
}

// NewSessionCleanupJob creates the session cleanup job.
func NewSessionCleanupJob(db *gorm.DB) *SessionCleanupJob {
	return &SessionCleanupJob{sessions: logic.NewChatSessionLogic(db)}
}

// GetName returns the job name.
func (j *SessionCleanupJob) GetName() string {
	return "chat_session_cleanup"
}

// GetSchedule returns the job schedule.
func (j *SessionCleanupJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Hour)
}

// Execute deletes sessions idle past the cutoff.
func (j *SessionCleanupJob) Execute() {
	count, err := j.sessions.DeleteIdleSessions(maxSessionIdle)
	if err != nil {
		logger.Error("Chat session cleanup failed: %v", err)
		return
	}
	if count > 0 {
		logger.Info("Removed %d idle chat sessions", count)
	}
}
