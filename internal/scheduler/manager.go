package scheduler

import (
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"

	"github.com/z1shivam/blocklift/internal/logger"
	"github.com/z1shivam/blocklift/internal/price"
)

// Job is a named background task with its own schedule.
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager owns the background job scheduler.
type Manager struct {
	scheduler gocron.Scheduler
	jobs      []Job
}

// NewManager creates the job manager with the platform's background jobs.
func NewManager(db *gorm.DB, priceCache *price.Cache) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Manager{
		scheduler: s,
		jobs: []Job{
			NewPriceRefreshJob(priceCache),
			NewSessionCleanupJob(db),
		},
	}, nil
}

// Start registers all jobs and starts the scheduler.
func Start(db *gorm.DB, priceCache *price.Cache) (*Manager, error) {
	manager, err := NewManager(db, priceCache)
	if err != nil {
		return nil, err
	}

	manager.RegisterJobs()
	manager.scheduler.Start()

	logger.Info("Task manager started with %d jobs", len(manager.jobs))
	return manager, nil
}

// RegisterJobs registers every job on the scheduler.
func (m *Manager) RegisterJobs() {
	for _, job := range m.jobs {
		_, err := m.scheduler.NewJob(
			job.GetSchedule(),
			gocron.NewTask(job.Execute),
			gocron.WithName(job.GetName()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			logger.Error("Failed to register job %s: %v", job.GetName(), err)
		}
	}
}

// Stop shuts the scheduler down.
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
