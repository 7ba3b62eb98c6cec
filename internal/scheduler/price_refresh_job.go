package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/z1shivam/blocklift/internal/logger"
	"github.com/z1shivam/blocklift/internal/price"
)

// PriceRefreshJob keeps the market price cache warm so request paths
// rarely hit the upstream API.
type PriceRefreshJob struct {
	cache *price.Cache
}

// NewPriceRefreshJob creates the price refresh job.
func NewPriceRefreshJob(cache *price.Cache) *PriceRefreshJob {
	return &PriceRefreshJob{cache: cache}
}

// GetName returns the job name.
func (j *PriceRefreshJob) GetName() string {
	return "price_refresh"
}

// GetSchedule returns the job schedule.
func (j *PriceRefreshJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Hour)
}

// Execute fetches fresh prices and rewrites the cache file.
func (j *PriceRefreshJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := j.cache.Refresh(ctx); err != nil {
		logger.Warn("Price refresh failed, cache left as-is: %v", err)
		return
	}
	logger.Info("Price cache refreshed")
}
