// Package jobs contains the scheduled jobs of the placement hub worker.
package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/careerhub/placement-hub/internal/application/command"
	"github.com/careerhub/placement-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLOSE EXPIRED POSTINGS JOB
// ══════════════════════════════════════════════════════════════════════════════

// ExpiredPostingsCloser is satisfied by command.CloseExpiredPostingsHandler.
type ExpiredPostingsCloser interface {
	Handle(ctx context.Context, cmd command.CloseExpiredPostingsCommand) (*command.CloseExpiredPostingsResult, error)
}

// CloseExpiredPostingsConfig contains configuration for the job.
type CloseExpiredPostingsConfig struct {
	// Timeout is the maximum duration of one run.
	Timeout time.Duration
}

// DefaultCloseExpiredPostingsConfig returns sensible defaults.
func DefaultCloseExpiredPostingsConfig() CloseExpiredPostingsConfig {
	return CloseExpiredPostingsConfig{Timeout: 2 * time.Minute}
}

// CloseExpiredStats describes the most recent run.
type CloseExpiredStats struct {
	StartedAt time.Time
	Duration  time.Duration
	Closed    []string
}

// CloseExpiredPostingsJob closes APPROVED postings whose close date has passed.
type CloseExpiredPostingsJob struct {
	closer ExpiredPostingsCloser
	config CloseExpiredPostingsConfig
	log    *logger.Logger

	lastStats atomic.Pointer[CloseExpiredStats]
}

// NewCloseExpiredPostingsJob creates the job.
func NewCloseExpiredPostingsJob(closer ExpiredPostingsCloser, config CloseExpiredPostingsConfig, log *logger.Logger) *CloseExpiredPostingsJob {
	if log == nil {
		log = logger.Nop()
	}
	return &CloseExpiredPostingsJob{
		closer: closer,
		config: config,
		log:    log.With(logger.String("job", "close_expired_postings")),
	}
}

// Name returns the job name.
func (j *CloseExpiredPostingsJob) Name() string {
	return "close_expired_postings"
}

// Description returns a human-readable description.
func (j *CloseExpiredPostingsJob) Description() string {
	return "Closes approved internship postings whose closing date has passed"
}

// Run executes one sweep.
func (j *CloseExpiredPostingsJob) Run(ctx context.Context) error {
	startedAt := time.Now()
	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	result, err := j.closer.Handle(ctx, command.CloseExpiredPostingsCommand{})
	stats := &CloseExpiredStats{StartedAt: startedAt, Duration: time.Since(startedAt)}
	if result != nil {
		stats.Closed = result.Closed
	}
	j.lastStats.Store(stats)

	if err != nil {
		return fmt.Errorf("close expired postings: %w", err)
	}
	j.log.Debug("sweep finished", logger.Int("closed", len(stats.Closed)), logger.Latency(stats.Duration))
	return nil
}

// LastStats returns the statistics of the most recent run, or nil.
func (j *CloseExpiredPostingsJob) LastStats() *CloseExpiredStats {
	return j.lastStats.Load()
}
