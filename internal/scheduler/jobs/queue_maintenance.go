package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/finhealth/pkg/logger"
)

// QueueMaintainer is the housekeeping side of the analysis queue
type QueueMaintainer interface {
	RequeueStuck(ctx context.Context, after time.Duration) (int64, error)
	Cleanup(ctx context.Context, olderThan time.Duration) (int64, error)
}

// QueueCleanupJob requeues stuck jobs and purges finished ones
type QueueCleanupJob struct {
	queue     QueueMaintainer
	stuck     time.Duration
	retention time.Duration
	logger    *logger.Logger
}

// NewQueueCleanupJob creates the job with a 15 minute stuck threshold and
// 7 day retention
func NewQueueCleanupJob(q QueueMaintainer, log *logger.Logger) *QueueCleanupJob {
	return &QueueCleanupJob{
		queue:     q,
		stuck:     15 * time.Minute,
		retention: 7 * 24 * time.Hour,
		logger:    log,
	}
}

// WithRetention overrides how long finished jobs are kept
func (j *QueueCleanupJob) WithRetention(d time.Duration) *QueueCleanupJob {
	if d > 0 {
		j.retention = d
	}
	return j
}

func (j *QueueCleanupJob) Name() string { return "queue_cleanup" }

// Schedule returns the top of every hour
func (j *QueueCleanupJob) Schedule() string { return "0 0 * * * *" }

func (j *QueueCleanupJob) Run(ctx context.Context) error {
	requeued, err := j.queue.RequeueStuck(ctx, j.stuck)
	if err != nil {
		return fmt.Errorf("requeue stuck: %w", err)
	}

	removed, err := j.queue.Cleanup(ctx, j.retention)
	if err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}

	if requeued > 0 || removed > 0 {
		j.logger.WithFields(map[string]interface{}{
			"requeued": requeued,
			"removed":  removed,
		}).Info("Queue maintenance completed")
	}
	return nil
}
