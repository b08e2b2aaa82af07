package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/finhealth/internal/queue"
	"github.com/wonny/finhealth/internal/storage"
	"github.com/wonny/finhealth/pkg/logger"
)

// StaleLister finds businesses whose data changed after their last assessment
type StaleLister interface {
	ListStale(ctx context.Context) ([]storage.StaleRecord, error)
}

// Enqueuer queues an assessment
type Enqueuer interface {
	Enqueue(ctx context.Context, businessID int64, fiscalYear int) (*queue.AnalysisJob, error)
}

// ReassessmentJob queues assessments for every stale business overnight
type ReassessmentJob struct {
	stale  StaleLister
	queue  Enqueuer
	logger *logger.Logger
}

// NewReassessmentJob creates a new reassessment job
func NewReassessmentJob(stale StaleLister, q Enqueuer, log *logger.Logger) *ReassessmentJob {
	return &ReassessmentJob{stale: stale, queue: q, logger: log}
}

func (j *ReassessmentJob) Name() string { return "reassessment" }

// Schedule returns 2 AM daily
func (j *ReassessmentJob) Schedule() string { return "0 0 2 * * *" }

// Run enqueues one job per stale business. A failed enqueue stops the run
// so the scheduler retries the whole pass; the queue dedupes pending jobs.
func (j *ReassessmentJob) Run(ctx context.Context) error {
	records, err := j.stale.ListStale(ctx)
	if err != nil {
		return fmt.Errorf("list stale records: %w", err)
	}

	queued := 0
	for _, rec := range records {
		if _, err := j.queue.Enqueue(ctx, rec.BusinessID, rec.FiscalYear); err != nil {
			return fmt.Errorf("enqueue business %d year %d: %w", rec.BusinessID, rec.FiscalYear, err)
		}
		queued++
	}

	j.logger.WithField("queued", queued).Info("Reassessment pass completed")
	return nil
}
