package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/finhealth/internal/contracts"
	"github.com/wonny/finhealth/pkg/config"
	"github.com/wonny/finhealth/pkg/logger"
)

// Job status values
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusFailed     = "failed"
)

// AnalysisJob is one queued assessment of a business and fiscal year
type AnalysisJob struct {
	ID            int64     `json:"id"`
	CorrelationID uuid.UUID `json:"correlation_id"`
	BusinessID    int64     `json:"business_id"`
	FiscalYear    int       `json:"fiscal_year"`
	Status        string    `json:"status"`
	Retries       int       `json:"retries"`
	CreatedAt     time.Time `json:"created_at"`
}

// JobRunner executes one job; *Runner is the production implementation
type JobRunner interface {
	Run(ctx context.Context, businessID int64, fiscalYear int) (*contracts.Assessment, error)
}

// AnalysisQueue is a Postgres-backed work queue for assessments
// ⭐ SSOT: 비동기 분석 작업 처리는 이 구조체에서만
type AnalysisQueue struct {
	db          *pgxpool.Pool
	runner      JobRunner
	publisher   Publisher
	batchSize   int
	interval    time.Duration
	maxRetries  int
	concurrency int
	logger      *logger.Logger
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewAnalysisQueue creates a queue. runner and publisher may be nil for
// processes that only enqueue.
func NewAnalysisQueue(db *pgxpool.Pool, runner JobRunner, publisher Publisher, cfg config.WorkerConfig, log *logger.Logger) *AnalysisQueue {
	q := &AnalysisQueue{
		db:          db,
		runner:      runner,
		publisher:   publisher,
		batchSize:   cfg.BatchSize,
		interval:    cfg.PollInterval,
		maxRetries:  cfg.MaxRetries,
		concurrency: cfg.Concurrency,
		logger:      log.WithComponent("analysis_queue"),
		stopCh:      make(chan struct{}),
	}
	if q.batchSize <= 0 {
		q.batchSize = 10
	}
	if q.interval <= 0 {
		q.interval = 2 * time.Second
	}
	if q.maxRetries <= 0 {
		q.maxRetries = 3
	}
	if q.concurrency <= 0 {
		q.concurrency = 1
	}
	return q
}

// enqueueAttempts bounds the insert/re-select loop in Enqueue
const enqueueAttempts = 3

// Enqueue queues an assessment. A job already pending for the same
// business and year is reused rather than duplicated; the partial unique
// index on pending jobs makes that hold under concurrent uploads.
func (q *AnalysisQueue) Enqueue(ctx context.Context, businessID int64, fiscalYear int) (*AnalysisJob, error) {
	insert := `
		INSERT INTO analysis_jobs (correlation_id, business_id, fiscal_year)
		VALUES ($3, $1, $2)
		ON CONFLICT (business_id, fiscal_year) WHERE status = 'pending' DO NOTHING
		RETURNING id, correlation_id, created_at
	`
	existing := `
		SELECT id, correlation_id, created_at
		FROM analysis_jobs
		WHERE business_id = $1 AND fiscal_year = $2 AND status = 'pending'
	`

	job := AnalysisJob{BusinessID: businessID, FiscalYear: fiscalYear, Status: StatusPending}
	for attempt := 0; attempt < enqueueAttempts; attempt++ {
		err := q.db.QueryRow(ctx, insert, businessID, fiscalYear, uuid.New()).
			Scan(&job.ID, &job.CorrelationID, &job.CreatedAt)
		if err == nil {
			q.logEnqueued(job)
			return &job, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("enqueue analysis job: %w", err)
		}

		err = q.db.QueryRow(ctx, existing, businessID, fiscalYear).
			Scan(&job.ID, &job.CorrelationID, &job.CreatedAt)
		if err == nil {
			q.logEnqueued(job)
			return &job, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("find pending analysis job: %w", err)
		}
		// the pending job was claimed between the two statements
	}
	return nil, fmt.Errorf("enqueue analysis job for business %d year %d: pending job kept changing", businessID, fiscalYear)
}

func (q *AnalysisQueue) logEnqueued(job AnalysisJob) {
	q.logger.WithFields(map[string]interface{}{
		"job_id":         job.ID,
		"correlation_id": job.CorrelationID.String(),
		"business_id":    job.BusinessID,
		"fiscal_year":    job.FiscalYear,
	}).Debug("Enqueued analysis job")
}

// Start runs the worker loop until ctx is done or Stop is called
func (q *AnalysisQueue) Start(ctx context.Context) {
	if q.runner == nil {
		q.logger.Error("Analysis queue has no runner, worker not started")
		return
	}
	q.logger.WithFields(map[string]interface{}{
		"interval":    q.interval.String(),
		"batch_size":  q.batchSize,
		"concurrency": q.concurrency,
	}).Info("Starting analysis queue worker")

	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			q.logger.Info("Analysis queue worker stopped (context cancelled)")
			return
		case <-q.stopCh:
			q.logger.Info("Analysis queue worker stopped")
			return
		case <-ticker.C:
			if _, err := q.ProcessBatch(ctx); err != nil {
				q.logger.WithError(err).Error("Failed to process analysis batch")
			}
		}
	}
}

// Stop stops the worker loop
func (q *AnalysisQueue) Stop() {
	q.stopOnce.Do(func() { close(q.stopCh) })
}

// ProcessBatch claims up to batchSize pending jobs and runs them.
// Returns the number of jobs claimed.
func (q *AnalysisQueue) ProcessBatch(ctx context.Context) (int, error) {
	jobs, err := q.claim(ctx)
	if err != nil {
		return 0, err
	}
	if len(jobs) == 0 {
		return 0, nil
	}

	sem := make(chan struct{}, q.concurrency)
	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(job AnalysisJob) {
			defer wg.Done()
			defer func() { <-sem }()
			q.runJob(ctx, job)
		}(job)
	}
	wg.Wait()

	q.logger.WithField("count", len(jobs)).Debug("Processed analysis batch")
	return len(jobs), nil
}

// claim moves pending jobs to processing. SKIP LOCKED lets several
// workers poll the same table.
func (q *AnalysisQueue) claim(ctx context.Context) ([]AnalysisJob, error) {
	query := `
		UPDATE analysis_jobs SET status = 'processing', updated_at = NOW()
		WHERE id IN (
			SELECT id FROM analysis_jobs
			WHERE status = 'pending'
			ORDER BY created_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, correlation_id, business_id, fiscal_year, retries, created_at
	`

	rows, err := q.db.Query(ctx, query, q.batchSize)
	if err != nil {
		return nil, fmt.Errorf("claim pending jobs: %w", err)
	}
	defer rows.Close()

	var jobs []AnalysisJob
	for rows.Next() {
		job := AnalysisJob{Status: StatusProcessing}
		if err := rows.Scan(
			&job.ID,
			&job.CorrelationID,
			&job.BusinessID,
			&job.FiscalYear,
			&job.Retries,
			&job.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return jobs, nil
}

func (q *AnalysisQueue) runJob(ctx context.Context, job AnalysisJob) {
	log := q.logger.WithFields(map[string]interface{}{
		"job_id":         job.ID,
		"correlation_id": job.CorrelationID.String(),
		"business_id":    job.BusinessID,
		"fiscal_year":    job.FiscalYear,
		"retries":        job.Retries,
	})

	a, err := q.runner.Run(ctx, job.BusinessID, job.FiscalYear)
	if err != nil {
		log.WithError(err).Error("Failed to process analysis job")
		if ferr := q.markFailure(ctx, job, err); ferr != nil {
			log.WithError(ferr).Error("Failed to record job failure")
		}
		return
	}

	if err := q.markDone(ctx, job.ID, a.ID); err != nil {
		log.WithError(err).Error("Failed to mark job done")
	}

	if q.publisher != nil {
		e := Event{
			Type:             EventAssessmentCompleted,
			CorrelationID:    job.CorrelationID.String(),
			BusinessID:       job.BusinessID,
			FiscalYear:       job.FiscalYear,
			AssessmentID:     a.ID,
			CreditScore:      a.Credit.Score,
			CreditRating:     string(a.Credit.Rating),
			CommentaryStatus: a.CommentaryStatus,
			At:               time.Now().UTC(),
		}
		if err := q.publisher.Publish(ctx, e); err != nil {
			log.WithError(err).Warn("Failed to publish assessment event")
		}
	}
	log.WithField("assessment_id", a.ID).Info("Analysis job done")
}

func (q *AnalysisQueue) markDone(ctx context.Context, jobID, assessmentID int64) error {
	query := `
		UPDATE analysis_jobs
		SET status = 'done', assessment_id = $2, last_error = NULL, updated_at = NOW()
		WHERE id = $1
	`
	_, err := q.db.Exec(ctx, query, jobID, assessmentID)
	return err
}

// markFailure returns the job to pending, or fails it once retries are used up.
// A newer pending job for the same business and year supersedes the retry.
func (q *AnalysisQueue) markFailure(ctx context.Context, job AnalysisJob, cause error) error {
	status := NextStatus(job.Retries, q.maxRetries)
	query := `
		UPDATE analysis_jobs j
		SET status = CASE
				WHEN $2::text = 'pending' AND EXISTS (
					SELECT 1 FROM analysis_jobs p
					WHERE p.business_id = j.business_id AND p.fiscal_year = j.fiscal_year
					  AND p.status = 'pending' AND p.id <> j.id
				) THEN 'failed'
				ELSE $2::text
			END,
			retries = retries + 1, last_error = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := q.db.Exec(ctx, query, job.ID, status, cause.Error())
	return err
}

// NextStatus is the status after a failed attempt given prior retries
func NextStatus(retries, maxRetries int) string {
	if retries+1 >= maxRetries {
		return StatusFailed
	}
	return StatusPending
}

// RequeueStuck returns jobs stuck in processing longer than after to pending.
// At most one job per business and year goes back; stuck jobs that already
// have a pending counterpart are failed instead.
func (q *AnalysisQueue) RequeueStuck(ctx context.Context, after time.Duration) (int64, error) {
	requeue := `
		UPDATE analysis_jobs SET status = 'pending', updated_at = NOW()
		WHERE id IN (
			SELECT DISTINCT ON (s.business_id, s.fiscal_year) s.id
			FROM analysis_jobs s
			WHERE s.status = 'processing'
			  AND s.updated_at < NOW() - make_interval(secs => $1)
			  AND NOT EXISTS (
				SELECT 1 FROM analysis_jobs p
				WHERE p.business_id = s.business_id AND p.fiscal_year = s.fiscal_year
				  AND p.status = 'pending'
			  )
			ORDER BY s.business_id, s.fiscal_year, s.id DESC
		)
	`
	tag, err := q.db.Exec(ctx, requeue, after.Seconds())
	if err != nil {
		return 0, fmt.Errorf("requeue stuck jobs: %w", err)
	}

	supersede := `
		UPDATE analysis_jobs
		SET status = 'failed', last_error = 'superseded by pending job', updated_at = NOW()
		WHERE status = 'processing' AND updated_at < NOW() - make_interval(secs => $1)
	`
	if _, err := q.db.Exec(ctx, supersede, after.Seconds()); err != nil {
		return tag.RowsAffected(), fmt.Errorf("fail superseded stuck jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Cleanup deletes finished jobs older than the given age
func (q *AnalysisQueue) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `
		DELETE FROM analysis_jobs
		WHERE status IN ('done', 'failed') AND updated_at < NOW() - make_interval(secs => $1)
	`
	tag, err := q.db.Exec(ctx, query, olderThan.Seconds())
	if err != nil {
		return 0, fmt.Errorf("cleanup jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// GetStats returns queue statistics for the last hour
func (q *AnalysisQueue) GetStats(ctx context.Context) (*QueueStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending') as pending,
			COUNT(*) FILTER (WHERE status = 'processing') as processing,
			COUNT(*) FILTER (WHERE status = 'done') as done,
			COUNT(*) FILTER (WHERE status = 'failed') as failed,
			COUNT(*) as total
		FROM analysis_jobs
		WHERE created_at > NOW() - INTERVAL '1 hour'
	`

	var stats QueueStats
	err := q.db.QueryRow(ctx, query).Scan(
		&stats.Pending,
		&stats.Processing,
		&stats.Done,
		&stats.Failed,
		&stats.Total,
	)
	if err != nil {
		return nil, fmt.Errorf("get queue stats: %w", err)
	}
	return &stats, nil
}

// QueueStats represents queue statistics
type QueueStats struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Done       int `json:"done"`
	Failed     int `json:"failed"`
	Total      int `json:"total"`
}
