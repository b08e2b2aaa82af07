package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finhealth/internal/queue"
	"github.com/wonny/finhealth/internal/storage"
	"github.com/wonny/finhealth/pkg/logger"
)

type fakeStale struct {
	records []storage.StaleRecord
	err     error
}

func (f fakeStale) ListStale(context.Context) ([]storage.StaleRecord, error) {
	return f.records, f.err
}

type fakeQueue struct {
	enqueued  []storage.StaleRecord
	failOn    int64
	requeued  time.Duration
	retention time.Duration
}

func (f *fakeQueue) Enqueue(_ context.Context, businessID int64, fiscalYear int) (*queue.AnalysisJob, error) {
	if businessID == f.failOn {
		return nil, errors.New("queue down")
	}
	f.enqueued = append(f.enqueued, storage.StaleRecord{BusinessID: businessID, FiscalYear: fiscalYear})
	return &queue.AnalysisJob{BusinessID: businessID, FiscalYear: fiscalYear}, nil
}

func (f *fakeQueue) RequeueStuck(_ context.Context, after time.Duration) (int64, error) {
	f.requeued = after
	return 1, nil
}

func (f *fakeQueue) Cleanup(_ context.Context, olderThan time.Duration) (int64, error) {
	f.retention = olderThan
	return 4, nil
}

func TestReassessmentJob_Run(t *testing.T) {
	stale := fakeStale{records: []storage.StaleRecord{
		{BusinessID: 1, FiscalYear: 2024},
		{BusinessID: 2, FiscalYear: 2023},
	}}

	t.Run("enqueues every stale business", func(t *testing.T) {
		q := &fakeQueue{}
		job := NewReassessmentJob(stale, q, logger.Nop())
		require.NoError(t, job.Run(context.Background()))
		assert.Equal(t, stale.records, q.enqueued)
	})

	t.Run("enqueue failure aborts", func(t *testing.T) {
		q := &fakeQueue{failOn: 2}
		err := NewReassessmentJob(stale, q, logger.Nop()).Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "business 2 year 2023")
		assert.Len(t, q.enqueued, 1)
	})

	t.Run("list failure", func(t *testing.T) {
		q := &fakeQueue{}
		err := NewReassessmentJob(fakeStale{err: errors.New("db down")}, q, logger.Nop()).Run(context.Background())
		assert.ErrorContains(t, err, "db down")
		assert.Empty(t, q.enqueued)
	})
}

func TestQueueCleanupJob_Run(t *testing.T) {
	q := &fakeQueue{}
	job := NewQueueCleanupJob(q, logger.Nop()).WithRetention(48 * time.Hour)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 15*time.Minute, q.requeued)
	assert.Equal(t, 48*time.Hour, q.retention)
	assert.Equal(t, "queue_cleanup", job.Name())
}
