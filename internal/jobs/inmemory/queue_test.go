package inmemory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jerusan/FinSight/internal/jobs"
)

func waitForStatus(t *testing.T, store *Store, jobID string, want jobs.JobStatus) *jobs.ExtractStatementJob {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetJob(context.Background(), jobID)
		if err == nil && job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	job, _ := store.GetJob(context.Background(), jobID)
	t.Fatalf("job never reached status %q, last seen: %+v", want, job)
	return nil
}

func TestQueueProcessesJob(t *testing.T) {
	store := NewStore()
	queue := NewQueue(4, 2, store, jobs.RetryPolicy{})
	defer queue.Close()

	var handled int32
	handler := func(ctx context.Context, job jobs.Job) error {
		atomic.AddInt32(&handled, 1)
		return nil
	}
	if err := queue.Start(context.Background(), handler); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	job := &jobs.ExtractStatementJob{DocumentID: "doc-1", GCSURI: "gs://bucket/statement.pdf"}
	if err := queue.PublishExtractStatement(context.Background(), job); err != nil {
		t.Fatalf("PublishExtractStatement returned error: %v", err)
	}
	if job.JobID == "" {
		t.Fatal("expected a job ID to be assigned")
	}

	done := waitForStatus(t, store, job.JobID, jobs.JobStatusCompleted)
	if atomic.LoadInt32(&handled) != 1 {
		t.Errorf("expected handler to run once, ran %d times", handled)
	}
	if done.StartedAt == nil || done.CompletedAt == nil {
		t.Error("expected started and completed timestamps to be set")
	}
	if done.Error != "" {
		t.Errorf("expected empty error, got %q", done.Error)
	}
}

func TestQueueRetriesPerPolicy(t *testing.T) {
	store := NewStore()
	retry := jobs.RetryPolicy{
		MaxRetries: 2,
		Backoff:    func(attempt int) time.Duration { return time.Millisecond },
	}
	queue := NewQueue(4, 1, store, retry)
	defer queue.Close()

	var attempts int32
	handler := func(ctx context.Context, job jobs.Job) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("transient failure")
		}
		return nil
	}
	if err := queue.Start(context.Background(), handler); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	job := &jobs.ExtractStatementJob{DocumentID: "doc-1", GCSURI: "gs://bucket/statement.pdf"}
	if err := queue.PublishExtractStatement(context.Background(), job); err != nil {
		t.Fatalf("PublishExtractStatement returned error: %v", err)
	}

	done := waitForStatus(t, store, job.JobID, jobs.JobStatusCompleted)
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	if done.RetryCount != 2 {
		t.Errorf("expected retry count 2, got %d", done.RetryCount)
	}
}

func TestQueueFailsAfterRetriesExhausted(t *testing.T) {
	store := NewStore()
	retry := jobs.RetryPolicy{
		MaxRetries: 1,
		Backoff:    func(attempt int) time.Duration { return time.Millisecond },
	}
	queue := NewQueue(4, 1, store, retry)
	defer queue.Close()

	handler := func(ctx context.Context, job jobs.Job) error {
		return errors.New("persistent failure")
	}
	if err := queue.Start(context.Background(), handler); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	job := &jobs.ExtractStatementJob{DocumentID: "doc-1", GCSURI: "gs://bucket/statement.pdf"}
	if err := queue.PublishExtractStatement(context.Background(), job); err != nil {
		t.Fatalf("PublishExtractStatement returned error: %v", err)
	}

	done := waitForStatus(t, store, job.JobID, jobs.JobStatusFailed)
	if done.Error != "persistent failure" {
		t.Errorf("expected error to be recorded, got %q", done.Error)
	}
	if done.RetryCount != 1 {
		t.Errorf("expected retry count 1, got %d", done.RetryCount)
	}
}

func TestQueueSkipsCancelledJob(t *testing.T) {
	store := NewStore()
	queue := NewQueue(4, 1, store, jobs.RetryPolicy{})
	defer queue.Close()

	var handled int32
	handler := func(ctx context.Context, job jobs.Job) error {
		atomic.AddInt32(&handled, 1)
		return nil
	}

	// Publish before starting workers, then cancel while still queued.
	job := &jobs.ExtractStatementJob{DocumentID: "doc-1", GCSURI: "gs://bucket/statement.pdf"}
	if err := queue.PublishExtractStatement(context.Background(), job); err != nil {
		t.Fatalf("PublishExtractStatement returned error: %v", err)
	}
	if err := store.CancelJob(context.Background(), job.JobID); err != nil {
		t.Fatalf("CancelJob returned error: %v", err)
	}

	if err := queue.Start(context.Background(), handler); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	waitForStatus(t, store, job.JobID, jobs.JobStatusCancelled)
	time.Sleep(20 * time.Millisecond)
	if atomic.LoadInt32(&handled) != 0 {
		t.Error("cancelled job must not reach the handler")
	}
}

func TestQueueExpiresPastDeadlineJob(t *testing.T) {
	store := NewStore()
	queue := NewQueue(4, 1, store, jobs.RetryPolicy{})
	defer queue.Close()

	var handled int32
	handler := func(ctx context.Context, job jobs.Job) error {
		atomic.AddInt32(&handled, 1)
		return nil
	}

	deadline := time.Now().Add(-time.Second)
	job := &jobs.ExtractStatementJob{
		DocumentID: "doc-1",
		GCSURI:     "gs://bucket/statement.pdf",
		Deadline:   &deadline,
	}
	if err := queue.PublishExtractStatement(context.Background(), job); err != nil {
		t.Fatalf("PublishExtractStatement returned error: %v", err)
	}
	if err := queue.Start(context.Background(), handler); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	done := waitForStatus(t, store, job.JobID, jobs.JobStatusExpired)
	if atomic.LoadInt32(&handled) != 0 {
		t.Error("expired job must not reach the handler")
	}
	if done.StartedAt != nil {
		t.Error("expired job must not record a start time")
	}
}

func TestQueuePublishAfterClose(t *testing.T) {
	queue := NewQueue(1, 1, NewStore(), jobs.RetryPolicy{})
	if err := queue.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	job := &jobs.ExtractStatementJob{DocumentID: "doc-1"}
	if err := queue.PublishExtractStatement(context.Background(), job); err == nil {
		t.Error("expected an error publishing to a closed queue")
	}
}
