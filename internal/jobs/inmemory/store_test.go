package inmemory

import (
	"context"
	"testing"

	"github.com/jerusan/FinSight/internal/jobs"
)

func TestStoreSaveAndGet(t *testing.T) {
	store := NewStore()

	job := &jobs.ExtractStatementJob{
		JobID:      "job-1",
		DocumentID: "doc-1",
		Status:     jobs.JobStatusSubmitted,
	}
	if err := store.SaveJob(context.Background(), job); err != nil {
		t.Fatalf("SaveJob returned error: %v", err)
	}

	got, err := store.GetJob(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("GetJob returned error: %v", err)
	}
	if got.DocumentID != "doc-1" || got.Status != jobs.JobStatusSubmitted {
		t.Errorf("unexpected job: %+v", got)
	}

	// The returned job is a copy, mutating it must not touch the store.
	got.Status = jobs.JobStatusFailed
	again, _ := store.GetJob(context.Background(), "job-1")
	if again.Status != jobs.JobStatusSubmitted {
		t.Error("mutating a returned job leaked into the store")
	}
}

func TestStoreSaveRequiresID(t *testing.T) {
	store := NewStore()
	if err := store.SaveJob(context.Background(), &jobs.ExtractStatementJob{}); err == nil {
		t.Error("expected an error saving a job without an ID")
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := NewStore()
	if _, err := store.GetJob(context.Background(), "nope"); err == nil {
		t.Error("expected an error for a missing job")
	}
}

func TestStoreListJobsFiltering(t *testing.T) {
	store := NewStore()
	seed := []*jobs.ExtractStatementJob{
		{JobID: "a", DocumentID: "doc-1", Status: jobs.JobStatusSubmitted},
		{JobID: "b", DocumentID: "doc-1", Status: jobs.JobStatusCompleted},
		{JobID: "c", DocumentID: "doc-2", Status: jobs.JobStatusCompleted},
	}
	for _, job := range seed {
		if err := store.SaveJob(context.Background(), job); err != nil {
			t.Fatalf("SaveJob returned error: %v", err)
		}
	}

	byDoc, err := store.ListJobs(context.Background(), jobs.JobFilter{DocumentID: "doc-1"})
	if err != nil {
		t.Fatalf("ListJobs returned error: %v", err)
	}
	if len(byDoc) != 2 {
		t.Errorf("expected 2 jobs for doc-1, got %d", len(byDoc))
	}

	byStatus, err := store.ListJobs(context.Background(), jobs.JobFilter{Status: jobs.JobStatusCompleted})
	if err != nil {
		t.Fatalf("ListJobs returned error: %v", err)
	}
	if len(byStatus) != 2 {
		t.Errorf("expected 2 completed jobs, got %d", len(byStatus))
	}

	limited, err := store.ListJobs(context.Background(), jobs.JobFilter{Limit: 1})
	if err != nil {
		t.Fatalf("ListJobs returned error: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 job with limit, got %d", len(limited))
	}
}

func TestStoreCancelJob(t *testing.T) {
	store := NewStore()
	job := &jobs.ExtractStatementJob{JobID: "job-1", Status: jobs.JobStatusSubmitted}
	if err := store.SaveJob(context.Background(), job); err != nil {
		t.Fatalf("SaveJob returned error: %v", err)
	}

	if err := store.CancelJob(context.Background(), "job-1"); err != nil {
		t.Fatalf("CancelJob returned error: %v", err)
	}
	got, _ := store.GetJob(context.Background(), "job-1")
	if got.Status != jobs.JobStatusCancelled {
		t.Errorf("expected cancelled, got %q", got.Status)
	}
	if got.CompletedAt == nil {
		t.Error("expected a completion timestamp on cancel")
	}
}

func TestStoreCancelTerminalJob(t *testing.T) {
	store := NewStore()
	job := &jobs.ExtractStatementJob{JobID: "job-1", Status: jobs.JobStatusCompleted}
	if err := store.SaveJob(context.Background(), job); err != nil {
		t.Fatalf("SaveJob returned error: %v", err)
	}

	if err := store.CancelJob(context.Background(), "job-1"); err == nil {
		t.Error("expected an error cancelling a completed job")
	}
}
