package worker

import (
	"errors"
	"testing"
	"time"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/model"
)

func TestJobStore_EnqueueIdempotentWhileActive(t *testing.T) {
	t.Parallel()

	s := NewJobStore()
	id1 := s.Enqueue(42, 7)
	id2 := s.Enqueue(42, 7)

	if id1 != "42" || id2 != "42" {
		t.Fatalf("expected job id 42, got %q and %q", id1, id2)
	}
	if got := s.QueueLen(); got != 1 {
		t.Fatalf("expected 1 queued job, got %d", got)
	}

	// Still idempotent once the worker picks it up.
	if err := s.UpdateProgress("42", model.CourseJobStatusProcessing, 5, model.ProgressPatch{}); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	s.Enqueue(42, 7)
	if got := s.QueueLen(); got != 1 {
		t.Fatalf("expected no re-queue while processing, got %d", got)
	}
}

func TestJobStore_TerminalJobSuperseded(t *testing.T) {
	t.Parallel()

	s := NewJobStore()
	s.Enqueue(42, 7)
	if _, ok := s.Dequeue(); !ok {
		t.Fatalf("expected a queued job")
	}

	msg := "model exploded"
	if err := s.UpdateProgress("42", model.CourseJobStatusFailed, 0, model.ProgressPatch{Error: &msg}); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	s.Enqueue(42, 7)
	job := s.Status("42")
	if job == nil {
		t.Fatalf("expected job after re-enqueue")
	}
	if job.Status != model.CourseJobStatusQueued {
		t.Fatalf("expected fresh queued job, got %s", job.Status)
	}
	if job.Error != "" {
		t.Fatalf("expected error cleared on fresh record, got %q", job.Error)
	}
	if got := s.QueueLen(); got != 1 {
		t.Fatalf("expected 1 queued job, got %d", got)
	}
}

func TestJobStore_UpdateProgressMissingJob(t *testing.T) {
	t.Parallel()

	s := NewJobStore()
	err := s.UpdateProgress("99", model.CourseJobStatusProcessing, 5, model.ProgressPatch{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJobStore_StatusReturnsSnapshot(t *testing.T) {
	t.Parallel()

	s := NewJobStore()
	s.Enqueue(1, 2)

	snap := s.Status("1")
	snap.Progress = 99

	if got := s.Status("1").Progress; got != 0 {
		t.Fatalf("mutating a snapshot leaked into the store: progress=%d", got)
	}
}

func TestJobStore_WakeSignalOnEnqueue(t *testing.T) {
	t.Parallel()

	s := NewJobStore()
	s.Enqueue(1, 1)
	s.Enqueue(2, 1) // second wake is dropped, not blocked

	select {
	case <-s.Wake():
	default:
		t.Fatalf("expected a pending wake-up after enqueue")
	}
	select {
	case <-s.Wake():
		t.Fatalf("expected at most one buffered wake-up")
	default:
	}
}

func TestJobStore_CleanupOldJobs(t *testing.T) {
	t.Parallel()

	s := NewJobStore()
	base := time.Now()
	s.now = func() time.Time { return base }

	s.Enqueue(1, 1) // stays queued, never collected
	s.Enqueue(2, 1)
	if err := s.UpdateProgress("2", model.CourseJobStatusCompleted, 100, model.ProgressPatch{}); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	if removed := s.CleanupOldJobs(time.Hour); removed != 1 {
		t.Fatalf("expected 1 removed job, got %d", removed)
	}
	if s.Status("2") != nil {
		t.Fatalf("expected terminal job to be collected")
	}
	if s.Status("1") == nil {
		t.Fatalf("active job must survive cleanup")
	}
}
