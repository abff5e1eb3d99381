package worker

import (
	"strconv"
	"sync"
	"time"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/model"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/metrics"
)

// JobStore is the in-memory registry of course jobs plus the FIFO queue the
// worker consumes. The job ID is the workspace ID rendered as a string, so a
// workspace can never have two builds in flight.
//
// State lives only in process memory and is lost on restart by design.
type JobStore struct {
	mu    sync.Mutex
	jobs  map[string]*model.CourseJob
	queue []string

	wake chan struct{}
	now  func() time.Time
}

func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]*model.CourseJob),
		wake: make(chan struct{}, 1),
		now:  time.Now,
	}
}

// Enqueue registers a build request for the workspace. While an existing job
// for the workspace is queued or processing, the same job ID is returned and
// nothing is queued (idempotent re-submission). A terminal job is superseded
// by a fresh record under the same ID.
func (s *JobStore) Enqueue(workspaceID, userID int64) string {
	jobID := strconv.FormatInt(workspaceID, 10)

	s.mu.Lock()
	if existing, ok := s.jobs[jobID]; ok && !existing.Terminal() {
		s.mu.Unlock()
		return jobID
	}

	now := s.now()
	s.jobs[jobID] = &model.CourseJob{
		ID:          jobID,
		WorkspaceID: workspaceID,
		UserID:      userID,
		Status:      model.CourseJobStatusQueued,
		Progress:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.queue = append(s.queue, jobID)
	metrics.SetQueueDepth(len(s.queue))
	s.mu.Unlock()

	// Wake the consumer; dropped when a wake-up is already pending.
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return jobID
}

// Status returns a snapshot of the job, or nil when it does not exist.
func (s *JobStore) Status(jobID string) *model.CourseJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil
	}
	cp := *job
	return &cp
}

// UpdateProgress merges status, progress and the patch into the job record.
// A missing record is a programming-contract violation on the worker's side
// and is reported as domain.ErrNotFound.
func (s *JobStore) UpdateProgress(jobID string, status model.CourseJobStatus, progress int, patch model.ProgressPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}

	job.Status = status
	job.Progress = progress
	if patch.CurrentStep != nil {
		job.CurrentStep = *patch.CurrentStep
	}
	if patch.LessonsCompleted != nil {
		job.LessonsCompleted = *patch.LessonsCompleted
	}
	if patch.TotalLessons != nil {
		job.TotalLessons = *patch.TotalLessons
	}
	if patch.Course != nil {
		job.Course = patch.Course
	}
	if patch.Error != nil {
		job.Error = *patch.Error
	}
	if patch.CompletedAt != nil {
		job.CompletedAt = *patch.CompletedAt
	}
	job.UpdatedAt = s.now()
	return nil
}

// Dequeue pops the oldest queued job ID, if any.
func (s *JobStore) Dequeue() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return "", false
	}
	jobID := s.queue[0]
	s.queue = s.queue[1:]
	metrics.SetQueueDepth(len(s.queue))
	return jobID, true
}

// QueueLen reports the number of waiting jobs.
func (s *JobStore) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Wake exposes the enqueue notification channel for the consumer's select.
func (s *JobStore) Wake() <-chan struct{} { return s.wake }

// CleanupOldJobs drops terminal jobs created before the retention window.
// Returns the number of removed records.
func (s *JobStore) CleanupOldJobs(retention time.Duration) int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, job := range s.jobs {
		if job.Terminal() && now.Sub(job.CreatedAt) > retention {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

// Clear resets all state; test lifecycle hook.
func (s *JobStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = make(map[string]*model.CourseJob)
	s.queue = nil
}
