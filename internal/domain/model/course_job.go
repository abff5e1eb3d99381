package model

import "time"

type CourseJobStatus string

const (
	CourseJobStatusQueued     CourseJobStatus = "queued"
	CourseJobStatusProcessing CourseJobStatus = "processing"
	CourseJobStatusCompleted  CourseJobStatus = "completed"
	CourseJobStatusFailed     CourseJobStatus = "failed"
)

// CourseJob tracks one course-generation attempt. The job ID equals the
// workspace ID rendered as a string, which is what enforces the
// one-active-build-per-workspace invariant.
type CourseJob struct {
	ID          string          `json:"id"`
	WorkspaceID int64           `json:"workspace_id"`
	UserID      int64           `json:"user_id"`
	Status      CourseJobStatus `json:"status"`
	Progress    int             `json:"progress"`
	CurrentStep string          `json:"current_step,omitempty"`

	LessonsCompleted int `json:"lessons_completed,omitempty"`
	TotalLessons     int `json:"total_lessons,omitempty"`

	Course *Course `json:"course,omitempty"`
	Error  string  `json:"error,omitempty"`

	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// Terminal reports whether the job has reached a final state and may be
// superseded by a fresh enqueue for the same workspace.
func (j *CourseJob) Terminal() bool {
	return j.Status == CourseJobStatusCompleted || j.Status == CourseJobStatusFailed
}

// ProgressPatch carries the optional fields merged into a job record by
// UpdateProgress. Nil pointers leave the current value untouched.
type ProgressPatch struct {
	CurrentStep      *string
	LessonsCompleted *int
	TotalLessons     *int
	Course           *Course
	Error            *string
	CompletedAt      *time.Time
}
