package model

import "time"

type EnrichmentStatus string

const (
	EnrichmentStatusProcessing EnrichmentStatus = "processing"
	EnrichmentStatusCompleted  EnrichmentStatus = "completed"
	EnrichmentStatusFailed     EnrichmentStatus = "failed"
)

// EnrichmentJob is the per-lesson record guarding duplicate video lookups.
// At most one job per lesson may be processing at a time.
type EnrichmentJob struct {
	LessonID  int64            `json:"lesson_id"`
	Status    EnrichmentStatus `json:"status"`
	Error     string           `json:"error,omitempty"`
	StartedAt time.Time        `json:"started_at"`
}
