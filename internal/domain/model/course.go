package model

import "time"

// Course is a generated course for a workspace, assembled by the build
// pipeline from a skeleton plus per-lesson content.
type Course struct {
	ID            int64     `json:"id"`
	WorkspaceID   int64     `json:"workspace_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Difficulty    string    `json:"difficulty"`
	EstimatedTime string    `json:"estimated_time"`
	CreatedAt     time.Time `json:"created_at"`
	Lessons       []*Lesson `json:"lessons"`
}

type Lesson struct {
	ID              int64     `json:"id"`
	CourseID        int64     `json:"course_id"`
	Title           string    `json:"title"`
	TimeStart       int       `json:"time_start"`
	TimeEnd         int       `json:"time_end"`
	Objectives      []string  `json:"objectives"`
	Content         string    `json:"content"`
	VideoID         *string   `json:"video_id"`
	VideoProviderID *string   `json:"video_provider_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// HasVideo reports whether a lesson already carries video fields; lessons
// without one are candidates for background enrichment.
func (l *Lesson) HasVideo() bool {
	return l.VideoID != nil && *l.VideoID != ""
}

// Skeleton is the structured output of the first generation stage: course
// metadata plus ordered lesson stubs without full content.
type Skeleton struct {
	Course  SkeletonCourse   `json:"course"`
	Lessons []SkeletonLesson `json:"lessons"`
}

type SkeletonCourse struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Difficulty    string `json:"difficulty"`
	EstimatedTime string `json:"estimated_time"`
}

type SkeletonLesson struct {
	Title      string   `json:"title"`
	Objectives []string `json:"objectives"`
}
