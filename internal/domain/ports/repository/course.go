package repository

import (
	"context"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/model"
)

// CourseRepository persists generated courses and their lessons.
type CourseRepository interface {
	// InsertCourse stores a new course row and fills ID/CreatedAt.
	InsertCourse(ctx context.Context, tx Tx, course *model.Course) error

	// InsertLesson stores a new lesson row and fills ID/CreatedAt.
	InsertLesson(ctx context.Context, tx Tx, lesson *model.Lesson) error

	// FindByWorkspace returns the workspace's course with lessons ordered by
	// time_start, or domain.ErrNotFound.
	FindByWorkspace(ctx context.Context, tx Tx, workspaceID int64) (*model.Course, error)

	// FindCourse returns the course row without lessons, or domain.ErrNotFound.
	FindCourse(ctx context.Context, tx Tx, courseID int64) (*model.Course, error)

	// FindLesson returns one lesson or domain.ErrNotFound.
	FindLesson(ctx context.Context, tx Tx, lessonID int64) (*model.Lesson, error)

	// UpdateLessonVideo attaches video fields and the matched segment to an
	// existing lesson.
	UpdateLessonVideo(ctx context.Context, tx Tx, lessonID int64, video *model.VideoMatch) error
}
