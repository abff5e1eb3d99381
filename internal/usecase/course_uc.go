package usecase

import (
	"context"
	"strconv"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/model"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/repository"
)

// Compile-time check
var _ CourseUseCase = (*courseUC)(nil)

// jobQueue is the slice of the job store the use case needs.
type jobQueue interface {
	Enqueue(workspaceID, userID int64) string
	Status(jobID string) *model.CourseJob
}

// lessonEnricher triggers and reports background video enrichment.
type lessonEnricher interface {
	Start(lesson *model.Lesson, courseTitle string) bool
	Status(lessonID int64) *model.EnrichmentJob
}

type CourseUseCase interface {
	// Generate queues a course build for the workspace and returns the job
	// snapshot. Re-queueing while a build is active returns the existing job.
	Generate(ctx context.Context, workspaceID, userID int64) (*model.CourseJob, error)

	// JobStatus returns the current job snapshot for the workspace.
	JobStatus(ctx context.Context, workspaceID int64) (*model.CourseJob, error)

	// GetCourse returns the persisted course with ordered lessons.
	GetCourse(ctx context.Context, workspaceID int64) (*model.Course, error)

	// GetLesson returns one lesson; when the lesson has no video it also
	// kicks off background enrichment and reports its state.
	GetLesson(ctx context.Context, lessonID int64) (*model.Lesson, *model.EnrichmentJob, error)
}

type courseUC struct {
	jobs     jobQueue
	courses  repository.CourseRepository
	enricher lessonEnricher
}

func NewCourseUseCase(jobs jobQueue, courses repository.CourseRepository, enricher lessonEnricher) *courseUC {
	return &courseUC{jobs: jobs, courses: courses, enricher: enricher}
}

// jobIDFor maps a workspace to its job identity; jobs and workspaces share ids.
func jobIDFor(workspaceID int64) string {
	return strconv.FormatInt(workspaceID, 10)
}

func (c *courseUC) Generate(ctx context.Context, workspaceID, userID int64) (*model.CourseJob, error) {
	if workspaceID <= 0 || userID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	jobID := c.jobs.Enqueue(workspaceID, userID)
	job := c.jobs.Status(jobID)
	if job == nil {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

func (c *courseUC) JobStatus(ctx context.Context, workspaceID int64) (*model.CourseJob, error) {
	job := c.jobs.Status(jobIDFor(workspaceID))
	if job == nil {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

func (c *courseUC) GetCourse(ctx context.Context, workspaceID int64) (*model.Course, error) {
	return c.courses.FindByWorkspace(ctx, nil, workspaceID)
}

func (c *courseUC) GetLesson(ctx context.Context, lessonID int64) (*model.Lesson, *model.EnrichmentJob, error) {
	lesson, err := c.courses.FindLesson(ctx, nil, lessonID)
	if err != nil {
		return nil, nil, err
	}
	if lesson.HasVideo() {
		return lesson, nil, nil
	}

	courseTitle := ""
	if course, err := c.courses.FindCourse(ctx, nil, lesson.CourseID); err == nil {
		courseTitle = course.Title
	}
	c.enricher.Start(lesson, courseTitle)
	return lesson, c.enricher.Status(lessonID), nil
}
