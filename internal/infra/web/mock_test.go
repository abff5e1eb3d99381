package web

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/model"
)

type fakeCourseUC struct {
	generateFn  func(ctx context.Context, workspaceID, userID int64) (*model.CourseJob, error)
	jobStatusFn func(ctx context.Context, workspaceID int64) (*model.CourseJob, error)
	getCourseFn func(ctx context.Context, workspaceID int64) (*model.Course, error)
	getLessonFn func(ctx context.Context, lessonID int64) (*model.Lesson, *model.EnrichmentJob, error)
}

func (f *fakeCourseUC) Generate(ctx context.Context, workspaceID, userID int64) (*model.CourseJob, error) {
	return f.generateFn(ctx, workspaceID, userID)
}

func (f *fakeCourseUC) JobStatus(ctx context.Context, workspaceID int64) (*model.CourseJob, error) {
	return f.jobStatusFn(ctx, workspaceID)
}

func (f *fakeCourseUC) GetCourse(ctx context.Context, workspaceID int64) (*model.Course, error) {
	return f.getCourseFn(ctx, workspaceID)
}

func (f *fakeCourseUC) GetLesson(ctx context.Context, lessonID int64) (*model.Lesson, *model.EnrichmentJob, error) {
	return f.getLessonFn(ctx, lessonID)
}

type fakeWorkspaceUC struct {
	appendMessageFn func(ctx context.Context, workspaceID int64, role, content string) (*model.Message, error)
	upsertMemoryFn  func(ctx context.Context, workspaceID int64, key, value string) (*model.Memory, error)
	attachFn        func(ctx context.Context, workspaceID int64, videoRef string) (*model.Transcript, error)
}

func (f *fakeWorkspaceUC) AppendMessage(ctx context.Context, workspaceID int64, role, content string) (*model.Message, error) {
	return f.appendMessageFn(ctx, workspaceID, role, content)
}

func (f *fakeWorkspaceUC) UpsertMemory(ctx context.Context, workspaceID int64, key, value string) (*model.Memory, error) {
	return f.upsertMemoryFn(ctx, workspaceID, key, value)
}

func (f *fakeWorkspaceUC) AttachVideoTranscript(ctx context.Context, workspaceID int64, videoRef string) (*model.Transcript, error) {
	return f.attachFn(ctx, workspaceID, videoRef)
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
