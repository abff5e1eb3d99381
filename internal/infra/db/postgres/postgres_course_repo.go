package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/model"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/repository"
)

var _ repository.CourseRepository = (*courseRepo)(nil)

type courseRepo struct {
	pool *pgxpool.Pool
}

func NewCourseRepo(pool *pgxpool.Pool) *courseRepo {
	return &courseRepo{pool: pool}
}

func (r *courseRepo) InsertCourse(ctx context.Context, tx repository.Tx, c *model.Course) error {
	const q = `
INSERT INTO courses (workspace_id, title, description, difficulty, estimated_time, video_url, video_provider_id)
VALUES ($1,$2,$3,$4,$5,NULL,NULL)
RETURNING id, created_at;`

	row, err := pickRow(ctx, r.pool, tx, q, c.WorkspaceID, c.Title, c.Description, c.Difficulty, c.EstimatedTime)
	if err != nil {
		return err
	}
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

func (r *courseRepo) InsertLesson(ctx context.Context, tx repository.Tx, l *model.Lesson) error {
	const q = `
INSERT INTO course_lessons (course_id, title, time_start, time_end, objectives, content, video_id, video_provider_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING id, created_at;`

	row, err := pickRow(ctx, r.pool, tx, q,
		l.CourseID, l.Title, l.TimeStart, l.TimeEnd, l.Objectives, l.Content, l.VideoID, l.VideoProviderID)
	if err != nil {
		return err
	}
	if err := row.Scan(&l.ID, &l.CreatedAt); err != nil {
		return fmt.Errorf("insert lesson: %w", err)
	}
	return nil
}

func (r *courseRepo) FindByWorkspace(ctx context.Context, tx repository.Tx, workspaceID int64) (*model.Course, error) {
	const q = `
SELECT id, workspace_id, title, description, difficulty, estimated_time, created_at
FROM courses
WHERE workspace_id = $1;`

	row, err := pickRow(ctx, r.pool, tx, q, workspaceID)
	if err != nil {
		return nil, err
	}
	var c model.Course
	if err := row.Scan(&c.ID, &c.WorkspaceID, &c.Title, &c.Description, &c.Difficulty, &c.EstimatedTime, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}

	lessons, err := r.lessonsByCourse(ctx, tx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Lessons = lessons
	return &c, nil
}

func (r *courseRepo) lessonsByCourse(ctx context.Context, tx repository.Tx, courseID int64) ([]*model.Lesson, error) {
	const q = `
SELECT id, course_id, title, time_start, time_end, objectives, content, video_id, video_provider_id, created_at
FROM course_lessons
WHERE course_id = $1
ORDER BY time_start;`

	rows, err := pickRows(ctx, r.pool, tx, q, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Lesson
	for rows.Next() {
		var l model.Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &l.TimeStart, &l.TimeEnd,
			&l.Objectives, &l.Content, &l.VideoID, &l.VideoProviderID, &l.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

func (r *courseRepo) FindCourse(ctx context.Context, tx repository.Tx, courseID int64) (*model.Course, error) {
	const q = `
SELECT id, workspace_id, title, description, difficulty, estimated_time, created_at
FROM courses
WHERE id = $1;`

	row, err := pickRow(ctx, r.pool, tx, q, courseID)
	if err != nil {
		return nil, err
	}
	var c model.Course
	if err := row.Scan(&c.ID, &c.WorkspaceID, &c.Title, &c.Description, &c.Difficulty, &c.EstimatedTime, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &c, nil
}

func (r *courseRepo) FindLesson(ctx context.Context, tx repository.Tx, lessonID int64) (*model.Lesson, error) {
	const q = `
SELECT id, course_id, title, time_start, time_end, objectives, content, video_id, video_provider_id, created_at
FROM course_lessons
WHERE id = $1;`

	row, err := pickRow(ctx, r.pool, tx, q, lessonID)
	if err != nil {
		return nil, err
	}
	var l model.Lesson
	if err := row.Scan(&l.ID, &l.CourseID, &l.Title, &l.TimeStart, &l.TimeEnd,
		&l.Objectives, &l.Content, &l.VideoID, &l.VideoProviderID, &l.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &l, nil
}

func (r *courseRepo) UpdateLessonVideo(ctx context.Context, tx repository.Tx, lessonID int64, video *model.VideoMatch) error {
	const q = `
UPDATE course_lessons
SET video_id = $1,
    video_provider_id = $2,
    time_start = $3,
    time_end = $4
WHERE id = $5;`

	cmd, err := execSQL(ctx, r.pool, tx, q,
		video.ID, video.VideoProviderID, video.StartTimeSeconds, video.EndTimeSeconds, lessonID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
