package usecase

import (
	"context"
	"strconv"
	"sync"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/model"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/repository"
)

// memJobQueue is a small in-memory job store used by unit tests.
type memJobQueue struct {
	mu   sync.Mutex
	jobs map[string]*model.CourseJob
}

func newMemJobQueue() *memJobQueue {
	return &memJobQueue{jobs: make(map[string]*model.CourseJob)}
}

func (m *memJobQueue) Enqueue(workspaceID, userID int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := strconv.FormatInt(workspaceID, 10)
	if existing, ok := m.jobs[id]; ok && !existing.Terminal() {
		return id
	}
	m.jobs[id] = &model.CourseJob{
		ID:          id,
		WorkspaceID: workspaceID,
		UserID:      userID,
		Status:      model.CourseJobStatusQueued,
	}
	return id
}

func (m *memJobQueue) Status(jobID string) *model.CourseJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil
	}
	cp := *job
	return &cp
}

// memCourseRepo holds courses and lessons keyed by id.
type memCourseRepo struct {
	mu      sync.Mutex
	courses map[int64]*model.Course
	lessons map[int64]*model.Lesson
}

func newMemCourseRepo() *memCourseRepo {
	return &memCourseRepo{
		courses: make(map[int64]*model.Course),
		lessons: make(map[int64]*model.Lesson),
	}
}

func (m *memCourseRepo) InsertCourse(ctx context.Context, tx repository.Tx, c *model.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[c.ID] = c
	return nil
}

func (m *memCourseRepo) InsertLesson(ctx context.Context, tx repository.Tx, l *model.Lesson) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lessons[l.ID] = l
	return nil
}

func (m *memCourseRepo) FindByWorkspace(ctx context.Context, tx repository.Tx, workspaceID int64) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.courses {
		if c.WorkspaceID == workspaceID {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCourseRepo) FindCourse(ctx context.Context, tx repository.Tx, courseID int64) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[courseID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *memCourseRepo) FindLesson(ctx context.Context, tx repository.Tx, lessonID int64) (*model.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lessons[lessonID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

func (m *memCourseRepo) UpdateLessonVideo(ctx context.Context, tx repository.Tx, lessonID int64, video *model.VideoMatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lessons[lessonID]
	if !ok {
		return domain.ErrNotFound
	}
	l.VideoID = &video.ID
	return nil
}

// fakeEnricher records Start calls.
type fakeEnricher struct {
	mu      sync.Mutex
	started []int64
	status  *model.EnrichmentJob
}

func (f *fakeEnricher) Start(lesson *model.Lesson, courseTitle string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, lesson.ID)
	return true
}

func (f *fakeEnricher) Status(lessonID int64) *model.EnrichmentJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeEnricher) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.started)
}

// memWorkspaceRepo implements WorkspaceContextRepository over slices.
type memWorkspaceRepo struct {
	mu       sync.Mutex
	memories []model.Memory
	messages []model.Message
	saveErr  error
}

func (m *memWorkspaceRepo) ListMemories(ctx context.Context, tx repository.Tx, workspaceID int64) ([]model.Memory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Memory(nil), m.memories...), nil
}

func (m *memWorkspaceRepo) RecentMessages(ctx context.Context, tx repository.Tx, workspaceID int64, limit int) ([]model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Message(nil), m.messages...), nil
}

func (m *memWorkspaceRepo) SaveMessage(ctx context.Context, tx repository.Tx, msg *model.Message) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memWorkspaceRepo) UpsertMemory(ctx context.Context, tx repository.Tx, mem *model.Memory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.memories {
		if m.memories[i].WorkspaceID == mem.WorkspaceID && m.memories[i].Key == mem.Key {
			m.memories[i].Value = mem.Value
			return nil
		}
	}
	m.memories = append(m.memories, *mem)
	return nil
}

// fakeInvalidator counts cache invalidations per workspace.
type fakeInvalidator struct {
	mu    sync.Mutex
	calls []int64
}

func (f *fakeInvalidator) Invalidate(workspaceID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, workspaceID)
}

func (f *fakeInvalidator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeAcquirer returns a canned transcript.
type fakeAcquirer struct {
	transcript *model.Transcript
	err        error
}

func (f *fakeAcquirer) Acquire(ctx context.Context, videoRef string) (*model.Transcript, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.transcript, nil
}
