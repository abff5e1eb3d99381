package worker

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/model"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/adapter"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/repository"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/cache"
)

// memCourseRepo is a small in-memory implementation used by unit tests.
type memCourseRepo struct {
	mu      sync.Mutex
	nextID  int64
	courses map[int64]*model.Course
	lessons map[int64]*model.Lesson

	insertLessonErr error
	updateVideoErr  error
}

func newMemCourseRepo() *memCourseRepo {
	return &memCourseRepo{
		nextID:  1,
		courses: make(map[int64]*model.Course),
		lessons: make(map[int64]*model.Lesson),
	}
}

func (m *memCourseRepo) InsertCourse(ctx context.Context, tx repository.Tx, c *model.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID
	m.nextID++
	cp := *c
	cp.Lessons = nil
	m.courses[c.ID] = &cp
	return nil
}

func (m *memCourseRepo) InsertLesson(ctx context.Context, tx repository.Tx, l *model.Lesson) error {
	if m.insertLessonErr != nil {
		return m.insertLessonErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = m.nextID
	m.nextID++
	cp := *l
	m.lessons[l.ID] = &cp
	return nil
}

func (m *memCourseRepo) FindByWorkspace(ctx context.Context, tx repository.Tx, workspaceID int64) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.courses {
		if c.WorkspaceID == workspaceID {
			cp := *c
			for _, l := range m.lessons {
				if l.CourseID == c.ID {
					lcp := *l
					cp.Lessons = append(cp.Lessons, &lcp)
				}
			}
			return &cp, nil
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
	cp := *c
	return &cp, nil
}

func (m *memCourseRepo) FindLesson(ctx context.Context, tx repository.Tx, lessonID int64) (*model.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lessons[lessonID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memCourseRepo) UpdateLessonVideo(ctx context.Context, tx repository.Tx, lessonID int64, video *model.VideoMatch) error {
	if m.updateVideoErr != nil {
		return m.updateVideoErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lessons[lessonID]
	if !ok {
		return domain.ErrNotFound
	}
	l.VideoID = &video.ID
	l.VideoProviderID = &video.VideoProviderID
	l.TimeStart = video.StartTimeSeconds
	l.TimeEnd = video.EndTimeSeconds
	return nil
}

func (m *memCourseRepo) counts() (courses, lessons int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.courses), len(m.lessons)
}

// snapshot/restore emulate transactional rollback for the fake tx manager.
func (m *memCourseRepo) snapshot() (map[int64]*model.Course, map[int64]*model.Lesson, int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cs := make(map[int64]*model.Course, len(m.courses))
	for id, c := range m.courses {
		cp := *c
		cs[id] = &cp
	}
	ls := make(map[int64]*model.Lesson, len(m.lessons))
	for id, l := range m.lessons {
		cp := *l
		ls[id] = &cp
	}
	return cs, ls, m.nextID
}

func (m *memCourseRepo) restore(cs map[int64]*model.Course, ls map[int64]*model.Lesson, nextID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses = cs
	m.lessons = ls
	m.nextID = nextID
}

// fakeTxManager runs the function directly and rolls the repo back to its
// pre-transaction state on error.
type fakeTxManager struct {
	repo *memCourseRepo
}

func (f *fakeTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	cs, ls, next := f.repo.snapshot()
	if err := fn(ctx, nil); err != nil {
		f.repo.restore(cs, ls, next)
		return err
	}
	return nil
}

// fakeGenerator returns scripted responses per call.
type fakeGenerator struct {
	mu        sync.Mutex
	responses []string
	calls     int
	err       error
}

func (f *fakeGenerator) Generate(ctx context.Context, messages []adapter.Message, opts adapter.GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	resp := f.responses[len(f.responses)-1]
	if f.calls < len(f.responses) {
		resp = f.responses[f.calls]
	}
	f.calls++
	return resp, nil
}

func (f *fakeGenerator) CountTokens(messages []adapter.Message) int { return 0 }

type fakeVideoFinder struct {
	mu      sync.Mutex
	match   *model.VideoMatch
	err     error
	queries []string
}

func (f *fakeVideoFinder) FindVideo(ctx context.Context, query string) (*model.VideoMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	if f.match == nil {
		return nil, nil
	}
	cp := *f.match
	return &cp, nil
}

// memWorkspaceRepo backs the context cache in pipeline tests.
type memWorkspaceRepo struct {
	mu       sync.Mutex
	memories []model.Memory
	messages []model.Message
}

func (m *memWorkspaceRepo) ListMemories(ctx context.Context, tx repository.Tx, workspaceID int64) ([]model.Memory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Memory(nil), m.memories...), nil
}

func (m *memWorkspaceRepo) RecentMessages(ctx context.Context, tx repository.Tx, workspaceID int64, limit int) ([]model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.messages
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return append([]model.Message(nil), msgs...), nil
}

func (m *memWorkspaceRepo) SaveMessage(ctx context.Context, tx repository.Tx, msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memWorkspaceRepo) UpsertMemory(ctx context.Context, tx repository.Tx, mem *model.Memory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.memories {
		if m.memories[i].Key == mem.Key {
			m.memories[i].Value = mem.Value
			return nil
		}
	}
	m.memories = append(m.memories, *mem)
	return nil
}

func testContextCache() *cache.ContextCache {
	return cache.NewContextCache(&memWorkspaceRepo{}, 0, testLogger())
}

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
