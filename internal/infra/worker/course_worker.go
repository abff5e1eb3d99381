package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/model"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/adapter"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/repository"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/adapters/ai"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/cache"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/metrics"
)

// Options tune the pipeline; zero values fall back to production defaults.
type Options struct {
	SkeletonModel string
	LessonModel   string
	SkeletonTemp  float64
	LessonTemp    float64
	// Fixed per-lesson time-window duration in seconds. Lesson windows are
	// assigned from a monotonically increasing accumulator, not from real
	// video length.
	LessonDuration int

	Tick       time.Duration
	Retention  time.Duration
	GCInterval time.Duration
}

func (o *Options) applyDefaults() {
	if o.SkeletonTemp == 0 {
		o.SkeletonTemp = 0.1
	}
	if o.LessonTemp == 0 {
		o.LessonTemp = 0.3
	}
	if o.LessonDuration <= 0 {
		o.LessonDuration = 600
	}
	if o.Tick <= 0 {
		o.Tick = 2 * time.Second
	}
	if o.Retention <= 0 {
		o.Retention = time.Hour
	}
	if o.GCInterval <= 0 {
		o.GCInterval = 10 * time.Minute
	}
}

// CourseWorker is the single consumer of the job queue. It drives one job at
// a time through the full generation pipeline; one job's failure never stops
// the loop.
type CourseWorker struct {
	store    *JobStore
	tm       repository.TransactionManager
	courses  repository.CourseRepository
	contexts *cache.ContextCache
	gen      adapter.TextGenerator
	videos   adapter.VideoFinder
	opts     Options
	log      *zerolog.Logger

	// busy shields pipeline execution against re-entrant scheduling even
	// though the loop is a single goroutine.
	busy atomic.Bool
}

func NewCourseWorker(
	store *JobStore,
	tm repository.TransactionManager,
	courses repository.CourseRepository,
	contexts *cache.ContextCache,
	gen adapter.TextGenerator,
	videos adapter.VideoFinder,
	opts Options,
	log *zerolog.Logger,
) *CourseWorker {
	opts.applyDefaults()
	return &CourseWorker{
		store:    store,
		tm:       tm,
		courses:  courses,
		contexts: contexts,
		gen:      gen,
		videos:   videos,
		opts:     opts,
		log:      log,
	}
}

// Start runs the consumer loop until ctx is cancelled. Enqueues wake it
// directly; a coarse ticker acts as a safety net against missed wake-ups.
// This should be run in a goroutine.
func (w *CourseWorker) Start(ctx context.Context) {
	w.log.Info().Msg("course generation worker started")

	ticker := time.NewTicker(w.opts.Tick)
	defer ticker.Stop()
	gcTicker := time.NewTicker(w.opts.GCInterval)
	defer gcTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("course generation worker stopping")
			return
		case <-w.store.Wake():
		case <-ticker.C:
		case <-gcTicker.C:
			if n := w.store.CleanupOldJobs(w.opts.Retention); n > 0 {
				w.log.Debug().Int("removed", n).Msg("job store cleanup")
			}
			continue
		}
		w.drain(ctx)
	}
}

// drain processes queued jobs back to back, bounding backlog latency to one
// pipeline duration instead of a tick interval.
func (w *CourseWorker) drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		jobID, ok := w.store.Dequeue()
		if !ok {
			return
		}
		w.processOne(ctx, jobID)
	}
}

func (w *CourseWorker) processOne(ctx context.Context, jobID string) {
	if !w.busy.CompareAndSwap(false, true) {
		// A second pipeline execution is never permitted; getting here means
		// a scheduling bug, not a user condition.
		w.log.Error().Str("job_id", jobID).Msg("pipeline re-entry blocked")
		return
	}
	defer w.busy.Store(false)

	w.log.Info().Str("job_id", jobID).Msg("processing course generation job")
	start := time.Now()

	err := w.runPipeline(ctx, jobID)
	elapsed := time.Since(start)

	if err != nil {
		w.log.Error().Err(err).Str("job_id", jobID).Msg("course generation job failed")
		metrics.IncCourseJob(string(model.CourseJobStatusFailed))
		msg := err.Error()
		if uerr := w.store.UpdateProgress(jobID, model.CourseJobStatusFailed, 0, model.ProgressPatch{Error: &msg}); uerr != nil {
			// Missing record here is a defect in the worker itself.
			w.log.Error().Err(uerr).Str("job_id", jobID).Msg("failed to record job failure")
		}
		return
	}

	metrics.IncCourseJob(string(model.CourseJobStatusCompleted))
	metrics.ObserveCourseJobDuration(elapsed.Seconds())
	w.log.Info().Str("job_id", jobID).Dur("duration", elapsed).Msg("course generation completed")
}

func (w *CourseWorker) runPipeline(ctx context.Context, jobID string) error {
	step := "Gathering context"
	if err := w.store.UpdateProgress(jobID, model.CourseJobStatusProcessing, 5, model.ProgressPatch{CurrentStep: &step}); err != nil {
		return err
	}

	job := w.store.Status(jobID)
	if job == nil {
		return domain.ErrNotFound
	}

	var course *model.Course
	err := w.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		var err error
		course, err = w.generateCourse(ctx, tx, jobID, job.WorkspaceID)
		return err
	})
	if err != nil {
		return err
	}

	step = "Course generation completed"
	now := time.Now()
	return w.store.UpdateProgress(jobID, model.CourseJobStatusCompleted, 100, model.ProgressPatch{
		CurrentStep: &step,
		Course:      course,
		CompletedAt: &now,
	})
}

// generateCourse runs stages 1-4 inside one transactional scope: a failure at
// any stage rolls back every insert so a half-built course is never visible.
func (w *CourseWorker) generateCourse(ctx context.Context, tx repository.Tx, jobID string, workspaceID int64) (*model.Course, error) {
	// STEP 1: gather context (with caching)
	wctx, err := w.contexts.Get(ctx, tx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("gather context: %w", err)
	}

	step := "Generating course skeleton"
	if err := w.store.UpdateProgress(jobID, model.CourseJobStatusProcessing, 15, model.ProgressPatch{CurrentStep: &step}); err != nil {
		return nil, err
	}

	// STEP 2: generate the course skeleton
	skeletonText, err := w.gen.Generate(ctx,
		[]adapter.Message{{Role: "system", Content: courseSkeletonPrompt(wctx.MemoryContext, wctx.ChatContext)}},
		adapter.GenerateOptions{Model: w.opts.SkeletonModel, Temperature: w.opts.SkeletonTemp, JSONMode: true})
	if err != nil {
		return nil, fmt.Errorf("generate skeleton: %w: %v", domain.ErrGenerationFailed, err)
	}

	var skeleton model.Skeleton
	if err := ai.UnwrapJSON(skeletonText, &skeleton); err != nil {
		// A parse failure is fatal to the job; the underlying error is the
		// failure reason.
		return nil, fmt.Errorf("%w: invalid skeleton JSON: %v", domain.ErrMalformedModelOutput, err)
	}

	step = "Creating course in database"
	if err := w.store.UpdateProgress(jobID, model.CourseJobStatusProcessing, 25, model.ProgressPatch{CurrentStep: &step}); err != nil {
		return nil, err
	}

	// STEP 3: insert the course row
	course := &model.Course{
		WorkspaceID:   workspaceID,
		Title:         skeleton.Course.Title,
		Description:   skeleton.Course.Description,
		Difficulty:    skeleton.Course.Difficulty,
		EstimatedTime: skeleton.Course.EstimatedTime,
	}
	if err := w.courses.InsertCourse(ctx, tx, course); err != nil {
		return nil, fmt.Errorf("insert course: %w", err)
	}

	// STEP 4: generate lessons strictly in skeleton order
	total := len(skeleton.Lessons)
	timeOffset := 0
	for i, stub := range skeleton.Lessons {
		progress := 25 + (i*70)/max(total, 1)
		step := fmt.Sprintf("Generating lesson %d/%d: %s", i+1, total, stub.Title)
		completed := i
		if err := w.store.UpdateProgress(jobID, model.CourseJobStatusProcessing, progress, model.ProgressPatch{
			CurrentStep:      &step,
			LessonsCompleted: &completed,
			TotalLessons:     &total,
		}); err != nil {
			return nil, err
		}

		lesson, err := w.generateLesson(ctx, tx, &skeleton, stub, course, wctx, timeOffset)
		if err != nil {
			return nil, err
		}
		timeOffset += w.opts.LessonDuration
		course.Lessons = append(course.Lessons, lesson)
	}

	return course, nil
}

func (w *CourseWorker) generateLesson(ctx context.Context, tx repository.Tx, skeleton *model.Skeleton, stub model.SkeletonLesson, course *model.Course, wctx cache.WorkspaceContext, timeOffset int) (*model.Lesson, error) {
	raw, err := w.gen.Generate(ctx,
		[]adapter.Message{{Role: "system", Content: lessonPrompt(
			skeleton.Course.Title, skeleton.Course.Difficulty, stub.Title,
			wctx.MemoryContext, wctx.ChatContext)}},
		adapter.GenerateOptions{Model: w.opts.LessonModel, Temperature: w.opts.LessonTemp})
	if err != nil {
		return nil, fmt.Errorf("generate lesson %q: %w: %v", stub.Title, domain.ErrGenerationFailed, err)
	}
	content := ai.UnwrapContent(raw)

	// Best-effort video match: a miss leaves the video fields null and the
	// pipeline continues.
	video, err := w.videos.FindVideo(ctx, stub.Title+" in "+skeleton.Course.Title)
	if err != nil {
		w.log.Warn().Err(err).Str("lesson", stub.Title).Msg("video lookup failed, continuing without video")
		video = nil
	}

	lesson := &model.Lesson{
		CourseID:   course.ID,
		Title:      stub.Title,
		TimeStart:  timeOffset,
		TimeEnd:    timeOffset + w.opts.LessonDuration,
		Objectives: stub.Objectives,
		Content:    content,
	}
	if video != nil {
		lesson.VideoID = &video.ID
		lesson.VideoProviderID = &video.VideoProviderID
	}

	if err := w.courses.InsertLesson(ctx, tx, lesson); err != nil {
		return nil, fmt.Errorf("insert lesson %q: %w", stub.Title, err)
	}
	return lesson, nil
}
