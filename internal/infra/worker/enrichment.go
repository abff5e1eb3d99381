package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/model"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/adapter"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/repository"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/adapters/ai"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/metrics"
)

// Enricher attaches videos to lessons that were created without one. Jobs run
// detached from the request that observed the missing video, and a per-lesson
// guard keeps concurrent reads from spawning duplicate lookups.
type Enricher struct {
	courses repository.CourseRepository
	gen     adapter.TextGenerator
	videos  adapter.VideoFinder
	log     *zerolog.Logger

	queryModel string
	queryTemp  float64
	successTTL time.Duration
	failureTTL time.Duration

	mu   sync.Mutex
	jobs map[int64]*model.EnrichmentJob

	// wg lets tests wait for detached jobs to settle.
	wg sync.WaitGroup
}

func NewEnricher(
	courses repository.CourseRepository,
	gen adapter.TextGenerator,
	videos adapter.VideoFinder,
	queryModel string,
	successTTL, failureTTL time.Duration,
	log *zerolog.Logger,
) *Enricher {
	if successTTL <= 0 {
		successTTL = 5 * time.Minute
	}
	if failureTTL <= 0 {
		failureTTL = time.Minute
	}
	return &Enricher{
		courses:    courses,
		gen:        gen,
		videos:     videos,
		log:        log,
		queryModel: queryModel,
		queryTemp:  0.1,
		successTTL: successTTL,
		failureTTL: failureTTL,
		jobs:       make(map[int64]*model.EnrichmentJob),
	}
}

// Start launches a background video lookup for the lesson unless a record
// already exists for it. A terminal record still inside its hold-off window
// blocks re-entry too, so failures retry only after the shorter failure TTL
// drops the record. It returns true when a new job was started.
func (e *Enricher) Start(lesson *model.Lesson, courseTitle string) bool {
	if lesson.HasVideo() {
		return false
	}

	e.mu.Lock()
	if _, ok := e.jobs[lesson.ID]; ok {
		e.mu.Unlock()
		metrics.IncEnrichmentSkipped()
		return false
	}
	e.jobs[lesson.ID] = &model.EnrichmentJob{
		LessonID:  lesson.ID,
		Status:    model.EnrichmentStatusProcessing,
		StartedAt: time.Now(),
	}
	e.mu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		// Detached from the triggering request on purpose: the lookup must
		// survive the reader disconnecting.
		e.run(context.Background(), lesson.ID, lesson.Title, courseTitle)
	}()
	return true
}

func (e *Enricher) run(ctx context.Context, lessonID int64, lessonTitle, courseTitle string) {
	log := e.log.With().Int64("lesson_id", lessonID).Logger()
	log.Info().Msg("starting lesson video enrichment")

	if err := e.enrich(ctx, lessonID, lessonTitle, courseTitle); err != nil {
		log.Warn().Err(err).Msg("lesson video enrichment failed")
		metrics.IncEnrichment("failed")
		e.finish(lessonID, model.EnrichmentStatusFailed, err.Error(), e.failureTTL)
		return
	}

	metrics.IncEnrichment("completed")
	e.finish(lessonID, model.EnrichmentStatusCompleted, "", e.successTTL)
	log.Info().Msg("lesson video enrichment completed")
}

func (e *Enricher) enrich(ctx context.Context, lessonID int64, lessonTitle, courseTitle string) error {
	query := lessonTitle + " " + courseTitle
	raw, err := e.gen.Generate(ctx,
		[]adapter.Message{{Role: "system", Content: videoQueryPrompt(courseTitle, lessonTitle)}},
		adapter.GenerateOptions{Model: e.queryModel, Temperature: e.queryTemp})
	if err != nil {
		// The literal query still stands a chance, so a query-generation
		// failure is not terminal.
		e.log.Warn().Err(err).Int64("lesson_id", lessonID).Msg("video query generation failed, using lesson title")
	} else if q := strings.TrimSpace(ai.Unwrap(raw)); q != "" {
		query = q
	}

	video, err := e.videos.FindVideo(ctx, query)
	if err != nil {
		return fmt.Errorf("find video: %w", err)
	}
	if video == nil {
		return fmt.Errorf("no suitable video found for %q", query)
	}

	if err := e.courses.UpdateLessonVideo(ctx, nil, lessonID, video); err != nil {
		return fmt.Errorf("update lesson video: %w", err)
	}
	return nil
}

// finish records the terminal status and schedules the record's removal so a
// later read may retry after the hold-off expires.
func (e *Enricher) finish(lessonID int64, status model.EnrichmentStatus, errMsg string, ttl time.Duration) {
	e.mu.Lock()
	if job, ok := e.jobs[lessonID]; ok {
		job.Status = status
		job.Error = errMsg
	}
	e.mu.Unlock()

	time.AfterFunc(ttl, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if job, ok := e.jobs[lessonID]; ok && job.Status == status {
			delete(e.jobs, lessonID)
		}
	})
}

// IsProcessing reports whether an enrichment job for the lesson is in flight.
func (e *Enricher) IsProcessing(lessonID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	job, ok := e.jobs[lessonID]
	return ok && job.Status == model.EnrichmentStatusProcessing
}

// Status returns a snapshot of the lesson's enrichment record, or nil.
func (e *Enricher) Status(lessonID int64) *model.EnrichmentJob {
	e.mu.Lock()
	defer e.mu.Unlock()
	job, ok := e.jobs[lessonID]
	if !ok {
		return nil
	}
	cp := *job
	return &cp
}

// Wait blocks until all in-flight enrichment jobs return.
func (e *Enricher) Wait() { e.wg.Wait() }
