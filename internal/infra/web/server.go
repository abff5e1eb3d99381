package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/redis"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/usecase"
)

type Server struct {
	courseUC    usecase.CourseUseCase
	workspaceUC usecase.WorkspaceUseCase
	auth        *AuthManager
	limiter     *redis.RateLimiter
	rateLimit   int
	rateWindow  time.Duration
	log         *zerolog.Logger
}

// NewServer wires the HTTP surface. limiter may be nil; without one the
// generate endpoint is not rate limited.
func NewServer(
	courseUC usecase.CourseUseCase,
	workspaceUC usecase.WorkspaceUseCase,
	auth *AuthManager,
	limiter *redis.RateLimiter,
	rateLimit int,
	rateWindow time.Duration,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		courseUC:    courseUC,
		workspaceUC: workspaceUC,
		auth:        auth,
		limiter:     limiter,
		rateLimit:   rateLimit,
		rateWindow:  rateWindow,
		log:         logger,
	}
}

// Routes builds the router: public health and metrics, everything else behind
// bearer auth.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.healthHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware)

		r.Route("/api/v1/workspaces/{workspaceID}", func(r chi.Router) {
			r.With(s.rateLimitGenerate).Post("/course/generate", s.generateHandler())
			r.Get("/course/status", s.jobStatusHandler())
			r.Get("/course", s.courseHandler())
			r.Post("/messages", s.messageHandler())
			r.Put("/memories/{key}", s.memoryHandler())
			r.Post("/video-transcript", s.videoTranscriptHandler())
		})

		r.Get("/api/v1/lessons/{lessonID}", s.lessonHandler())
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// rateLimitGenerate caps course-generation requests per user. Limiter errors
// fail open so a cache outage does not take the endpoint down.
func (s *Server) rateLimitGenerate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		userID := userIDFrom(r.Context())
		allowed, err := s.limiter.Allow(r.Context(), redis.GenerateKey(userID), s.rateLimit, s.rateWindow)
		if err != nil {
			s.log.Warn().Err(err).Int64("user_id", userID).Msg("rate limiter unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			writeError(w, http.StatusTooManyRequests, "Too many generation requests, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts it
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}
