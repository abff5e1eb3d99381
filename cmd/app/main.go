package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/config"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/adapter"
	aiAdapters "github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/adapters/ai"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/adapters/youtube"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/adapters/ytdlp"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/cache"
	pg "github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/db/postgres"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/logging"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/metrics"
	red "github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/redis"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/transcript"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/web"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/worker"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (canned AI responses, no external keys needed)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pool.Close()

	// ---- Redis (optional; generate endpoint runs unlimited without it) ----
	var limiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Warn().Msg("redis not configured, rate limiting disabled")
	}

	// ---- Repositories ----
	tm := pg.NewTxManager(pool)
	courseRepo := pg.NewCourseRepo(pool)
	workspaceRepo := pg.NewWorkspaceContextRepo(pool)

	// ---- AI adapters ----
	var gen adapter.TextGenerator
	if cfg.Runtime.Dev && cfg.AI.GroqKey == "" {
		gen = &aiAdapters.NoopGenerator{}
		logger.Warn().Msg("no AI key configured, using canned responses")
	} else {
		gen, err = aiAdapters.NewGroqAdapter(cfg.AI.GroqKey, cfg.AI.GroqBaseURL, cfg.AI.SkeletonModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("groq adapter init failed")
		}
	}

	var transcriber adapter.AudioTranscriber
	if cfg.AI.GeminiKey != "" {
		transcriber, err = aiAdapters.NewGeminiTranscriber(ctx, cfg.AI.GeminiKey, "")
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini transcriber init failed")
		}
	} else {
		logger.Warn().Msg("gemini key not configured, audio transcription fallback disabled")
	}

	videos := youtube.NewClient(cfg.YouTube.APIKey, cfg.YouTube.BaseURL, cfg.YouTube.MaxResults, logger)
	mediaTool := ytdlp.New(cfg.Transcript.Tool, cfg.Transcript.TempDir, cfg.Transcript.Lang, logger)
	transcripts := transcript.NewAcquirer(mediaTool, transcriber, cfg.Transcript.TempDir, cfg.Transcript.Lang, logger)

	// ---- Context cache ----
	contexts := cache.NewContextCache(workspaceRepo, cfg.Cache.TTL, logger)
	contexts.StartSweeper(cfg.Cache.SweepInterval)
	defer contexts.Stop()

	// ---- Workers ----
	jobs := worker.NewJobStore()
	courseWorker := worker.NewCourseWorker(jobs, tm, courseRepo, contexts, gen, videos, worker.Options{
		SkeletonModel:  cfg.AI.SkeletonModel,
		LessonModel:    cfg.AI.LessonModel,
		SkeletonTemp:   cfg.AI.SkeletonTemp,
		LessonTemp:     cfg.AI.LessonTemp,
		LessonDuration: cfg.Worker.LessonDuration,
		Tick:           cfg.Worker.Tick,
		Retention:      cfg.Worker.Retention,
		GCInterval:     cfg.Worker.GCInterval,
	}, logger)
	go courseWorker.Start(ctx)

	enricher := worker.NewEnricher(courseRepo, gen, videos,
		cfg.AI.SkeletonModel, cfg.Worker.EnrichSuccessTTL, cfg.Worker.EnrichFailureTTL, logger)

	// ---- Use cases ----
	courseUC := usecase.NewCourseUseCase(jobs, courseRepo, enricher)
	workspaceUC := usecase.NewWorkspaceUseCase(workspaceRepo, contexts, transcripts)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Server.JWTSecret)
	srv := web.NewServer(courseUC, workspaceUC, auth, limiter,
		cfg.Redis.RateLimit, cfg.Redis.RateLimitWindow, logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.Server.Port))
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
		cancel()
		if err := <-serverErr; err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server shutdown")
		}
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}
}
