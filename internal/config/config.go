package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type ServerConfig struct {
	Port      int    `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// Requests per window allowed on the course-generate endpoint.
	RateLimit       int           `yaml:"rate_limit"`
	RateLimitWindow time.Duration `yaml:"rate_limit_window"`
}

type AIConfig struct {
	GroqKey       string  `yaml:"groq_key"`
	GroqBaseURL   string  `yaml:"groq_base_url"`
	GeminiKey     string  `yaml:"gemini_key"`
	SkeletonModel string  `yaml:"skeleton_model"`
	LessonModel   string  `yaml:"lesson_model"`
	SkeletonTemp  float64 `yaml:"skeleton_temperature"`
	LessonTemp    float64 `yaml:"lesson_temperature"`
}

type YouTubeConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	MaxResults int    `yaml:"max_results"`
}

type WorkerConfig struct {
	// Safety-net tick for the queue consumer; enqueues also wake it directly.
	Tick time.Duration `yaml:"tick"`
	// Terminal jobs older than Retention are garbage-collected.
	Retention  time.Duration `yaml:"retention"`
	GCInterval time.Duration `yaml:"gc_interval"`
	// Fixed per-lesson time-window duration, in seconds.
	LessonDuration int `yaml:"lesson_duration"`
	// Enrichment entry removal delays.
	EnrichSuccessTTL time.Duration `yaml:"enrich_success_ttl"`
	EnrichFailureTTL time.Duration `yaml:"enrich_failure_ttl"`
}

type CacheConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type TranscriptConfig struct {
	// Directory for yt-dlp output; created on demand.
	TempDir string `yaml:"temp_dir"`
	// Binary name or path for the downloader tool.
	Tool string `yaml:"tool"`
	Lang string `yaml:"lang"`
}

type Config struct {
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	AI         AIConfig         `yaml:"ai"`
	YouTube    YouTubeConfig    `yaml:"youtube"`
	Worker     WorkerConfig     `yaml:"worker"`
	Cache      CacheConfig      `yaml:"cache"`
	Transcript TranscriptConfig `yaml:"transcript"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Runtime.Dev = dev
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills zero values with production defaults. Exported so tests
// can build configs without a YAML file.
func (cfg *Config) ApplyDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Redis.RateLimit <= 0 {
		cfg.Redis.RateLimit = 3
	}
	if cfg.Redis.RateLimitWindow <= 0 {
		cfg.Redis.RateLimitWindow = time.Minute
	}
	if cfg.AI.GroqBaseURL == "" {
		cfg.AI.GroqBaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.AI.SkeletonModel == "" {
		cfg.AI.SkeletonModel = "openai/gpt-oss-20b"
	}
	if cfg.AI.LessonModel == "" {
		cfg.AI.LessonModel = cfg.AI.SkeletonModel
	}
	if cfg.AI.SkeletonTemp == 0 {
		cfg.AI.SkeletonTemp = 0.1
	}
	if cfg.AI.LessonTemp == 0 {
		cfg.AI.LessonTemp = 0.3
	}
	if cfg.YouTube.BaseURL == "" {
		cfg.YouTube.BaseURL = "https://www.googleapis.com/youtube/v3"
	}
	if cfg.YouTube.MaxResults <= 0 {
		cfg.YouTube.MaxResults = 5
	}
	if cfg.Worker.Tick <= 0 {
		cfg.Worker.Tick = 2 * time.Second
	}
	if cfg.Worker.Retention <= 0 {
		cfg.Worker.Retention = time.Hour
	}
	if cfg.Worker.GCInterval <= 0 {
		cfg.Worker.GCInterval = 10 * time.Minute
	}
	if cfg.Worker.LessonDuration <= 0 {
		cfg.Worker.LessonDuration = 600
	}
	if cfg.Worker.EnrichSuccessTTL <= 0 {
		cfg.Worker.EnrichSuccessTTL = 5 * time.Minute
	}
	if cfg.Worker.EnrichFailureTTL <= 0 {
		cfg.Worker.EnrichFailureTTL = time.Minute
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}
	if cfg.Cache.SweepInterval <= 0 {
		cfg.Cache.SweepInterval = 5 * time.Minute
	}
	if cfg.Transcript.TempDir == "" {
		cfg.Transcript.TempDir = os.TempDir()
	}
	if cfg.Transcript.Tool == "" {
		cfg.Transcript.Tool = "yt-dlp"
	}
	if cfg.Transcript.Lang == "" {
		cfg.Transcript.Lang = "en"
	}
}
