package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/dgallion1/stylechunk/internal/chunker"
	"github.com/dgallion1/stylechunk/internal/parser"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8090"`

	// Auth
	APIKey string `env:"STYLECHUNK_API_KEY"`

	// Pathstore sink; disabled when PathstoreURL is empty.
	PathstoreURL    string `env:"PATHSTORE_URL"`
	PathstoreAPIKey string `env:"PATHSTORE_API_KEY"`

	// Worker pool
	WorkerCount        int `env:"WORKER_COUNT" envDefault:"4"`
	MaxQueueSize       int `env:"MAX_QUEUE_SIZE" envDefault:"100"`
	MaxConcurrentStore int `env:"MAX_CONCURRENT_STORE" envDefault:"10"`

	// Upload limits
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"52428800"`

	// Scoring and chunking
	ScoreTable     string  `env:"SCORE_TABLE"`
	Cutoff         float64 `env:"CUTOFF" envDefault:"7"`
	AutoCutoff     bool    `env:"AUTO_CUTOFF" envDefault:"false"`
	CutoffQuantile float64 `env:"CUTOFF_QUANTILE" envDefault:"0.94"`
	Refine         bool    `env:"REFINE" envDefault:"true"`
	RefineMetric   string  `env:"REFINE_METRIC" envDefault:"words"`
	RefineLower    int     `env:"REFINE_LOWER" envDefault:"100"`
	RefineUpper    int     `env:"REFINE_UPPER" envDefault:"650"`

	// Job state
	JobTTL time.Duration `env:"JOB_TTL" envDefault:"1h"`

	// PDF
	PDFFallbackPdftotext bool `env:"PDF_FALLBACK_PDFTOTEXT" envDefault:"true"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentStore <= 0 {
		cfg.MaxConcurrentStore = 10
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg, nil
}

// Validate checks the chunking settings.
func (c Config) Validate() error {
	_, err := c.ChunkOptions()
	return err
}

// ValidateServer additionally checks what the HTTP service needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("STYLECHUNK_API_KEY is required")
	}
	if c.PathstoreURL != "" && c.PathstoreAPIKey == "" {
		return fmt.Errorf("PATHSTORE_API_KEY is required when PATHSTORE_URL is set")
	}
	return nil
}

// ChunkOptions builds chunker options from the configured defaults.
func (c Config) ChunkOptions() (chunker.Options, error) {
	opts := chunker.Options{
		Cutoff: chunker.FixedCutoff(c.Cutoff),
		Refine: c.Refine,
		Lower:  c.RefineLower,
		Upper:  c.RefineUpper,
	}
	if c.AutoCutoff {
		opts.Cutoff = chunker.AutoCutoff(c.CutoffQuantile)
	}
	metric, err := chunker.ParseMetric(c.RefineMetric)
	if err != nil {
		return chunker.Options{}, err
	}
	opts.Metric = metric
	if err := opts.Validate(); err != nil {
		return chunker.Options{}, err
	}
	return opts, nil
}

// ParserOptions builds parser options.
func (c Config) ParserOptions() parser.Options {
	return parser.Options{PDFFallbackPdftotext: c.PDFFallbackPdftotext}
}

// SinkEnabled reports whether chunks are forwarded to pathstore.
func (c Config) SinkEnabled() bool {
	return c.PathstoreURL != ""
}
