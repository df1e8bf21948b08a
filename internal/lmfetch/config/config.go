// Package config loads BuilderDefaults with env > file > defaults
// precedence, trimmed from the teacher's internal/config to the handful
// of settings a single-invocation retrieval run actually has (spec.md §6,
// "Persisted state"; SPEC_FULL.md §2.1).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// BuilderDefaults holds the settings a Pipeline needs that aren't part of
// a single Build call's request (spec.md §6's per-call options stay on
// pipeline.BuildOptions).
type BuilderDefaults struct {
	CacheDir          string `yaml:"cache_dir"`
	EmbeddingProvider string `yaml:"embedding_provider"`
	EmbeddingModel    string `yaml:"embedding_model"`
	EmbeddingDimensions int  `yaml:"embedding_dimensions"`
	GeneratorProvider string `yaml:"generator_provider"`
	GeneratorModel    string `yaml:"generator_model"`
	LogLevel          string `yaml:"log_level"`
	LogFormat         string `yaml:"log_format"`
	SentryEnabled     bool   `yaml:"sentry_enabled"`
	SentryDSN         string `yaml:"sentry_dsn"`
}

// Defaults returns the hardcoded fallback configuration.
func Defaults() *BuilderDefaults {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &BuilderDefaults{
		CacheDir:            filepath.Join(home, ".cache", "lmfetch"),
		EmbeddingProvider:   "mock",
		EmbeddingDimensions: 384,
		GeneratorProvider:   "mock",
		LogLevel:            "info",
		LogFormat:           "json",
	}
}

// Load builds a BuilderDefaults by starting from Defaults(), overlaying a
// YAML file if LMFETCH_CONFIG_FILE points to one, then overlaying
// environment variables — env wins over file wins over defaults, matching
// the teacher's internal/config.Load precedence.
func Load() (*BuilderDefaults, error) {
	cfg := Defaults()

	if path := os.Getenv("LMFETCH_CONFIG_FILE"); path != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config file %q: %w", path, err)
		}
		mergeNonEmpty(cfg, fileCfg)
	}

	loadEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadFile(path string) (*BuilderDefaults, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is an explicit, operator-supplied config file
	if err != nil {
		return nil, err
	}
	var cfg BuilderDefaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}

func mergeNonEmpty(dst, src *BuilderDefaults) {
	if src.CacheDir != "" {
		dst.CacheDir = src.CacheDir
	}
	if src.EmbeddingProvider != "" {
		dst.EmbeddingProvider = src.EmbeddingProvider
	}
	if src.EmbeddingModel != "" {
		dst.EmbeddingModel = src.EmbeddingModel
	}
	if src.EmbeddingDimensions != 0 {
		dst.EmbeddingDimensions = src.EmbeddingDimensions
	}
	if src.GeneratorProvider != "" {
		dst.GeneratorProvider = src.GeneratorProvider
	}
	if src.GeneratorModel != "" {
		dst.GeneratorModel = src.GeneratorModel
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.LogFormat != "" {
		dst.LogFormat = src.LogFormat
	}
	if src.SentryDSN != "" {
		dst.SentryDSN = src.SentryDSN
		dst.SentryEnabled = src.SentryEnabled
	}
}

func loadEnv(cfg *BuilderDefaults) {
	if v := os.Getenv("LMFETCH_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("LMFETCH_EMBEDDING_PROVIDER"); v != "" {
		cfg.EmbeddingProvider = v
	}
	if v := os.Getenv("LMFETCH_EMBEDDING_MODEL"); v != "" {
		cfg.EmbeddingModel = v
	}
	if v := os.Getenv("LMFETCH_EMBEDDING_DIMENSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.EmbeddingDimensions = n
		}
	}
	if v := os.Getenv("LMFETCH_GENERATOR_PROVIDER"); v != "" {
		cfg.GeneratorProvider = v
	}
	if v := os.Getenv("LMFETCH_GENERATOR_MODEL"); v != "" {
		cfg.GeneratorModel = v
	}
	if v := os.Getenv("LMFETCH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LMFETCH_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("LMFETCH_SENTRY_DSN"); v != "" {
		cfg.SentryDSN = v
		cfg.SentryEnabled = true
	}
}

// Validate checks invariants the way the teacher's Config.Validate does:
// fail fast on settings that would otherwise surface as a confusing error
// deep in the pipeline.
func (c *BuilderDefaults) Validate() error {
	if c.CacheDir == "" {
		return fmt.Errorf("cache_dir must not be empty")
	}
	if c.EmbeddingDimensions <= 0 {
		return fmt.Errorf("embedding_dimensions must be positive, got %d", c.EmbeddingDimensions)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug|info|warn|error, got %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("log_format must be one of json|text, got %q", c.LogFormat)
	}
	return nil
}
