// Command lmfetch builds a token-budgeted Markdown context document from a
// codebase for a given query (spec.md §6). Thin flag-based CLI — no cobra,
// matching the teacher's own cmd/conexus/main.go, which doesn't reach for a
// CLI framework either.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/config"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/pipeline"
	"github.com/ferg-cod3s/lmfetch/internal/observability"
)

const version = "0.1.0"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		root       = flag.String("root", ".", "root directory to search")
		query      = flag.String("query", "", "natural-language query describing what to retrieve")
		budget     = flag.String("budget", "50k", `token budget, e.g. "50000", "50k", "1.5m"`)
		includes   stringList
		excludes   stringList
		fast       = flag.Bool("fast", true, "keyword-only ranking, skips HyDE and embedding calls (set -fast=false for hybrid ranking)")
		forceLarge = flag.Bool("force-large", false, "bypass per-file size/line-count caps")
		showVer    = flag.Bool("version", false, "print version and exit")
	)
	flag.Var(&includes, "include", "glob pattern to include (repeatable)")
	flag.Var(&excludes, "exclude", "glob pattern to exclude (repeatable)")
	flag.Parse()

	if *showVer {
		fmt.Println("lmfetch " + version)
		return 0
	}

	if *query == "" {
		fmt.Fprintln(os.Stderr, "lmfetch: -query is required")
		return 1
	}

	defaults, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "lmfetch: %v\n", err)
		return 1
	}

	log := observability.NewLogger(observability.LoggerConfig{
		Level:         defaults.LogLevel,
		Format:        defaults.LogFormat,
		Output:        os.Stderr,
		AddSource:     false,
		SentryEnabled: defaults.SentryEnabled,
	})

	p, err := pipeline.New(pipeline.Config{
		CacheDBPath:       filepath.Join(defaults.CacheDir, "cache.db"),
		EmbedCacheDir:     filepath.Join(defaults.CacheDir, "embeddings"),
		EmbeddingProvider: defaults.EmbeddingProvider,
		EmbeddingConfig: map[string]interface{}{
			"dimensions": defaults.EmbeddingDimensions,
			"model":      defaults.EmbeddingModel,
		},
		GeneratorProvider: defaults.GeneratorProvider,
		GeneratorConfig: map[string]interface{}{
			"model": defaults.GeneratorModel,
		},
		Logger: log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "lmfetch: %v\n", err)
		return 1
	}
	defer p.Close()

	result, err := p.Build(context.Background(), pipeline.BuildOptions{
		Path:       *root,
		Query:      *query,
		Budget:     *budget,
		Includes:   includes,
		Excludes:   excludes,
		Fast:       fast,
		ForceLarge: *forceLarge,
		OnProgress: func(msg string) {
			fmt.Fprintln(os.Stderr, "lmfetch:", msg)
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "lmfetch: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stderr, "lmfetch: %d files processed, %d chunks created, %d tokens selected\n",
		result.FilesProcessed, result.ChunksCreated, result.Tokens)
	fmt.Print(result.Context)
	return 0
}

// stringList implements flag.Value for repeatable -include/-exclude flags.
type stringList []string

func (s *stringList) String() string {
	if s == nil {
		return ""
	}
	return fmt.Sprint([]string(*s))
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}
