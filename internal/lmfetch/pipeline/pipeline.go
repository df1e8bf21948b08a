// Package pipeline orchestrates Source -> Chunker -> Cache -> Analyzers ->
// Ranker -> Selector + Formatter (spec.md §6, SPEC_FULL.md §2). A Pipeline
// owns the two process-wide mutables spec.md §9 calls out — the
// token-count memoization map and the cache database handle — until Close;
// the token-count map is cleared at the end of every Build call.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ferg-cod3s/lmfetch/internal/embedding"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/cache"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/chunker"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/depgraph"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/embedcache"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/formatter"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/generator"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/importance"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/ranker"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/selector"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/source"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"
	"github.com/ferg-cod3s/lmfetch/internal/observability"
	"github.com/ferg-cod3s/lmfetch/internal/lmfetch/tokencount"
)

// ProgressFunc receives advisory phase-transition messages (spec.md §6,
// "Progress protocol"). Messages are advisory; semantics never depend on
// them.
type ProgressFunc func(message string)

// BuildOptions is the caller-facing request shape (spec.md §6).
type BuildOptions struct {
	Path     string
	Query    string
	Budget   string // "N[k|m]" or an integer token count
	Includes []string
	Excludes []string
	// Fast selects keyword-only ranking over the hybrid HyDE+embedding path
	// (spec.md §4.7: "two modes, selected by a boolean fast (default true)").
	// nil means "unset" and resolves to true, so the zero value of
	// BuildOptions matches the spec's default instead of silently inverting
	// it the way a plain bool's zero value would.
	Fast       *bool
	ForceLarge bool
	OnProgress ProgressFunc
}

// BuildResult is the caller-facing response shape (spec.md §6).
type BuildResult struct {
	Context        string
	Chunks         []lmfetchtypes.ScoredChunk
	Tokens         int
	FilesProcessed int
	ChunksCreated  int
}

// Config wires a Pipeline's backing services.
type Config struct {
	CacheDBPath     string // path to cache.db; ":memory:" for ephemeral
	EmbedCacheDir   string // directory for the disk embedding cache; "" disables it
	EmbeddingProvider string // name registered in the embedding registry
	EmbeddingConfig   map[string]interface{}
	GeneratorProvider string // name registered in the generator registry
	GeneratorConfig   map[string]interface{}
	Logger          *observability.Logger
}

// Pipeline owns the cache handle and token-count memoization map for the
// lifetime of the process that creates it. Build may be called repeatedly;
// each call gets a fresh session id for log correlation.
type Pipeline struct {
	cache      *cache.Cache
	counter    *tokencount.Counter
	embedder   embedding.Embedder
	generator  generator.Generator
	embedCache *embedcache.Cache
	log        *observability.Logger
}

// New constructs a Pipeline, opening the cache database and instantiating
// the configured embedding/generator providers.
func New(cfg Config) (*Pipeline, error) {
	log := cfg.Logger
	if log == nil {
		log = observability.NewLogger(observability.DefaultLoggerConfig())
	}

	dbPath := cfg.CacheDBPath
	if dbPath == "" {
		dbPath = defaultCachePath()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && dbPath != ":memory:" {
		return nil, fmt.Errorf("prepare cache directory: %w", err)
	}
	c, err := cache.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	counter, err := tokencount.NewCounter()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init token counter: %w", err)
	}

	embedProviderName := cfg.EmbeddingProvider
	if embedProviderName == "" {
		embedProviderName = "mock"
	}
	embedProvider, err := embedding.Get(embedProviderName)
	var embedder embedding.Embedder
	if err == nil {
		embedder, err = embedProvider.Create(cfg.EmbeddingConfig)
	}
	if err != nil {
		log.Warn("embedding provider unavailable, hybrid ranking degrades to keyword-only scoring", "provider", embedProviderName, "error", err)
	}

	genProviderName := cfg.GeneratorProvider
	if genProviderName == "" {
		genProviderName = "mock"
	}
	genProvider, err := generator.Get(genProviderName)
	var gen generator.Generator
	if err == nil {
		gen, err = genProvider.Create(cfg.GeneratorConfig)
	}
	if err != nil {
		log.Warn("generator provider unavailable, HyDE falls back to the raw query", "provider", genProviderName, "error", err)
	}

	return &Pipeline{
		cache:      c,
		counter:    counter,
		embedder:   embedder,
		generator:  gen,
		embedCache: embedcache.New(cfg.EmbedCacheDir),
		log:        log,
	}, nil
}

// Close releases the cache database handle.
func (p *Pipeline) Close() error {
	return p.cache.Close()
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cache", "lmfetch", "cache.db")
}

// Build runs one end-to-end retrieval (spec.md §6).
func (p *Pipeline) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	sessionID := uuid.NewString()
	ctx = context.WithValue(ctx, observability.SessionIDKey, sessionID)
	ctx = context.WithValue(ctx, observability.QueryKey, opts.Query)

	budget, err := tokencount.ParseBudget(opts.Budget)
	if err != nil {
		return nil, fmt.Errorf("invalid budget: %w", err)
	}

	root, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}
	if info, statErr := os.Stat(root); statErr != nil {
		return nil, fmt.Errorf("unreadable root directory %q: %w", root, statErr)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("root path %q is not a directory", root)
	}

	progress := opts.OnProgress
	if progress == nil {
		progress = func(string) {}
	}

	progress("Discovering files")
	src := source.NewLocal(root, source.Options{
		Includes:   opts.Includes,
		Excludes:   opts.Excludes,
		ForceLarge: opts.ForceLarge,
	}, p.log)

	files, discoverErr := drain(ctx, src, p.log)
	progress(fmt.Sprintf("Found %d files", len(files)))

	if len(files) == 0 {
		p.counter.Clear()
		return &BuildResult{Context: "", Chunks: nil, Tokens: 0, FilesProcessed: 0, ChunksCreated: 0}, discoverErr
	}

	progress("Analyzing dependencies")
	graph := depgraph.Build(files)
	allPaths := make([]string, len(files))
	for i, f := range files {
		allPaths[i] = f.RelPath
	}
	centrality := depgraph.Centrality(graph, allPaths)

	importanceMap := make(lmfetchtypes.ImportanceMap, len(files))
	for _, f := range files {
		score := importance.Score(f.RelPath, f.Language)
		cScore, hasC := centrality[f.RelPath]
		importanceMap[f.RelPath] = importance.CombinedScore(score, cScore, true, hasC)
	}

	progress("Chunking files")
	allChunks, err := p.chunkAll(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("chunk files: %w", err)
	}
	progress(fmt.Sprintf("Created %d chunks", len(allChunks)))

	fast := true
	if opts.Fast != nil {
		fast = *opts.Fast
	}

	progress("Ranking chunks")
	var scored []lmfetchtypes.ScoredChunk
	if fast {
		progress("Computing keyword scores")
		scored = ranker.NewKeyword().Rank(allChunks, opts.Query)
	} else {
		progress("Computing keyword scores")
		progress("Generating hypothetical answer")
		progress("Computing semantic similarity")
		hybrid := ranker.NewHybrid(p.embedder, p.generator, p.embedCache, importanceMap, p.log)
		scored = hybrid.Rank(ctx, allChunks, opts.Query)
		progress("Combining ranking signals")
	}

	progress("Selecting best chunks")
	selected := selector.Select(scored, budget)

	progress("Formatting context")
	formatted := formatter.Format(selected)

	tokens := 0
	for _, s := range selected {
		tokens += s.Tokens
	}

	p.counter.Clear()

	return &BuildResult{
		Context:        formatted,
		Chunks:         selected,
		Tokens:         tokens,
		FilesProcessed: len(files),
		ChunksCreated:  len(allChunks),
	}, nil
}

func drain(ctx context.Context, src source.Source, log *observability.Logger) ([]lmfetchtypes.SourceFile, error) {
	out, errs := src.Discover(ctx)
	var files []lmfetchtypes.SourceFile
	var firstErr error
	for out != nil || errs != nil {
		select {
		case f, ok := <-out:
			if !ok {
				out = nil
				continue
			}
			files = append(files, f)
		case e, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if log != nil {
				log.Debug("discovery error", "error", e)
			}
			if firstErr == nil {
				firstErr = e
			}
		}
	}
	return files, firstErr
}

// chunkerBatchSize implements spec.md §5's
// "min(20, max(5, ceil(|files|/10)))".
func chunkerBatchSize(n int) int {
	size := int(math.Ceil(float64(n) / 10.0))
	if size < 5 {
		size = 5
	}
	if size > 20 {
		size = 20
	}
	return size
}

// chunkAll chunks every file, consulting the cache first, in bounded
// parallel batches (spec.md §5, "Parallelism knobs").
func (p *Pipeline) chunkAll(ctx context.Context, files []lmfetchtypes.SourceFile) ([]lmfetchtypes.Chunk, error) {
	ck := chunker.New(p.counter)
	results := make([][]lmfetchtypes.Chunk, len(files))

	batchSize := chunkerBatchSize(len(files))
	for start := 0; start < len(files); start += batchSize {
		end := start + batchSize
		if end > len(files) {
			end = len(files)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			f := files[i]
			g.Go(func() error {
				chunks, err := p.chunkOne(gctx, ck, f)
				if err != nil {
					// Per-file errors never abort the pipeline (spec.md §7).
					if p.log != nil {
						p.log.Warn("chunking file failed, skipping", "path", f.RelPath, "error", err)
					}
					return nil
				}
				results[i] = chunks
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	var all []lmfetchtypes.Chunk
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

func (p *Pipeline) chunkOne(ctx context.Context, ck *chunker.Chunker, f lmfetchtypes.SourceFile) ([]lmfetchtypes.Chunk, error) {
	fresh, err := p.cache.HasFreshChunks(ctx, f.RelPath, f.ModTime)
	if err != nil && p.log != nil {
		p.log.Debug("cache freshness check failed, re-chunking", "path", f.RelPath, "error", err)
	}
	if fresh {
		p.log.LogCacheOp(ctx, "get", f.RelPath, true)
		chunks, err := p.cache.GetChunks(ctx, f.RelPath)
		if err == nil {
			for i := range chunks {
				chunks[i].Language = f.Language
				if chunks[i].Tokens == 0 {
					chunks[i].Tokens = p.counter.Count(chunks[i].Content)
				}
			}
			return chunks, nil
		}
		if p.log != nil {
			p.log.Debug("cache read failed, re-chunking", "path", f.RelPath, "error", err)
		}
	}
	p.log.LogCacheOp(ctx, "get", f.RelPath, false)

	start := time.Now()
	chunks := ck.Chunk(f)
	p.log.LogStage(ctx, "chunk", f.RelPath, time.Since(start))

	if err := p.cache.PutFile(ctx, f.RelPath, f.Content, f.ModTime, f.Language); err != nil && p.log != nil {
		p.log.Debug("cache write failed", "path", f.RelPath, "error", err)
	}
	if err := p.cache.PutChunks(ctx, f.RelPath, chunks); err != nil && p.log != nil {
		p.log.Debug("cache write failed", "path", f.RelPath, "error", err)
	}

	return chunks, nil
}
