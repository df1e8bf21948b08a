package source

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"
	"github.com/ferg-cod3s/lmfetch/internal/observability"
)

// LocalSource discovers files under a local directory root.
type LocalSource struct {
	root string
	opts Options
	log  *observability.Logger
}

// NewLocal creates a LocalSource rooted at root.
func NewLocal(root string, opts Options, log *observability.Logger) *LocalSource {
	return &LocalSource{root: root, opts: opts, log: log}
}

// Discover implements Source. It walks the tree once, applying the filter
// pipeline from spec.md §4.1 in order, and streams passing files.
func (s *LocalSource) Discover(ctx context.Context) (<-chan lmfetchtypes.SourceFile, <-chan error) {
	out := make(chan lmfetchtypes.SourceFile)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		root, err := filepath.Abs(s.root)
		if err != nil {
			errs <- err
			return
		}

		rootLines := append([]string{}, DefaultIgnorePatterns()...)
		rootLines = append(rootLines, s.opts.Excludes...)
		rootLines = append(rootLines, loadIgnoreFile(filepath.Join(root, ".gitignore"), root)...)
		rootLines = append(rootLines, loadIgnoreFile(filepath.Join(root, ".lmfetchignore"), root)...)
		chain := newIgnoreChain(newPatternMatcher(rootLines))

		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err != nil {
				// unreadable directory entry: recoverable, silent (spec.md §7)
				return nil
			}

			relPath, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return nil
			}
			relPath = filepath.ToSlash(relPath)
			if relPath == "." {
				relPath = ""
			}

			if d.IsDir() {
				if relPath == "" {
					return nil
				}
				base := filepath.Base(path)
				if hardSkipDirs[base] {
					return filepath.SkipDir
				}
				for _, name := range []string{".gitignore", ".lmfetchignore"} {
					if lines := loadIgnoreFile(filepath.Join(path, name), root); lines != nil {
						chain.addDir(relPath, lines)
					}
				}
				if chain.ignored(relPath, true) {
					return filepath.SkipDir
				}
				return nil
			}

			if relPath == "" {
				return nil
			}
			if base := filepath.Base(path); base == ".gitignore" || base == ".lmfetchignore" {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(relPath))
			if binaryExtensions[ext] {
				return nil
			}
			if chain.ignored(relPath, false) {
				return nil
			}
			if len(s.opts.Includes) > 0 && !matchesAny(s.opts.Includes, relPath) {
				return nil
			}

			info, infoErr := d.Info()
			if infoErr != nil {
				return nil
			}

			if !s.opts.ForceLarge && info.Size() > maxFileSizeBytes {
				return nil
			}

			data, readErr := os.ReadFile(path) // #nosec G304 -- path produced by WalkDir under root
			if readErr != nil {
				if s.log != nil {
					s.log.Debug("skipping unreadable file", "path", relPath, "error", readErr)
				}
				return nil
			}
			content := string(data)
			if !s.opts.ForceLarge && lineCount(content) > maxFileLines {
				return nil
			}

			file := lmfetchtypes.SourceFile{
				AbsPath:  path,
				RelPath:  relPath,
				Content:  content,
				Language: languageForPath(ext),
				Size:     info.Size(),
				ModTime:  info.ModTime(),
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
		if walkErr != nil && walkErr != filepath.SkipDir {
			errs <- walkErr
		}
	}()

	return out, errs
}

func matchesAny(globs []string, relPath string) bool {
	for _, g := range globs {
		if matched, _ := filepath.Match(g, relPath); matched {
			return true
		}
		if matched, _ := filepath.Match(g, filepath.Base(relPath)); matched {
			return true
		}
	}
	return false
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
