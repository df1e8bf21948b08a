// Package source discovers SourceFiles under a root directory, honoring a
// fixed hard-skip set, binary-extension filtering, root + nested ignore
// rules, include globs, and size/line-count caps.
package source

import (
	"context"

	"github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"
)

// Source yields a lazy stream of discovered files. Implementations must
// never block the caller indefinitely; files that cannot be read are
// skipped without an error, and the error channel carries only a failure
// of the walk itself, such as a bad root or context cancellation.
type Source interface {
	Discover(ctx context.Context) (<-chan lmfetchtypes.SourceFile, <-chan error)
}

// Options configures a Source's filter pipeline.
type Options struct {
	Includes   []string // glob patterns; if non-empty, a path must match at least one
	Excludes   []string // extra user-supplied exclude globs, unioned into the root ignore set
	ForceLarge bool      // bypass the size/line-count caps
}

const (
	maxFileSizeBytes = 1 << 20 // 1 MiB
	maxFileLines      = 20000
)

var languageByExt = map[string]string{
	".py": "python", ".pyi": "python",
	".js": "javascript", ".mjs": "javascript", ".cjs": "javascript",
	".jsx": "javascript", ".ts": "typescript", ".tsx": "typescript",
	".go": "go", ".rs": "rust",
	".rb": "ruby", ".php": "php",
	".java": "java", ".kt": "kotlin", ".kts": "kotlin", ".scala": "scala",
	".swift": "swift", ".cs": "csharp",
	".c": "c", ".h": "c", ".cpp": "cpp", ".cc": "cpp", ".cxx": "cpp", ".hpp": "cpp", ".hh": "cpp",
	".md": "markdown", ".mdx": "markdown",
	".json": "json", ".yaml": "yaml", ".yml": "yaml",
	".sh": "shell", ".bash": "shell",
	".sql": "sql", ".html": "html", ".css": "css", ".scss": "css",
}

// languageForPath derives the language tag from the path's final extension.
// Unknown extensions map to "text" (spec.md §4.1).
func languageForPath(ext string) string {
	if lang, ok := languageByExt[ext]; ok {
		return lang
	}
	return "text"
}
