// Package depgraph builds a directed import graph from discovered files via
// regex import scanning (no parser, no symbol resolution — spec.md §4.5
// Non-goal) and derives a centrality score per file.
package depgraph

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"
)

type importPattern struct {
	re       *regexp.Regexp
	refGroup int
}

var importPatternsByLanguage = map[string][]importPattern{
	"python": {
		{regexp.MustCompile(`^\s*from\s+([\.\w]+)\s+import\b`), 1},
		{regexp.MustCompile(`^\s*import\s+([\.\w]+)`), 1},
	},
	"javascript": jsImportPatterns,
	"typescript": jsImportPatterns,
	"go": {
		{regexp.MustCompile(`^\s*import\s+"([^"]+)"`), 1},
		// grouped form: import (\n\t"pkg"\n\talias "pkg"\n), one path per line.
		{regexp.MustCompile(`^\s*(?:\w+\s+)?"([^"]+)"\s*$`), 1},
	},
	"rust": {
		{regexp.MustCompile(`^\s*use\s+([\w:]+)`), 1},
		{regexp.MustCompile(`^\s*mod\s+(\w+)\s*;`), 1},
	},
	"ruby": {
		{regexp.MustCompile(`^\s*require_relative\s+['"]([^'"]+)['"]`), 1},
		{regexp.MustCompile(`^\s*require\s+['"]([^'"]+)['"]`), 1},
	},
}

var jsImportPatterns = []importPattern{
	{regexp.MustCompile(`^\s*import\s+.*\s+from\s+['"]([^'"]+)['"]`), 1},
	{regexp.MustCompile(`require\(['"]([^'"]+)['"]\)`), 1},
	{regexp.MustCompile(`import\(['"]([^'"]+)['"]\)`), 1},
}

// candidateExtensions lists fallback extensions/index files tried when
// resolving a relative import reference against the filesystem of
// discovered paths, per spec.md §4.5.
var candidateExtensions = map[string][]string{
	"python":     {".py", "/__init__.py"},
	"javascript": {".js", ".jsx", ".mjs", ".cjs", "/index.js", "/index.jsx"},
	"typescript": {".ts", ".tsx", ".js", ".jsx", "/index.ts", "/index.tsx"},
	"go":         {""},
	"rust":       {".rs", "/mod.rs"},
	"ruby":       {".rb"},
}

// Build scans files for import statements and resolves relative references
// against the set of discovered relative paths.
func Build(files []lmfetchtypes.SourceFile) *lmfetchtypes.DependencyGraph {
	graph := lmfetchtypes.NewDependencyGraph()

	known := make(map[string]bool, len(files))
	for _, f := range files {
		known[f.RelPath] = true
		graph.Imports[f.RelPath] = nil
	}

	for _, f := range files {
		patterns := importPatternsByLanguage[f.Language]
		if len(patterns) == 0 {
			continue
		}
		for _, line := range strings.Split(f.Content, "\n") {
			for _, p := range patterns {
				m := p.re.FindStringSubmatch(line)
				if m == nil {
					continue
				}
				ref := m[p.refGroup]
				if !isRelative(ref, f.Language) {
					break
				}
				resolved := resolve(f.RelPath, ref, f.Language, known)
				if resolved == "" {
					break
				}
				graph.Imports[f.RelPath] = append(graph.Imports[f.RelPath], resolved)
				graph.ImportedBy[resolved] = append(graph.ImportedBy[resolved], f.RelPath)
				break
			}
		}
	}

	return graph
}

// isRelative reports whether ref is a relative/local module reference as
// opposed to an external package (spec.md §4.5: "external ... are ignored").
func isRelative(ref, language string) bool {
	switch language {
	case "python":
		return strings.HasPrefix(ref, ".")
	case "go":
		return strings.HasPrefix(ref, ".") || strings.Contains(ref, "/")
	case "rust":
		return strings.HasPrefix(ref, "self") || strings.HasPrefix(ref, "super") || strings.HasPrefix(ref, "crate")
	default: // javascript/typescript/ruby
		return strings.HasPrefix(ref, ".") || strings.HasPrefix(ref, "/")
	}
}

func resolve(fromPath, ref, language string, known map[string]bool) string {
	dir := filepath.Dir(fromPath)
	base := filepath.ToSlash(filepath.Join(dir, strings.ReplaceAll(ref, ".", "/")))
	if language == "python" {
		// from .foo import X -> foo relative to dir; from ..foo -> parent
		trimmed := ref
		up := 0
		for strings.HasPrefix(trimmed, ".") {
			trimmed = trimmed[1:]
			up++
		}
		d := dir
		for i := 1; i < up; i++ {
			d = filepath.Dir(d)
		}
		base = filepath.ToSlash(filepath.Join(d, strings.ReplaceAll(trimmed, ".", "/")))
	}

	candidates := candidateExtensions[language]
	if len(candidates) == 0 {
		candidates = []string{""}
	}
	for _, ext := range candidates {
		candidate := base + ext
		if known[candidate] {
			return candidate
		}
	}
	if known[base] {
		return base
	}
	return ""
}
