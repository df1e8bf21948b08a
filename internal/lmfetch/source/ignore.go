package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ferg-cod3s/lmfetch/internal/security"
)

// pattern is one compiled .gitignore-style rule.
type pattern struct {
	raw      string
	negate   bool
	dirOnly  bool
	anchored bool
	glob     string
}

// patternMatcher evaluates a set of .gitignore-style rules rooted at one
// base directory. Adapted from the teacher's walker.patternMatcher.
type patternMatcher struct {
	patterns []pattern
}

func newPatternMatcher(lines []string) *patternMatcher {
	m := &patternMatcher{patterns: make([]pattern, 0, len(lines))}
	for _, p := range lines {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		pat := pattern{raw: p}
		if strings.HasPrefix(p, "!") {
			pat.negate = true
			p = p[1:]
		}
		if strings.HasSuffix(p, "/") {
			pat.dirOnly = true
			p = strings.TrimSuffix(p, "/")
		}
		if strings.HasPrefix(p, "/") {
			pat.anchored = true
			p = strings.TrimPrefix(p, "/")
		}
		pat.glob = p
		m.patterns = append(m.patterns, pat)
	}
	return m
}

// match reports whether relPath (relative to this matcher's base directory)
// should be ignored. Last matching pattern wins, matching gitignore semantics.
func (m *patternMatcher) match(relPath string, isDir bool) bool {
	ignored := false
	for _, pat := range m.patterns {
		if pat.dirOnly {
			if relPath == pat.glob && isDir {
				ignored = !pat.negate
				continue
			}
			if strings.HasPrefix(relPath, pat.glob+"/") {
				ignored = !pat.negate
				continue
			}
			if !pat.anchored {
				parts := strings.Split(relPath, "/")
				for i := range parts {
					if parts[i] != pat.glob {
						continue
					}
					if i == len(parts)-1 && isDir {
						ignored = !pat.negate
					} else if i < len(parts)-1 {
						ignored = !pat.negate
					}
				}
			}
			continue
		}
		if m.matchPattern(pat, relPath, isDir) {
			ignored = !pat.negate
		}
	}
	return ignored
}

func (m *patternMatcher) matchPattern(pat pattern, relPath string, isDir bool) bool {
	if pat.anchored {
		if matched, _ := filepath.Match(pat.glob, relPath); matched {
			return true
		}
		if isDir {
			matched, _ := filepath.Match(pat.glob, relPath+"/")
			return matched
		}
		return false
	}

	if matched, _ := filepath.Match(pat.glob, filepath.Base(relPath)); matched {
		return true
	}
	if strings.Contains(pat.glob, "/") {
		if matched, _ := filepath.Match(pat.glob, relPath); matched {
			return true
		}
	}
	parts := strings.Split(relPath, "/")
	for i := range parts {
		suffix := strings.Join(parts[i:], "/")
		if matched, _ := filepath.Match(pat.glob, suffix); matched {
			return true
		}
	}
	return false
}

// DefaultIgnorePatterns are the fixed build/cache/VCS directory and
// binary-artifact rules unioned into the root ignore set.
func DefaultIgnorePatterns() []string {
	return []string{
		".git/", ".svn/", ".hg/",
		"node_modules/", "vendor/", "target/", "build/", "dist/",
		".venv/", "venv/", "__pycache__/", ".next/", ".nuxt/",
		".cache/", ".parcel-cache/", ".pytest_cache/", ".mypy_cache/",
		".idea/", ".vscode/", ".DS_Store", "Thumbs.db",
		"*.pyc", "*.pyo", "*.class", "*.o", "*.so", "*.dylib", "*.dll", "*.exe",
	}
}

// binaryExtensions are skipped outright regardless of ignore rules.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".ico": true, ".webp": true, ".svg": true,
	".mp3": true, ".wav": true, ".flac": true, ".ogg": true,
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true,
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".7z": true, ".rar": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true, ".o": true, ".class": true,
	".ttf": true, ".otf": true, ".woff": true, ".woff2": true, ".eot": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".db": true, ".sqlite": true, ".sqlite3": true,
}

// hardSkipDirs are directory basenames never descended into.
var hardSkipDirs = map[string]bool{
	".git": true, ".svn": true, ".hg": true,
	"node_modules": true, "vendor": true, "target": true,
	"build": true, "dist": true, ".venv": true, "venv": true,
	"__pycache__": true, ".next": true, ".nuxt": true, ".cache": true,
	".parcel-cache": true, ".pytest_cache": true, ".mypy_cache": true,
	".idea": true, ".vscode": true,
}

// loadIgnoreFile reads a .gitignore-syntax file at path, returning nil (not
// an error) if it does not exist. Unreadable nested ignore files are a
// recoverable, silent failure per spec.md §7.
func loadIgnoreFile(path, basePath string) []string {
	if _, err := security.ValidatePathWithinBase(path, basePath); err != nil {
		return nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- validated above
	if err != nil {
		return nil
	}
	return strings.Split(string(data), "\n")
}

// ignoreChain accumulates matchers keyed by the directory they are rooted
// at ("" denotes the discovery root), so a nested rule at directory D only
// applies to paths under D, matched relative to D — per SPEC_FULL.md §4.1.
type ignoreChain struct {
	matchers map[string]*patternMatcher // dir (rel, "" = root) -> matcher
}

func newIgnoreChain(rootMatcher *patternMatcher) *ignoreChain {
	return &ignoreChain{matchers: map[string]*patternMatcher{"": rootMatcher}}
}

func (c *ignoreChain) addDir(relDir string, lines []string) {
	if len(lines) == 0 {
		return
	}
	c.matchers[relDir] = newPatternMatcher(lines)
}

// ignored evaluates every applicable matcher (root first, then each nested
// directory that is an ancestor of relPath) against relPath re-rooted to
// that directory.
func (c *ignoreChain) ignored(relPath string, isDir bool) bool {
	ignored := c.matchers[""].match(relPath, isDir)

	dir := ""
	parts := strings.Split(relPath, "/")
	for i := 0; i < len(parts)-1; i++ {
		if dir == "" {
			dir = parts[i]
		} else {
			dir = dir + "/" + parts[i]
		}
		m, ok := c.matchers[dir]
		if !ok {
			continue
		}
		sub := strings.TrimPrefix(relPath, dir+"/")
		if m.match(sub, isDir) {
			ignored = true
		}
	}
	return ignored
}
