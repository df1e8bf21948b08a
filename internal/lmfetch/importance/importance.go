// Package importance computes the static, query-independent importance
// prior for a discovered file from path heuristics (spec.md §4.6).
package importance

import (
	"path/filepath"
	"regexp"
	"strings"
)

var entryPointNames = regexp.MustCompile(`(?i)^(index|main|cli|app|server)\.[^.]+$|^__init__\.py$|^mod\.rs$|^lib\.rs$|^(package\.json|cargo\.toml|go\.mod|setup\.py|pyproject\.toml)$`)

var boostDirs = map[string]bool{
	"src": true, "lib": true, "core": true, "api": true, "routes": true,
	"controllers": true, "services": true, "models": true, "components": true,
	"hooks": true, "utils": true, "helpers": true,
}

var penaltyDirs = map[string]bool{
	"test": true, "tests": true, "__tests__": true, "spec": true, "specs": true,
	"e2e": true, "fixtures": true, "mocks": true, "stubs": true, "examples": true,
	"docs": true, "scripts": true, "tools": true, "config": true, "configs": true,
}

var penaltyPathPatterns = []string{
	"*.test.*", "*.spec.*", "*_test.*", "*_spec.*", "*.d.ts", "*.config.*", "*.mock.*",
}

// Score computes the importance prior in [0,1] for relPath with language
// lang, per spec.md §4.6.
func Score(relPath, lang string) float64 {
	score := 0.5

	base := filepath.Base(relPath)
	if entryPointNames.MatchString(base) {
		score += 0.3
	}

	dirs := strings.Split(filepath.Dir(relPath), "/")

	boosted := false
	penalized := false
	for _, d := range dirs {
		if !boosted && boostDirs[d] {
			score += 0.1
			boosted = true
		}
		if !penalized && penaltyDirs[d] {
			score -= 0.2
			penalized = true
		}
	}

	for _, p := range penaltyPathPatterns {
		if matched, _ := filepath.Match(p, base); matched {
			score -= 0.15
			break
		}
	}

	depth := 0
	if filepath.Dir(relPath) != "." {
		depth = len(dirs)
	}
	if depth > 3 {
		score -= 0.05 * float64(depth-3)
	} else if depth == 0 {
		score += 0.1
	}

	switch lang {
	case "markdown":
		score -= 0.1
	case "json", "yaml":
		score -= 0.05
	}

	return clamp(score)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// CombinedScore returns 0.6*importance + 0.4*centrality, defaulting missing
// values to 0.5 (spec.md §4.6).
func CombinedScore(importanceScore, centralityScore float64, hasImportance, hasCentrality bool) float64 {
	if !hasImportance {
		importanceScore = 0.5
	}
	if !hasCentrality {
		centralityScore = 0.5
	}
	return 0.6*importanceScore + 0.4*centralityScore
}
