// Package formatter renders selected chunks as Markdown (spec.md §4.9).
package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"
)

// Format groups chunks by relative path, preserving the first-seen order
// of paths, sorts each file's chunks by ascending startLine, and renders
// a Markdown document.
func Format(chunks []lmfetchtypes.ScoredChunk) string {
	var order []string
	byPath := make(map[string][]lmfetchtypes.ScoredChunk)

	for _, c := range chunks {
		if _, ok := byPath[c.FilePath]; !ok {
			order = append(order, c.FilePath)
		}
		byPath[c.FilePath] = append(byPath[c.FilePath], c)
	}

	var sb strings.Builder
	for _, path := range order {
		group := byPath[path]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].StartLine < group[j].StartLine
		})

		sb.WriteString("## ")
		sb.WriteString(path)
		sb.WriteString("\n\n")

		for _, c := range group {
			sb.WriteString(heading(c))
			sb.WriteString("\n```")
			sb.WriteString(c.Language)
			sb.WriteString("\n")
			sb.WriteString(c.Content)
			if !strings.HasSuffix(c.Content, "\n") {
				sb.WriteString("\n")
			}
			sb.WriteString("```\n\n")
		}
	}

	return sb.String()
}

func heading(c lmfetchtypes.ScoredChunk) string {
	var lines string
	if c.StartLine == c.EndLine {
		lines = fmt.Sprintf("Line %d", c.StartLine)
	} else {
		lines = fmt.Sprintf("Lines %d-%d", c.StartLine, c.EndLine)
	}

	if c.Name == "" {
		return fmt.Sprintf("### %s\n", lines)
	}
	return fmt.Sprintf("### %s (%s: %s)\n", lines, c.Kind, c.Name)
}
