// Package tokencount provides cl100k_base-compatible token counting and
// budget-string parsing (spec.md §4.3), grounded on the pack's established
// use of github.com/pkoukk/tiktoken-go for this exact encoding.
package tokencount

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts tokens with an in-memory, content-keyed memoization map.
// Scoped to one Pipeline instance, not a package global, per spec.md §9's
// "global mutable state ... scope them to one Pipeline object" guidance.
type Counter struct {
	enc   *tiktoken.Tiktoken
	mu    sync.Mutex
	cache map[string]int
}

// NewCounter builds a Counter using the cl100k_base encoding.
func NewCounter() (*Counter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load cl100k_base encoding: %w", err)
	}
	return &Counter{enc: enc, cache: make(map[string]int)}, nil
}

// Count returns the token count for text, memoized by exact text match.
func (c *Counter) Count(text string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.cache[text]; ok {
		return n
	}
	n := len(c.enc.Encode(text, nil, nil))
	c.cache[text] = n
	return n
}

// Clear releases the memoization map, required at the end of a run
// (spec.md §4.3).
func (c *Counter) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]int)
}

var budgetPattern = regexp.MustCompile(`(?i)^\d+(\.\d+)?(k|m)?$`)

// ParseBudget parses a budget string per spec.md §6's grammar
// ^\d+(\.\d+)?(k|m)?$ (case-insensitive); k = x1000, m = x1000000.
func ParseBudget(s string) (int, error) {
	s = strings.TrimSpace(s)
	if !budgetPattern.MatchString(s) {
		return 0, fmt.Errorf("malformed budget %q: expected digits optionally suffixed with k or m", s)
	}

	multiplier := 1.0
	numeric := s
	lower := strings.ToLower(s)
	switch {
	case strings.HasSuffix(lower, "k"):
		multiplier = 1000
		numeric = s[:len(s)-1]
	case strings.HasSuffix(lower, "m"):
		multiplier = 1000000
		numeric = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed budget %q: %w", s, err)
	}
	return int(value * multiplier), nil
}
