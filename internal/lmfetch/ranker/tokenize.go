package ranker

import (
	"regexp"
	"strings"
)

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)
var nonWord = regexp.MustCompile(`[^\w]+`)

// splitWords splits camelCase into words, replaces _/- with spaces,
// lowercases, and splits on non-word characters.
func splitWords(s string) []string {
	s = camelBoundary.ReplaceAllString(s, "$1 $2")
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ToLower(s)
	parts := nonWord.Split(s, -1)
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}

// tokenize applies the full pipeline: split, drop short tokens, drop
// stopwords, stem (spec.md §4.7.1, "Tokenize the query").
func tokenize(s string, dropStopwords bool) []string {
	words := splitWords(s)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) <= 1 {
			continue
		}
		if dropStopwords && stopwords[w] {
			continue
		}
		tokens = append(tokens, stem(w))
	}
	return tokens
}

var dotTermPattern = regexp.MustCompile(`\.(\w+)`)
var quotedPattern = regexp.MustCompile(`['"]([^'"]+)['"]`)

// importantTerms extracts the suffixes of ".<word>" occurrences and the
// contents of quoted substrings from the raw query (spec.md §4.7.1).
func importantTerms(query string) map[string]bool {
	terms := make(map[string]bool)
	for _, m := range dotTermPattern.FindAllStringSubmatch(query, -1) {
		terms[strings.ToLower(m[1])] = true
	}
	for _, m := range quotedPattern.FindAllStringSubmatch(query, -1) {
		for _, w := range splitWords(m[1]) {
			terms[w] = true
		}
	}
	return terms
}
