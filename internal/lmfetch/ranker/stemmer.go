package ranker

import "strings"

// stemRules are tried in order; the first matching suffix rewrite wins
// (spec.md §4.7.1, "Stemmer"). Refuses to shorten a word below length 3.
var stemRules = []struct {
	suffix      string
	replacement string
}{
	{"tion", "t"},
	{"sion", "s"},
	{"ies", "y"},
	{"ied", "y"},
	{"ation", ""},
	{"ement", ""},
	{"ment", ""},
	{"ing", ""},
	{"ed", ""},
	{"es", ""},
	{"er", ""},
	{"ly", ""},
	{"e", ""},
	{"s", ""},
}

// stem applies the greedy suffix-rewrite stemmer. Words shorter than 4
// characters are returned unchanged.
func stem(word string) string {
	if len(word) < 4 {
		return word
	}
	for _, rule := range stemRules {
		if !strings.HasSuffix(word, rule.suffix) {
			continue
		}
		stemmed := word[:len(word)-len(rule.suffix)] + rule.replacement
		if len(stemmed) < 3 {
			continue
		}
		return stemmed
	}
	return word
}
