package ranker

// stopwords combines standard English stopwords with domain-generic query
// words (spec.md §4.7.1).
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"is": true, "are": true, "was": true, "were": true, "be": true, "been": true,
	"being": true, "have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "can": true, "this": true, "that": true,
	"these": true, "those": true, "to": true, "of": true, "in": true, "on": true,
	"at": true, "by": true, "for": true, "with": true, "about": true, "as": true,
	"into": true, "like": true, "through": true, "after": true, "over": true,
	"between": true, "out": true, "against": true, "during": true, "without": true,
	"before": true, "under": true, "around": true, "among": true, "it": true,
	"its": true, "i": true, "you": true, "he": true, "she": true, "we": true,
	"they": true, "what": true, "which": true, "who": true, "whom": true,
	"how": true, "why": true, "when": true, "where": true, "all": true,
	"any": true, "both": true, "each": true, "few": true, "more": true,
	"most": true, "other": true, "some": true, "such": true, "no": true,
	"not": true, "only": true, "own": true, "same": true, "so": true,
	"than": true, "too": true, "very": true, "just": true, "does it": true,
	// domain-generic query words
	"function": true, "class": true, "file": true, "code": true, "explain": true,
	"show": true, "method": true, "work": true, "works": true,
	"implement": true, "implementation": true, "find": true, "look": true,
	"looking": true, "help": true, "please": true, "need": true, "want": true,
}
