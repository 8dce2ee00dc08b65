package indexer

import "regexp"

// The upstream stop-word/stop-line tables were not part of the retrieved
// reference material (see DESIGN.md). These defaults are a reasonable
// reconstruction from the spec's own description of what they're for:
// filtering common English connective words plus archive boilerplate that
// would otherwise dominate every message's term list.

func defaultStopWords() map[string]struct{} {
	words := []string{
		"the", "a", "an", "and", "or", "but", "if", "of", "to", "in",
		"on", "for", "with", "is", "are", "was", "were", "be", "been",
		"being", "this", "that", "these", "those", "it", "its", "as",
		"at", "by", "from", "not", "no", "so", "do", "does", "did",
		"has", "have", "had", "i", "you", "he", "she", "we", "they",
		"them", "his", "her", "our", "your", "their",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// defaultStopPrefixes drops raw (pre-normalization) tokens that begin with
// these prefixes -- mail quoting markers and URL schemes add noise without
// search value.
func defaultStopPrefixes() []string {
	return []string{
		">",
		"|",
		"http://",
		"https://",
		"mailto:",
	}
}

// defaultStopTerms removes fully-formed terms the orchestrator considers
// low-value even after surviving the indexer's own caps -- the literal word
// "wrote" that trails every quoted attribution line ("John Smith wrote:"),
// "quote", and the reply marker "re".
func defaultStopTerms() map[string]struct{} {
	terms := []string{"wrote", "quote", "re"}
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}

// defaultStopLines drops whole body lines that are pure archival boilerplate
// -- automated changeset push notifications and list-footer signatures --
// before indexing the remaining body text.
func defaultStopLines() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)^changeset:\s`),
		regexp.MustCompile(`(?i)^-+\s*$`),
	}
}
