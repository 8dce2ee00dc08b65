// Package indexer turns a message's author/email/subject/body text into a
// bounded, ordered list of search terms. It has no I/O and no package-level
// state: every call is a pure function of its inputs and the Params bundle
// passed in, so it can be fuzzed and unit-tested without a store or network.
package indexer

import (
	"strings"

	"github.com/mailarchive/indexer/internal/storekeys"
)

// Term is an ordered, non-empty sequence of 1..N normalized tokens. Its
// stored form is the tokens joined with "|" (storekeys.JoinTerm).
type Term []string

// codeDelimiters are checked one at a time against each raw token: a token
// containing more than one of them is split (and contributes terms) once
// per delimiter it contains, not once on a combined split.
var codeDelimiters = []string{"/", ".", "=", "::"}

// fieldSpec describes how one of the four fixed input fields is processed.
type fieldSpec struct {
	text       string
	parseCode  bool // body only: explode code-like tokens into compound terms
	allNgrams  bool // author/email/subject only: append the whole token list as one term
	ngramLimit int
}

// Index derives the ordered term list for a message. Fields are processed in
// the fixed order author, email, subject, body — email gets no special
// handling of its own, it runs through the exact same whitespace
// tokenize/normalize pipeline as author and subject, which is what turns an
// address with no internal whitespace into a single compound term. Word
// n-grams are appended before the all-tokens bundle, and code n-grams are
// appended last, because they are the lowest-value terms when max_terms
// saturates.
func Index(params Params, author, email, subject, body string) []Term {
	terms := make([]Term, 0, 64)
	seen := make(map[string]struct{}, 64)

	fields := []fieldSpec{
		{text: author, allNgrams: true, ngramLimit: params.SubjectNgramLimit},
		{text: email, allNgrams: true, ngramLimit: params.SubjectNgramLimit},
		{text: subject, allNgrams: true, ngramLimit: params.SubjectNgramLimit},
		{text: body, parseCode: true, ngramLimit: params.WordNgramLimit},
	}

	for _, f := range fields {
		indexField(&terms, seen, f, params)
		if len(terms) >= params.MaxTerms {
			break
		}
	}

	return terms
}

func indexField(terms *[]Term, seen map[string]struct{}, f fieldSpec, params Params) {
	rawTokens := tokenizeRaw(f.text, params)
	normTokens := normalizeAndFilter(rawTokens, params)

	addWordNgrams(terms, seen, normTokens, f.ngramLimit, params.MaxTerms)

	if f.allNgrams && len(normTokens) > 0 {
		bundle := make(Term, len(normTokens))
		copy(bundle, normTokens)
		addTerm(terms, seen, bundle, params.MaxTerms)
	}

	if f.parseCode {
		addAllCodeNgrams(terms, seen, rawTokens, params)
	}
}

// tokenizeRaw splits text on whitespace, lowercases, drops tokens longer
// than MaxTokenLength, and drops tokens whose lowercased form starts with a
// configured stop prefix.
func tokenizeRaw(text string, params Params) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len(tok) > params.MaxTokenLength {
			continue
		}
		if hasStopPrefix(tok, params.StopPrefixes) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func hasStopPrefix(tok string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(tok, p) {
			return true
		}
	}
	return false
}

// normalizeAndFilter normalizes each raw token and drops empties and
// stop-words.
func normalizeAndFilter(rawTokens []string, params Params) []string {
	out := make([]string, 0, len(rawTokens))
	for _, tok := range rawTokens {
		n := storekeys.Normalize(tok)
		if n == "" {
			continue
		}
		if _, stop := params.StopWords[n]; stop {
			continue
		}
		out = append(out, n)
	}
	return out
}

// ngramSlices returns, for a given start position, the clipped prefixes
// tokens[start:start+1], tokens[start:start+2], ..., tokens[start:start+limit].
func ngramSlices(tokens []string, start, limit int) [][]string {
	n := limit
	if start+n > len(tokens) {
		n = len(tokens) - start
	}
	out := make([][]string, 0, n)
	for k := 1; k <= n; k++ {
		out = append(out, tokens[start:start+k])
	}
	return out
}

func addWordNgrams(terms *[]Term, seen map[string]struct{}, normTokens []string, ngramLimit, maxTerms int) {
	for i := range normTokens {
		if len(*terms) >= maxTerms {
			return
		}
		for _, slice := range ngramSlices(normTokens, i, ngramLimit) {
			term := make(Term, len(slice))
			copy(term, slice)
			if !addTerm(terms, seen, term, maxTerms) {
				return
			}
		}
	}
}

// addAllCodeNgrams walks every raw (pre-normalization) token in the field
// and, for each of the four code delimiters it contains, splits the token
// on that one delimiter and feeds the resulting segments to addCodeNgrams.
// A token containing more than one kind of delimiter is split once per
// delimiter it contains, not once on a combined split. All of this accrues
// into a single code-term accumulator shared across the whole field, capped
// once at MaxCodeTerms, before the survivors are merged into terms capped
// at MaxTerms.
func addAllCodeNgrams(terms *[]Term, seen map[string]struct{}, rawTokens []string, params Params) {
	var codeTerms []Term
	codeSeen := make(map[string]struct{}, 16)

	for _, tok := range rawTokens {
		for _, d := range codeDelimiters {
			if !strings.Contains(tok, d) {
				continue
			}
			addCodeNgrams(&codeTerms, codeSeen, strings.Split(tok, d), params.CodeNgramLimit, params.MaxCodeTerms)
		}
	}

	for _, term := range codeTerms {
		if !addTerm(terms, seen, term, params.MaxTerms) {
			return
		}
	}
}

// addCodeNgrams enumerates, for every start position, the prefixes of
// segments up to codeNgramLimit, concatenating and normalizing each prefix
// into one compound token, and appends any new one to codeTerms until the
// cumulative MaxCodeTerms cap for the field is reached.
func addCodeNgrams(codeTerms *[]Term, codeSeen map[string]struct{}, segments []string, codeNgramLimit, maxCodeTerms int) {
	for i := range segments {
		if len(*codeTerms) >= maxCodeTerms {
			return
		}
		for _, slice := range ngramSlices(segments, i, codeNgramLimit) {
			if len(*codeTerms) >= maxCodeTerms {
				return
			}
			compound := storekeys.Normalize(strings.Join(slice, ""))
			if compound == "" {
				continue
			}
			if _, dup := codeSeen[compound]; dup {
				continue
			}
			codeSeen[compound] = struct{}{}
			*codeTerms = append(*codeTerms, Term{compound})
		}
	}
}

// QueryTerm tokenizes, normalizes, and stop-filters q exactly as a message
// field would be, then joins the surviving tokens into the single stored
// term string a matching n-gram was indexed under. The query handler uses
// this to turn a "q" parameter into the exact-equality lookup key for the
// Term table; it never explodes q into multiple n-grams itself, since the
// caller is expected to supply the same span that was indexed as one term.
func QueryTerm(params Params, q string) string {
	raw := tokenizeRaw(q, params)
	norm := normalizeAndFilter(raw, params)
	return storekeys.JoinTerm(norm)
}

// addTerm appends term to terms if it is new and the global cap has not
// been reached. Returns false once the cap is reached, signalling the
// caller to stop emitting further terms for this field.
func addTerm(terms *[]Term, seen map[string]struct{}, term Term, maxTerms int) bool {
	if len(*terms) >= maxTerms {
		return false
	}
	key := storekeys.JoinTerm(term)
	if _, dup := seen[key]; dup {
		return true
	}
	seen[key] = struct{}{}
	*terms = append(*terms, term)
	return len(*terms) < maxTerms
}
