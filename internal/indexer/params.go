package indexer

import "regexp"

// Params bundles every tunable of the indexing pipeline. Threaded through by
// value so Index stays free of package-level state and is safe to call
// concurrently from many goroutines.
type Params struct {
	MaxTokenLength     int
	WordNgramLimit     int
	SubjectNgramLimit  int
	CodeNgramLimit     int
	MaxTerms           int
	MaxCodeTerms       int
	StopWords          map[string]struct{}
	StopPrefixes       []string
	StopTerms          map[string]struct{}
	StopLines          []*regexp.Regexp
}

// DefaultParams returns the parameter bundle used by the seed and update
// drivers. The configuration loader has no indexer settings, so these
// values cannot be overridden by the YAML overlay or the environment.
func DefaultParams() Params {
	return Params{
		MaxTokenLength:    100,
		WordNgramLimit:    3,
		SubjectNgramLimit: 5,
		CodeNgramLimit:    10,
		MaxTerms:          2500,
		MaxCodeTerms:      100,
		StopWords:         defaultStopWords(),
		StopPrefixes:      defaultStopPrefixes(),
		StopTerms:         defaultStopTerms(),
		StopLines:         defaultStopLines(),
	}
}

// QueryParams returns the parameter bundle the query handler uses to turn a
// "q" search string into the exact term it must look up. It shares every
// normalization/stop-word rule with DefaultParams but raises the token
// length cap, since a query string is not subject to the same archive noise
// a raw message body is.
func QueryParams() Params {
	p := DefaultParams()
	p.MaxTokenLength = 1000
	return p
}
