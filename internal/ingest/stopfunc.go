package ingest

import (
	"regexp"
	"strings"

	"github.com/mailarchive/indexer/internal/archive"
	"github.com/mailarchive/indexer/internal/indexer"
	"github.com/mailarchive/indexer/internal/storekeys"
)

// shouldSkip reports whether mail is auto-generated changeset push
// notification noise that should never produce a Record: its subject must
// start with "hg:" or "git: ", and then either the subject ends with
// "changesets" or the body starts with "Changeset:". The body check is
// gated on the subject prefix so a reply that merely pastes a changeset
// excerpt isn't mistaken for one.
func shouldSkip(mail archive.Mail) bool {
	subject := strings.ToLower(strings.TrimSpace(mail.Subject))
	body := strings.TrimSpace(mail.Body)
	hasPrefix := strings.HasPrefix(subject, "hg:") || strings.HasPrefix(subject, "git: ")
	return hasPrefix && (strings.HasSuffix(subject, "changesets") || strings.HasPrefix(body, "Changeset:"))
}

// filterStopLines drops any body line matching one of stopLines.
func filterStopLines(body string, stopLines []*regexp.Regexp) string {
	if len(stopLines) == 0 {
		return body
	}
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if matchesAny(line, stopLines) {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func matchesAny(line string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// dropStopTerms removes any term whose serialized form is in stopTerms.
func dropStopTerms(terms []indexer.Term, stopTerms map[string]struct{}) []indexer.Term {
	if len(stopTerms) == 0 {
		return terms
	}
	out := make([]indexer.Term, 0, len(terms))
	for _, term := range terms {
		if _, stop := stopTerms[storekeys.JoinTerm(term)]; stop {
			continue
		}
		out = append(out, term)
	}
	return out
}
