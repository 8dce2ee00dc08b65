package ingest

import (
	"regexp"
	"testing"

	"github.com/mailarchive/indexer/internal/archive"
	"github.com/mailarchive/indexer/internal/indexer"
)

func TestShouldSkipChangesetSubject(t *testing.T) {
	mail := archive.Mail{Subject: "git: amber: 12345: changesets"}
	if !shouldSkip(mail) {
		t.Fatal("expected changeset subject to be skipped")
	}
}

func TestShouldSkipHgSubjectWithChangesetBody(t *testing.T) {
	mail := archive.Mail{Subject: "hg: amber: 12345: a single fix", Body: "Changeset: abc123\nmore text"}
	if !shouldSkip(mail) {
		t.Fatal("expected hg: subject with a Changeset: body to be skipped")
	}
}

func TestShouldSkipOrdinaryMail(t *testing.T) {
	mail := archive.Mail{Subject: "Re: loom review", Body: "looks good to me"}
	if shouldSkip(mail) {
		t.Fatal("did not expect ordinary mail to be skipped")
	}
}

func TestShouldSkipDoesNotMatchUnrelatedSubjectWithChangesetBody(t *testing.T) {
	mail := archive.Mail{Subject: "Re: review please", Body: "Changeset: abc123\nsee attached diff"}
	if shouldSkip(mail) {
		t.Fatal("a Changeset: body must only trigger a skip when the subject also has the hg:/git: prefix")
	}
}

func TestFilterStopLines(t *testing.T) {
	body := "first line\nChangeset: abc\nlast line"
	patterns := []*regexp.Regexp{regexp.MustCompile(`(?i)^changeset:`)}
	got := filterStopLines(body, patterns)
	want := "first line\nlast line"
	if got != want {
		t.Fatalf("filterStopLines() = %q, want %q", got, want)
	}
}

func TestDropStopTerms(t *testing.T) {
	terms := []indexer.Term{{"wrote"}, {"loom"}, {"quote"}}
	stop := map[string]struct{}{"wrote": {}, "quote": {}}
	got := dropStopTerms(terms, stop)
	if len(got) != 1 || got[0][0] != "loom" {
		t.Fatalf("dropStopTerms() = %#v", got)
	}
}
