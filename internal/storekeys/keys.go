// Package storekeys defines the composite-key scheme shared by the storage
// writer and the query handler: table and attribute names, secondary-index
// names, and the normalization/composition rules that turn a Mail into the
// keys its rows are written and queried under.
package storekeys

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Table names.
const (
	TableRecords     = "mail-records"
	TableTerms       = "mail-terms"
	TableCheckpoints = "mail-checkpoints"
	TableStatus      = "mail-status"
)

// Record row attributes.
const (
	AttrList           = "list"
	AttrMonthID        = "month_id"
	AttrDate           = "date"
	AttrMonth          = "month"
	AttrID             = "id"
	AttrAuthor         = "author"
	AttrAuthorKey      = "authorkey"
	AttrEmail          = "email"
	AttrEmailKey       = "emailkey"
	AttrAuthorKeyDate  = "authorkey_date"
	AttrEmailKeyDate   = "emailkey_date"
	AttrSubject        = "subject"
	AttrTermCount      = "terms"
	AttrDateKey        = "datekey"
)

// Term row attributes. Named p/s/d/t to match the partition/sort/date/term
// shape the storage layer was designed around.
const (
	AttrTermPK   = "p"
	AttrTermSK   = "s"
	AttrTermDate = "d"
	AttrTermText = "t"
)

// Checkpoint row attributes.
const (
	AttrCheckpointMonth = "month"
	AttrCheckpointID    = "id"
)

// Status row attributes. AttrStatusPK is a numeric singleton partition key.
const (
	AttrStatusPK     = "pk"
	AttrLastCheck    = "last_check"
	AttrLastUpdate   = "last_update"
	StatusSingletonPK = 1
)

// DateKeyValue is the constant partition value every Record shares on the
// global-latest index, concentrating writes on one logical partition in
// exchange for a trivially simple global sort. See DESIGN.md for the
// alternative (shard-by-date-prefix) that was considered and rejected.
const DateKeyValue = 1

// Secondary index names on the Records table.
const (
	IndexListDate          = "list_date"
	IndexListAuthorKeyDate = "list_authorkey_date"
	IndexListEmailKeyDate  = "list_emailkey_date"
	IndexAuthorKeyDate     = "authorkey_date"
	IndexEmailKeyDate      = "emailkey_date"
	IndexDateKeyDate       = "datekey_date"
)

// Secondary index name on the Terms table.
const IndexTermDate = "term_date"

// normalizable reports whether r should survive normalization: a Unicode
// letter or digit, underscore, '+', or '#'.
func normalizable(r rune) bool {
	if r == '+' || r == '#' || r == '_' {
		return true
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Normalize lower-cases s and strips every character that is not a word
// character, '+', or '#'. Inputs are first folded to NFC so that combining
// sequences collapse the same way for equivalent display forms before the
// ASCII-oriented strip runs; this mirrors the archive's own practice of
// emitting plain-text headers without canonicalizing non-ASCII names.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if normalizable(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AuthorKeyDate composes the authorkey_date attribute: normalize(author) + "/" + date.
func AuthorKeyDate(author, date string) string {
	return Normalize(author) + "/" + date
}

// EmailKeyDate composes the emailkey_date attribute: normalize(email) + "/" + date.
func EmailKeyDate(email, date string) string {
	return Normalize(email) + "/" + date
}

// MonthID composes a Record's sort key from its month and id.
func MonthID(month, id string) string {
	return month + "/" + id
}

// TermPartitionKey composes a Term row's partition key, "list/term".
func TermPartitionKey(list, term string) string {
	return list + "/" + term
}

// TermSortKey composes a Term row's sort key, "date/month/id".
func TermSortKey(date, month, id string) string {
	return date + "/" + month + "/" + id
}

// JoinTerm serializes an ordered token sequence into its stored term form.
func JoinTerm(tokens []string) string {
	return strings.Join(tokens, "|")
}
