package store

import (
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mailarchive/indexer/internal/archive"
	"github.com/mailarchive/indexer/internal/indexer"
	"github.com/mailarchive/indexer/internal/storekeys"
)

// Record is the wide-column projection of a Mail, carrying every attribute
// its secondary indices key on.
type Record struct {
	List          string
	Month         string
	ID            string
	Date          string
	Author        string
	AuthorKey     string
	Email         string
	EmailKey      string
	Subject       string
	TermCount     int
	AuthorKeyDate string
	EmailKeyDate  string
}

// NewRecord projects a Mail plus its term count into a Record.
func NewRecord(mail archive.Mail, termCount int) Record {
	date := mail.Date.UTC().Format(time.RFC3339)
	return Record{
		List:          mail.List,
		Month:         mail.Month,
		ID:            mail.ID,
		Date:          date,
		Author:        mail.Author,
		AuthorKey:     storekeys.Normalize(mail.Author),
		Email:         mail.Email,
		EmailKey:      storekeys.Normalize(mail.Email),
		Subject:       mail.Subject,
		TermCount:     termCount,
		AuthorKeyDate: storekeys.AuthorKeyDate(mail.Author, date),
		EmailKeyDate:  storekeys.EmailKeyDate(mail.Email, date),
	}
}

func (r Record) marshal() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		storekeys.AttrList:          &types.AttributeValueMemberS{Value: r.List},
		storekeys.AttrMonthID:       &types.AttributeValueMemberS{Value: storekeys.MonthID(r.Month, r.ID)},
		storekeys.AttrDate:          &types.AttributeValueMemberS{Value: r.Date},
		storekeys.AttrMonth:         &types.AttributeValueMemberS{Value: r.Month},
		storekeys.AttrID:            &types.AttributeValueMemberS{Value: r.ID},
		storekeys.AttrAuthor:        &types.AttributeValueMemberS{Value: r.Author},
		storekeys.AttrAuthorKey:     &types.AttributeValueMemberS{Value: r.AuthorKey},
		storekeys.AttrEmail:         &types.AttributeValueMemberS{Value: r.Email},
		storekeys.AttrEmailKey:      &types.AttributeValueMemberS{Value: r.EmailKey},
		storekeys.AttrAuthorKeyDate: &types.AttributeValueMemberS{Value: r.AuthorKeyDate},
		storekeys.AttrEmailKeyDate:  &types.AttributeValueMemberS{Value: r.EmailKeyDate},
		storekeys.AttrSubject:       &types.AttributeValueMemberS{Value: r.Subject},
		storekeys.AttrTermCount:     &types.AttributeValueMemberN{Value: strconv.Itoa(r.TermCount)},
		storekeys.AttrDateKey:       &types.AttributeValueMemberN{Value: strconv.Itoa(storekeys.DateKeyValue)},
	}
}

// TermRow is one Term row: a single term attributed to the message that
// produced it.
type TermRow struct {
	List  string
	Term  string
	Date  string
	Month string
	ID    string
}

func newTermRow(record Record, term indexer.Term) TermRow {
	return TermRow{
		List:  record.List,
		Term:  storekeys.JoinTerm(term),
		Date:  record.Date,
		Month: record.Month,
		ID:    record.ID,
	}
}

func (t TermRow) marshal() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		storekeys.AttrTermPK:   &types.AttributeValueMemberS{Value: storekeys.TermPartitionKey(t.List, t.Term)},
		storekeys.AttrTermSK:   &types.AttributeValueMemberS{Value: storekeys.TermSortKey(t.Date, t.Month, t.ID)},
		storekeys.AttrTermDate: &types.AttributeValueMemberS{Value: t.Date},
		storekeys.AttrTermText: &types.AttributeValueMemberS{Value: t.Term},
	}
}
