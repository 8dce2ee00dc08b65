package store

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mailarchive/indexer/internal/archive"
	"github.com/mailarchive/indexer/internal/indexer"
)

// fakeClient is a minimal in-process DynamoDBClient used instead of a
// mocking framework, matching the teacher's own fake-client test style.
type fakeClient struct {
	putItems     []map[string]types.AttributeValue
	batchWrites  [][]types.WriteRequest
	getItem      map[string]types.AttributeValue
	updateExprs  []string
	failAttempts int // number of BatchWriteItem calls that should report one unprocessed item
}

func (f *fakeClient) BatchWriteItem(_ context.Context, input *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	var all []types.WriteRequest
	for _, reqs := range input.RequestItems {
		all = append(all, reqs...)
	}
	f.batchWrites = append(f.batchWrites, all)

	if f.failAttempts > 0 {
		f.failAttempts--
		// report the first request of the first table as unprocessed
		for table, reqs := range input.RequestItems {
			if len(reqs) > 0 {
				return &dynamodb.BatchWriteItemOutput{
					UnprocessedItems: map[string][]types.WriteRequest{table: reqs[:1]},
				}, nil
			}
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func (f *fakeClient) PutItem(_ context.Context, input *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putItems = append(f.putItems, input.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeClient) GetItem(_ context.Context, _ *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.getItem}, nil
}

func (f *fakeClient) UpdateItem(_ context.Context, input *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateExprs = append(f.updateExprs, *input.UpdateExpression)
	return &dynamodb.UpdateItemOutput{}, nil
}

func testMail() archive.Mail {
	return archive.Mail{
		List:    "loom-dev",
		Month:   "2025-February",
		ID:      "025752",
		Subject: "loom status",
		Author:  "Duke Coder",
		Email:   "duke@openjdk.org",
		Date:    time.Date(2025, time.February, 3, 10, 0, 0, 0, time.UTC),
		Body:    "fibers are great",
	}
}

func TestPutMailAndTermsSingleChunk(t *testing.T) {
	fc := &fakeClient{}
	w := NewWriter(fc, 4)
	mail := testMail()
	terms := []indexer.Term{{"duke"}, {"fibers"}}
	record := NewRecord(mail, len(terms))

	if err := w.PutMailAndTerms(context.Background(), record, terms); err != nil {
		t.Fatalf("PutMailAndTerms: %v", err)
	}
	if len(fc.batchWrites) != 1 {
		t.Fatalf("len(batchWrites) = %d, want 1", len(fc.batchWrites))
	}
	if len(fc.batchWrites[0]) != 3 { // 1 record + 2 terms
		t.Fatalf("len(batchWrites[0]) = %d, want 3", len(fc.batchWrites[0]))
	}
}

func TestPutMailAndTermsChunking(t *testing.T) {
	fc := &fakeClient{}
	w := NewWriter(fc, 4)
	mail := testMail()
	terms := make([]indexer.Term, 60)
	for i := range terms {
		terms[i] = indexer.Term{"term"}
	}
	record := NewRecord(mail, len(terms))

	if err := w.PutMailAndTerms(context.Background(), record, terms); err != nil {
		t.Fatalf("PutMailAndTerms: %v", err)
	}
	// 61 total requests (1 record + 60 terms) at 25/chunk => 3 chunks
	if len(fc.batchWrites) != 3 {
		t.Fatalf("len(batchWrites) = %d, want 3", len(fc.batchWrites))
	}
}

func TestPutMailAndTermsRetriesUnprocessed(t *testing.T) {
	fc := &fakeClient{failAttempts: 2}
	w := NewWriter(fc, 1)
	mail := testMail()
	terms := []indexer.Term{{"duke"}}
	record := NewRecord(mail, len(terms))

	if err := w.PutMailAndTerms(context.Background(), record, terms); err != nil {
		t.Fatalf("PutMailAndTerms: %v", err)
	}
	if len(fc.batchWrites) != 3 { // 2 failed attempts + 1 success
		t.Fatalf("len(batchWrites) = %d, want 3", len(fc.batchWrites))
	}
}

func TestPutMailAndTermsRetryExhausted(t *testing.T) {
	fc := &fakeClient{failAttempts: retryMaxRetries + 1}
	w := NewWriter(fc, 1)
	mail := testMail()
	terms := []indexer.Term{{"duke"}}
	record := NewRecord(mail, len(terms))

	err := w.PutMailAndTerms(context.Background(), record, terms)
	if err == nil {
		t.Fatal("expected ErrRetryExhausted")
	}
	var exhausted *ErrRetryExhausted
	if !asErrRetryExhausted(err, &exhausted) {
		t.Fatalf("expected *ErrRetryExhausted, got %v", err)
	}
}

func asErrRetryExhausted(err error, target **ErrRetryExhausted) bool {
	if e, ok := err.(*ErrRetryExhausted); ok {
		*target = e
		return true
	}
	return false
}
