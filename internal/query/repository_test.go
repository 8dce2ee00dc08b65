package query

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mailarchive/indexer/internal/storekeys"
)

type fakeDB struct {
	queryFunc        func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error)
	batchGetFunc     func(*dynamodb.BatchGetItemInput) (*dynamodb.BatchGetItemOutput, error)
	lastQueryInputs  []*dynamodb.QueryInput
}

func (f *fakeDB) Query(ctx context.Context, in *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.lastQueryInputs = append(f.lastQueryInputs, in)
	return f.queryFunc(in)
}

func (f *fakeDB) BatchGetItem(ctx context.Context, in *dynamodb.BatchGetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	return f.batchGetFunc(in)
}

func (f *fakeDB) GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{}, nil
}

func recordItem(list, month, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		storekeys.AttrList:    &types.AttributeValueMemberS{Value: list},
		storekeys.AttrMonthID: &types.AttributeValueMemberS{Value: storekeys.MonthID(month, id)},
		storekeys.AttrMonth:   &types.AttributeValueMemberS{Value: month},
		storekeys.AttrID:      &types.AttributeValueMemberS{Value: id},
		storekeys.AttrSubject: &types.AttributeValueMemberS{Value: "subject for " + id},
	}
}

func TestListMailQueriesListDateIndex(t *testing.T) {
	fake := &fakeDB{
		queryFunc: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{recordItem("loom-dev", "2025-02", "1")}}, nil
		},
	}
	repo := NewRepository(fake)
	pg, err := repo.ListMail(context.Background(), "loom-dev", commonParams{limit: 10})
	if err != nil {
		t.Fatalf("ListMail: %v", err)
	}
	if len(pg.records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(pg.records))
	}
	in := fake.lastQueryInputs[0]
	if *in.IndexName != storekeys.IndexListDate {
		t.Fatalf("IndexName = %q, want %q", *in.IndexName, storekeys.IndexListDate)
	}
}

func TestListMailByAuthorBeginsWithPrefixWithoutRange(t *testing.T) {
	fake := &fakeDB{
		queryFunc: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			return &dynamodb.QueryOutput{}, nil
		},
	}
	repo := NewRepository(fake)
	if _, err := repo.ListMailByAuthor(context.Background(), "loom-dev", "Jane Doe", commonParams{limit: 10}); err != nil {
		t.Fatalf("ListMailByAuthor: %v", err)
	}
	in := fake.lastQueryInputs[0]
	if _, ok := in.ExpressionAttributeValues[":prefix"]; !ok {
		t.Fatalf("expected begins_with prefix value, got %#v", in.ExpressionAttributeValues)
	}
	prefix := in.ExpressionAttributeValues[":prefix"].(*types.AttributeValueMemberS).Value
	if prefix != "janedoe/" {
		t.Fatalf("prefix = %q, want %q", prefix, "janedoe/")
	}
}

func TestSearchListJoinsTermsToRecordsInOrder(t *testing.T) {
	termRows := []map[string]types.AttributeValue{
		{
			storekeys.AttrTermPK: &types.AttributeValueMemberS{Value: storekeys.TermPartitionKey("loom-dev", "concurrency")},
			storekeys.AttrTermSK: &types.AttributeValueMemberS{Value: storekeys.TermSortKey("2025-02-01T00:00:00Z", "2025-02", "2")},
		},
		{
			storekeys.AttrTermPK: &types.AttributeValueMemberS{Value: storekeys.TermPartitionKey("loom-dev", "concurrency")},
			storekeys.AttrTermSK: &types.AttributeValueMemberS{Value: storekeys.TermSortKey("2025-02-01T00:00:00Z", "2025-02", "1")},
		},
	}
	fake := &fakeDB{
		queryFunc: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			return &dynamodb.QueryOutput{Items: termRows}, nil
		},
		batchGetFunc: func(in *dynamodb.BatchGetItemInput) (*dynamodb.BatchGetItemOutput, error) {
			return &dynamodb.BatchGetItemOutput{
				Responses: map[string][]map[string]types.AttributeValue{
					storekeys.TableRecords: {
						recordItem("loom-dev", "2025-02", "1"),
						recordItem("loom-dev", "2025-02", "2"),
					},
				},
			}, nil
		},
	}
	repo := NewRepository(fake)
	pg, err := repo.SearchList(context.Background(), "loom-dev", "concurrency", commonParams{limit: 10})
	if err != nil {
		t.Fatalf("SearchList: %v", err)
	}
	if len(pg.records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(pg.records))
	}
	if stringAttr(pg.records[0], storekeys.AttrID) != "2" || stringAttr(pg.records[1], storekeys.AttrID) != "1" {
		t.Fatalf("records not in term-query order: %#v", pg.records)
	}
}

func TestSearchListMissingRecordIsError(t *testing.T) {
	fake := &fakeDB{
		queryFunc: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
				{
					storekeys.AttrTermPK: &types.AttributeValueMemberS{Value: storekeys.TermPartitionKey("loom-dev", "x")},
					storekeys.AttrTermSK: &types.AttributeValueMemberS{Value: storekeys.TermSortKey("2025-02-01T00:00:00Z", "2025-02", "404")},
				},
			}}, nil
		},
		batchGetFunc: func(in *dynamodb.BatchGetItemInput) (*dynamodb.BatchGetItemOutput, error) {
			return &dynamodb.BatchGetItemOutput{Responses: map[string][]map[string]types.AttributeValue{}}, nil
		},
	}
	repo := NewRepository(fake)
	if _, err := repo.SearchList(context.Background(), "loom-dev", "x", commonParams{limit: 10}); err == nil {
		t.Fatal("expected error for missing joined record")
	}
}
