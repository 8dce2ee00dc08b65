package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mailarchive/indexer/internal/storekeys"
)

// DynamoDBClient is the narrow subset of the DynamoDB API the query
// handler needs: index queries, base-table queries, batched gets, and the
// single-item get the status route serves from.
type DynamoDBClient interface {
	Query(ctx context.Context, input *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchGetItem(ctx context.Context, input *dynamodb.BatchGetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
	GetItem(ctx context.Context, input *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// Repository resolves each of spec §4.5's access patterns against the
// Records and Terms tables.
type Repository struct {
	client DynamoDBClient
}

// NewRepository builds a Repository backed by client.
func NewRepository(client DynamoDBClient) *Repository {
	return &Repository{client: client}
}

type page struct {
	records []map[string]types.AttributeValue
	lastKey map[string]types.AttributeValue
}

// queryIndex runs a single partition-equality, sort-range query against
// either the base table or a named secondary index, applying the common
// order/limit/cursor/from-to parameters uniformly.
func (repo *Repository) queryIndex(ctx context.Context, table, index, pkName, pkValue, skName string, p commonParams) (page, error) {
	keyCond := pkName + " = :pk"
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: pkValue},
	}
	if p.from != "" && p.to != "" {
		keyCond += " AND " + skName + " BETWEEN :from AND :to"
		values[":from"] = &types.AttributeValueMemberS{Value: p.from}
		values[":to"] = &types.AttributeValueMemberS{Value: p.to}
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		KeyConditionExpression:    aws.String(keyCond),
		ExpressionAttributeValues: values,
		ScanIndexForward:          aws.Bool(p.forward),
		Limit:                     aws.Int32(p.limit),
	}
	if index != "" {
		input.IndexName = aws.String(index)
	}
	if p.exclusiveStart != nil {
		input.ExclusiveStartKey = p.exclusiveStart
	}

	out, err := repo.client.Query(ctx, input)
	if err != nil {
		return page{}, fmt.Errorf("query: %s/%s: %w", table, index, err)
	}
	return page{records: out.Items, lastKey: out.LastEvaluatedKey}, nil
}

// ListMail resolves "…/lists/{L}/mail" on list_date.
func (repo *Repository) ListMail(ctx context.Context, list string, p commonParams) (page, error) {
	return repo.queryIndex(ctx, storekeys.TableRecords, storekeys.IndexListDate, storekeys.AttrList, list, storekeys.AttrDate, p)
}

// GlobalMail resolves "…/mail" on datekey_date.
func (repo *Repository) GlobalMail(ctx context.Context, p commonParams) (page, error) {
	pk := fmt.Sprintf("%d", storekeys.DateKeyValue)
	return repo.queryIndex(ctx, storekeys.TableRecords, storekeys.IndexDateKeyDate, storekeys.AttrDateKey, pk, storekeys.AttrDate, p)
}

// ListMailByAuthor resolves "…/lists/{L}/mail/byauthor" on
// list_authorkey_date: partition=list, sort begins_with/range on
// normalize(author)+"/".
func (repo *Repository) ListMailByAuthor(ctx context.Context, list, author string, p commonParams) (page, error) {
	return repo.queryByKeyedPrefix(ctx, storekeys.IndexListAuthorKeyDate, storekeys.AttrList, list, storekeys.AttrAuthorKeyDate, storekeys.Normalize(author), p)
}

// ListMailByEmail resolves "…/lists/{L}/mail/byemail" on list_emailkey_date.
func (repo *Repository) ListMailByEmail(ctx context.Context, list, email string, p commonParams) (page, error) {
	return repo.queryByKeyedPrefix(ctx, storekeys.IndexListEmailKeyDate, storekeys.AttrList, list, storekeys.AttrEmailKeyDate, storekeys.Normalize(email), p)
}

// GlobalMailByAuthor resolves "…/mail/byauthor" on authorkey_date:
// partition=authorkey itself, no list scoping.
func (repo *Repository) GlobalMailByAuthor(ctx context.Context, author string, p commonParams) (page, error) {
	return repo.queryIndex(ctx, storekeys.TableRecords, storekeys.IndexAuthorKeyDate, storekeys.AttrAuthorKey, storekeys.Normalize(author), storekeys.AttrDate, p)
}

// GlobalMailByEmail resolves "…/mail/byemail" on emailkey_date.
func (repo *Repository) GlobalMailByEmail(ctx context.Context, email string, p commonParams) (page, error) {
	return repo.queryIndex(ctx, storekeys.TableRecords, storekeys.IndexEmailKeyDate, storekeys.AttrEmailKey, storekeys.Normalize(email), storekeys.AttrDate, p)
}

// queryByKeyedPrefix scopes a list-partitioned GSI query to rows whose sort
// key begins with prefix+"/", or to a from/to range within that prefix when
// both bounds are given.
func (repo *Repository) queryByKeyedPrefix(ctx context.Context, index, pkName, pkValue, skName, prefix string, p commonParams) (page, error) {
	keyCond := pkName + " = :pk"
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: pkValue},
	}
	if p.from != "" && p.to != "" {
		keyCond += " AND " + skName + " BETWEEN :from AND :to"
		values[":from"] = &types.AttributeValueMemberS{Value: prefix + "/" + p.from}
		values[":to"] = &types.AttributeValueMemberS{Value: prefix + "/" + p.to}
	} else {
		keyCond += " AND begins_with(" + skName + ", :prefix)"
		values[":prefix"] = &types.AttributeValueMemberS{Value: prefix + "/"}
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(storekeys.TableRecords),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String(keyCond),
		ExpressionAttributeValues: values,
		ScanIndexForward:          aws.Bool(p.forward),
		Limit:                     aws.Int32(p.limit),
	}
	if p.exclusiveStart != nil {
		input.ExclusiveStartKey = p.exclusiveStart
	}

	out, err := repo.client.Query(ctx, input)
	if err != nil {
		return page{}, fmt.Errorf("query: %s/%s: %w", storekeys.TableRecords, index, err)
	}
	return page{records: out.Items, lastKey: out.LastEvaluatedKey}, nil
}

// SearchList resolves "…/lists/{L}/mail/search": Term rows on the base
// table, partition p=list/term.
func (repo *Repository) SearchList(ctx context.Context, list, term string, p commonParams) (page, error) {
	pk := storekeys.TermPartitionKey(list, term)
	termPage, err := repo.queryIndex(ctx, storekeys.TableTerms, "", storekeys.AttrTermPK, pk, storekeys.AttrTermSK, p)
	if err != nil {
		return page{}, err
	}
	return repo.joinTerms(ctx, termPage)
}

// SearchGlobal resolves "…/mail/search": Term rows on term_date, partition=term.
func (repo *Repository) SearchGlobal(ctx context.Context, term string, p commonParams) (page, error) {
	termPage, err := repo.queryIndex(ctx, storekeys.TableTerms, storekeys.IndexTermDate, storekeys.AttrTermText, term, storekeys.AttrTermDate, p)
	if err != nil {
		return page{}, err
	}
	return repo.joinTerms(ctx, termPage)
}

// joinTerms resolves a page of Term rows to their backing Records via a
// single batched get, preserving the Term query's order.
func (repo *Repository) joinTerms(ctx context.Context, termPage page) (page, error) {
	if len(termPage.records) == 0 {
		return page{lastKey: termPage.lastKey}, nil
	}

	keys := make([]map[string]types.AttributeValue, 0, len(termPage.records))
	order := make([]string, 0, len(termPage.records))
	for _, t := range termPage.records {
		p, ok := t[storekeys.AttrTermPK].(*types.AttributeValueMemberS)
		if !ok {
			return page{}, fmt.Errorf("query: term row missing %s", storekeys.AttrTermPK)
		}
		s, ok := t[storekeys.AttrTermSK].(*types.AttributeValueMemberS)
		if !ok {
			return page{}, fmt.Errorf("query: term row missing %s", storekeys.AttrTermSK)
		}
		list := p.Value[:strings.LastIndex(p.Value, "/")]
		monthID := s.Value[strings.Index(s.Value, "/")+1:]

		order = append(order, list+"\x00"+monthID)
		keys = append(keys, map[string]types.AttributeValue{
			storekeys.AttrList:    &types.AttributeValueMemberS{Value: list},
			storekeys.AttrMonthID: &types.AttributeValueMemberS{Value: monthID},
		})
	}

	out, err := repo.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
		RequestItems: map[string]types.KeysAndAttributes{
			storekeys.TableRecords: {Keys: keys},
		},
	})
	if err != nil {
		return page{}, fmt.Errorf("query: batch get records: %w", err)
	}

	byKey := make(map[string]map[string]types.AttributeValue, len(out.Responses[storekeys.TableRecords]))
	for _, rec := range out.Responses[storekeys.TableRecords] {
		list := rec[storekeys.AttrList].(*types.AttributeValueMemberS).Value
		monthID := rec[storekeys.AttrMonthID].(*types.AttributeValueMemberS).Value
		byKey[list+"\x00"+monthID] = rec
	}

	records := make([]map[string]types.AttributeValue, 0, len(order))
	for _, k := range order {
		rec, ok := byKey[k]
		if !ok {
			return page{}, fmt.Errorf("%w: %q", ErrRecordNotFound, k)
		}
		records = append(records, rec)
	}

	return page{records: records, lastKey: termPage.lastKey}, nil
}
