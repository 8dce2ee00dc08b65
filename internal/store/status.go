package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mailarchive/indexer/internal/storekeys"
)

const isoTimestampLayout = "2006-01-02T15:04:05Z"

// Status is the singleton status row.
type Status struct {
	LastCheck  string
	LastUpdate string
}

// UpdateStatus patches the singleton status row: last_check is always set
// to now; last_update is set to now only when changed is true. The patch is
// a conditional single-item update, not a full overwrite, so an unchanged
// sweep never clobbers the previous last_update. Returns the timestamp
// written as last_check.
func (w *Writer) UpdateStatus(ctx context.Context, changed bool) (string, error) {
	now := time.Now().UTC().Format(isoTimestampLayout)

	updateExpr := "SET " + storekeys.AttrLastCheck + " = :now"
	values := map[string]types.AttributeValue{
		":now": &types.AttributeValueMemberS{Value: now},
	}
	if changed {
		updateExpr += ", " + storekeys.AttrLastUpdate + " = :now"
	}

	_, err := w.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(storekeys.TableStatus),
		Key: map[string]types.AttributeValue{
			storekeys.AttrStatusPK: &types.AttributeValueMemberN{Value: strconv.Itoa(storekeys.StatusSingletonPK)},
		},
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return "", fmt.Errorf("store: update status: %w", err)
	}
	return now, nil
}

// GetStatus retrieves the singleton status row.
func (w *Writer) GetStatus(ctx context.Context) (Status, error) {
	out, err := w.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(storekeys.TableStatus),
		Key: map[string]types.AttributeValue{
			storekeys.AttrStatusPK: &types.AttributeValueMemberN{Value: strconv.Itoa(storekeys.StatusSingletonPK)},
		},
	})
	if err != nil {
		return Status{}, fmt.Errorf("store: get status: %w", err)
	}
	if out.Item == nil {
		return Status{}, nil
	}

	var s Status
	if v, ok := out.Item[storekeys.AttrLastCheck].(*types.AttributeValueMemberS); ok {
		s.LastCheck = v.Value
	}
	if v, ok := out.Item[storekeys.AttrLastUpdate].(*types.AttributeValueMemberS); ok {
		s.LastUpdate = v.Value
	}
	return s, nil
}
