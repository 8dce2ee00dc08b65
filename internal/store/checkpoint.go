package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mailarchive/indexer/internal/archive"
	"github.com/mailarchive/indexer/internal/storekeys"
)

// PutCheckpoint overwrites the per-list checkpoint with a single-item put,
// outside the batch-write path. The orchestrator commits one after each
// crawl batch has been written in full, so checkpoints always lag behind
// the records they describe.
func (w *Writer) PutCheckpoint(ctx context.Context, list string, checkpoint archive.Checkpoint) error {
	_, err := w.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(storekeys.TableCheckpoints),
		Item: map[string]types.AttributeValue{
			storekeys.AttrList:           &types.AttributeValueMemberS{Value: list},
			storekeys.AttrCheckpointMonth: &types.AttributeValueMemberS{Value: checkpoint.Month},
			storekeys.AttrCheckpointID:    &types.AttributeValueMemberS{Value: checkpoint.ID},
		},
	})
	if err != nil {
		return fmt.Errorf("store: put checkpoint for %s: %w", list, err)
	}
	return nil
}

// GetCheckpoint returns the last committed checkpoint for list, or the zero
// Checkpoint if the list has never been crawled.
func (w *Writer) GetCheckpoint(ctx context.Context, list string) (archive.Checkpoint, error) {
	out, err := w.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(storekeys.TableCheckpoints),
		Key: map[string]types.AttributeValue{
			storekeys.AttrList: &types.AttributeValueMemberS{Value: list},
		},
	})
	if err != nil {
		return archive.Checkpoint{}, fmt.Errorf("store: get checkpoint for %s: %w", list, err)
	}
	if out.Item == nil {
		return archive.Checkpoint{}, nil
	}

	var cp archive.Checkpoint
	if v, ok := out.Item[storekeys.AttrCheckpointMonth].(*types.AttributeValueMemberS); ok {
		cp.Month = v.Value
	}
	if v, ok := out.Item[storekeys.AttrCheckpointID].(*types.AttributeValueMemberS); ok {
		cp.ID = v.Value
	}
	return cp, nil
}
