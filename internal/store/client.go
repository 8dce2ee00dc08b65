// Package store implements the storage writer (C3) and status (C6)
// components: batched, retried writes of Record and Term rows, checkpoint
// persistence, and the singleton status row.
package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoDBClient is the narrow subset of the DynamoDB API the storage
// writer needs. Defined as an interface so tests can supply an in-process
// fake instead of a mocking framework.
type DynamoDBClient interface {
	BatchWriteItem(ctx context.Context, input *dynamodb.BatchWriteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	PutItem(ctx context.Context, input *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, input *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, input *dynamodb.UpdateItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Writer is the storage writer. One instance is shared across the crawl
// pool's indexing tasks; DynamoDBClient is safe for concurrent use.
type Writer struct {
	client    DynamoDBClient
	dbWorkers int
}

// NewWriter builds a Writer backed by client, bounding chunk submission
// concurrency to dbWorkers.
func NewWriter(client DynamoDBClient, dbWorkers int) *Writer {
	if dbWorkers <= 0 {
		dbWorkers = 10
	}
	return &Writer{client: client, dbWorkers: dbWorkers}
}
