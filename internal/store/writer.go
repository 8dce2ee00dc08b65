package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/sync/errgroup"

	"github.com/mailarchive/indexer/internal/indexer"
	"github.com/mailarchive/indexer/internal/storekeys"
)

const (
	batchChunkSize  = 25
	retryBaseDelay  = 100 * time.Millisecond
	retryMaxDelay   = 5 * time.Second
	retryMaxRetries = 10
)

type tableRequest struct {
	table   string
	request types.WriteRequest
}

// PutMailAndTerms writes one Record row plus one Term row per term. The
// requests are chunked into groups of at most 25 across both table
// namespaces and submitted in parallel by a bounded worker pool; the call
// returns only after every chunk has succeeded (or the retry budget on some
// chunk is exhausted).
func (w *Writer) PutMailAndTerms(ctx context.Context, record Record, terms []indexer.Term) error {
	requests := make([]tableRequest, 0, 1+len(terms))
	requests = append(requests, tableRequest{
		table:   storekeys.TableRecords,
		request: types.WriteRequest{PutRequest: &types.PutRequest{Item: record.marshal()}},
	})
	for _, term := range terms {
		row := newTermRow(record, term)
		requests = append(requests, tableRequest{
			table:   storekeys.TableTerms,
			request: types.WriteRequest{PutRequest: &types.PutRequest{Item: row.marshal()}},
		})
	}

	chunks := chunkRequests(requests, batchChunkSize)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.dbWorkers)
	for _, chunk := range chunks {
		chunk := chunk
		eg.Go(func() error {
			return w.submitChunk(ctx, chunk)
		})
	}
	return eg.Wait()
}

func chunkRequests(requests []tableRequest, size int) []map[string][]types.WriteRequest {
	var chunks []map[string][]types.WriteRequest
	for i := 0; i < len(requests); i += size {
		end := i + size
		if end > len(requests) {
			end = len(requests)
		}
		byTable := make(map[string][]types.WriteRequest)
		for _, r := range requests[i:end] {
			byTable[r.table] = append(byTable[r.table], r.request)
		}
		chunks = append(chunks, byTable)
	}
	return chunks
}

// submitChunk issues BatchWriteItem and resubmits exactly the unprocessed
// requests with exponential backoff: start at 100ms, double each attempt,
// cap at 5s, hard stop after 10 attempts.
func (w *Writer) submitChunk(ctx context.Context, chunk map[string][]types.WriteRequest) error {
	pending := chunk
	delay := retryBaseDelay

	for attempt := 0; attempt <= retryMaxRetries; attempt++ {
		out, err := w.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: pending,
		})
		if err != nil {
			return fmt.Errorf("store: batch write: %w", err)
		}

		if unprocessedCount(out.UnprocessedItems) == 0 {
			return nil
		}

		if attempt == retryMaxRetries {
			return &ErrRetryExhausted{Unprocessed: unprocessedCount(out.UnprocessedItems)}
		}

		pending = out.UnprocessedItems

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}
	}

	return &ErrRetryExhausted{Unprocessed: unprocessedCount(pending)}
}

func unprocessedCount(items map[string][]types.WriteRequest) int {
	n := 0
	for _, reqs := range items {
		n += len(reqs)
	}
	return n
}
