// Package ingest drives the crawler, indexer, and storage writer for one
// mailing list (seed) or the full roster (update), with bounded
// concurrency, throttling, and checkpoint commits after every batch.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mailarchive/indexer/internal/archive"
	"github.com/mailarchive/indexer/internal/indexer"
	"github.com/mailarchive/indexer/internal/logging"
	"github.com/mailarchive/indexer/internal/store"
	"github.com/mailarchive/indexer/internal/tracing"
)

// Dependencies bundles everything a crawl run needs. Each command's main()
// builds one instance and passes it to RunSeed or RunUpdate.
type Dependencies struct {
	Archive       *archive.Client
	Writer        *store.Writer
	Params        indexer.Params
	MailWorkers   int
	ThrottleSleep float64 // seconds between batches
}

// RunSeed crawls a single list to exhaustion, starting from its last
// committed checkpoint.
func RunSeed(ctx context.Context, deps Dependencies, list string) error {
	_, err := runList(ctx, deps, list)
	return err
}

// RunUpdate sweeps every list in roster, sequentially, then records whether
// any list produced at least one new record via the status row.
func RunUpdate(ctx context.Context, deps Dependencies, roster []string) error {
	logger := logging.FromContext(ctx)
	anyChanged := false

	for _, list := range roster {
		changed, err := runList(ctx, deps, list)
		if err != nil {
			return fmt.Errorf("ingest: update %s: %w", list, err)
		}
		anyChanged = anyChanged || changed
	}

	ts, err := deps.Writer.UpdateStatus(ctx, anyChanged)
	if err != nil {
		return fmt.Errorf("ingest: update status: %w", err)
	}
	logger.InfoContext(ctx, "update sweep complete", slog.Bool("changed", anyChanged), slog.String("last_check", ts))
	return nil
}

// runList consumes one list's message stream in batches of MailWorkers,
// committing the checkpoint after every batch succeeds in full, and reports
// whether any record was written.
func runList(ctx context.Context, deps Dependencies, list string) (changed bool, err error) {
	logger := logging.FromContext(ctx)
	tracer := tracing.Tracer("mailarchive-ingest")

	ctx, span := tracer.Start(ctx, "runList")
	defer span.End()

	checkpoint, err := deps.Writer.GetCheckpoint(ctx, list)
	if err != nil {
		return false, fmt.Errorf("ingest: get checkpoint for %s: %w", list, err)
	}

	items, archiveErrs := deps.Archive.Enumerate(ctx, list, checkpoint)
	limiter := rate.NewLimiter(rate.Limit(1.0/deps.ThrottleSleep), 1)

	for {
		batch, done := readBatch(items, deps.MailWorkers)
		if len(batch) == 0 {
			break
		}

		var listChanged atomic.Bool
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(deps.MailWorkers)

		for _, item := range batch {
			item := item
			eg.Go(func() error {
				wrote, err := processOne(egCtx, deps, list, item)
				if err != nil {
					return err
				}
				if wrote {
					listChanged.Store(true)
				}
				return nil
			})
		}

		if err := eg.Wait(); err != nil {
			return changed, fmt.Errorf("ingest: batch for %s: %w", list, err)
		}

		last := batch[len(batch)-1]
		if err := deps.Writer.PutCheckpoint(ctx, list, archive.Checkpoint{Month: last.Month, ID: last.ID}); err != nil {
			return changed, fmt.Errorf("ingest: commit checkpoint for %s: %w", list, err)
		}
		changed = changed || listChanged.Load()

		logger.InfoContext(ctx, "committed batch", slog.String("list", list), slog.String("month", last.Month), slog.String("id", last.ID))

		if done {
			break
		}

		if err := limiter.Wait(ctx); err != nil {
			return changed, err
		}
	}

	select {
	case err := <-archiveErrs:
		if err != nil {
			return changed, fmt.Errorf("ingest: crawl %s: %w", list, err)
		}
	default:
	}

	return changed, nil
}

// readBatch drains up to n items from items, returning done=true if the
// channel closed before n items were collected.
func readBatch(items <-chan archive.QueueItem, n int) ([]archive.QueueItem, bool) {
	batch := make([]archive.QueueItem, 0, n)
	for len(batch) < n {
		item, ok := <-items
		if !ok {
			return batch, true
		}
		batch = append(batch, item)
	}
	return batch, false
}

// processOne fetches, filters, indexes, and writes a single message. It
// returns wrote=true if a Record was actually written (false for skipped
// changeset mail).
func processOne(ctx context.Context, deps Dependencies, list string, item archive.QueueItem) (wrote bool, err error) {
	logger := logging.FromContext(ctx)

	mail, err := deps.Archive.Fetch(ctx, item.URL)
	if err != nil {
		return false, fmt.Errorf("fetch %s: %w", item.URL, err)
	}

	if shouldSkip(mail) {
		logger.InfoContext(ctx, "skipping changeset mail", slog.String("list", list), slog.String("month", mail.Month), slog.String("id", mail.ID))
		return false, nil
	}

	body := filterStopLines(mail.Body, deps.Params.StopLines)
	terms := indexer.Index(deps.Params, mail.Author, mail.Email, mail.Subject, body)
	terms = dropStopTerms(terms, deps.Params.StopTerms)

	record := store.NewRecord(mail, len(terms))
	if err := deps.Writer.PutMailAndTerms(ctx, record, terms); err != nil {
		return false, fmt.Errorf("write %s/%s: %w", mail.Month, mail.ID, err)
	}

	logger.InfoContext(ctx, "processed mail record", slog.String("list", list), slog.String("month", mail.Month), slog.String("id", mail.ID), slog.Int("terms", len(terms)))
	return true, nil
}
