package query

import (
	"context"

	"github.com/mailarchive/indexer/internal/store"
)

// WriterStatusAdapter adapts a *store.Writer to StatusReader so the query
// server can read the singleton status row through the same writer the
// ingest orchestrator uses to update it.
type WriterStatusAdapter struct {
	Writer *store.Writer
}

func (a WriterStatusAdapter) Status(ctx context.Context) (string, string, error) {
	s, err := a.Writer.GetStatus(ctx)
	if err != nil {
		return "", "", err
	}
	return s.LastCheck, s.LastUpdate, nil
}
