// Command update sweeps every mailing list in the configured roster,
// sequentially, and records whether the sweep produced any new records in
// the singleton status row.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mailarchive/indexer/internal/archive"
	"github.com/mailarchive/indexer/internal/awsclient"
	"github.com/mailarchive/indexer/internal/config"
	"github.com/mailarchive/indexer/internal/indexer"
	"github.com/mailarchive/indexer/internal/ingest"
	"github.com/mailarchive/indexer/internal/logging"
	"github.com/mailarchive/indexer/internal/store"
	"github.com/mailarchive/indexer/internal/tracing"
)

const (
	fetchTimeout  = 20 * time.Second
	warmupTimeout = 5 * time.Second
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "update",
	Short: "Sweep the full mailing list roster for new messages",
	RunE:  runUpdate,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "optional YAML config overlay")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("update: load config: %w", err)
	}

	logger := logging.New(slog.LevelInfo)
	ctx = logging.WithContext(ctx, logger)

	shutdown, err := tracing.Init(ctx, "mailarchive-update")
	if err != nil {
		return fmt.Errorf("update: init tracing: %w", err)
	}
	defer func() { _ = shutdown(ctx) }()

	dynamoClient, err := awsclient.NewDynamoDB(ctx, cfg.StoreRegion)
	if err != nil {
		return fmt.Errorf("update: build dynamodb client: %w", err)
	}

	writer := store.NewWriter(dynamoClient, cfg.DBWorkers)

	warmCtx, cancel := context.WithTimeout(ctx, warmupTimeout)
	_, _ = writer.GetStatus(warmCtx)
	cancel()

	deps := ingest.Dependencies{
		Archive:       archive.NewClient(cfg.ArchiveBaseURL, fetchTimeout),
		Writer:        writer,
		Params:        indexer.DefaultParams(),
		MailWorkers:   cfg.MailWorkers,
		ThrottleSleep: cfg.ThrottleSleep,
	}

	logger.InfoContext(ctx, "starting update sweep", slog.Int("lists", len(cfg.Lists)))
	if err := ingest.RunUpdate(ctx, deps, cfg.Lists); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
