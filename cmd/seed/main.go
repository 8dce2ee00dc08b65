// Command seed crawls a single mailing list to exhaustion, starting from
// its last committed checkpoint, and writes every message it finds to the
// store.
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

var (
	list          string
	configPath    string
	mailWorkers   int
	dbWorkers     int
	throttleSleep float64
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Crawl one mailing list from its checkpoint to exhaustion",
	RunE:  runSeed,
}

func init() {
	rootCmd.Flags().StringVar(&list, "list", "", "mailing list to crawl (required)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "optional YAML config overlay")
	rootCmd.Flags().IntVar(&mailWorkers, "mail_workers", 0, "crawl pool size (0 = use config default)")
	rootCmd.Flags().IntVar(&dbWorkers, "db_workers", 0, "write pool size (0 = use config default)")
	rootCmd.Flags().Float64Var(&throttleSleep, "throttle_sleep", 0, "seconds between batches (0 = use config default)")
	_ = rootCmd.MarkFlagRequired("list")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("seed: load config: %w", err)
	}
	if mailWorkers > 0 {
		cfg.MailWorkers = mailWorkers
	}
	if dbWorkers > 0 {
		cfg.DBWorkers = dbWorkers
	}
	if throttleSleep > 0 {
		cfg.ThrottleSleep = throttleSleep
	}

	logger := logging.New(slog.LevelInfo)
	ctx = logging.WithContext(ctx, logger)

	shutdown, err := tracing.Init(ctx, "mailarchive-seed")
	if err != nil {
		return fmt.Errorf("seed: init tracing: %w", err)
	}
	defer func() { _ = shutdown(ctx) }()

	dynamoClient, err := awsclient.NewDynamoDB(ctx, cfg.StoreRegion)
	if err != nil {
		return fmt.Errorf("seed: build dynamodb client: %w", err)
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

	logger.InfoContext(ctx, "starting seed crawl", slog.String("list", list))
	if err := ingest.RunSeed(ctx, deps, list); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	logger.InfoContext(ctx, "seed crawl complete", slog.String("list", list))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
