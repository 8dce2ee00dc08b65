// Command queryserver serves the read-side HTTP API over the Records and
// Terms tables: list/global search, browse, byauthor/byemail, and status.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mailarchive/indexer/internal/awsclient"
	"github.com/mailarchive/indexer/internal/config"
	"github.com/mailarchive/indexer/internal/logging"
	"github.com/mailarchive/indexer/internal/query"
	"github.com/mailarchive/indexer/internal/store"
	"github.com/mailarchive/indexer/internal/tracing"
)

const warmupTimeout = 5 * time.Second

var configPath string

var rootCmd = &cobra.Command{
	Use:   "queryserver",
	Short: "Serve the mailing list archive read API",
	RunE:  runServer,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "optional YAML config overlay")
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("queryserver: load config: %w", err)
	}

	logger := logging.New(slog.LevelInfo)
	ctx = logging.WithContext(ctx, logger)

	shutdown, err := tracing.Init(ctx, "mailarchive-queryserver")
	if err != nil {
		return fmt.Errorf("queryserver: init tracing: %w", err)
	}
	defer func() { _ = shutdown(ctx) }()

	dynamoClient, err := awsclient.NewDynamoDB(ctx, cfg.StoreRegion)
	if err != nil {
		return fmt.Errorf("queryserver: build dynamodb client: %w", err)
	}

	writer := store.NewWriter(dynamoClient, cfg.DBWorkers)
	repo := query.NewRepository(dynamoClient)
	router := query.NewRouter(repo, query.WriterStatusAdapter{Writer: writer})

	warmCtx, cancel := context.WithTimeout(ctx, warmupTimeout)
	_, _ = writer.GetStatus(warmCtx)
	cancel()

	logger.InfoContext(ctx, "listening", slog.String("addr", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, router); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("queryserver: serve: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
