package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/corpuscrawl/internal/config"
	"github.com/nao1215/corpuscrawl/internal/crawler"
	"github.com/nao1215/corpuscrawl/internal/database"
	"github.com/nao1215/corpuscrawl/internal/fetch"
	"github.com/nao1215/corpuscrawl/internal/frontier"
	"github.com/nao1215/corpuscrawl/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <config>",
		Short: "Crawl the configured sites and store every page",
		Long: `Crawl reads a YAML configuration file, seeds the frontier with its
targets and fetches pages breadth-first until the frontier is empty or
logic.max_pages pages have been saved.

Only links whose host contains the seed's host are followed. Links starting
with one of logic.exclude_prefixes are skipped. Every fetched page is
appended to the raw table of the configured store.

Examples:
  # Create a configuration file, then crawl
  corpuscrawl init
  corpuscrawl crawl corpuscrawl.yaml

  # Show per-page debug logging
  corpuscrawl crawl -v corpuscrawl.yaml

  # Print the summary and also write a Markdown report with an outcome chart
  corpuscrawl crawl --markdown -o reports/crawl.md corpuscrawl.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	addReportFlags(cmd, "summary")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	opts, err := getReportOptions(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	logger := setupLogger(out, opts.verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := runCrawl(ctx, cfg, out, logger)
	if err != nil {
		return err
	}

	return writeReport(out, opts, func(w report.Writer) (int, error) {
		return w.WriteCrawl(stats)
	})
}

// runCrawl opens the store and runs one crawl. Interruption is not an
// error: the pages saved so far are kept and reported.
func runCrawl(ctx context.Context, cfg *config.Config, progress io.Writer, logger *slog.Logger) (crawler.Stats, error) {
	store, err := database.Open(cfg.Store, database.DefaultOptions())
	if err != nil {
		return crawler.Stats{}, fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	fetcher, err := fetch.New(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithProxy(cfg.ProxyAddress),
	)
	if err != nil {
		return crawler.Stats{}, fmt.Errorf("failed to create fetcher: %w", err)
	}

	f := frontier.New(cfg.MaxPages, cfg.ExcludePrefixes)
	f.Seed(cfg.Targets)

	logger.Info("store opened", "path", store.Path(), "targets", len(cfg.Targets))

	spider := crawler.NewSpider(fetcher, store, f,
		crawler.WithWorkers(cfg.Workers),
		crawler.WithDelay(cfg.Delay),
		crawler.WithLogger(logger),
		crawler.WithProgress(progress),
	)

	stats, err := spider.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("crawl interrupted", "pages_saved", stats.PagesSaved)
		return stats, nil
	}
	return stats, err
}
