package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/corpuscrawl/internal/cleaner"
	"github.com/nao1215/corpuscrawl/internal/config"
	"github.com/nao1215/corpuscrawl/internal/database"
	"github.com/nao1215/corpuscrawl/internal/report"
)

// NewCleanCmd creates the clean command.
func NewCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Extract plain text from every stored page",
		Long: `Clean reads every raw page from the store, strips the markup and writes
the text to the cleaned table, replacing its previous contents. Size
statistics are printed at the end.

Without --config, corpuscrawl.yaml is looked up in the current directory
and then in the XDG config directory. When neither exists the default
store is used: corpus.db in the XDG data directory, tables pages and
parsed_pages.

Examples:
  # Clean the default store
  corpuscrawl clean

  # Clean the store named in a crawl configuration
  corpuscrawl clean -c corpuscrawl.yaml

  # Print the statistics and also write them as Markdown to a file
  corpuscrawl clean --markdown -o reports/cleaning.md`,
		Args: cobra.NoArgs,
		RunE: runCleanCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file whose db section selects the store")
	addReportFlags(cmd, "statistics")

	return cmd
}

// runCleanCmd executes the clean command.
func runCleanCmd(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	opts, err := getReportOptions(cmd)
	if err != nil {
		return err
	}

	storeCfg, err := resolveStoreConfig(configPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	logger := setupLogger(out, opts.verbose)

	stats, err := runClean(cmd.Context(), storeCfg, logger)
	if errors.Is(err, cleaner.ErrEmptyStore) {
		logger.Error("nothing to clean", "error", err)
		return nil
	}
	if err != nil {
		return err
	}

	return writeReport(out, opts, func(w report.Writer) (int, error) {
		return w.WriteCleaning(stats)
	})
}

// runClean opens an existing store and runs one cleaning pass.
func runClean(ctx context.Context, storeCfg config.StoreConfig, logger *slog.Logger) (cleaner.Statistics, error) {
	var stats cleaner.Statistics
	err := withExistingStore(ctx, storeCfg, logger, func(ctx context.Context, store *database.Store) error {
		var err error
		stats, err = cleaner.NewPass(store, cleaner.WithLogger(logger)).Run(ctx)
		return err
	})
	return stats, err
}
