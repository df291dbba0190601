package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/corpuscrawl/internal/config"
	"github.com/nao1215/corpuscrawl/internal/database"
	"github.com/nao1215/corpuscrawl/internal/index"
	"github.com/nao1215/corpuscrawl/internal/report"
)

// NewIndexCmd creates the index command.
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index the cleaned text and print corpus statistics",
		Long: `Index tokenizes every cleaned document into lower-case Russian words,
stems them and builds an inverted index in memory. It prints the number of
documents, text volume, token count, average token length, indexing time
and throughput, followed by the most frequent terms by rank.

The store is selected the same way as for clean.

Examples:
  # Index the default store
  corpuscrawl index

  # List the 50 most frequent terms of a configured store
  corpuscrawl index -c corpuscrawl.yaml --top 50

  # List every term frequency as JSON
  corpuscrawl index --json --top 0`,
		Args: cobra.NoArgs,
		RunE: runIndexCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file whose db section selects the store")
	cmd.Flags().IntP("top", "t", index.DefaultTopTerms,
		"Number of most frequent terms to list (0 lists all)")
	addReportFlags(cmd, "statistics")

	return cmd
}

// runIndexCmd executes the index command.
func runIndexCmd(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	top, err := cmd.Flags().GetInt("top")
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

	_, stats, err := buildIndex(cmd.Context(), storeCfg, logger, index.WithTopTerms(top))
	if err != nil {
		return err
	}
	if stats.Documents == 0 {
		logger.Warn("no cleaned documents to index, run clean first")
	}

	return writeReport(out, opts, func(w report.Writer) (int, error) {
		return w.WriteIndex(stats)
	})
}

// buildIndex opens an existing store and indexes its cleaned documents.
func buildIndex(ctx context.Context, storeCfg config.StoreConfig, logger *slog.Logger, opts ...index.Option) (*index.Index, index.Statistics, error) {
	var (
		ix    *index.Index
		stats index.Statistics
	)
	opts = append([]index.Option{index.WithLogger(logger)}, opts...)

	err := withExistingStore(ctx, storeCfg, logger, func(ctx context.Context, store *database.Store) error {
		var err error
		ix, stats, err = index.NewBuilder(store, opts...).Build(ctx)
		return err
	})
	return ix, stats, err
}
