package cleaner

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/nao1215/corpuscrawl/internal/model"
)

// ErrEmptyStore is returned when there are no raw documents to clean.
var ErrEmptyStore = errors.New("no documents found")

// progressInterval is how many documents are processed between progress logs.
const progressInterval = 10

// Store is the part of the document store used by a cleaning pass.
type Store interface {
	CountRaw(ctx context.Context) (int64, error)
	ClearCleaned(ctx context.Context) (int64, error)
	IterateRaw(ctx context.Context) iter.Seq2[model.RawDocument, error]
	InsertCleaned(ctx context.Context, doc *model.CleanedDocument) error
}

// Statistics summarizes a cleaning pass. Sizes are in bytes of UTF-8 text.
type Statistics struct {
	// Found is the number of raw documents present when the pass started.
	Found int64

	// Processed is the number of cleaned documents written.
	Processed int

	// Skipped counts raw documents with empty HTML.
	Skipped int

	TotalRawBytes   int64
	TotalCleanBytes int64
	AvgRawBytes     float64
	AvgCleanBytes   float64

	// Elapsed is the wall time of the pass.
	Elapsed time.Duration
}

// Pass rebuilds the cleaned collection from the raw collection.
type Pass struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Pass.
type Option func(*Pass)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pass) {
		p.logger = logger
	}
}

// WithClock sets the clock used for ProcessedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Pass) {
		p.now = now
	}
}

// NewPass creates a cleaning pass over store.
func NewPass(store Store, opts ...Option) *Pass {
	p := &Pass{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run clears the cleaned collection and writes one cleaned document per
// non-empty raw document. When the raw collection is empty it returns
// ErrEmptyStore without writing anything. Any store error aborts the pass;
// the statistics gathered so far are returned with it.
func (p *Pass) Run(ctx context.Context) (Statistics, error) {
	start := time.Now()
	var stats Statistics

	found, err := p.store.CountRaw(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to count raw documents: %w", err)
	}
	if found == 0 {
		return stats, ErrEmptyStore
	}
	stats.Found = found

	removed, err := p.store.ClearCleaned(ctx)
	if err != nil {
		return stats, err
	}
	p.logger.Info("cleaning started", "documents", found, "cleared", removed)

	for raw, err := range p.store.IterateRaw(ctx) {
		if err != nil {
			return p.finish(stats, start), err
		}
		if raw.RawHTML == "" {
			stats.Skipped++
			p.logger.Debug("empty document skipped", "url", raw.URL)
			continue
		}

		doc := &model.CleanedDocument{
			URL:         raw.URL,
			CleanText:   ExtractText(raw.RawHTML),
			ProcessedAt: p.now().Unix(),
		}
		if err := p.store.InsertCleaned(ctx, doc); err != nil {
			return p.finish(stats, start), err
		}

		stats.Processed++
		stats.TotalRawBytes += raw.Size()
		stats.TotalCleanBytes += doc.Size()

		if stats.Processed%progressInterval == 0 {
			p.logger.Info("cleaning progress", "processed", stats.Processed, "total", found)
		}
	}

	stats = p.finish(stats, start)
	p.logger.Info("cleaning finished",
		"processed", stats.Processed,
		"skipped", stats.Skipped,
		"elapsed", stats.Elapsed,
	)
	return stats, nil
}

// finish fills in averages and elapsed time.
func (p *Pass) finish(stats Statistics, start time.Time) Statistics {
	if stats.Processed > 0 {
		stats.AvgRawBytes = float64(stats.TotalRawBytes) / float64(stats.Processed)
		stats.AvgCleanBytes = float64(stats.TotalCleanBytes) / float64(stats.Processed)
	}
	stats.Elapsed = time.Since(start)
	return stats
}
