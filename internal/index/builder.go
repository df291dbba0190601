package index

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/nao1215/corpuscrawl/internal/model"
)

// DefaultTopTerms is the number of most frequent stems kept in Statistics.
const DefaultTopTerms = 10

// progressInterval is how many documents are indexed between progress logs.
const progressInterval = 100

// Source is the part of the document store read by a Builder.
type Source interface {
	IterateCleaned(ctx context.Context) iter.Seq2[model.CleanedDocument, error]
}

// Statistics summarizes an indexing run. Sizes are in bytes of UTF-8 text,
// token lengths in runes.
type Statistics struct {
	// Documents is the number of cleaned documents indexed.
	Documents int

	// TotalBytes is the size of all indexed text.
	TotalBytes int64

	// Tokens is the number of tokens found.
	Tokens int

	// TokenRunes is the combined length of all tokens.
	TokenRunes int

	// AvgTokenLength is TokenRunes / Tokens.
	AvgTokenLength float64

	// Terms is the number of distinct stems.
	Terms int

	// TopTerms are the most frequent stems, most frequent first.
	TopTerms []TermFrequency

	// Elapsed is the wall time spent tokenizing and indexing.
	Elapsed time.Duration
}

// KBPerSecond returns the indexing throughput in kilobytes of text per
// second, or zero when no time was measured.
func (s Statistics) KBPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalBytes) / 1024 / s.Elapsed.Seconds()
}

// Builder reads every cleaned document from a Source into an Index.
type Builder struct {
	source   Source
	logger   *slog.Logger
	topTerms int
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithTopTerms sets how many frequent stems Statistics carries.
// Zero keeps every stem.
func WithTopTerms(n int) Option {
	return func(b *Builder) {
		if n >= 0 {
			b.topTerms = n
		}
	}
}

// NewBuilder creates a Builder over source.
func NewBuilder(source Source, opts ...Option) *Builder {
	b := &Builder{
		source:   source,
		logger:   slog.Default(),
		topTerms: DefaultTopTerms,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build indexes every cleaned document. A store error aborts the build;
// the partial index and its statistics are returned with it.
func (b *Builder) Build(ctx context.Context) (*Index, Statistics, error) {
	start := time.Now()
	ix := New()
	var stats Statistics

	for doc, err := range b.source.IterateCleaned(ctx) {
		if err != nil {
			return ix, b.finish(ix, stats, start), err
		}

		tokens, runes := ix.Add(doc.ID, doc.URL, doc.CleanText)
		stats.Documents++
		stats.TotalBytes += doc.Size()
		stats.Tokens += tokens
		stats.TokenRunes += runes

		if stats.Documents%progressInterval == 0 {
			b.logger.Info("indexing progress", "documents", stats.Documents, "tokens", stats.Tokens)
		}
	}

	stats = b.finish(ix, stats, start)
	b.logger.Info("indexing finished",
		"documents", stats.Documents,
		"tokens", stats.Tokens,
		"terms", stats.Terms,
		"elapsed", stats.Elapsed,
	)
	return ix, stats, nil
}

// finish fills in the derived statistics.
func (b *Builder) finish(ix *Index, stats Statistics, start time.Time) Statistics {
	if stats.Tokens > 0 {
		stats.AvgTokenLength = float64(stats.TokenRunes) / float64(stats.Tokens)
	}
	stats.Terms = ix.Terms()
	stats.TopTerms = ix.TopTerms(b.topTerms)
	stats.Elapsed = time.Since(start)
	return stats
}
