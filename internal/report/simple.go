package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/corpuscrawl/internal/cleaner"
	"github.com/nao1215/corpuscrawl/internal/crawler"
	"github.com/nao1215/corpuscrawl/internal/index"
)

// ruleWidth is the width of the separator lines.
const ruleWidth = 40

// SimpleWriter outputs human-readable text summaries.
type SimpleWriter struct {
	baseWriter

	// verbose adds the per-outcome breakdown to crawl summaries.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteCrawl outputs the crawl summary.
func (w *SimpleWriter) WriteCrawl(stats crawler.Stats) (int, error) {
	var sb strings.Builder

	sb.WriteString("Crawl finished!\n")
	fmt.Fprintf(&sb, "Total pages saved: %d\n", stats.PagesSaved)

	if w.verbose {
		fmt.Fprintf(&sb, "  Run ID:          %s\n", stats.RunID)
		fmt.Fprintf(&sb, "  Fetch attempts:  %d\n", stats.Fetched)
		fmt.Fprintf(&sb, "  HTTP errors:     %d\n", stats.HTTPErrors)
		fmt.Fprintf(&sb, "  Network errors:  %d\n", stats.NetworkErrors)
		fmt.Fprintf(&sb, "  Timeouts:        %d\n", stats.Timeouts)
		fmt.Fprintf(&sb, "  Store errors:    %d\n", stats.StoreErrors)
		fmt.Fprintf(&sb, "  Links enqueued:  %d\n", stats.LinksEnqueued)
		fmt.Fprintf(&sb, "  Elapsed:         %s\n", stats.Elapsed.Round(time.Millisecond))
	}

	return io.WriteString(w.output, sb.String())
}

// WriteCleaning outputs the cleaning statistics.
func (w *SimpleWriter) WriteCleaning(stats cleaner.Statistics) (int, error) {
	var sb strings.Builder
	rule := strings.Repeat("=", ruleWidth)

	sb.WriteString("\n" + rule + "\n")
	sb.WriteString("Cleaning statistics\n")
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "Documents processed:       %d\n", stats.Processed)
	fmt.Fprintf(&sb, "Total raw data:            %s\n", FormatSize(float64(stats.TotalRawBytes)))
	fmt.Fprintf(&sb, "Total clean text:          %s\n", FormatSize(float64(stats.TotalCleanBytes)))
	fmt.Fprintf(&sb, "Average raw document:      %s\n", FormatSize(stats.AvgRawBytes))
	fmt.Fprintf(&sb, "Average text per document: %s\n", FormatSize(stats.AvgCleanBytes))
	if w.verbose {
		fmt.Fprintf(&sb, "Documents skipped:         %d\n", stats.Skipped)
		fmt.Fprintf(&sb, "Elapsed:                   %s\n", stats.Elapsed.Round(time.Millisecond))
	}
	sb.WriteString(rule + "\n")

	return io.WriteString(w.output, sb.String())
}

// WriteIndex outputs the indexing statistics followed by the rank and
// frequency of the most frequent stems.
func (w *SimpleWriter) WriteIndex(stats index.Statistics) (int, error) {
	var sb strings.Builder
	rule := strings.Repeat("=", ruleWidth)

	sb.WriteString("\n" + rule + "\n")
	sb.WriteString("Index statistics\n")
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "Documents:            %d\n", stats.Documents)
	fmt.Fprintf(&sb, "Total text:           %s\n", FormatSize(float64(stats.TotalBytes)))
	fmt.Fprintf(&sb, "Total tokens:         %d\n", stats.Tokens)
	fmt.Fprintf(&sb, "Average token length: %.2f chars\n", stats.AvgTokenLength)
	fmt.Fprintf(&sb, "Distinct terms:       %d\n", stats.Terms)
	fmt.Fprintf(&sb, "Indexing time:        %.2f s\n", stats.Elapsed.Seconds())
	fmt.Fprintf(&sb, "Tokenization speed:   %.2f KB/s\n", stats.KBPerSecond())
	sb.WriteString(rule + "\n")

	if len(stats.TopTerms) > 0 {
		sb.WriteString("\nTerm frequencies (rank | term | frequency):\n")
		for i, tf := range stats.TopTerms {
			fmt.Fprintf(&sb, "%d | %s | %d\n", i+1, tf.Term, tf.Frequency)
		}
	}

	return io.WriteString(w.output, sb.String())
}

// WriteSearch outputs the number of matching documents and their URLs.
func (w *SimpleWriter) WriteSearch(result index.SearchResult) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Documents found: %d\n", len(result.Matches))
	for _, m := range result.Matches {
		if w.verbose {
			fmt.Fprintf(&sb, "- [%d] %s\n", m.ID, m.URL)
			continue
		}
		fmt.Fprintf(&sb, "- %s\n", m.URL)
	}

	return io.WriteString(w.output, sb.String())
}
