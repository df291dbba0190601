package report

import (
	"fmt"
	"io"

	"github.com/nao1215/corpuscrawl/internal/cleaner"
	"github.com/nao1215/corpuscrawl/internal/crawler"
	"github.com/nao1215/corpuscrawl/internal/index"
)

// Writer outputs run summaries.
type Writer interface {
	// WriteCrawl outputs the summary of a crawl run.
	// Returns the number of bytes written and any error encountered.
	WriteCrawl(stats crawler.Stats) (int, error)

	// WriteCleaning outputs the statistics of a cleaning pass.
	WriteCleaning(stats cleaner.Statistics) (int, error)

	// WriteIndex outputs the statistics of an indexing run.
	WriteIndex(stats index.Statistics) (int, error)

	// WriteSearch outputs the documents matching one query.
	WriteSearch(result index.SearchResult) (int, error)
}

// MultiWriter writes to multiple Writers in order. It stops on the first
// error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteCrawl outputs the crawl summary to all Writers.
func (m *MultiWriter) WriteCrawl(stats crawler.Stats) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteCrawl(stats) })
}

// WriteCleaning outputs the cleaning statistics to all Writers.
func (m *MultiWriter) WriteCleaning(stats cleaner.Statistics) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteCleaning(stats) })
}

// WriteIndex outputs the indexing statistics to all Writers.
func (m *MultiWriter) WriteIndex(stats index.Statistics) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteIndex(stats) })
}

// WriteSearch outputs the search result to all Writers.
func (m *MultiWriter) WriteSearch(result index.SearchResult) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteSearch(result) })
}

// each calls write for every Writer, stopping on the first error.
func (m *MultiWriter) each(write func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := write(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// sizeUnits are the binary units used by FormatSize.
var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatSize renders a byte count with two decimals in the largest unit
// that keeps the value under 1024, e.g. "1.50 KB". Values beyond the
// gigabyte range stay in GB.
func FormatSize(bytes float64) string {
	unit := sizeUnits[0]
	for i, u := range sizeUnits {
		unit = u
		if bytes < 1024 || i == len(sizeUnits)-1 {
			break
		}
		bytes /= 1024
	}
	return fmt.Sprintf("%.2f %s", bytes, unit)
}
