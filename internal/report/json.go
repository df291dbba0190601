package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/corpuscrawl/internal/cleaner"
	"github.com/nao1215/corpuscrawl/internal/crawler"
	"github.com/nao1215/corpuscrawl/internal/index"
)

// JSONWriter outputs summaries in JSON format.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// CrawlSummary is the JSON form of crawler.Stats.
type CrawlSummary struct {
	RunID         string  `json:"run_id"`
	PagesSaved    int     `json:"pages_saved"`
	Fetched       int     `json:"fetched"`
	HTTPErrors    int     `json:"http_errors"`
	NetworkErrors int     `json:"network_errors"`
	Timeouts      int     `json:"timeouts"`
	StoreErrors   int     `json:"store_errors"`
	LinksEnqueued int     `json:"links_enqueued"`
	ElapsedSec    float64 `json:"elapsed_seconds"`
}

// CleaningSummary is the JSON form of cleaner.Statistics.
type CleaningSummary struct {
	Found           int64   `json:"found"`
	Processed       int     `json:"processed"`
	Skipped         int     `json:"skipped"`
	TotalRawBytes   int64   `json:"total_raw_bytes"`
	TotalCleanBytes int64   `json:"total_clean_bytes"`
	AvgRawBytes     float64 `json:"avg_raw_bytes"`
	AvgCleanBytes   float64 `json:"avg_clean_bytes"`
	ElapsedSec      float64 `json:"elapsed_seconds"`
}

// IndexSummary is the JSON form of index.Statistics.
type IndexSummary struct {
	Documents      int                   `json:"documents"`
	TotalBytes     int64                 `json:"total_bytes"`
	Tokens         int                   `json:"tokens"`
	AvgTokenLength float64               `json:"avg_token_length"`
	Terms          int                   `json:"terms"`
	ElapsedSec     float64               `json:"elapsed_seconds"`
	KBPerSecond    float64               `json:"kb_per_second"`
	TopTerms       []index.TermFrequency `json:"top_terms"`
}

// WriteCrawl outputs the crawl summary in JSON format.
func (w *JSONWriter) WriteCrawl(stats crawler.Stats) (int, error) {
	return w.writeJSON(CrawlSummary{
		RunID:         stats.RunID,
		PagesSaved:    stats.PagesSaved,
		Fetched:       stats.Fetched,
		HTTPErrors:    stats.HTTPErrors,
		NetworkErrors: stats.NetworkErrors,
		Timeouts:      stats.Timeouts,
		StoreErrors:   stats.StoreErrors,
		LinksEnqueued: stats.LinksEnqueued,
		ElapsedSec:    stats.Elapsed.Seconds(),
	})
}

// WriteCleaning outputs the cleaning statistics in JSON format.
func (w *JSONWriter) WriteCleaning(stats cleaner.Statistics) (int, error) {
	return w.writeJSON(CleaningSummary{
		Found:           stats.Found,
		Processed:       stats.Processed,
		Skipped:         stats.Skipped,
		TotalRawBytes:   stats.TotalRawBytes,
		TotalCleanBytes: stats.TotalCleanBytes,
		AvgRawBytes:     stats.AvgRawBytes,
		AvgCleanBytes:   stats.AvgCleanBytes,
		ElapsedSec:      stats.Elapsed.Seconds(),
	})
}

// WriteIndex outputs the indexing statistics in JSON format.
func (w *JSONWriter) WriteIndex(stats index.Statistics) (int, error) {
	topTerms := stats.TopTerms
	if topTerms == nil {
		topTerms = []index.TermFrequency{}
	}
	return w.writeJSON(IndexSummary{
		Documents:      stats.Documents,
		TotalBytes:     stats.TotalBytes,
		Tokens:         stats.Tokens,
		AvgTokenLength: stats.AvgTokenLength,
		Terms:          stats.Terms,
		ElapsedSec:     stats.Elapsed.Seconds(),
		KBPerSecond:    stats.KBPerSecond(),
		TopTerms:       topTerms,
	})
}

// WriteSearch outputs the search result in JSON format.
func (w *JSONWriter) WriteSearch(result index.SearchResult) (int, error) {
	if result.Matches == nil {
		result.Matches = []index.Match{}
	}
	return w.writeJSON(result)
}

// writeJSON marshals v and writes it with a trailing newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
