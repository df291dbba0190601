package model

import "time"

// RawDocument is a successfully fetched page as written by the crawl.
// It is created once per fetched URL and never updated.
type RawDocument struct {
	// ID is the store-assigned row identifier. Zero before insertion.
	ID int64 `json:"id,omitempty"`

	// URL is the normalized URL the page was fetched from.
	URL string `json:"url"`

	// RawHTML is the response body decoded to UTF-8.
	RawHTML string `json:"raw_html"`

	// SourceName is the label of the seed the page descends from.
	SourceName string `json:"source_name"`

	// CrawledAt is the unix timestamp of the fetch.
	CrawledAt int64 `json:"crawled_at"`

	// RunID identifies the crawl invocation that stored the page.
	RunID string `json:"run_id,omitempty"`
}

// NewRawDocument creates a RawDocument stamped with the given time.
func NewRawDocument(task CrawlTask, rawHTML, runID string, crawledAt time.Time) *RawDocument {
	return &RawDocument{
		URL:        task.URL,
		RawHTML:    rawHTML,
		SourceName: task.SourceName,
		CrawledAt:  crawledAt.Unix(),
		RunID:      runID,
	}
}

// Size returns the size of the raw HTML in bytes.
func (d *RawDocument) Size() int64 {
	return int64(len(d.RawHTML))
}

// CleanedDocument is the plain-text form of a RawDocument.
type CleanedDocument struct {
	// ID is the store-assigned row identifier. Zero before insertion.
	ID int64 `json:"id,omitempty"`

	// URL is copied from the RawDocument.
	URL string `json:"url"`

	// CleanText is the tag-stripped, whitespace-collapsed text.
	CleanText string `json:"clean_text"`

	// ProcessedAt is the unix timestamp of the cleaning pass.
	ProcessedAt int64 `json:"processed_at"`
}

// Size returns the size of the clean text in bytes.
func (d *CleanedDocument) Size() int64 {
	return int64(len(d.CleanText))
}
