package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// TestFetchOutcome tests the outcome constructors and helpers.
func TestFetchOutcome(t *testing.T) {
	t.Parallel()

	t.Run("success is OK", func(t *testing.T) {
		t.Parallel()

		o := Success(200, "<p>hi</p>", "text/html")
		if !o.OK() {
			t.Error("expected success outcome to be OK")
		}
		if o.Kind != OutcomeSuccess {
			t.Errorf("expected kind success, got %s", o.Kind)
		}
		if !strings.Contains(o.String(), "9 bytes") {
			t.Errorf("expected body size in %q", o.String())
		}
	})

	t.Run("failures are not OK", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name    string
			outcome FetchOutcome
			want    string
		}{
			{name: "http error", outcome: HTTPError(404), want: "status 404"},
			{name: "network error", outcome: NetworkError(errors.New("refused")), want: "network_error: refused"},
			{name: "timeout", outcome: Timeout(errors.New("deadline")), want: "timeout: deadline"},
			{name: "timeout without cause", outcome: FetchOutcome{Kind: OutcomeTimeout}, want: "timeout"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				if tt.outcome.OK() {
					t.Error("expected outcome not to be OK")
				}
				if got := tt.outcome.String(); got != tt.want {
					t.Errorf("got %q, want %q", got, tt.want)
				}
			})
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()

		if got := OutcomeKind(42).String(); got != "unknown" {
			t.Errorf("got %q, want unknown", got)
		}
	})
}

// TestCrawlTaskChild tests that children inherit source and scope.
func TestCrawlTaskChild(t *testing.T) {
	t.Parallel()

	parent := CrawlTask{URL: "https://example.com", SourceName: "ex", BaseDomain: "example.com"}
	child := parent.Child("https://example.com/about")

	if child.URL != "https://example.com/about" {
		t.Errorf("unexpected URL %q", child.URL)
	}
	if child.SourceName != parent.SourceName || child.BaseDomain != parent.BaseDomain {
		t.Errorf("child did not inherit source/scope: %+v", child)
	}
	if parent.URL != "https://example.com" {
		t.Error("parent must not be modified")
	}
}

// TestDocuments tests document construction and size accounting.
func TestDocuments(t *testing.T) {
	t.Parallel()

	task := CrawlTask{URL: "https://example.com", SourceName: "ex", BaseDomain: "example.com"}
	at := time.Unix(1700000000, 0)

	raw := NewRawDocument(task, "Привет", "run-1", at)
	if raw.CrawledAt != 1700000000 {
		t.Errorf("unexpected CrawledAt %d", raw.CrawledAt)
	}
	if raw.SourceName != "ex" || raw.RunID != "run-1" {
		t.Errorf("unexpected document %+v", raw)
	}
	// Cyrillic letters are two bytes each in UTF-8.
	if raw.Size() != 12 {
		t.Errorf("expected 12 bytes, got %d", raw.Size())
	}

	cleaned := &CleanedDocument{URL: raw.URL, CleanText: "abc"}
	if cleaned.Size() != 3 {
		t.Errorf("expected 3 bytes, got %d", cleaned.Size())
	}
}
