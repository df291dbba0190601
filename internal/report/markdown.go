package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/corpuscrawl/internal/cleaner"
	"github.com/nao1215/corpuscrawl/internal/crawler"
	"github.com/nao1215/corpuscrawl/internal/index"
)

// MarkdownWriter outputs summaries in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteCrawl outputs the crawl summary in Markdown format.
func (w *MarkdownWriter) WriteCrawl(stats crawler.Stats) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + stats.RunID + "`"},
			{"Pages Saved", strconv.Itoa(stats.PagesSaved)},
			{"Fetch Attempts", strconv.Itoa(stats.Fetched)},
			{"HTTP Errors", strconv.Itoa(stats.HTTPErrors)},
			{"Network Errors", strconv.Itoa(stats.NetworkErrors)},
			{"Timeouts", strconv.Itoa(stats.Timeouts)},
			{"Store Errors", strconv.Itoa(stats.StoreErrors)},
			{"Links Enqueued", strconv.Itoa(stats.LinksEnqueued)},
			{"Elapsed", stats.Elapsed.Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")

	if stats.Fetched > 0 {
		w.writeOutcomeChart(md, stats)
	}

	switch {
	case stats.PagesSaved == 0:
		md.Warningf("No pages were saved from %d fetch attempt(s).", stats.Fetched)
	case stats.StoreErrors > 0:
		md.Cautionf("%d fetched page(s) could not be stored.", stats.StoreErrors)
	default:
		md.Tip("Crawl completed.")
	}
	md.PlainText("")

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// writeOutcomeChart writes a mermaid pie chart of fetch outcomes.
func (w *MarkdownWriter) writeOutcomeChart(md *markdown.Markdown, stats crawler.Stats) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Fetch Outcomes"),
		piechart.WithShowData(true),
	)

	outcomes := []struct {
		label string
		count int
	}{
		{"Saved", stats.PagesSaved},
		{"HTTP Error", stats.HTTPErrors},
		{"Network Error", stats.NetworkErrors},
		{"Timeout", stats.Timeouts},
		{"Store Error", stats.StoreErrors},
	}
	for _, s := range outcomes {
		if s.count > 0 {
			chart.LabelAndIntValue(s.label, uint64(s.count))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// WriteCleaning outputs the cleaning statistics in Markdown format.
func (w *MarkdownWriter) WriteCleaning(stats cleaner.Statistics) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Cleaning Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Documents Found", strconv.FormatInt(stats.Found, 10)},
			{"Documents Processed", strconv.Itoa(stats.Processed)},
			{"Documents Skipped", strconv.Itoa(stats.Skipped)},
			{"Total Raw Data", FormatSize(float64(stats.TotalRawBytes))},
			{"Total Clean Text", FormatSize(float64(stats.TotalCleanBytes))},
			{"Average Raw Document", FormatSize(stats.AvgRawBytes)},
			{"Average Text per Document", FormatSize(stats.AvgCleanBytes)},
		},
	})
	md.PlainText("")

	if stats.TotalRawBytes > 0 {
		ratio := float64(stats.TotalCleanBytes) / float64(stats.TotalRawBytes) * 100
		md.Note(fmt.Sprintf("Clean text is %.1f%% of the raw HTML volume.", ratio))
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteIndex outputs the indexing statistics in Markdown format.
func (w *MarkdownWriter) WriteIndex(stats index.Statistics) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Index Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Documents", strconv.Itoa(stats.Documents)},
			{"Total Text", FormatSize(float64(stats.TotalBytes))},
			{"Total Tokens", strconv.Itoa(stats.Tokens)},
			{"Average Token Length", fmt.Sprintf("%.2f chars", stats.AvgTokenLength)},
			{"Distinct Terms", strconv.Itoa(stats.Terms)},
			{"Indexing Time", fmt.Sprintf("%.2f s", stats.Elapsed.Seconds())},
			{"Tokenization Speed", fmt.Sprintf("%.2f KB/s", stats.KBPerSecond())},
		},
	})
	md.PlainText("")

	if len(stats.TopTerms) > 0 {
		md.H2("Term Frequencies")
		md.PlainText("")
		rows := make([][]string, 0, len(stats.TopTerms))
		for i, tf := range stats.TopTerms {
			rows = append(rows, []string{strconv.Itoa(i + 1), tf.Term, strconv.Itoa(tf.Frequency)})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Rank", "Term", "Frequency"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if stats.Documents == 0 {
		md.Warningf("No cleaned documents were indexed.")
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteSearch outputs the search result in Markdown format.
func (w *MarkdownWriter) WriteSearch(result index.SearchResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Search Results")
	md.PlainText("")
	md.PlainTextf("Query: `%s`", result.Query)
	md.PlainText("")

	if len(result.Matches) == 0 {
		md.Note("No documents matched.")
		md.PlainText("")
	} else {
		md.PlainTextf("Documents found: %d", len(result.Matches))
		md.PlainText("")
		urls := make([]string, 0, len(result.Matches))
		for _, m := range result.Matches {
			urls = append(urls, m.URL)
		}
		md.BulletList(urls...)
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by corpuscrawl*")
}
