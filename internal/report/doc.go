// Package report renders crawl and cleaning summaries.
//
// Writers:
//   - SimpleWriter: plain text for the terminal
//   - MarkdownWriter: Markdown with a Mermaid chart of fetch outcomes
//   - JSONWriter: structured JSON for other tools
//
// All writers implement Writer and can be combined with MultiWriter.
package report
