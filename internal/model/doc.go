// Package model defines the core data structures used throughout corpuscrawl.
//
// This package contains the following main types:
//   - Target: A seed URL and the label of the source it belongs to
//   - CrawlTask: A unit of work handed out by the frontier
//   - FetchOutcome: The classified result of a single HTTP GET
//   - RawDocument: A fetched page as stored by the crawl
//   - CleanedDocument: The plain-text form of a RawDocument
//
// The models live in their own package so that the frontier, crawler,
// cleaner and database packages can share them without import cycles.
package model
