// Package main provides the entry point for the corpuscrawl CLI.
//
// corpuscrawl builds a text corpus from websites. The crawl command walks
// the configured sites breadth-first and stores every page; the clean
// command turns the stored HTML into plain text.
//
// Usage:
//
//	corpuscrawl init
//	corpuscrawl crawl corpuscrawl.yaml
//	corpuscrawl clean
//
// See --help for all available options.
package main

func main() {
	Execute()
}
