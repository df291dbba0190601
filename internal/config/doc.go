// Package config loads and validates the corpuscrawl configuration.
//
// A configuration file is YAML with three sections: db (where documents
// are stored), logic (crawl pacing, budget and scope) and targets (the
// seed URLs). LoadConfigFile decodes the file as written; Load overlays
// it on the defaults from NewConfig and validates the result. A Config is
// read-only once loaded.
package config
