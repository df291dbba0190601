package config

import "errors"

// Configuration errors. All of them are fatal: the crawl does not start.
// Validate wraps some of them with the offending value; use errors.Is.
var (
	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrNoTarget is returned when the targets list is empty.
	ErrNoTarget = errors.New("no target specified: add at least one entry under targets")

	// ErrInvalidTarget is returned for a seed without an http(s) URL or a source_name.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrInvalidMaxPages is returned when logic.max_pages is negative.
	ErrInvalidMaxPages = errors.New("invalid max_pages: must be non-negative")

	// ErrInvalidDelay is returned when logic.delay is negative.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidTimeout is returned when logic.timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidWorkers is returned when logic.workers is less than one.
	ErrInvalidWorkers = errors.New("invalid workers: must be at least 1")

	// ErrInvalidMaxBodySize is returned when logic.max_body_size is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrInvalidProxyAddress is returned when logic.proxy is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrInvalidPort is returned when db.port is outside 0..65535.
	ErrInvalidPort = errors.New("invalid db port")

	// ErrInvalidName is returned when a database or collection name is not a
	// plain identifier.
	ErrInvalidName = errors.New("invalid name: use letters, digits and underscores")

	// ErrEmptyStoreDir is returned when no store directory could be determined.
	ErrEmptyStoreDir = errors.New("store directory is empty")
)
