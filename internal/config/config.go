package config

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/corpuscrawl/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "corpuscrawl"

	// DefaultDelay is the pause enforced between two fetches.
	DefaultDelay = 1 * time.Second

	// DefaultMaxPages is the page budget used when logic.max_pages is absent.
	DefaultMaxPages = 1000

	// DefaultTimeout bounds a single fetch, connection and body included.
	DefaultTimeout = 10 * time.Second

	// DefaultWorkers is the number of concurrent fetch workers.
	// A single worker gives a strict breadth-first fetch order.
	DefaultWorkers = 1

	// DefaultUserAgent identifies corpuscrawl in HTTP requests.
	DefaultUserAgent = "corpuscrawl/1.0 (+https://github.com/nao1215/corpuscrawl)"

	// DefaultMaxBodySize caps how much of a response body is read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultHost and DefaultPort mirror a conventional document store address.
	// The embedded SQLite store does not connect anywhere; the values are
	// kept so existing configuration files load unchanged.
	DefaultHost = "localhost"
	DefaultPort = 27017

	// DefaultDatabaseName is the SQLite file name stem.
	DefaultDatabaseName = "corpus"

	// DefaultCollectionName is the table holding raw documents.
	DefaultCollectionName = "pages"

	// CleanedCollectionPrefix is prepended to the raw table name to name the
	// table holding cleaned documents ("pages" -> "parsed_pages").
	CleanedCollectionPrefix = "parsed_"
)

// identifierPattern restricts database and table names to plain SQL identifiers.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// StoreConfig says where documents are written.
type StoreConfig struct {
	// Host and Port are accepted for compatibility with networked stores.
	Host string
	Port int

	// DatabaseName is the file name stem of the SQLite database.
	DatabaseName string

	// CollectionName is the table of raw documents.
	CollectionName string

	// Dir is the directory holding the database file.
	// Defaults to the XDG data directory.
	Dir string
}

// DefaultStoreConfig returns the fixed store location used by the cleaning
// pass when no configuration file is given.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Host:           DefaultHost,
		Port:           DefaultPort,
		DatabaseName:   DefaultDatabaseName,
		CollectionName: DefaultCollectionName,
		Dir:            XDGDataDir(),
	}
}

// CleanedCollectionName returns the table name of cleaned documents.
func (s StoreConfig) CleanedCollectionName() string {
	return CleanedCollectionPrefix + s.CollectionName
}

// Path returns the full path of the SQLite database file.
func (s StoreConfig) Path() string {
	return filepath.Join(s.Dir, s.DatabaseName+".db")
}

// Validate checks the store names and port.
func (s StoreConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, s.Port)
	}
	if !identifierPattern.MatchString(s.DatabaseName) {
		return fmt.Errorf("%w: database_name %q", ErrInvalidName, s.DatabaseName)
	}
	if !identifierPattern.MatchString(s.CollectionName) {
		return fmt.Errorf("%w: collection_name %q", ErrInvalidName, s.CollectionName)
	}
	if s.Dir == "" {
		return ErrEmptyStoreDir
	}
	return nil
}

// Config holds everything a crawl needs.
type Config struct {
	// Store is where raw and cleaned documents live.
	Store StoreConfig

	// Targets are the seeds, in the order they are enqueued.
	Targets []model.Target

	// Delay is the minimum interval between two fetches across all workers.
	Delay time.Duration

	// MaxPages is the number of pages to save before the crawl stops.
	// Zero means no page is fetched.
	MaxPages int

	// ExcludePrefixes are URL prefixes that are never enqueued.
	ExcludePrefixes []string

	// Workers is the number of concurrent fetch workers.
	Workers int

	// Timeout bounds each fetch.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// MaxBodySize caps how much of a response body is read, in bytes.
	MaxBodySize int64

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string
}

// NewConfig creates a Config filled with default values and no targets.
func NewConfig() *Config {
	return &Config{
		Store:       DefaultStoreConfig(),
		Delay:       DefaultDelay,
		MaxPages:    DefaultMaxPages,
		Workers:     DefaultWorkers,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for corpuscrawl.
// On Linux: ~/.local/share/corpuscrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for corpuscrawl.
// On Linux: ~/.config/corpuscrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	for i, target := range c.Targets {
		if err := validateTarget(target); err != nil {
			return fmt.Errorf("targets[%d]: %w", i, err)
		}
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.ProxyAddress != "" && !isValidProxyAddress(c.ProxyAddress) {
		return fmt.Errorf("%w: %q", ErrInvalidProxyAddress, c.ProxyAddress)
	}

	return c.Store.Validate()
}

// validateTarget checks that a seed is an absolute http(s) URL with a label.
func validateTarget(target model.Target) error {
	if target.SourceName == "" {
		return fmt.Errorf("%w: missing source_name for %q", ErrInvalidTarget, target.URL)
	}
	u, err := url.Parse(target.URL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme in %q", ErrInvalidTarget, target.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host in %q", ErrInvalidTarget, target.URL)
	}
	return nil
}

// isValidProxyAddress checks if the address is in "host:port" format with a
// port between 1 and 65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}
