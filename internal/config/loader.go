package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/corpuscrawl/internal/model"
)

// File represents the structure of a configuration file as written.
// Optional numeric keys are pointers so that an absent key can be told
// apart from an explicit zero.
type File struct {
	DB      DBSection      `yaml:"db"`
	Logic   LogicSection   `yaml:"logic"`
	Targets []model.Target `yaml:"targets"`
}

// DBSection is the db key of the configuration file.
type DBSection struct {
	Host           string `yaml:"host,omitempty"`
	Port           *int   `yaml:"port,omitempty"`
	DatabaseName   string `yaml:"database_name,omitempty"`
	CollectionName string `yaml:"collection_name,omitempty"`
	Dir            string `yaml:"dir,omitempty"`
}

// LogicSection is the logic key of the configuration file.
type LogicSection struct {
	// Delay is in seconds and may be fractional.
	Delay           *float64 `yaml:"delay,omitempty"`
	MaxPages        *int     `yaml:"max_pages,omitempty"`
	ExcludePrefixes []string `yaml:"exclude_prefixes,omitempty"`
	Workers         *int     `yaml:"workers,omitempty"`
	// Timeout is in seconds and may be fractional.
	Timeout     *float64 `yaml:"timeout,omitempty"`
	UserAgent   string   `yaml:"user_agent,omitempty"`
	MaxBodySize *int64   `yaml:"max_body_size,omitempty"`
	Proxy       string   `yaml:"proxy,omitempty"`
}

// DefaultConfigFile is the configuration file name looked up when no path
// is given.
const DefaultConfigFile = "corpuscrawl.yaml"

// FindConfigFile returns the configuration file to use.
// An explicit configPath is returned if it exists. Otherwise
// DefaultConfigFile is looked up in the current directory, then in the XDG
// config directory. It returns "" when nothing is found.
func FindConfigFile(configPath string) string {
	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	dirs = append(dirs, XDGConfigDir())
	return findConfigFile(configPath, dirs...)
}

func findConfigFile(configPath string, dirs ...string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}
	for _, dir := range dirs {
		candidate := filepath.Join(dir, DefaultConfigFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// LoadConfigFile decodes a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &f, nil
}

// Load reads the file at path, overlays it on the defaults and validates
// the result.
func Load(path string) (*Config, error) {
	f, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}

	cfg := NewConfig()
	f.Apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error in %s: %w", path, err)
	}
	return cfg, nil
}

// Apply copies every key present in the file onto cfg.
func (f *File) Apply(cfg *Config) {
	f.DB.apply(&cfg.Store)

	logic := f.Logic
	if logic.Delay != nil {
		cfg.Delay = secondsToDuration(*logic.Delay)
	}
	if logic.MaxPages != nil {
		cfg.MaxPages = *logic.MaxPages
	}
	if len(logic.ExcludePrefixes) > 0 {
		cfg.ExcludePrefixes = append([]string(nil), logic.ExcludePrefixes...)
	}
	if logic.Workers != nil {
		cfg.Workers = *logic.Workers
	}
	if logic.Timeout != nil {
		cfg.Timeout = secondsToDuration(*logic.Timeout)
	}
	if logic.UserAgent != "" {
		cfg.UserAgent = logic.UserAgent
	}
	if logic.MaxBodySize != nil {
		cfg.MaxBodySize = *logic.MaxBodySize
	}
	if logic.Proxy != "" {
		cfg.ProxyAddress = logic.Proxy
	}

	cfg.Targets = append([]model.Target(nil), f.Targets...)
}

// StoreConfig returns the store location described by the file's db
// section, falling back to the defaults for absent keys.
func (f *File) StoreConfig() StoreConfig {
	store := DefaultStoreConfig()
	f.DB.apply(&store)
	return store
}

func (db DBSection) apply(store *StoreConfig) {
	if db.Host != "" {
		store.Host = db.Host
	}
	if db.Port != nil {
		store.Port = *db.Port
	}
	if db.DatabaseName != "" {
		store.DatabaseName = db.DatabaseName
	}
	if db.CollectionName != "" {
		store.CollectionName = db.CollectionName
	}
	if db.Dir != "" {
		store.Dir = db.Dir
	}
}

// secondsToDuration converts fractional seconds to a Duration.
func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
