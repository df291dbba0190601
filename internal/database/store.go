package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/corpuscrawl/internal/config"
	"github.com/nao1215/corpuscrawl/internal/model"
)

// ErrInvalidDocument is returned when a document cannot be stored.
var ErrInvalidDocument = errors.New("invalid document")

// defaultBatchSize is the number of raw rows read per IterateRaw query.
const defaultBatchSize = 100

// Store is the SQLite-backed document store.
type Store struct {
	db *sql.DB

	// path is the database file.
	path string

	rawTable     string
	cleanedTable string
	batchSize    int
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool

	// BusyTimeout is how long a locked database is retried before failing.
	BusyTimeout time.Duration

	// BatchSize is the page size used by IterateRaw.
	BatchSize int
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
		BusyTimeout:       5 * time.Second,
		BatchSize:         defaultBatchSize,
	}
}

// Open opens or creates the store described by cfg.
func Open(cfg config.StoreConfig, opts Options) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store configuration: %w", err)
	}
	dbPath := cfg.Path()

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite has a single writer and the pragmas below are
	// per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	s := &Store{
		db:           db,
		path:         dbPath,
		rawTable:     cfg.CollectionName,
		cleanedTable: cfg.CleanedCollectionName(),
		batchSize:    batchSize,
	}

	ctx := context.Background()
	if opts.BusyTimeout > 0 {
		pragma := fmt.Sprintf("PRAGMA busy_timeout=%d", opts.BusyTimeout.Milliseconds())
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set busy timeout: %w", err)
		}
	}
	if opts.EnableWAL {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// createTables creates the schema if it doesn't exist. Table names come
// from a validated StoreConfig and are safe to interpolate.
func (s *Store) createTables(ctx context.Context) error {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		raw_html TEXT NOT NULL,
		source_name TEXT NOT NULL,
		crawled_at INTEGER NOT NULL,
		run_id TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_%[1]s_url ON %[1]s(url);
	CREATE INDEX IF NOT EXISTS idx_%[1]s_run ON %[1]s(run_id);

	CREATE TABLE IF NOT EXISTS %[2]s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		clean_text TEXT NOT NULL,
		processed_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_%[2]s_url ON %[2]s(url);
	`, s.rawTable, s.cleanedTable)

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// InsertRaw appends a fetched page and sets doc.ID.
func (s *Store) InsertRaw(ctx context.Context, doc *model.RawDocument) error {
	if doc == nil || doc.URL == "" {
		return fmt.Errorf("%w: raw document without url", ErrInvalidDocument)
	}

	query := fmt.Sprintf(`
	INSERT INTO %s (url, raw_html, source_name, crawled_at, run_id)
	VALUES (?, ?, ?, ?, ?)
	`, s.rawTable)

	result, err := s.db.ExecContext(ctx, query,
		doc.URL,
		doc.RawHTML,
		doc.SourceName,
		doc.CrawledAt,
		doc.RunID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert raw document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read raw document id: %w", err)
	}
	doc.ID = id
	return nil
}

// InsertCleaned appends a cleaned document and sets doc.ID.
func (s *Store) InsertCleaned(ctx context.Context, doc *model.CleanedDocument) error {
	if doc == nil || doc.URL == "" {
		return fmt.Errorf("%w: cleaned document without url", ErrInvalidDocument)
	}

	query := fmt.Sprintf(`
	INSERT INTO %s (url, clean_text, processed_at)
	VALUES (?, ?, ?)
	`, s.cleanedTable)

	result, err := s.db.ExecContext(ctx, query, doc.URL, doc.CleanText, doc.ProcessedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cleaned document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read cleaned document id: %w", err)
	}
	doc.ID = id
	return nil
}

// ClearCleaned deletes every cleaned document and returns how many rows
// were removed.
func (s *Store) ClearCleaned(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", s.cleanedTable))
	if err != nil {
		return 0, fmt.Errorf("failed to clear cleaned documents: %w", err)
	}
	return result.RowsAffected()
}

// CountRaw returns the number of raw documents.
func (s *Store) CountRaw(ctx context.Context) (int64, error) {
	return s.count(ctx, s.rawTable)
}

// CountCleaned returns the number of cleaned documents.
func (s *Store) CountCleaned(ctx context.Context) (int64, error) {
	return s.count(ctx, s.cleanedTable)
}

func (s *Store) count(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// IterateRaw yields every raw document in insertion order. Rows are read
// in batches keyed on id, so no cursor stays open between yields and the
// caller may write to the store while iterating. An error is yielded once
// and ends the sequence.
func (s *Store) IterateRaw(ctx context.Context) iter.Seq2[model.RawDocument, error] {
	return iterate(ctx, s.batchSize, s.rawBatch, func(d model.RawDocument) int64 { return d.ID })
}

// IterateCleaned yields every cleaned document in insertion order, with the
// same batching as IterateRaw.
func (s *Store) IterateCleaned(ctx context.Context) iter.Seq2[model.CleanedDocument, error] {
	return iterate(ctx, s.batchSize, s.cleanedBatch, func(d model.CleanedDocument) int64 { return d.ID })
}

// iterate pages through a table with a keyset query. next returns up to
// size rows with id greater than afterID; a short page ends the sequence.
func iterate[T any](
	ctx context.Context,
	size int,
	next func(ctx context.Context, afterID int64) ([]T, error),
	id func(T) int64,
) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var lastID int64
		for {
			batch, err := next(ctx, lastID)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, row := range batch {
				if !yield(row, nil) {
					return
				}
			}
			if len(batch) < size {
				return
			}
			lastID = id(batch[len(batch)-1])
		}
	}
}

// rawBatch reads up to batchSize raw documents with id greater than afterID.
func (s *Store) rawBatch(ctx context.Context, afterID int64) ([]model.RawDocument, error) {
	query := fmt.Sprintf(`
	SELECT id, url, raw_html, source_name, crawled_at, run_id
	FROM %s
	WHERE id > ?
	ORDER BY id
	LIMIT ?
	`, s.rawTable)

	rows, err := s.db.QueryContext(ctx, query, afterID, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query raw documents: %w", err)
	}
	defer rows.Close()

	batch := make([]model.RawDocument, 0, s.batchSize)
	for rows.Next() {
		var doc model.RawDocument
		if err := rows.Scan(&doc.ID, &doc.URL, &doc.RawHTML, &doc.SourceName, &doc.CrawledAt, &doc.RunID); err != nil {
			return nil, fmt.Errorf("failed to scan raw document: %w", err)
		}
		batch = append(batch, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read raw documents: %w", err)
	}
	return batch, nil
}

// cleanedBatch reads up to batchSize cleaned documents with id greater than
// afterID.
func (s *Store) cleanedBatch(ctx context.Context, afterID int64) ([]model.CleanedDocument, error) {
	query := fmt.Sprintf(`
	SELECT id, url, clean_text, processed_at
	FROM %s
	WHERE id > ?
	ORDER BY id
	LIMIT ?
	`, s.cleanedTable)

	rows, err := s.db.QueryContext(ctx, query, afterID, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query cleaned documents: %w", err)
	}
	defer rows.Close()

	batch := make([]model.CleanedDocument, 0, s.batchSize)
	for rows.Next() {
		var doc model.CleanedDocument
		if err := rows.Scan(&doc.ID, &doc.URL, &doc.CleanText, &doc.ProcessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cleaned document: %w", err)
		}
		batch = append(batch, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cleaned documents: %w", err)
	}
	return batch, nil
}

// ListCleaned returns every cleaned document in insertion order.
func (s *Store) ListCleaned(ctx context.Context) ([]model.CleanedDocument, error) {
	var docs []model.CleanedDocument
	for doc, err := range s.IterateCleaned(ctx) {
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
