package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"media-catalog/internal/logging"
	"media-catalog/internal/mediatypes"
	"media-catalog/internal/metrics"
)

// Default timeout for store operations
const defaultTimeout = 5 * time.Second

// Catalog owns the persisted media catalog: files, tags, their
// associations and the metadata records the reconciliation engine
// depends on.
//
// All mutations are serialized through a single writer lock; reads may
// run concurrently with a writer and can observe a catalog mid-update
// (no batch-wide snapshot is promised).
type Catalog struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// New opens (or creates) the catalog database at dbPath, applies the
// schema and pending migrations, and seeds the reserved classification
// tags. dbPath must be the full path to the database file and its parent
// directory must exist.
func New(ctx context.Context, dbPath string) (*Catalog, error) {
	logging.Info("Catalog database path: %s", dbPath)

	// WAL for concurrent readers, busy_timeout against writer contention,
	// foreign_keys so association rows cascade with their owners.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to catalog database: %w", err)
	}

	// Multiple readers are fine; the mutex keeps writers single-file.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	c := &Catalog{
		db:     db,
		dbPath: dbPath,
	}

	if err := c.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	logging.Info("Catalog initialized successfully at %s", dbPath)
	return c, nil
}

func (c *Catalog) initialize(ctx context.Context) error {
	done := observeQuery("initialize_schema")

	schema := `
	-- Main files table; path is the identity key
	CREATE TABLE IF NOT EXISTS files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		path TEXT NOT NULL UNIQUE,
		preview_path TEXT NOT NULL,
		description TEXT,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_files_name ON files(name);

	-- Tag names are case-sensitive: "Beach" and "beach" are distinct tags
	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	-- File-Tag association; deleting either side cascades the pair
	CREATE TABLE IF NOT EXISTS file_tags (
		file_id INTEGER NOT NULL,
		tag_id INTEGER NOT NULL,
		PRIMARY KEY (file_id, tag_id),
		FOREIGN KEY (file_id) REFERENCES files(id) ON DELETE CASCADE,
		FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_file_tags_tag ON file_tags(tag_id);

	-- Metadata table (persisted file count, chosen root folder)
	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT
	);

	-- Applied schema migrations
	CREATE TABLE IF NOT EXISTS migrations (
		id TEXT PRIMARY KEY,
		applied_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);
	`

	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		done(err)
		return err
	}

	if err := c.seedReservedTags(ctx); err != nil {
		done(err)
		return err
	}

	err := c.runMigrations(ctx)
	done(err)
	return err
}

// seedReservedTags inserts the three built-in classification tags.
// Idempotent: re-running against an existing catalog is a no-op.
func (c *Catalog) seedReservedTags(ctx context.Context) error {
	for _, name := range mediatypes.ReservedTags {
		if _, err := c.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO tags (name) VALUES (?)", name,
		); err != nil {
			return fmt.Errorf("failed to seed reserved tag %q: %w", name, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Vacuum optimizes the database.
func (c *Catalog) Vacuum() error {
	done := observeQuery("vacuum")

	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	_, err := c.db.ExecContext(ctx, "VACUUM")
	done(err)
	return err
}

// GetStats returns current catalog totals for the metrics collector.
func (c *Catalog) GetStats() metrics.Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var stats metrics.Stats
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM files").Scan(&stats.TotalFiles); err != nil {
		logging.Debug("stats file count failed: %v", err)
	}
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tags").Scan(&stats.TotalTags); err != nil {
		logging.Debug("stats tag count failed: %v", err)
	}
	return stats
}

// observeQuery records store metrics for an operation. The returned
// function must be called with the operation's final error.
func observeQuery(operation string) func(error) {
	start := time.Now()
	return func(err error) {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.CatalogQueryTotal.WithLabelValues(operation, status).Inc()
		metrics.CatalogQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
