package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
)

// Metadata keys used by the reconciliation engine and startup wiring.
const (
	metaFileCount  = "file_count"
	metaRootFolder = "root_folder"
)

// GetMetadata retrieves a metadata value by key.
// Returns sql.ErrNoRows if the key doesn't exist.
func (c *Catalog) GetMetadata(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var value string
	err := c.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetMetadata sets a metadata key-value pair. Commits before returning.
func (c *Catalog) SetMetadata(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// LastFileCount returns the persisted file count from the previous
// reconciliation pass. ok is false on the first run, before any count
// has been recorded.
func (c *Catalog) LastFileCount(ctx context.Context) (count int, ok bool, err error) {
	value, err := c.GetMetadata(ctx, metaFileCount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	count, err = strconv.Atoi(value)
	if err != nil {
		// A mangled value is treated like a first run; the next pass
		// rewrites it.
		return 0, false, nil
	}
	return count, true, nil
}

// SetLastFileCount persists the file count observed by a reconciliation pass.
func (c *Catalog) SetLastFileCount(ctx context.Context, count int) error {
	return c.SetMetadata(ctx, metaFileCount, strconv.Itoa(count))
}

// RootFolder returns the persisted library root, or "" when no folder
// has been chosen yet.
func (c *Catalog) RootFolder(ctx context.Context) (string, error) {
	value, err := c.GetMetadata(ctx, metaRootFolder)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetRootFolder persists the chosen library root.
func (c *Catalog) SetRootFolder(ctx context.Context, folder string) error {
	return c.SetMetadata(ctx, metaRootFolder, folder)
}
