package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"media-catalog/internal/logging"
)

// AllPaths returns the catalog's current file-path universe: the "before"
// side of the reconciliation diff.
func (c *Catalog) AllPaths(ctx context.Context) (map[string]struct{}, error) {
	done := observeQuery("all_paths")

	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, "SELECT path FROM files")
	if err != nil {
		done(err)
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Error("error closing rows: %v", err)
		}
	}()

	paths := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			done(err)
			return nil, err
		}
		paths[p] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		done(err)
		return nil, err
	}

	done(nil)
	return paths, nil
}

// InsertFile adds a new catalog row. The insert commits before returning.
// Returns ErrDuplicatePath if the path is already catalogued; there is no
// silent overwrite.
func (c *Catalog) InsertFile(ctx context.Context, name, path, previewPath string) error {
	done := observeQuery("insert_file")

	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := c.db.ExecContext(ctx,
		"INSERT INTO files (name, path, preview_path) VALUES (?, ?, ?)",
		name, path, previewPath,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			err = fmt.Errorf("%w: %s", ErrDuplicatePath, path)
		}
		done(err)
		return err
	}

	done(nil)
	return nil
}

// DeleteFiles removes the rows for the given paths. Association rows
// cascade via the schema's foreign keys; paths with no row are silently
// skipped. The whole removal commits as one transaction.
func (c *Catalog) DeleteFiles(ctx context.Context, paths map[string]struct{}) error {
	if len(paths) == 0 {
		return nil
	}

	done := observeQuery("delete_files")

	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		done(err)
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error("rollback failed: %v", rbErr)
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, "DELETE FROM files WHERE path = ?")
	if err != nil {
		done(err)
		return err
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			logging.Error("error closing statement: %v", err)
		}
	}()

	for p := range paths {
		if _, err := stmt.ExecContext(ctx, p); err != nil {
			done(err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		done(err)
		return err
	}
	committed = true
	done(nil)
	return nil
}

// GetFileByPath retrieves a single file by its normalized path.
func (c *Catalog) GetFileByPath(ctx context.Context, path string) (*MediaFile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return c.getFileUnlocked(ctx, "path", path)
}

// GetFileByName retrieves a single file by display name. Names are not
// guaranteed unique across folders; the first match wins, matching the
// lookup semantics the presentation layer expects.
func (c *Catalog) GetFileByName(ctx context.Context, name string) (*MediaFile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return c.getFileUnlocked(ctx, "name", name)
}

// getFileUnlocked fetches one row by the given key column.
// Caller must hold at least a read lock.
func (c *Catalog) getFileUnlocked(ctx context.Context, column, key string) (*MediaFile, error) {
	query := fmt.Sprintf(`
		SELECT id, name, path, preview_path, description, created_at
		FROM files WHERE %s = ? LIMIT 1
	`, column)

	var file MediaFile
	var description sql.NullString
	var createdAt int64

	err := c.db.QueryRowContext(ctx, query, key).Scan(
		&file.ID, &file.Name, &file.Path, &file.PreviewPath, &description, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}

	if description.Valid {
		file.Description = description.String
	}
	file.CreatedAt = time.Unix(createdAt, 0)
	return &file, nil
}

// FilePathFor returns the source path of the file with the given display name.
func (c *Catalog) FilePathFor(ctx context.Context, name string) (string, error) {
	file, err := c.GetFileByName(ctx, name)
	if err != nil {
		return "", err
	}
	return file.Path, nil
}

// PreviewPathFor returns the preview-artifact path of the file with the
// given display name.
func (c *Catalog) PreviewPathFor(ctx context.Context, name string) (string, error) {
	file, err := c.GetFileByName(ctx, name)
	if err != nil {
		return "", err
	}
	return file.PreviewPath, nil
}

// PreviewPathForPath returns the preview-artifact path of the file with
// the given normalized source path.
func (c *Catalog) PreviewPathForPath(ctx context.Context, path string) (string, error) {
	file, err := c.GetFileByPath(ctx, path)
	if err != nil {
		return "", err
	}
	return file.PreviewPath, nil
}

// SetDescription updates the free-text description of the named file.
// Commits before returning.
func (c *Catalog) SetDescription(ctx context.Context, name, text string) error {
	done := observeQuery("set_description")

	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := c.db.ExecContext(ctx,
		"UPDATE files SET description = ?, updated_at = strftime('%s', 'now') WHERE name = ?",
		text, name,
	)
	if err != nil {
		done(err)
		return err
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		err = fmt.Errorf("%w: %s", ErrNotFound, name)
		done(err)
		return err
	}

	done(nil)
	return nil
}

// DescriptionFor returns the description of the named file, or an empty
// string when none has been set.
func (c *Catalog) DescriptionFor(ctx context.Context, name string) (string, error) {
	file, err := c.GetFileByName(ctx, name)
	if err != nil {
		return "", err
	}
	return file.Description, nil
}

// AllFiles returns every catalogued file ordered by name.
func (c *Catalog) AllFiles(ctx context.Context) ([]MediaFile, error) {
	done := observeQuery("all_files")

	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	files, err := c.queryFilesUnlocked(ctx, `
		SELECT id, name, path, preview_path, description, created_at
		FROM files ORDER BY name
	`)
	done(err)
	return files, err
}

// FilesInFolder returns the files whose source path sits directly inside
// folder (direct children only, no recursion).
func (c *Catalog) FilesInFolder(ctx context.Context, folder string) ([]MediaFile, error) {
	done := observeQuery("files_in_folder")

	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// Prefix match narrows the scan; the exact parent check below keeps
	// only direct children.
	pattern := escapeLike(folder) + "%"
	candidates, err := c.queryFilesUnlocked(ctx, `
		SELECT id, name, path, preview_path, description, created_at
		FROM files WHERE path LIKE ? ESCAPE '\' ORDER BY name
	`, pattern)
	if err != nil {
		done(err)
		return nil, err
	}

	var files []MediaFile
	for _, f := range candidates {
		if filepath.Dir(f.Path) == filepath.Clean(folder) {
			files = append(files, f)
		}
	}

	done(nil)
	return files, nil
}

// queryFilesUnlocked runs a files query returning full rows.
// Caller must hold at least a read lock.
func (c *Catalog) queryFilesUnlocked(ctx context.Context, query string, args ...interface{}) ([]MediaFile, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Error("error closing rows: %v", err)
		}
	}()

	var files []MediaFile
	for rows.Next() {
		var file MediaFile
		var description sql.NullString
		var createdAt int64

		if err := rows.Scan(
			&file.ID, &file.Name, &file.Path, &file.PreviewPath, &description, &createdAt,
		); err != nil {
			return nil, err
		}

		if description.Valid {
			file.Description = description.String
		}
		file.CreatedAt = time.Unix(createdAt, 0)
		files = append(files, file)
	}

	return files, rows.Err()
}
