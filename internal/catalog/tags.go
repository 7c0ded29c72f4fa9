package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"media-catalog/internal/logging"
	"media-catalog/internal/mediatypes"
)

// CreateTag adds a user tag. Creating a tag that already exists is a no-op.
func (c *Catalog) CreateTag(ctx context.Context, name string) error {
	done := observeQuery("create_tag")

	name = strings.TrimSpace(name)
	if name == "" {
		err := errors.New("tag name cannot be empty")
		done(err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := c.db.ExecContext(ctx, "INSERT OR IGNORE INTO tags (name) VALUES (?)", name)
	done(err)
	return err
}

// DeleteTag removes a user tag and, via cascade, all its file
// associations. The three reserved classification tags refuse deletion
// with ErrReservedTag.
func (c *Catalog) DeleteTag(ctx context.Context, name string) error {
	done := observeQuery("delete_tag")

	if mediatypes.IsReservedTag(name) {
		err := fmt.Errorf("%w: %s", ErrReservedTag, name)
		done(err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := c.db.ExecContext(ctx, "DELETE FROM tags WHERE name = ?", name)
	if err != nil {
		done(err)
		return err
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		err = fmt.Errorf("%w: tag %s", ErrNotFound, name)
		done(err)
		return err
	}

	done(nil)
	return nil
}

// TagExists reports whether a tag with the exact (case-sensitive) name exists.
func (c *Catalog) TagExists(ctx context.Context, name string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var one int
	err := c.db.QueryRowContext(ctx, "SELECT 1 FROM tags WHERE name = ?", name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AllTags returns every tag with its association count, reserved tags
// flagged, ordered by name.
func (c *Catalog) AllTags(ctx context.Context) ([]Tag, error) {
	done := observeQuery("all_tags")

	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.created_at, COUNT(ft.file_id) as item_count
		FROM tags t
		LEFT JOIN file_tags ft ON t.id = ft.tag_id
		GROUP BY t.id
		ORDER BY t.name
	`)
	if err != nil {
		done(err)
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Error("error closing rows: %v", err)
		}
	}()

	var tags []Tag
	for rows.Next() {
		var tag Tag
		var createdAt int64

		if err := rows.Scan(&tag.ID, &tag.Name, &createdAt, &tag.ItemCount); err != nil {
			done(err)
			return nil, err
		}

		tag.CreatedAt = time.Unix(createdAt, 0)
		tag.Reserved = mediatypes.IsReservedTag(tag.Name)
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		done(err)
		return nil, err
	}

	done(nil)
	return tags, nil
}

// AssignTags associates the given tags with the file at path. Unknown
// tags are created on the fly; existing associations are kept. A file
// holds at most one of the three classification tags: an assignment
// that would add a second returns ErrReservedConflict. The whole
// assignment commits as one transaction.
func (c *Catalog) AssignTags(ctx context.Context, path string, tags []string) error {
	done := observeQuery("assign_tags")

	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
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

	var fileID int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM files WHERE path = ?", path).Scan(&fileID)
	if errors.Is(err, sql.ErrNoRows) {
		err = fmt.Errorf("%w: %s", ErrNotFound, path)
		done(err)
		return err
	}
	if err != nil {
		done(err)
		return err
	}

	if err := c.checkReservedExclusive(ctx, tx, fileID, tags); err != nil {
		done(err)
		return err
	}

	for _, name := range tags {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var tagID int64
		err = tx.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", name).Scan(&tagID)
		if errors.Is(err, sql.ErrNoRows) {
			result, createErr := tx.ExecContext(ctx, "INSERT INTO tags (name) VALUES (?)", name)
			if createErr != nil {
				done(createErr)
				return createErr
			}
			tagID, _ = result.LastInsertId()
		} else if err != nil {
			done(err)
			return err
		}

		if _, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO file_tags (file_id, tag_id) VALUES (?, ?)",
			fileID, tagID,
		); err != nil {
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

// checkReservedExclusive verifies that assigning tags to fileID leaves
// the file holding at most one classification tag. Re-assigning the tag
// the file already holds is fine.
func (c *Catalog) checkReservedExclusive(ctx context.Context, tx *sql.Tx, fileID int64, tags []string) error {
	var requested string
	for _, name := range tags {
		name = strings.TrimSpace(name)
		if !mediatypes.IsReservedTag(name) {
			continue
		}
		if requested != "" && requested != name {
			return fmt.Errorf("%w: %s and %s", ErrReservedConflict, requested, name)
		}
		requested = name
	}
	if requested == "" {
		return nil
	}

	var held string
	err := tx.QueryRowContext(ctx, `
		SELECT t.name FROM tags t
		INNER JOIN file_tags ft ON ft.tag_id = t.id
		WHERE ft.file_id = ? AND t.name IN (?, ?, ?)
	`, fileID, mediatypes.TagImage, mediatypes.TagVideo, mediatypes.TagAudio).Scan(&held)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if held != requested {
		return fmt.Errorf("%w: %s held, %s requested", ErrReservedConflict, held, requested)
	}
	return nil
}

// RemoveTags removes the given tag associations from the file at path.
// Tags the file does not hold are silently skipped. The classification
// tags refuse removal with ErrReservedTag; every catalogued file keeps
// exactly one.
func (c *Catalog) RemoveTags(ctx context.Context, path string, tags []string) error {
	done := observeQuery("remove_tags")

	for _, name := range tags {
		if mediatypes.IsReservedTag(name) {
			err := fmt.Errorf("%w: %s", ErrReservedTag, name)
			done(err)
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, name := range tags {
		if _, err := c.db.ExecContext(ctx, `
			DELETE FROM file_tags
			WHERE file_id = (SELECT id FROM files WHERE path = ?)
			AND tag_id = (SELECT id FROM tags WHERE name = ?)
		`, path, name); err != nil {
			done(err)
			return err
		}
	}

	done(nil)
	return nil
}

// TagsFor returns all tag names held by the file at path, ordered by name.
func (c *Catalog) TagsFor(ctx context.Context, path string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return c.tagsForUnlocked(ctx, path)
}

// tagsForUnlocked returns tags without acquiring the lock.
// Caller must hold at least a read lock.
func (c *Catalog) tagsForUnlocked(ctx context.Context, path string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT t.name
		FROM tags t
		INNER JOIN file_tags ft ON ft.tag_id = t.id
		INNER JOIN files f ON ft.file_id = f.id
		WHERE f.path = ?
		ORDER BY t.name
	`, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Error("error closing rows: %v", err)
		}
	}()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}

	return tags, rows.Err()
}

// FilesByTags returns the files holding every one of the requested tags
// (intersection semantics). An empty tag list matches nothing.
func (c *Catalog) FilesByTags(ctx context.Context, tags []string) ([]MediaFile, error) {
	done := observeQuery("files_by_tags")

	if len(tags) == 0 {
		done(nil)
		return nil, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	placeholders := strings.Repeat("?, ", len(tags)-1) + "?"
	query := fmt.Sprintf(`
		SELECT f.id, f.name, f.path, f.preview_path, f.description, f.created_at
		FROM files f
		INNER JOIN file_tags ft ON ft.file_id = f.id
		INNER JOIN tags t ON ft.tag_id = t.id
		WHERE t.name IN (%s)
		GROUP BY f.id
		HAVING COUNT(DISTINCT t.name) = ?
		ORDER BY f.name
	`, placeholders)

	args := make([]interface{}, 0, len(tags)+1)
	for _, t := range tags {
		args = append(args, t)
	}
	args = append(args, len(tags))

	files, err := c.queryFilesUnlocked(ctx, query, args...)
	done(err)
	return files, err
}
