package catalog

import (
	"context"
	"strings"
)

// escapeLike escapes the SQL LIKE wildcards in a user-supplied substring
// so it matches literally. The queries using it declare ESCAPE '\'.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// FilesByText returns the files whose display name or description
// contains the query as a case-insensitive substring. An empty query
// returns the full catalog.
func (c *Catalog) FilesByText(ctx context.Context, query string) ([]MediaFile, error) {
	done := observeQuery("files_by_text")

	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if query == "" {
		files, err := c.queryFilesUnlocked(ctx, `
			SELECT id, name, path, preview_path, description, created_at
			FROM files ORDER BY name
		`)
		done(err)
		return files, err
	}

	// LIKE is case-insensitive for ASCII in SQLite by default; LOWER on
	// both sides keeps the behavior explicit.
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	files, err := c.queryFilesUnlocked(ctx, `
		SELECT id, name, path, preview_path, description, created_at
		FROM files
		WHERE LOWER(name) LIKE ? ESCAPE '\'
		   OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\'
		ORDER BY name
	`, pattern, pattern)
	done(err)
	return files, err
}
