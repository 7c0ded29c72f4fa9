package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"media-catalog/internal/logging"
	"media-catalog/internal/mediatypes"
	"media-catalog/internal/pathutil"
)

// ThumbDirName is the reserved name of the derived-artifact subtree.
// Any directory whose name matches it case-insensitively is excluded from
// scans so generated thumbnails are never re-ingested as media.
const ThumbDirName = "thumbnails"

// Walker enumerates eligible media files under a root directory.
type Walker struct {
	excludeName string
}

// New creates a Walker with the default thumbnail-subtree exclusion.
func New() *Walker {
	return &Walker{excludeName: ThumbDirName}
}

// isExcludedDir reports whether a directory entry starts an excluded subtree.
func (w *Walker) isExcludedDir(name string) bool {
	return strings.EqualFold(name, w.excludeName)
}

// walkMedia visits every eligible media file under normRoot, applying
// the thumbnail-subtree exclusion and the extension allow-list.
//
// Directories that vanish or turn unreadable mid-walk are skipped, not
// fatal; the walk carries on with whatever remains. A missing root is
// an empty walk.
func (w *Walker) walkMedia(normRoot string, visit func(path string)) error {
	err := filepath.WalkDir(normRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable or vanished entries are skipped, except a missing
			// root, which the caller needs to know about.
			if path == normRoot {
				return err
			}
			logging.Warn("Error accessing path %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != normRoot && w.isExcludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if !mediatypes.IsMediaFile(ext) {
			return nil
		}

		visit(path)
		return nil
	})
	if err != nil && os.IsNotExist(err) {
		// A root that disappeared is an empty library, not a failure.
		return nil
	}
	return err
}

// Scan recursively enumerates regular files under root whose extension is
// in one of the media allow-lists, excluding the thumbnail subtree, and
// returns their normalized absolute paths as a set.
func (w *Walker) Scan(root string) (map[string]struct{}, error) {
	normRoot, err := pathutil.Normalize(root)
	if err != nil {
		return nil, err
	}

	paths := make(map[string]struct{})
	err = w.walkMedia(normRoot, func(path string) {
		norm, err := pathutil.Normalize(path)
		if err != nil {
			logging.Warn("Error normalizing path %s: %v", path, err)
			return
		}
		paths[norm] = struct{}{}
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// Count returns the number of eligible media files under root using the
// same exclusion and allow-list rules as Scan. It is the cheap
// change-detection heuristic run before a full diff: it looks only at
// names, skipping the per-file path normalization Scan pays for.
func (w *Walker) Count(root string) (int, error) {
	normRoot, err := pathutil.Normalize(root)
	if err != nil {
		return 0, err
	}

	count := 0
	err = w.walkMedia(normRoot, func(string) { count++ })
	if err != nil {
		return 0, err
	}
	return count, nil
}
