// Package pathutil canonicalizes filesystem paths so they can be used
// as stable identity keys for set comparison.
package pathutil

import (
	"path/filepath"
	"strings"
)

// Normalize converts a path into its canonical absolute form: absolute,
// cleaned (no ".", "..", or duplicate separators) and using the host OS
// separator. Two inputs denoting the same filesystem entry normalize to
// identical strings, and the operation is idempotent. The path does not
// need to exist; no I/O is performed beyond resolving the working
// directory for relative inputs.
func Normalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// HasPrefix reports whether path sits inside (or equals) dir. Both
// arguments must already be normalized. A simple string prefix is not
// enough: /media/photos2 is not inside /media/photos.
func HasPrefix(path, dir string) bool {
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}
