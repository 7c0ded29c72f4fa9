package thumbs

import (
	"crypto/md5"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"media-catalog/internal/filesystem"
	"media-catalog/internal/logging"
)

// audioSurrogateName is the single shared artifact all audio rows point at.
const audioSurrogateName = "audio.jpg"

// ArtifactPath returns the artifact filename for a normalized source
// path: a stable md5 of the path under the thumbnail directory. Hashing
// the path rather than reusing the base name avoids collisions between
// same-named files in different folders and sidesteps unicode and length
// issues in generated filenames.
func ArtifactPath(thumbDir, sourcePath string) string {
	hash := md5.Sum([]byte(sourcePath))
	return filepath.Join(thumbDir, fmt.Sprintf("%x.jpg", hash))
}

// AudioSurrogatePath returns the shared audio artifact path.
func AudioSurrogatePath(thumbDir string) string {
	return filepath.Join(thumbDir, audioSurrogateName)
}

// ensureThumbDir creates the thumbnail directory if needed.
func ensureThumbDir(thumbDir string) error {
	return filesystem.MkdirAllWithRetry(thumbDir, 0o755, filesystem.DefaultRetryConfig())
}

// ensureAudioSurrogate creates the shared audio artifact if it does not
// exist yet. The surrogate is rendered once rather than shipped as an
// asset: a plain dark tile at thumbnail size.
func ensureAudioSurrogate(thumbDir string) (string, error) {
	path := AudioSurrogatePath(thumbDir)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	img := imaging.New(thumbBoxSize, thumbBoxSize, color.NRGBA{R: 0x2b, G: 0x2b, B: 0x33, A: 0xff})
	if err := saveJPEG(img, path); err != nil {
		return "", fmt.Errorf("failed to create audio surrogate: %w", err)
	}

	logging.Info("Created shared audio surrogate at %s", path)
	return path, nil
}
