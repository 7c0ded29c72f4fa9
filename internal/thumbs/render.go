package thumbs

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"media-catalog/internal/filesystem"
	"media-catalog/internal/logging"
	"media-catalog/internal/mediatypes"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	thumbBoxSize = 200
	jpegQuality  = 80
)

// renderFile produces the artifact for one source file and returns the
// artifact path. Audio files are not rendered per file; they all share
// the batch surrogate.
func (p *Pipeline) renderFile(sourcePath string, class mediatypes.Class) (string, error) {
	if _, err := os.Stat(sourcePath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingSource, sourcePath)
	}

	if class == mediatypes.ClassAudio {
		return p.audioSurrogate, nil
	}

	var img image.Image
	var err error

	switch class {
	case mediatypes.ClassImage:
		img, err = decodeImage(sourcePath)
	case mediatypes.ClassVideo:
		img, err = extractVideoFrame(sourcePath)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnrecognized, sourcePath)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}
	if img == nil {
		return "", fmt.Errorf("%w: decoder returned nil image", ErrRenderFailure)
	}

	artifactPath := ArtifactPath(p.thumbDir, sourcePath)
	if err := saveJPEG(img, artifactPath); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}

	return artifactPath, nil
}

// decodeImage tries the decode chain in order: imaging with EXIF
// auto-orientation, the registered stdlib decoders, then libvips for
// formats the pure-Go decoders cannot handle.
func decodeImage(sourcePath string) (image.Image, error) {
	img, err := imaging.Open(sourcePath, imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}

	logging.Debug("imaging.Open failed for %s: %v, trying fallback decoders", sourcePath, err)

	img, err = decodeImageFile(sourcePath)
	if err == nil {
		return img, nil
	}

	logging.Debug("Standard decode failed for %s: %v, trying vips", sourcePath, err)

	img, err = decodeWithVips(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("all decode methods failed for %s: %w", sourcePath, err)
	}

	return img, nil
}

func decodeImageFile(sourcePath string) (image.Image, error) {
	file, err := os.Open(sourcePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, err
	}

	logging.Debug("Decoded image format: %s for %s", format, sourcePath)
	return img, nil
}

// saveJPEG fits the image into the thumbnail box and writes it through
// the retrying filesystem layer.
func saveJPEG(img image.Image, artifactPath string) error {
	thumb := imaging.Fit(img, thumbBoxSize, thumbBoxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return filesystem.WriteFileWithRetry(artifactPath, buf.Bytes(), 0o644, filesystem.DefaultRetryConfig())
}
