package thumbs

import (
	"bytes"
	"fmt"
	"image"
	"os/exec"

	"media-catalog/internal/logging"
)

// extractVideoFrame pulls a single frame one second into the video via
// ffmpeg. Clips shorter than a second make the seek fail, so the
// extraction retries from the first frame before giving up.
func extractVideoFrame(sourcePath string) (image.Image, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	out, err := runFrameExtraction(sourcePath, true)
	if err != nil {
		logging.Debug("FFmpeg seek attempt failed for %s: %v, retrying from first frame", sourcePath, err)
		out, err = runFrameExtraction(sourcePath, false)
		if err != nil {
			return nil, err
		}
	}

	if out.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", sourcePath)
	}

	img, _, err := image.Decode(out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ffmpeg output: %w", err)
	}

	return img, nil
}

func runFrameExtraction(sourcePath string, seek bool) (*bytes.Buffer, error) {
	args := []string{"-i", sourcePath}
	if seek {
		args = []string{"-ss", "00:00:01", "-i", sourcePath}
	}
	args = append(args,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	cmd := exec.Command("ffmpeg", args...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %v, stderr: %s", err, stderr.String())
	}

	return &stdout, nil
}
