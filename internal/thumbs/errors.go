package thumbs

import "errors"

var (
	// ErrMissingSource marks a file that vanished between scan and render.
	ErrMissingSource = errors.New("thumbs: source file missing")

	// ErrRenderFailure marks a decode/encode/external-tool failure for a
	// single file.
	ErrRenderFailure = errors.New("thumbs: render failed")

	// ErrUnrecognized marks a file outside the supported media classes.
	ErrUnrecognized = errors.New("thumbs: unrecognized file type")
)
