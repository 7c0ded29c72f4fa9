// Package thumbs renders preview artifacts for cataloged media.
//
// A batch fans source files out across a render pool: images decode
// through imaging with stdlib and libvips fallbacks, videos go through
// an external ffmpeg frame grab, and audio files share one generated
// surrogate tile. Every artifact is a JPEG named by the md5 of its
// source path, so re-rendering a file overwrites its previous artifact
// in place. Results stream back to the caller as events.
package thumbs
