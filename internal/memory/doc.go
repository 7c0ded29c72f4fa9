// Package memory configures the Go memory limit from container
// metadata and provides backpressure for the thumbnail pipeline when
// heap usage approaches that limit.
//
// ConfigureFromEnv should run early in main, before significant
// allocations. It honors GOMEMLIMIT when set, otherwise derives a
// limit from MEMORY_LIMIT (container limit in bytes, e.g. from the
// Kubernetes Downward API) scaled by MEMORY_RATIO (default 0.85, the
// remainder reserved for ffmpeg and libvips which allocate outside the
// Go heap).
//
// A Monitor watches heap allocation against the limit and pauses
// render workers above the critical water mark until usage falls back
// below the high water mark.
package memory
