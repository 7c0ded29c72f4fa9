// Package workers calculates worker pool sizes for concurrent operations.
//
// Thumbnail rendering is a mix of CPU work (decode, resize, encode) and
// I/O (reading sources, writing artifacts), so the pipeline defaults to
// the mixed sizing. The PIPELINE_WORKERS environment variable overrides
// the calculated value.
package workers
