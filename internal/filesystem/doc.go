/*
Package filesystem provides resilient filesystem operations with automatic
retry logic for transient errors.

Thumbnail artifacts commonly live on network mounts, where writes and
removals can fail with NFS stale file handle errors (ESTALE) or interrupted
syscalls during network hiccups. This package wraps os.WriteFile, os.Remove
and os.MkdirAll with bounded exponential-backoff retries for those errors;
any other error fails immediately.

Defaults are 3 retries with 50ms initial backoff capped at 500ms:

	err := filesystem.WriteFileWithRetry(path, data, 0o644, filesystem.DefaultRetryConfig())

RemoveWithRetry treats an already-missing path as success, matching the
reconciliation engine's requirement that deleting an absent artifact is not
an error.
*/
package filesystem
