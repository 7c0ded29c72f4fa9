package filesystem

import (
	"errors"
	"os"
	"syscall"
	"time"

	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
)

// RetryConfig configures retry behavior for filesystem operations.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns sensible defaults for transient-error retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// isTransientError checks whether an error is worth retrying: NFS stale
// file handles (ESTALE), interrupted syscalls and temporary resource
// shortages. Anything else fails immediately.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ESTALE, syscall.EINTR, syscall.EAGAIN, syscall.EBUSY:
			return true
		}
	}

	return false
}

// withRetry runs op with exponential backoff on transient errors.
func withRetry(operation string, config RetryConfig, op func() error) error {
	var lastErr error
	backoff := config.InitialBackoff

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		err := op()
		if err == nil {
			if attempt > 0 {
				logging.Info("Filesystem %s succeeded on retry %d", operation, attempt)
			}
			return nil
		}

		lastErr = err

		if !isTransientError(err) {
			return err
		}

		// Don't sleep after the last attempt
		if attempt < config.MaxRetries {
			metrics.FilesystemRetriesTotal.WithLabelValues(operation).Inc()
			logging.Debug("Filesystem %s transient error, retrying in %v (attempt %d/%d): %v",
				operation, backoff, attempt+1, config.MaxRetries, err)
			time.Sleep(backoff)

			backoff *= 2
			if backoff > config.MaxBackoff {
				backoff = config.MaxBackoff
			}
		}
	}

	logging.Warn("Filesystem %s failed after %d retries: %v", operation, config.MaxRetries, lastErr)
	return lastErr
}

// WriteFileWithRetry performs os.WriteFile with retry logic for transient errors.
func WriteFileWithRetry(path string, data []byte, perm os.FileMode, config RetryConfig) error {
	return withRetry("write", config, func() error {
		return os.WriteFile(path, data, perm)
	})
}

// RemoveWithRetry performs os.Remove with retry logic for transient errors.
// A path that is already gone counts as success.
func RemoveWithRetry(path string, config RetryConfig) error {
	return withRetry("remove", config, func() error {
		err := os.Remove(path)
		if err != nil && os.IsNotExist(err) {
			return nil
		}
		return err
	})
}

// MkdirAllWithRetry performs os.MkdirAll with retry logic for transient errors.
func MkdirAllWithRetry(path string, perm os.FileMode, config RetryConfig) error {
	return withRetry("mkdir", config, func() error {
		return os.MkdirAll(path, perm)
	})
}
