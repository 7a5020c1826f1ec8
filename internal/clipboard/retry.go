package clipboard

import "time"

const (
	openAttempts = 3
	openBackoff  = 15 * time.Millisecond
)

// withRetry runs fn up to openAttempts times with linear backoff.
// Opening the clipboard fails transiently when another process holds
// it; exhaustion is returned as the last error and treated by callers
// as the usual best-effort no-op, never a new failure mode.
func withRetry(fn func() error) error {
	var err error
	for attempt := 1; attempt <= openAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt < openAttempts {
			time.Sleep(time.Duration(attempt) * openBackoff)
		}
	}
	return err
}
