package history

import (
	"time"

	"go.uber.org/zap"
)

const bytesPerGb = 1 << 30

// Evict applies the retention policy. It runs after every insertion
// and after any settings update.
//
// Age pass: every Unpinned item older than maxAgeDays is dropped.
// Size pass: while the total persisted size (serialized history plus
// referenced blobs) exceeds maxSizeGb, the least-recently-touched
// Unpinned item is dropped, located by reverse positional scan: the
// upsert-front promotion keeps position a good proxy for recency.
// Pinned and slotted items are exempt from both passes; when only
// protected items remain the store is left over budget.
func (s *Store) Evict() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	maxAge := time.Duration(s.settings.MaxAgeDays * 24 * float64(time.Hour))
	for i := len(s.items) - 1; i >= 0; i-- {
		it := s.items[i]
		if it.Pin.Protected() {
			continue
		}
		if now.Sub(it.CreatedAt) > maxAge {
			s.dropLocked(i, "age")
		}
	}

	maxBytes := int64(s.settings.MaxSizeGb * bytesPerGb)
	for s.persistedSizeLocked() > maxBytes {
		idx := -1
		for i := len(s.items) - 1; i >= 0; i-- {
			if !s.items[i].Pin.Protected() {
				idx = i
				break
			}
		}
		if idx < 0 {
			s.logger.Warn("over size budget with only protected items left",
				zap.Int64("max_bytes", maxBytes))
			break
		}
		s.dropLocked(idx, "size")
	}
}

// dropLocked removes the item at index, releases its blob reference and
// persists. Callers must hold the lock.
func (s *Store) dropLocked(index int, reason string) {
	removed := s.items[index]
	s.items = append(s.items[:index], s.items[index+1:]...)
	s.releaseImage(removed)
	s.persistHistory()
	s.logger.Debug("evicted item",
		zap.String("reason", reason),
		zap.String("kind", string(removed.Kind)),
		zap.Time("created_at", removed.CreatedAt))
}
