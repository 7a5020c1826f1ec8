// Package history holds the authoritative, mutex-guarded clipboard
// history and runtime settings. All structural mutation happens under a
// single exclusive lock; image encoding/decoding and other heavy work
// stay outside it. Persistence failures are logged and swallowed; the
// in-memory state remains authoritative until the next successful save.
package history

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tobq/clipboard-tray/internal/types"
)

// Persister saves serialized state. Satisfied by storage.BoltStorage.
type Persister interface {
	SaveHistory([]*types.ClipboardItem) error
	SaveSettings(types.Settings) error
}

// Blobs is the slice of the blob store the history needs: sizes for the
// eviction budget and best-effort deletion when the last reference to
// an image drops.
type Blobs interface {
	SizeOf(fname string) int64
	Remove(fname string)
}

// Store owns the ordered history sequence (most-recently-touched first)
// and the settings object.
type Store struct {
	mu       sync.Mutex
	items    []*types.ClipboardItem
	settings types.Settings
	persist  Persister
	blobs    Blobs
	logger   *zap.Logger
	now      func() time.Time
}

// Config wires a Store from persisted state.
type Config struct {
	Items       []*types.ClipboardItem
	Settings    types.Settings
	LegacySlots map[int]SlotPayload
	Persister   Persister
	Blobs       Blobs
	Logger      *zap.Logger
	Now         func() time.Time // defaults to time.Now
}

// New builds the store, folds any legacy slot mapping into the items
// and seeds first-run slot presets when applicable.
func New(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	s := &Store{
		items:    cfg.Items,
		settings: cfg.Settings,
		persist:  cfg.Persister,
		blobs:    cfg.Blobs,
		logger:   logger,
		now:      now,
	}
	s.migrateLegacySlots(cfg.LegacySlots)
	s.seedSlotPresets()
	return s
}

// Items returns a snapshot copy of the history in order.
func (s *Store) Items() []types.ClipboardItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ClipboardItem, len(s.items))
	for i, it := range s.items {
		out[i] = *it
	}
	return out
}

// Len returns the number of history items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Get returns a copy of the item at index, if it exists.
func (s *Store) Get(index int) (types.ClipboardItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return types.ClipboardItem{}, false
	}
	return *s.items[index], true
}

// FindSlot returns a copy of the item holding quick slot n, if any.
func (s *Store) FindSlot(n int) (types.ClipboardItem, bool) {
	if n < types.MinSlot || n > types.MaxSlot {
		return types.ClipboardItem{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.Pin == types.Slot(n) {
			return *it, true
		}
	}
	return types.ClipboardItem{}, false
}

// UpsertFront records a new clipboard observation. If an item with
// identical content already exists anywhere in the sequence it is moved
// to the front, carrying its identity and pin state; otherwise a new
// unpinned item is created. CreatedAt is refreshed either way.
func (s *Store) UpsertFront(candidate types.ClipboardItem) types.ClipboardItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := &candidate
	for i, existing := range s.items {
		if existing.SameContent(&candidate) {
			item = existing
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	if item == &candidate {
		item.ID = uuid.NewString()
		item.Pin = types.Unpinned
	}
	item.CreatedAt = s.now()
	s.items = append([]*types.ClipboardItem{item}, s.items...)
	s.persistHistory()
	return *item
}

// Delete removes the item at index. An out-of-range index is a no-op.
func (s *Store) Delete(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return
	}
	removed := s.items[index]
	s.items = append(s.items[:index], s.items[index+1:]...)
	s.releaseImage(removed)
	s.persistHistory()
}

// ClearUnpinned removes every item whose pin state is Unpinned.
func (s *Store) ClearUnpinned() {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	var dropped []*types.ClipboardItem
	for _, it := range s.items {
		if it.Pin == types.Unpinned {
			dropped = append(dropped, it)
		} else {
			kept = append(kept, it)
		}
	}
	s.items = kept
	for _, it := range dropped {
		s.releaseImage(it)
	}
	s.persistHistory()
}

// Settings returns the current settings.
func (s *Store) Settings() types.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings applies a partial update and persists the result.
// Callers are expected to follow up with Evict.
func (s *Store) UpdateSettings(update types.SettingsUpdate) types.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	update.Apply(&s.settings)
	if err := s.persist.SaveSettings(s.settings); err != nil {
		s.logger.Error("failed to persist settings", zap.Error(err))
	}
	return s.settings
}

// UsageStats reports the item count and total persisted size: the
// serialized history plus every referenced blob, each counted once.
func (s *Store) UsageStats() (totalBytes int64, itemCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistedSizeLocked(), len(s.items)
}

// persistedSizeLocked computes the eviction budget input. Callers must
// hold the lock.
func (s *Store) persistedSizeLocked() int64 {
	encoded, err := json.Marshal(s.items)
	if err != nil {
		encoded = nil
	}
	total := int64(len(encoded))
	seen := make(map[string]bool)
	for _, it := range s.items {
		if it.Kind == types.KindImage && !seen[it.ImageRef] {
			seen[it.ImageRef] = true
			total += s.blobs.SizeOf(it.ImageRef)
		}
	}
	return total
}

// releaseImage drops the blob reference held by a removed image item,
// deleting the blob when no remaining item references the filename.
// Callers must hold the lock and must have already removed the item
// from the sequence.
func (s *Store) releaseImage(removed *types.ClipboardItem) {
	if removed.Kind != types.KindImage || removed.ImageRef == "" {
		return
	}
	for _, it := range s.items {
		if it.Kind == types.KindImage && it.ImageRef == removed.ImageRef {
			return
		}
	}
	s.blobs.Remove(removed.ImageRef)
}

// persistHistory writes the full sequence. Callers must hold the lock.
func (s *Store) persistHistory() {
	if err := s.persist.SaveHistory(s.items); err != nil {
		s.logger.Error("failed to persist history", zap.Error(err))
	}
}
