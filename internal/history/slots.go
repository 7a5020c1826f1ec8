package history

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tobq/clipboard-tray/internal/types"
)

// SlotPayload is the content of one entry in the legacy standalone
// slot-to-content mapping, folded into the pin field at startup.
type SlotPayload struct {
	Kind     types.ItemKind
	Text     string
	ImageRef string
}

// TogglePin cycles the protection of the item at index: a numbered slot
// demotes to Pinned (keeps protection, loses the number); otherwise the
// state flips between Pinned and Unpinned. Out-of-range is a no-op.
func (s *Store) TogglePin(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return
	}
	it := s.items[index]
	if _, held := it.Pin.SlotNumber(); held {
		// A slot first sheds its number but keeps protection.
		it.Pin = types.Pinned
	} else if it.Pin == types.Pinned {
		it.Pin = types.Unpinned
	} else {
		it.Pin = types.Pinned
	}
	s.persistHistory()
}

// AssignSlot binds quick slot n to the item at index. Any current
// holder of the slot is demoted to Pinned, never to Unpinned, so it
// keeps its eviction protection. Both steps commit atomically under the
// store lock. Invalid index or slot number is a no-op.
func (s *Store) AssignSlot(index, n int) {
	if n < types.MinSlot || n > types.MaxSlot {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return
	}
	s.demoteHolderLocked(n)
	s.items[index].Pin = types.Slot(n)
	s.persistHistory()
}

// UnassignSlot demotes the current holder of slot n to Pinned.
func (s *Store) UnassignSlot(n int) {
	if n < types.MinSlot || n > types.MaxSlot {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.demoteHolderLocked(n) {
		return
	}
	s.persistHistory()
}

func (s *Store) demoteHolderLocked(n int) bool {
	for _, it := range s.items {
		if it.Pin == types.Slot(n) {
			it.Pin = types.Pinned
			return true
		}
	}
	return false
}

// migrateLegacySlots folds the old slot mapping into the pin field:
// each payload is matched against existing items by text equality or
// image filename; unmatched payloads become new synthetic items at the
// back of the history. Runs once, before the store is shared.
func (s *Store) migrateLegacySlots(legacy map[int]SlotPayload) {
	if len(legacy) == 0 {
		return
	}
	changed := false
	for n := types.MinSlot; n <= types.MaxSlot; n++ {
		payload, ok := legacy[n]
		if !ok {
			continue
		}
		if s.adoptSlotLocked(n, payload) {
			changed = true
			continue
		}
		item := &types.ClipboardItem{
			ID:        uuid.NewString(),
			Kind:      payload.Kind,
			Text:      payload.Text,
			ImageRef:  payload.ImageRef,
			CreatedAt: s.now(),
			Pin:       types.Slot(n),
		}
		s.items = append(s.items, item)
		changed = true
		s.logger.Info("migrated legacy slot to synthetic item",
			zap.Int("slot", n), zap.String("kind", string(payload.Kind)))
	}
	if changed {
		s.persistHistory()
	}
}

func (s *Store) adoptSlotLocked(n int, payload SlotPayload) bool {
	for _, it := range s.items {
		if _, held := it.Pin.SlotNumber(); held {
			continue
		}
		match := false
		switch payload.Kind {
		case types.KindImage:
			match = it.Kind == types.KindImage && it.ImageRef == payload.ImageRef
		default:
			match = it.Kind == types.KindText && it.Text == payload.Text
		}
		if match {
			it.Pin = types.Slot(n)
			return true
		}
	}
	return false
}

// seedSlotPresets installs one preset text item per quick slot. It
// fires at most once: only when the history is empty after migration,
// which can never recur once anything has been copied.
func (s *Store) seedSlotPresets() {
	if len(s.items) != 0 {
		return
	}
	for n := types.MinSlot; n <= types.MaxSlot; n++ {
		s.items = append(s.items, &types.ClipboardItem{
			ID:        uuid.NewString(),
			Kind:      types.KindText,
			Text:      fmt.Sprintf("Quick slot %d preset", n),
			CreatedAt: s.now(),
			Pin:       types.Slot(n),
		})
	}
	s.logger.Info("seeded first-run slot presets")
	s.persistHistory()
}
