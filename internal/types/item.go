package types

import (
	"time"
)

// ItemKind discriminates the payload of a ClipboardItem.
type ItemKind string

const (
	KindText  ItemKind = "text"
	KindImage ItemKind = "image"
)

// PinState is the tri-state protection field of an item:
//
//	Unpinned      eligible for eviction
//	Pinned        protected, no quick-slot number
//	Slot(1)..(9)  protected and bound to a numeric quick slot
//
// A single scalar per item cannot express two holders of the same slot;
// cross-item uniqueness is enforced by the history store under its lock.
type PinState int

const (
	Unpinned PinState = 0
	Pinned   PinState = -1
)

// MinSlot and MaxSlot bound the numeric quick slots.
const (
	MinSlot = 1
	MaxSlot = 9
)

// Slot returns the pin state for quick slot n. n must be in 1..9;
// out-of-range values yield Unpinned so a bad wire value never becomes
// a phantom slot.
func Slot(n int) PinState {
	if n < MinSlot || n > MaxSlot {
		return Unpinned
	}
	return PinState(n)
}

// SlotNumber reports the slot number held by p, if any.
func (p PinState) SlotNumber() (int, bool) {
	if p >= MinSlot && p <= MaxSlot {
		return int(p), true
	}
	return 0, false
}

// Protected reports whether p exempts an item from eviction.
func (p PinState) Protected() bool {
	return p == Pinned || (p >= MinSlot && p <= MaxSlot)
}

// ClipboardItem is one entry of the clipboard history.
type ClipboardItem struct {
	ID        string    `json:"id"`
	Kind      ItemKind  `json:"kind"`
	Text      string    `json:"text,omitempty"`
	ImageRef  string    `json:"image,omitempty"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Pin       PinState  `json:"pin"`
}

// SameContent reports whether two items carry identical payloads:
// exact string equality for text, blob filename equality for images.
func (it *ClipboardItem) SameContent(other *ClipboardItem) bool {
	if it.Kind != other.Kind {
		return false
	}
	if it.Kind == KindImage {
		return it.ImageRef == other.ImageRef
	}
	return it.Text == other.Text
}
