package types

import "testing"

func TestSlotBounds(t *testing.T) {
	tests := []struct {
		n    int
		want PinState
	}{
		{0, Unpinned},
		{1, Slot(1)},
		{9, Slot(9)},
		{10, Unpinned},
		{-3, Unpinned},
	}
	for _, tt := range tests {
		if got := Slot(tt.n); got != tt.want {
			t.Errorf("Slot(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestPinStateProtected(t *testing.T) {
	if Unpinned.Protected() {
		t.Error("Unpinned must not be protected")
	}
	if !Pinned.Protected() {
		t.Error("Pinned must be protected")
	}
	for n := MinSlot; n <= MaxSlot; n++ {
		if !Slot(n).Protected() {
			t.Errorf("Slot(%d) must be protected", n)
		}
	}
}

func TestSlotNumber(t *testing.T) {
	if _, ok := Pinned.SlotNumber(); ok {
		t.Error("Pinned should not report a slot number")
	}
	if n, ok := Slot(4).SlotNumber(); !ok || n != 4 {
		t.Errorf("Slot(4).SlotNumber() = %d, %v", n, ok)
	}
}

func TestSameContent(t *testing.T) {
	a := &ClipboardItem{Kind: KindText, Text: "hello"}
	b := &ClipboardItem{Kind: KindText, Text: "hello"}
	c := &ClipboardItem{Kind: KindText, Text: "world"}
	img := &ClipboardItem{Kind: KindImage, ImageRef: "abc123def456.png"}
	img2 := &ClipboardItem{Kind: KindImage, ImageRef: "abc123def456.png"}

	if !a.SameContent(b) {
		t.Error("identical text must match")
	}
	if a.SameContent(c) {
		t.Error("different text must not match")
	}
	if a.SameContent(img) {
		t.Error("text must never match image")
	}
	if !img.SameContent(img2) {
		t.Error("identical image refs must match")
	}
}
