package history

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tobq/clipboard-tray/internal/types"
)

func slotHolders(s *Store) map[int]string {
	holders := map[int]string{}
	for _, it := range s.Items() {
		if n, ok := it.Pin.SlotNumber(); ok {
			holders[n] = it.Text + it.ImageRef
		}
	}
	return holders
}

func TestAssignSlotDemotesPriorHolderToPinned(t *testing.T) {
	f := seeded(t)
	s := f.store
	s.UpsertFront(textItem("second"))
	s.UpsertFront(textItem("first"))

	s.AssignSlot(0, 3)
	s.AssignSlot(1, 3)

	first, _ := s.Get(0)
	second, _ := s.Get(1)
	if first.Pin != types.Pinned {
		t.Errorf("prior holder pin = %v, want Pinned", first.Pin)
	}
	if second.Pin != types.Slot(3) {
		t.Errorf("new holder pin = %v, want Slot(3)", second.Pin)
	}
}

func TestSlotUniquenessUnderAssignSequences(t *testing.T) {
	f := seeded(t)
	s := f.store
	for _, text := range []string{"a", "b", "c", "d"} {
		s.UpsertFront(textItem(text))
	}
	moves := []struct{ index, slot int }{
		{0, 1}, {1, 1}, {2, 1}, {0, 2}, {3, 2}, {2, 1}, {1, 9},
	}
	for _, m := range moves {
		s.AssignSlot(m.index, m.slot)
		counts := map[int]int{}
		for _, it := range s.Items() {
			if n, ok := it.Pin.SlotNumber(); ok {
				counts[n]++
			}
		}
		for n, c := range counts {
			if c > 1 {
				t.Fatalf("slot %d held by %d items after assign(%d, %d)",
					n, c, m.index, m.slot)
			}
		}
	}
}

func TestUnassignSlot(t *testing.T) {
	f := seeded(t)
	s := f.store
	s.UpsertFront(textItem("holder"))
	s.AssignSlot(0, 5)

	s.UnassignSlot(5)
	holder, _ := s.Get(0)
	if holder.Pin != types.Pinned {
		t.Errorf("unassigned holder pin = %v, want Pinned", holder.Pin)
	}

	// Unassigning an empty slot is a no-op.
	before := s.Items()
	s.UnassignSlot(7)
	if diff := cmp.Diff(before, s.Items()); diff != "" {
		t.Errorf("unassign of empty slot changed history:\n%s", diff)
	}
}

func TestTogglePinThreeStates(t *testing.T) {
	f := seeded(t)
	s := f.store
	s.UpsertFront(textItem("x"))

	s.TogglePin(0)
	if it, _ := s.Get(0); it.Pin != types.Pinned {
		t.Fatalf("pin = %v, want Pinned", it.Pin)
	}
	s.TogglePin(0)
	if it, _ := s.Get(0); it.Pin != types.Unpinned {
		t.Fatalf("pin = %v, want Unpinned", it.Pin)
	}

	// From a numbered slot, toggling drops the number, keeps protection.
	s.AssignSlot(0, 2)
	s.TogglePin(0)
	if it, _ := s.Get(0); it.Pin != types.Pinned {
		t.Fatalf("pin = %v, want Pinned after slot toggle", it.Pin)
	}
}

func TestMigrationMatchesExistingItems(t *testing.T) {
	items := []*types.ClipboardItem{
		{ID: "t1", Kind: types.KindText, Text: "snippet"},
		{ID: "i1", Kind: types.KindImage, ImageRef: "aaaabbbbcccc.png"},
		{ID: "t2", Kind: types.KindText, Text: "other"},
	}
	f := newFixture(t, Config{
		Items: items,
		LegacySlots: map[int]SlotPayload{
			1: {Kind: types.KindText, Text: "snippet"},
			2: {Kind: types.KindImage, ImageRef: "aaaabbbbcccc.png"},
			3: {Kind: types.KindText, Text: "never seen before"},
		},
	})
	s := f.store

	holders := slotHolders(s)
	want := map[int]string{
		1: "snippet",
		2: "aaaabbbbcccc.png",
		3: "never seen before",
	}
	if diff := cmp.Diff(want, holders); diff != "" {
		t.Errorf("migration holders mismatch (-want +got):\n%s", diff)
	}
	// The unmatched payload became a synthetic item at the back.
	if n := s.Len(); n != 4 {
		t.Errorf("Len() = %d, want 4", n)
	}
	last, _ := s.Get(3)
	if last.Text != "never seen before" || last.Pin != types.Slot(3) {
		t.Errorf("synthetic item misplaced: %+v", last)
	}
}

func TestSeedingOnlyOnEmptyHistory(t *testing.T) {
	f := newFixture(t, Config{})
	s := f.store
	if n := s.Len(); n != 9 {
		t.Fatalf("fresh store should seed 9 presets, got %d", n)
	}
	holders := slotHolders(s)
	if len(holders) != 9 {
		t.Errorf("expected 9 distinct slot holders, got %d", len(holders))
	}

	// Non-empty history must not seed.
	f2 := newFixture(t, Config{Items: []*types.ClipboardItem{
		{ID: "x", Kind: types.KindText, Text: "existing"},
	}})
	if n := f2.store.Len(); n != 1 {
		t.Errorf("non-empty history seeded presets: Len() = %d", n)
	}
}

func TestMigrationPreventsSeeding(t *testing.T) {
	f := newFixture(t, Config{
		LegacySlots: map[int]SlotPayload{
			4: {Kind: types.KindText, Text: "legacy"},
		},
	})
	s := f.store
	if n := s.Len(); n != 1 {
		t.Fatalf("Len() = %d, want only the migrated item", n)
	}
	it, _ := s.Get(0)
	if it.Pin != types.Slot(4) {
		t.Errorf("pin = %v, want Slot(4)", it.Pin)
	}
}
