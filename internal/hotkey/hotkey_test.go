package hotkey

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

type fakeSurface struct {
	open    bool
	focused int
	opened  int
}

func (f *fakeSurface) Open()             { f.opened++; f.open = true }
func (f *fakeSurface) IsOpen() bool      { return f.open }
func (f *fakeSurface) FocusedIndex() int { return f.focused }

type fakeAssigner struct {
	calls [][2]int
}

func (f *fakeAssigner) AssignSlot(index, slot int) {
	f.calls = append(f.calls, [2]int{index, slot})
}

type fakePaster struct {
	slots []int
}

func (f *fakePaster) PasteSlot(n int) { f.slots = append(f.slots, n) }

type fakeFocus struct {
	captures int
}

func (f *fakeFocus) CaptureForeground() { f.captures++ }
func (f *fakeFocus) RestoreForeground() {}
func (f *fakeFocus) SendPaste()         {}

type stubSource struct {
	ch chan Event
}

func (s stubSource) Start() (<-chan Event, error) { return s.ch, nil }

func newTestDispatcher() (*Dispatcher, *fakeSurface, *fakeAssigner, *fakePaster, *fakeFocus, func(time.Duration)) {
	surface := &fakeSurface{}
	assigner := &fakeAssigner{}
	paster := &fakePaster{}
	focus := &fakeFocus{}
	d := NewDispatcher(stubSource{}, surface, assigner, paster, focus, zap.NewNop())

	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return clock }
	advance := func(by time.Duration) { clock = clock.Add(by) }
	return d, surface, assigner, paster, focus, advance
}

func TestOpenChordDebounced(t *testing.T) {
	d, surface, _, _, focus, advance := newTestDispatcher()

	// Key repeat fires the chord every ~30ms while held.
	for i := 0; i < 10; i++ {
		d.handle(Event{Kind: EventOpenSurface})
		advance(30 * time.Millisecond)
	}
	if surface.opened != 1 {
		t.Errorf("surface opened %d times during key repeat, want 1", surface.opened)
	}

	advance(OpenDebounce)
	d.handle(Event{Kind: EventOpenSurface})
	if surface.opened != 2 {
		t.Errorf("surface opened %d times after debounce window, want 2", surface.opened)
	}
	if focus.captures != 2 {
		t.Errorf("foreground captured %d times, want once per open", focus.captures)
	}
}

func TestOpenChordCapturesFocusBeforeSurface(t *testing.T) {
	d, surface, _, _, focus, _ := newTestDispatcher()

	d.handle(Event{Kind: EventOpenSurface})

	if focus.captures != 1 {
		t.Fatalf("foreground captured %d times, want 1", focus.captures)
	}
	if surface.opened != 1 {
		t.Fatalf("surface opened %d times, want 1", surface.opened)
	}
}

func TestDigitAssignsWhileSurfaceOpen(t *testing.T) {
	d, surface, assigner, paster, _, _ := newTestDispatcher()
	surface.open = true
	surface.focused = 4

	d.handle(Event{Kind: EventDigit, Digit: 7})
	d.handle(Event{Kind: EventDigit, Digit: 2, Chord: true})

	want := [][2]int{{4, 7}, {4, 2}}
	if diff := cmp.Diff(want, assigner.calls); diff != "" {
		t.Errorf("assignments mismatch (-want +got):\n%s", diff)
	}
	if len(paster.slots) != 0 {
		t.Errorf("digits pasted while surface open: %v", paster.slots)
	}
}

func TestDigitChordPastesWhileSurfaceClosed(t *testing.T) {
	d, _, assigner, paster, _, _ := newTestDispatcher()

	d.handle(Event{Kind: EventDigit, Digit: 3, Chord: true})
	d.handle(Event{Kind: EventDigit, Digit: 9, Chord: true})

	if diff := cmp.Diff([]int{3, 9}, paster.slots); diff != "" {
		t.Errorf("pasted slots mismatch (-want +got):\n%s", diff)
	}
	if len(assigner.calls) != 0 {
		t.Errorf("chord digits assigned while surface closed: %v", assigner.calls)
	}
}

func TestBareDigitIgnoredWhileSurfaceClosed(t *testing.T) {
	d, _, assigner, paster, _, _ := newTestDispatcher()

	d.handle(Event{Kind: EventDigit, Digit: 5})

	if len(paster.slots) != 0 || len(assigner.calls) != 0 {
		t.Error("bare digit acted on while surface closed")
	}
}

func TestDigitOutOfRangeIgnored(t *testing.T) {
	d, surface, assigner, paster, _, _ := newTestDispatcher()
	surface.open = true

	d.handle(Event{Kind: EventDigit, Digit: 0, Chord: true})
	d.handle(Event{Kind: EventDigit, Digit: 10, Chord: true})

	if len(paster.slots) != 0 || len(assigner.calls) != 0 {
		t.Error("out-of-range digit acted on")
	}
}

func TestNilSurfaceChordPastes(t *testing.T) {
	assigner := &fakeAssigner{}
	paster := &fakePaster{}
	d := NewDispatcher(stubSource{}, nil, assigner, paster, &fakeFocus{}, zap.NewNop())

	d.handle(Event{Kind: EventOpenSurface})
	d.handle(Event{Kind: EventDigit, Digit: 1, Chord: true})

	if diff := cmp.Diff([]int{1}, paster.slots); diff != "" {
		t.Errorf("pasted slots mismatch (-want +got):\n%s", diff)
	}
}

func TestStartConsumesSourceEvents(t *testing.T) {
	ch := make(chan Event)
	paster := &fakePaster{}
	pasted := make(chan struct{})
	d := NewDispatcher(stubSource{ch: ch}, nil, &fakeAssigner{}, slotPasterFunc(func(n int) {
		paster.PasteSlot(n)
		pasted <- struct{}{}
	}), &fakeFocus{}, zap.NewNop())

	if err := d.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ch <- Event{Kind: EventDigit, Digit: 6, Chord: true}

	select {
	case <-pasted:
	case <-time.After(time.Second):
		t.Fatal("event never reached the worker")
	}
	if diff := cmp.Diff([]int{6}, paster.slots); diff != "" {
		t.Errorf("pasted slots mismatch (-want +got):\n%s", diff)
	}
}

type slotPasterFunc func(n int)

func (f slotPasterFunc) PasteSlot(n int) { f(n) }
