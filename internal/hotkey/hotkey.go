// Package hotkey turns low-level global key chords into engine
// commands. The platform hook callback must never block or do I/O:
// it only enqueues events; a worker goroutine owned by the Dispatcher
// does the actual work (opening the surface, injecting a paste,
// assigning a slot).
package hotkey

import (
	"time"

	"go.uber.org/zap"

	"github.com/tobq/clipboard-tray/internal/platform"
)

// OpenDebounce suppresses repeat fires of the open-surface chord while
// the key is held.
const OpenDebounce = 500 * time.Millisecond

// EventKind discriminates hook events.
type EventKind int

const (
	// EventOpenSurface is the modifier+letter chord (Win+V).
	EventOpenSurface EventKind = iota
	// EventDigit is a numeric key 1..9. Chord reports whether the
	// modifier was held; bare digits only matter while the surface is
	// open.
	EventDigit
)

// Event is one recognized key chord, emitted by a Source.
type Event struct {
	Kind  EventKind
	Digit int
	Chord bool
}

// Source is the platform-level hook. Implementations pump their own
// message loop and emit events without blocking.
type Source interface {
	// Start installs the hook. The returned channel never closes.
	Start() (<-chan Event, error)
}

// Surface is the popup-equivalent UI, an external collaborator. The
// engine only needs to open it and ask what is focused.
type Surface interface {
	Open()
	IsOpen() bool
	FocusedIndex() int
}

// SlotAssigner binds a history item to a quick slot. Satisfied by the
// history store.
type SlotAssigner interface {
	AssignSlot(index, slot int)
}

// SlotPaster injects a slot's content. Satisfied by the injector.
type SlotPaster interface {
	PasteSlot(n int)
}

// Dispatcher consumes hook events on its own worker goroutine.
type Dispatcher struct {
	source   Source
	surface  Surface
	assigner SlotAssigner
	paster   SlotPaster
	input    platform.Input
	logger   *zap.Logger

	lastOpen time.Time
	now      func() time.Time
}

// NewDispatcher wires a dispatcher. surface may be nil when no UI is
// attached; digit chords then always paste.
func NewDispatcher(source Source, surface Surface, assigner SlotAssigner, paster SlotPaster, input platform.Input, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		source:   source,
		surface:  surface,
		assigner: assigner,
		paster:   paster,
		input:    input,
		logger:   logger,
		now:      time.Now,
	}
}

// Start installs the hook and launches the worker.
func (d *Dispatcher) Start() error {
	events, err := d.source.Start()
	if err != nil {
		return err
	}
	go func() {
		for ev := range events {
			d.handle(ev)
		}
	}()
	return nil
}

// handle reacts to one event. Runs on the worker, never on the hook
// thread.
func (d *Dispatcher) handle(ev Event) {
	switch ev.Kind {
	case EventOpenSurface:
		if d.now().Sub(d.lastOpen) < OpenDebounce {
			return
		}
		d.lastOpen = d.now()
		// Remember the window the paste should land in before the
		// surface steals focus.
		d.input.CaptureForeground()
		if d.surface != nil {
			d.surface.Open()
		}
	case EventDigit:
		if ev.Digit < 1 || ev.Digit > 9 {
			return
		}
		if d.surface != nil && d.surface.IsOpen() {
			d.assigner.AssignSlot(d.surface.FocusedIndex(), ev.Digit)
			return
		}
		if ev.Chord {
			d.paster.PasteSlot(ev.Digit)
		}
	}
}
