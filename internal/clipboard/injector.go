package clipboard

import (
	"time"

	"go.uber.org/zap"

	"github.com/tobq/clipboard-tray/internal/blob"
	"github.com/tobq/clipboard-tray/internal/history"
	"github.com/tobq/clipboard-tray/internal/platform"
	"github.com/tobq/clipboard-tray/internal/types"
)

// Settle intervals between injection steps. Fixed heuristics: long
// enough for the clipboard write to land and for the target app to
// consume the paste, short enough to feel instant.
const (
	writeSettle   = 50 * time.Millisecond
	consumeSettle = 150 * time.Millisecond
)

// Injector re-injects a stored history entry into the previously
// focused application via a synthetic paste, restoring the user's
// pre-injection clipboard contents byte-for-byte afterwards.
type Injector struct {
	interop Interop
	gate    *Gate
	input   platform.Input
	store   *history.Store
	blobs   *blob.Store
	logger  *zap.Logger

	// hideSurface closes the popup-equivalent UI before focus moves
	// back to the target window. Optional; wired by the UI layer.
	hideSurface func()
	sleep       func(time.Duration)
}

// NewInjector wires an injector. hideSurface may be nil.
func NewInjector(interop Interop, gate *Gate, input platform.Input, store *history.Store, blobs *blob.Store, logger *zap.Logger, hideSurface func()) *Injector {
	return &Injector{
		interop:     interop,
		gate:        gate,
		input:       input,
		store:       store,
		blobs:       blobs,
		logger:      logger,
		hideSurface: hideSurface,
		sleep:       time.Sleep,
	}
}

// PasteIndex injects the history item at index. An out-of-range index
// is a no-op.
func (inj *Injector) PasteIndex(index int) {
	item, ok := inj.store.Get(index)
	if !ok {
		return
	}
	inj.paste(item)
}

// PasteSlot injects the item holding quick slot n, if any.
func (inj *Injector) PasteSlot(n int) {
	item, ok := inj.store.FindSlot(n)
	if !ok {
		return
	}
	inj.paste(item)
}

// paste runs the injection sequence. The gate serializes concurrent
// triggers and keeps the watcher from observing the transient write.
func (inj *Injector) paste(item types.ClipboardItem) {
	if inj.hideSurface != nil {
		inj.hideSurface()
	}

	inj.gate.Pause()
	defer inj.gate.Resume()

	snapshot := inj.interop.Snapshot()

	switch item.Kind {
	case types.KindImage:
		data, err := inj.blobs.Read(item.ImageRef)
		if err != nil {
			inj.logger.Warn("paste aborted, blob unreadable",
				zap.String("image", item.ImageRef), zap.Error(err))
			return
		}
		if err := inj.interop.WriteImage(data); err != nil {
			inj.logger.Debug("image write failed", zap.Error(err))
		}
	default:
		if err := inj.interop.WriteText(item.Text); err != nil {
			inj.logger.Debug("text write failed", zap.Error(err))
		}
	}

	inj.sleep(writeSettle)
	inj.input.RestoreForeground()
	inj.input.SendPaste()
	inj.sleep(consumeSettle)

	inj.interop.Restore(snapshot)
}
