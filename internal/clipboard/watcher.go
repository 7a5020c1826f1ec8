package clipboard

import (
	"time"

	"go.uber.org/zap"

	"github.com/tobq/clipboard-tray/internal/blob"
	"github.com/tobq/clipboard-tray/internal/history"
	"github.com/tobq/clipboard-tray/internal/types"
	"github.com/tobq/clipboard-tray/pkg/utils"
)

// DefaultPollInterval is how often the watcher samples the clipboard.
const DefaultPollInterval = 400 * time.Millisecond

// Watcher polls the system clipboard and records new observations in
// the history store. It runs for the process lifetime; every tick is
// executed under the pause gate so it never overlaps an injection.
type Watcher struct {
	interop  Interop
	store    *history.Store
	blobs    *blob.Store
	gate     *Gate
	logger   *zap.Logger
	interval time.Duration

	// Baselines avoid re-recording an unchanged clipboard each tick.
	// They are process state only, never persisted.
	lastText      string
	lastImageHash string
}

// NewWatcher wires a watcher. A zero interval selects the default.
func NewWatcher(interop Interop, store *history.Store, blobs *blob.Store, gate *Gate, logger *zap.Logger, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		interop:  interop,
		store:    store,
		blobs:    blobs,
		gate:     gate,
		logger:   logger,
		interval: interval,
	}
}

// Start launches the polling loop.
func (w *Watcher) Start() {
	w.logger.Info("starting clipboard watcher",
		zap.Duration("interval", w.interval))
	go func() {
		for {
			w.gate.Run(w.tick)
			time.Sleep(w.interval)
		}
	}()
}

// tick samples the clipboard once. Images take precedence over text;
// observing one kind resets the other kind's baseline so alternating
// copies of the same content are still recorded. Any interop failure
// is swallowed and the next tick proceeds as usual.
func (w *Watcher) tick() {
	if w.interop.HasImage() {
		img, err := w.interop.ReadImage()
		if err != nil || img == nil {
			if err != nil {
				w.logger.Debug("image read failed", zap.Error(err))
			}
			return
		}
		hash := utils.ShortHash(img.PNG)
		if hash == w.lastImageHash {
			return
		}
		w.lastImageHash = hash
		w.lastText = ""

		fname, err := w.blobs.Put(img.PNG)
		if err != nil {
			w.logger.Error("failed to store image blob", zap.Error(err))
			return
		}
		w.store.UpsertFront(types.ClipboardItem{
			Kind:     types.KindImage,
			ImageRef: fname,
			Width:    img.Width,
			Height:   img.Height,
		})
		w.store.Evict()
		return
	}

	text, err := w.interop.ReadText()
	if err != nil {
		w.logger.Debug("text read failed", zap.Error(err))
		return
	}
	if text == "" || text == w.lastText {
		return
	}
	w.lastText = text
	w.lastImageHash = ""
	w.store.UpsertFront(types.ClipboardItem{
		Kind: types.KindText,
		Text: text,
	})
	w.store.Evict()
}
