// Package app composes the daemon: persistence, the history engine,
// the clipboard watcher, paste injection, global hotkeys and the
// command API.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tobq/clipboard-tray/internal/blob"
	"github.com/tobq/clipboard-tray/internal/clipboard"
	"github.com/tobq/clipboard-tray/internal/config"
	"github.com/tobq/clipboard-tray/internal/history"
	"github.com/tobq/clipboard-tray/internal/hotkey"
	"github.com/tobq/clipboard-tray/internal/httpserver"
	"github.com/tobq/clipboard-tray/internal/platform"
	"github.com/tobq/clipboard-tray/internal/storage"
)

// App owns every long-lived component of the daemon.
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	storage    *storage.BoltStorage
	blobs      *blob.Store
	history    *history.Store
	interop    clipboard.Interop
	gate       *clipboard.Gate
	watcher    *clipboard.Watcher
	injector   *clipboard.Injector
	dispatcher *hotkey.Dispatcher
	server     *httpserver.Server
}

// New wires the daemon from config. State is loaded, the legacy slot
// mapping (if any) is folded into the history and dropped, and an
// eviction pass brings the loaded history inside the configured limits.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := storage.NewBoltStorage(storage.StorageConfig{
		DBPath: cfg.SystemPaths.DBFile,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	blobs, err := blob.New(cfg.SystemPaths.ImagesDir, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}

	legacy := store.LoadLegacySlots()
	hist := history.New(history.Config{
		Items:       store.LoadHistory(),
		Settings:    store.LoadSettings(),
		LegacySlots: legacySlotPayloads(legacy),
		Persister:   store,
		Blobs:       blobs,
		Logger:      logger,
	})
	if legacy != nil {
		if err := store.DropLegacySlots(); err != nil {
			logger.Warn("failed to drop migrated slot mapping", zap.Error(err))
		}
	}
	hist.Evict()

	interop := clipboard.NewInterop(logger)
	gate := &clipboard.Gate{}
	input := platform.NewInput(logger)

	injector := clipboard.NewInjector(interop, gate, input, hist, blobs, logger, nil)
	watcher := clipboard.NewWatcher(interop, hist, blobs, gate, logger, cfg.PollInterval())
	dispatcher := hotkey.NewDispatcher(hotkey.NewSource(logger), nil, hist, injector, input, logger)

	server := httpserver.New(cfg.ListenAddr, httpserver.Deps{
		History: hist,
		Blobs:   blobs,
		Paster:  injector,
		Clip:    interop,
		Logger:  logger,
	})

	return &App{
		cfg:        cfg,
		logger:     logger,
		storage:    store,
		blobs:      blobs,
		history:    hist,
		interop:    interop,
		gate:       gate,
		watcher:    watcher,
		injector:   injector,
		dispatcher: dispatcher,
		server:     server,
	}, nil
}

// Run starts the watcher and the hotkey hook, then serves the command
// API until Shutdown.
func (a *App) Run() error {
	a.watcher.Start()
	if err := a.dispatcher.Start(); err != nil {
		// Hotkeys are a convenience; the HTTP surface still works.
		a.logger.Warn("hotkey hook unavailable", zap.Error(err))
	}
	a.logger.Info("daemon started",
		zap.String("addr", a.cfg.ListenAddr),
		zap.Duration("poll_interval", a.cfg.PollInterval()),
	)
	return a.server.Start()
}

// Shutdown stops the API server and closes the database.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.server.Stop(ctx); err != nil {
		a.logger.Warn("server shutdown error", zap.Error(err))
	}
	return a.storage.Close()
}

// History exposes the engine to CLI subcommands.
func (a *App) History() *history.Store {
	return a.history
}

func legacySlotPayloads(legacy map[int]storage.LegacySlot) map[int]history.SlotPayload {
	if legacy == nil {
		return nil
	}
	out := make(map[int]history.SlotPayload, len(legacy))
	for n, slot := range legacy {
		out[n] = history.SlotPayload{
			Kind:     slot.Kind,
			Text:     slot.Text,
			ImageRef: slot.Image,
		}
	}
	return out
}
