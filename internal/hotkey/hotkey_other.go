//go:build !windows

package hotkey

import "go.uber.org/zap"

// noopSource keeps the daemon runnable on platforms without a global
// keyboard hook. The HTTP surface remains the way to drive the engine.
type noopSource struct{}

// NewSource returns a source that never emits.
func NewSource(logger *zap.Logger) Source {
	logger.Info("global hotkeys not supported on this platform")
	return noopSource{}
}

func (noopSource) Start() (<-chan Event, error) {
	return make(chan Event), nil
}
