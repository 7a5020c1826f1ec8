//go:build !windows

package platform

import "go.uber.org/zap"

// noopInput keeps the engine usable on platforms without the
// foreground-window and synthetic-input plumbing. Pastes still land on
// the clipboard; the user presses the paste chord themselves.
type noopInput struct{}

// NewInput returns the no-op focus/paste implementation.
func NewInput(logger *zap.Logger) Input {
	logger.Info("synthetic paste not supported on this platform")
	return noopInput{}
}

func (noopInput) CaptureForeground() {}
func (noopInput) RestoreForeground() {}
func (noopInput) SendPaste()         {}
