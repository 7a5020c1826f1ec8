// Package platform provides the window-focus and synthetic-input
// primitives the paste injector and hotkey surface need. Build
// constraints select the implementation; non-Windows builds get a
// no-op so the engine and its HTTP surface stay usable headless.
package platform

// Input captures the foreground window before the popup surface steals
// focus, hands focus back, and delivers the synthetic paste chord. All
// methods are best-effort.
type Input interface {
	// CaptureForeground remembers the currently focused window.
	CaptureForeground()
	// RestoreForeground refocuses the remembered window.
	RestoreForeground()
	// SendPaste delivers a synthetic Ctrl+V to the focused window.
	SendPaste()
}
