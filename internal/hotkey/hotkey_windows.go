//go:build windows

package hotkey

import (
	"runtime"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procGetAsyncKeyState    = user32.NewProc("GetAsyncKeyState")
)

const (
	whKeyboardLL = 13

	wmKeydown    = 0x0100
	wmSyskeydown = 0x0104

	vkLWin = 0x5B
	vkRWin = 0x5C
	vkV    = 0x56
	vk1    = 0x31
	vk9    = 0x39
)

type kbdllHookStruct struct {
	VkCode    uint32
	ScanCode  uint32
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

type msg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

// winSource installs a WH_KEYBOARD_LL hook on a locked OS thread and
// pumps messages for it. The hook procedure only classifies the key and
// pushes onto a buffered channel; dropped events under backpressure are
// preferable to stalling the system-wide keyboard pipeline.
type winSource struct {
	events chan Event
	logger *zap.Logger
}

// NewSource returns the Windows low-level keyboard hook source.
func NewSource(logger *zap.Logger) Source {
	return &winSource{
		events: make(chan Event, 16),
		logger: logger,
	}
}

func (s *winSource) Start() (<-chan Event, error) {
	installed := make(chan error, 1)

	go func() {
		// Hooks are tied to the installing thread's message queue.
		runtime.LockOSThread()

		hookProc := windows.NewCallback(func(code int, wparam, lparam uintptr) uintptr {
			if code >= 0 && (wparam == wmKeydown || wparam == wmSyskeydown) {
				kb := (*kbdllHookStruct)(unsafe.Pointer(lparam))
				if s.classify(kb.VkCode) {
					// Swallow the chord so Windows' own handler (or the
					// focused app) never sees it.
					return 1
				}
			}
			next, _, _ := procCallNextHookEx.Call(0, uintptr(code), wparam, lparam)
			return next
		})

		hook, _, err := procSetWindowsHookExW.Call(whKeyboardLL, hookProc, 0, 0)
		if hook == 0 {
			installed <- err
			return
		}
		installed <- nil
		defer procUnhookWindowsHookEx.Call(hook)

		var m msg
		for {
			r, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
			if int32(r) <= 0 {
				return
			}
		}
	}()

	if err := <-installed; err != nil {
		return nil, err
	}
	s.logger.Info("global hotkey hook installed")
	return s.events, nil
}

// classify maps a keydown to an event. Returns true when the keystroke
// must be swallowed.
func (s *winSource) classify(vk uint32) bool {
	switch {
	case vk == vkV && winHeld():
		s.emit(Event{Kind: EventOpenSurface})
		return true
	case vk >= vk1 && vk <= vk9:
		chord := winHeld()
		s.emit(Event{Kind: EventDigit, Digit: int(vk - vk1 + 1), Chord: chord})
		// Bare digits pass through to whatever has focus.
		return chord
	}
	return false
}

func (s *winSource) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		s.logger.Warn("hotkey event dropped, dispatcher backed up")
	}
}

func winHeld() bool {
	l, _, _ := procGetAsyncKeyState.Call(vkLWin)
	r, _, _ := procGetAsyncKeyState.Call(vkRWin)
	return uint16(l)&0x8000 != 0 || uint16(r)&0x8000 != 0
}
