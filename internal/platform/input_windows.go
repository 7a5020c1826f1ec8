//go:build windows

package platform

import (
	"sync"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procGetForegroundWindow = user32.NewProc("GetForegroundWindow")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
	procSendInput           = user32.NewProc("SendInput")
)

const (
	inputKeyboard  = 1
	keyEventfKeyUp = 0x0002
	vkControl      = 0x11
	vkV            = 0x56
)

type keyboardInput struct {
	Vk        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

// input matches the Win32 INPUT struct layout on 64-bit: the union is
// sized for MOUSEINPUT (32 bytes), of which KEYBDINPUT uses 24.
type input struct {
	Type uint32
	_    uint32
	Ki   keyboardInput
	_    [8]byte
}

type winInput struct {
	mu   sync.Mutex
	hwnd uintptr

	logger *zap.Logger
}

// NewInput returns the Windows focus/synthetic-paste implementation.
func NewInput(logger *zap.Logger) Input {
	return &winInput{logger: logger}
}

func (w *winInput) CaptureForeground() {
	h, _, _ := procGetForegroundWindow.Call()
	w.mu.Lock()
	w.hwnd = h
	w.mu.Unlock()
}

func (w *winInput) RestoreForeground() {
	w.mu.Lock()
	h := w.hwnd
	w.mu.Unlock()
	if h == 0 {
		return
	}
	r, _, _ := procSetForegroundWindow.Call(h)
	if r == 0 {
		w.logger.Debug("failed to refocus previous window")
	}
}

// SendPaste delivers Ctrl down, V down, V up, Ctrl up in one batch.
func (w *winInput) SendPaste() {
	events := []input{
		{Type: inputKeyboard, Ki: keyboardInput{Vk: vkControl}},
		{Type: inputKeyboard, Ki: keyboardInput{Vk: vkV}},
		{Type: inputKeyboard, Ki: keyboardInput{Vk: vkV, Flags: keyEventfKeyUp}},
		{Type: inputKeyboard, Ki: keyboardInput{Vk: vkControl, Flags: keyEventfKeyUp}},
	}
	sent, _, _ := procSendInput.Call(
		uintptr(len(events)),
		uintptr(unsafe.Pointer(&events[0])),
		unsafe.Sizeof(events[0]),
	)
	if int(sent) != len(events) {
		w.logger.Debug("synthetic paste partially delivered",
			zap.Int("sent", int(sent)))
	}
}
