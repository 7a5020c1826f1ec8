//go:build windows

package clipboard

import (
	"errors"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procOpenClipboard              = user32.NewProc("OpenClipboard")
	procCloseClipboard             = user32.NewProc("CloseClipboard")
	procEmptyClipboard             = user32.NewProc("EmptyClipboard")
	procGetClipboardData           = user32.NewProc("GetClipboardData")
	procSetClipboardData           = user32.NewProc("SetClipboardData")
	procEnumClipboardFormats       = user32.NewProc("EnumClipboardFormats")
	procIsClipboardFormatAvailable = user32.NewProc("IsClipboardFormatAvailable")

	procGlobalAlloc  = kernel32.NewProc("GlobalAlloc")
	procGlobalFree   = kernel32.NewProc("GlobalFree")
	procGlobalLock   = kernel32.NewProc("GlobalLock")
	procGlobalUnlock = kernel32.NewProc("GlobalUnlock")
	procGlobalSize   = kernel32.NewProc("GlobalSize")
)

const gmemMoveable = 0x0002

var errClipboardBusy = errors.New("clipboard held by another process")

// winInterop talks to the Win32 clipboard directly so snapshots can
// enumerate every published format, not just text and bitmaps.
type winInterop struct {
	logger *zap.Logger
}

// NewInterop returns the Windows clipboard backend.
func NewInterop(logger *zap.Logger) Interop {
	return &winInterop{logger: logger}
}

// open acquires the clipboard with a bounded retry; the clipboard is a
// cross-process mutex and another owner makes OpenClipboard fail
// transiently.
func (c *winInterop) open() error {
	return withRetry(func() error {
		r, _, _ := procOpenClipboard.Call(0)
		if r == 0 {
			return errClipboardBusy
		}
		return nil
	})
}

func (c *winInterop) close() {
	procCloseClipboard.Call()
}

// globalBytes copies the contents of an HGLOBAL handle. Returns nil
// for handles that are not global memory (some formats hand out GDI
// object handles instead).
func globalBytes(h uintptr) []byte {
	size, _, _ := procGlobalSize.Call(h)
	if size == 0 {
		return nil
	}
	ptr, _, _ := procGlobalLock.Call(h)
	if ptr == 0 {
		return nil
	}
	defer procGlobalUnlock.Call(h)
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(ptr)), size))
	return out
}

// setGlobalData allocates global memory for data and publishes it
// under format. Ownership of the allocation passes to the clipboard on
// success.
func setGlobalData(format uint32, data []byte) bool {
	h, _, _ := procGlobalAlloc.Call(gmemMoveable, uintptr(len(data)))
	if h == 0 {
		return false
	}
	ptr, _, _ := procGlobalLock.Call(h)
	if ptr == 0 {
		procGlobalFree.Call(h)
		return false
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), len(data)), data)
	procGlobalUnlock.Call(h)
	r, _, _ := procSetClipboardData.Call(uintptr(format), h)
	if r == 0 {
		procGlobalFree.Call(h)
		return false
	}
	return true
}

func (c *winInterop) ReadText() (string, error) {
	if err := c.open(); err != nil {
		return "", err
	}
	defer c.close()

	h, _, _ := procGetClipboardData.Call(FmtUnicodeText)
	if h == 0 {
		return "", nil
	}
	raw := globalBytes(h)
	if len(raw) < 2 {
		return "", nil
	}
	u16 := unsafe.Slice((*uint16)(unsafe.Pointer(&raw[0])), len(raw)/2)
	return windows.UTF16ToString(u16), nil
}

func (c *winInterop) WriteText(s string) error {
	u16, err := windows.UTF16FromString(s)
	if err != nil {
		return err
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(&u16[0])), len(u16)*2)

	if err := c.open(); err != nil {
		return err
	}
	defer c.close()
	procEmptyClipboard.Call()
	if !setGlobalData(FmtUnicodeText, data) {
		return errors.New("failed to publish text")
	}
	return nil
}

func (c *winInterop) HasImage() bool {
	r, _, _ := procIsClipboardFormatAvailable.Call(FmtDIB)
	return r != 0
}

func (c *winInterop) ReadImage() (*Image, error) {
	if err := c.open(); err != nil {
		return nil, err
	}
	h, _, _ := procGetClipboardData.Call(FmtDIB)
	if h == 0 {
		c.close()
		return nil, nil
	}
	dib := globalBytes(h)
	c.close()
	if dib == nil {
		return nil, nil
	}
	// PNG encoding happens after the clipboard is released.
	return dibToPNG(dib)
}

func (c *winInterop) WriteImage(png []byte) error {
	dib, err := pngToDIB(png)
	if err != nil {
		return err
	}
	if err := c.open(); err != nil {
		return err
	}
	defer c.close()
	procEmptyClipboard.Call()
	if !setGlobalData(FmtDIB, dib) {
		return errors.New("failed to publish image")
	}
	return nil
}

func (c *winInterop) Snapshot() Snapshot {
	if err := c.open(); err != nil {
		c.logger.Debug("snapshot skipped", zap.Error(err))
		return nil
	}
	defer c.close()

	var snap Snapshot
	format := uintptr(0)
	for {
		format, _, _ = procEnumClipboardFormats.Call(format)
		if format == 0 {
			break
		}
		h, _, _ := procGetClipboardData.Call(format)
		if h == 0 {
			continue
		}
		data := globalBytes(h)
		if data == nil {
			// Non-HGLOBAL handle (GDI object, metafile). The OS
			// regenerates these from the formats we do capture.
			continue
		}
		snap = append(snap, FormatData{Format: uint32(format), Data: data})
	}
	return snap
}

func (c *winInterop) Restore(snap Snapshot) {
	if err := c.open(); err != nil {
		c.logger.Debug("restore skipped", zap.Error(err))
		return
	}
	defer c.close()
	procEmptyClipboard.Call()
	for _, fd := range snap {
		if !setGlobalData(fd.Format, fd.Data) {
			c.logger.Debug("restore of format failed",
				zap.Uint32("format", fd.Format))
		}
	}
}
