//go:build !windows

package clipboard

import (
	"bytes"
	"image/png"
	"sync"

	atotto "github.com/atotto/clipboard"
	"go.uber.org/zap"
	xclip "golang.design/x/clipboard"
)

// fallbackInterop serves non-Windows builds: text through
// atotto/clipboard, images through golang.design/x/clipboard (which
// normalizes clipboard bitmaps to PNG on every platform). Snapshots
// are limited to those two formats; other formats are not enumerable
// through these libraries.
type fallbackInterop struct {
	logger   *zap.Logger
	initOnce sync.Once
	imagesOK bool
}

// NewInterop returns the portable clipboard backend.
func NewInterop(logger *zap.Logger) Interop {
	return &fallbackInterop{logger: logger}
}

// ensureInit sets up golang.design/x/clipboard lazily so headless
// environments degrade to text-only instead of failing startup.
func (c *fallbackInterop) ensureInit() {
	c.initOnce.Do(func() {
		if err := xclip.Init(); err != nil {
			c.logger.Warn("image clipboard unavailable, text only", zap.Error(err))
			return
		}
		c.imagesOK = true
	})
}

func (c *fallbackInterop) ReadText() (string, error) {
	return atotto.ReadAll()
}

func (c *fallbackInterop) WriteText(s string) error {
	return withRetry(func() error { return atotto.WriteAll(s) })
}

func (c *fallbackInterop) HasImage() bool {
	c.ensureInit()
	if !c.imagesOK {
		return false
	}
	return len(xclip.Read(xclip.FmtImage)) > 0
}

func (c *fallbackInterop) ReadImage() (*Image, error) {
	c.ensureInit()
	if !c.imagesOK {
		return nil, nil
	}
	data := xclip.Read(xclip.FmtImage)
	if len(data) == 0 {
		return nil, nil
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return &Image{PNG: out, Width: cfg.Width, Height: cfg.Height}, nil
}

func (c *fallbackInterop) WriteImage(pngBytes []byte) error {
	c.ensureInit()
	if !c.imagesOK {
		return nil
	}
	xclip.Write(xclip.FmtImage, pngBytes)
	return nil
}

func (c *fallbackInterop) Snapshot() Snapshot {
	var snap Snapshot
	if text, err := atotto.ReadAll(); err == nil && text != "" {
		snap = append(snap, FormatData{Format: FmtUnicodeText, Data: []byte(text)})
	}
	c.ensureInit()
	if c.imagesOK {
		if img := xclip.Read(xclip.FmtImage); len(img) > 0 {
			data := make([]byte, len(img))
			copy(data, img)
			snap = append(snap, FormatData{Format: FmtDIB, Data: data})
		}
	}
	return snap
}

func (c *fallbackInterop) Restore(snap Snapshot) {
	for _, fd := range snap {
		switch fd.Format {
		case FmtUnicodeText:
			if err := atotto.WriteAll(string(fd.Data)); err != nil {
				c.logger.Debug("text restore failed", zap.Error(err))
			}
		case FmtDIB:
			c.ensureInit()
			if c.imagesOK {
				xclip.Write(xclip.FmtImage, fd.Data)
			}
		}
	}
}
