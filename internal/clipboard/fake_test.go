package clipboard

import (
	"errors"
	"sync"
)

// fakeInterop is an in-memory clipboard for watcher and injector
// tests. It carries text, an image and arbitrary opaque formats, like
// a real clipboard owned by another application would.
type fakeInterop struct {
	mu       sync.Mutex
	text     string
	imagePNG []byte
	imageW   int
	imageH   int
	extras   []FormatData
	busy     bool
	ops      []string
}

var errBusy = errors.New("clipboard busy")

func (f *fakeInterop) op(name string) {
	f.ops = append(f.ops, name)
}

func (f *fakeInterop) ReadText() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return "", errBusy
	}
	return f.text, nil
}

func (f *fakeInterop) WriteText(s string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return errBusy
	}
	f.op("writeText")
	f.text = s
	f.imagePNG = nil
	f.extras = nil
	return nil
}

func (f *fakeInterop) HasImage() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.busy && len(f.imagePNG) > 0
}

func (f *fakeInterop) ReadImage() (*Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return nil, errBusy
	}
	if len(f.imagePNG) == 0 {
		return nil, nil
	}
	data := make([]byte, len(f.imagePNG))
	copy(data, f.imagePNG)
	return &Image{PNG: data, Width: f.imageW, Height: f.imageH}, nil
}

func (f *fakeInterop) WriteImage(png []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return errBusy
	}
	f.op("writeImage")
	f.imagePNG = png
	f.text = ""
	f.extras = nil
	return nil
}

func (f *fakeInterop) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.op("snapshot")
	if f.busy {
		return nil
	}
	var snap Snapshot
	if f.text != "" {
		snap = append(snap, FormatData{Format: FmtUnicodeText, Data: []byte(f.text)})
	}
	if len(f.imagePNG) > 0 {
		data := make([]byte, len(f.imagePNG))
		copy(data, f.imagePNG)
		snap = append(snap, FormatData{Format: FmtDIB, Data: data})
	}
	for _, fd := range f.extras {
		data := make([]byte, len(fd.Data))
		copy(data, fd.Data)
		snap = append(snap, FormatData{Format: fd.Format, Data: data})
	}
	return snap
}

func (f *fakeInterop) Restore(snap Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.op("restore")
	f.text = ""
	f.imagePNG = nil
	f.extras = nil
	for _, fd := range snap {
		switch fd.Format {
		case FmtUnicodeText:
			f.text = string(fd.Data)
		case FmtDIB:
			f.imagePNG = fd.Data
		default:
			f.extras = append(f.extras, fd)
		}
	}
}
