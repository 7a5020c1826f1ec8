// Package clipboard wraps the native system clipboard and builds the
// watcher and paste-injection orchestration on top of it.
//
// Build constraints select the interop implementation:
//
//	clipboard_windows.go  raw Win32 via golang.org/x/sys (all formats)
//	clipboard_fallback.go atotto/clipboard + golang.design/x/clipboard
//	                        (text and PNG image only)
package clipboard

// Clipboard format identifiers used by both backends. They mirror the
// Win32 CF_* constants so snapshots stay meaningful across backends.
const (
	FmtDIB         = 8
	FmtUnicodeText = 13
)

// FormatData is one clipboard format captured opaquely: the engine
// copies the raw bytes without reinterpreting formats it does not
// understand.
type FormatData struct {
	Format uint32
	Data   []byte
}

// Snapshot is the entire clipboard contents at one instant, suitable
// for byte-exact restoration after an injection.
type Snapshot []FormatData

// Image is a clipboard bitmap normalized to encoded PNG bytes.
type Image struct {
	PNG    []byte
	Width  int
	Height int
}

// Interop is the native clipboard surface. All operations are single
// best-effort attempts from the caller's point of view: a clipboard
// held open by another process yields an error (reads/writes) or an
// empty snapshot, never a panic or a retry loop visible to callers.
type Interop interface {
	ReadText() (string, error)
	WriteText(s string) error

	HasImage() bool
	// ReadImage returns nil when no image format is published.
	ReadImage() (*Image, error)
	// WriteImage publishes stored PNG bytes under the platform's
	// device-independent bitmap format.
	WriteImage(png []byte) error

	// Snapshot captures every published format as opaque bytes.
	Snapshot() Snapshot
	// Restore clears the clipboard and republishes a snapshot.
	Restore(Snapshot)
}
