package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tobq/clipboard-tray/internal/types"
)

type okResponse struct {
	OK bool `json:"ok"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// decode reads a small JSON command body. An empty body decodes to the
// zero value so bare POSTs behave like no-ops instead of errors.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

type indexRequest struct {
	Index int `json:"index"`
}

type slotRequest struct {
	Index int `json:"index"`
	Slot  int `json:"slot"`
}

type copyRequest struct {
	Text string `json:"text"`
}

// handleHistory lists items newest-first. An optional q parameter
// filters text items, as substring by default or as a regular
// expression when the regexSearch setting is on. A malformed pattern
// matches nothing rather than erroring.
func handleHistory(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := d.History.Items()
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query != "" {
			items = filterItems(items, query, d.History.Settings().RegexSearch)
		}
		if items == nil {
			items = []types.ClipboardItem{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func filterItems(items []types.ClipboardItem, query string, useRegex bool) []types.ClipboardItem {
	var match func(string) bool
	if useRegex {
		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			return nil
		}
		match = re.MatchString
	} else {
		lowered := strings.ToLower(query)
		match = func(text string) bool {
			return strings.Contains(strings.ToLower(text), lowered)
		}
	}

	var out []types.ClipboardItem
	for _, it := range items {
		if it.Kind == types.KindText && match(it.Text) {
			out = append(out, it)
		}
	}
	return out
}

type settingsResponse struct {
	types.Settings
	TotalBytes int64 `json:"totalBytes"`
	ItemCount  int   `json:"itemCount"`
}

func handleGetSettings(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totalBytes, itemCount := d.History.UsageStats()
		writeJSON(w, http.StatusOK, settingsResponse{
			Settings:   d.History.Settings(),
			TotalBytes: totalBytes,
			ItemCount:  itemCount,
		})
	}
}

// handleUpdateSettings applies a partial update. Shrinking the limits
// takes effect immediately through an eviction pass.
func handleUpdateSettings(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update types.SettingsUpdate
		if err := decode(r, &update); err != nil {
			writeJSON(w, http.StatusBadRequest, okResponse{})
			return
		}
		d.History.UpdateSettings(update)
		d.History.Evict()
		writeOK(w)
	}
}

// handleCopy publishes text to the clipboard; the watcher records it on
// its next tick like any other copy.
func handleCopy(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req copyRequest
		if err := decode(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, okResponse{})
			return
		}
		if req.Text != "" {
			if err := d.Clip.WriteText(req.Text); err != nil {
				d.Logger.Warn("copy command failed", zap.Error(err))
			}
		}
		writeOK(w)
	}
}

func handlePaste(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req indexRequest
		if err := decode(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, okResponse{})
			return
		}
		d.Paster.PasteIndex(req.Index)
		writeOK(w)
	}
}

func handleDelete(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req indexRequest
		if err := decode(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, okResponse{})
			return
		}
		d.History.Delete(req.Index)
		writeOK(w)
	}
}

func handleDeleteAll(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.History.ClearUnpinned()
		writeOK(w)
	}
}

func handlePin(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req indexRequest
		if err := decode(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, okResponse{})
			return
		}
		d.History.TogglePin(req.Index)
		writeOK(w)
	}
}

func handleSlot(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req slotRequest
		if err := decode(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, okResponse{})
			return
		}
		d.History.AssignSlot(req.Index, req.Slot)
		writeOK(w)
	}
}

func handleSlotClear(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req slotRequest
		if err := decode(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, okResponse{})
			return
		}
		d.History.UnassignSlot(req.Slot)
		writeOK(w)
	}
}

// handleImage serves a stored blob by filename. The blob store strips
// any path components, so traversal attempts degrade to plain lookups.
func handleImage(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := chi.URLParam(r, "filename")
		path := d.Blobs.Path(filename)
		if _, err := os.Stat(path); err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	}
}
