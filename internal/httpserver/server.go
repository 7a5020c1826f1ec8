// Package httpserver exposes the engine to local UI processes over a
// loopback HTTP API. Every mutating command answers {"ok":true} once
// acknowledged; out-of-range indices and slots are acknowledged no-ops
// so a stale UI never sees an error for a race it lost.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/tobq/clipboard-tray/internal/blob"
	"github.com/tobq/clipboard-tray/internal/history"
)

// Paster injects history content into the foreground app. Satisfied by
// the clipboard injector.
type Paster interface {
	PasteIndex(index int)
	PasteSlot(n int)
}

// TextWriter publishes text to the system clipboard. Satisfied by the
// clipboard interop.
type TextWriter interface {
	WriteText(text string) error
}

// Deps carries everything the handlers touch.
type Deps struct {
	History *history.Store
	Blobs   *blob.Store
	Paster  Paster
	Clip    TextWriter
	Logger  *zap.Logger
}

// Server wraps the HTTP server and its router.
type Server struct {
	http   *http.Server
	logger *zap.Logger
}

// New builds the server with routes registered.
func New(addr string, d Deps) *Server {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(accessLog(d.Logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/history", handleHistory(d))
		r.Get("/settings", handleGetSettings(d))
		r.Post("/settings", handleUpdateSettings(d))
		r.Post("/copy", handleCopy(d))
		r.Post("/paste", handlePaste(d))
		r.Post("/delete", handleDelete(d))
		r.Post("/delete-all", handleDeleteAll(d))
		r.Post("/pin", handlePin(d))
		r.Post("/slot", handleSlot(d))
		r.Post("/slot-clear", handleSlotClear(d))
	})
	r.Get("/images/{filename}", handleImage(d))

	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		logger: d.Logger,
	}
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start blocks serving requests until Stop or a listener error.
func (s *Server) Start() error {
	s.logger.Info("command API listening", zap.String("addr", s.http.Addr))
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the server down within the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// statusWriter captures the status code for the access log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func accessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
