// Package server implements the HTTP surface: a token-gated upload page and
// endpoint in receive mode, or a token-gated listing and download endpoints
// in share mode. Every token failure is answered with the same not-found
// response the router gives unknown paths, so an expired link is
// indistinguishable from one that never existed.
package server

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"qrdrop/internal/logger"
	"qrdrop/internal/registry"
	"qrdrop/internal/session"
)

// Server holds the collaborators shared by all handlers. Exactly one of the
// two modes is active: uploadDir is set in receive mode, reg in share mode.
type Server struct {
	sess      *session.Session
	reg       *registry.Registry
	uploadDir string

	now func() time.Time
}

// NewReceive creates a server accepting uploads into uploadDir.
func NewReceive(sess *session.Session, uploadDir string) *Server {
	return &Server{sess: sess, uploadDir: uploadDir, now: time.Now}
}

// NewShare creates a server serving the items in reg.
func NewShare(sess *session.Session, reg *registry.Registry) *Server {
	return &Server{sess: sess, reg: reg, now: time.Now}
}

// Handler builds the chi router for the active mode.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "ok")
	})

	if s.reg != nil {
		r.Get("/share/{token}", s.handleSharePage)
		r.Get("/download/{token}/{itemID}", s.handleDownload)
	} else {
		r.Get("/upload/{token}", s.handleUploadPage)
		r.Post("/api/upload/{token}", s.handleUpload)
	}

	return r
}

// authorize validates the token path parameter. On failure it writes the
// standard not-found response and returns false; the caller must stop.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) bool {
	if err := s.sess.Authorize(chi.URLParam(r, "token")); err != nil {
		http.NotFound(w, r)
		return false
	}
	return true
}

// requestLogger logs each request's outcome through the internal logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		// Log the route pattern, not the raw path: the raw path carries
		// the bearer token.
		path := chi.RouteContext(r.Context()).RoutePattern()
		if path == "" {
			path = r.URL.Path
		}

		logger.Info("request completed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		)
	})
}
