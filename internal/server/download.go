package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"qrdrop/internal/logger"
)

// handleDownload streams one registry item. Completion is only reported
// when the whole body was written: a client that disconnects mid-transfer
// must not shut down an exit-on-complete server.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	item, err := s.reg.Get(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(item.SourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		logger.Error("opening share item", "item", item.DisplayName, "error", err)
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		logger.Error("inspecting share item", "item", item.DisplayName, "error", err)
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", item.DisplayName))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))

	written, err := io.Copy(w, f)
	if err != nil {
		logger.Warn("download aborted", "item", item.DisplayName, "written", written, "error", err)
		return
	}

	logger.Info("download completed", "item", item.DisplayName, "bytes", written)
	s.sess.ReportCompletion()
}
