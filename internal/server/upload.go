package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"qrdrop/internal/logger"
	"qrdrop/internal/session"
)

// maxMemory is the in-memory buffer for multipart parsing; larger parts
// spill to disk.
const maxMemory = 32 << 20

type uploadResponse struct {
	Saved []string `json:"saved"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encoding response", "error", err)
	}
}

// handleUpload accepts multipart uploads on the "files" field and writes
// each part into the upload directory under a sanitized, timestamp-prefixed
// name. All parts of one request share the same timestamp, so a batch sorts
// together. Responds with the list of saved names.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart request"})
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no files in request"})
		return
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		logger.Error("creating upload directory", "dir", s.uploadDir, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to store upload"})
		return
	}

	now := s.now()
	saved := make([]string, 0, len(files))
	for _, header := range files {
		name, err := s.saveUpload(header, session.StampedFilename(now, header.Filename))
		if err != nil {
			logger.Error("saving upload", "file", header.Filename, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to store upload"})
			return
		}
		logger.Info("upload saved", "file", name, "bytes", header.Size)
		saved = append(saved, name)
	}

	writeJSON(w, http.StatusOK, uploadResponse{Saved: saved})
	s.sess.ReportCompletion()
}

// saveUpload streams one multipart file into the upload directory under the
// given name, never replacing an existing file. When two parts in the same
// second sanitize to the same name, a numeric suffix keeps them apart.
// Returns the name actually used.
func (s *Server) saveUpload(header *multipart.FileHeader, name string) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("opening part: %w", err)
	}
	defer src.Close()

	dst, name, err := createExclusive(s.uploadDir, name)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filepath.Join(s.uploadDir, name))
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return name, nil
}

// createExclusive opens a new file under dir, appending " (n)" before the
// extension until an unused name is found.
func createExclusive(dir, name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]

	candidate := name
	for attempt := 1; ; attempt++ {
		f, err := os.OpenFile(filepath.Join(dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, candidate, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("creating %s: %w", candidate, err)
		}
		if attempt > 100 {
			return nil, "", fmt.Errorf("creating %s: too many name collisions", name)
		}
		candidate = fmt.Sprintf("%s (%d)%s", stem, attempt, ext)
	}
}
