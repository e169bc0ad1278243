package server

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/dustin/go-humanize"

	"qrdrop/internal/logger"
)

//go:embed web/*.html
var webFS embed.FS

var pages = template.Must(template.ParseFS(webFS, "web/*.html"))

// uploadPageData feeds web/upload.html.
type uploadPageData struct {
	Token string
}

// sharePageData feeds web/share.html.
type sharePageData struct {
	Token string
	Items []shareItemView
}

type shareItemView struct {
	ID   int
	Name string
	Size string
}

func renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		logger.Error("rendering page", "page", name, "error", err)
	}
}

// handleUploadPage serves the upload form behind the token.
func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}
	renderPage(w, "upload.html", uploadPageData{Token: s.sess.Token().Value()})
}

// handleSharePage serves the listing of shareable items behind the token.
func (s *Server) handleSharePage(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}

	summaries := s.reg.List()
	items := make([]shareItemView, len(summaries))
	for i, sum := range summaries {
		items[i] = shareItemView{
			ID:   sum.ID,
			Name: sum.DisplayName,
			Size: humanize.IBytes(uint64(sum.SizeBytes)),
		}
	}
	renderPage(w, "share.html", sharePageData{
		Token: s.sess.Token().Value(),
		Items: items,
	})
}
