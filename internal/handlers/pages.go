package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"github.com/HammerMeetNail/studentcomputing/internal/assets"
	"github.com/HammerMeetNail/studentcomputing/internal/logging"
	"github.com/HammerMeetNail/studentcomputing/internal/models"
	"github.com/HammerMeetNail/studentcomputing/internal/services"
)

type PageHandler struct {
	templates *template.Template
	content   models.LandingContent
	ideas     services.IdeaBoardServiceInterface
	manifest  *assets.Manifest
	loc       *time.Location
}

func NewPageHandler(templatesDir string, ideas services.IdeaBoardServiceInterface, manifest *assets.Manifest, loc *time.Location) (*PageHandler, error) {
	templates, err := template.ParseGlob(filepath.Join(templatesDir, "*.html"))
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}

	return &PageHandler{
		templates: templates,
		content:   models.DefaultLandingContent(),
		ideas:     ideas,
		manifest:  manifest,
		loc:       loc,
	}, nil
}

type PageData struct {
	Title   string
	Content models.LandingContent
	Ideas   []models.IdeaView
	CSSPath string
	JSPath  string
}

// Index renders the landing page with the board as it stands, so the list
// is visible before any script runs.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := PageData{
		Title:   h.content.OrgName + " | Tech Support By Students, For Students",
		Content: h.content,
		Ideas:   h.ideas.Ideas(r.Context()).Views(h.loc),
		CSSPath: h.manifest.GetCSS(),
		JSPath:  h.manifest.GetAppJS(),
	}

	// Render into a buffer so a template failure still yields a clean 500.
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		logging.Error("Rendering landing page failed", logging.Fields{"error": err.Error()})
		h.InternalError(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// NotFound renders the 404 error page.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := h.templates.ExecuteTemplate(w, "404.html", nil); err != nil {
		http.Error(w, "Page not found", http.StatusNotFound)
	}
}

// InternalError renders the 500 error page.
func (h *PageHandler) InternalError(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	if err := h.templates.ExecuteTemplate(w, "500.html", nil); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
