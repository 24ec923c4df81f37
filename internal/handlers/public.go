// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pagecraft/internal/engine"
	"pagecraft/internal/renderer"
	"pagecraft/internal/slug"
)

// Public groups handlers for the public-facing site. Rendered pages are
// cached by the engine; this layer only wraps them in an HTML document.
type Public struct {
	engine *engine.Engine
	log    *slog.Logger
}

// NewPublic creates a new Public handler group.
func NewPublic(eng *engine.Engine) *Public {
	return &Public{engine: eng, log: slog.Default()}
}

// Homepage renders the published homepage.
func (p *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, "")
}

// Page renders the published page at the request path. Nested paths such
// as /docs/intro are matched as a whole.
func (p *Public) Page(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if path == "" {
		path = chi.URLParam(r, "slug")
	}
	if !slug.Valid(path) {
		p.notFound(w, r, path)
		return
	}
	p.serve(w, r, path)
}

func (p *Public) serve(w http.ResponseWriter, r *http.Request, pageSlug string) {
	out, err := p.engine.RenderSlug(r.Context(), pageSlug)
	if err != nil {
		p.log.Error("render page failed", "error", err, "slug", pageSlug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if out == nil {
		p.notFound(w, r, pageSlug)
		return
	}
	writeDocument(w, http.StatusOK, out)
}

// notFound serves the active 404 template, or a plain 404 without one.
func (p *Public) notFound(w http.ResponseWriter, r *http.Request, pageSlug string) {
	out, err := p.engine.RenderNotFound(r.Context(), pageSlug)
	if err != nil {
		p.log.Warn("render 404 template failed", "error", err, "slug", pageSlug)
	}
	if out == nil {
		http.NotFound(w, r)
		return
	}
	out.CacheControl = renderer.PreviewCacheControl
	writeDocument(w, http.StatusNotFound, out)
}

// writeDocument wraps rendered output in a minimal HTML document with its
// CSS inlined.
func writeDocument(w http.ResponseWriter, status int, out *renderer.Output) {
	// A closing tag sequence inside the stylesheet would end the style
	// element early.
	css := strings.ReplaceAll(out.CSS, "</", `<\/`)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	if css != "" {
		b.WriteString("<style>\n" + css + "\n</style>\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(out.HTML)
	b.WriteString("\n</body>\n</html>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if out.CacheControl != "" {
		w.Header().Set("Cache-Control", out.CacheControl)
	}
	w.WriteHeader(status)
	w.Write([]byte(b.String()))
}
