// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"pagecraft/internal/converter"
	"pagecraft/internal/document"
	"pagecraft/internal/engine"
	"pagecraft/internal/metrics"
	"pagecraft/internal/models"
	"pagecraft/internal/registry"
	"pagecraft/internal/resolver"
	"pagecraft/internal/revision"
	"pagecraft/internal/slug"
	"pagecraft/internal/store"
	"pagecraft/internal/transfer"
)

// PageRepository loads and saves pages. *store.PageStore implements it.
type PageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Page, error)
	List(ctx context.Context) ([]models.Page, error)
	Create(ctx context.Context, p *models.Page, author string) (*models.Revision, error)
	SavePage(ctx context.Context, p *models.Page, author string, restoredFrom *uuid.UUID) (*models.Revision, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TemplateRepository loads and saves templates. *store.TemplateStore
// implements it.
type TemplateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
	List(ctx context.Context) ([]models.Template, error)
	Create(ctx context.Context, t *models.Template, author string) (*models.Revision, error)
	SaveTemplate(ctx context.Context, t *models.Template, author string, restoredFrom *uuid.UUID) (*models.Revision, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// API groups the JSON endpoints used by the page builder.
type API struct {
	registry  *registry.Registry
	converter *converter.Converter
	engine    *engine.Engine
	resolver  *resolver.Resolver
	pages     PageRepository
	templates TemplateRepository
	revisions *revision.Service
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// NewAPI creates the API handler group. m may be nil.
func NewAPI(
	reg *registry.Registry,
	conv *converter.Converter,
	eng *engine.Engine,
	res *resolver.Resolver,
	pages PageRepository,
	templates TemplateRepository,
	revisions *revision.Service,
	m *metrics.Metrics,
) *API {
	return &API{
		registry:  reg,
		converter: conv,
		engine:    eng,
		resolver:  res,
		pages:     pages,
		templates: templates,
		revisions: revisions,
		metrics:   m,
		log:       slog.Default(),
	}
}

// storeError maps persistence errors to responses. Unknown errors are
// logged and reported as 500.
func (a *API) storeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, revision.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		a.log.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseTree validates raw against the tree schema, decodes it and gives
// duplicate node ids fresh values. On failure it writes a 400 or 422
// response and returns false.
func parseTree(w http.ResponseWriter, raw json.RawMessage) (document.Tree, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		writeError(w, http.StatusBadRequest, "tree is required")
		return document.Tree{}, false
	}
	issues, err := transfer.ValidateTree(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return document.Tree{}, false
	}
	if len(issues) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "invalid tree", Issues: issues})
		return document.Tree{}, false
	}
	tree, err := transfer.ParseTree(raw, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return document.Tree{}, false
	}
	return document.RepairIDs(tree, nil), true
}

// --- Conversion and rendering ---

type convertRequest struct {
	HTML string `json:"html"`
}

type convertResponse struct {
	Tree       document.Tree        `json:"tree"`
	Confidence converter.Confidence `json:"confidence"`
	Report     converter.Report     `json:"report"`
}

// Convert turns an HTML document into a content tree. The body is either
// {"html": "..."} or raw HTML sent as text/html.
func (a *API) Convert(w http.ResponseWriter, r *http.Request) {
	var src string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/html") {
		data, err := readBody(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		src = string(data)
	} else {
		var req convertRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		src = req.HTML
	}

	tree, report := a.converter.ConvertReport(src)
	a.metrics.ObserveConversion(report)
	if report.Truncated {
		a.log.Warn("conversion truncated", "nodes", report.Nodes, "modules", report.Modules)
	}
	writeJSON(w, http.StatusOK, convertResponse{Tree: tree, Confidence: report.Confidence(), Report: report})
}

type renderRequest struct {
	Tree json.RawMessage `json:"tree"`
	Mode string          `json:"mode"`
	// Slug, when set, wraps the tree in the header and footer that apply
	// to that page path.
	Slug string `json:"slug"`
}

// Render renders a tree to HTML and CSS.
func (a *API) Render(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	mode, ok := parseMode(req.Mode)
	if !ok {
		writeError(w, http.StatusBadRequest, "mode must be preview or published")
		return
	}
	tree, ok := parseTree(w, req.Tree)
	if !ok {
		return
	}
	if req.Slug != "" {
		tree = a.engine.Compose(r.Context(), req.Slug, tree)
	}

	out := a.engine.Render(r.Context(), tree, mode)
	w.Header().Set("Cache-Control", out.CacheControl)
	writeJSON(w, http.StatusOK, out)
}

// Modules lists the registered module types.
func (a *API) Modules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.registry.List())
}

// --- Templates ---

// ResolveTemplate returns the template of ?type= that applies to ?slug=.
func (a *API) ResolveTemplate(w http.ResponseWriter, r *http.Request) {
	typ := models.TemplateType(r.URL.Query().Get("type"))
	if !typ.Valid() {
		writeError(w, http.StatusBadRequest, "unknown template type")
		return
	}
	t, err := a.resolver.Resolve(r.Context(), typ, r.URL.Query().Get("slug"))
	if err != nil {
		a.storeError(w, "resolve template", err)
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "no matching template")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ImportTemplate creates a template from an export file. Imported
// templates are inactive unless ?activate=true is given.
func (a *API) ImportTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := transfer.ImportTemplate(data, nil)
	if errors.Is(err, transfer.ErrInvalid) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var file struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &file); err == nil && len(file.Content) > 0 {
		if issues, err := transfer.ValidateTree(file.Content); err == nil && len(issues) > 0 {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "invalid tree", Issues: issues})
			return
		}
	}
	t.IsActive = r.URL.Query().Get("activate") == "true"

	if _, err := a.templates.Create(r.Context(), t, authorOf(r.Header.Get(authorHeader))); err != nil {
		a.storeError(w, "import template", err)
		return
	}
	a.log.Info("template imported", "template_id", t.ID, "type", t.Type, "active", t.IsActive)
	writeJSON(w, http.StatusCreated, t)
}

// ExportTemplate downloads a template as an export file.
func (a *API) ExportTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	t, err := a.templates.FindByID(r.Context(), id)
	if err != nil {
		a.storeError(w, "find template", err)
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}
	data, err := transfer.ExportTemplate(*t)
	if err != nil {
		a.storeError(w, "export template", err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename(t.Name)+`"`)
	w.Write(data)
}

// exportFilename derives a download name from a template name.
func exportFilename(name string) string {
	base := slug.Generate(name)
	if base == "" {
		base = "template"
	}
	return base + ".json"
}

// templateSummary is a template without its content tree.
type templateSummary struct {
	ID         uuid.UUID           `json:"id"`
	Type       models.TemplateType `json:"type"`
	Name       string              `json:"name"`
	Conditions *models.Conditions  `json:"conditions,omitempty"`
	Priority   int                 `json:"priority"`
	IsActive   bool                `json:"is_active"`
	UpdatedAt  string              `json:"updated_at"`
}

// ListTemplates returns every template without content.
func (a *API) ListTemplates(w http.ResponseWriter, r *http.Request) {
	ts, err := a.templates.List(r.Context())
	if err != nil {
		a.storeError(w, "list templates", err)
		return
	}
	out := make([]templateSummary, 0, len(ts))
	for _, t := range ts {
		out = append(out, templateSummary{
			ID:         t.ID,
			Type:       t.Type,
			Name:       t.Name,
			Conditions: t.Conditions,
			Priority:   t.Priority,
			IsActive:   t.IsActive,
			UpdatedAt:  t.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type activeResponse struct {
	ID       uuid.UUID `json:"id"`
	IsActive bool      `json:"is_active"`
}

// ActivateTemplate lets a template take part in resolution.
func (a *API) ActivateTemplate(w http.ResponseWriter, r *http.Request) {
	a.setActive(w, r, true)
}

// DeactivateTemplate takes a template out of resolution. Its content and
// history are kept.
func (a *API) DeactivateTemplate(w http.ResponseWriter, r *http.Request) {
	a.setActive(w, r, false)
}

func (a *API) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := a.templates.SetActive(r.Context(), id, active); err != nil {
		a.storeError(w, "set template active", err)
		return
	}
	if !active {
		a.engine.InvalidateAll(r.Context())
	}
	a.log.Info("template activation changed", "template_id", id, "active", active)
	writeJSON(w, http.StatusOK, activeResponse{ID: id, IsActive: active})
}

// DeleteTemplate removes a template. Its revisions stay readable.
func (a *API) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := a.templates.Delete(r.Context(), id); err != nil {
		a.storeError(w, "delete template", err)
		return
	}
	a.engine.InvalidateAll(r.Context())
	a.log.Info("template deleted", "template_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// --- Pages and revisions ---

// GetPage returns a page with its content tree.
func (a *API) GetPage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	p, err := a.pages.FindByID(r.Context(), id)
	if err != nil {
		a.storeError(w, "find page", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type pageRequest struct {
	Title      string            `json:"title"`
	Slug       string            `json:"slug"`
	Status     models.PageStatus `json:"status"`
	IsHomepage bool              `json:"is_homepage"`
	Content    json.RawMessage   `json:"content"`
}

type saveResponse struct {
	Page     *models.Page    `json:"page"`
	Revision revisionSummary `json:"revision"`
}

// pageSummary is a page without its content tree.
type pageSummary struct {
	ID         uuid.UUID         `json:"id"`
	Title      string            `json:"title"`
	Slug       string            `json:"slug"`
	Status     models.PageStatus `json:"status"`
	IsHomepage bool              `json:"is_homepage"`
	UpdatedAt  string            `json:"updated_at"`
}

// ListPages returns every page without content, ordered by slug.
func (a *API) ListPages(w http.ResponseWriter, r *http.Request) {
	ps, err := a.pages.List(r.Context())
	if err != nil {
		a.storeError(w, "list pages", err)
		return
	}
	out := make([]pageSummary, 0, len(ps))
	for _, p := range ps {
		out = append(out, pageSummary{
			ID:         p.ID,
			Title:      p.Title,
			Slug:       p.Slug,
			Status:     p.Status,
			IsHomepage: p.IsHomepage,
			UpdatedAt:  p.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// readPage decodes and validates a page body. On failure it writes the
// response and returns nil.
func readPage(w http.ResponseWriter, r *http.Request) *models.Page {
	var req pageRequest
	if !decodeJSON(w, r, &req) {
		return nil
	}
	if req.Status == "" {
		req.Status = models.PageStatusDraft
	}
	if msg := validatePage(req.Title, req.Slug, req.Status); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return nil
	}
	tree, ok := parseTree(w, req.Content)
	if !ok {
		return nil
	}
	return &models.Page{
		Title:      strings.TrimSpace(req.Title),
		Slug:       slug.Normalize(req.Slug),
		Status:     req.Status,
		IsHomepage: req.IsHomepage,
		Content:    tree,
	}
}

// CreatePage adds a page and records its first revision.
func (a *API) CreatePage(w http.ResponseWriter, r *http.Request) {
	p := readPage(w, r)
	if p == nil {
		return
	}
	rev, err := a.pages.Create(r.Context(), p, authorOf(r.Header.Get(authorHeader)))
	if err != nil {
		a.storeError(w, "create page", err)
		return
	}
	a.log.Info("page created", "page_id", p.ID, "slug", p.Slug)
	writeJSON(w, http.StatusCreated, saveResponse{Page: p, Revision: summarize(*rev)})
}

// SavePage replaces a page and records a revision of its content.
func (a *API) SavePage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	p := readPage(w, r)
	if p == nil {
		return
	}
	p.ID = id
	rev, err := a.pages.SavePage(r.Context(), p, authorOf(r.Header.Get(authorHeader)), nil)
	if err != nil {
		a.storeError(w, "save page", err)
		return
	}
	a.log.Info("page saved", "page_id", p.ID, "slug", p.Slug, "seq", rev.Seq)
	writeJSON(w, http.StatusOK, saveResponse{Page: p, Revision: summarize(*rev)})
}

// DeletePage removes a page. Its revisions stay readable.
func (a *API) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := a.pages.Delete(r.Context(), id); err != nil {
		a.storeError(w, "delete page", err)
		return
	}
	a.engine.InvalidateAll(r.Context())
	a.log.Info("page deleted", "page_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// revisionSummary is a revision without its content tree.
type revisionSummary struct {
	ID           uuid.UUID              `json:"id"`
	PageID       uuid.UUID              `json:"page_id"`
	Subject      models.RevisionSubject `json:"subject"`
	Seq          int64                  `json:"seq"`
	Kind         models.RevisionKind    `json:"kind"`
	RestoredFrom *uuid.UUID             `json:"restored_from,omitempty"`
	Author       string                 `json:"author,omitempty"`
	CreatedAt    string                 `json:"created_at"`
}

func summarize(rev models.Revision) revisionSummary {
	return revisionSummary{
		ID:           rev.ID,
		PageID:       rev.PageID,
		Subject:      rev.Subject,
		Seq:          rev.Seq,
		Kind:         rev.Kind,
		RestoredFrom: rev.RestoredFrom,
		Author:       rev.Author,
		CreatedAt:    rev.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// PageRevisions lists a page's revisions, oldest first, without content.
func (a *API) PageRevisions(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	p, err := a.pages.FindByID(r.Context(), id)
	if err != nil {
		a.storeError(w, "find page", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}
	revs, err := a.revisions.History(r.Context(), id)
	if err != nil {
		a.storeError(w, "list revisions", err)
		return
	}
	out := make([]revisionSummary, 0, len(revs))
	for _, rev := range revs {
		out = append(out, summarize(rev))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetRevision returns a single revision with its content tree.
func (a *API) GetRevision(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	rev, err := a.revisions.Get(r.Context(), id)
	if err != nil {
		a.storeError(w, "get revision", err)
		return
	}
	writeJSON(w, http.StatusOK, rev)
}

type restoreResponse struct {
	Revision revisionSummary `json:"revision"`
	Content  document.Tree   `json:"content"`
}

// RestoreRevision makes a revision's tree the current content of its page
// or template. History is not rewritten: the restore is saved as a new
// revision that points back at the one restored.
func (a *API) RestoreRevision(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	old, err := a.revisions.Get(ctx, id)
	if err != nil {
		a.storeError(w, "get revision", err)
		return
	}
	tree, err := a.revisions.Restore(ctx, id)
	if err != nil {
		a.storeError(w, "restore revision", err)
		return
	}
	author := authorOf(r.Header.Get(authorHeader))

	var rev *models.Revision
	switch old.Subject {
	case models.RevisionSubjectTemplate:
		t, err := a.templates.FindByID(ctx, old.PageID)
		if err != nil {
			a.storeError(w, "find template", err)
			return
		}
		if t == nil {
			writeError(w, http.StatusNotFound, "template no longer exists")
			return
		}
		t.Content = tree
		rev, err = a.templates.SaveTemplate(ctx, t, author, &old.ID)
		if err != nil {
			a.storeError(w, "save template", err)
			return
		}
	default:
		p, err := a.pages.FindByID(ctx, old.PageID)
		if err != nil {
			a.storeError(w, "find page", err)
			return
		}
		if p == nil {
			writeError(w, http.StatusNotFound, "page no longer exists")
			return
		}
		p.Content = tree
		rev, err = a.pages.SavePage(ctx, p, author, &old.ID)
		if err != nil {
			a.storeError(w, "save page", err)
			return
		}
	}

	a.log.Info("revision restored", "subject", old.Subject, "owner_id", old.PageID, "from", old.ID, "seq", rev.Seq)
	writeJSON(w, http.StatusOK, restoreResponse{Revision: summarize(*rev), Content: tree})
}
