// handlers_test.go provides in-memory repositories and shared helpers for
// the handler tests.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pagecraft/internal/converter"
	"pagecraft/internal/document"
	"pagecraft/internal/engine"
	"pagecraft/internal/metrics"
	"pagecraft/internal/models"
	"pagecraft/internal/registry"
	"pagecraft/internal/renderer"
	"pagecraft/internal/resolver"
	"pagecraft/internal/revision"
	"pagecraft/internal/store"
)

// memPages implements PageRepository and engine.PageSource.
type memPages struct {
	mu    sync.Mutex
	pages map[uuid.UUID]models.Page
	revs  *revision.MemoryStore
	err   error
}

func (m *memPages) FindByID(_ context.Context, id uuid.UUID) (*models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.pages[id]
	if !ok {
		return nil, nil
	}
	p.Content = p.Content.Clone()
	return &p, nil
}

func (m *memPages) find(match func(models.Page) bool) (*models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.pages {
		if match(p) {
			p.Content = p.Content.Clone()
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memPages) FindBySlug(_ context.Context, s string) (*models.Page, error) {
	return m.find(func(p models.Page) bool { return p.Slug == s && p.IsPublished() })
}

func (m *memPages) FindHomepage(context.Context) (*models.Page, error) {
	return m.find(func(p models.Page) bool { return p.IsHomepage && p.IsPublished() })
}

func (m *memPages) SavePage(ctx context.Context, p *models.Page, author string, restoredFrom *uuid.UUID) (*models.Revision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.pages[p.ID]; !ok {
		return nil, fmt.Errorf("save page %s: %w", p.ID, store.ErrNotFound)
	}
	for id, other := range m.pages {
		if id != p.ID && other.Slug == p.Slug {
			return nil, fmt.Errorf("%w: pages_slug_key", store.ErrConflict)
		}
	}
	p.UpdatedAt = time.Now()
	stored := *p
	stored.Content = p.Content.Clone()
	m.pages[p.ID] = stored

	rev := &models.Revision{
		PageID:       p.ID,
		Subject:      models.RevisionSubjectPage,
		Kind:         models.RevisionKindSave,
		RestoredFrom: restoredFrom,
		Content:      p.Content,
		Author:       author,
		CreatedAt:    time.Now(),
	}
	if restoredFrom != nil {
		rev.Kind = models.RevisionKindRestore
	}
	if err := m.revs.Append(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

func (m *memPages) List(context.Context) ([]models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Page, 0, len(m.pages))
	for _, p := range m.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (m *memPages) Create(ctx context.Context, p *models.Page, author string) (*models.Revision, error) {
	m.mu.Lock()
	for _, other := range m.pages {
		if other.Slug == p.Slug {
			m.mu.Unlock()
			return nil, fmt.Errorf("create page: %w: pages_slug_key", store.ErrConflict)
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.pages[p.ID] = *p
	m.mu.Unlock()
	return m.SavePage(ctx, p, author, nil)
}

func (m *memPages) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pages[id]; !ok {
		return fmt.Errorf("delete page %s: %w", id, store.ErrNotFound)
	}
	delete(m.pages, id)
	return nil
}

// memTemplates implements TemplateRepository and resolver.Source.
type memTemplates struct {
	mu        sync.Mutex
	templates map[uuid.UUID]models.Template
	revs      *revision.MemoryStore
}

func (m *memTemplates) FindByID(_ context.Context, id uuid.UUID) (*models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *memTemplates) ListActiveByType(_ context.Context, typ models.TemplateType) ([]models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Template
	for _, t := range m.templates {
		if t.Type == typ && t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTemplates) Create(ctx context.Context, t *models.Template, author string) (*models.Revision, error) {
	m.mu.Lock()
	t.ID = uuid.New()
	m.templates[t.ID] = *t
	m.mu.Unlock()
	return m.SaveTemplate(ctx, t, author, nil)
}

func (m *memTemplates) SaveTemplate(ctx context.Context, t *models.Template, author string, restoredFrom *uuid.UUID) (*models.Revision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[t.ID]; !ok {
		return nil, fmt.Errorf("save template %s: %w", t.ID, store.ErrNotFound)
	}
	m.templates[t.ID] = *t
	rev := &models.Revision{
		PageID:       t.ID,
		Subject:      models.RevisionSubjectTemplate,
		Kind:         models.RevisionKindSave,
		RestoredFrom: restoredFrom,
		Content:      t.Content,
		Author:       author,
	}
	if restoredFrom != nil {
		rev.Kind = models.RevisionKindRestore
	}
	if err := m.revs.Append(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

func (m *memTemplates) List(context.Context) ([]models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Template, 0, len(m.templates))
	for _, t := range m.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memTemplates) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok {
		return fmt.Errorf("set template active %s: %w", id, store.ErrNotFound)
	}
	t.IsActive = active
	m.templates[id] = t
	return nil
}

func (m *memTemplates) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[id]; !ok {
		return fmt.Errorf("delete template %s: %w", id, store.ErrNotFound)
	}
	delete(m.templates, id)
	return nil
}

// testEnv wires the handlers to in-memory repositories.
type testEnv struct {
	API       *API
	Public    *Public
	Pages     *memPages
	Templates *memTemplates
	Revisions *revision.Service
	Metrics   *metrics.Metrics
	Mux       chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	revs := revision.NewMemoryStore()
	pages := &memPages{pages: map[uuid.UUID]models.Page{}, revs: revs}
	templates := &memTemplates{templates: map[uuid.UUID]models.Template{}, revs: revs}

	reg := registry.Default()
	res := resolver.New(templates)
	m := metrics.New()
	eng := engine.New(pages, res, renderer.New(reg), engine.WithMetrics(m))

	env := &testEnv{
		API:       NewAPI(reg, converter.New(reg), eng, res, pages, templates, revision.NewService(revs), m),
		Public:    NewPublic(eng),
		Pages:     pages,
		Templates: templates,
		Revisions: revision.NewService(revs),
		Metrics:   m,
	}

	mux := chi.NewRouter()
	mux.Post("/api/convert", env.API.Convert)
	mux.Post("/api/render", env.API.Render)
	mux.Get("/api/modules", env.API.Modules)
	mux.Get("/api/templates", env.API.ListTemplates)
	mux.Get("/api/templates/resolve", env.API.ResolveTemplate)
	mux.Post("/api/templates/import", env.API.ImportTemplate)
	mux.Get("/api/templates/{id}/export", env.API.ExportTemplate)
	mux.Post("/api/templates/{id}/activate", env.API.ActivateTemplate)
	mux.Post("/api/templates/{id}/deactivate", env.API.DeactivateTemplate)
	mux.Delete("/api/templates/{id}", env.API.DeleteTemplate)
	mux.Get("/api/pages", env.API.ListPages)
	mux.Post("/api/pages", env.API.CreatePage)
	mux.Get("/api/pages/{id}", env.API.GetPage)
	mux.Put("/api/pages/{id}", env.API.SavePage)
	mux.Delete("/api/pages/{id}", env.API.DeletePage)
	mux.Get("/api/pages/{id}/revisions", env.API.PageRevisions)
	mux.Get("/api/revisions/{id}", env.API.GetRevision)
	mux.Post("/api/revisions/{id}/restore", env.API.RestoreRevision)
	mux.Get("/", env.Public.Homepage)
	mux.Get("/*", env.Public.Page)
	env.Mux = mux
	return env
}

// do sends a request through the test mux.
func (e *testEnv) do(t *testing.T, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.Mux.ServeHTTP(rec, req)
	return rec
}

// addPage stores a page without writing a revision.
func (e *testEnv) addPage(p models.Page) models.Page {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	e.Pages.mu.Lock()
	e.Pages.pages[p.ID] = p
	e.Pages.mu.Unlock()
	return p
}

// addTemplate stores a template without writing a revision.
func (e *testEnv) addTemplate(tmpl models.Template) models.Template {
	if tmpl.ID == uuid.Nil {
		tmpl.ID = uuid.New()
	}
	e.Templates.mu.Lock()
	e.Templates.templates[tmpl.ID] = tmpl
	e.Templates.mu.Unlock()
	return tmpl
}

// textTree builds a one-section tree with a single text module.
func textTree(id, text string) document.Tree {
	return document.Tree{Sections: []document.Section{{
		ID: id + "-s",
		Rows: []document.Row{{
			ID: id + "-r",
			Columns: []document.Column{{
				ID: id + "-c",
				Modules: []document.Module{{
					ID: id + "-m", Type: "text",
					Content: document.Props{"text": text},
				}},
			}},
		}},
	}}}
}

// treeJSON encodes a text tree for request bodies.
func treeJSON(t *testing.T, id, text string) string {
	t.Helper()
	data, err := json.Marshal(textTree(id, text))
	if err != nil {
		t.Fatalf("marshal tree: %v", err)
	}
	return string(data)
}

// firstText returns the text of the first module of tree.
func firstText(tree document.Tree) string {
	ms := tree.Modules()
	if len(ms) == 0 {
		return ""
	}
	s, _ := ms[0].Content.String("text")
	return s
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status: got %d, want %d (body %q)", rec.Code, want, rec.Body.String())
	}
}
