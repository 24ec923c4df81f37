package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"pagecraft/internal/models"
	"pagecraft/internal/registry"
	"pagecraft/internal/renderer"
)

func TestConvertJSON(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/convert", "application/json",
		`{"html":"<section><h1>Hello</h1><p>World</p></section>"}`)
	assertStatus(t, rec, http.StatusOK)

	var resp convertResponse
	decode(t, rec, &resp)
	if len(resp.Tree.Sections) == 0 {
		t.Fatal("expected at least one section")
	}
	if len(resp.Tree.Modules()) == 0 {
		t.Error("expected converted modules")
	}
	if resp.Confidence == "" {
		t.Error("expected a confidence level")
	}

	metricsRec := httptest.NewRecorder()
	env.Metrics.Handler().ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(metricsRec.Body.String(), "pagecraft_conversions_total") {
		t.Error("conversion not recorded in metrics")
	}
}

func TestConvertRawHTML(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/convert", "text/html; charset=utf-8", `<p>Plain</p>`)
	assertStatus(t, rec, http.StatusOK)

	var resp convertResponse
	decode(t, rec, &resp)
	if len(resp.Tree.Modules()) == 0 {
		t.Error("expected converted modules")
	}
}

func TestConvertBadJSON(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/convert", "application/json", `{"html":`)
	assertStatus(t, rec, http.StatusBadRequest)
}

func TestRenderModes(t *testing.T) {
	tests := []struct {
		mode         string
		cacheControl string
		wrapped      bool
	}{
		{"", renderer.PreviewCacheControl, false},
		{"preview", renderer.PreviewCacheControl, false},
		{"published", renderer.PublishedCacheControl, true},
	}

	for _, tt := range tests {
		t.Run("mode="+tt.mode, func(t *testing.T) {
			env := newTestEnv(t)
			body := fmt.Sprintf(`{"mode":%q,"tree":%s}`, tt.mode, treeJSON(t, "p", "Hello"))

			rec := env.do(t, http.MethodPost, "/api/render", "application/json", body)
			assertStatus(t, rec, http.StatusOK)

			if got := rec.Header().Get("Cache-Control"); got != tt.cacheControl {
				t.Errorf("Cache-Control: got %q, want %q", got, tt.cacheControl)
			}
			var out renderer.Output
			decode(t, rec, &out)
			if !strings.Contains(out.HTML, "<p>Hello</p>") {
				t.Errorf("html missing text: %q", out.HTML)
			}
			if got := strings.Contains(out.HTML, `class="pc-page"`); got != tt.wrapped {
				t.Errorf("page wrapper present: got %v, want %v", got, tt.wrapped)
			}
		})
	}
}

func TestRenderComposesWithSlug(t *testing.T) {
	env := newTestEnv(t)
	env.addTemplate(models.Template{
		Type: models.TemplateTypeHeader, Name: "Header", IsActive: true,
		Content: textTree("h", "Site header"),
	})

	body := fmt.Sprintf(`{"slug":"about","tree":%s}`, treeJSON(t, "p", "Body"))
	rec := env.do(t, http.MethodPost, "/api/render", "application/json", body)
	assertStatus(t, rec, http.StatusOK)

	var out renderer.Output
	decode(t, rec, &out)
	header, content := strings.Index(out.HTML, "Site header"), strings.Index(out.HTML, "Body")
	if header < 0 || content < 0 || header > content {
		t.Errorf("want header before body, got %q", out.HTML)
	}
}

func TestRenderInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad mode", `{"mode":"draft","tree":{"sections":[]}}`, http.StatusBadRequest},
		{"missing tree", `{"mode":"preview"}`, http.StatusBadRequest},
		{"module without type", `{"tree":{"sections":[{"rows":[{"columns":[{"modules":[{"id":"m"}]}]}]}]}}`, http.StatusUnprocessableEntity},
		{"bad width", `{"tree":{"sections":[{"rows":[{"columns":[{"width":"wide","modules":[]}]}]}]}}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(t, http.MethodPost, "/api/render", "application/json", tt.body)
			assertStatus(t, rec, tt.want)

			var resp errorBody
			decode(t, rec, &resp)
			if resp.Error == "" {
				t.Error("expected an error message")
			}
			if tt.want == http.StatusUnprocessableEntity && resp.Issues == nil {
				t.Error("expected schema issues")
			}
		})
	}
}

func TestModules(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/modules", "", "")
	assertStatus(t, rec, http.StatusOK)

	var descs []registry.Descriptor
	decode(t, rec, &descs)
	found := false
	for _, d := range descs {
		if d.Type == "text" {
			found = true
		}
	}
	if !found {
		t.Errorf("text module missing from %d descriptors", len(descs))
	}
}

func TestResolveTemplate(t *testing.T) {
	env := newTestEnv(t)
	env.addTemplate(models.Template{
		Type: models.TemplateTypeHeader, Name: "Everywhere", IsActive: true,
		Conditions: &models.Conditions{Mode: models.ConditionAll},
		Content:    textTree("a", "all"),
	})
	env.addTemplate(models.Template{
		Type: models.TemplateTypeHeader, Name: "About only", IsActive: true, Priority: 10,
		Conditions: &models.Conditions{Mode: models.ConditionSpecific, Pages: []string{"about"}},
		Content:    textTree("b", "about"),
	})

	tests := []struct {
		query    string
		status   int
		wantName string
	}{
		{"type=header&slug=about", http.StatusOK, "About only"},
		{"type=header&slug=/About/", http.StatusOK, "About only"},
		{"type=header&slug=contact", http.StatusOK, "Everywhere"},
		{"type=footer&slug=about", http.StatusNotFound, ""},
		{"type=banner&slug=about", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/templates/resolve?"+tt.query, "", "")
			assertStatus(t, rec, tt.status)
			if tt.wantName == "" {
				return
			}
			var got models.Template
			decode(t, rec, &got)
			if got.Name != tt.wantName {
				t.Errorf("name: got %q, want %q", got.Name, tt.wantName)
			}
		})
	}
}

const importFile = `{
  "name": "Main header",
  "type": "header",
  "conditions": {"mode": "specific", "pages": ["/About", "contact"]},
  "priority": 3,
  "content": {"sections": [{"id": "s1", "rows": [{"id": "r1", "columns": [{"id": "c1", "modules": [
    {"id": "m1", "type": "text", "content": {"text": "Imported"}}
  ]}]}]}]}
}`

func TestImportTemplate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/templates/import", "application/json", importFile)
	assertStatus(t, rec, http.StatusCreated)

	var got models.Template
	decode(t, rec, &got)
	if got.ID == uuid.Nil {
		t.Fatal("expected an id")
	}
	if got.IsActive {
		t.Error("imported template should be inactive")
	}
	if got.Conditions == nil || strings.Join(got.Conditions.Pages, ",") != "about,contact" {
		t.Errorf("conditions: got %+v", got.Conditions)
	}
	if firstText(got.Content) != "Imported" {
		t.Errorf("content: got %q", firstText(got.Content))
	}
	if got.Content.Sections[0].ID == "s1" {
		t.Error("section id should be regenerated")
	}

	hist, err := env.Revisions.History(t.Context(), got.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 1 || hist[0].Subject != models.RevisionSubjectTemplate {
		t.Errorf("want one template revision, got %+v", hist)
	}
}

func TestImportTemplateActivate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/templates/import?activate=true", "application/json", importFile)
	assertStatus(t, rec, http.StatusCreated)

	rec = env.do(t, http.MethodGet, "/api/templates/resolve?type=header&slug=about", "", "")
	assertStatus(t, rec, http.StatusOK)
}

func TestImportTemplateInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"not json", `nope`, http.StatusBadRequest},
		{"missing name", `{"type":"header","content":{"sections":[]}}`, http.StatusUnprocessableEntity},
		{"unknown type", `{"name":"x","type":"banner","content":{"sections":[]}}`, http.StatusUnprocessableEntity},
		{"bad tree", `{"name":"x","type":"footer","content":{"sections":[{"rows":[{"columns":[{"modules":[{"type":""}]}]}]}]}}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(t, http.MethodPost, "/api/templates/import", "application/json", tt.body)
			assertStatus(t, rec, tt.want)
			if n := len(env.Templates.templates); n != 0 {
				t.Errorf("templates stored: got %d, want 0", n)
			}
		})
	}
}

func TestExportTemplate(t *testing.T) {
	env := newTestEnv(t)
	tmpl := env.addTemplate(models.Template{
		Type: models.TemplateTypeFooter, Name: "Main Footer",
		Content: textTree("f", "Footer text"),
	})

	rec := env.do(t, http.MethodGet, "/api/templates/"+tmpl.ID.String()+"/export", "", "")
	assertStatus(t, rec, http.StatusOK)

	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="main-footer.json"`) {
		t.Errorf("Content-Disposition: got %q", cd)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"name": "Main Footer"`) || !strings.Contains(body, "Footer text") {
		t.Errorf("unexpected export: %s", body)
	}

	// The export imports back.
	rec = env.do(t, http.MethodPost, "/api/templates/import", "application/json", body)
	assertStatus(t, rec, http.StatusCreated)
}

func TestExportTemplateNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/templates/"+uuid.NewString()+"/export", "", "")
	assertStatus(t, rec, http.StatusNotFound)

	rec = env.do(t, http.MethodGet, "/api/templates/not-a-uuid/export", "", "")
	assertStatus(t, rec, http.StatusBadRequest)
}

func TestTemplateActivation(t *testing.T) {
	env := newTestEnv(t)
	tmpl := env.addTemplate(models.Template{
		Type: models.TemplateTypeHeader, Name: "Header",
		Content: textTree("h", "Header text"),
	})
	resolve := "/api/templates/resolve?type=header&slug=about"

	rec := env.do(t, http.MethodGet, resolve, "", "")
	assertStatus(t, rec, http.StatusNotFound)

	rec = env.do(t, http.MethodPost, "/api/templates/"+tmpl.ID.String()+"/activate", "", "")
	assertStatus(t, rec, http.StatusOK)
	var got activeResponse
	decode(t, rec, &got)
	if got.ID != tmpl.ID || !got.IsActive {
		t.Errorf("activate response: %+v", got)
	}
	rec = env.do(t, http.MethodGet, resolve, "", "")
	assertStatus(t, rec, http.StatusOK)

	rec = env.do(t, http.MethodPost, "/api/templates/"+tmpl.ID.String()+"/deactivate", "", "")
	assertStatus(t, rec, http.StatusOK)
	rec = env.do(t, http.MethodGet, resolve, "", "")
	assertStatus(t, rec, http.StatusNotFound)

	rec = env.do(t, http.MethodPost, "/api/templates/"+uuid.NewString()+"/activate", "", "")
	assertStatus(t, rec, http.StatusNotFound)
	rec = env.do(t, http.MethodPost, "/api/templates/bad/deactivate", "", "")
	assertStatus(t, rec, http.StatusBadRequest)
}

func TestDeleteTemplate(t *testing.T) {
	env := newTestEnv(t)
	tmpl := env.addTemplate(models.Template{
		Type: models.TemplateTypeFooter, Name: "Footer", IsActive: true,
		Content: textTree("f", "Footer text"),
	})

	rec := env.do(t, http.MethodDelete, "/api/templates/"+tmpl.ID.String(), "", "")
	assertStatus(t, rec, http.StatusNoContent)

	rec = env.do(t, http.MethodGet, "/api/templates/"+tmpl.ID.String()+"/export", "", "")
	assertStatus(t, rec, http.StatusNotFound)
	rec = env.do(t, http.MethodDelete, "/api/templates/"+tmpl.ID.String(), "", "")
	assertStatus(t, rec, http.StatusNotFound)
}

// savePage sends a page update and returns the response.
func savePage(t *testing.T, env *testEnv, id uuid.UUID, slug, text string) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"title":"About","slug":%q,"status":"published","content":%s}`, slug, treeJSON(t, "p", text))
	return env.do(t, http.MethodPut, "/api/pages/"+id.String(), "application/json", body)
}

func TestSavePage(t *testing.T) {
	env := newTestEnv(t)
	page := env.addPage(models.Page{Title: "Old", Slug: "old", Status: models.PageStatusDraft})

	rec := savePage(t, env, page.ID, "/About/", "first")
	assertStatus(t, rec, http.StatusOK)

	var resp struct {
		Page     models.Page     `json:"page"`
		Revision revisionSummary `json:"revision"`
	}
	decode(t, rec, &resp)
	if resp.Page.Slug != "about" {
		t.Errorf("slug: got %q, want about", resp.Page.Slug)
	}
	if resp.Page.Status != models.PageStatusPublished {
		t.Errorf("status: got %q", resp.Page.Status)
	}
	if resp.Revision.Seq != 1 || resp.Revision.Kind != models.RevisionKindSave {
		t.Errorf("revision: got %+v", resp.Revision)
	}

	rec = savePage(t, env, page.ID, "about", "second")
	assertStatus(t, rec, http.StatusOK)
	decode(t, rec, &resp)
	if resp.Revision.Seq != 2 {
		t.Errorf("second revision seq: got %d, want 2", resp.Revision.Seq)
	}

	rec = env.do(t, http.MethodGet, "/api/pages/"+page.ID.String(), "", "")
	assertStatus(t, rec, http.StatusOK)
	var stored models.Page
	decode(t, rec, &stored)
	if firstText(stored.Content) != "second" {
		t.Errorf("content: got %q, want second", firstText(stored.Content))
	}
}

func TestSavePageAuthor(t *testing.T) {
	env := newTestEnv(t)
	page := env.addPage(models.Page{Title: "About", Slug: "about", Status: models.PageStatusDraft})

	body := fmt.Sprintf(`{"title":"About","slug":"about","content":%s}`, treeJSON(t, "p", "x"))
	req := httptest.NewRequest(http.MethodPut, "/api/pages/"+page.ID.String(), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(authorHeader, "editor@example.com")
	rec := httptest.NewRecorder()
	env.Mux.ServeHTTP(rec, req)
	assertStatus(t, rec, http.StatusOK)

	hist, err := env.Revisions.History(t.Context(), page.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 1 || hist[0].Author != "editor@example.com" {
		t.Errorf("author: got %+v", hist)
	}
}

func TestSavePageErrors(t *testing.T) {
	env := newTestEnv(t)
	page := env.addPage(models.Page{Title: "About", Slug: "about", Status: models.PageStatusDraft})
	env.addPage(models.Page{Title: "Contact", Slug: "contact", Status: models.PageStatusDraft})
	tree := treeJSON(t, "p", "x")

	tests := []struct {
		name string
		id   string
		body string
		want int
	}{
		{"bad id", "nope", `{}`, http.StatusBadRequest},
		{"bad json", page.ID.String(), `{`, http.StatusBadRequest},
		{"missing title", page.ID.String(), `{"slug":"about","content":` + tree + `}`, http.StatusUnprocessableEntity},
		{"bad slug", page.ID.String(), `{"title":"A","slug":"a b","content":` + tree + `}`, http.StatusUnprocessableEntity},
		{"bad status", page.ID.String(), `{"title":"A","slug":"a","status":"gone","content":` + tree + `}`, http.StatusUnprocessableEntity},
		{"missing content", page.ID.String(), `{"title":"A","slug":"a"}`, http.StatusBadRequest},
		{"bad tree", page.ID.String(), `{"title":"A","slug":"a","content":{"rows":[]}}`, http.StatusUnprocessableEntity},
		{"duplicate slug", page.ID.String(), `{"title":"A","slug":"contact","content":` + tree + `}`, http.StatusConflict},
		{"unknown page", uuid.NewString(), `{"title":"A","slug":"a","content":` + tree + `}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPut, "/api/pages/"+tt.id, "application/json", tt.body)
			assertStatus(t, rec, tt.want)
		})
	}

	hist, _ := env.Revisions.History(t.Context(), page.ID)
	if len(hist) != 0 {
		t.Errorf("failed saves wrote %d revisions", len(hist))
	}
}

func TestPageRevisionsAndRestore(t *testing.T) {
	env := newTestEnv(t)
	page := env.addPage(models.Page{Title: "About", Slug: "about", Status: models.PageStatusDraft})

	assertStatus(t, savePage(t, env, page.ID, "about", "one"), http.StatusOK)
	assertStatus(t, savePage(t, env, page.ID, "about", "two"), http.StatusOK)

	rec := env.do(t, http.MethodGet, "/api/pages/"+page.ID.String()+"/revisions", "", "")
	assertStatus(t, rec, http.StatusOK)
	var hist []revisionSummary
	decode(t, rec, &hist)
	if len(hist) != 2 || hist[0].Seq != 1 || hist[1].Seq != 2 {
		t.Fatalf("history: got %+v", hist)
	}
	if strings.Contains(rec.Body.String(), `"content"`) {
		t.Error("history should not carry content")
	}

	first := hist[0].ID
	rec = env.do(t, http.MethodPost, "/api/revisions/"+first.String()+"/restore", "", "")
	assertStatus(t, rec, http.StatusOK)

	var restored restoreResponse
	decode(t, rec, &restored)
	if restored.Revision.Seq != 3 || restored.Revision.Kind != models.RevisionKindRestore {
		t.Errorf("restore revision: got %+v", restored.Revision)
	}
	if restored.Revision.RestoredFrom == nil || *restored.Revision.RestoredFrom != first {
		t.Errorf("restored_from: got %v, want %s", restored.Revision.RestoredFrom, first)
	}
	if firstText(restored.Content) != "one" {
		t.Errorf("restored content: got %q, want one", firstText(restored.Content))
	}

	// The page now carries the restored tree and history kept all three.
	p, _ := env.Pages.FindByID(t.Context(), page.ID)
	if firstText(p.Content) != "one" {
		t.Errorf("page content: got %q, want one", firstText(p.Content))
	}
	rec = env.do(t, http.MethodGet, "/api/revisions/"+first.String(), "", "")
	assertStatus(t, rec, http.StatusOK)
	var rev models.Revision
	decode(t, rec, &rev)
	if rev.Seq != 1 || firstText(rev.Content) != "one" {
		t.Errorf("original revision changed: %+v", rev)
	}
}

func TestRestoreTemplateRevision(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/templates/import", "application/json", importFile)
	assertStatus(t, rec, http.StatusCreated)
	var tmpl models.Template
	decode(t, rec, &tmpl)

	hist, err := env.Revisions.History(t.Context(), tmpl.ID)
	if err != nil || len(hist) != 1 {
		t.Fatalf("history: %v %+v", err, hist)
	}

	rec = env.do(t, http.MethodPost, "/api/revisions/"+hist[0].ID.String()+"/restore", "", "")
	assertStatus(t, rec, http.StatusOK)

	var restored restoreResponse
	decode(t, rec, &restored)
	if restored.Revision.Subject != models.RevisionSubjectTemplate || restored.Revision.Seq != 2 {
		t.Errorf("restore revision: got %+v", restored.Revision)
	}
}

func TestRestoreErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/revisions/"+uuid.NewString()+"/restore", "", "")
	assertStatus(t, rec, http.StatusNotFound)

	rec = env.do(t, http.MethodPost, "/api/revisions/bad/restore", "", "")
	assertStatus(t, rec, http.StatusBadRequest)

	rec = env.do(t, http.MethodGet, "/api/pages/"+uuid.NewString()+"/revisions", "", "")
	assertStatus(t, rec, http.StatusNotFound)

	// A revision whose page was deleted cannot be restored.
	id, err := env.Revisions.Snapshot(t.Context(), uuid.New(), textTree("x", "orphan"), "test")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	rec = env.do(t, http.MethodPost, "/api/revisions/"+id.String()+"/restore", "", "")
	assertStatus(t, rec, http.StatusNotFound)
}

func TestDeletePageKeepsRevisions(t *testing.T) {
	env := newTestEnv(t)
	page := env.addPage(models.Page{Title: "About", Slug: "about", Status: models.PageStatusDraft})

	rec := savePage(t, env, page.ID, "about", "First")
	assertStatus(t, rec, http.StatusOK)
	var saved saveResponse
	decode(t, rec, &saved)

	rec = env.do(t, http.MethodDelete, "/api/pages/"+page.ID.String(), "", "")
	assertStatus(t, rec, http.StatusNoContent)

	rec = env.do(t, http.MethodGet, "/api/pages/"+page.ID.String(), "", "")
	assertStatus(t, rec, http.StatusNotFound)
	rec = env.do(t, http.MethodDelete, "/api/pages/"+page.ID.String(), "", "")
	assertStatus(t, rec, http.StatusNotFound)

	// History outlives the page but can no longer be restored onto it.
	rec = env.do(t, http.MethodGet, "/api/revisions/"+saved.Revision.ID.String(), "", "")
	assertStatus(t, rec, http.StatusOK)
	rec = env.do(t, http.MethodPost, "/api/revisions/"+saved.Revision.ID.String()+"/restore", "", "")
	assertStatus(t, rec, http.StatusNotFound)
}

func TestCreateAndListPages(t *testing.T) {
	env := newTestEnv(t)
	body := fmt.Sprintf(`{"title":" Contact ","slug":"/Contact/","content":%s}`, treeJSON(t, "c", "Write to us"))

	rec := env.do(t, http.MethodPost, "/api/pages", "application/json", body)
	assertStatus(t, rec, http.StatusCreated)
	var created saveResponse
	decode(t, rec, &created)
	if created.Page.ID == uuid.Nil {
		t.Fatal("expected an id on the created page")
	}
	if created.Page.Slug != "contact" || created.Page.Title != "Contact" {
		t.Errorf("page not normalized: slug %q, title %q", created.Page.Slug, created.Page.Title)
	}
	if created.Page.Status != models.PageStatusDraft {
		t.Errorf("status: got %q, want draft", created.Page.Status)
	}
	if created.Revision.Seq != 1 || created.Revision.Kind != models.RevisionKindSave {
		t.Errorf("first revision: %+v", created.Revision)
	}

	rec = env.do(t, http.MethodPost, "/api/pages", "application/json", body)
	assertStatus(t, rec, http.StatusConflict)

	rec = env.do(t, http.MethodPost, "/api/pages", "application/json", `{"title":"","slug":"x","content":{"sections":[]}}`)
	assertStatus(t, rec, http.StatusUnprocessableEntity)

	env.addPage(models.Page{Title: "About", Slug: "about", Status: models.PageStatusPublished})
	rec = env.do(t, http.MethodGet, "/api/pages", "", "")
	assertStatus(t, rec, http.StatusOK)
	var list []pageSummary
	decode(t, rec, &list)
	if len(list) != 2 || list[0].Slug != "about" || list[1].Slug != "contact" {
		t.Fatalf("page list: %+v", list)
	}
	if strings.Contains(rec.Body.String(), "Write to us") {
		t.Error("page list should not carry content")
	}
}

func TestListTemplates(t *testing.T) {
	env := newTestEnv(t)
	env.addTemplate(models.Template{Type: models.TemplateTypeHeader, Name: "B header", IsActive: true, Content: textTree("b", "B")})
	env.addTemplate(models.Template{Type: models.TemplateTypeFooter, Name: "A footer", Content: textTree("a", "A")})

	rec := env.do(t, http.MethodGet, "/api/templates", "", "")
	assertStatus(t, rec, http.StatusOK)
	var list []templateSummary
	decode(t, rec, &list)
	if len(list) != 2 || list[0].Name != "A footer" || list[1].Name != "B header" {
		t.Fatalf("template list: %+v", list)
	}
	if list[0].IsActive || !list[1].IsActive {
		t.Errorf("active flags: %+v", list)
	}
}
