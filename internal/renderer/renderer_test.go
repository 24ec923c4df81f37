// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package renderer

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagecraft/internal/document"
	"pagecraft/internal/registry"
)

func tree(mods ...document.Module) document.Tree {
	return document.Tree{Sections: []document.Section{{
		ID:     "s1",
		Design: document.Props{registry.BackgroundColor: "#111"},
		Rows: []document.Row{{
			ID:      "r1",
			Columns: []document.Column{{ID: "c1", Width: "100%", Modules: mods}},
		}},
	}}}
}

func headerTree() document.Tree {
	return tree(
		document.Module{ID: "m1", Type: "heading", Content: document.Props{"text": "Acme", "level": "h1"}},
		document.Module{ID: "m2", Type: "menu", Content: document.Props{"items": []any{
			map[string]any{"label": "About", "url": "/about"},
		}}},
	)
}

func TestRenderHeaderScenario(t *testing.T) {
	out := New(registry.Default()).Render(headerTree(), Options{Mode: ModePreview})

	assert.Contains(t, out.HTML, "<h1>Acme</h1>")
	assert.Contains(t, out.HTML, `<a href="/about">About</a>`)
	assert.Contains(t, out.CSS, "#pc-s1 {\n  background-color: #111;\n}")
	assert.Contains(t, out.CSS, "#pc-c1 {\n  flex: 0 0 100%;\n  max-width: 100%;\n}")
	assert.Empty(t, out.Skipped)
}

func TestRenderIsDeterministic(t *testing.T) {
	r := New(registry.Default())
	tr := headerTree()
	tr.Sections[0].Rows[0].Columns[0].Modules = append(tr.Sections[0].Rows[0].Columns[0].Modules,
		document.Module{ID: "m3", Type: "button", Content: document.Props{"text": "Go", "url": "/go"},
			Design: document.Props{registry.PaddingTop: 10, registry.TextColor: "#fff", registry.FontSize: "18px"}},
		document.Module{ID: "m4", Type: "form", Content: document.Props{"fields": []any{
			map[string]any{"name": "email", "type": "email", "label": "Email", "required": true},
		}}},
	)

	first := r.Render(tr, Options{Mode: ModePublished})
	for i := 0; i < 20; i++ {
		again := r.Render(tr, Options{Mode: ModePublished})
		require.Equal(t, first.HTML, again.HTML)
		require.Equal(t, first.CSS, again.CSS)
	}
	assert.Contains(t, first.CSS, "#pc-m3 {\n  color: #fff;\n  font-size: 18px;\n  padding-top: 10px;\n}")
	assert.Contains(t, first.HTML, `<input type="email" id="pc-m4-email" name="email" required=""/>`)
}

func TestUnknownModuleTypeIsSkipped(t *testing.T) {
	tr := tree(
		document.Module{ID: "known", Type: "text", Content: document.Props{"text": "Visible"}},
		document.Module{ID: "future", Type: "hologram", Content: document.Props{"text": "Secret payload"},
			Design: document.Props{registry.TextColor: "red"}},
		document.Module{ID: "nested", Type: "tabs", Children: []document.Module{
			{ID: "t1", Type: "tab", Content: document.Props{"title": "One"}, Children: []document.Module{
				{ID: "deep-future", Type: "hologram", Content: document.Props{"text": "Nested secret"}},
				{ID: "deep-known", Type: "text", Content: document.Props{"text": "Nested visible"}},
			}},
		}},
	)
	out := New(registry.Default()).Render(tr, Options{Mode: ModePreview})

	assert.Contains(t, out.HTML, "Visible")
	assert.Contains(t, out.HTML, "Nested visible")
	assert.NotContains(t, out.HTML, "Secret payload")
	assert.NotContains(t, out.HTML, "Nested secret")
	assert.NotContains(t, out.HTML, "pc-future")
	assert.NotContains(t, out.CSS, "pc-future")
	assert.Equal(t, []SkippedModule{{ID: "future", Type: "hologram"}, {ID: "deep-future", Type: "hologram"}}, out.Skipped)

	// The data is untouched.
	assert.Equal(t, "Secret payload", tr.Sections[0].Rows[0].Columns[0].Modules[1].Content["text"])
}

func TestPreviewMatchesPublishedModuloWrapper(t *testing.T) {
	r := New(registry.Default())
	preview := r.Render(headerTree(), Options{Mode: ModePreview})
	published := r.Render(headerTree(), Options{Mode: ModePublished})

	const open, close = `<div class="pc-page" data-pc-analytics="page">`, `</div>`
	require.True(t, strings.HasPrefix(published.HTML, open))
	require.True(t, strings.HasSuffix(published.HTML, close))
	inner := strings.TrimSuffix(strings.TrimPrefix(published.HTML, open), close)

	assert.Equal(t, preview.HTML, inner)
	assert.Equal(t, preview.CSS, published.CSS)
	assert.Equal(t, PreviewCacheControl, preview.CacheControl)
	assert.Equal(t, PublishedCacheControl, published.CacheControl)
	assert.NotContains(t, preview.HTML, "data-pc-analytics")
}

func TestDepthGuard(t *testing.T) {
	// A chain of 30 nested tabs.
	var chain document.Module
	for i := 29; i >= 0; i-- {
		m := document.Module{ID: fmt.Sprintf("d%d", i), Type: "tab", Content: document.Props{"title": "x"}}
		if i < 29 {
			m.Children = []document.Module{chain}
		}
		chain = m
	}

	out := New(registry.Default()).Render(tree(chain), Options{Mode: ModePreview})
	assert.Contains(t, out.HTML, `id="pc-d20"`)
	assert.NotContains(t, out.HTML, `id="pc-d21"`)

	out = New(registry.Default(), WithMaxDepth(3)).Render(tree(chain), Options{})
	assert.Contains(t, out.HTML, `id="pc-d3"`)
	assert.NotContains(t, out.HTML, `id="pc-d4"`)

	out = New(registry.Default()).Render(tree(chain), Options{MaxDepth: 1})
	assert.NotContains(t, out.HTML, `id="pc-d2"`)
}

func TestMissingFieldsUseDefaults(t *testing.T) {
	out := New(registry.Default()).Render(tree(
		document.Module{ID: "h", Type: "heading"},
		document.Module{ID: "b", Type: "button"},
		document.Module{ID: "f", Type: "form"},
	), Options{})

	assert.Contains(t, out.HTML, "<h2>Heading</h2>")
	assert.Contains(t, out.HTML, `<button type="button" class="pc-button pc-button-primary">Click here</button>`)
	assert.Contains(t, out.HTML, `method="get"`)
	assert.Contains(t, out.HTML, `<button type="submit">Submit</button>`)
}

func TestAdvancedFields(t *testing.T) {
	out := New(registry.Default()).Render(tree(
		document.Module{ID: "a", Type: "text", Content: document.Props{"text": "x"}, Advanced: document.Props{
			registry.CSSID:      "intro",
			registry.CSSClass:   "lead pc-hack",
			registry.CustomCSS:  "selector p{margin:0}",
			registry.Visibility: registry.VisibleDesktop,
		}},
		document.Module{ID: "b", Type: "text", Content: document.Props{"text": "y"}, Advanced: document.Props{
			registry.CSSID:     "1bad id",
			registry.CustomCSS: "color:red",
		}},
	), Options{})

	assert.Contains(t, out.HTML, `<div class="pc-module pc-module-text lead" id="intro">`)
	assert.Contains(t, out.CSS, "#intro p {\n  margin: 0;\n}")
	assert.Contains(t, out.CSS, "@media (max-width:767px) {\n  #intro {\n    display: none;\n  }\n}")
	assert.Contains(t, out.HTML, `id="pc-b"`)
	assert.Contains(t, out.CSS, "#pc-b {\n  color: red;\n}")
}

func TestColumnWidthsAreAdvisory(t *testing.T) {
	tr := document.Tree{Sections: []document.Section{{ID: "s", Rows: []document.Row{{ID: "r", Columns: []document.Column{
		{ID: "a", Width: "70%"},
		{ID: "b", Width: "70%"},
		{ID: "c", Width: "nonsense"},
		{ID: "d"},
	}}}}}}
	out := New(registry.Default()).Render(tr, Options{})

	assert.Contains(t, out.CSS, "#pc-a {\n  flex: 0 0 70%;\n  max-width: 70%;\n}")
	assert.Contains(t, out.CSS, "#pc-b {\n  flex: 0 0 70%;\n  max-width: 70%;\n}")
	assert.NotContains(t, out.CSS, "#pc-c {")
	assert.NotContains(t, out.CSS, "#pc-d {")
	assert.Equal(t, 4, strings.Count(out.HTML, `class="pc-column"`))
}

func TestEscapingAndUnsafeValues(t *testing.T) {
	out := New(registry.Default()).Render(tree(
		document.Module{ID: "t", Type: "text", Content: document.Props{"text": "<script>x</script>"}},
		document.Module{ID: "l", Type: "button", Content: document.Props{"text": "go", "url": "javascript:alert(1)"}},
		document.Module{ID: "d", Type: "text", Design: document.Props{registry.TextColor: "red;}body{display:none"}},
	), Options{})

	assert.Contains(t, out.HTML, "&lt;script&gt;x&lt;/script&gt;")
	assert.NotContains(t, out.HTML, "javascript:")
	assert.NotContains(t, out.CSS, "body")
}

func TestEveryKindHasARenderer(t *testing.T) {
	for _, d := range registry.Default().List() {
		_, ok := renderers[d.Kind()]
		assert.True(t, ok, d.Type)
	}
}

func TestEveryBuiltinRenders(t *testing.T) {
	var mods []document.Module
	for i, d := range registry.Default().List() {
		mods = append(mods, document.Module{ID: fmt.Sprintf("k%d", i), Type: d.Type})
	}
	out := New(registry.Default()).Render(tree(mods...), Options{})
	assert.Empty(t, out.Skipped)
	for i := range mods {
		assert.Contains(t, out.HTML, fmt.Sprintf(`id="pc-k%d"`, i))
	}
}

func TestCompositeModules(t *testing.T) {
	out := New(registry.Default()).Render(tree(
		document.Module{ID: "tabs", Type: "tabs", Children: []document.Module{
			{ID: "t1", Type: "tab", Content: document.Props{"title": "First"}, Children: []document.Module{
				{ID: "x1", Type: "text", Content: document.Props{"text": "one"}},
			}},
			{ID: "t2", Type: "tab", Content: document.Props{"title": "Second"}},
		}},
		document.Module{ID: "acc", Type: "accordion", Children: []document.Module{
			{ID: "i1", Type: "accordion_item", Content: document.Props{"title": "Q"}, Children: []document.Module{
				{ID: "x2", Type: "text", Content: document.Props{"text": "A"}},
			}},
		}},
		document.Module{ID: "gal", Type: "gallery", Content: document.Props{"columns": 4}, Children: []document.Module{
			{ID: "g1", Type: "image", Content: document.Props{"src": "/a.png", "alt": "A"}},
		}},
	), Options{})

	assert.Contains(t, out.HTML, `role="tab" id="pc-t1-tab" aria-controls="pc-t1" aria-selected="true">First</button>`)
	assert.Contains(t, out.HTML, `aria-selected="false">Second</button>`)
	assert.Contains(t, out.HTML, `aria-labelledby="pc-t2-tab" hidden="">`)
	assert.Contains(t, out.HTML, `<details class="pc-module pc-module-accordion_item" id="pc-i1"><summary>Q</summary>`)
	assert.Contains(t, out.HTML, `<img src="/a.png" alt="A" loading="lazy"/>`)
	assert.Contains(t, out.CSS, "#pc-gal .pc-gallery {\n  grid-template-columns: repeat(4,minmax(0,1fr));\n}")
}

func TestTabPanelsKeepModuleIDsUnique(t *testing.T) {
	out := New(registry.Default()).Render(tree(
		document.Module{ID: "tabs", Type: "tabs", Children: []document.Module{
			{ID: "t1", Type: "tab", Content: document.Props{"title": "First"}},
			{ID: "x", Type: "text", Content: document.Props{"text": "loose"}},
		}},
	), Options{})

	assert.Equal(t, 1, strings.Count(out.HTML, `id="pc-x"`))
	assert.Contains(t, out.HTML, `aria-controls="pc-x-panel"`)
	assert.Contains(t, out.HTML, `<div role="tabpanel" id="pc-x-panel" aria-labelledby="pc-x-tab" hidden=""><div class="pc-module pc-module-text" id="pc-x"><p>loose</p></div></div>`)
	assert.Contains(t, out.HTML, `aria-controls="pc-t1"`)
}

func TestCustomCSSStaysScoped(t *testing.T) {
	out := New(registry.Default()).Render(tree(
		document.Module{ID: "a", Type: "text", Advanced: document.Props{
			registry.CustomCSS: "selector{color:red} body{display:none} selector a:hover{color:blue}",
		}},
		document.Module{ID: "b", Type: "text", Advanced: document.Props{
			registry.CustomCSS: "color:red</style><script>",
		}},
	), Options{})

	assert.Contains(t, out.CSS, "#pc-a {\n  color: red;\n}")
	assert.Contains(t, out.CSS, "#pc-a a:hover {\n  color: blue;\n}")
	assert.NotContains(t, out.CSS, "body")
	assert.NotContains(t, out.CSS, "script")
}

func TestConcurrentRenders(t *testing.T) {
	r := New(registry.Default())
	want := r.Render(headerTree(), Options{Mode: ModePublished})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := r.Render(headerTree(), Options{Mode: ModePublished})
			assert.Equal(t, want.HTML, got.HTML)
		}()
	}
	wg.Wait()
}
