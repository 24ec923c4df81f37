// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package renderer turns a document tree into an HTML fragment and a single
// stylesheet. Rendering is a pure function of the tree, the options and the
// registry: no I/O, no clock, no random values, so the same input always
// produces byte-identical output and a Renderer may be shared by any number
// of goroutines.
package renderer

import (
	"log/slog"
	"strings"

	"github.com/aymerick/douceur/css"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"pagecraft/internal/document"
	"pagecraft/internal/registry"
)

// Mode selects preview or published output.
type Mode string

const (
	// ModePreview emits the bare page markup, as shown in the editor.
	ModePreview Mode = "preview"
	// ModePublished adds the production page wrapper and cache policy.
	ModePublished Mode = "published"
)

// DefaultMaxDepth bounds module nesting. Modules nested deeper than this
// are not rendered.
const DefaultMaxDepth = 20

// Cache-Control values reported with the output.
const (
	PublishedCacheControl = "public, max-age=300"
	PreviewCacheControl   = "no-store"
)

// Options control a single render.
type Options struct {
	Mode Mode
	// MaxDepth overrides the renderer's nesting bound when positive.
	MaxDepth int
}

// SkippedModule identifies a module left out of the output because its type
// is not registered.
type SkippedModule struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Output is the result of a render.
type Output struct {
	HTML         string          `json:"html"`
	CSS          string          `json:"css"`
	CacheControl string          `json:"-"`
	Skipped      []SkippedModule `json:"skipped,omitempty"`
}

// Renderer renders trees against a registry.
type Renderer struct {
	reg      *registry.Registry
	log      *slog.Logger
	maxDepth int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.log = l }
}

// WithMaxDepth sets the default module nesting bound.
func WithMaxDepth(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxDepth = n
		}
	}
}

// New creates a renderer bound to reg.
func New(reg *registry.Registry, opts ...Option) *Renderer {
	r := &Renderer{reg: reg, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	return r
}

// Render renders the tree. It never fails: modules of unknown type are
// skipped and reported in Output.Skipped, missing fields take their
// declared defaults.
func (r *Renderer) Render(tree document.Tree, o Options) Output {
	f := &frame{r: r, maxDepth: r.maxDepth}
	if o.MaxDepth > 0 {
		f.maxDepth = o.MaxDepth
	}

	root := &html.Node{Type: html.DocumentNode}
	page := root
	out := Output{CacheControl: PreviewCacheControl}
	if o.Mode == ModePublished {
		page = appendEl(root, "div", "class", "pc-page", "data-pc-analytics", "page")
		out.CacheControl = PublishedCacheControl
	}
	for _, s := range tree.Sections {
		f.section(page, s)
	}

	var b strings.Builder
	if err := html.Render(&b, root); err != nil {
		r.log.Warn("page markup serialization failed", "error", err)
	}
	out.HTML = b.String()
	out.CSS = f.stylesheet()
	out.Skipped = f.skipped
	return out
}

// frame is the mutable state of one Render call.
type frame struct {
	r        *Renderer
	maxDepth int
	rules    []*css.Rule
	skipped  []SkippedModule
}

func (f *frame) section(parent *html.Node, s document.Section) {
	scope := nodeScope(s.ID)
	f.design(scope, s.Design)
	sec := appendEl(parent, "section", "class", "pc-section", "id", scope)
	for _, row := range s.Rows {
		f.row(sec, row)
	}
}

func (f *frame) row(parent *html.Node, row document.Row) {
	scope := nodeScope(row.ID)
	f.design(scope, row.Design)
	div := appendEl(parent, "div", "class", "pc-row", "id", scope)
	for _, c := range row.Columns {
		f.column(div, c)
	}
}

func (f *frame) column(parent *html.Node, c document.Column) {
	scope := nodeScope(c.ID)
	// Widths are advisory: rows whose widths do not add up to 100 wrap or
	// leave space, they are never rescaled.
	if w, ok := document.ParseWidth(c.Width); ok {
		width := document.FormatWidth(w)
		f.add(qualified("#"+scope, declare("flex", "0 0 "+width), declare("max-width", width)))
	}
	f.design(scope, c.Design)
	div := appendEl(parent, "div", "class", "pc-column", "id", scope)
	f.modules(div, c.Modules, 0)
}

func (f *frame) modules(parent *html.Node, ms []document.Module, depth int) {
	for _, m := range ms {
		f.module(parent, m, depth)
	}
}

// module renders one module with its generic wrapper element.
func (f *frame) module(parent *html.Node, m document.Module, depth int) {
	if v, ok := f.resolve(m, depth); ok {
		f.wrap(parent, v)
	}
}

func (f *frame) wrap(parent *html.Node, v view) {
	div := appendEl(parent, "div", "class", v.classes(), "id", v.scope)
	v.render(f, div, v)
}

// resolve classifies a module and emits its stylesheet rules. It reports
// false when the module produces no output.
func (f *frame) resolve(m document.Module, depth int) (view, bool) {
	if depth > f.maxDepth {
		f.r.log.Debug("module nesting too deep, not rendered", "id", m.ID, "type", m.Type, "depth", depth)
		return view{}, false
	}
	switch b := f.r.classify(m).(type) {
	case passthrough:
		f.skipped = append(f.skipped, SkippedModule{ID: b.module.ID, Type: b.module.Type})
		f.r.log.Debug("unknown module type skipped", "id", b.module.ID, "type", b.module.Type)
		return view{}, false
	case known:
		v := view{Module: m, desc: b.desc, kind: b.kind, render: b.render, depth: depth}
		v.scope = moduleScope(m)
		f.design(v.scope, m.Design)
		f.advanced(v)
		return v, true
	}
	return view{}, false
}

// children renders the child modules of v one level deeper.
func (f *frame) children(parent *html.Node, v view) {
	f.modules(parent, v.Children, v.depth+1)
}

// nodeScope is the element id of a section, row, column or module.
func nodeScope(id string) string {
	return "pc-" + id
}

// moduleScope prefers a valid advanced css_id over the generated id.
func moduleScope(m document.Module) string {
	if id, ok := m.Advanced.String(registry.CSSID); ok && validCSSIdent(id) {
		return id
	}
	return nodeScope(m.ID)
}

func validCSSIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c == '-' || (c >= '0' && c <= '9'):
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// classToken turns a type key into a safe class name fragment.
func classToken(s string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(s) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' || c == '-' {
			b.WriteRune(c)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// el creates an element. attrs holds key and value pairs.
func el(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// appendEl creates an element as the last child of parent.
func appendEl(parent *html.Node, tag string, attrs ...string) *html.Node {
	n := el(tag, attrs...)
	parent.AppendChild(n)
	return n
}

func setAttr(n *html.Node, key, val string) {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// appendText adds escaped text to n.
func appendText(n *html.Node, s string) {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

// appendRaw adds markup to n verbatim.
func appendRaw(n *html.Node, s string) {
	n.AppendChild(&html.Node{Type: html.RawNode, Data: s})
}
