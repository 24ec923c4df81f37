// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package renderer

import (
	"strings"

	"golang.org/x/net/html"

	"pagecraft/internal/document"
	"pagecraft/internal/registry"
)

// block is the closed set of module variants: a known kind carrying its
// render function, or a passthrough holding a type no renderer implements.
// Passthrough modules produce no output; their data is left as it is.
type block interface{ isBlock() }

type known struct {
	desc   registry.Descriptor
	kind   registry.Kind
	render renderFunc
}

type passthrough struct {
	module document.Module
}

func (known) isBlock()       {}
func (passthrough) isBlock() {}

// renderFunc appends the inner markup of a module to parent.
type renderFunc func(f *frame, parent *html.Node, v view)

// renderers holds one render function per kind. It is filled in init
// because the functions recurse into frame.module, which reads the table.
var renderers map[registry.Kind]renderFunc

func init() {
	renderers = map[registry.Kind]renderFunc{
		registry.KindHeading:       renderHeading,
		registry.KindText:          renderText,
		registry.KindButton:        renderButton,
		registry.KindLink:          renderLink,
		registry.KindImage:         renderImage,
		registry.KindList:          renderList,
		registry.KindMenu:          renderMenu,
		registry.KindForm:          renderForm,
		registry.KindHTML:          renderHTML,
		registry.KindDivider:       renderDivider,
		registry.KindSpacer:        renderSpacer,
		registry.KindVideo:         renderVideo,
		registry.KindGallery:       renderGallery,
		registry.KindTabs:          renderTabs,
		registry.KindTab:           renderTab,
		registry.KindAccordion:     renderAccordion,
		registry.KindAccordionItem: renderAccordionItem,
		registry.KindQuote:         renderQuote,
		registry.KindCode:          renderCode,
		registry.KindMarkdown:      renderMarkdown,
	}
}

func (r *Renderer) classify(m document.Module) block {
	d, ok := r.reg.Descriptor(m.Type)
	if !ok {
		return passthrough{module: m}
	}
	fn, ok := renderers[d.Kind()]
	if !ok {
		return passthrough{module: m}
	}
	return known{desc: d, kind: d.Kind(), render: fn}
}

// view is a module being rendered together with its descriptor.
type view struct {
	document.Module
	desc   registry.Descriptor
	kind   registry.Kind
	render renderFunc
	depth  int
	scope  string
}

// str returns a content value as a string, substituting the declared
// default when the key is missing.
func (v view) str(key string) string {
	if s, ok := v.Content.String(key); ok {
		return s
	}
	return document.Stringify(v.desc.Default(registry.GroupContent, key))
}

// list returns a list-valued content field.
func (v view) list(key string) []any {
	raw, ok := v.Content[key]
	if !ok || raw == nil {
		raw = v.desc.Default(registry.GroupContent, key)
	}
	return asList(raw)
}

// classes is the class attribute of the module wrapper.
func (v view) classes() string {
	classes := []string{"pc-module", "pc-module-" + classToken(v.Type)}
	if extra, ok := v.Advanced.String(registry.CSSClass); ok {
		for _, c := range strings.Fields(extra) {
			if !strings.HasPrefix(c, "pc-") {
				classes = append(classes, c)
			}
		}
	}
	return strings.Join(classes, " ")
}

func asList(raw any) []any {
	switch t := raw.(type) {
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	}
	return nil
}

// entry reads a key from a list item that is either a map or a scalar.
func entry(item any, key string) string {
	switch t := item.(type) {
	case map[string]any:
		return document.Stringify(t[key])
	case document.Props:
		return document.Stringify(t[key])
	}
	return ""
}
