// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package renderer

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"pagecraft/internal/document"
	"pagecraft/internal/markdown"
	"pagecraft/internal/registry"
)

func renderHeading(f *frame, parent *html.Node, v view) {
	level := strings.ToLower(strings.TrimSpace(v.str("level")))
	if len(level) == 1 {
		level = "h" + level
	}
	if len(level) != 2 || level[0] != 'h' || level[1] < '1' || level[1] > '6' {
		level = "h2"
	}
	inner := appendEl(parent, level)
	if u := safeURL(v.str("url")); u != "" {
		inner = appendEl(inner, "a", "href", u)
	}
	if h := v.str("html"); h != "" {
		appendRaw(inner, h)
	} else {
		appendText(inner, v.str("text"))
	}
}

func renderText(f *frame, parent *html.Node, v view) {
	p := appendEl(parent, "p")
	if h := v.str("html"); h != "" {
		appendRaw(p, h)
	} else {
		appendText(p, v.str("text"))
	}
}

func renderButton(f *frame, parent *html.Node, v view) {
	style := classToken(v.str("style"))
	if style == "" {
		style = "primary"
	}
	class := "pc-button pc-button-" + style
	var b *html.Node
	if u := safeURL(v.str("url")); u != "" {
		b = appendEl(parent, "a", "class", class, "href", u)
		setTarget(b, v.str("target"))
	} else {
		b = appendEl(parent, "button", "type", "button", "class", class)
	}
	appendText(b, v.str("text"))
}

func renderLink(f *frame, parent *html.Node, v view) {
	u := safeURL(v.str("url"))
	text := v.str("text")
	if text == "" {
		text = u
	}
	a := appendEl(parent, "a", "class", "pc-link", "href", u)
	setTarget(a, v.str("target"))
	appendText(a, text)
}

func renderImage(f *frame, parent *html.Node, v view) {
	img := el("img")
	if src := safeURL(v.str("src")); src != "" {
		setAttr(img, "src", src)
	}
	setAttr(img, "alt", v.str("alt"))
	for _, dim := range []string{"width", "height"} {
		if d := v.str(dim); d != "" {
			setAttr(img, dim, d)
		}
	}
	setAttr(img, "loading", "lazy")

	node := img
	if u := safeURL(v.str("url")); u != "" {
		node = el("a", "href", u)
		node.AppendChild(img)
	}
	if caption := v.str("caption"); caption != "" {
		fig := el("figure")
		fig.AppendChild(node)
		appendText(appendEl(fig, "figcaption"), caption)
		node = fig
	}
	parent.AppendChild(node)
}

func renderList(f *frame, parent *html.Node, v view) {
	tag := "ul"
	if v.str("style") == "ordered" {
		tag = "ol"
	}
	list := appendEl(parent, tag, "class", "pc-list")
	for _, item := range v.list("items") {
		text := entry(item, "text")
		if text == "" {
			text = document.Stringify(scalar(item))
		}
		appendText(appendEl(list, "li"), text)
	}
}

func renderMenu(f *frame, parent *html.Node, v view) {
	ul := appendEl(appendEl(parent, "nav", "class", "pc-menu"), "ul")
	for _, item := range v.list("items") {
		label := entry(item, "label")
		if label == "" {
			label = document.Stringify(scalar(item))
		}
		li := appendEl(ul, "li")
		if u := safeURL(entry(item, "url")); u != "" {
			appendText(appendEl(li, "a", "href", u), label)
		} else {
			appendText(appendEl(li, "span"), label)
		}
	}
}

func renderForm(f *frame, parent *html.Node, v view) {
	method := strings.ToLower(v.str("method"))
	if method != "post" {
		method = "get"
	}
	form := appendEl(parent, "form", "class", "pc-form")
	if action := safeURL(v.str("action")); action != "" {
		setAttr(form, "action", action)
	}
	setAttr(form, "method", method)

	for i, item := range v.list("fields") {
		name := entry(item, "name")
		typ := strings.ToLower(entry(item, "type"))
		if typ == "" {
			typ = "text"
		}
		key := name
		if key == "" {
			key = strconv.Itoa(i + 1)
		}
		id := v.scope + "-" + classToken(key)

		field := appendEl(form, "div", "class", "pc-field")
		if label := entry(item, "label"); label != "" {
			appendText(appendEl(field, "label", "for", id), label)
		}
		var ctl *html.Node
		switch typ {
		case "textarea", "select":
			ctl = el(typ)
		default:
			ctl = el("input", "type", typ)
		}
		setAttr(ctl, "id", id)
		if name != "" {
			setAttr(ctl, "name", name)
		}
		if entry(item, "required") == "true" {
			setAttr(ctl, "required", "")
		}
		if p := entry(item, "placeholder"); p != "" && typ != "select" {
			setAttr(ctl, "placeholder", p)
		}
		if typ == "select" {
			for _, opt := range optionList(item) {
				appendText(appendEl(ctl, "option", "value", opt[0]), opt[1])
			}
		}
		field.AppendChild(ctl)
	}
	appendText(appendEl(form, "button", "type", "submit"), v.str("submit_text"))
}

// optionList returns the value/label pairs of a select field.
func optionList(field any) [][2]string {
	var raw any
	switch t := field.(type) {
	case map[string]any:
		raw = t["options"]
	case document.Props:
		raw = t["options"]
	}
	var out [][2]string
	for _, o := range asList(raw) {
		value, label := entry(o, "value"), entry(o, "label")
		if value == "" && label == "" {
			value = document.Stringify(scalar(o))
			label = value
		}
		if label == "" {
			label = value
		}
		out = append(out, [2]string{value, label})
	}
	return out
}

func renderHTML(f *frame, parent *html.Node, v view) {
	appendRaw(parent, v.str("html"))
}

func renderDivider(f *frame, parent *html.Node, _ view) {
	appendEl(parent, "hr", "class", "pc-divider")
}

func renderSpacer(f *frame, parent *html.Node, v view) {
	div := appendEl(parent, "div", "class", "pc-spacer")
	if h := cssValue(registry.Height, v.Content["height"]); h != "" {
		setAttr(div, "style", declare("height", h).String())
	}
	setAttr(div, "aria-hidden", "true")
}

func renderVideo(f *frame, parent *html.Node, v view) {
	src := safeURL(v.str("src"))
	if v.str("provider") == "embed" {
		appendEl(parent, "iframe", "src", src, "title", "Video", "loading", "lazy", "allowfullscreen", "")
		return
	}
	video := appendEl(parent, "video", "src", src, "controls", "", "preload", "metadata")
	if poster := safeURL(v.str("poster")); poster != "" {
		setAttr(video, "poster", poster)
	}
}

func renderGallery(f *frame, parent *html.Node, v view) {
	if n, err := strconv.Atoi(v.str("columns")); err == nil && n > 0 && n <= 12 {
		f.add(qualified("#"+v.scope+" .pc-gallery",
			declare("grid-template-columns", "repeat("+strconv.Itoa(n)+",minmax(0,1fr))")))
	}
	f.children(appendEl(parent, "div", "class", "pc-gallery"), v)
}

func renderTabs(f *frame, parent *html.Node, v view) {
	var panels []view
	for _, c := range v.Children {
		if cv, ok := f.resolve(c, v.depth+1); ok {
			panels = append(panels, cv)
		}
	}
	// A tab is itself the panel. Any other module is wrapped in a panel of
	// its own so the wrapper keeps the module id.
	panelID := func(p view) string {
		if p.kind == registry.KindTab {
			return p.scope
		}
		return p.scope + "-panel"
	}

	tabs := appendEl(parent, "div", "class", "pc-tabs")
	list := appendEl(tabs, "div", "role", "tablist")
	for i, p := range panels {
		title := p.desc.Name
		if p.kind == registry.KindTab {
			title = p.str("title")
		}
		appendText(appendEl(list, "button", "type", "button", "role", "tab", "id", p.scope+"-tab",
			"aria-controls", panelID(p), "aria-selected", strconv.FormatBool(i == 0)), title)
	}

	for i, p := range panels {
		panel := appendEl(tabs, "div", "role", "tabpanel")
		if p.kind == registry.KindTab {
			setAttr(panel, "class", p.classes())
		}
		setAttr(panel, "id", panelID(p))
		setAttr(panel, "aria-labelledby", p.scope+"-tab")
		if i > 0 {
			setAttr(panel, "hidden", "")
		}
		if p.kind == registry.KindTab {
			f.children(panel, p)
		} else {
			f.wrap(panel, p)
		}
	}
}

// renderTab handles a tab outside a tabs container.
func renderTab(f *frame, parent *html.Node, v view) {
	f.children(parent, v)
}

func renderAccordion(f *frame, parent *html.Node, v view) {
	acc := appendEl(parent, "div", "class", "pc-accordion")
	for _, c := range v.Children {
		cv, ok := f.resolve(c, v.depth+1)
		if !ok {
			continue
		}
		if cv.kind != registry.KindAccordionItem {
			f.wrap(acc, cv)
			continue
		}
		accordionBody(f, appendEl(acc, "details", "class", cv.classes(), "id", cv.scope), cv)
	}
}

// renderAccordionItem handles an item outside an accordion.
func renderAccordionItem(f *frame, parent *html.Node, v view) {
	accordionBody(f, appendEl(parent, "details"), v)
}

func accordionBody(f *frame, details *html.Node, v view) {
	appendText(appendEl(details, "summary"), v.str("title"))
	f.children(appendEl(details, "div", "class", "pc-accordion-body"), v)
}

func renderQuote(f *frame, parent *html.Node, v view) {
	q := appendEl(parent, "blockquote", "class", "pc-quote")
	appendText(appendEl(q, "p"), v.str("text"))
	if cite := v.str("cite"); cite != "" {
		appendText(appendEl(appendEl(q, "footer"), "cite"), cite)
	}
}

func renderCode(f *frame, parent *html.Node, v view) {
	code := appendEl(appendEl(parent, "pre", "class", "pc-code"), "code")
	if lang := classToken(v.str("language")); lang != "" {
		setAttr(code, "class", "language-"+lang)
	}
	appendText(code, v.str("code"))
}

func renderMarkdown(f *frame, parent *html.Node, v view) {
	src := v.str("markdown")
	out, err := markdown.ToHTML(src)
	if err != nil {
		f.r.log.Warn("markdown module conversion failed", "id", v.ID, "error", err)
		appendText(appendEl(parent, "pre"), src)
		return
	}
	appendRaw(parent, out)
}

// setTarget opens links in a new tab when target is _blank.
func setTarget(a *html.Node, target string) {
	if target == "_blank" {
		setAttr(a, "target", "_blank")
		setAttr(a, "rel", "noopener")
	}
}

// safeURL drops script-bearing URL schemes.
func safeURL(u string) string {
	u = strings.TrimSpace(u)
	lower := strings.ToLower(strings.Join(strings.Fields(u), ""))
	for _, scheme := range []string{"javascript:", "vbscript:", "data:text/html"} {
		if strings.HasPrefix(lower, scheme) {
			return ""
		}
	}
	return u
}

// scalar returns item unless it is a map.
func scalar(item any) any {
	switch item.(type) {
	case map[string]any, document.Props:
		return nil
	}
	return item
}
