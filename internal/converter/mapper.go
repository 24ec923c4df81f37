// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package converter

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"pagecraft/internal/document"
	"pagecraft/internal/registry"
)

var mediaTags = map[string]bool{"img": true, "picture": true, "video": true, "iframe": true}

// blockTags inside an anchor turn it into a plain container.
var blockTags = map[string]bool{
	"div": true, "p": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "ul": true, "ol": true, "section": true,
	"article": true, "figure": true, "img": true, "picture": true, "table": true,
}

// mapNodes maps sibling nodes to modules in document order. Runs of text
// and inline elements become text modules; consecutive <details> elements
// become one accordion.
func (r *run) mapNodes(nodes []*html.Node) []document.Module {
	var out []document.Module
	var inline []*html.Node
	flush := func() {
		if len(inline) > 0 {
			out = append(out, r.textRun(inline)...)
			inline = nil
		}
	}
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		if isBlank(n) {
			continue
		}
		if isInline(n) {
			inline = append(inline, n)
			continue
		}
		flush()
		if tag(n) == "details" {
			j := i
			for j < len(nodes) && (tag(nodes[j]) == "details" || isBlank(nodes[j])) {
				j++
			}
			out = append(out, r.accordion(nodes[i:j])...)
			i = j - 1
			continue
		}
		out = append(out, r.mapElement(n)...)
	}
	flush()
	return out
}

// mapElement selects the closest module type for one element.
func (r *run) mapElement(n *html.Node) []document.Module {
	t := tag(n)
	if t == "" || skipTags[t] {
		return nil
	}
	if mods, ok := r.plugin(n); ok {
		return mods
	}
	if hasClass(n, "pc-module") {
		return r.unwrapModule(n)
	}

	switch t {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return r.heading(n)
	case "p":
		return r.paragraph(n)
	case "img", "picture":
		return r.image(n, n, nil)
	case "figure":
		if mods, ok := r.figure(n); ok {
			return mods
		}
	case "a":
		return r.anchor(n)
	case "button":
		return r.emit(n, "button", document.Props{"text": text(n)})
	case "nav":
		return r.nav(n)
	case "ul", "ol":
		return r.list(n)
	case "form":
		return r.form(n)
	case "hr":
		return r.emit(n, "divider", document.Props{})
	case "blockquote":
		return r.quote(n)
	case "pre":
		return r.code(n)
	case "video":
		return r.video(n)
	case "iframe":
		if src := getAttr(n, "src"); src != "" {
			return r.emit(n, "video", document.Props{"src": src, "provider": "embed"})
		}
	case "details":
		return r.accordion([]*html.Node{n})
	}

	if containerTags[t] {
		switch {
		case isTabs(n):
			return r.tabs(n)
		case r.isGallery(n):
			return r.gallery(n)
		case isSpacer(n):
			return r.spacer(n)
		}
		return r.mapNodes(children(n))
	}
	return r.keepVerbatim(n)
}

// claimsModule reports whether n maps to a module of its own rather than
// being a plain container.
func (r *run) claimsModule(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if !containerTags[tag(n)] {
		return true
	}
	if _, ok := r.pluginType(n); ok {
		return true
	}
	return hasClass(n, "pc-module") || isTabs(n) || r.isGallery(n) || isSpacer(n)
}

// supports reports whether the registry knows typ.
func (r *run) supports(typ string) bool {
	return r.c.reg.Exists(typ)
}

// emit builds a single module of typ for n. Types missing from the
// registry fall back to the verbatim html module.
func (r *run) emit(n *html.Node, typ string, content document.Props, kids ...document.Module) []document.Module {
	if typ != "html" && !r.supports(typ) {
		if n == nil {
			return kids
		}
		return r.keepVerbatim(n)
	}
	if !r.takeModule() {
		return nil
	}
	m := document.Module{
		ID:       r.ids(),
		Type:     typ,
		Content:  content,
		Design:   document.Props{},
		Advanced: document.Props{},
		Children: kids,
	}
	if n != nil {
		m.Design = r.styles.design(n)
		m.Advanced = advancedOf(n)
	}
	return []document.Module{m}
}

// keepVerbatim keeps n's markup as an html module.
func (r *run) keepVerbatim(n *html.Node) []document.Module {
	mods := r.emit(n, "html", document.Props{"html": outerHTML(n)})
	if len(mods) > 0 {
		r.verbatim++
		mods[0].Design = document.Props{}
	}
	return mods
}

// advancedOf copies author ids and classes. Builder-generated values are
// left out.
func advancedOf(n *html.Node) document.Props {
	adv := document.Props{}
	if id := getAttr(n, "id"); id != "" && !strings.HasPrefix(id, "pc-") {
		adv[registry.CSSID] = id
	}
	var classes []string
	for _, c := range classList(n) {
		if !strings.HasPrefix(c, "pc-") {
			classes = append(classes, c)
		}
	}
	if len(classes) > 0 {
		adv[registry.CSSClass] = strings.Join(classes, " ")
	}
	return adv
}

// pluginType returns the first plugin type claiming n's tag.
func (r *run) pluginType(n *html.Node) (string, bool) {
	for _, typ := range r.c.reg.ForTag(tag(n)) {
		if !r.c.builtin[typ] {
			return typ, true
		}
	}
	return "", false
}

func (r *run) plugin(n *html.Node) ([]document.Module, bool) {
	typ, ok := r.pluginType(n)
	if !ok {
		return nil, false
	}
	return r.emit(n, typ, document.Props{"html": outerHTML(n), "text": text(n)}), true
}

// unwrapModule reads back a module wrapper written by the renderer. The
// wrapper's design and author attributes belong to the module inside.
func (r *run) unwrapModule(n *html.Node) []document.Module {
	if hasClass(n, "pc-module-html") {
		return r.emit(n, "html", document.Props{"html": innerHTML(n)})
	}
	mods := r.mapNodes(children(n))
	if len(mods) == 1 {
		for k, v := range r.styles.design(n) {
			mods[0].Design[k] = v
		}
		for k, v := range advancedOf(n) {
			mods[0].Advanced[k] = v
		}
	}
	return mods
}

// textRun maps a run of text and inline elements to one text module.
func (r *run) textRun(nodes []*html.Node) []document.Module {
	txt := text(nodes...)
	if txt == "" {
		return nil
	}
	content := document.Props{"text": txt}
	for _, n := range nodes {
		if n.Type == html.ElementNode && tag(n) != "br" {
			content["html"] = renderNodes(nodes)
			break
		}
	}
	return r.emit(nil, "text", content)
}

func (r *run) heading(n *html.Node) []document.Module {
	content := document.Props{"text": text(n), "level": tag(n)}
	if hasElements(n) {
		kids := elementChildren(n)
		if len(kids) == 1 && tag(kids[0]) == "a" && !hasElements(kids[0]) && text(kids[0]) == text(n) {
			content["url"] = getAttr(kids[0], "href")
		} else {
			content["html"] = innerHTML(n)
		}
	}
	return r.emit(n, "heading", content)
}

func (r *run) paragraph(n *html.Node) []document.Module {
	kids := children(n)
	if len(kids) == 0 {
		return nil
	}
	standalone := true
	for _, k := range kids {
		if !(mediaTags[tag(k)] || tag(k) == "br" || (tag(k) == "a" && (wrapsImage(k) || isButtonLink(k)))) {
			standalone = false
			break
		}
	}
	if standalone {
		return r.mapNodes(kids)
	}

	txt := text(n)
	if txt == "" {
		return r.mapNodes(kids)
	}
	content := document.Props{"text": txt}
	if hasElements(n) {
		content["html"] = innerHTML(n)
	}
	return r.emit(n, "text", content)
}

// imageSource reads src, lazy-loading attributes or the first srcset entry.
func imageSource(img *html.Node) string {
	for _, key := range []string{"src", "data-src", "data-lazy-src"} {
		if v := strings.TrimSpace(getAttr(img, key)); v != "" {
			return v
		}
	}
	for _, key := range []string{"srcset", "data-srcset"} {
		if v := strings.TrimSpace(getAttr(img, key)); v != "" {
			if f := strings.Fields(strings.Split(v, ",")[0]); len(f) > 0 {
				return f[0]
			}
		}
	}
	return ""
}

// image maps an img or picture. el carries design and attributes, link is
// an enclosing anchor.
func (r *run) image(img, el *html.Node, link *html.Node) []document.Module {
	if tag(img) == "picture" {
		if inner := find(img, byTag("img")); inner != nil {
			img = inner
		} else if src := find(img, byTag("source")); src != nil {
			img = src
		}
	}
	content := document.Props{"src": imageSource(img), "alt": getAttr(img, "alt")}
	for _, dim := range []string{"width", "height"} {
		if v := getAttr(img, dim); v != "" {
			content[dim] = v
		}
	}
	if link != nil {
		content["url"] = getAttr(link, "href")
	}
	if tag(el) == "figure" {
		if fc := find(el, byTag("figcaption")); fc != nil {
			if c := text(fc); c != "" {
				content["caption"] = c
			}
		}
	}
	return r.emit(el, "image", content)
}

// figure maps a figure holding one image and an optional caption.
func (r *run) figure(n *html.Node) ([]document.Module, bool) {
	var img, link *html.Node
	for _, k := range children(n) {
		switch {
		case tag(k) == "figcaption":
		case tag(k) == "img" || tag(k) == "picture":
			if img != nil {
				return nil, false
			}
			img = k
		case tag(k) == "a" && wrapsImage(k):
			if img != nil {
				return nil, false
			}
			img, link = elementChildren(k)[0], k
		default:
			return nil, false
		}
	}
	if img == nil {
		return nil, false
	}
	return r.image(img, n, link), true
}

// wrapsImage reports whether an anchor holds a single image and no text.
func wrapsImage(a *html.Node) bool {
	kids := children(a)
	return len(kids) == 1 && (tag(kids[0]) == "img" || tag(kids[0]) == "picture")
}

func isButtonLink(a *html.Node) bool {
	if strings.EqualFold(getAttr(a, "role"), "button") {
		return true
	}
	for _, c := range classList(a) {
		lc := strings.ToLower(c)
		if lc == "pc-link" {
			return false
		}
		if strings.Contains(lc, "btn") || strings.Contains(lc, "button") {
			return true
		}
	}
	return false
}

func (r *run) anchor(n *html.Node) []document.Module {
	if wrapsImage(n) {
		return r.image(elementChildren(n)[0], n, n)
	}
	if find(n, func(e *html.Node) bool { return blockTags[tag(e)] }) != nil {
		return r.mapNodes(children(n))
	}
	content := document.Props{"text": text(n), "url": getAttr(n, "href")}
	if getAttr(n, "target") == "_blank" {
		content["target"] = "_blank"
	}
	if isButtonLink(n) {
		content["style"] = buttonStyle(n)
		return r.emit(n, "button", content)
	}
	return r.emit(n, "link", content)
}

func buttonStyle(n *html.Node) string {
	switch {
	case classContains(n, "outline"):
		return "outline"
	case classContains(n, "secondary"):
		return "secondary"
	}
	return "primary"
}

// nav maps navigation to a menu when all of its text sits in links or
// list items. Anything richer is mapped element by element.
func (r *run) nav(n *html.Node) []document.Module {
	if items, ok := menuItems(n); ok {
		return r.emit(n, "menu", document.Props{"items": items})
	}
	return r.mapNodes(children(n))
}

func menuItems(n *html.Node) ([]any, bool) {
	if find(n, byTag("img", "picture", "form", "input", "button", "svg", "video", "iframe")) != nil {
		return nil, false
	}
	var items []any
	if lis := findAll(n, byTag("li")); len(lis) > 0 {
		for _, li := range lis {
			links := findAll(li, byTag("a"))
			if len(links) > 1 {
				return nil, false
			}
			item := map[string]any{"label": text(li)}
			if len(links) == 1 {
				item["url"] = getAttr(links[0], "href")
			}
			items = append(items, item)
		}
		if outside := collapse(textOutside(n, "li")); outside != "" {
			return nil, false
		}
		return items, true
	}

	links := findAll(n, byTag("a"))
	if len(links) == 0 || collapse(textOutside(n, "a")) != "" {
		return nil, false
	}
	for _, a := range links {
		items = append(items, map[string]any{"label": text(a), "url": getAttr(a, "href")})
	}
	return items, true
}

// textOutside returns the text of n that is not inside elements of tag t.
func textOutside(n *html.Node, t string) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			switch {
			case ch.Type == html.TextNode:
				b.WriteString(ch.Data)
			case ch.Type == html.ElementNode && tag(ch) != t && !skipTags[tag(ch)]:
				walk(ch)
			}
		}
	}
	walk(n)
	return b.String()
}

func (r *run) list(n *html.Node) []document.Module {
	if classContains(n, "menu", "nav") {
		if items, ok := menuItems(n); ok {
			return r.emit(n, "menu", document.Props{"items": items})
		}
	}
	if find(n, byTag("img", "picture", "video", "iframe", "form", "table")) != nil {
		return r.keepVerbatim(n)
	}
	items := []any{}
	for _, k := range children(n) {
		if t := text(k); t != "" {
			items = append(items, t)
		}
	}
	style := "unordered"
	if tag(n) == "ol" {
		style = "ordered"
	}
	return r.emit(n, "list", document.Props{"items": items, "style": style})
}

var controlTags = map[string]bool{"input": true, "select": true, "textarea": true, "button": true}

// form maps a form to a form module. Headings and text inside the form,
// including labels that belong to no control, are emitted as their own
// modules ahead of it. The first submit control names the form's submit
// text; any other button follows the form as a button module.
func (r *run) form(n *html.Node) []document.Module {
	if !r.supports("form") {
		return r.keepVerbatim(n)
	}
	controls := findAll(n, func(e *html.Node) bool { return controlTags[tag(e)] })
	ids := map[string]bool{}
	for _, ctl := range controls {
		if id := getAttr(ctl, "id"); id != "" && !isButtonControl(ctl) {
			ids[id] = true
		}
	}
	labels := map[string]string{}
	for _, l := range findAll(n, byTag("label")) {
		id := getAttr(l, "for")
		if !ids[id] {
			continue
		}
		if prev := labels[id]; prev != "" {
			labels[id] = prev + " " + text(l)
		} else {
			labels[id] = text(l)
		}
	}

	var fields []any
	var extra []document.Module
	submit := ""
	for _, ctl := range controls {
		typ := strings.ToLower(getAttr(ctl, "type"))
		if isButtonControl(ctl) {
			label := text(ctl)
			if tag(ctl) == "input" {
				label = strings.TrimSpace(getAttr(ctl, "value"))
				if label == "" {
					label = strings.TrimSpace(getAttr(ctl, "alt"))
				}
			}
			switch {
			case label == "":
			case submit == "" && typ != "reset" && typ != "button":
				submit = label
			default:
				extra = append(extra, r.emit(ctl, "button", document.Props{"text": label})...)
			}
			continue
		}
		if tag(ctl) == "input" {
			if typ == "" {
				typ = "text"
			}
		} else {
			typ = tag(ctl)
		}

		field := map[string]any{"type": typ}
		if name := getAttr(ctl, "name"); name != "" {
			field["name"] = name
		}
		label := labels[getAttr(ctl, "id")]
		if label == "" {
			if l := enclosing(ctl, "label", n); l != nil {
				label = collapse(textOutside(l, "select"))
			}
		}
		if label == "" {
			label = getAttr(ctl, "aria-label")
		}
		if label != "" {
			field["label"] = label
		}
		if p := getAttr(ctl, "placeholder"); p != "" {
			field["placeholder"] = p
		}
		if hasAttr(ctl, "required") {
			field["required"] = true
		}
		if v := getAttr(ctl, "value"); v != "" {
			field["value"] = v
		}
		switch tag(ctl) {
		case "textarea":
			if v := textContent(ctl); strings.TrimSpace(v) != "" {
				field["value"] = v
			}
		case "select":
			var opts []any
			for _, o := range findAll(ctl, byTag("option")) {
				label := text(o)
				value := getAttr(o, "value")
				if !hasAttr(o, "value") {
					value = label
				}
				opts = append(opts, map[string]any{"value": value, "label": label})
			}
			field["options"] = opts
		}
		fields = append(fields, field)
	}
	if fields == nil {
		fields = []any{}
	}

	content := document.Props{"fields": fields, "method": "get"}
	if m := strings.ToLower(getAttr(n, "method")); m == "post" {
		content["method"] = "post"
	}
	if a := getAttr(n, "action"); a != "" {
		content["action"] = a
	}
	if submit != "" {
		content["submit_text"] = submit
	}

	out := r.mapNodes(formContent(n, ids))
	out = append(out, r.emit(n, "form", content)...)
	return append(out, extra...)
}

// isButtonControl reports whether a form control is a button rather than
// a data field.
func isButtonControl(ctl *html.Node) bool {
	switch tag(ctl) {
	case "button":
		return true
	case "input":
		switch strings.ToLower(getAttr(ctl, "type")) {
		case "submit", "button", "image", "reset":
			return true
		}
	}
	return false
}

// formContent collects the nodes of a form that are neither controls nor
// the labels of controls. A label whose for attribute names no field in
// ids is content.
func formContent(n *html.Node, ids map[string]bool) []*html.Node {
	hasControl := func(k *html.Node) bool {
		return find(k, func(e *html.Node) bool { return controlTags[tag(e)] }) != nil
	}
	var out []*html.Node
	for _, k := range children(n) {
		switch {
		case controlTags[tag(k)]:
		case tag(k) == "label" && (ids[getAttr(k, "for")] || hasControl(k)):
		case k.Type == html.ElementNode && hasControl(k):
			out = append(out, formContent(k, ids)...)
		default:
			out = append(out, k)
		}
	}
	return out
}

// enclosing returns the nearest ancestor of n with tag t below stop.
func enclosing(n *html.Node, t string, stop *html.Node) *html.Node {
	for p := n.Parent; p != nil && p != stop; p = p.Parent {
		if tag(p) == t {
			return p
		}
	}
	return nil
}

func (r *run) quote(n *html.Node) []document.Module {
	content := document.Props{}
	var citeText string
	if c := find(n, byTag("cite")); c != nil {
		citeText = text(c)
	} else if f := find(n, byTag("footer")); f != nil {
		citeText = text(f)
	}
	body := collapse(textOutside(n, "footer"))
	if citeText != "" {
		content["cite"] = citeText
		body = strings.TrimSpace(strings.Replace(body, citeText, "", 1))
	}
	content["text"] = body
	return r.emit(n, "quote", content)
}

func (r *run) code(n *html.Node) []document.Module {
	el := n
	if c := find(n, byTag("code")); c != nil {
		el = c
	}
	content := document.Props{"code": textContent(el)}
	for _, e := range []*html.Node{el, n} {
		for _, c := range classList(e) {
			for _, prefix := range []string{"language-", "lang-"} {
				if strings.HasPrefix(c, prefix) {
					content["language"] = strings.TrimPrefix(c, prefix)
				}
			}
		}
		if _, ok := content["language"]; ok {
			break
		}
	}
	return r.emit(n, "code", content)
}

func (r *run) video(n *html.Node) []document.Module {
	src := getAttr(n, "src")
	if src == "" {
		if s := find(n, byTag("source")); s != nil {
			src = getAttr(s, "src")
		}
	}
	content := document.Props{"src": src, "provider": "file"}
	if p := getAttr(n, "poster"); p != "" {
		content["poster"] = p
	}
	return r.emit(n, "video", content)
}

// accordion maps consecutive details elements to one accordion.
func (r *run) accordion(nodes []*html.Node) []document.Module {
	if !r.supports("accordion") || !r.supports("accordion_item") {
		var out []document.Module
		for _, n := range nodes {
			if !isBlank(n) {
				out = append(out, r.keepVerbatim(n)...)
			}
		}
		return out
	}
	var items []document.Module
	for _, d := range nodes {
		if tag(d) != "details" {
			continue
		}
		title := ""
		var body []*html.Node
		for _, k := range children(d) {
			if tag(k) == "summary" && title == "" {
				title = text(k)
				continue
			}
			if hasClass(k, "pc-accordion-body") {
				body = append(body, children(k)...)
				continue
			}
			body = append(body, k)
		}
		items = append(items, r.emit(d, "accordion_item", document.Props{"title": title}, r.mapNodes(body)...)...)
	}
	return r.emit(nil, "accordion", document.Props{}, items...)
}

func isTabs(n *html.Node) bool {
	for _, k := range elementChildren(n) {
		if strings.EqualFold(getAttr(k, "role"), "tablist") {
			return true
		}
	}
	return false
}

func hasRole(role string) func(*html.Node) bool {
	return func(n *html.Node) bool { return strings.EqualFold(getAttr(n, "role"), role) }
}

// tabs maps a tablist and its panels to a tabs module. Content that is
// neither a tab nor a panel follows the tabs module.
func (r *run) tabs(n *html.Node) []document.Module {
	if !r.supports("tabs") || !r.supports("tab") {
		return r.mapNodes(children(n))
	}
	var tablist *html.Node
	var panels, rest []*html.Node
	for _, k := range children(n) {
		switch {
		case tablist == nil && hasRole("tablist")(k):
			tablist = k
		case hasRole("tabpanel")(k):
			panels = append(panels, k)
		default:
			rest = append(rest, k)
		}
	}
	if len(panels) == 0 {
		panels = findAll(n, hasRole("tabpanel"))
		rest = withoutMatches(rest, hasRole("tabpanel"))
	}
	var titles []string
	for _, t := range findAll(tablist, hasRole("tab")) {
		titles = append(titles, text(t))
	}
	if titles == nil {
		for _, k := range children(tablist) {
			titles = append(titles, text(k))
		}
	} else {
		rest = append(withoutMatches(children(tablist), hasRole("tab")), rest...)
	}

	count := max(len(titles), len(panels))
	var tabs []document.Module
	for i := 0; i < count; i++ {
		title := "Tab " + strconv.Itoa(i+1)
		if i < len(titles) && titles[i] != "" {
			title = titles[i]
		}
		var panel *html.Node
		var kids []document.Module
		if i < len(panels) {
			panel = panels[i]
			kids = r.mapNodes(children(panel))
		}
		tabs = append(tabs, r.emit(panel, "tab", document.Props{"title": title}, kids...)...)
	}
	out := r.emit(n, "tabs", document.Props{}, tabs...)
	return append(out, r.mapNodes(rest)...)
}

// imageLike reports whether n renders as a single image.
func imageLike(n *html.Node) bool {
	switch tag(n) {
	case "img", "picture":
		return true
	case "a":
		return wrapsImage(n)
	case "figure":
		return find(n, byTag("img")) != nil && len(findAll(n, byTag("img"))) == 1 &&
			collapse(textOutside(n, "figcaption")) == ""
	}
	if hasClass(n, "pc-module") {
		kids := children(n)
		return len(kids) == 1 && imageLike(kids[0])
	}
	return false
}

func (r *run) isGallery(n *html.Node) bool {
	if !containerTags[tag(n)] || hasClass(n, "pc-module") || hasClass(n, "pc-column") || hasClass(n, "pc-row") {
		return false
	}
	if classContains(n, "gallery") {
		return true
	}
	kids := children(n)
	if len(kids) < 2 {
		return false
	}
	for _, k := range kids {
		if !imageLike(k) {
			return false
		}
	}
	return true
}

func (r *run) gallery(n *html.Node) []document.Module {
	if !r.supports("gallery") {
		return r.mapNodes(children(n))
	}
	kids := r.mapNodes(children(n))
	content := document.Props{}
	if k := gridColumns(n); k > 0 {
		content["columns"] = k
	} else if tracks := gridTracks(r.styles.authored(n)); len(tracks) > 0 {
		content["columns"] = len(tracks)
	}
	return r.emit(n, "gallery", content, kids...)
}

func isSpacer(n *html.Node) bool {
	return classContains(n, "spacer") && len(children(n)) == 0
}

func (r *run) spacer(n *html.Node) []document.Module {
	content := document.Props{}
	props := r.styles.authored(n)
	for _, key := range []string{"height", "min-height"} {
		if h := props[key]; h != "" {
			content["height"] = h
			break
		}
	}
	mods := r.emit(n, "spacer", content)
	if len(mods) > 0 {
		delete(mods[0].Design, registry.Height)
		delete(mods[0].Design, registry.MinHeight)
	}
	return mods
}
