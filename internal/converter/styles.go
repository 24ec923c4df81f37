// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package converter

import (
	"sort"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"

	"pagecraft/internal/document"
	"pagecraft/internal/registry"
)

// inlineSpecificity ranks inline declarations above any selector.
const inlineSpecificity = 1 << 30

// styleIndex resolves the cascaded declarations of elements from the
// document's <style> blocks and inline style attributes. Only compound
// selectors joined by descendant or child combinators are supported;
// @-rules, pseudo-classes and attribute selectors are ignored.
type styleIndex struct {
	rules []cssRule
	cache map[*html.Node]map[string]string
}

type cssRule struct {
	sel         selector
	specificity int
	order       int
	decls       []*css.Declaration
	// base marks rules of the renderer's own stylesheet, which select
	// only pc- classes.
	base bool
}

type compound struct {
	tag     string
	id      string
	classes []string
}

type selector struct {
	parts []compound
	// combs[i] joins parts[i] and parts[i+1]: ' ' or '>'.
	combs []byte
}

func extractStyles(doc *html.Node) *styleIndex {
	idx := &styleIndex{cache: map[*html.Node]map[string]string{}}
	order := 0
	for _, st := range findAll(doc, byTag("style")) {
		var src strings.Builder
		for ch := st.FirstChild; ch != nil; ch = ch.NextSibling {
			if ch.Type == html.TextNode {
				src.WriteString(ch.Data)
			}
		}
		sheet, err := parser.Parse(src.String())
		if err != nil {
			continue
		}
		for _, rule := range sheet.Rules {
			if rule.Kind != css.QualifiedRule {
				continue
			}
			for _, raw := range rule.Selectors {
				sel, ok := parseSelector(raw)
				if !ok {
					continue
				}
				idx.rules = append(idx.rules, cssRule{
					sel:         sel,
					specificity: sel.specificity(),
					order:       order,
					decls:       rule.Declarations,
					base:        sel.isBase(),
				})
				order++
			}
		}
	}
	return idx
}

// props returns the cascaded longhand properties of n.
func (s *styleIndex) props(n *html.Node) map[string]string {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	if p, ok := s.cache[n]; ok {
		return p
	}
	out := s.cascade(n, true)
	s.cache[n] = out
	return out
}

// authored returns the properties of n set by the page itself, leaving
// out the renderer's base stylesheet. Module settings read from it so a
// reconverted page does not pick up the base defaults as choices.
func (s *styleIndex) authored(n *html.Node) map[string]string {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return s.cascade(n, false)
}

func (s *styleIndex) cascade(n *html.Node, withBase bool) map[string]string {
	type entry struct {
		important   bool
		specificity int
		order       int
		decl        *css.Declaration
	}
	var entries []entry
	for _, r := range s.rules {
		if (r.base && !withBase) || !r.sel.matches(n) {
			continue
		}
		for _, d := range r.decls {
			entries = append(entries, entry{d.Important, r.specificity, r.order, d})
		}
	}
	if inline := strings.TrimSpace(getAttr(n, "style")); inline != "" {
		if decls, err := parser.ParseDeclarations(inline); err == nil {
			for i, d := range decls {
				entries = append(entries, entry{d.Important, inlineSpecificity, i, d})
			}
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.important != b.important {
			return !a.important
		}
		if a.specificity != b.specificity {
			return a.specificity < b.specificity
		}
		return a.order < b.order
	})

	out := map[string]string{}
	for _, e := range entries {
		prop := strings.ToLower(strings.TrimSpace(e.decl.Property))
		for _, kv := range expand(prop, strings.TrimSpace(e.decl.Value)) {
			out[kv[0]] = kv[1]
		}
	}
	return out
}

// design returns the design map of n in the registry vocabulary.
func (s *styleIndex) design(n *html.Node) document.Props {
	out := document.Props{}
	for prop, val := range s.authored(n) {
		if key, ok := registry.DesignKey(prop); ok && val != "" {
			out[key] = val
		}
	}
	return out
}

func parseSelector(raw string) (selector, bool) {
	fields := strings.Fields(strings.ReplaceAll(raw, ">", " > "))
	var sel selector
	comb := byte(' ')
	for _, f := range fields {
		if f == ">" {
			if len(sel.parts) == 0 {
				return selector{}, false
			}
			comb = '>'
			continue
		}
		c, ok := parseCompound(f)
		if !ok {
			return selector{}, false
		}
		if len(sel.parts) > 0 {
			sel.combs = append(sel.combs, comb)
		}
		sel.parts = append(sel.parts, c)
		comb = ' '
	}
	return sel, len(sel.parts) > 0
}

func parseCompound(s string) (compound, bool) {
	var c compound
	i := 0
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	c.tag = strings.ToLower(s[:i])
	if i < len(s) && s[i] == '*' && i == 0 {
		i++
	}
	for i < len(s) {
		kind := s[i]
		if kind != '.' && kind != '#' {
			return compound{}, false
		}
		j := i + 1
		for j < len(s) && isIdentByte(s[j]) {
			j++
		}
		if j == i+1 {
			return compound{}, false
		}
		if kind == '.' {
			c.classes = append(c.classes, s[i+1:j])
		} else {
			c.id = s[i+1 : j]
		}
		i = j
	}
	return c, true
}

func isIdentByte(b byte) bool {
	return b == '-' || b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b >= 0x80
}

func (sel selector) specificity() int {
	var ids, classes, tags int
	for _, p := range sel.parts {
		if p.id != "" {
			ids++
		}
		classes += len(p.classes)
		if p.tag != "" {
			tags++
		}
	}
	return ids*10000 + classes*100 + tags
}

// isBase reports whether every part of sel selects pc- classes only.
func (sel selector) isBase() bool {
	for _, c := range sel.parts {
		if c.id != "" || c.tag != "" || len(c.classes) == 0 {
			return false
		}
		for _, cl := range c.classes {
			if !strings.HasPrefix(cl, "pc-") {
				return false
			}
		}
	}
	return true
}

func (sel selector) matches(n *html.Node) bool {
	return sel.matchFrom(n, len(sel.parts)-1)
}

func (sel selector) matchFrom(n *html.Node, i int) bool {
	if !sel.parts[i].matches(n) {
		return false
	}
	if i == 0 {
		return true
	}
	if sel.combs[i-1] == '>' {
		p := parentElement(n)
		return p != nil && sel.matchFrom(p, i-1)
	}
	for p := parentElement(n); p != nil; p = parentElement(p) {
		if sel.matchFrom(p, i-1) {
			return true
		}
	}
	return false
}

func (c compound) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if c.tag != "" && c.tag != tag(n) {
		return false
	}
	if c.id != "" && getAttr(n, "id") != c.id {
		return false
	}
	for _, cl := range c.classes {
		if !hasClass(n, cl) {
			return false
		}
	}
	return true
}

func parentElement(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return p
		}
	}
	return nil
}

// expand rewrites shorthand declarations into the longhands the design
// vocabulary uses. Other properties pass through unchanged.
func expand(prop, value string) [][2]string {
	switch prop {
	case "padding", "margin":
		box := boxValues(value)
		if box == nil {
			return nil
		}
		return [][2]string{
			{prop + "-top", box[0]}, {prop + "-right", box[1]},
			{prop + "-bottom", box[2]}, {prop + "-left", box[3]},
		}
	case "border":
		return expandBorder(value)
	case "background":
		return expandBackground(value)
	case "font":
		return expandFont(value)
	}
	return [][2]string{{prop, value}}
}

// boxValues expands a 1-4 value box shorthand to top, right, bottom, left.
func boxValues(value string) []string {
	t := splitTokens(value)
	switch len(t) {
	case 1:
		return []string{t[0], t[0], t[0], t[0]}
	case 2:
		return []string{t[0], t[1], t[0], t[1]}
	case 3:
		return []string{t[0], t[1], t[2], t[1]}
	case 4:
		return t
	}
	return nil
}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "solid": true, "dashed": true, "dotted": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

func expandBorder(value string) [][2]string {
	var out [][2]string
	for _, t := range splitTokens(value) {
		lt := strings.ToLower(t)
		switch {
		case borderStyles[lt]:
			out = append(out, [2]string{"border-style", t})
		case isLength(lt) || lt == "thin" || lt == "medium" || lt == "thick":
			out = append(out, [2]string{"border-width", t})
		default:
			out = append(out, [2]string{"border-color", t})
		}
	}
	return out
}

func expandBackground(value string) [][2]string {
	tokens := splitTokens(value)
	var out [][2]string
	for _, t := range tokens {
		lt := strings.ToLower(t)
		switch {
		case strings.HasPrefix(lt, "url(") || strings.Contains(lt, "gradient("):
			out = append(out, [2]string{"background-image", t})
		case isColor(lt):
			out = append(out, [2]string{"background-color", t})
		}
	}
	if out == nil && len(tokens) == 1 && !strings.EqualFold(tokens[0], "none") {
		out = append(out, [2]string{"background-color", tokens[0]})
	}
	return out
}

var fontSizeKeywords = map[string]bool{
	"xx-small": true, "x-small": true, "small": true, "medium": true,
	"large": true, "x-large": true, "xx-large": true, "smaller": true, "larger": true,
}

func expandFont(value string) [][2]string {
	tokens := splitTokens(value)
	var out [][2]string
	for i, t := range tokens {
		lt := strings.ToLower(t)
		switch {
		case lt == "italic" || lt == "oblique":
			out = append(out, [2]string{"font-style", t})
		case lt == "bold" || lt == "bolder" || lt == "lighter" || (len(lt) == 3 && lt[0] >= '1' && lt[0] <= '9' && lt[1:] == "00"):
			out = append(out, [2]string{"font-weight", t})
		case isLength(strings.SplitN(lt, "/", 2)[0]) || fontSizeKeywords[strings.SplitN(lt, "/", 2)[0]]:
			size, lh, hasLH := strings.Cut(t, "/")
			out = append(out, [2]string{"font-size", size})
			if hasLH && lh != "" {
				out = append(out, [2]string{"line-height", lh})
			}
			if rest := strings.Join(tokens[i+1:], " "); rest != "" {
				out = append(out, [2]string{"font-family", rest})
			}
			return out
		}
	}
	return out
}

// splitTokens splits on whitespace outside parentheses.
func splitTokens(value string) []string {
	var out []string
	var cur strings.Builder
	depth := 0
	for _, r := range value {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case (r == ' ' || r == '\t' || r == '\n') && depth == 0:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func isLength(s string) bool {
	if s == "0" {
		return true
	}
	if s == "" || !(s[0] >= '0' && s[0] <= '9' || s[0] == '.') {
		return strings.HasPrefix(s, "calc(") || strings.HasPrefix(s, "clamp(") || strings.HasPrefix(s, "var(")
	}
	return true
}

var namedColors = map[string]bool{
	"black": true, "white": true, "red": true, "green": true, "blue": true,
	"yellow": true, "orange": true, "purple": true, "pink": true, "gray": true,
	"grey": true, "brown": true, "navy": true, "teal": true, "maroon": true,
	"olive": true, "silver": true, "lime": true, "aqua": true, "fuchsia": true,
	"transparent": true, "currentcolor": true, "whitesmoke": true, "gold": true,
	"indigo": true, "violet": true, "crimson": true, "coral": true, "beige": true,
}

func isColor(s string) bool {
	if strings.HasPrefix(s, "#") || namedColors[s] {
		return true
	}
	for _, fn := range []string{"rgb(", "rgba(", "hsl(", "hsla(", "hwb(", "lab(", "lch(", "oklch(", "oklab(", "color(", "var("} {
		if strings.HasPrefix(s, fn) {
			return true
		}
	}
	return false
}
