// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package converter

import (
	"strings"

	"golang.org/x/net/html"
)

// skipTags never produce content.
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"link": true, "meta": true, "head": true, "title": true, "base": true,
}

// inlineTags flow into text runs.
var inlineTags = map[string]bool{
	"span": true, "strong": true, "em": true, "b": true, "i": true, "u": true,
	"s": true, "small": true, "mark": true, "code": true, "abbr": true,
	"time": true, "sup": true, "sub": true, "br": true, "q": true, "cite": true,
	"kbd": true, "var": true, "del": true, "ins": true, "font": true,
	"label": true, "bdi": true, "bdo": true, "data": true, "dfn": true, "wbr": true,
}

// containerTags are recursed into when no rule claims them.
var containerTags = map[string]bool{
	"div": true, "section": true, "article": true, "header": true,
	"footer": true, "main": true, "aside": true, "center": true, "body": true,
	"hgroup": true, "address": true, "li": true, "fieldset": true, "search": true,
	"figure": true, "html": true,
}

// semanticSectionTags start a section of their own.
var semanticSectionTags = map[string]bool{
	"header": true, "footer": true, "section": true, "nav": true,
	"article": true, "aside": true,
}

func tag(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(n.Data)
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return true
		}
	}
	return false
}

func classList(n *html.Node) []string {
	return strings.Fields(getAttr(n, "class"))
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classList(n) {
		if c == class {
			return true
		}
	}
	return false
}

// classContains reports whether a class token contains any of subs.
func classContains(n *html.Node, subs ...string) bool {
	for _, c := range classList(n) {
		lc := strings.ToLower(c)
		for _, s := range subs {
			if strings.Contains(lc, s) {
				return true
			}
		}
	}
	return false
}

// isBlank reports whether n contributes nothing: whitespace text, comments
// and skipped elements.
func isBlank(n *html.Node) bool {
	switch n.Type {
	case html.TextNode:
		return strings.TrimSpace(n.Data) == ""
	case html.ElementNode:
		return skipTags[tag(n)]
	case html.CommentNode, html.DoctypeNode:
		return true
	}
	return false
}

// children returns the significant child nodes of n.
func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if !isBlank(ch) {
			out = append(out, ch)
		}
	}
	return out
}

// elementChildren returns the child elements of n, skipped tags excluded.
func elementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode && !skipTags[tag(ch)] {
			out = append(out, ch)
		}
	}
	return out
}

// textContent concatenates the text of n's subtree, skipped tags excluded.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if skipTags[tag(n)] {
				return
			}
			if tag(n) == "br" {
				b.WriteByte(' ')
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return b.String()
}

// collapse trims and folds runs of whitespace into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// text is the collapsed text content of the nodes.
func text(nodes ...*html.Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, textContent(n))
	}
	return collapse(strings.Join(parts, ""))
}

func outerHTML(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return textContent(n)
	}
	return b.String()
}

func innerHTML(n *html.Node) string {
	var b strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		b.WriteString(outerHTML(ch))
	}
	return strings.TrimSpace(b.String())
}

// renderNodes serializes a run of sibling nodes.
func renderNodes(nodes []*html.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(outerHTML(n))
	}
	return strings.TrimSpace(b.String())
}

// find returns the first descendant of n (n excluded) matching pred, in
// document order.
func find(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode && pred(ch) {
			return ch
		}
		if got := find(ch, pred); got != nil {
			return got
		}
	}
	return nil
}

// findAll returns every descendant matching pred. Matching elements are
// not searched further.
func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode && pred(ch) {
			out = append(out, ch)
			continue
		}
		out = append(out, findAll(ch, pred)...)
	}
	return out
}

// withoutMatches returns nodes with every element matching pred removed.
// Nodes holding a match are replaced by their remaining children.
func withoutMatches(nodes []*html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	for _, k := range nodes {
		switch {
		case k.Type == html.ElementNode && pred(k):
		case find(k, pred) != nil:
			out = append(out, withoutMatches(children(k), pred)...)
		default:
			out = append(out, k)
		}
	}
	return out
}

func byTag(names ...string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		t := tag(n)
		for _, name := range names {
			if t == name {
				return true
			}
		}
		return false
	}
}

func findBody(doc *html.Node) *html.Node {
	if b := find(doc, byTag("body")); b != nil {
		return b
	}
	return doc
}

// isInline reports whether n flows into a text run.
func isInline(n *html.Node) bool {
	switch n.Type {
	case html.TextNode:
		return true
	case html.ElementNode:
		return inlineTags[tag(n)]
	}
	return false
}

// hasElements reports whether n has any element descendant other than br.
func hasElements(n *html.Node) bool {
	return find(n, func(e *html.Node) bool { return tag(e) != "br" }) != nil
}
