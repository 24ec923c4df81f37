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

// Layout rules, reported in RowReport.Rule.
const (
	ruleStack     = "stack"
	ruleBuilder   = "builder"
	ruleFlex      = "flex"
	ruleGrid      = "grid"
	ruleBootstrap = "bootstrap"
	ruleTailwind  = "tailwind"
	ruleWidths    = "widths"
)

// wrapperDepth bounds how far layout analysis looks through plain wrapper
// elements for a row container.
const wrapperDepth = 3

type rowPlan struct {
	node       *html.Node
	cols       []colPlan
	rule       string
	confidence Confidence
}

type colPlan struct {
	node    *html.Node
	content []*html.Node
	width   float64
}

var wrapperTags = map[string]bool{
	"div": true, "section": true, "article": true, "aside": true,
	"header": true, "footer": true, "main": true,
}

// analyzeLayout splits a section into rows. Content with no layout signal
// becomes a single full-width column.
func (r *run) analyzeLayout(p sectionPlan) []rowPlan {
	var rows []rowPlan
	if p.node != nil {
		if rule, conf, ok := r.rowSignal(p.node); ok {
			rows = []rowPlan{r.rowFrom(p.node, rule, conf)}
		}
	}
	if rows == nil {
		rows = r.layoutNodes(p.content, 0)
	}

	signalled := false
	for _, row := range rows {
		if row.rule != ruleStack {
			signalled = true
		}
	}
	if signalled {
		// Stacked content between real rows follows the page flow.
		for i := range rows {
			if rows[i].rule == ruleStack {
				rows[i].confidence = ConfidenceHeuristic
			}
		}
	}
	return rows
}

func (r *run) layoutNodes(nodes []*html.Node, depth int) []rowPlan {
	var rows []rowPlan
	var loose []*html.Node
	flush := func() {
		if len(loose) > 0 {
			rows = append(rows, rowPlan{
				cols:       []colPlan{{content: loose, width: 100}},
				rule:       ruleStack,
				confidence: ConfidenceFallback,
			})
			loose = nil
		}
	}
	for _, n := range nodes {
		if rule, conf, ok := r.rowSignal(n); ok {
			flush()
			rows = append(rows, r.rowFrom(n, rule, conf))
			continue
		}
		if depth < wrapperDepth && r.isWrapper(n) && r.containsRow(n, wrapperDepth) {
			flush()
			rows = append(rows, r.layoutNodes(children(n), depth+1)...)
			continue
		}
		loose = append(loose, n)
	}
	flush()
	return rows
}

func (r *run) isWrapper(n *html.Node) bool {
	return wrapperTags[tag(n)] && !r.claimsModule(n)
}

func (r *run) containsRow(n *html.Node, depth int) bool {
	if depth == 0 {
		return false
	}
	for _, ch := range elementChildren(n) {
		if _, _, ok := r.rowSignal(ch); ok {
			return true
		}
		if r.isWrapper(ch) && r.containsRow(ch, depth-1) {
			return true
		}
	}
	return false
}

// isLayoutRow reports whether n is a row container.
func (r *run) isLayoutRow(n *html.Node) bool {
	_, _, ok := r.rowSignal(n)
	return ok
}

// rowSignal detects a row container and names the signal that decided.
func (r *run) rowSignal(n *html.Node) (string, Confidence, bool) {
	if !r.isWrapper(n) || len(elementChildren(n)) == 0 {
		return "", "", false
	}
	if hasClass(n, "pc-row") {
		return ruleBuilder, ConfidenceExact, true
	}

	props := r.styles.props(n)
	vertical := strings.HasPrefix(props["flex-direction"], "column") ||
		hasClass(n, "flex-col") || hasClass(n, "flex-column")
	switch props["display"] {
	case "flex", "inline-flex":
		if !vertical {
			return ruleFlex, ConfidenceExact, true
		}
	case "grid", "inline-grid":
		return ruleGrid, ConfidenceExact, true
	}

	for _, c := range classList(n) {
		c = stripVariant(c)
		switch {
		case c == "row" || c == "columns":
			return ruleBootstrap, ConfidenceHeuristic, true
		case (c == "flex" || c == "d-flex") && !vertical:
			return ruleTailwind, ConfidenceHeuristic, true
		case c == "grid" || strings.HasPrefix(c, "grid-cols-"):
			return ruleTailwind, ConfidenceHeuristic, true
		}
	}

	// Two or more children with explicit percentage widths.
	sized := 0
	for _, ch := range elementChildren(n) {
		if _, ok := percent(r.styles.props(ch)["width"]); ok {
			sized++
		}
	}
	if sized >= 2 {
		return ruleWidths, ConfidenceHeuristic, true
	}
	return "", "", false
}

// rowFrom turns the children of a row container into columns.
func (r *run) rowFrom(n *html.Node, rule string, conf Confidence) rowPlan {
	rp := rowPlan{node: n, rule: rule, confidence: conf}
	var inline []*html.Node
	flush := func() {
		if len(inline) > 0 {
			rp.cols = append(rp.cols, colPlan{content: inline})
			inline = nil
		}
	}
	for _, ch := range children(n) {
		if isInline(ch) && tag(ch) != "a" {
			inline = append(inline, ch)
			continue
		}
		flush()
		if r.isWrapper(ch) {
			rp.cols = append(rp.cols, colPlan{node: ch, content: children(ch)})
		} else {
			rp.cols = append(rp.cols, colPlan{content: []*html.Node{ch}})
		}
	}
	flush()

	if max := r.c.limits.MaxColumns; len(rp.cols) > max {
		last := &rp.cols[max-1]
		for _, extra := range rp.cols[max:] {
			if extra.node != nil {
				last.content = append(last.content, extra.node)
			} else {
				last.content = append(last.content, extra.content...)
			}
		}
		rp.cols = rp.cols[:max]
	}
	r.assignWidths(n, rp.cols)
	return rp
}

// assignWidths reads explicit widths and spreads the remainder evenly over
// the columns without one.
func (r *run) assignWidths(container *html.Node, cols []colPlan) {
	if len(cols) == 0 {
		return
	}
	tracks := gridTracks(r.styles.props(container))
	gridN := gridColumns(container)

	known, sum := 0, 0.0
	for i := range cols {
		w := 0.0
		if cols[i].node != nil {
			w = r.columnWidth(cols[i].node, gridN)
		}
		if w == 0 && i < len(tracks) && len(tracks) == len(cols) {
			w = tracks[i]
		}
		if w == 0 && gridN > 0 {
			w = 100 / float64(gridN)
		}
		if w > 0 {
			cols[i].width = w
			known++
			sum += w
		}
	}
	if known == len(cols) {
		return
	}
	rest := (100 - sum) / float64(len(cols)-known)
	if rest <= 0 {
		rest = 100 / float64(len(cols))
	}
	for i := range cols {
		if cols[i].width == 0 {
			cols[i].width = rest
		}
	}
}

// columnWidth reads a width percentage from CSS or framework classes. It
// returns 0 when none is present.
func (r *run) columnWidth(n *html.Node, gridN int) float64 {
	props := r.styles.props(n)
	if f := strings.Fields(props["flex"]); len(f) == 3 {
		if p, ok := percent(f[2]); ok {
			return p
		}
	} else if len(f) == 1 {
		if p, ok := percent(f[0]); ok {
			return p
		}
	}
	for _, key := range []string{"flex-basis", "width", "max-width"} {
		if p, ok := percent(props[key]); ok {
			return p
		}
	}
	for _, c := range classList(n) {
		c = stripVariant(c)
		switch {
		case strings.HasPrefix(c, "w-") || strings.HasPrefix(c, "basis-"):
			frac := c[strings.Index(c, "-")+1:]
			if frac == "full" {
				return 100
			}
			if p, ok := fraction(frac); ok {
				return p
			}
		case strings.HasPrefix(c, "col-span-") && gridN > 0:
			if k, err := strconv.Atoi(strings.TrimPrefix(c, "col-span-")); err == nil && k > 0 {
				return float64(min(k, gridN)) * 100 / float64(gridN)
			}
		case strings.HasPrefix(c, "col-") && !strings.HasPrefix(c, "col-span-"):
			parts := strings.Split(c, "-")
			if k, err := strconv.Atoi(parts[len(parts)-1]); err == nil && k > 0 && k <= 12 {
				return float64(k) * 100 / 12
			}
		}
	}
	return 0
}

// gridTracks reads grid-template-columns made of fr or % tracks.
func gridTracks(props map[string]string) []float64 {
	tmpl := props["grid-template-columns"]
	if tmpl == "" {
		return nil
	}
	var tracks []string
	for _, t := range splitTokens(tmpl) {
		if strings.HasPrefix(t, "repeat(") && strings.HasSuffix(t, ")") {
			inner := strings.TrimSuffix(strings.TrimPrefix(t, "repeat("), ")")
			count, track, ok := strings.Cut(inner, ",")
			k, err := strconv.Atoi(strings.TrimSpace(count))
			if !ok || err != nil || k <= 0 || k > 24 {
				return nil
			}
			for i := 0; i < k; i++ {
				tracks = append(tracks, strings.TrimSpace(track))
			}
			continue
		}
		tracks = append(tracks, t)
	}

	fr := make([]float64, len(tracks))
	total := 0.0
	for i, t := range tracks {
		switch {
		case strings.HasSuffix(t, "fr"):
			v, err := strconv.ParseFloat(strings.TrimSuffix(t, "fr"), 64)
			if err != nil || v <= 0 {
				return nil
			}
			fr[i] = v
			total += v
		case strings.HasPrefix(t, "minmax(") && strings.HasSuffix(t, "fr)"):
			fr[i] = 1
			total++
		default:
			return nil
		}
	}
	out := make([]float64, len(fr))
	for i, v := range fr {
		out[i] = v * 100 / total
	}
	return out
}

// gridColumns reads a Tailwind grid-cols-N class.
func gridColumns(n *html.Node) int {
	for _, c := range classList(n) {
		c = stripVariant(c)
		if strings.HasPrefix(c, "grid-cols-") {
			if k, err := strconv.Atoi(strings.TrimPrefix(c, "grid-cols-")); err == nil && k > 0 && k <= 12 {
				return k
			}
		}
	}
	return 0
}

// stripVariant removes responsive and state prefixes such as "md:".
func stripVariant(class string) string {
	if i := strings.LastIndexByte(class, ':'); i >= 0 {
		return class[i+1:]
	}
	return class
}

func percent(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if !strings.HasSuffix(v, "%") {
		return 0, false
	}
	return document.ParseWidth(v)
}

func fraction(s string) (float64, bool) {
	a, b, ok := strings.Cut(s, "/")
	if !ok {
		return 0, false
	}
	num, err1 := strconv.Atoi(a)
	den, err2 := strconv.Atoi(b)
	if err1 != nil || err2 != nil || num <= 0 || den <= 0 || num > den {
		return 0, false
	}
	return float64(num) * 100 / float64(den), true
}

// buildRow maps the content of every column into modules.
func (r *run) buildRow(rp rowPlan) (document.Row, RowReport) {
	row := document.Row{ID: r.ids(), Design: document.Props{}}
	if rp.node != nil {
		row.Design = r.styles.design(rp.node)
	}
	for _, cp := range rp.cols {
		col := document.Column{
			ID:      r.ids(),
			Width:   document.FormatWidth(cp.width),
			Design:  document.Props{},
			Modules: []document.Module{},
		}
		if cp.node != nil {
			col.Design = r.styles.design(cp.node)
			delete(col.Design, registry.Width)
			delete(col.Design, registry.MaxWidth)
		}
		if mods := r.mapNodes(cp.content); mods != nil {
			col.Modules = mods
		}
		row.Columns = append(row.Columns, col)
	}
	return row, RowReport{Rule: rp.rule, Confidence: rp.confidence, Columns: len(rp.cols)}
}
