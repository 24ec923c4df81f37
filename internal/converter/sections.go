// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package converter

import (
	"golang.org/x/net/html"

	"pagecraft/internal/document"
	"pagecraft/internal/registry"
)

// Section detection rules, reported in SectionReport.Rule.
const (
	ruleSemantic  = "semantic"
	ruleGap       = "between-semantic"
	ruleBoundary  = "boundary"
	ruleUngrouped = "ungrouped"
	ruleBody      = "body"
)

// sectionPlan is the result of section detection for one section. node
// supplies design and advanced settings and may be nil; content holds the
// nodes the layout stage distributes into rows.
type sectionPlan struct {
	node       *html.Node
	content    []*html.Node
	rule       string
	confidence Confidence
}

// detectSections partitions the body. It always returns at least one plan.
func (r *run) detectSections(doc *html.Node) []sectionPlan {
	body := findBody(doc)
	top := r.unwrapTop(children(body))

	plans := r.semanticSections(top)
	if plans == nil {
		plans = r.boundarySections(top)
	}
	if plans == nil {
		var node *html.Node
		if len(r.styles.design(body)) > 0 {
			node = body
		}
		plans = []sectionPlan{{node: node, content: top, rule: ruleBody, confidence: ConfidenceFallback}}
	}

	if max := r.c.limits.MaxSections; len(plans) > max {
		plans = plans[:max]
		r.truncated = true
	}
	return plans
}

// unwrapTop descends through single wrapper elements around the whole page
// (app roots, page wrappers) and expands <main>.
func (r *run) unwrapTop(nodes []*html.Node) []*html.Node {
	for i := 0; i < 8 && len(nodes) == 1; i++ {
		n := nodes[0]
		if tag(n) != "div" || r.isLayoutRow(n) || r.claimsModule(n) {
			break
		}
		nodes = children(n)
	}
	var out []*html.Node
	for _, n := range nodes {
		if tag(n) == "main" {
			out = append(out, children(n)...)
			continue
		}
		out = append(out, n)
	}
	return out
}

func isSemanticSection(n *html.Node) bool {
	return semanticSectionTags[tag(n)] || hasClass(n, "pc-section")
}

// semanticSections gives every semantic element its own section and groups
// the nodes between them. It returns nil when no semantic element exists.
func (r *run) semanticSections(nodes []*html.Node) []sectionPlan {
	found := false
	for _, n := range nodes {
		if isSemanticSection(n) {
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	var plans []sectionPlan
	var loose []*html.Node
	flush := func() {
		if len(loose) > 0 {
			plans = append(plans, sectionPlan{content: loose, rule: ruleGap, confidence: ConfidenceHeuristic})
			loose = nil
		}
	}
	for _, n := range nodes {
		if !isSemanticSection(n) {
			loose = append(loose, n)
			continue
		}
		flush()
		if tag(n) == "nav" {
			// A top-level nav is a section holding a single menu.
			plans = append(plans, sectionPlan{content: []*html.Node{n}, rule: ruleSemantic, confidence: ConfidenceExact})
			continue
		}
		plans = append(plans, sectionPlan{node: n, content: children(n), rule: ruleSemantic, confidence: ConfidenceExact})
	}
	flush()
	return plans
}

// boundarySections splits at direct body children that stand out by
// background or class. It returns nil when no such boundary exists.
func (r *run) boundarySections(nodes []*html.Node) []sectionPlan {
	if len(nodes) < 2 {
		return nil
	}
	boundary := func(n *html.Node) bool {
		if tag(n) != "div" || r.claimsModule(n) {
			return false
		}
		d := r.styles.design(n)
		_, bg := d[registry.BackgroundColor]
		_, img := d[registry.BackgroundImage]
		return bg || img || len(classList(n)) > 0
	}

	count := 0
	for _, n := range nodes {
		if boundary(n) {
			count++
		}
	}
	if count == 0 {
		return nil
	}

	var plans []sectionPlan
	var loose []*html.Node
	flush := func() {
		if len(loose) > 0 {
			plans = append(plans, sectionPlan{content: loose, rule: ruleUngrouped, confidence: ConfidenceHeuristic})
			loose = nil
		}
	}
	for _, n := range nodes {
		if !boundary(n) {
			loose = append(loose, n)
			continue
		}
		flush()
		plans = append(plans, sectionPlan{node: n, content: children(n), rule: ruleBoundary, confidence: ConfidenceHeuristic})
	}
	flush()
	return plans
}

// buildSection runs layout analysis and element mapping for one plan.
func (r *run) buildSection(p sectionPlan) (document.Section, SectionReport) {
	sec := document.Section{ID: r.ids(), Design: document.Props{}}
	if p.node != nil {
		sec.Design = r.styles.design(p.node)
	}
	rep := SectionReport{Rule: p.rule, Confidence: p.confidence}

	for _, rp := range r.analyzeLayout(p) {
		if r.rows >= r.c.limits.MaxRows {
			r.truncated = true
			break
		}
		r.rows++
		row, rr := r.buildRow(rp)
		sec.Rows = append(sec.Rows, row)
		rep.Rows = append(rep.Rows, rr)
	}
	if len(sec.Rows) == 0 {
		sec.Rows = []document.Row{r.emptyRow()}
		rep.Rows = append(rep.Rows, RowReport{Rule: ruleStack, Confidence: ConfidenceFallback, Columns: 1})
	}
	return sec, rep
}

func (r *run) emptyRow() document.Row {
	return document.Row{
		ID:      r.ids(),
		Design:  document.Props{},
		Columns: []document.Column{{ID: r.ids(), Width: "100%", Design: document.Props{}, Modules: []document.Module{}}},
	}
}
