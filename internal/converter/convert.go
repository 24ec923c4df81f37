// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package converter rebuilds a document tree from arbitrary HTML, typically
// produced by a language model or pasted from another site. The pipeline has
// four stages, each total:
//
//  1. style extraction: <style> blocks and inline styles become per-element
//     design maps in the registry vocabulary
//  2. section detection: the body is split into sections
//  3. layout analysis: each section is split into rows and columns
//  4. element mapping: elements reaching a column become modules
//
// Conversion never fails. Ambiguous input degrades to a single section with
// a single full-width column, and anything no rule recognizes is kept
// verbatim in an html module.
package converter

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"pagecraft/internal/document"
	"pagecraft/internal/registry"
)

// Confidence records how a structural decision was reached.
type Confidence string

const (
	// ConfidenceExact means an explicit signal decided (semantic tag, CSS
	// layout property, builder markup).
	ConfidenceExact Confidence = "exact"
	// ConfidenceHeuristic means a guess from class names or visual
	// boundaries decided.
	ConfidenceHeuristic Confidence = "heuristic"
	// ConfidenceFallback means no signal was found and the conservative
	// structure was used.
	ConfidenceFallback Confidence = "fallback"
)

func (c Confidence) rank() int {
	switch c {
	case ConfidenceExact:
		return 2
	case ConfidenceHeuristic:
		return 1
	}
	return 0
}

// Limits bound the work done on a single input. Zero fields take the
// default.
type Limits struct {
	MaxInputBytes int
	MaxNodes      int
	MaxSections   int
	MaxRows       int
	MaxColumns    int
	MaxModules    int
}

// DefaultLimits are applied when no limits are configured.
var DefaultLimits = Limits{
	MaxInputBytes: 2 << 20,
	MaxNodes:      20000,
	MaxSections:   200,
	MaxRows:       1000,
	MaxColumns:    12,
	MaxModules:    5000,
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits
	if l.MaxInputBytes > 0 {
		d.MaxInputBytes = l.MaxInputBytes
	}
	if l.MaxNodes > 0 {
		d.MaxNodes = l.MaxNodes
	}
	if l.MaxSections > 0 {
		d.MaxSections = l.MaxSections
	}
	if l.MaxRows > 0 {
		d.MaxRows = l.MaxRows
	}
	if l.MaxColumns > 0 {
		d.MaxColumns = l.MaxColumns
	}
	if l.MaxModules > 0 {
		d.MaxModules = l.MaxModules
	}
	return d
}

// RowReport describes how a row was inferred.
type RowReport struct {
	Rule       string     `json:"rule"`
	Confidence Confidence `json:"confidence"`
	Columns    int        `json:"columns"`
}

// SectionReport describes how a section was detected.
type SectionReport struct {
	Rule       string      `json:"rule"`
	Confidence Confidence  `json:"confidence"`
	Rows       []RowReport `json:"rows"`
}

// Report explains a conversion.
type Report struct {
	Sections []SectionReport `json:"sections"`
	// Nodes is the number of DOM nodes processed.
	Nodes int `json:"nodes"`
	// Modules is the number of modules emitted, children included.
	Modules int `json:"modules"`
	// Verbatim counts html modules created because no rule matched.
	Verbatim int `json:"verbatim"`
	// Truncated is set when a limit stopped the conversion early.
	Truncated bool `json:"truncated"`
}

// Confidence is the weakest confidence of any section or row decision.
func (r Report) Confidence() Confidence {
	worst := ConfidenceExact
	for _, s := range r.Sections {
		if s.Confidence.rank() < worst.rank() {
			worst = s.Confidence
		}
		for _, row := range s.Rows {
			if row.Confidence.rank() < worst.rank() {
				worst = row.Confidence
			}
		}
	}
	return worst
}

// Converter converts HTML into document trees. It holds no per-call state
// and is safe for concurrent use.
type Converter struct {
	reg         *registry.Registry
	limits      Limits
	log         *slog.Logger
	placeholder string
	builtin     map[string]bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithLimits overrides the default work limits.
func WithLimits(l Limits) Option {
	return func(c *Converter) { c.limits = l.withDefaults() }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.log = l }
}

// WithPlaceholderImage fills image modules that have no usable source.
func WithPlaceholderImage(src string) Option {
	return func(c *Converter) { c.placeholder = src }
}

// New creates a converter that maps elements onto the types of reg.
func New(reg *registry.Registry, opts ...Option) *Converter {
	c := &Converter{reg: reg, limits: DefaultLimits, builtin: map[string]bool{}}
	for _, d := range registry.Builtins() {
		c.builtin[d.Type] = true
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}

// Convert converts src into a tree with at least one section.
func (c *Converter) Convert(src string) document.Tree {
	t, _ := c.ConvertReport(src)
	return t
}

// ConvertReport converts src and explains the structural decisions taken.
func (c *Converter) ConvertReport(src string) (document.Tree, Report) {
	run := c.newRun(src)
	var rep Report

	if len(src) > c.limits.MaxInputBytes {
		cut := c.limits.MaxInputBytes
		for cut > 0 && !utf8.RuneStart(src[cut]) {
			cut--
		}
		src = src[:cut]
		rep.Truncated = true
	}

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		// The HTML5 parser recovers from any markup; an error here means the
		// reader failed. Keep the input as text.
		c.log.Warn("html parse failed, keeping input verbatim", "error", err)
		doc = &html.Node{Type: html.DocumentNode}
		doc.AppendChild(&html.Node{Type: html.TextNode, Data: src})
	}

	rep.Nodes, rep.Truncated = pruneNodes(doc, c.limits.MaxNodes, rep.Truncated)
	run.styles = extractStyles(doc)

	plans := run.detectSections(doc)
	tree := document.Tree{Sections: make([]document.Section, 0, len(plans))}
	for _, p := range plans {
		sec, sr := run.buildSection(p)
		tree.Sections = append(tree.Sections, sec)
		rep.Sections = append(rep.Sections, sr)
	}

	if c.placeholder != "" {
		tree = document.FillImages(tree, func(document.Module) string { return c.placeholder })
	}

	rep.Modules = run.modules
	rep.Verbatim = run.verbatim
	rep.Truncated = rep.Truncated || run.truncated
	if rep.Truncated {
		c.log.Info("html conversion truncated", "nodes", rep.Nodes, "modules", rep.Modules)
	}
	return tree, rep
}

// run is the state of one conversion.
type run struct {
	c         *Converter
	ids       document.IDFunc
	styles    *styleIndex
	rows      int
	modules   int
	verbatim  int
	truncated bool
}

func (c *Converter) newRun(src string) *run {
	sum := sha256.Sum256([]byte(src))
	return &run{c: c, ids: document.SequentialIDs(hex.EncodeToString(sum[:8]))}
}

// takeModule reserves room for one module, reporting false once the module
// ceiling is reached.
func (r *run) takeModule() bool {
	if r.modules >= r.c.limits.MaxModules {
		r.truncated = true
		return false
	}
	r.modules++
	return true
}

// pruneNodes detaches every node past the first max nodes in document
// order. It returns the number of nodes kept.
func pruneNodes(doc *html.Node, max int, truncated bool) (int, bool) {
	count := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for ch := n.FirstChild; ch != nil; {
			next := ch.NextSibling
			if count >= max {
				n.RemoveChild(ch)
				truncated = true
			} else {
				count++
				walk(ch)
			}
			ch = next
		}
	}
	walk(doc)
	return count, truncated
}
