// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package document defines the page content tree shared by the renderer,
// the HTML converter and the persistence layer. A tree is strictly nested
// Section > Row > Column > Module; modules of composite types (tabs,
// accordions, galleries) may own child modules.
package document

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind identifies which layer of the tree a node belongs to.
type Kind string

const (
	KindSection Kind = "section"
	KindRow     Kind = "row"
	KindColumn  Kind = "column"
	KindModule  Kind = "module"
)

// Node is implemented by every tree node. It lets generic code (lookups,
// duplicate checks, diagnostics) treat the four node kinds uniformly.
type Node interface {
	NodeID() string
	Kind() Kind
}

// Tree is the root of a page or template content tree.
type Tree struct {
	Sections []Section `json:"sections"`
}

// Section is the outermost layout container.
type Section struct {
	ID     string `json:"id"`
	Design Props  `json:"design"`
	Rows   []Row  `json:"rows"`
}

// Row holds the columns of a section.
type Row struct {
	ID      string   `json:"id"`
	Design  Props    `json:"design"`
	Columns []Column `json:"columns"`
}

// Column holds modules. Width is an advisory percentage such as "50%";
// widths inside a row are not required to add up to 100.
type Column struct {
	ID      string   `json:"id"`
	Width   string   `json:"width,omitempty"`
	Design  Props    `json:"design"`
	Modules []Module `json:"modules"`
}

// Module is a content unit. Type is a key into the module registry.
type Module struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Content  Props    `json:"content"`
	Design   Props    `json:"design"`
	Advanced Props    `json:"advanced"`
	Children []Module `json:"children,omitempty"`
}

func (s Section) NodeID() string { return s.ID }
func (s Section) Kind() Kind     { return KindSection }
func (r Row) NodeID() string     { return r.ID }
func (r Row) Kind() Kind         { return KindRow }
func (c Column) NodeID() string  { return c.ID }
func (c Column) Kind() Kind      { return KindColumn }
func (m Module) NodeID() string  { return m.ID }
func (m Module) Kind() Kind      { return KindModule }

// MarshalJSON keeps "sections" an array even for a nil tree.
func (t Tree) MarshalJSON() ([]byte, error) {
	type plain Tree
	p := plain(t)
	if p.Sections == nil {
		p.Sections = []Section{}
	}
	return json.Marshal(p)
}

func (s Section) MarshalJSON() ([]byte, error) {
	type plain Section
	p := plain(s)
	if p.Rows == nil {
		p.Rows = []Row{}
	}
	return json.Marshal(p)
}

func (r Row) MarshalJSON() ([]byte, error) {
	type plain Row
	p := plain(r)
	if p.Columns == nil {
		p.Columns = []Column{}
	}
	return json.Marshal(p)
}

func (c Column) MarshalJSON() ([]byte, error) {
	type plain Column
	p := plain(c)
	if p.Modules == nil {
		p.Modules = []Module{}
	}
	return json.Marshal(p)
}

// Concat joins trees in order, e.g. header + page + footer. Sections are
// deep-copied so the result never aliases its inputs.
func Concat(trees ...Tree) Tree {
	var n int
	for _, t := range trees {
		n += len(t.Sections)
	}
	out := Tree{Sections: make([]Section, 0, n)}
	for _, t := range trees {
		for _, s := range t.Sections {
			out.Sections = append(out.Sections, s.Clone())
		}
	}
	return out
}

// Clone returns a deep copy of the tree.
func (t Tree) Clone() Tree {
	return Map(t, Visitor{})
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	return mapSection(s, Visitor{})
}

// Clone returns a deep copy of the module and its children.
func (m Module) Clone() Module {
	out := mapModules([]Module{m}, Visitor{})
	return out[0]
}

// Modules returns every module of the tree in document order, children
// following their parent.
func (t Tree) Modules() []Module {
	var out []Module
	Walk(t, func(n Node, _ int) bool {
		if m, ok := n.(Module); ok {
			out = append(out, m)
		}
		return true
	})
	return out
}

// IsEmpty reports whether the tree holds no modules at all.
func (t Tree) IsEmpty() bool {
	for _, s := range t.Sections {
		for _, r := range s.Rows {
			for _, c := range r.Columns {
				if len(c.Modules) > 0 {
					return false
				}
			}
		}
	}
	return true
}

// ParseWidth reads an advisory column width such as "33.33%" or "50".
// Values outside (0, 100] are reported as not ok.
func ParseWidth(width string) (float64, bool) {
	w := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(width), "%"))
	if w == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(w, 64)
	if err != nil || f <= 0 || f > 100 {
		return 0, false
	}
	return f, true
}

// FormatWidth renders a percentage with at most two decimals, e.g. "33.33%".
func FormatWidth(pct float64) string {
	if pct <= 0 {
		return ""
	}
	if pct > 100 {
		pct = 100
	}
	rounded := float64(int64(pct*100+0.5)) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + "%"
}
