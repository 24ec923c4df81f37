// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package document

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Visitor holds optional per-kind callbacks for Map. Callbacks receive a
// node whose children have already been transformed (bottom-up) and whose
// maps are private copies, so they may modify it freely. Returning false
// from Module drops the module and its subtree.
type Visitor struct {
	Section func(Section) Section
	Row     func(Row) Row
	Column  func(Column) Column
	Module  func(Module) (Module, bool)
}

// Map returns a new tree built by applying v bottom-up to every node. The
// input tree is never modified.
func Map(t Tree, v Visitor) Tree {
	out := Tree{}
	if t.Sections != nil {
		out.Sections = make([]Section, 0, len(t.Sections))
	}
	for _, s := range t.Sections {
		out.Sections = append(out.Sections, mapSection(s, v))
	}
	return out
}

func mapSection(s Section, v Visitor) Section {
	ns := Section{ID: s.ID, Design: s.Design.Clone()}
	if s.Rows != nil {
		ns.Rows = make([]Row, 0, len(s.Rows))
	}
	for _, r := range s.Rows {
		ns.Rows = append(ns.Rows, mapRow(r, v))
	}
	if v.Section != nil {
		ns = v.Section(ns)
	}
	return ns
}

func mapRow(r Row, v Visitor) Row {
	nr := Row{ID: r.ID, Design: r.Design.Clone()}
	if r.Columns != nil {
		nr.Columns = make([]Column, 0, len(r.Columns))
	}
	for _, c := range r.Columns {
		nr.Columns = append(nr.Columns, mapColumn(c, v))
	}
	if v.Row != nil {
		nr = v.Row(nr)
	}
	return nr
}

func mapColumn(c Column, v Visitor) Column {
	nc := Column{ID: c.ID, Width: c.Width, Design: c.Design.Clone()}
	nc.Modules = mapModules(c.Modules, v)
	if v.Column != nil {
		nc = v.Column(nc)
	}
	return nc
}

func mapModules(ms []Module, v Visitor) []Module {
	if ms == nil {
		return nil
	}
	out := make([]Module, 0, len(ms))
	for _, m := range ms {
		nm := Module{
			ID:       m.ID,
			Type:     m.Type,
			Content:  m.Content.Clone(),
			Design:   m.Design.Clone(),
			Advanced: m.Advanced.Clone(),
		}
		nm.Children = mapModules(m.Children, v)
		if v.Module != nil {
			var keep bool
			if nm, keep = v.Module(nm); !keep {
				continue
			}
		}
		out = append(out, nm)
	}
	return out
}

// Walk visits every node in document order (pre-order). depth is 0 for
// sections and grows by one per level; module children continue counting.
// Returning false from fn skips the node's subtree.
func Walk(t Tree, fn func(n Node, depth int) bool) {
	for _, s := range t.Sections {
		if !fn(s, 0) {
			continue
		}
		for _, r := range s.Rows {
			if !fn(r, 1) {
				continue
			}
			for _, c := range r.Columns {
				if !fn(c, 2) {
					continue
				}
				walkModules(c.Modules, 3, fn)
			}
		}
	}
}

func walkModules(ms []Module, depth int, fn func(Node, int) bool) {
	for _, m := range ms {
		if fn(m, depth) {
			walkModules(m.Children, depth+1, fn)
		}
	}
}

// IDFunc produces a fresh node identifier.
type IDFunc func() string

// NewID returns a random identifier.
func NewID() string {
	return uuid.NewString()
}

// SequentialIDs returns a deterministic generator: the same seed always
// yields the same sequence, distinct seeds yield disjoint sequences. The
// returned function is not safe for concurrent use.
func SequentialIDs(seed string) IDFunc {
	ns := uuid.NewSHA1(uuid.NameSpaceOID, []byte("pagecraft:"+seed))
	var n int
	return func() string {
		n++
		return uuid.NewSHA1(ns, []byte(strconv.Itoa(n))).String()
	}
}

func orNewID(gen IDFunc) IDFunc {
	if gen == nil {
		return NewID
	}
	return gen
}

// RegenerateIDs assigns a fresh identifier to every node of the tree.
func RegenerateIDs(t Tree, gen IDFunc) Tree {
	return Map(t, regenerateVisitor(orNewID(gen)))
}

func regenerateVisitor(gen IDFunc) Visitor {
	return Visitor{
		Section: func(s Section) Section { s.ID = gen(); return s },
		Row:     func(r Row) Row { r.ID = gen(); return r },
		Column:  func(c Column) Column { c.ID = gen(); return c },
		Module:  func(m Module) (Module, bool) { m.ID = gen(); return m, true },
	}
}

// CloneModule copies a module giving it and its children new ids.
func CloneModule(m Module, gen IDFunc) Module {
	return mapModules([]Module{m}, regenerateVisitor(orNewID(gen)))[0]
}

// DuplicateIDs lists identifiers that occur more than once, in the order
// their second occurrence is met.
func DuplicateIDs(t Tree) []string {
	seen := map[string]int{}
	var dups []string
	Walk(t, func(n Node, _ int) bool {
		id := n.NodeID()
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
		return true
	})
	return dups
}

// RepairIDs makes identifiers unique. Whenever a node repeats an id already
// used earlier in the tree (typically a pasted copy), the node and its
// entire subtree receive fresh ids. Empty ids are filled as well.
func RepairIDs(t Tree, gen IDFunc) Tree {
	gen = orNewID(gen)
	seen := map[string]bool{}
	claim := func(id string) bool {
		if id == "" || seen[id] {
			return false
		}
		seen[id] = true
		return true
	}
	// Map is bottom-up, so descendants are claimed before their parent. A
	// duplicated parent regenerates its whole subtree; the stale child ids
	// stay claimed, which only makes later collisions more conservative.
	return Map(t, Visitor{
		Section: func(s Section) Section {
			if claim(s.ID) {
				return s
			}
			return mapSection(s, regenerateVisitor(gen))
		},
		Row: func(r Row) Row {
			if claim(r.ID) {
				return r
			}
			return mapRow(r, regenerateVisitor(gen))
		},
		Column: func(c Column) Column {
			if claim(c.ID) {
				return c
			}
			return mapColumn(c, regenerateVisitor(gen))
		},
		Module: func(m Module) (Module, bool) {
			if claim(m.ID) {
				return m, true
			}
			return CloneModule(m, gen), true
		},
	})
}

// FillImages sets content.src on image modules whose src is empty, using
// the value returned by src. An empty return leaves the module untouched.
func FillImages(t Tree, src func(Module) string) Tree {
	return Map(t, Visitor{
		Module: func(m Module) (Module, bool) {
			if m.Type != "image" {
				return m, true
			}
			if cur, _ := m.Content.String("src"); strings.TrimSpace(cur) != "" {
				return m, true
			}
			if v := src(m); v != "" {
				if m.Content == nil {
					m.Content = Props{}
				}
				m.Content["src"] = v
			}
			return m, true
		},
	})
}

// Normalize prepares a tree read from an untrusted source: modules with a
// blank type are dropped, missing ids are generated and nil maps become
// empty maps. Modules of types unknown to the registry are kept.
func Normalize(t Tree, gen IDFunc) Tree {
	gen = orNewID(gen)
	ensure := func(id string) string {
		if strings.TrimSpace(id) == "" {
			return gen()
		}
		return id
	}
	return Map(t, Visitor{
		Section: func(s Section) Section {
			s.ID = ensure(s.ID)
			if s.Design == nil {
				s.Design = Props{}
			}
			return s
		},
		Row: func(r Row) Row {
			r.ID = ensure(r.ID)
			if r.Design == nil {
				r.Design = Props{}
			}
			return r
		},
		Column: func(c Column) Column {
			c.ID = ensure(c.ID)
			if c.Design == nil {
				c.Design = Props{}
			}
			return c
		},
		Module: func(m Module) (Module, bool) {
			m.Type = strings.TrimSpace(m.Type)
			if m.Type == "" {
				return m, false
			}
			m.ID = ensure(m.ID)
			if m.Content == nil {
				m.Content = Props{}
			}
			if m.Design == nil {
				m.Design = Props{}
			}
			if m.Advanced == nil {
				m.Advanced = Props{}
			}
			return m, true
		},
	})
}
