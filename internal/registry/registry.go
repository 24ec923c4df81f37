// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package registry holds the catalog of module types the page builder knows
// how to render and convert. A Registry is built once at startup and is
// immutable afterwards, so concurrent readers need no locking.
package registry

import (
	"fmt"
	"strings"
)

// FieldKind is the data kind of a descriptor field.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldRichText FieldKind = "richtext"
	FieldURL      FieldKind = "url"
	FieldColor    FieldKind = "color"
	FieldNumber   FieldKind = "number"
	FieldEnum     FieldKind = "enum"
	FieldList     FieldKind = "list"
)

func (k FieldKind) valid() bool {
	switch k {
	case FieldText, FieldRichText, FieldURL, FieldColor, FieldNumber, FieldEnum, FieldList:
		return true
	}
	return false
}

// Group names the three field groups of a module.
type Group string

const (
	GroupContent  Group = "content"
	GroupDesign   Group = "design"
	GroupAdvanced Group = "advanced"
)

// Field describes one key of a module's content, design or advanced map.
type Field struct {
	Key     string    `json:"key" yaml:"key"`
	Label   string    `json:"label" yaml:"label"`
	Kind    FieldKind `json:"kind" yaml:"kind"`
	Default any       `json:"default,omitempty" yaml:"default"`
	Options []string  `json:"options,omitempty" yaml:"options"`
	// CSS is the property a design field is emitted as, e.g. "background-color".
	CSS string `json:"css,omitempty" yaml:"css"`
}

// Descriptor describes a module type.
type Descriptor struct {
	Type     string `json:"type" yaml:"type"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	// Base names the built-in kind a plugin type renders as. Empty for
	// built-in types, whose Type is their kind.
	Base Kind `json:"base,omitempty" yaml:"base"`
	// Container types own child modules; ChildType restricts their kind.
	Container bool     `json:"container" yaml:"container"`
	ChildType string   `json:"child_type,omitempty" yaml:"child_type"`
	Tags      []string `json:"tags,omitempty" yaml:"tags"`
	Content   []Field  `json:"content" yaml:"content"`
	Design    []Field  `json:"design" yaml:"design"`
	Advanced  []Field  `json:"advanced" yaml:"advanced"`
}

// Kind returns the rendering kind of the descriptor.
func (d Descriptor) Kind() Kind {
	if d.Base != "" {
		return d.Base
	}
	return KindOf(d.Type)
}

// Fields returns the fields of a group.
func (d Descriptor) Fields(g Group) []Field {
	switch g {
	case GroupContent:
		return d.Content
	case GroupDesign:
		return d.Design
	case GroupAdvanced:
		return d.Advanced
	}
	return nil
}

// Field looks up a field by key inside a group.
func (d Descriptor) Field(g Group, key string) (Field, bool) {
	for _, f := range d.Fields(g) {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Default returns the declared default of a field, or nil.
func (d Descriptor) Default(g Group, key string) any {
	f, ok := d.Field(g, key)
	if !ok {
		return nil
	}
	return f.Default
}

// Registry is an immutable catalog of descriptors.
type Registry struct {
	order  []string
	byType map[string]Descriptor
	byTag  map[string][]string
}

// New builds a registry from descriptors. The shared design vocabulary and
// advanced fields are appended to every descriptor. Registration order is
// preserved by List.
func New(defs ...Descriptor) (*Registry, error) {
	r := &Registry{
		byType: make(map[string]Descriptor, len(defs)),
		byTag:  make(map[string][]string),
	}
	for _, d := range defs {
		d.Type = strings.TrimSpace(d.Type)
		if d.Type == "" {
			return nil, fmt.Errorf("registry: descriptor %q has no type", d.Name)
		}
		if _, dup := r.byType[d.Type]; dup {
			return nil, fmt.Errorf("registry: duplicate module type %q", d.Type)
		}
		if !d.Kind().Known() {
			return nil, fmt.Errorf("registry: module type %q has no renderable base kind", d.Type)
		}
		if d.Name == "" {
			d.Name = d.Type
		}
		for _, g := range []Group{GroupContent, GroupDesign, GroupAdvanced} {
			for _, f := range d.Fields(g) {
				if f.Key == "" {
					return nil, fmt.Errorf("registry: %s field without key in %q", g, d.Type)
				}
				if !f.Kind.valid() {
					return nil, fmt.Errorf("registry: field %q of %q has invalid kind %q", f.Key, d.Type, f.Kind)
				}
			}
		}
		d.Design = mergeFields(d.Design, DesignFields())
		d.Advanced = mergeFields(d.Advanced, AdvancedFields())
		d.Tags = normalizeTags(d.Tags)

		r.byType[d.Type] = d
		r.order = append(r.order, d.Type)
		for _, tag := range d.Tags {
			r.byTag[tag] = append(r.byTag[tag], d.Type)
		}
	}
	return r, nil
}

// MustNew is New for static definitions; it panics on error.
func MustNew(defs ...Descriptor) *Registry {
	r, err := New(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns a registry holding the built-in module catalog.
func Default() *Registry {
	return MustNew(Builtins()...)
}

// List returns all descriptors in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.byType[t])
	}
	return out
}

// Descriptor returns the descriptor of a module type.
func (r *Registry) Descriptor(typ string) (Descriptor, bool) {
	if r == nil {
		return Descriptor{}, false
	}
	d, ok := r.byType[typ]
	return d, ok
}

// Exists reports whether typ is registered.
func (r *Registry) Exists(typ string) bool {
	_, ok := r.Descriptor(typ)
	return ok
}

// ForTag returns the module types that claim an HTML tag, in registration
// order.
func (r *Registry) ForTag(tag string) []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.byTag[strings.ToLower(tag)]...)
}

// mergeFields appends shared fields whose keys the descriptor does not
// already declare.
func mergeFields(own, shared []Field) []Field {
	out := make([]Field, 0, len(own)+len(shared))
	out = append(out, own...)
	have := make(map[string]bool, len(own))
	for _, f := range own {
		have[f.Key] = true
	}
	for _, f := range shared {
		if !have[f.Key] {
			out = append(out, f)
		}
	}
	return out
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
