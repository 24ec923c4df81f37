// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package registry

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// definitionFile is the YAML layout of a plugin descriptor file:
//
//	modules:
//	  - type: pricing_table
//	    name: Pricing table
//	    base: html
//	    content:
//	      - {key: html, label: HTML, kind: richtext}
type definitionFile struct {
	Modules []Descriptor `yaml:"modules"`
}

// LoadDefinitions reads plugin module descriptors from YAML. An empty
// document yields no descriptors.
func LoadDefinitions(r io.Reader) ([]Descriptor, error) {
	var f definitionFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode module definitions: %w", err)
	}
	for i, d := range f.Modules {
		if d.Type == "" {
			return nil, fmt.Errorf("module definition %d: missing type", i)
		}
		if d.Base != "" && !d.Base.Known() {
			return nil, fmt.Errorf("module definition %q: unknown base %q", d.Type, d.Base)
		}
	}
	return f.Modules, nil
}

// Load builds the process registry: the built-in catalog plus, when path is
// non-empty, the plugin descriptors defined in that YAML file.
func Load(path string) (*Registry, error) {
	defs := Builtins()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open module definitions: %w", err)
		}
		defer f.Close()
		extra, err := LoadDefinitions(f)
		if err != nil {
			return nil, err
		}
		defs = append(defs, extra...)
	}
	return New(defs...)
}
