// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package transfer reads and writes the JSON interchange formats: content
// trees, single template files and full-site layout bundles. Importing is
// always a copy: every imported tree gets fresh node ids.
package transfer

import (
	"encoding/json"
	"fmt"

	"pagecraft/internal/document"
)

// ParseTree decodes a content tree. Empty arrays in place of maps and
// missing ids are tolerated; missing ids are generated with gen (random
// when nil). Only input that is not a tree-shaped JSON document fails.
func ParseTree(data []byte, gen document.IDFunc) (document.Tree, error) {
	var t document.Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return document.Tree{}, fmt.Errorf("parse tree: %w", err)
	}
	return document.Normalize(t, gen), nil
}

// MarshalTree encodes a tree. Map fields are always written as objects.
func MarshalTree(t document.Tree) ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshal tree: %w", err)
	}
	return data, nil
}

// copyTree normalizes t and gives every node a fresh id.
func copyTree(t document.Tree, gen document.IDFunc) document.Tree {
	return document.RegenerateIDs(document.Normalize(t, gen), gen)
}
