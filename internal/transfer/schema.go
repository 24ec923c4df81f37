// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package transfer

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/tree.schema.json
var treeSchemaJSON []byte

const treeSchemaURL = "tree.schema.json"

var (
	treeSchemaOnce sync.Once
	treeSchema     *jsonschema.Schema
	treeSchemaErr  error
)

// Issue is a single schema violation.
type Issue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

func (i Issue) String() string {
	loc := i.Location
	if loc == "" {
		loc = "#"
	} else if !strings.HasPrefix(loc, "#") {
		loc = "#" + loc
	}
	return loc + ": " + i.Message
}

func compiledTreeSchema() (*jsonschema.Schema, error) {
	treeSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(treeSchemaURL, bytes.NewReader(treeSchemaJSON)); err != nil {
			treeSchemaErr = fmt.Errorf("add tree schema: %w", err)
			return
		}
		treeSchema, treeSchemaErr = compiler.Compile(treeSchemaURL)
	})
	return treeSchema, treeSchemaErr
}

// ValidateTree checks raw JSON against the content tree schema. It returns
// the violations found, sorted by location; an error is returned only when
// data is not JSON.
func ValidateTree(data []byte) ([]Issue, error) {
	schema, err := compiledTreeSchema()
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, fmt.Errorf("validate tree: %w", err)
	}
	issues := collectIssues(verr)
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Location < issues[j].Location })
	return issues, nil
}

// collectIssues flattens the leaves of a validation error tree.
func collectIssues(err *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
