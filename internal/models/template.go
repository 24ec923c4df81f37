// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"pagecraft/internal/document"
)

// TemplateType categorizes templates by the part of the site they build.
type TemplateType string

const (
	TemplateTypeHeader   TemplateType = "header"
	TemplateTypeFooter   TemplateType = "footer"
	TemplateTypeArchive  TemplateType = "archive"
	TemplateTypeSingle   TemplateType = "single"
	TemplateTypeSidebar  TemplateType = "sidebar"
	TemplateTypeNotFound TemplateType = "404"
)

// TemplateTypes lists every template type.
func TemplateTypes() []TemplateType {
	return []TemplateType{
		TemplateTypeHeader, TemplateTypeFooter, TemplateTypeArchive,
		TemplateTypeSingle, TemplateTypeSidebar, TemplateTypeNotFound,
	}
}

// Valid reports whether t is a known template type.
func (t TemplateType) Valid() bool {
	for _, v := range TemplateTypes() {
		if t == v {
			return true
		}
	}
	return false
}

// ConditionMode selects how a template's display conditions are read.
type ConditionMode string

const (
	// ConditionAll applies the template to every page.
	ConditionAll ConditionMode = "all"
	// ConditionSpecific applies the template only to the listed pages.
	ConditionSpecific ConditionMode = "specific"
)

// Conditions restrict which pages a template applies to. A nil Conditions
// behaves like ConditionAll.
type Conditions struct {
	Mode  ConditionMode `json:"mode"`
	Pages []string      `json:"pages,omitempty"`
}

// Template is a reusable tree (header, footer, ...) shown on the pages its
// conditions select. When several templates match, the highest Priority
// wins.
type Template struct {
	ID          uuid.UUID     `json:"id"`
	Type        TemplateType  `json:"type"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Content     document.Tree `json:"content"`
	Conditions  *Conditions   `json:"conditions,omitempty"`
	Priority    int           `json:"priority"`
	IsActive    bool          `json:"is_active"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
