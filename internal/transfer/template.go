// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package transfer

import (
	"encoding/json"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"pagecraft/internal/document"
	"pagecraft/internal/models"
	"pagecraft/internal/slug"
)

// ErrInvalid wraps every metadata validation failure of an import.
var ErrInvalid = errors.New("invalid import")

// TemplateFile is the exchange format of a single template.
type TemplateFile struct {
	Name        string              `json:"name"`
	Type        models.TemplateType `json:"type"`
	Description string              `json:"description"`
	Conditions  *models.Conditions  `json:"conditions"`
	Priority    int                 `json:"priority"`
	Content     document.Tree       `json:"content"`
}

// Validate checks the metadata of the file. The tree itself is not
// validated; use ValidateTree on the raw JSON for that.
func (f TemplateFile) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.Type, validation.Required, validation.By(templateType)),
		validation.Field(&f.Conditions, validation.By(conditions)),
	)
}

func templateType(value any) error {
	t, _ := value.(models.TemplateType)
	if !t.Valid() {
		return validation.NewError("transfer.template.type_invalid", "must be one of header, footer, archive, single, sidebar, 404")
	}
	return nil
}

func conditions(value any) error {
	c, _ := value.(*models.Conditions)
	if c == nil {
		return nil
	}
	switch c.Mode {
	case models.ConditionAll:
		return nil
	case models.ConditionSpecific:
		for _, p := range c.Pages {
			if slug.Normalize(p) != "" {
				return nil
			}
		}
		return validation.NewError("transfer.template.pages_required", "specific conditions need at least one page")
	default:
		return validation.NewError("transfer.template.mode_invalid", "mode must be all or specific")
	}
}

// normalizeConditions copies c with page slugs normalized, blanks dropped
// and duplicates removed.
func normalizeConditions(c *models.Conditions) *models.Conditions {
	if c == nil {
		return nil
	}
	out := &models.Conditions{Mode: c.Mode}
	seen := map[string]bool{}
	for _, p := range c.Pages {
		p = slug.Normalize(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out.Pages = append(out.Pages, p)
	}
	return out
}

// ImportTemplate decodes and validates a template file and returns it as
// an inactive template whose tree has fresh ids.
func ImportTemplate(data []byte, gen document.IDFunc) (*models.Template, error) {
	var f TemplateFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse template file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return &models.Template{
		Type:        f.Type,
		Name:        f.Name,
		Description: f.Description,
		Content:     copyTree(f.Content, gen),
		Conditions:  normalizeConditions(f.Conditions),
		Priority:    f.Priority,
	}, nil
}

// ExportTemplate encodes t as a template file.
func ExportTemplate(t models.Template) ([]byte, error) {
	data, err := json.MarshalIndent(TemplateFile{
		Name:        t.Name,
		Type:        t.Type,
		Description: t.Description,
		Conditions:  t.Conditions,
		Priority:    t.Priority,
		Content:     t.Content,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export template: %w", err)
	}
	return data, nil
}
