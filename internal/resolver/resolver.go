// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package resolver decides which template of a given type applies to a
// page. Candidates are filtered by their display conditions and the
// highest priority wins; ties go to the most recently updated template and
// then to the lowest id, so the choice never depends on storage order.
package resolver

import (
	"context"
	"fmt"

	"pagecraft/internal/models"
	"pagecraft/internal/slug"
)

// Source lists the active templates of a type.
type Source interface {
	ListActiveByType(ctx context.Context, typ models.TemplateType) ([]models.Template, error)
}

// Matches reports whether t applies to the page at slug.
func Matches(t models.Template, typ models.TemplateType, pageSlug string) bool {
	if !t.IsActive || t.Type != typ {
		return false
	}
	if t.Conditions == nil || t.Conditions.Mode != models.ConditionSpecific {
		return true
	}
	want := slug.Normalize(pageSlug)
	for _, p := range t.Conditions.Pages {
		if slug.Normalize(p) == want {
			return true
		}
	}
	return false
}

// better reports whether a should be chosen over b.
func better(a, b models.Template) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.ID.String() < b.ID.String()
}

// Select returns the template of type typ that applies to pageSlug, or
// false when none matches. It does not modify candidates.
func Select(candidates []models.Template, typ models.TemplateType, pageSlug string) (*models.Template, bool) {
	var best *models.Template
	for i := range candidates {
		c := candidates[i]
		if !Matches(c, typ, pageSlug) {
			continue
		}
		if best == nil || better(c, *best) {
			best = &c
		}
	}
	return best, best != nil
}

// Resolver selects templates from a Source.
type Resolver struct {
	src Source
}

// New creates a Resolver reading candidates from src.
func New(src Source) *Resolver {
	return &Resolver{src: src}
}

// Resolve returns the template of type typ for the page at pageSlug.
// Returns nil if no template applies.
func (r *Resolver) Resolve(ctx context.Context, typ models.TemplateType, pageSlug string) (*models.Template, error) {
	candidates, err := r.src.ListActiveByType(ctx, typ)
	if err != nil {
		return nil, fmt.Errorf("list %s templates: %w", typ, err)
	}
	t, ok := Select(candidates, typ, pageSlug)
	if !ok {
		return nil, nil
	}
	return t, nil
}
