// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package transfer

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"pagecraft/internal/document"
	"pagecraft/internal/models"
	"pagecraft/internal/slug"
)

// Bundle is the exchange format of a full site layout: its pages and the
// header and footer shared by all of them.
type Bundle struct {
	Name   string         `json:"name"`
	Pages  []BundlePage   `json:"pages"`
	Header *document.Tree `json:"header,omitempty"`
	Footer *document.Tree `json:"footer,omitempty"`
}

// BundlePage is one page of a bundle.
type BundlePage struct {
	Title      string        `json:"title"`
	Slug       string        `json:"slug"`
	Content    document.Tree `json:"content"`
	IsHomepage bool          `json:"is_homepage"`
}

// Validate checks a page's title and slug. Slugs are compared normalized.
func (p BundlePage) Validate() error {
	s := slug.Normalize(p.Slug)
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Slug,
			validation.By(func(any) error { return validation.Validate(s, validation.Required, validation.Match(slug.Pattern)) }),
		),
	)
}

// Validate checks the bundle metadata: a name, valid pages, unique slugs
// and at most one homepage.
func (b Bundle) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&b.Pages, validation.By(uniquePages)),
	)
}

func uniquePages(value any) error {
	pages, _ := value.([]BundlePage)
	var homepages int
	seen := map[string]bool{}
	for _, p := range pages {
		if p.IsHomepage {
			homepages++
		}
		s := slug.Normalize(p.Slug)
		if s != "" && seen[s] {
			return validation.NewError("transfer.bundle.slug_duplicate", fmt.Sprintf("slug %q is used twice", s))
		}
		seen[s] = true
	}
	if homepages > 1 {
		return validation.NewError("transfer.bundle.homepage_multiple", "at most one page can be the homepage")
	}
	return nil
}

// Site is an imported bundle, ready to be stored.
type Site struct {
	Name   string
	Pages  []models.Page
	Header *models.Template
	Footer *models.Template
}

// ImportBundle decodes and validates a bundle. Pages come back as drafts
// and the header and footer as inactive templates applying to every page;
// every tree has fresh ids.
func ImportBundle(data []byte, gen document.IDFunc) (*Site, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse bundle: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	site := &Site{Name: b.Name, Pages: make([]models.Page, 0, len(b.Pages))}
	for _, p := range b.Pages {
		site.Pages = append(site.Pages, models.Page{
			Slug:       slug.Normalize(p.Slug),
			Title:      p.Title,
			Status:     models.PageStatusDraft,
			IsHomepage: p.IsHomepage,
			Content:    copyTree(p.Content, gen),
		})
	}
	site.Header = bundleTemplate(b.Header, models.TemplateTypeHeader, b.Name+" header", gen)
	site.Footer = bundleTemplate(b.Footer, models.TemplateTypeFooter, b.Name+" footer", gen)
	return site, nil
}

func bundleTemplate(tree *document.Tree, typ models.TemplateType, name string, gen document.IDFunc) *models.Template {
	if tree == nil {
		return nil
	}
	return &models.Template{
		Type:       typ,
		Name:       name,
		Content:    copyTree(*tree, gen),
		Conditions: &models.Conditions{Mode: models.ConditionAll},
	}
}

// ExportBundle encodes pages and the optional header and footer as a
// bundle. A nil header or footer is omitted.
func ExportBundle(name string, pages []models.Page, header, footer *models.Template) ([]byte, error) {
	b := Bundle{Name: name, Pages: make([]BundlePage, 0, len(pages))}
	for _, p := range pages {
		b.Pages = append(b.Pages, BundlePage{
			Title:      p.Title,
			Slug:       p.Slug,
			Content:    p.Content,
			IsHomepage: p.IsHomepage,
		})
	}
	if header != nil {
		b.Header = &header.Content
	}
	if footer != nil {
		b.Footer = &footer.Content
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export bundle: %w", err)
	}
	return data, nil
}
