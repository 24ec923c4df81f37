// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"pagecraft/internal/document"
)

// PageStatus represents the publication state of a page.
type PageStatus string

const (
	PageStatusDraft     PageStatus = "draft"
	PageStatusPublished PageStatus = "published"
)

// Page is a builder page. Content holds its layout tree; header and footer
// come from templates at render time.
type Page struct {
	ID         uuid.UUID     `json:"id"`
	Slug       string        `json:"slug"`
	Title      string        `json:"title"`
	Status     PageStatus    `json:"status"`
	IsHomepage bool          `json:"is_homepage"`
	Content    document.Tree `json:"content"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// IsPublished returns true if the page is publicly visible.
func (p *Page) IsPublished() bool {
	return p.Status == PageStatusPublished
}
