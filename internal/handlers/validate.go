// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"pagecraft/internal/models"
	"pagecraft/internal/renderer"
	"pagecraft/internal/slug"
)

// Validation limits for page fields.
const (
	maxTitleLen  = 300
	maxSlugLen   = 300
	maxAuthorLen = 100
)

// validatePage checks page inputs and returns the first error found.
func validatePage(title, pageSlug string, status models.PageStatus) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "title is required"
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "title is too long (max 300 characters)"
	}
	if utf8.RuneCountInString(pageSlug) > maxSlugLen {
		return "slug is too long (max 300 characters)"
	}
	if !slug.Valid(pageSlug) {
		return "slug must be lowercase letters, digits and single separators"
	}
	if status != models.PageStatusDraft && status != models.PageStatusPublished {
		return "status must be draft or published"
	}
	return ""
}

// parseMode maps a request mode to a render mode. Empty means preview.
func parseMode(s string) (renderer.Mode, bool) {
	switch renderer.Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", renderer.ModePreview:
		return renderer.ModePreview, true
	case renderer.ModePublished:
		return renderer.ModePublished, true
	}
	return "", false
}

// authorOf returns the author to record on a revision, defaulting to "api".
func authorOf(author string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		return "api"
	}
	if utf8.RuneCountInString(author) > maxAuthorLen {
		return string([]rune(author)[:maxAuthorLen])
	}
	return author
}
