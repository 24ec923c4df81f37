// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug generates URL-friendly slugs and normalizes the page paths
// that template conditions and routes compare.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// Pattern accepts normalized page paths, optionally nested with "/".
	Pattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_/][a-z0-9]+)*$`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// Normalize canonicalizes a page path for comparison: surrounding spaces
// and slashes are removed and letters lower-cased. The homepage ("/")
// normalizes to "".
// Example: " /About-Us/ " → "about-us"
func Normalize(path string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(path)), "/")
}

// Valid reports whether path is a well-formed page path once normalized.
// The homepage path is not valid as a page slug.
func Valid(path string) bool {
	return Pattern.MatchString(Normalize(path))
}
