// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"pagecraft/internal/converter"
	"pagecraft/internal/models"
)

const seedHeaderHTML = `<header class="site-header" style="background:#111;color:#fff;padding:16px 24px">
  <div style="display:flex;align-items:center">
    <div style="width:30%"><h1 style="font-size:24px">PageCraft</h1></div>
    <nav><a href="/">Home</a> <a href="/about">About</a></nav>
  </div>
</header>`

const seedFooterHTML = `<footer style="background:#f4f4f5;padding:24px">
  <p style="text-align:center">Built with PageCraft.</p>
</footer>`

const seedHomeHTML = `<section style="padding:64px 24px">
  <h2>Welcome</h2>
  <p>This page was converted from HTML into a layout tree.</p>
  <a class="btn" href="/about">Learn more</a>
</section>`

// Seed populates the database with development data: a header and footer
// template active on every page and a published homepage. Each is built by
// converting a small HTML snippet. Seed does nothing once templates exist.
func Seed(db *sql.DB, conv *converter.Converter) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM templates").Scan(&count); err != nil {
		return fmt.Errorf("seed check templates: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	all, err := json.Marshal(models.Conditions{Mode: models.ConditionAll})
	if err != nil {
		return fmt.Errorf("seed encode conditions: %w", err)
	}
	templates := []struct {
		typ  models.TemplateType
		name string
		html string
	}{
		{models.TemplateTypeHeader, "Default header", seedHeaderHTML},
		{models.TemplateTypeFooter, "Default footer", seedFooterHTML},
	}
	for _, t := range templates {
		content, err := json.Marshal(conv.Convert(t.html))
		if err != nil {
			return fmt.Errorf("seed encode %s: %w", t.typ, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO templates (type, name, content, conditions, is_active)
			VALUES ($1, $2, $3, $4, TRUE)
		`, t.typ, t.name, string(content), string(all)); err != nil {
			return fmt.Errorf("seed insert %s: %w", t.typ, err)
		}
	}

	home, err := json.Marshal(conv.Convert(seedHomeHTML))
	if err != nil {
		return fmt.Errorf("seed encode homepage: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO pages (slug, title, status, is_homepage, content)
		VALUES ('home', 'Home', $1, TRUE, $2)
		ON CONFLICT (slug) DO NOTHING
	`, models.PageStatusPublished, string(home)); err != nil {
		return fmt.Errorf("seed insert homepage: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}
	slog.Info("database seeded with default templates and homepage")
	return nil
}
