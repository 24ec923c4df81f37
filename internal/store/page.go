// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"pagecraft/internal/models"
)

// pageColumns lists all columns for pages SELECTs.
const pageColumns = `id, slug, title, status, is_homepage, content, created_at, updated_at`

// PageStore handles all page-related database operations.
type PageStore struct {
	db *sql.DB
}

// NewPageStore creates a new PageStore with the given database connection.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

func scanPage(s scanner) (*models.Page, error) {
	var (
		p       models.Page
		content []byte
	)
	if err := s.Scan(&p.ID, &p.Slug, &p.Title, &p.Status, &p.IsHomepage, &content, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	tree, err := decodeTree(content)
	if err != nil {
		return nil, err
	}
	p.Content = tree
	return &p, nil
}

func (s *PageStore) findOne(ctx context.Context, op, where string, args ...any) (*models.Page, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE `+where, args...)
	p, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// FindByID retrieves a page by its UUID. Returns nil if not found.
func (s *PageStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	return s.findOne(ctx, "find page by id", "id = $1", id)
}

// FindBySlug retrieves a published page by its slug. Returns nil if not
// found or not published.
func (s *PageStore) FindBySlug(ctx context.Context, slug string) (*models.Page, error) {
	return s.findOne(ctx, "find page by slug", "slug = $1 AND status = $2", slug, models.PageStatusPublished)
}

// FindHomepage retrieves the published homepage. Returns nil if none is set.
func (s *PageStore) FindHomepage(ctx context.Context) (*models.Page, error) {
	return s.findOne(ctx, "find homepage", "is_homepage AND status = $1", models.PageStatusPublished)
}

// List returns all pages ordered by slug.
func (s *PageStore) List(ctx context.Context) ([]models.Page, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+pageColumns+` FROM pages ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, *p)
	}
	return pages, rows.Err()
}

// Create inserts a new page together with its first revision. ID and
// timestamps are filled in on p.
func (s *PageStore) Create(ctx context.Context, p *models.Page, author string) (*models.Revision, error) {
	content, err := encodeTree(p.Content)
	if err != nil {
		return nil, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO pages (slug, title, status, is_homepage, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, p.Slug, p.Title, p.Status, p.IsHomepage, content).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", mapErr(err))
	}

	rev := &models.Revision{
		PageID:  p.ID,
		Subject: models.RevisionSubjectPage,
		Kind:    models.RevisionKindSave,
		Content: p.Content,
		Author:  author,
	}
	if err := appendRevision(ctx, tx, rev); err != nil {
		return nil, fmt.Errorf("create page revision: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit page: %w", err)
	}
	return rev, nil
}

// SavePage updates a page and appends a revision of its content in one
// transaction. A non-nil restoredFrom records the revision as a restore.
// Returns ErrNotFound if the page does not exist and ErrConflict if the
// slug or homepage flag collides with another page.
func (s *PageStore) SavePage(ctx context.Context, p *models.Page, author string, restoredFrom *uuid.UUID) (*models.Revision, error) {
	content, err := encodeTree(p.Content)
	if err != nil {
		return nil, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// The UPDATE locks the page row until commit, serializing revision
	// numbering for this page.
	err = tx.QueryRowContext(ctx, `
		UPDATE pages SET
			slug = $1, title = $2, status = $3, is_homepage = $4, content = $5,
			updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`, p.Slug, p.Title, p.Status, p.IsHomepage, content, p.ID).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("save page %s: %w", p.ID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("save page: %w", mapErr(err))
	}

	rev := &models.Revision{
		PageID:       p.ID,
		Subject:      models.RevisionSubjectPage,
		Kind:         models.RevisionKindSave,
		RestoredFrom: restoredFrom,
		Content:      p.Content,
		Author:       author,
	}
	if restoredFrom != nil {
		rev.Kind = models.RevisionKindRestore
	}
	if err := appendRevision(ctx, tx, rev); err != nil {
		return nil, fmt.Errorf("save page revision: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit page: %w", err)
	}
	return rev, nil
}

// Delete removes a page. Its revisions are kept.
func (s *PageStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete page %s: %w", id, ErrNotFound)
	}
	return nil
}
