// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"pagecraft/internal/models"
)

const templateColumns = `id, type, name, description, content, conditions, priority, is_active, created_at, updated_at`

// TemplateStore handles all template-related database operations.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

// encodeConditions returns nil (SQL NULL) for nil conditions.
func encodeConditions(c *models.Conditions) (any, error) {
	if c == nil {
		return nil, nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode conditions: %w", err)
	}
	return string(data), nil
}

func scanTemplate(s scanner) (*models.Template, error) {
	var (
		t                   models.Template
		content, conditions []byte
	)
	if err := s.Scan(
		&t.ID, &t.Type, &t.Name, &t.Description, &content, &conditions,
		&t.Priority, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	tree, err := decodeTree(content)
	if err != nil {
		return nil, err
	}
	t.Content = tree
	if len(conditions) > 0 && string(conditions) != "null" {
		t.Conditions = &models.Conditions{}
		if err := json.Unmarshal(conditions, t.Conditions); err != nil {
			return nil, fmt.Errorf("decode conditions: %w", err)
		}
	}
	return &t, nil
}

func (s *TemplateStore) query(ctx context.Context, op, tail string, args ...any) ([]models.Template, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+templateColumns+` FROM templates `+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// List returns all templates ordered by type and name.
func (s *TemplateStore) List(ctx context.Context) ([]models.Template, error) {
	return s.query(ctx, "list templates", `ORDER BY type, name`)
}

// ListActiveByType returns the active templates of the given type. Callers
// pick among them with the resolver.
func (s *TemplateStore) ListActiveByType(ctx context.Context, typ models.TemplateType) ([]models.Template, error) {
	return s.query(ctx, "list active templates", `WHERE type = $1 AND is_active ORDER BY priority DESC, updated_at DESC`, typ)
}

// FindByID retrieves a template by its UUID. Returns nil if not found.
func (s *TemplateStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = $1`, id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// Create inserts a new template together with its first revision.
func (s *TemplateStore) Create(ctx context.Context, t *models.Template, author string) (*models.Revision, error) {
	content, err := encodeTree(t.Content)
	if err != nil {
		return nil, err
	}
	conditions, err := encodeConditions(t.Conditions)
	if err != nil {
		return nil, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO templates (type, name, description, content, conditions, priority, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, t.Type, t.Name, t.Description, content, conditions, t.Priority, t.IsActive,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", mapErr(err))
	}

	rev := &models.Revision{
		PageID:  t.ID,
		Subject: models.RevisionSubjectTemplate,
		Kind:    models.RevisionKindSave,
		Content: t.Content,
		Author:  author,
	}
	if err := appendRevision(ctx, tx, rev); err != nil {
		return nil, fmt.Errorf("create template revision: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit template: %w", err)
	}
	return rev, nil
}

// SaveTemplate updates a template and appends a revision of its content in
// one transaction. A non-nil restoredFrom records the revision as a restore.
func (s *TemplateStore) SaveTemplate(ctx context.Context, t *models.Template, author string, restoredFrom *uuid.UUID) (*models.Revision, error) {
	content, err := encodeTree(t.Content)
	if err != nil {
		return nil, err
	}
	conditions, err := encodeConditions(t.Conditions)
	if err != nil {
		return nil, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		UPDATE templates SET
			type = $1, name = $2, description = $3, content = $4, conditions = $5,
			priority = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`, t.Type, t.Name, t.Description, content, conditions, t.Priority, t.IsActive, t.ID,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("save template %s: %w", t.ID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("save template: %w", mapErr(err))
	}

	rev := &models.Revision{
		PageID:       t.ID,
		Subject:      models.RevisionSubjectTemplate,
		Kind:         models.RevisionKindSave,
		RestoredFrom: restoredFrom,
		Content:      t.Content,
		Author:       author,
	}
	if restoredFrom != nil {
		rev.Kind = models.RevisionKindRestore
	}
	if err := appendRevision(ctx, tx, rev); err != nil {
		return nil, fmt.Errorf("save template revision: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit template: %w", err)
	}
	return rev, nil
}

// SetActive toggles whether a template takes part in resolution. It does
// not create a revision.
func (s *TemplateStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE templates SET is_active = $1, updated_at = NOW() WHERE id = $2
	`, active, id)
	if err != nil {
		return fmt.Errorf("set template active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set template active %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a template. Its revisions are kept.
func (s *TemplateStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete template %s: %w", id, ErrNotFound)
	}
	return nil
}
