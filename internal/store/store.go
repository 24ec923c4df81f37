// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists pages, templates and their revisions in
// PostgreSQL. Trees are stored as JSONB. Saving a page or template writes
// its content and a new revision in one transaction.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"pagecraft/internal/document"
	"pagecraft/internal/models"
)

var (
	// ErrNotFound is returned when an update targets a row that does not
	// exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a unique constraint
	// (duplicate slug, second homepage, concurrent revision).
	ErrConflict = errors.New("conflict")
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// mapErr turns driver errors into the package's sentinel errors.
func mapErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
	}
	return err
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// queryRower is satisfied by *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func encodeTree(t document.Tree) (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encode tree: %w", err)
	}
	return string(data), nil
}

func decodeTree(data []byte) (document.Tree, error) {
	var t document.Tree
	if len(data) == 0 {
		return t, nil
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("decode tree: %w", err)
	}
	return t, nil
}

// revisionColumns lists all columns for revisions SELECTs.
const revisionColumns = `id, page_id, subject, seq, kind, restored_from, content, author, created_at`

// appendRevision inserts rev with the next sequence number of its owner and
// fills in the generated fields. Inside a transaction that has locked the
// owner row, concurrent saves of the same owner are serialized.
func appendRevision(ctx context.Context, q queryRower, rev *models.Revision) error {
	content, err := encodeTree(rev.Content)
	if err != nil {
		return err
	}
	if rev.ID == uuid.Nil {
		rev.ID = uuid.New()
	}
	row := q.QueryRowContext(ctx, `
		INSERT INTO revisions (id, page_id, subject, seq, kind, restored_from, content, author)
		SELECT $1::uuid, $2::uuid, $3::text, COALESCE(MAX(seq), 0) + 1, $4::text, $5::uuid, $6::jsonb, $7::text
		FROM revisions WHERE page_id = $2::uuid
		RETURNING seq, created_at
	`, rev.ID, rev.PageID, rev.Subject, rev.Kind, rev.RestoredFrom, content, rev.Author)
	if err := row.Scan(&rev.Seq, &rev.CreatedAt); err != nil {
		return mapErr(err)
	}
	return nil
}

func scanRevision(s scanner) (*models.Revision, error) {
	var (
		r       models.Revision
		content []byte
	)
	if err := s.Scan(
		&r.ID, &r.PageID, &r.Subject, &r.Seq, &r.Kind, &r.RestoredFrom,
		&content, &r.Author, &r.CreatedAt,
	); err != nil {
		return nil, err
	}
	tree, err := decodeTree(content)
	if err != nil {
		return nil, err
	}
	r.Content = tree
	return &r, nil
}
