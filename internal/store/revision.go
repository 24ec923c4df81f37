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

// RevisionStore provides access to revision history in PostgreSQL. It
// implements revision.Store. The table rejects updates and deletes.
type RevisionStore struct {
	db *sql.DB
}

// NewRevisionStore creates a new RevisionStore backed by the given database.
func NewRevisionStore(db *sql.DB) *RevisionStore {
	return &RevisionStore{db: db}
}

// Append inserts rev and fills in its ID, Seq and CreatedAt. Two appends
// racing for the same owner make one of them fail with ErrConflict.
func (s *RevisionStore) Append(ctx context.Context, rev *models.Revision) error {
	if err := appendRevision(ctx, s.db, rev); err != nil {
		return fmt.Errorf("append revision: %w", err)
	}
	return nil
}

// Get returns a single revision by its ID. Returns nil if not found.
func (s *RevisionStore) Get(ctx context.Context, id uuid.UUID) (*models.Revision, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+revisionColumns+` FROM revisions WHERE id = $1`, id)
	rev, err := scanRevision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find revision by id: %w", err)
	}
	return rev, nil
}

// List returns all revisions of a page or template, oldest first.
func (s *RevisionStore) List(ctx context.Context, pageID uuid.UUID) ([]models.Revision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+revisionColumns+`
		FROM revisions
		WHERE page_id = $1
		ORDER BY seq
	`, pageID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	revisions := []models.Revision{}
	for rows.Next() {
		r, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, *r)
	}
	return revisions, rows.Err()
}
