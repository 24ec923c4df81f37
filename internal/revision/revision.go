// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package revision keeps the append-only history of page and template
// trees. Restoring reads a snapshot back; it never edits or deletes
// history, and saving the restored tree appends a new revision.
package revision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pagecraft/internal/document"
	"pagecraft/internal/models"
)

// ErrNotFound is returned when a revision id is unknown.
var ErrNotFound = errors.New("revision not found")

// Store persists revisions. Append assigns the next per-owner Seq and must
// never overwrite an existing revision. Get returns nil, nil when the id is
// unknown. List returns an owner's revisions ordered by Seq.
type Store interface {
	Append(ctx context.Context, rev *models.Revision) error
	Get(ctx context.Context, id uuid.UUID) (*models.Revision, error)
	List(ctx context.Context, pageID uuid.UUID) ([]models.Revision, error)
}

// Service records and reads revisions.
type Service struct {
	st      Store
	subject models.RevisionSubject
	now     func() time.Time
	log     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithSubject sets the subject recorded on new revisions. The default is
// models.RevisionSubjectPage.
func WithSubject(s models.RevisionSubject) Option {
	return func(svc *Service) { svc.subject = s }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(svc *Service) { svc.log = l }
}

// NewService creates a Service on top of st.
func NewService(st Store, opts ...Option) *Service {
	svc := &Service{st: st, subject: models.RevisionSubjectPage, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.log == nil {
		svc.log = slog.Default()
	}
	return svc
}

// Snapshot appends a copy of tree to the history of pageID.
func (s *Service) Snapshot(ctx context.Context, pageID uuid.UUID, tree document.Tree, author string) (uuid.UUID, error) {
	return s.append(ctx, pageID, tree, author, models.RevisionKindSave, nil)
}

// SnapshotRestore appends a copy of tree recording that it was restored
// from revision from.
func (s *Service) SnapshotRestore(ctx context.Context, pageID uuid.UUID, tree document.Tree, author string, from uuid.UUID) (uuid.UUID, error) {
	if _, err := s.Get(ctx, from); err != nil {
		return uuid.Nil, err
	}
	return s.append(ctx, pageID, tree, author, models.RevisionKindRestore, &from)
}

func (s *Service) append(ctx context.Context, pageID uuid.UUID, tree document.Tree, author string, kind models.RevisionKind, from *uuid.UUID) (uuid.UUID, error) {
	rev := &models.Revision{
		ID:           uuid.New(),
		PageID:       pageID,
		Subject:      s.subject,
		Kind:         kind,
		RestoredFrom: from,
		Content:      tree.Clone(),
		Author:       author,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.st.Append(ctx, rev); err != nil {
		return uuid.Nil, fmt.Errorf("append revision: %w", err)
	}
	s.log.Debug("revision recorded", "page_id", pageID, "revision_id", rev.ID, "seq", rev.Seq, "kind", kind)
	return rev.ID, nil
}

// Get returns a revision by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Revision, error) {
	rev, err := s.st.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get revision: %w", err)
	}
	if rev == nil {
		return nil, ErrNotFound
	}
	return rev, nil
}

// Restore returns a deep copy of the tree stored in revision id. The caller
// decides whether to save it; history is left untouched.
func (s *Service) Restore(ctx context.Context, id uuid.UUID) (document.Tree, error) {
	rev, err := s.Get(ctx, id)
	if err != nil {
		return document.Tree{}, err
	}
	return rev.Content.Clone(), nil
}

// History returns the revisions of pageID in creation order.
func (s *Service) History(ctx context.Context, pageID uuid.UUID) ([]models.Revision, error) {
	revs, err := s.st.List(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	return revs, nil
}
