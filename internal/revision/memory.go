// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package revision

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"pagecraft/internal/models"
)

// ErrDuplicate is returned by MemoryStore when a revision id is reused.
var ErrDuplicate = errors.New("revision already exists")

// MemoryStore is an in-process Store, used by tests and the CLI. It copies
// trees on the way in and out, so stored revisions cannot be changed
// through a returned value.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]models.Revision
	byPage map[uuid.UUID][]uuid.UUID
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[uuid.UUID]models.Revision),
		byPage: make(map[uuid.UUID][]uuid.UUID),
	}
}

// Append stores rev and sets its Seq.
func (m *MemoryStore) Append(_ context.Context, rev *models.Revision) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rev.ID == uuid.Nil {
		rev.ID = uuid.New()
	}
	if _, ok := m.byID[rev.ID]; ok {
		return ErrDuplicate
	}
	rev.Seq = int64(len(m.byPage[rev.PageID]) + 1)

	stored := *rev
	stored.Content = rev.Content.Clone()
	m.byID[rev.ID] = stored
	m.byPage[rev.PageID] = append(m.byPage[rev.PageID], rev.ID)
	return nil
}

// Get returns a copy of the revision, or nil if it does not exist.
func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*models.Revision, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rev, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	rev.Content = rev.Content.Clone()
	return &rev, nil
}

// List returns copies of the page's revisions ordered by Seq.
func (m *MemoryStore) List(_ context.Context, pageID uuid.UUID) ([]models.Revision, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byPage[pageID]
	out := make([]models.Revision, 0, len(ids))
	for _, id := range ids {
		rev := m.byID[id]
		rev.Content = rev.Content.Clone()
		out = append(out, rev)
	}
	return out, nil
}
