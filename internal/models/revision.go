// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"pagecraft/internal/document"
)

// RevisionSubject names the kind of entity a revision belongs to.
type RevisionSubject string

const (
	RevisionSubjectPage     RevisionSubject = "page"
	RevisionSubjectTemplate RevisionSubject = "template"
)

// RevisionKind records why a revision was written.
type RevisionKind string

const (
	RevisionKindSave    RevisionKind = "save"
	RevisionKindRestore RevisionKind = "restore"
)

// Revision is an immutable snapshot of a page or template tree. Revisions
// are only ever appended; Seq orders them per owner starting at 1.
type Revision struct {
	ID           uuid.UUID       `json:"id"`
	PageID       uuid.UUID       `json:"page_id"`
	Subject      RevisionSubject `json:"subject"`
	Seq          int64           `json:"seq"`
	Kind         RevisionKind    `json:"kind"`
	RestoredFrom *uuid.UUID      `json:"restored_from,omitempty"`
	Content      document.Tree   `json:"content"`
	Author       string          `json:"author,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
