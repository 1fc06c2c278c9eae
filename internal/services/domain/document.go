// Package domain provides the pure domain layer for workspace services with
// no infrastructure dependencies.
package domain

import (
	"fmt"
	"time"
)

// Document represents a workspace document tracked by the contents service.
// Fields are unexported to enforce encapsulation; use the constructor and
// accessor methods.
type Document struct {
	id        int64
	path      string
	content   string
	dirty     bool
	createdAt time.Time
	updatedAt time.Time
}

// NewDocument creates a new in-memory document for the given workspace path.
func NewDocument(path, content string) *Document {
	now := time.Now()
	return &Document{
		path:      path,
		content:   content,
		dirty:     true,
		createdAt: now,
		updatedAt: now,
	}
}

// RehydrateDocument reconstructs a document from persisted state.
// Intended for repository implementations only.
func RehydrateDocument(id int64, path, content string, dirty bool, createdAt, updatedAt time.Time) *Document {
	return &Document{
		id:        id,
		path:      path,
		content:   content,
		dirty:     dirty,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (d *Document) ID() int64            { return d.id }
func (d *Document) Path() string         { return d.path }
func (d *Document) Content() string      { return d.content }
func (d *Document) Dirty() bool          { return d.dirty }
func (d *Document) CreatedAt() time.Time { return d.createdAt }
func (d *Document) UpdatedAt() time.Time { return d.updatedAt }

// SetID assigns the database id after the first save.
// Intended for repository implementations only.
func (d *Document) SetID(id int64) { d.id = id }

// SetContent replaces the document content and marks it dirty.
func (d *Document) SetContent(content string) {
	d.content = content
	d.dirty = true
	d.updatedAt = time.Now()
}

// MarkSaved clears the dirty flag after a successful persist.
func (d *Document) MarkSaved() {
	d.dirty = false
	d.updatedAt = time.Now()
}

// DocumentNotFoundError indicates no document exists at a path.
type DocumentNotFoundError struct {
	Path string
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document not found: %s", e.Path)
}
