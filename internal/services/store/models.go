package store

import (
	"time"

	"github.com/atelier-dev/atelier/internal/services/domain"
)

// DocumentModel represents the database row for the documents table.
// Time values are stored as Unix timestamps.
type DocumentModel struct {
	ID        int64
	Path      string
	Content   string
	Dirty     bool
	CreatedAt int64
	UpdatedAt int64
}

func toDocumentModel(d *domain.Document) *DocumentModel {
	return &DocumentModel{
		ID:        d.ID(),
		Path:      d.Path(),
		Content:   d.Content(),
		Dirty:     d.Dirty(),
		CreatedAt: d.CreatedAt().Unix(),
		UpdatedAt: d.UpdatedAt().Unix(),
	}
}

func (m *DocumentModel) toDomain() *domain.Document {
	return domain.RehydrateDocument(
		m.ID, m.Path, m.Content, m.Dirty,
		time.Unix(m.CreatedAt, 0), time.Unix(m.UpdatedAt, 0),
	)
}

// SessionModel represents the database row for the sessions table.
type SessionModel struct {
	ID        int64
	GUID      string
	Kind      string
	Path      string
	State     string
	CreatedAt int64
	UpdatedAt int64
	ClosedAt  *int64 // nullable
}

func toSessionModel(s *domain.Session) *SessionModel {
	m := &SessionModel{
		ID:        s.ID(),
		GUID:      s.GUID(),
		Kind:      string(s.Kind()),
		Path:      s.Path(),
		State:     string(s.State()),
		CreatedAt: s.CreatedAt().Unix(),
		UpdatedAt: s.UpdatedAt().Unix(),
	}
	if s.ClosedAt() != nil {
		closedAt := s.ClosedAt().Unix()
		m.ClosedAt = &closedAt
	}
	return m
}

func (m *SessionModel) toDomain() *domain.Session {
	var closedAt *time.Time
	if m.ClosedAt != nil {
		t := time.Unix(*m.ClosedAt, 0)
		closedAt = &t
	}
	return domain.RehydrateSession(
		m.ID, m.GUID, domain.SessionKind(m.Kind), m.Path,
		domain.SessionState(m.State),
		time.Unix(m.CreatedAt, 0), time.Unix(m.UpdatedAt, 0), closedAt,
	)
}
