package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/atelier-dev/atelier/internal/services/domain"
)

const sessionColumns = `id, guid, kind, path, state, created_at, updated_at, closed_at`

// sessionRepository implements domain.SessionRepository using sqlite.
type sessionRepository struct {
	db *sql.DB
}

func newSessionRepository(db *sql.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

var _ domain.SessionRepository = (*sessionRepository)(nil)

func scanSession(scanner interface{ Scan(...any) error }) (*SessionModel, error) {
	var model SessionModel
	err := scanner.Scan(
		&model.ID, &model.GUID, &model.Kind, &model.Path, &model.State,
		&model.CreatedAt, &model.UpdatedAt, &model.ClosedAt,
	)
	return &model, err
}

// Save persists a session. New sessions (ID == 0) are inserted and get
// their ID set; existing sessions are updated in place.
func (r *sessionRepository) Save(session *domain.Session) error {
	model := toSessionModel(session)

	if session.ID() == 0 {
		result, err := r.db.Exec(
			`INSERT INTO sessions (guid, kind, path, state, created_at, updated_at, closed_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			model.GUID, model.Kind, model.Path, model.State,
			model.CreatedAt, model.UpdatedAt, model.ClosedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		session.SetID(id)
		return nil
	}

	_, err := r.db.Exec(
		`UPDATE sessions SET kind = ?, path = ?, state = ?, updated_at = ?, closed_at = ? WHERE id = ?`,
		model.Kind, model.Path, model.State, model.UpdatedAt, model.ClosedAt, model.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// FindByGUID retrieves a session by GUID.
func (r *sessionRepository) FindByGUID(guid string) (*domain.Session, error) {
	row := r.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE guid = ?`, guid,
	)
	model, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.SessionNotFoundError{GUID: guid}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session by guid: %w", err)
	}
	return model.toDomain(), nil
}

// ListRunning retrieves all running sessions, newest first.
func (r *sessionRepository) ListRunning() ([]*domain.Session, error) {
	rows, err := r.db.Query(
		`SELECT `+sessionColumns+` FROM sessions WHERE state = ? ORDER BY created_at DESC`,
		string(domain.SessionStateRunning),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list running sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		model, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, model.toDomain())
	}
	return sessions, rows.Err()
}
