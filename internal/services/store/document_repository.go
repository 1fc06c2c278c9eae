package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/atelier-dev/atelier/internal/services/domain"
)

const documentColumns = `id, path, content, dirty, created_at, updated_at`

// documentRepository implements domain.DocumentRepository using sqlite.
type documentRepository struct {
	db *sql.DB
}

func newDocumentRepository(db *sql.DB) *documentRepository {
	return &documentRepository{db: db}
}

var _ domain.DocumentRepository = (*documentRepository)(nil)

func scanDocument(scanner interface{ Scan(...any) error }) (*DocumentModel, error) {
	var model DocumentModel
	err := scanner.Scan(
		&model.ID, &model.Path, &model.Content, &model.Dirty,
		&model.CreatedAt, &model.UpdatedAt,
	)
	return &model, err
}

// Save persists a document. New documents (ID == 0) are inserted and get
// their ID set; existing documents are updated in place.
func (r *documentRepository) Save(doc *domain.Document) error {
	model := toDocumentModel(doc)

	if doc.ID() == 0 {
		result, err := r.db.Exec(
			`INSERT INTO documents (path, content, dirty, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			model.Path, model.Content, model.Dirty, model.CreatedAt, model.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		doc.SetID(id)
		return nil
	}

	_, err := r.db.Exec(
		`UPDATE documents SET path = ?, content = ?, dirty = ?, updated_at = ? WHERE id = ?`,
		model.Path, model.Content, model.Dirty, model.UpdatedAt, model.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	return nil
}

// FindByPath retrieves a document by its workspace path.
func (r *documentRepository) FindByPath(path string) (*domain.Document, error) {
	row := r.db.QueryRow(
		`SELECT `+documentColumns+` FROM documents WHERE path = ?`, path,
	)
	model, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.DocumentNotFoundError{Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find document by path: %w", err)
	}
	return model.toDomain(), nil
}

// List retrieves all documents ordered by path.
func (r *documentRepository) List() ([]*domain.Document, error) {
	rows, err := r.db.Query(`SELECT ` + documentColumns + ` FROM documents ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		model, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, model.toDomain())
	}
	return docs, rows.Err()
}

// Delete removes a document by path.
func (r *documentRepository) Delete(path string) error {
	result, err := r.db.Exec(`DELETE FROM documents WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return &domain.DocumentNotFoundError{Path: path}
	}
	return nil
}
