package domain

import (
	"encoding/json"
	"fmt"
)

// DocumentRepository defines the persistence interface for Document entities.
type DocumentRepository interface {
	// Save persists a document. For new documents (ID == 0) this creates a
	// record and sets the ID; otherwise it updates the existing record.
	Save(doc *Document) error

	// FindByPath retrieves a document by its workspace path.
	// Returns DocumentNotFoundError when no document exists at the path.
	FindByPath(path string) (*Document, error)

	// List retrieves all documents ordered by path.
	List() ([]*Document, error)

	// Delete removes a document by path.
	// Returns DocumentNotFoundError when no document exists at the path.
	Delete(path string) error
}

// SessionRepository defines the persistence interface for Session entities.
type SessionRepository interface {
	// Save persists a session. For new sessions (ID == 0) this creates a
	// record and sets the ID; otherwise it updates the existing record.
	Save(session *Session) error

	// FindByGUID retrieves a session by GUID.
	// Returns SessionNotFoundError when no session matches.
	FindByGUID(guid string) (*Session, error)

	// ListRunning retrieves all sessions in the running state, newest first.
	ListRunning() ([]*Session, error)
}

// SettingsRepository defines the persistence interface for plugin settings.
type SettingsRepository interface {
	// Set stores the JSON value under plugin and key, replacing any
	// previous value.
	Set(plugin, key string, value json.RawMessage) error

	// Get retrieves the JSON value stored under plugin and key.
	// Returns SettingNotFoundError when no value is stored.
	Get(plugin, key string) (json.RawMessage, error)

	// Plugin retrieves all settings of one plugin keyed by setting key.
	Plugin(plugin string) (map[string]json.RawMessage, error)

	// Remove deletes the value stored under plugin and key, if any.
	Remove(plugin, key string) error
}

// SettingNotFoundError indicates no setting is stored under a plugin/key pair.
type SettingNotFoundError struct {
	Plugin string
	Key    string
}

func (e *SettingNotFoundError) Error() string {
	return fmt.Sprintf("setting not found: %s/%s", e.Plugin, e.Key)
}
