package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/atelier-dev/atelier/internal/services/domain"
)

// settingsRepository implements domain.SettingsRepository using sqlite.
type settingsRepository struct {
	db *sql.DB
}

func newSettingsRepository(db *sql.DB) *settingsRepository {
	return &settingsRepository{db: db}
}

var _ domain.SettingsRepository = (*settingsRepository)(nil)

// Set stores value under plugin/key, replacing any previous value.
func (r *settingsRepository) Set(plugin, key string, value json.RawMessage) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (plugin, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(plugin, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		plugin, key, string(value), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}

// Get retrieves the value stored under plugin/key.
func (r *settingsRepository) Get(plugin, key string) (json.RawMessage, error) {
	var value string
	err := r.db.QueryRow(
		`SELECT value FROM settings WHERE plugin = ? AND key = ?`, plugin, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.SettingNotFoundError{Plugin: plugin, Key: key}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return json.RawMessage(value), nil
}

// Plugin retrieves all settings of one plugin keyed by setting key.
func (r *settingsRepository) Plugin(plugin string) (map[string]json.RawMessage, error) {
	rows, err := r.db.Query(
		`SELECT key, value FROM settings WHERE plugin = ? ORDER BY key`, plugin,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plugin settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings[key] = json.RawMessage(value)
	}
	return settings, rows.Err()
}

// Remove deletes the value stored under plugin/key. Removing a missing
// setting is not an error.
func (r *settingsRepository) Remove(plugin, key string) error {
	_, err := r.db.Exec(
		`DELETE FROM settings WHERE plugin = ? AND key = ?`, plugin, key,
	)
	if err != nil {
		return fmt.Errorf("failed to remove setting: %w", err)
	}
	return nil
}
