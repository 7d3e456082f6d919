package postgres

import (
	"database/sql"
	"errors"

	"github.com/julianstephens/smarthabit/internal/models"
	"github.com/julianstephens/smarthabit/internal/storage"
)

const upsertSetting = `
	INSERT INTO settings (key, value) VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
`

func (s *Store) GetValue(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) SetValue(key, value string) error {
	_, err := s.db.Exec(upsertSetting, key, value)
	return err
}

func (s *Store) DeleteValue(key string) error {
	_, err := s.db.Exec("DELETE FROM settings WHERE key = $1", key)
	return err
}

func (s *Store) GetPreferences() (models.Preferences, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Preferences{}, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Preferences{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Preferences{}, err
	}

	return models.MapToPreferences(data)
}

func (s *Store) SavePreferences(prefs models.Preferences) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertSetting)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range models.PreferencesToMap(prefs) {
		if _, err := stmt.Exec(key, value); err != nil {
			return err
		}
	}

	return tx.Commit()
}
