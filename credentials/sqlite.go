package credentials

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/accessguard/console/models"
)

// SQLiteStore is a durable credential store backed by a local SQLite file,
// so a restarted console picks up the previous session.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the session database at the
// given path.
func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	// Test the connection
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping session database: %w", err)
	}

	query := `
		CREATE TABLE IF NOT EXISTS credentials (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`
	if _, err = db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create credentials table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save persists the pair. See Store for the no-op and retention rules.
func (s *SQLiteStore) Save(pair models.TokenPair) error {
	if pair.AccessToken == "" {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	if _, err := tx.Exec(query, accessTokenKey, pair.AccessToken); err != nil {
		return fmt.Errorf("failed to save access token: %w", err)
	}
	if pair.RefreshToken != "" {
		if _, err := tx.Exec(query, refreshTokenKey, pair.RefreshToken); err != nil {
			return fmt.Errorf("failed to save refresh token: %w", err)
		}
	}

	return tx.Commit()
}

// Get returns the stored pair, or nil when no session exists.
func (s *SQLiteStore) Get() (*models.TokenPair, error) {
	access, err := s.getValue(accessTokenKey)
	if err != nil {
		return nil, err
	}
	if access == "" {
		return nil, nil
	}

	refresh, err := s.getValue(refreshTokenKey)
	if err != nil {
		return nil, err
	}

	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Clear removes both tokens.
func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec(
		"DELETE FROM credentials WHERE key IN (?, ?)",
		accessTokenKey, refreshTokenKey,
	)
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (s *SQLiteStore) getValue(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM credentials WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}
