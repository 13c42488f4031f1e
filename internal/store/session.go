package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// Keys for the persisted session mirror. The two entries are written in
// one transaction and cleared in one transaction, so a reader never sees a
// token without its user record or vice versa.
const (
	keyAccessToken = "access_token"
	keyUserInfo    = "user_info"
)

// SaveSession writes the credential token and the serialized user record
// atomically.
func (s *Store) SaveSession(token string, user []byte) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `
		INSERT INTO local_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.Exec(upsert, keyAccessToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if _, err := tx.Exec(upsert, keyUserInfo, string(user)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return tx.Commit()
}

// LoadSession reads the persisted session. ok is false when either entry
// is missing, which counts as no session at all.
func (s *Store) LoadSession() (token string, user []byte, ok bool, err error) {
	const query = `SELECT value FROM local_state WHERE key = ?`

	err = s.db.QueryRow(query, keyAccessToken).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, false, nil
	}
	if err != nil {
		return "", nil, false, fmt.Errorf("load token: %w", err)
	}

	var raw string
	err = s.db.QueryRow(query, keyUserInfo).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, false, nil
	}
	if err != nil {
		return "", nil, false, fmt.Errorf("load user: %w", err)
	}

	if token == "" || raw == "" {
		return "", nil, false, nil
	}
	return token, []byte(raw), true, nil
}

// ClearSession removes both entries in one transaction.
func (s *Store) ClearSession() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM local_state WHERE key IN (?, ?)`, keyAccessToken, keyUserInfo); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return tx.Commit()
}
