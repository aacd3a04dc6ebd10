package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a record is not found
var ErrNotFound = errors.New("record not found")

// GetSessionToken returns the serialized session stored under key
func (db *DB) GetSessionToken(ctx context.Context, key string) (string, error) {
	var token string
	query := `SELECT token FROM sessions WHERE storage_key = ?`
	err := db.GetContext(ctx, &token, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session token: %w", err)
	}
	return token, nil
}

// PutSessionToken stores the serialized session under key, replacing any
// previous value. The last completed write wins.
func (db *DB) PutSessionToken(ctx context.Context, key, token string) error {
	query := `
		INSERT INTO sessions (storage_key, token, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(storage_key) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at
	`
	_, err := db.ExecContext(ctx, query, key, token, time.Now())
	if err != nil {
		return fmt.Errorf("failed to put session token: %w", err)
	}
	return nil
}

// DeleteSessionToken removes the session stored under key. Deleting a key
// that does not exist is not an error.
func (db *DB) DeleteSessionToken(ctx context.Context, key string) error {
	query := `DELETE FROM sessions WHERE storage_key = ?`
	_, err := db.ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("failed to delete session token: %w", err)
	}
	return nil
}
