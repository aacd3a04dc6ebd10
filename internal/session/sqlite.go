package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Alipio135/dropmail-ai-reply-55/internal/database"
	"github.com/Alipio135/dropmail-ai-reply-55/pkg/models"
)

// SQLiteStore keeps the session snapshot in a single database row.
type SQLiteStore struct {
	db     *database.DB
	codec  *Codec
	logger *slog.Logger
}

// NewSQLiteStore creates a store backed by the given database.
func NewSQLiteStore(db *database.DB, codec *Codec, logger *slog.Logger) *SQLiteStore {
	return &SQLiteStore{
		db:     db,
		codec:  codec,
		logger: logger.With("component", "session_store"),
	}
}

// Load restores the stored session. Absence and corruption both yield
// (nil, nil): a snapshot that cannot be verified is treated as logged out.
func (s *SQLiteStore) Load(ctx context.Context) (*models.Session, error) {
	token, err := s.db.GetSessionToken(ctx, StorageKey)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sess, err := s.codec.Decode(token)
	if err != nil {
		s.logger.Warn("discarding malformed session snapshot", "error", err)
		return nil, nil
	}
	return sess, nil
}

// Save overwrites the stored snapshot with s.
func (s *SQLiteStore) Save(ctx context.Context, sess *models.Session) error {
	token, err := s.codec.Encode(sess)
	if err != nil {
		return err
	}
	return s.db.PutSessionToken(ctx, StorageKey, token)
}

// Clear removes the stored snapshot. Clearing an empty store is a no-op.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.db.DeleteSessionToken(ctx, StorageKey)
}
