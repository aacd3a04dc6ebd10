// Package session persists and restores the single user session snapshot.
// It holds no business logic: the auth service owns the Session value and
// this package only reads and writes its serialized form.
package session

import (
	"context"

	"github.com/Alipio135/dropmail-ai-reply-55/pkg/models"
)

// StorageKey is the single well-known key the session snapshot lives under.
const StorageKey = "dropmail_user"

// Store persists one session snapshot. Load returns (nil, nil) when no
// session is stored or the stored data is malformed: corruption always fails
// open to logged-out, never to logged-in. Save and Clear are idempotent.
type Store interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error
}
