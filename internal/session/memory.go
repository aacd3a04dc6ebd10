package session

import (
	"context"
	"sync"

	"github.com/Alipio135/dropmail-ai-reply-55/pkg/models"
)

// MemoryStore is an in-process Store for tests and throwaway runs. It still
// round-trips through the codec so encoding errors surface the same way as
// with the sqlite store.
type MemoryStore struct {
	mu    sync.Mutex
	codec *Codec
	token string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(codec *Codec) *MemoryStore {
	return &MemoryStore{codec: codec}
}

func (s *MemoryStore) Load(_ context.Context) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return nil, nil
	}
	sess, err := s.codec.Decode(s.token)
	if err != nil {
		return nil, nil
	}
	return sess, nil
}

func (s *MemoryStore) Save(_ context.Context, sess *models.Session) error {
	token, err := s.codec.Encode(sess)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

// Corrupt overwrites the stored token with garbage. Test helper.
func (s *MemoryStore) Corrupt() {
	s.mu.Lock()
	s.token = "not-a-valid-token"
	s.mu.Unlock()
}
