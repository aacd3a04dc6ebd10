// Package mailbox loads the inbox snapshot that feeds both the list view
// and the reply workflow's lookup-by-id step.
package mailbox

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Alipio135/dropmail-ai-reply-55/internal/api"
	"github.com/Alipio135/dropmail-ai-reply-55/internal/parser"
	"github.com/Alipio135/dropmail-ai-reply-55/pkg/models"
)

const previewMaxLen = 100

// Loader fetches the inbox snapshot from the collaborator. It does not
// deduplicate concurrent fetches and never retries; a view issues one fetch
// per mount and inspects the returned error.
type Loader struct {
	client api.Client
	parser *parser.HTMLParser
	logger *slog.Logger

	mu       sync.RWMutex
	snapshot []models.EmailMessage
}

// NewLoader creates a loader over the given collaborator.
func NewLoader(client api.Client, htmlParser *parser.HTMLParser, logger *slog.Logger) *Loader {
	return &Loader{
		client: client,
		parser: htmlParser,
		logger: logger.With("component", "email_loader"),
	}
}

// Fetch retrieves the ordered inbox, fills in missing previews and replaces
// the held snapshot. The returned slice is the caller's copy.
func (l *Loader) Fetch(ctx context.Context) ([]models.EmailMessage, error) {
	emails, err := l.client.ListEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch emails: %w", err)
	}

	for i := range emails {
		if emails[i].Preview != "" {
			continue
		}
		preview, err := l.parser.Preview(emails[i].Body, previewMaxLen)
		if err != nil {
			l.logger.Warn("failed to derive preview", "email_id", emails[i].ID, "error", err)
			continue
		}
		emails[i].Preview = preview
	}

	l.mu.Lock()
	l.snapshot = emails
	l.mu.Unlock()

	out := make([]models.EmailMessage, len(emails))
	copy(out, emails)
	return out, nil
}

// Find looks up a message by id in the current snapshot. A miss returns
// api.ErrNotFound; there is no dedicated single-item fetch.
func (l *Loader) Find(id string) (models.EmailMessage, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, msg := range l.snapshot {
		if msg.ID == id {
			return msg, nil
		}
	}
	return models.EmailMessage{}, api.ErrNotFound
}

// Snapshot returns a copy of the most recently fetched inbox.
func (l *Loader) Snapshot() []models.EmailMessage {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.EmailMessage, len(l.snapshot))
	copy(out, l.snapshot)
	return out
}
