// Package api defines the remote collaborator boundary: mailbox linking,
// inbox listing, reply generation and reply sending. Every call is
// asynchronous from the caller's point of view and resolves to an explicit
// success or error; nothing here retries automatically.
package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alipio135/dropmail-ai-reply-55/pkg/models"
)

// ErrNotFound is returned when an email id is not in the current snapshot.
var ErrNotFound = errors.New("email not found")

// RemoteError reports a failed collaborator call. The prior local state is
// always left intact when one of these is returned.
type RemoteError struct {
	Op      string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Client is the consumed collaborator contract. ConnectMailbox and
// DisconnectMailbox are idempotent from the caller's view; ListEmails
// returns the inbox in order with no pagination; SendReply models no
// delivery receipt.
type Client interface {
	ConnectMailbox(ctx context.Context, tokens map[string]string) error
	DisconnectMailbox(ctx context.Context) error
	ListEmails(ctx context.Context) ([]models.EmailMessage, error)
	GenerateReply(ctx context.Context, emailID, bodyText string) (string, error)
	SendReply(ctx context.Context, emailID, replyText string) error
}
