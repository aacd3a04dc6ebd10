// Package reply drives the per-email draft pipeline: resolve the message,
// request an AI draft, let the user edit, send. One Workflow exists per
// open reply screen and never outlives it.
package reply

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Alipio135/dropmail-ai-reply-55/internal/api"
	"github.com/Alipio135/dropmail-ai-reply-55/internal/mailbox"
	"github.com/Alipio135/dropmail-ai-reply-55/internal/notify"
	"github.com/Alipio135/dropmail-ai-reply-55/pkg/models"
)

// Deps dependencies for creating a Workflow
type Deps struct {
	Loader *mailbox.Loader
	Client api.Client
	Events notify.Sink
	Logger *slog.Logger
}

// Workflow is the state machine for one email's reply. All mutation happens
// under the mutex; remote calls run unlocked and their results are applied
// only if the workflow still wants them (generation token match, not
// closed). Navigating away is Close(): client-side loss of interest, not a
// network abort.
type Workflow struct {
	loader *mailbox.Loader
	client api.Client
	events notify.Sink
	logger *slog.Logger

	mu        sync.Mutex
	emailID   string
	email     models.EmailMessage
	draft     models.ReplyDraft
	generated string
	genToken  uuid.UUID
	closed    bool
}

// New creates an idle workflow for the given email id.
func New(emailID string, deps Deps) *Workflow {
	return &Workflow{
		loader:  deps.Loader,
		client:  deps.Client,
		events:  deps.Events,
		logger:  deps.Logger.With("component", "reply_workflow", "email_id", emailID),
		emailID: emailID,
		draft: models.ReplyDraft{
			ForEmailID: emailID,
			Origin:     models.OriginGenerated,
			Status:     models.StatusIdle,
		},
	}
}

// Open resolves the email from a fresh inbox snapshot. There is no
// single-item fetch: the whole list is loaded and searched. A miss returns
// api.ErrNotFound, which the caller maps to "return to list".
func (w *Workflow) Open(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if w.draft.Status != models.StatusIdle {
		status := w.draft.Status
		w.mu.Unlock()
		return &StateError{Op: "open", Status: status}
	}
	w.mu.Unlock()

	if _, err := w.loader.Fetch(ctx); err != nil {
		return fmt.Errorf("resolve email: %w", err)
	}
	msg, err := w.loader.Find(w.emailID)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.email = msg
	return nil
}

// Generate requests an AI draft for the resolved message. While pending the
// draft is locked against edits and sends. On failure the draft drops to an
// editable-but-empty state so the user can still type a reply manually; on
// success the text and Generated origin are installed. A response arriving
// after Close or after a newer Generate is discarded untouched.
func (w *Workflow) Generate(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	switch w.draft.Status {
	case models.StatusGenerating, models.StatusSending, models.StatusSent:
		status := w.draft.Status
		w.mu.Unlock()
		return &StateError{Op: "generate", Status: status}
	}
	token := uuid.New()
	w.genToken = token
	w.draft.Status = models.StatusGenerating
	w.draft.Text = ""
	body := w.email.Body
	w.mu.Unlock()

	text, err := w.client.GenerateReply(ctx, w.emailID, body)

	w.mu.Lock()
	if w.closed || w.genToken != token {
		w.mu.Unlock()
		w.logger.Debug("discarding stale generation result")
		return ErrStaleResult
	}
	if err != nil {
		w.draft.Status = models.StatusEditing
		w.mu.Unlock()
		w.events.Publish(ctx, notify.Event{Kind: notify.KindError, Message: "Failed to generate AI reply. Please try again."})
		return err
	}
	w.draft.Text = text
	w.draft.Origin = models.OriginGenerated
	w.draft.Status = models.StatusReady
	w.generated = text
	w.mu.Unlock()
	return nil
}

// BeginEdit makes the draft text mutable. Not allowed while generating,
// sending or sent.
func (w *Workflow) BeginEdit() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if w.draft.Status != models.StatusReady {
		return &StateError{Op: "edit", Status: w.draft.Status}
	}
	w.draft.Status = models.StatusEditing
	return nil
}

// SetText replaces the draft text. Only valid while editing.
func (w *Workflow) SetText(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if w.draft.Status != models.StatusEditing {
		return &StateError{Op: "set text", Status: w.draft.Status}
	}
	w.draft.Text = text
	return nil
}

// FinishEdit toggles back to ready-for-send. The origin becomes Edited only
// if the text actually changed from the generated suggestion.
func (w *Workflow) FinishEdit() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if w.draft.Status != models.StatusEditing {
		return &StateError{Op: "finish editing", Status: w.draft.Status}
	}
	if w.draft.Text != w.generated {
		w.draft.Origin = models.OriginEdited
	} else {
		w.draft.Origin = models.OriginGenerated
	}
	w.draft.Status = models.StatusReady
	return nil
}

// Send submits the draft. Whitespace-only text is rejected before the
// network call; a send already in flight rejects the second attempt rather
// than queueing it. On failure the pre-send status and text are restored so
// the user can retry without regenerating.
func (w *Workflow) Send(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if w.draft.Status != models.StatusReady && w.draft.Status != models.StatusEditing {
		status := w.draft.Status
		w.mu.Unlock()
		return &StateError{Op: "send", Status: status}
	}
	text := w.draft.Text
	if strings.TrimSpace(text) == "" {
		w.mu.Unlock()
		return ErrEmptyDraft
	}
	prev := w.draft.Status
	w.draft.Status = models.StatusSending
	w.mu.Unlock()

	err := w.client.SendReply(ctx, w.emailID, text)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Debug("discarding stale send result")
		return ErrStaleResult
	}
	if err != nil {
		w.draft.Status = prev
		w.mu.Unlock()
		w.events.Publish(ctx, notify.Event{Kind: notify.KindError, Message: "Failed to send reply. Please try again."})
		return err
	}
	w.draft.Status = models.StatusSent
	w.closed = true
	w.mu.Unlock()

	w.logger.Info("reply sent")
	w.events.Publish(ctx, notify.Event{Kind: notify.KindInfo, Message: "Your email has been sent successfully"})
	return nil
}

// Close cancels interest in any in-flight results. Idempotent; results
// arriving afterwards are dropped without touching the draft.
func (w *Workflow) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

// Draft returns a copy of the current draft.
func (w *Workflow) Draft() models.ReplyDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Email returns the resolved message. Zero until Open succeeds.
func (w *Workflow) Email() models.EmailMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.email
}
