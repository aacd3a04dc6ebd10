// Package auth owns the authenticated-or-not state machine. The Session
// value is held exclusively here: views observe it through State/Session
// and mutate it only through the operations below, one at a time.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Alipio135/dropmail-ai-reply-55/internal/api"
	"github.com/Alipio135/dropmail-ai-reply-55/internal/notify"
	"github.com/Alipio135/dropmail-ai-reply-55/internal/session"
	"github.com/Alipio135/dropmail-ai-reply-55/pkg/models"
)

// State of the session lifecycle. Unknown is the transient
// restoring-from-storage state every consumer must treat as undecided.
type State string

const (
	StateUnknown       State = "unknown"
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// Listener observes state transitions. Listeners run after the transition
// is committed and must not call back into the service.
type Listener func(State)

// Deps dependencies for creating a Service
type Deps struct {
	Store    session.Store
	Provider Provider
	Client   api.Client
	Events   notify.Sink
	Logger   *slog.Logger
}

// Service is the session state machine: Unknown → {Authenticated, Anonymous}
// on restore, Anonymous → Authenticated on login, back on logout, and
// self-loops on mailbox connect/disconnect.
type Service struct {
	store    session.Store
	provider Provider
	client   api.Client
	events   notify.Sink
	logger   *slog.Logger

	mu        sync.Mutex
	state     State
	session   *models.Session
	inFlight  bool
	listeners []Listener
}

// NewService creates a session service in the Unknown state.
func NewService(deps Deps) *Service {
	return &Service{
		store:    deps.Store,
		provider: deps.Provider,
		client:   deps.Client,
		events:   deps.Events,
		logger:   deps.Logger.With("component", "auth"),
		state:    StateUnknown,
	}
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Session returns a copy of the current session, or nil when logged out.
func (s *Service) Session() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}
	sess := *s.session
	return &sess
}

// Subscribe registers a listener for every state transition, so guards
// re-evaluate on each change rather than once.
func (s *Service) Subscribe(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// setState commits a transition and notifies listeners outside the lock.
func (s *Service) setState(state State, sess *models.Session) {
	s.mu.Lock()
	s.state = state
	s.session = sess
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

// begin claims the single in-flight slot for a session operation.
func (s *Service) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return ErrOperationInFlight
	}
	s.inFlight = true
	return nil
}

func (s *Service) end() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// Restore resolves the Unknown state from the persisted snapshot. Malformed
// storage resolves to Anonymous.
func (s *Service) Restore(ctx context.Context) {
	sess, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load session snapshot", "error", err)
		sess = nil
	}

	if sess != nil {
		s.logger.Info("session restored", "email", sess.Email)
		s.setState(StateAuthenticated, sess)
		return
	}
	s.setState(StateAnonymous, nil)
}

// Login authenticates with local credentials. Both fields are validated
// before any IO; a failed attempt always leaves the service Anonymous — a
// prior session is never resurrected.
func (s *Service) Login(ctx context.Context, identifier, secret string) error {
	if identifier == "" {
		return &ValidationError{Field: "identifier", Reason: "must not be empty"}
	}
	if secret == "" {
		return &ValidationError{Field: "secret", Reason: "must not be empty"}
	}

	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	identity, err := s.provider.Authenticate(ctx, identifier, secret)
	if err != nil {
		s.failLogin(ctx, err)
		return err
	}
	return s.completeLogin(ctx, identity)
}

// LoginWithProvider authenticates via the external provider. Same contract
// as Login without local validation.
func (s *Service) LoginWithProvider(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	identity, err := s.provider.AuthenticateExternal(ctx)
	if err != nil {
		s.failLogin(ctx, err)
		return err
	}
	return s.completeLogin(ctx, identity)
}

func (s *Service) completeLogin(ctx context.Context, identity Identity) error {
	sess := &models.Session{
		Email:            identity.Email,
		DisplayName:      identity.DisplayName,
		MailboxConnected: false,
	}

	if err := s.store.Save(ctx, sess); err != nil {
		s.failLogin(ctx, err)
		return fmt.Errorf("persist session: %w", err)
	}

	s.logger.Info("logged in", "email", sess.Email)
	s.setState(StateAuthenticated, sess)
	return nil
}

func (s *Service) failLogin(ctx context.Context, cause error) {
	s.logger.Warn("login failed", "error", cause)
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear session snapshot", "error", err)
	}
	s.events.Publish(ctx, notify.Event{Kind: notify.KindError, Message: "Login failed. Please try again."})
	s.setState(StateAnonymous, nil)
}

// Logout clears the session and its persisted snapshot unconditionally.
// It cannot fail and is idempotent when already logged out.
func (s *Service) Logout(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear session snapshot", "error", err)
	}

	s.logger.Info("logged out")
	s.setState(StateAnonymous, nil)
}

// ConnectMailbox links the user's inbox. Requires a session; on remote or
// persistence failure the session is left untouched.
func (s *Service) ConnectMailbox(ctx context.Context, tokens map[string]string) error {
	return s.setMailbox(ctx, true, tokens)
}

// DisconnectMailbox unlinks the inbox. Calling it while already
// disconnected succeeds without contacting the remote collaborator.
func (s *Service) DisconnectMailbox(ctx context.Context) error {
	return s.setMailbox(ctx, false, nil)
}

func (s *Service) setMailbox(ctx context.Context, connected bool, tokens map[string]string) error {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	if s.inFlight {
		s.mu.Unlock()
		return ErrOperationInFlight
	}
	if s.session.MailboxConnected == connected {
		// Already in the requested state; idempotent no-op.
		s.mu.Unlock()
		return nil
	}
	s.inFlight = true
	s.mu.Unlock()
	defer s.end()

	var err error
	if connected {
		err = s.client.ConnectMailbox(ctx, tokens)
	} else {
		err = s.client.DisconnectMailbox(ctx)
	}
	if err != nil {
		s.logger.Warn("mailbox call failed", "connected", connected, "error", err)
		s.events.Publish(ctx, notify.Event{Kind: notify.KindError, Message: mailboxFailureMessage(connected)})
		return err
	}

	// Persist and flip the flag in one critical section so a logout racing
	// the tail of the call cannot see a half-applied session.
	s.mu.Lock()
	if s.session == nil {
		// Logged out while the call was in flight; nothing to update.
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	updated := *s.session
	updated.MailboxConnected = connected
	if err := s.store.Save(ctx, &updated); err != nil {
		// Session stays unchanged: the flag flips only on a full success.
		s.mu.Unlock()
		s.logger.Warn("failed to persist mailbox state", "error", err)
		s.events.Publish(ctx, notify.Event{Kind: notify.KindError, Message: mailboxFailureMessage(connected)})
		return err
	}
	s.session = &updated
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	s.logger.Info("mailbox state changed", "connected", connected)
	s.events.Publish(ctx, notify.Event{Kind: notify.KindInfo, Message: mailboxSuccessMessage(connected)})
	for _, fn := range listeners {
		fn(StateAuthenticated)
	}
	return nil
}

func mailboxFailureMessage(connected bool) string {
	if connected {
		return "Failed to connect mailbox. Please try again."
	}
	return "Failed to disconnect mailbox. Please try again."
}

func mailboxSuccessMessage(connected bool) string {
	if connected {
		return "Mailbox connected"
	}
	return "Mailbox disconnected"
}
