package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Alipio135/dropmail-ai-reply-55/internal/notify"
	"github.com/Alipio135/dropmail-ai-reply-55/internal/session"
	"github.com/Alipio135/dropmail-ai-reply-55/pkg/models"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

type fakeProvider struct {
	identity Identity
	err      error
	calls    int
	started  chan struct{} // closed when a call begins, if set
	release  chan struct{} // call blocks until closed, if set
}

func (p *fakeProvider) Authenticate(ctx context.Context, identifier, secret string) (Identity, error) {
	_, _, _ = ctx, identifier, secret
	p.calls++
	if p.started != nil {
		close(p.started)
		p.started = nil
	}
	if p.release != nil {
		<-p.release
	}
	if p.err != nil {
		return Identity{}, p.err
	}
	return p.identity, nil
}

func (p *fakeProvider) AuthenticateExternal(ctx context.Context) (Identity, error) {
	return p.Authenticate(ctx, "", "")
}

type fakeClient struct {
	connectCalls    int
	disconnectCalls int
	connectErr      error
	disconnectErr   error
}

func (c *fakeClient) ConnectMailbox(_ context.Context, _ map[string]string) error {
	c.connectCalls++
	return c.connectErr
}

func (c *fakeClient) DisconnectMailbox(_ context.Context) error {
	c.disconnectCalls++
	return c.disconnectErr
}

func (c *fakeClient) ListEmails(_ context.Context) ([]models.EmailMessage, error) {
	return nil, nil
}

func (c *fakeClient) GenerateReply(_ context.Context, _, _ string) (string, error) {
	return "", nil
}

func (c *fakeClient) SendReply(_ context.Context, _, _ string) error {
	return nil
}

// failingStore wraps a Store and fails writes on demand.
type failingStore struct {
	session.Store
	saveErr error
}

func (s *failingStore) Save(ctx context.Context, sess *models.Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.Store.Save(ctx, sess)
}

type recordingSink struct {
	mu     sync.Mutex
	events []notify.Event
}

func (s *recordingSink) Publish(_ context.Context, ev notify.Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	svc      *Service
	store    *session.MemoryStore
	provider *fakeProvider
	client   *fakeClient
	sink     *recordingSink
}

func newTestEnv(provider *fakeProvider) *testEnv {
	store := session.NewMemoryStore(session.NewCodec(testKey))
	client := &fakeClient{}
	sink := &recordingSink{}
	svc := NewService(Deps{
		Store:    store,
		Provider: provider,
		Client:   client,
		Events:   sink,
		Logger:   discardLogger(),
	})
	return &testEnv{svc: svc, store: store, provider: provider, client: client, sink: sink}
}

func TestLoginValidation(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		secret     string
	}{
		{name: "empty identifier", identifier: "", secret: "pw"},
		{name: "empty secret", identifier: "a@b.c", secret: ""},
		{name: "both empty", identifier: "", secret: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(&fakeProvider{})
			err := env.svc.Login(context.Background(), tt.identifier, tt.secret)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Login() error = %v, want ValidationError", err)
			}
			if env.provider.calls != 0 {
				t.Error("validation failure must not reach the provider")
			}
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(&fakeProvider{identity: Identity{Email: "john@x.com", DisplayName: "john"}})
	ctx := context.Background()

	if err := env.svc.Login(ctx, "john@x.com", "anything"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if env.svc.State() != StateAuthenticated {
		t.Errorf("State() = %v, want authenticated", env.svc.State())
	}

	sess := env.svc.Session()
	want := models.Session{Email: "john@x.com", DisplayName: "john", MailboxConnected: false}
	if sess == nil || *sess != want {
		t.Errorf("Session() = %+v, want %+v", sess, want)
	}

	stored, err := env.store.Load(ctx)
	if err != nil {
		t.Fatalf("store.Load() error = %v", err)
	}
	if stored == nil || *stored != want {
		t.Errorf("persisted session = %+v, want %+v", stored, want)
	}
}

func TestStubProviderDerivesDisplayName(t *testing.T) {
	id, err := NewStubProvider(0).Authenticate(context.Background(), "john@x.com", "anything")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if id.Email != "john@x.com" || id.DisplayName != "john" {
		t.Errorf("identity = %+v", id)
	}
}

func TestLoginThenLogout(t *testing.T) {
	env := newTestEnv(&fakeProvider{identity: Identity{Email: "a@b.c"}})
	ctx := context.Background()

	if err := env.svc.Login(ctx, "a@b.c", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	env.svc.Logout(ctx)

	if env.svc.State() != StateAnonymous {
		t.Errorf("State() = %v, want anonymous", env.svc.State())
	}
	if env.svc.Session() != nil {
		t.Error("Session() should be nil after logout")
	}
	stored, _ := env.store.Load(ctx)
	if stored != nil {
		t.Error("storage should hold no session record after logout")
	}

	// Logging out twice is fine.
	env.svc.Logout(ctx)
	if env.svc.State() != StateAnonymous {
		t.Error("repeated Logout() must stay anonymous")
	}
}

func TestFailedLoginNeverAuthenticates(t *testing.T) {
	env := newTestEnv(&fakeProvider{identity: Identity{Email: "a@b.c"}})
	ctx := context.Background()

	// Authenticate first, then fail a second login attempt: the prior
	// session must not be resurrected.
	if err := env.svc.Login(ctx, "a@b.c", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	env.provider.err = errors.New("remote says no")

	if err := env.svc.Login(ctx, "a@b.c", "pw"); err == nil {
		t.Fatal("Login() should propagate the provider error")
	}
	if env.svc.State() != StateAnonymous {
		t.Errorf("State() after failed login = %v, want anonymous", env.svc.State())
	}
	if env.svc.Session() != nil {
		t.Error("failed login must leave no session")
	}
}

func TestLoginWithProvider(t *testing.T) {
	env := newTestEnv(&fakeProvider{identity: Identity{Email: "user@example.com", DisplayName: "Demo User"}})

	if err := env.svc.LoginWithProvider(context.Background()); err != nil {
		t.Fatalf("LoginWithProvider() error = %v", err)
	}
	sess := env.svc.Session()
	if sess == nil || sess.Email != "user@example.com" {
		t.Errorf("Session() = %+v", sess)
	}
}

func TestPersistFailureFailsLogin(t *testing.T) {
	env := newTestEnv(&fakeProvider{identity: Identity{Email: "a@b.c"}})
	env.svc.store = &failingStore{Store: env.store, saveErr: errors.New("disk full")}

	if err := env.svc.Login(context.Background(), "a@b.c", "pw"); err == nil {
		t.Fatal("Login() should fail when the snapshot cannot be persisted")
	}
	if env.svc.State() != StateAnonymous {
		t.Errorf("State() = %v, want anonymous", env.svc.State())
	}
}

func TestConnectMailboxRequiresSession(t *testing.T) {
	env := newTestEnv(&fakeProvider{})

	err := env.svc.ConnectMailbox(context.Background(), nil)
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("ConnectMailbox() error = %v, want ErrNotAuthenticated", err)
	}
	if env.client.connectCalls != 0 {
		t.Error("remote collaborator must not be contacted without a session")
	}
}

func TestConnectMailboxSuccess(t *testing.T) {
	env := newTestEnv(&fakeProvider{identity: Identity{Email: "a@b.c"}})
	ctx := context.Background()

	if err := env.svc.Login(ctx, "a@b.c", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := env.svc.ConnectMailbox(ctx, map[string]string{"t": "x"}); err != nil {
		t.Fatalf("ConnectMailbox() error = %v", err)
	}

	if sess := env.svc.Session(); sess == nil || !sess.MailboxConnected {
		t.Errorf("Session() = %+v, want mailbox connected", env.svc.Session())
	}
	stored, _ := env.store.Load(ctx)
	if stored == nil || !stored.MailboxConnected {
		t.Error("connected flag must be persisted")
	}
	if env.client.connectCalls != 1 {
		t.Errorf("connect calls = %d, want 1", env.client.connectCalls)
	}
}

func TestConnectMailboxRemoteFailureLeavesSessionUntouched(t *testing.T) {
	env := newTestEnv(&fakeProvider{identity: Identity{Email: "a@b.c"}})
	ctx := context.Background()

	if err := env.svc.Login(ctx, "a@b.c", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	env.client.connectErr = errors.New("remote down")

	if err := env.svc.ConnectMailbox(ctx, nil); err == nil {
		t.Fatal("ConnectMailbox() should surface the remote error")
	}
	if sess := env.svc.Session(); sess == nil || sess.MailboxConnected {
		t.Errorf("Session() = %+v, want unchanged (disconnected)", env.svc.Session())
	}
	stored, _ := env.store.Load(ctx)
	if stored == nil || stored.MailboxConnected {
		t.Error("persisted snapshot must be unchanged on failure")
	}
}

func TestConnectMailboxPersistFailureLeavesSessionUntouched(t *testing.T) {
	env := newTestEnv(&fakeProvider{identity: Identity{Email: "a@b.c"}})
	ctx := context.Background()

	if err := env.svc.Login(ctx, "a@b.c", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	env.svc.store = &failingStore{Store: env.store, saveErr: errors.New("disk full")}

	if err := env.svc.ConnectMailbox(ctx, nil); err == nil {
		t.Fatal("ConnectMailbox() should fail when persistence fails")
	}
	if sess := env.svc.Session(); sess == nil || sess.MailboxConnected {
		t.Errorf("Session() = %+v, want unchanged", env.svc.Session())
	}
}

func TestDisconnectMailboxIdempotent(t *testing.T) {
	env := newTestEnv(&fakeProvider{identity: Identity{Email: "a@b.c"}})
	ctx := context.Background()

	if err := env.svc.Login(ctx, "a@b.c", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := env.svc.ConnectMailbox(ctx, nil); err != nil {
		t.Fatalf("ConnectMailbox() error = %v", err)
	}

	if err := env.svc.DisconnectMailbox(ctx); err != nil {
		t.Fatalf("DisconnectMailbox() error = %v", err)
	}
	if err := env.svc.DisconnectMailbox(ctx); err != nil {
		t.Fatalf("second DisconnectMailbox() error = %v", err)
	}

	if sess := env.svc.Session(); sess == nil || sess.MailboxConnected {
		t.Errorf("Session() = %+v, want disconnected", env.svc.Session())
	}
	if env.client.disconnectCalls != 1 {
		t.Errorf("disconnect calls = %d, want 1 (second call is a local no-op)", env.client.disconnectCalls)
	}
}

func TestSecondLoginWhileInFlightIsRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	env := newTestEnv(&fakeProvider{
		identity: Identity{Email: "a@b.c"},
		started:  started,
		release:  release,
	})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- env.svc.Login(ctx, "a@b.c", "pw")
	}()
	<-started

	if err := env.svc.Login(ctx, "a@b.c", "pw"); !errors.Is(err, ErrOperationInFlight) {
		t.Errorf("concurrent Login() error = %v, want ErrOperationInFlight", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Login() error = %v", err)
	}
	if env.svc.State() != StateAuthenticated {
		t.Errorf("State() = %v, want authenticated", env.svc.State())
	}
}

func TestRestore(t *testing.T) {
	env := newTestEnv(&fakeProvider{})
	ctx := context.Background()

	if env.svc.State() != StateUnknown {
		t.Fatalf("fresh service state = %v, want unknown", env.svc.State())
	}

	want := models.Session{Email: "a@b.c", DisplayName: "a", MailboxConnected: true}
	if err := env.store.Save(ctx, &want); err != nil {
		t.Fatalf("store.Save() error = %v", err)
	}

	env.svc.Restore(ctx)
	if env.svc.State() != StateAuthenticated {
		t.Errorf("State() = %v, want authenticated", env.svc.State())
	}
	if sess := env.svc.Session(); sess == nil || *sess != want {
		t.Errorf("Session() = %+v, want %+v", env.svc.Session(), want)
	}
}

func TestRestoreWithCorruptSnapshot(t *testing.T) {
	env := newTestEnv(&fakeProvider{})
	ctx := context.Background()

	if err := env.store.Save(ctx, &models.Session{Email: "a@b.c"}); err != nil {
		t.Fatalf("store.Save() error = %v", err)
	}
	env.store.Corrupt()

	env.svc.Restore(ctx)
	if env.svc.State() != StateAnonymous {
		t.Errorf("State() = %v, want anonymous (corruption fails open to logged out)", env.svc.State())
	}
}
