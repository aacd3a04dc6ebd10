package auth

import (
	"context"
	"strings"
	"time"
)

// Identity is what the auth collaborator vouches for on a successful login.
type Identity struct {
	Email       string
	DisplayName string
}

// Provider is the external auth collaborator. Authenticate verifies local
// credentials; AuthenticateExternal runs the social-login round trip. Both
// are asynchronous remote calls from the caller's point of view.
type Provider interface {
	Authenticate(ctx context.Context, identifier, secret string) (Identity, error)
	AuthenticateExternal(ctx context.Context) (Identity, error)
}

// StubProvider accepts any credentials and derives the display name from
// the identifier's local part. Stands in until a real auth backend exists.
type StubProvider struct {
	latency time.Duration
}

// NewStubProvider creates a stub auth collaborator with simulated latency.
func NewStubProvider(latency time.Duration) *StubProvider {
	return &StubProvider{latency: latency}
}

func (p *StubProvider) wait(ctx context.Context) error {
	if p.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *StubProvider) Authenticate(ctx context.Context, identifier, secret string) (Identity, error) {
	_ = secret
	if err := p.wait(ctx); err != nil {
		return Identity{}, err
	}

	name := identifier
	if at := strings.Index(identifier, "@"); at > 0 {
		name = identifier[:at]
	}
	return Identity{Email: identifier, DisplayName: name}, nil
}

func (p *StubProvider) AuthenticateExternal(ctx context.Context) (Identity, error) {
	if err := p.wait(ctx); err != nil {
		return Identity{}, err
	}
	return Identity{Email: "user@example.com", DisplayName: "Demo User"}, nil
}
