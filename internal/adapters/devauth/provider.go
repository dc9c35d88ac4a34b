package devauth

// Package devauth provides a simple, in-memory IdentityProvider for local
// development and testing. Accounts live for the process lifetime only.

import (
	"context"
	"sync"

	"github.com/google/uuid"

	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	"github.com/parkease/parkeased/internal/ports"
)

// Config controls the dev identity provider behavior.
type Config struct {
	// GoogleUID, GoogleEmail, and GoogleName shape the identity returned
	// by the federated login paths. An empty UID gets a random one.
	GoogleUID   string
	GoogleEmail string
	GoogleName  string

	// BlockPopups makes SignInWithPopup fail with the popup-blocked code,
	// exercising the redirect fallback.
	BlockPopups bool
}

type account struct {
	uid         string
	password    string
	displayName string
}

// Provider implements ports.IdentityProvider backed by process memory.
// It honors the subscription contract: every state change is delivered to
// every subscriber exactly once, in order.
type Provider struct {
	mu          sync.Mutex
	accounts    map[string]account // keyed by email
	current     *domainauth.Identity
	pending     *domainauth.Identity // redirect result awaiting collection
	subs        map[int]func(*domainauth.Identity)
	nextSub     int
	googleUID   string
	googleEmail string
	googleName  string
	blockPopups bool
}

var _ ports.IdentityProvider = (*Provider)(nil)

// NewProvider constructs a dev identity provider from Config.
func NewProvider(cfg Config) *Provider {
	email := cfg.GoogleEmail
	if email == "" {
		email = "dev@example.com"
	}
	name := cfg.GoogleName
	if name == "" {
		name = "Dev User"
	}
	uid := cfg.GoogleUID
	if uid == "" {
		uid = uuid.NewString()
	}
	return &Provider{
		accounts:    make(map[string]account),
		subs:        make(map[int]func(*domainauth.Identity)),
		googleUID:   uid,
		googleEmail: email,
		googleName:  name,
		blockPopups: cfg.BlockPopups,
	}
}

func (p *Provider) CreateAccount(_ context.Context, email, password string) (domainauth.Identity, error) {
	p.mu.Lock()
	if _, exists := p.accounts[email]; exists {
		p.mu.Unlock()
		return domainauth.Identity{}, ports.NewProviderError(
			ports.CodeEmailInUse, "EMAIL_EXISTS: the email address is already in use by another account")
	}
	acct := account{uid: uuid.NewString(), password: password}
	p.accounts[email] = acct
	ident := domainauth.Identity{UID: acct.uid, Email: email, Provider: "password"}
	p.current = &ident
	subs := p.snapshotSubs()
	p.mu.Unlock()

	notify(subs, &ident)
	return ident, nil
}

func (p *Provider) SignIn(_ context.Context, email, password string) (domainauth.Identity, error) {
	p.mu.Lock()
	acct, exists := p.accounts[email]
	if !exists || acct.password != password {
		p.mu.Unlock()
		return domainauth.Identity{}, ports.NewProviderError(
			ports.CodeInvalidCredential, "INVALID_LOGIN_CREDENTIALS")
	}
	ident := domainauth.Identity{UID: acct.uid, Email: email, DisplayName: acct.displayName, Provider: "password"}
	p.current = &ident
	subs := p.snapshotSubs()
	p.mu.Unlock()

	notify(subs, &ident)
	return ident, nil
}

func (p *Provider) SignInWithPopup(_ context.Context) (domainauth.Identity, error) {
	p.mu.Lock()
	if p.blockPopups {
		p.mu.Unlock()
		return domainauth.Identity{}, ports.NewProviderError(
			ports.CodePopupBlocked, "popup window was blocked by the browser")
	}
	ident := p.googleIdentity()
	p.current = &ident
	subs := p.snapshotSubs()
	p.mu.Unlock()

	notify(subs, &ident)
	return ident, nil
}

func (p *Provider) SignInWithRedirect(_ context.Context) error {
	p.mu.Lock()
	ident := p.googleIdentity()
	p.pending = &ident
	p.mu.Unlock()
	return nil
}

func (p *Provider) RedirectResult(_ context.Context) (*domainauth.Identity, error) {
	p.mu.Lock()
	if p.pending == nil {
		p.mu.Unlock()
		return nil, nil
	}
	ident := *p.pending
	p.pending = nil
	p.current = &ident
	subs := p.snapshotSubs()
	p.mu.Unlock()

	notify(subs, &ident)
	return &ident, nil
}

func (p *Provider) SignOut(_ context.Context) error {
	p.mu.Lock()
	p.current = nil
	subs := p.snapshotSubs()
	p.mu.Unlock()

	notify(subs, nil)
	return nil
}

// Subscribe registers fn and delivers the current auth state immediately,
// mirroring the initial callback real providers fire on subscription.
func (p *Provider) Subscribe(fn func(*domainauth.Identity)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	current := p.current
	p.mu.Unlock()

	fn(current)

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// googleIdentity returns the configured federated identity. Callers hold mu.
func (p *Provider) googleIdentity() domainauth.Identity {
	return domainauth.Identity{
		UID:         p.googleUID,
		Email:       p.googleEmail,
		DisplayName: p.googleName,
		Provider:    "google.com",
	}
}

// snapshotSubs copies the subscriber set. Callers hold mu; the copy lets
// notifications run without the lock so callbacks can re-enter the provider.
func (p *Provider) snapshotSubs() []func(*domainauth.Identity) {
	out := make([]func(*domainauth.Identity), 0, len(p.subs))
	for _, fn := range p.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(*domainauth.Identity), ident *domainauth.Identity) {
	for _, fn := range subs {
		fn(ident)
	}
}
