package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	"github.com/parkease/parkeased/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*MockIdentityProvider)(nil)
	_ ports.ProfileStore     = (*MemoryProfileStore)(nil)
	_ ports.RoleResolver     = (*FuncRoleResolver)(nil)
)

// MockIdentityProvider simulates the identity provider for tests. Every
// operation can be overridden with a func field; the default behavior keeps
// an in-memory current identity and fans out subscription callbacks the way
// the real provider does.
type MockIdentityProvider struct {
	CreateAccountFunc      func(ctx context.Context, email, password string) (domainauth.Identity, error)
	SignInFunc             func(ctx context.Context, email, password string) (domainauth.Identity, error)
	SignInWithPopupFunc    func(ctx context.Context) (domainauth.Identity, error)
	SignInWithRedirectFunc func(ctx context.Context) error
	RedirectResultFunc     func(ctx context.Context) (*domainauth.Identity, error)
	SignOutFunc            func(ctx context.Context) error

	// DefaultIdentity is returned by the default sign-in behaviors.
	DefaultIdentity domainauth.Identity

	mu      sync.Mutex
	current *domainauth.Identity
	subs    map[int]func(*domainauth.Identity)
	nextSub int
}

// NewMockIdentityProvider creates a MockIdentityProvider with a sensible default identity.
func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{
		DefaultIdentity: domainauth.Identity{
			UID:         "mock-uid-1",
			Email:       "mock.user@example.com",
			DisplayName: "Mock User",
			Provider:    "password",
		},
		subs: make(map[int]func(*domainauth.Identity)),
	}
}

// CreateAccount registers an account; default adopts DefaultIdentity with the given email.
func (m *MockIdentityProvider) CreateAccount(ctx context.Context, email, password string) (domainauth.Identity, error) {
	if m.CreateAccountFunc != nil {
		ident, err := m.CreateAccountFunc(ctx, email, password)
		if err == nil {
			m.Emit(&ident)
		}
		return ident, err
	}
	ident := m.DefaultIdentity
	ident.Email = email
	m.Emit(&ident)
	return ident, nil
}

// SignIn signs in; default adopts DefaultIdentity with the given email.
func (m *MockIdentityProvider) SignIn(ctx context.Context, email, password string) (domainauth.Identity, error) {
	if m.SignInFunc != nil {
		ident, err := m.SignInFunc(ctx, email, password)
		if err == nil {
			m.Emit(&ident)
		}
		return ident, err
	}
	ident := m.DefaultIdentity
	ident.Email = email
	m.Emit(&ident)
	return ident, nil
}

// SignInWithPopup performs the interactive federated login.
func (m *MockIdentityProvider) SignInWithPopup(ctx context.Context) (domainauth.Identity, error) {
	if m.SignInWithPopupFunc != nil {
		ident, err := m.SignInWithPopupFunc(ctx)
		if err == nil {
			m.Emit(&ident)
		}
		return ident, err
	}
	ident := m.DefaultIdentity
	ident.Provider = "google.com"
	m.Emit(&ident)
	return ident, nil
}

// SignInWithRedirect starts a redirect login; default is a no-op success.
func (m *MockIdentityProvider) SignInWithRedirect(ctx context.Context) error {
	if m.SignInWithRedirectFunc != nil {
		return m.SignInWithRedirectFunc(ctx)
	}
	return nil
}

// RedirectResult returns the pending redirect identity; default none.
func (m *MockIdentityProvider) RedirectResult(ctx context.Context) (*domainauth.Identity, error) {
	if m.RedirectResultFunc != nil {
		ident, err := m.RedirectResultFunc(ctx)
		if err == nil && ident != nil {
			m.Emit(ident)
		}
		return ident, err
	}
	return nil, nil
}

// SignOut destroys the current identity.
func (m *MockIdentityProvider) SignOut(ctx context.Context) error {
	if m.SignOutFunc != nil {
		if err := m.SignOutFunc(ctx); err != nil {
			return err
		}
	}
	m.Emit(nil)
	return nil
}

// Subscribe registers fn and delivers the current state immediately.
func (m *MockIdentityProvider) Subscribe(fn func(*domainauth.Identity)) func() {
	m.mu.Lock()
	if m.subs == nil {
		m.subs = make(map[int]func(*domainauth.Identity))
	}
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	current := m.current
	m.mu.Unlock()

	fn(current)

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Emit sets the current identity and notifies all subscribers. Tests can
// call it directly to simulate provider-side auth state changes.
func (m *MockIdentityProvider) Emit(ident *domainauth.Identity) {
	m.mu.Lock()
	m.current = ident
	subs := make([]func(*domainauth.Identity), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(ident)
	}
}

// Current returns the identity the provider currently holds.
func (m *MockIdentityProvider) Current() *domainauth.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// MemoryProfileStore is an in-memory ports.ProfileStore with error injection.
type MemoryProfileStore struct {
	// GetErr/SetErr are returned verbatim when non-nil.
	GetErr error
	SetErr error

	mu       sync.Mutex
	profiles map[string]domainauth.Profile
	setCalls int
}

// NewMemoryProfileStore creates an empty profile store.
func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: make(map[string]domainauth.Profile)}
}

// Get fetches the profile for id.
func (s *MemoryProfileStore) Get(_ context.Context, id string) (*domainauth.Profile, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, ports.ErrProfileNotFound
	}
	out := p
	return &out, nil
}

// Set stores the profile record, honoring the merge contract.
func (s *MemoryProfileStore) Set(_ context.Context, profile domainauth.Profile, merge bool) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	if profile.ID == "" {
		return errors.New("profile id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls++

	if merge {
		if existing, ok := s.profiles[profile.ID]; ok {
			if profile.Email == "" {
				profile.Email = existing.Email
			}
			if profile.Role == "" {
				profile.Role = existing.Role
			}
			if profile.DisplayName == "" {
				profile.DisplayName = existing.DisplayName
			}
			if !existing.CreatedAt.IsZero() {
				profile.CreatedAt = existing.CreatedAt
			}
		}
	}
	s.profiles[profile.ID] = profile
	return nil
}

// SetCalls reports how many successful Set calls the store has seen.
func (s *MemoryProfileStore) SetCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCalls
}

// Seed places a profile directly into the store without counting as a Set call.
func (s *MemoryProfileStore) Seed(profile domainauth.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = profile
}

// FuncRoleResolver adapts a function to ports.RoleResolver.
type FuncRoleResolver func(email string) domainauth.Role

// Resolve derives the role for an email.
func (f FuncRoleResolver) Resolve(email string) domainauth.Role {
	return f(email)
}
