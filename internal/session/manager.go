package session

// Package session owns the authoritative auth-session state for the process.
// A Manager holds exactly one subscription to the identity provider and
// folds provider callbacks plus explicit operations (register, login,
// logout) into a single guarded state: identity, profile, loading flag, and
// the last operation error.

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	apperrors "github.com/parkease/parkeased/internal/errors"
	"github.com/parkease/parkeased/internal/ports"
)

// Manager coordinates the identity provider, the profile store, and the
// role resolver. It starts in the loading state and leaves it on the first
// auth-state callback from the provider.
type Manager struct {
	provider ports.IdentityProvider
	profiles ports.ProfileStore
	roles    ports.RoleResolver
	logger   *slog.Logger
	now      func() time.Time

	// opMu serializes state-changing operations so callbacks interleave
	// with at most one operation at a time.
	opMu sync.Mutex

	mu        sync.Mutex
	identity  *domainauth.Identity
	profile   *domainauth.Profile
	loading   bool
	lastError string
	unsub     func()
}

// ManagerOptions groups dependencies for NewManager.
type ManagerOptions struct {
	Provider ports.IdentityProvider
	Profiles ports.ProfileStore
	Roles    ports.RoleResolver
	Logger   *slog.Logger
	// Now overrides the clock used for profile creation timestamps.
	Now func() time.Time
}

// NewManager creates a session manager. The manager is inert until Start.
func NewManager(opts ManagerOptions) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		provider: opts.Provider,
		profiles: opts.Profiles,
		roles:    opts.Roles,
		logger:   logger.With("component", "session"),
		now:      now,
		loading:  true,
	}
}

// Start subscribes to the provider's auth-state changes. The subscription
// delivers the current state immediately, which resolves the loading flag.
// Start is idempotent.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.unsub != nil {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	unsub := m.provider.Subscribe(func(ident *domainauth.Identity) {
		m.handleAuthState(ctx, ident)
	})

	m.mu.Lock()
	m.unsub = unsub
	m.mu.Unlock()
}

// Stop releases the provider subscription.
func (m *Manager) Stop() {
	m.mu.Lock()
	unsub := m.unsub
	m.unsub = nil
	m.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Snapshot returns a point-in-time copy of the session state.
func (m *Manager) Snapshot() domainauth.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domainauth.Session{
		Identity:  m.identity,
		Profile:   m.profile,
		Loading:   m.loading,
		LastError: m.lastError,
	}
}

// handleAuthState is the single subscription callback. A nil identity means
// signed out. A non-nil identity triggers a profile fetch; fetch failures
// are logged but never tear down the authenticated state.
func (m *Manager) handleAuthState(ctx context.Context, ident *domainauth.Identity) {
	if ident == nil {
		m.mu.Lock()
		m.identity = nil
		m.profile = nil
		m.loading = false
		m.mu.Unlock()
		return
	}

	profile, err := m.profiles.Get(ctx, ident.UID)
	if err != nil && !errors.Is(err, ports.ErrProfileNotFound) {
		m.logger.WarnContext(ctx, "profile fetch failed; continuing without profile",
			"uid", ident.UID, "error", apperrors.ProfileFetch(err))
		profile = nil
	}

	m.mu.Lock()
	m.identity = ident
	m.profile = profile
	m.loading = false
	m.mu.Unlock()
}

// Register creates an email+password account, derives the role for the
// email, and writes a fresh profile record (full overwrite). A failed
// profile write is fatal: the account exists provider-side but the
// operation reports the write error.
func (m *Manager) Register(ctx context.Context, email, password, displayName string) (domainauth.Session, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	m.clearError()

	ident, err := m.provider.CreateAccount(ctx, email, password)
	if err != nil {
		return m.failOp(err, apperrors.Auth(err, ports.ProviderCode(err)))
	}

	if displayName == "" {
		displayName = ident.DisplayName
	}
	profile := domainauth.Profile{
		ID:          ident.UID,
		Email:       ident.Email,
		Role:        m.roles.Resolve(ident.Email),
		DisplayName: displayName,
		CreatedAt:   m.now().UTC(),
	}
	if err := m.profiles.Set(ctx, profile, false); err != nil {
		return m.failOp(err, apperrors.ProfileWrite(err))
	}

	m.adoptProfile(&profile)
	return m.Snapshot(), nil
}

// Login performs an email+password sign-in. The role is read from the
// persisted profile, never re-derived here.
func (m *Manager) Login(ctx context.Context, email, password string) (domainauth.Session, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	m.clearError()

	if _, err := m.provider.SignIn(ctx, email, password); err != nil {
		return m.failOp(err, apperrors.Auth(err, ports.ProviderCode(err)))
	}
	return m.Snapshot(), nil
}

// GoogleLoginResult reports the outcome of LoginWithGoogle. When the popup
// channel is blocked the login continues via redirect: RedirectStarted is
// true and the session is unchanged until the redirect completes.
type GoogleLoginResult struct {
	Session         domainauth.Session
	RedirectStarted bool
}

// LoginWithGoogle performs the federated login. The popup flow is tried
// first; a popup-blocked failure falls back to the redirect flow without
// surfacing an error. Any other provider failure is reported.
func (m *Manager) LoginWithGoogle(ctx context.Context) (GoogleLoginResult, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	m.clearError()

	ident, err := m.provider.SignInWithPopup(ctx)
	if err != nil {
		if ports.IsPopupBlocked(err) {
			m.logger.InfoContext(ctx, "popup blocked; falling back to redirect login")
			if redirectErr := m.provider.SignInWithRedirect(ctx); redirectErr != nil {
				_, appErr := m.failOp(redirectErr, apperrors.Auth(redirectErr, ports.ProviderCode(redirectErr)))
				return GoogleLoginResult{Session: m.Snapshot()}, appErr
			}
			return GoogleLoginResult{Session: m.Snapshot(), RedirectStarted: true}, nil
		}
		_, appErr := m.failOp(err, apperrors.Auth(err, ports.ProviderCode(err)))
		return GoogleLoginResult{Session: m.Snapshot()}, appErr
	}

	if err := m.upsertFederatedProfile(ctx, ident); err != nil {
		return GoogleLoginResult{Session: m.Snapshot()}, err
	}
	return GoogleLoginResult{Session: m.Snapshot()}, nil
}

// CollectRedirectResult completes a redirect-based federated login if one
// is pending. It returns (false, nil) when there is nothing to collect.
func (m *Manager) CollectRedirectResult(ctx context.Context) (bool, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	ident, err := m.provider.RedirectResult(ctx)
	if err != nil {
		_, appErr := m.failOp(err, apperrors.Auth(err, ports.ProviderCode(err)))
		return false, appErr
	}
	if ident == nil {
		return false, nil
	}

	m.clearError()
	if err := m.upsertFederatedProfile(ctx, *ident); err != nil {
		return true, err
	}
	return true, nil
}

// upsertFederatedProfile writes the merge-upsert profile record for a
// federated identity. The role is derived fresh from the allow-lists; the
// merge keeps stored fields the incoming record leaves empty and the
// original creation timestamp, so repeating the login is idempotent. A
// failed write is fatal to the operation.
func (m *Manager) upsertFederatedProfile(ctx context.Context, ident domainauth.Identity) error {
	profile := domainauth.Profile{
		ID:          ident.UID,
		Email:       ident.Email,
		Role:        m.roles.Resolve(ident.Email),
		DisplayName: ident.DisplayName,
		CreatedAt:   m.now().UTC(),
	}
	if err := m.profiles.Set(ctx, profile, true); err != nil {
		_, appErr := m.failOp(err, apperrors.ProfileWrite(err))
		return appErr
	}

	// Re-read so merged fields (created timestamp, kept display name)
	// reflect the stored record rather than the sparse write.
	stored, err := m.profiles.Get(ctx, ident.UID)
	if err != nil {
		m.logger.WarnContext(ctx, "profile fetch after federated upsert failed",
			"uid", ident.UID, "error", apperrors.ProfileFetch(err))
		stored = &profile
	}
	m.adoptProfile(stored)
	return nil
}

// Logout signs out of the provider. The subscription callback clears the
// identity and profile.
func (m *Manager) Logout(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	m.clearError()

	if err := m.provider.SignOut(ctx); err != nil {
		_, appErr := m.failOp(err, apperrors.Auth(err, ports.ProviderCode(err)))
		return appErr
	}
	return nil
}

// adoptProfile installs the profile for the current identity.
func (m *Manager) adoptProfile(profile *domainauth.Profile) {
	m.mu.Lock()
	m.profile = profile
	m.mu.Unlock()
}

// clearError resets the last operation error. Every operation starts clean.
func (m *Manager) clearError() {
	m.mu.Lock()
	m.lastError = ""
	m.mu.Unlock()
}

// failOp records err as the last operation error and returns the snapshot
// alongside the mapped application error.
func (m *Manager) failOp(err error, appErr error) (domainauth.Session, error) {
	m.mu.Lock()
	m.lastError = err.Error()
	m.mu.Unlock()
	return m.Snapshot(), appErr
}
