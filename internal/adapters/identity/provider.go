package identity

// Package identity implements ports.IdentityProvider against a hosted
// identity service: email+password accounts through the service's REST API
// and federated Google login through OIDC/OAuth2.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	"github.com/parkease/parkeased/internal/ports"
)

// Config holds configuration for the identity provider adapter.
type Config struct {
	// OIDC client credentials for the federated (Google) login.
	ClientID     string
	ClientSecret string
	// DiscoveryURL is the issuer or its discovery document URL.
	DiscoveryURL string
	// Scope defaults to "openid profile email".
	Scope string
	// RedirectURL is the server-side callback used by the redirect flow.
	RedirectURL string

	// AccountsBaseURL and APIKey locate the credential REST API
	// (accounts:signUp / accounts:signInWithPassword).
	AccountsBaseURL string
	APIKey          string

	// PopupListenAddr is the loopback address bound for the interactive
	// popup flow. When the address cannot be bound the popup login fails
	// with the popup-blocked code.
	PopupListenAddr string

	// OpenURL presents an auth URL to the person signing in. The default
	// logs the URL.
	OpenURL func(url string) error

	HTTPClient *http.Client // optional, defaults to a 30s-timeout client
	Logger     *slog.Logger
}

// Provider implements ports.IdentityProvider.
type Provider struct {
	config       *oauth2.Config
	accountsBase string
	apiKey       string
	popupAddr    string
	openURL      func(string) error
	httpClient   *http.Client
	logger       *slog.Logger

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier

	mu      sync.Mutex
	current *domainauth.Identity
	subs    map[int]func(*domainauth.Identity)
	nextSub int

	// Redirect flow bookkeeping: pending is written by SignInWithRedirect,
	// consumed by HandleCallback; landed awaits RedirectResult.
	pending *redirectState
	landed  *domainauth.Identity
}

type redirectState struct {
	state   string
	nonce   string
	authURL string
}

var _ ports.IdentityProvider = (*Provider)(nil)

// NewProvider creates a new identity provider adapter.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}
	if cfg.AccountsBaseURL == "" {
		return nil, errors.New("accounts base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	scope := cfg.Scope
	if scope == "" {
		scope = "openid profile email"
	}

	p := &Provider{
		accountsBase: strings.TrimSuffix(cfg.AccountsBaseURL, "/"),
		apiKey:       cfg.APIKey,
		popupAddr:    cfg.PopupListenAddr,
		openURL:      cfg.OpenURL,
		httpClient:   httpClient,
		logger:       logger,
		subs:         make(map[int]func(*domainauth.Identity)),
	}
	if p.popupAddr == "" {
		p.popupAddr = "127.0.0.1:43117"
	}
	if p.openURL == nil {
		p.openURL = func(u string) error {
			logger.Info("open login URL to continue", "url", u)
			return nil
		}
	}

	// Single discovery fetch for the OIDC provider and verifier.
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(cfg.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	p.oidcProvider = op
	p.verifier = op.Verifier(&gooidc.Config{ClientID: cfg.ClientID})

	p.config = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       strings.Fields(scope),
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

// SignInWithPopup runs the interactive federated login: it binds a loopback
// listener for the OAuth callback, presents the auth URL, and blocks until
// the code lands or ctx is done. A listener that cannot be bound is the
// popup-blocked condition.
func (p *Provider) SignInWithPopup(ctx context.Context) (domainauth.Identity, error) {
	ln, err := net.Listen("tcp", p.popupAddr)
	if err != nil {
		return domainauth.Identity{}, ports.NewProviderError(
			ports.CodePopupBlocked, "interactive login window unavailable: "+err.Error())
	}

	state, err := generateRandomString(32)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(32)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("generate nonce: %w", err)
	}

	redirectURL := "http://" + ln.Addr().String() + "/callback"
	cfg := p.configWithRedirect(redirectURL)
	authURL := cfg.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)

	codeCh := make(chan string, 1)
	srv := &http.Server{Handler: popupCallbackHandler(state, codeCh)}
	go func() {
		if serveErr := srv.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			p.logger.Warn("popup callback server stopped", "error", serveErr)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if openErr := p.openURL(authURL); openErr != nil {
		return domainauth.Identity{}, ports.NewProviderError(
			ports.CodePopupBlocked, "open login window: "+openErr.Error())
	}

	var code string
	select {
	case <-ctx.Done():
		return domainauth.Identity{}, ctx.Err()
	case code = <-codeCh:
	}

	ident, err := p.exchange(ctx, cfg, code, nonce)
	if err != nil {
		return domainauth.Identity{}, err
	}

	p.adopt(&ident)
	return ident, nil
}

// popupCallbackHandler accepts the OAuth callback, checks state, and hands
// the authorization code to the waiting popup flow.
func popupCallbackHandler(expectedState string, codeCh chan<- string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/callback" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("state") != expectedState {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		select {
		case codeCh <- code:
		default:
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Signed in. You can close this window."))
	})
}

// SignInWithRedirect begins the redirect-based federated login. The auth URL
// is presented out-of-band; the result is collected later through
// HandleCallback and RedirectResult.
func (p *Provider) SignInWithRedirect(_ context.Context) error {
	state, err := generateRandomString(32)
	if err != nil {
		return fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(32)
	if err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)

	p.mu.Lock()
	p.pending = &redirectState{state: state, nonce: nonce, authURL: authURL}
	p.mu.Unlock()

	return p.openURL(authURL)
}

// PendingAuthURL returns the auth URL of an in-progress redirect login, or
// empty string. The HTTP layer hands it to clients that must navigate away.
func (p *Provider) PendingAuthURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return ""
	}
	return p.pending.authURL
}

// HandleCallback completes a redirect login when the provider calls back
// with code and state. The resulting identity is parked until
// RedirectResult collects it.
func (p *Provider) HandleCallback(ctx context.Context, code, state string) error {
	p.mu.Lock()
	pending := p.pending
	p.mu.Unlock()

	if pending == nil {
		return errors.New("no redirect login in progress")
	}
	if state == "" || state != pending.state {
		return errors.New("invalid or missing state parameter")
	}
	if code == "" {
		return errors.New("authorization code is required")
	}

	ident, err := p.exchange(ctx, p.config, code, pending.nonce)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.pending = nil
	p.landed = &ident
	p.mu.Unlock()
	return nil
}

// RedirectResult returns the identity from a completed redirect login, or
// (nil, nil) when none is pending.
func (p *Provider) RedirectResult(_ context.Context) (*domainauth.Identity, error) {
	p.mu.Lock()
	landed := p.landed
	p.landed = nil
	p.mu.Unlock()

	if landed == nil {
		return nil, nil
	}
	p.adopt(landed)
	return landed, nil
}

// SignOut destroys the local identity state and notifies subscribers.
func (p *Provider) SignOut(_ context.Context) error {
	p.mu.Lock()
	p.current = nil
	subs := p.snapshotSubs()
	p.mu.Unlock()

	for _, fn := range subs {
		fn(nil)
	}
	return nil
}

// Subscribe registers fn and delivers the current auth state immediately.
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

// adopt records ident as the current identity and notifies subscribers.
func (p *Provider) adopt(ident *domainauth.Identity) {
	p.mu.Lock()
	p.current = ident
	subs := p.snapshotSubs()
	p.mu.Unlock()

	for _, fn := range subs {
		fn(ident)
	}
}

// snapshotSubs copies the subscriber set; callers hold mu. Notifications run
// without the lock so callbacks can re-enter the provider.
func (p *Provider) snapshotSubs() []func(*domainauth.Identity) {
	out := make([]func(*domainauth.Identity), 0, len(p.subs))
	for _, fn := range p.subs {
		out = append(out, fn)
	}
	return out
}

// configWithRedirect clones the OAuth2 config with a different redirect URL.
func (p *Provider) configWithRedirect(redirectURL string) *oauth2.Config {
	cfg := *p.config
	cfg.RedirectURL = redirectURL
	return &cfg
}

// exchange trades an authorization code for tokens and maps the verified
// ID-token claims to a domain identity.
func (p *Provider) exchange(ctx context.Context, cfg *oauth2.Config, code, expectedNonce string) (domainauth.Identity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	rawID, err := idTokenFromToken(token)
	if err != nil {
		return domainauth.Identity{}, err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify id_token: %w", err)
	}

	var claims idTokenClaims
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return domainauth.Identity{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	if expectedNonce != "" && claims.Nonce != expectedNonce {
		return domainauth.Identity{}, errors.New("invalid nonce")
	}

	return mapIDTokenClaims(claims), nil
}

// idTokenClaims is the subset of Google OIDC claims the adapter consumes.
type idTokenClaims struct {
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Nonce      string `json:"nonce"`
}

// mapIDTokenClaims maps raw ID-token claims into a domain identity.
func mapIDTokenClaims(c idTokenClaims) domainauth.Identity {
	name := firstNonEmpty(c.Name, strings.TrimSpace(c.GivenName+" "+c.FamilyName))
	return domainauth.Identity{
		UID:         c.Sub,
		Email:       c.Email,
		DisplayName: name,
		Provider:    "google.com",
	}
}

// firstNonEmpty returns the first non-empty string from vals, or empty string if none.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// idTokenFromToken extracts the id_token from an oauth2.Token.
func idTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	raw := tok.Extra("id_token")
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}

// generateRandomString generates a cryptographically secure URL-safe random string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < length {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:length], nil
}
