package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeGoogle uses the hosted identity provider (Google sign-in plus
	// email/password accounts).
	AuthModeGoogle AuthMode = "google"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "google", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: google, mock)", v)
	}
}

// ProfileStoreMode selects the backing store for user profiles.
type ProfileStoreMode string

const (
	// ProfileStorePostgres persists profiles in the main database.
	ProfileStorePostgres ProfileStoreMode = "postgres"
	// ProfileStoreRedis persists profiles in Redis.
	ProfileStoreRedis ProfileStoreMode = "redis"
	// ProfileStoreMemory keeps profiles in process memory (dev only).
	ProfileStoreMemory ProfileStoreMode = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for ProfileStoreMode.
func (p *ProfileStoreMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "postgres", "redis", "memory":
		*p = ProfileStoreMode(v)
		return nil
	default:
		return fmt.Errorf("invalid ProfileStoreMode: %q (valid options: postgres, redis, memory)", v)
	}
}

// IdentityConfig contains the hosted identity provider configuration.
// Used when Mode=google.
type IdentityConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	DiscoveryURL string `env:"DISCOVERY_URL" envDefault:"https://accounts.google.com"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/google/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`

	// AccountsBaseURL and APIKey locate the email/password accounts REST API.
	AccountsBaseURL string `env:"ACCOUNTS_BASE_URL" envDefault:"https://identitytoolkit.googleapis.com/v1"`
	APIKey          string `env:"API_KEY"`

	// PopupListenAddr is the loopback address bound for the interactive
	// popup login flow.
	PopupListenAddr string `env:"POPUP_LISTEN_ADDR" envDefault:"127.0.0.1:0"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID      string `env:"USER_ID"      envDefault:"dev-user"`
	Email       string `env:"EMAIL"        envDefault:"dev@example.com"`
	DisplayName string `env:"DISPLAY_NAME" envDefault:"Dev User"`

	// BlockPopups makes the mock provider reject popup sign-in, which
	// exercises the redirect fallback without a real browser.
	BlockPopups bool `env:"BLOCK_POPUPS"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"google"`

	// Identity provider configuration (used when Mode=google).
	Identity IdentityConfig `envPrefix:"GOOGLE_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// ProfileStore selects where user profiles are persisted.
	ProfileStore ProfileStoreMode `env:"PROFILE_STORE" envDefault:"postgres"`

	// AdminEmails lists the addresses granted the admin role at sign-up.
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:";"`

	// InspectorEmails lists the addresses granted the inspector role at
	// sign-up. An address on both lists becomes an admin.
	InspectorEmails []string `env:"INSPECTOR_EMAILS" envSeparator:";"`
}

// Sanitize normalises the role email lists: entries are trimmed and
// blanks dropped.
func (c *AuthConfig) Sanitize() {
	c.AdminEmails = cleanEmailList(c.AdminEmails)
	c.InspectorEmails = cleanEmailList(c.InspectorEmails)
}

func cleanEmailList(in []string) []string {
	out := in[:0]
	for _, e := range in {
		e = strings.TrimSpace(e)
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
