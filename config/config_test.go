package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "google")
	t.Setenv("GOOGLE_CLIENT_ID", "app-client")
	t.Setenv("GOOGLE_CLIENT_SECRET", "super-secret")
	t.Setenv("GOOGLE_REDIRECT_URL", "https://app.example.com/auth/google/callback")
	t.Setenv("GOOGLE_DISCOVERY_URL", "https://login.example.com")
	t.Setenv("GOOGLE_SCOPE", "openid profile email")
	t.Setenv("GOOGLE_API_KEY", "key-123")
	t.Setenv("PROFILE_STORE", "redis")
	t.Setenv("ADMIN_EMAILS", "boss@example.com;owner@example.com")
	t.Setenv("INSPECTOR_EMAILS", "checker@example.com")
	t.Setenv("DEV_AUTH_BLOCK_POPUPS", "true")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeGoogle,
		Identity: IdentityConfig{
			ClientID:        "app-client",
			ClientSecret:    "super-secret",
			DiscoveryURL:    "https://login.example.com",
			RedirectURL:     "https://app.example.com/auth/google/callback",
			Scope:           "openid profile email",
			AccountsBaseURL: "https://identitytoolkit.googleapis.com/v1",
			APIKey:          "key-123",
			PopupListenAddr: "127.0.0.1:0",
		},
		DevAuth: DevAuthConfig{
			UserID:      "dev-user",
			Email:       "dev@example.com",
			DisplayName: "Dev User",
			BlockPopups: true,
		},
		ProfileStore:    ProfileStoreRedis,
		AdminEmails:     []string{"boss@example.com", "owner@example.com"},
		InspectorEmails: []string{"checker@example.com"},
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	tests := []struct {
		input       string
		expected    AuthMode
		expectError bool
	}{
		{input: "google", expected: AuthModeGoogle},
		{input: "GOOGLE", expected: AuthModeGoogle},
		{input: "mock", expected: AuthModeMock},
		{input: "oauth", expectError: true},
		{input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var mode AuthMode
			err := mode.UnmarshalText([]byte(tt.input))
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if mode != tt.expected {
				t.Errorf("expected mode %q, got %q", tt.expected, mode)
			}
		})
	}
}

func TestProfileStoreMode_UnmarshalText(t *testing.T) {
	tests := []struct {
		input       string
		expected    ProfileStoreMode
		expectError bool
	}{
		{input: "postgres", expected: ProfileStorePostgres},
		{input: "redis", expected: ProfileStoreRedis},
		{input: "Memory", expected: ProfileStoreMemory},
		{input: "mysql", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var mode ProfileStoreMode
			err := mode.UnmarshalText([]byte(tt.input))
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if mode != tt.expected {
				t.Errorf("expected mode %q, got %q", tt.expected, mode)
			}
		})
	}
}

func TestAuthConfig_SanitizeEmailLists(t *testing.T) {
	cfg := AuthConfig{
		AdminEmails:     []string{" boss@example.com ", "", "owner@example.com"},
		InspectorEmails: []string{"  ", "checker@example.com"},
	}
	cfg.Sanitize()

	if !reflect.DeepEqual(cfg.AdminEmails, []string{"boss@example.com", "owner@example.com"}) {
		t.Errorf("unexpected admin emails: %#v", cfg.AdminEmails)
	}
	if !reflect.DeepEqual(cfg.InspectorEmails, []string{"checker@example.com"}) {
		t.Errorf("unexpected inspector emails: %#v", cfg.InspectorEmails)
	}
}

func TestAppConfig_ParseDatabaseEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "svc")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "parkease_prod")
	t.Setenv("DB_SSL_MODE", "require")
	t.Setenv("DB_RUN_MIGRATIONS_ON_START", "false")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := DBConfig{
		Host:                 "db.internal",
		Port:                 5433,
		User:                 "svc",
		Password:             "pw",
		Name:                 "parkease_prod",
		SSLMode:              "require",
		RunMigrationsOnStart: false,
	}
	if !reflect.DeepEqual(cfg.Postgres, expected) {
		t.Fatalf("unexpected database configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Postgres)
	}
}

func TestNotificationsConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name            string
		cfg             NotificationsConfig
		expectedEnabled bool
	}{
		{
			name: "disabled parent disables webhook",
			cfg: NotificationsConfig{
				Enabled: false,
				Webhook: WebhookNotificationConfig{Enabled: true, URL: "https://hooks.example.com/x"},
			},
			expectedEnabled: false,
		},
		{
			name: "webhook without url is disabled",
			cfg: NotificationsConfig{
				Enabled: true,
				Webhook: WebhookNotificationConfig{Enabled: true, URL: "   "},
			},
			expectedEnabled: false,
		},
		{
			name: "enabled with url stays on",
			cfg: NotificationsConfig{
				Enabled: true,
				Webhook: WebhookNotificationConfig{Enabled: true, URL: "https://hooks.example.com/x"},
			},
			expectedEnabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Sanitize()
			if tt.cfg.Webhook.Enabled != tt.expectedEnabled {
				t.Errorf("expected webhook enabled=%v, got %v", tt.expectedEnabled, tt.cfg.Webhook.Enabled)
			}
		})
	}
}

func TestWebhookNotificationConfig_SanitizeClampsValues(t *testing.T) {
	cfg := NotificationsConfig{
		Enabled: true,
		Webhook: WebhookNotificationConfig{
			Enabled:    true,
			URL:        " https://hooks.example.com/x ",
			Timeout:    -time.Second,
			RetryLimit: -2,
		},
	}
	cfg.Sanitize()

	if cfg.Webhook.URL != "https://hooks.example.com/x" {
		t.Errorf("expected trimmed url, got %q", cfg.Webhook.URL)
	}
	if cfg.Webhook.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Webhook.Timeout)
	}
	if cfg.Webhook.RetryLimit != 0 {
		t.Errorf("expected retry limit 0, got %d", cfg.Webhook.RetryLimit)
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	h := HTTPConfig{ShutdownTimeout: 0}
	h.Sanitize()
	if h.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected 10s shutdown timeout, got %v", h.ShutdownTimeout)
	}
}
