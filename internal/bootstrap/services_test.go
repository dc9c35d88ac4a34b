package bootstrap

import (
	"testing"
	"time"

	"github.com/parkease/parkeased/config"
)

func TestBuildNotifier(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.NotificationsConfig
		expectNil bool
	}{
		{
			name:      "disabled webhook",
			cfg:       config.NotificationsConfig{},
			expectNil: true,
		},
		{
			name: "invalid url is dropped",
			cfg: config.NotificationsConfig{
				Enabled: true,
				Webhook: config.WebhookNotificationConfig{Enabled: true, URL: "ftp://hooks.example.com"},
			},
			expectNil: true,
		},
		{
			name: "valid webhook",
			cfg: config.NotificationsConfig{
				Enabled: true,
				Webhook: config.WebhookNotificationConfig{
					Enabled: true,
					URL:     "https://hooks.example.com/reservations",
					Timeout: 5 * time.Second,
				},
			},
			expectNil: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := buildNotifier(nil, tt.cfg)
			if tt.expectNil && sink != nil {
				t.Errorf("expected nil sink, got %T", sink)
			}
			if !tt.expectNil && sink == nil {
				t.Error("expected a sink, got nil")
			}
		})
	}
}

func TestNewServices_RequiresDeps(t *testing.T) {
	if _, err := NewServices(nil); err == nil {
		t.Fatal("expected an error for nil dependencies")
	}
}

func TestNewServices_MockAuthWithMemoryStore(t *testing.T) {
	services, err := NewServices(&ServiceDeps{
		Config: &config.AppConfig{
			IsDev: true,
			Auth: config.AuthConfig{
				Mode:         config.AuthModeMock,
				ProfileStore: config.ProfileStoreMemory,
			},
		},
	})
	if err != nil {
		t.Fatalf("new services: %v", err)
	}

	if services.Session == nil {
		t.Error("expected a session manager")
	}
	if services.Spots == nil {
		t.Error("expected a spot service")
	}
	if services.Reservations == nil {
		t.Error("expected a reservation service")
	}
	if services.Overview == nil {
		t.Error("expected an overview service")
	}
	if services.Notifier != nil {
		t.Error("expected no notifier without webhook config")
	}
}
