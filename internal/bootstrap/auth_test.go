package bootstrap

import (
	"testing"

	"github.com/parkease/parkeased/config"
)

func TestBuildAuth_MockMode(t *testing.T) {
	auth, err := BuildAuth(AuthOptions{
		Auth: config.AuthConfig{
			Mode:         config.AuthModeMock,
			ProfileStore: config.ProfileStoreMemory,
			AdminEmails:  []string{"boss@example.com"},
		},
		IsDev: true,
	})
	if err != nil {
		t.Fatalf("build auth: %v", err)
	}
	if auth.Manager == nil {
		t.Fatal("expected a session manager")
	}
	if auth.Redirect != nil {
		t.Error("mock mode should not expose a redirect provider")
	}
}

func TestBuildAuth_GoogleModeRequiresCredentials(t *testing.T) {
	_, err := BuildAuth(AuthOptions{
		Auth: config.AuthConfig{
			Mode:         config.AuthModeGoogle,
			ProfileStore: config.ProfileStoreMemory,
		},
		IsDev: true,
	})
	if err == nil {
		t.Fatal("expected an error for missing identity credentials")
	}
}

func TestBuildProfileStore_PostgresRequiresDB(t *testing.T) {
	_, err := buildProfileStore(AuthOptions{
		Auth: config.AuthConfig{ProfileStore: config.ProfileStorePostgres},
	})
	if err == nil {
		t.Fatal("expected an error for missing database connection")
	}
}

func TestBuildProfileStore_RedisRequiresClient(t *testing.T) {
	_, err := buildProfileStore(AuthOptions{
		Auth: config.AuthConfig{ProfileStore: config.ProfileStoreRedis},
	})
	if err == nil {
		t.Fatal("expected an error for missing redis client")
	}
}

func TestBuildProfileStore_UnknownMode(t *testing.T) {
	_, err := buildProfileStore(AuthOptions{
		Auth: config.AuthConfig{ProfileStore: "mysql"},
	})
	if err == nil {
		t.Fatal("expected an error for unknown profile store mode")
	}
}
