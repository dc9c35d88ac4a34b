package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/parkease/parkeased/config"
	"github.com/parkease/parkeased/internal/adapters/authroles"
	"github.com/parkease/parkeased/internal/adapters/devauth"
	"github.com/parkease/parkeased/internal/adapters/identity"
	redisadapter "github.com/parkease/parkeased/internal/adapters/redis"
	"github.com/parkease/parkeased/internal/data"
	httpx "github.com/parkease/parkeased/internal/http"
	"github.com/parkease/parkeased/internal/ports"
	"github.com/parkease/parkeased/internal/session"
	"github.com/redis/go-redis/v9"
)

// AuthOptions contains configuration for building the session subsystem.
type AuthOptions struct {
	Auth        config.AuthConfig
	IsDev       bool
	DB          *sql.DB
	RedisClient *redis.Client
	Logger      *slog.Logger
}

// AuthComponents groups the session manager and, in google mode, the
// redirect-capable provider used by the callback route.
type AuthComponents struct {
	Manager  *session.Manager
	Redirect httpx.RedirectAuthProvider
}

// BuildAuth creates the session manager for the configured auth mode.
// The manager is returned unstarted.
func BuildAuth(opts AuthOptions) (AuthComponents, error) {
	store, err := buildProfileStore(opts)
	if err != nil {
		return AuthComponents{}, err
	}

	roles := authroles.EmailListResolver{
		AdminEmails:     opts.Auth.AdminEmails,
		InspectorEmails: opts.Auth.InspectorEmails,
	}

	var (
		provider ports.IdentityProvider
		redirect httpx.RedirectAuthProvider
	)
	switch opts.Auth.Mode {
	case config.AuthModeMock:
		provider = devauth.NewProvider(devauth.Config{
			GoogleUID:   opts.Auth.DevAuth.UserID,
			GoogleEmail: opts.Auth.DevAuth.Email,
			GoogleName:  opts.Auth.DevAuth.DisplayName,
			BlockPopups: opts.Auth.DevAuth.BlockPopups,
		})

	case config.AuthModeGoogle:
		idp, buildErr := buildIdentityProvider(opts)
		if buildErr != nil {
			return AuthComponents{}, buildErr
		}
		provider = idp
		redirect = idp

	default:
		return AuthComponents{}, fmt.Errorf("unsupported auth mode: %q", opts.Auth.Mode)
	}

	manager := session.NewManager(session.ManagerOptions{
		Provider: provider,
		Profiles: store,
		Roles:    roles,
		Logger:   opts.Logger,
	})

	return AuthComponents{Manager: manager, Redirect: redirect}, nil
}

func buildProfileStore(opts AuthOptions) (ports.ProfileStore, error) {
	switch opts.Auth.ProfileStore {
	case config.ProfileStorePostgres:
		if opts.DB == nil {
			return nil, errors.New("postgres profile store requires a database connection")
		}
		return data.NewProfileRepo(opts.DB), nil

	case config.ProfileStoreRedis:
		if opts.RedisClient == nil {
			return nil, errors.New("redis profile store requires a redis client")
		}
		return redisadapter.NewProfileStore(redisadapter.ProfileStoreOptions{
			Client: opts.RedisClient,
		}), nil

	case config.ProfileStoreMemory:
		if !opts.IsDev && opts.Logger != nil {
			opts.Logger.Warn("memory profile store selected outside dev mode; profiles will not survive restarts")
		}
		return devauth.NewProfileStore(), nil

	default:
		return nil, fmt.Errorf("unsupported profile store: %q", opts.Auth.ProfileStore)
	}
}

func buildIdentityProvider(opts AuthOptions) (*identity.Provider, error) {
	idCfg := opts.Auth.Identity
	if idCfg.ClientID == "" || idCfg.ClientSecret == "" || idCfg.DiscoveryURL == "" {
		return nil, fmt.Errorf(
			"AuthModeGoogle selected but required config missing (client_id_empty=%v client_secret_empty=%v discovery_url_empty=%v)",
			idCfg.ClientID == "", idCfg.ClientSecret == "", idCfg.DiscoveryURL == "",
		)
	}

	provider, err := identity.NewProvider(identity.Config{
		ClientID:        idCfg.ClientID,
		ClientSecret:    idCfg.ClientSecret,
		DiscoveryURL:    idCfg.DiscoveryURL,
		Scope:           idCfg.Scope,
		RedirectURL:     idCfg.RedirectURL,
		AccountsBaseURL: idCfg.AccountsBaseURL,
		APIKey:          idCfg.APIKey,
		PopupListenAddr: idCfg.PopupListenAddr,
		Logger:          opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create identity provider: %w", err)
	}
	return provider, nil
}
