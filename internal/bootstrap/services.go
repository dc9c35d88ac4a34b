package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/parkease/parkeased/config"
	"github.com/parkease/parkeased/internal/data"
	httpx "github.com/parkease/parkeased/internal/http"
	"github.com/parkease/parkeased/internal/observability/notify"
	"github.com/parkease/parkeased/internal/observability/notify/webhook"
	"github.com/parkease/parkeased/internal/service"
	"github.com/parkease/parkeased/internal/session"
	"github.com/redis/go-redis/v9"
)

const (
	// shutdownWaitTimeout is the maximum time to wait for graceful shutdown.
	shutdownWaitTimeout = 15 * time.Second
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Session      *session.Manager
	Redirect     httpx.RedirectAuthProvider
	Spots        *service.SpotService
	Reservations *service.ReservationService
	Overview     *service.OverviewService
	Notifier     notify.Sink
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient *redis.Client
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	DB              *sql.DB
	ProfileRepo     *data.ProfileRepo
	SpotRepo        *data.SpotRepo
	ReservationRepo *data.ReservationRepo
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB) *serviceRepositories {
	return &serviceRepositories{
		DB:              db,
		ProfileRepo:     data.NewProfileRepo(db),
		SpotRepo:        data.NewSpotRepo(db),
		ReservationRepo: data.NewReservationRepo(db),
	}
}

// buildNotifier configures the reservation event sink. Returns nil when
// fan-out is disabled.
func buildNotifier(logger *slog.Logger, cfg config.NotificationsConfig) notify.Sink {
	if !cfg.Webhook.Enabled {
		return nil
	}

	client, err := webhook.NewClient(webhook.Config{
		URL:          cfg.Webhook.URL,
		BodySelector: cfg.Webhook.BodySelector,
		Timeout:      cfg.Webhook.Timeout,
		RetryLimit:   cfg.Webhook.RetryLimit,
	})
	if err != nil {
		if logger != nil {
			logger.Error("failed to initialise webhook notifier", "error", err)
		}
		return nil
	}
	return client
}

// NewServices wires repositories, the session subsystem, and domain services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil {
		return ServiceContainer{}, errors.New("service dependencies are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	repos := buildRepositories(deps.DB)
	notifier := buildNotifier(logger, appCfg.Notifications)

	auth, err := BuildAuth(AuthOptions{
		Auth:        appCfg.Auth,
		IsDev:       appCfg.IsDev,
		DB:          deps.DB,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	spotService := service.NewSpotService(service.SpotServiceOptions{
		SpotRepo: repos.SpotRepo,
		Logger:   logger,
	})
	reservationService := service.NewReservationService(service.ReservationServiceOptions{
		ReservationRepo: repos.ReservationRepo,
		SpotRepo:        repos.SpotRepo,
		Notifier:        notifier,
		Logger:          logger,
	})
	overviewService := service.NewOverviewService(service.OverviewServiceOptions{
		ProfileRepo:     repos.ProfileRepo,
		SpotRepo:        repos.SpotRepo,
		ReservationRepo: repos.ReservationRepo,
		Logger:          logger,
	})

	return ServiceContainer{
		Session:      auth.Manager,
		Redirect:     auth.Redirect,
		Spots:        spotService,
		Reservations: reservationService,
		Overview:     overviewService,
		Notifier:     notifier,
	}, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts the session manager and HTTP server and
// manages their lifecycle. This function blocks until a shutdown signal is
// received.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// The session manager subscribes to auth-state changes before the HTTP
	// server accepts requests, so the loading flag resolves immediately.
	cfg.Services.Session.Start(ctx)
	defer cfg.Services.Session.Stop()

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})

	return waitForShutdown(shutdownConfig{
		ctx:        ctx,
		cancel:     cancel,
		httpServer: server,
		timeout:    cfg.Config.HTTP.ShutdownTimeout,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx        context.Context
	cancel     context.CancelFunc
	httpServer *http.Server
	timeout    time.Duration
	logger     *slog.Logger
}

// waitForShutdown waits for a shutdown signal, then stops the HTTP server.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	cfg.logger.Info("shutting down services...")
	cfg.cancel()

	timeout := cfg.timeout
	if timeout <= 0 {
		timeout = shutdownWaitTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return ShutdownHTTPServer(ShutdownConfig{
		Context: shutdownCtx,
		Server:  cfg.httpServer,
		Logger:  cfg.logger,
	})
}
