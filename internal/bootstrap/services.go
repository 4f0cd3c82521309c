package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/readykit/report-api/config"
	"github.com/readykit/report-api/internal/adapters/anthropic"
	"github.com/readykit/report-api/internal/adapters/engine"
	"github.com/readykit/report-api/internal/adapters/reconciler"
	"github.com/readykit/report-api/internal/core"
	"github.com/readykit/report-api/internal/data"
	"github.com/readykit/report-api/internal/observability/statsd"
	"github.com/readykit/report-api/internal/service"
	"github.com/redis/go-redis/v9"
)

// devWebhookSecret is used when no secret is configured in development mode.
const devWebhookSecret = "dev-webhook-secret"

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Jobs      *service.JobService
	Reports   *service.ReportService
	Callbacks *service.CallbackService
	Usage     *service.UsageService
	Generate  *service.GenerateService // nil when direct generation is disabled
	Reconcile *reconciler.Runner
	Metrics   *statsd.Client // nil when metrics emission is disabled
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	JobRepo          *data.JobRepo
	CallbackRepo     *data.CallbackRepo
	CallbackViewRepo *data.CallbackViewRepo
	ReportRepo       *data.ReportRepo
	UsageRepo        *data.UsageRepo
	CacheRepo        *data.RedisCacheRepo
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redisClient redis.UniversalClient) *serviceRepositories {
	repos := &serviceRepositories{
		JobRepo:          data.NewJobRepo(db),
		CallbackRepo:     data.NewCallbackRepo(db),
		CallbackViewRepo: data.NewCallbackViewRepo(db),
		ReportRepo:       data.NewReportRepo(db),
		UsageRepo:        data.NewUsageRepo(db),
	}
	if redisClient != nil {
		repos.CacheRepo = data.NewRedisCacheRepo(redisClient)
	}
	return repos
}

// callbackURL joins the application base URL with the engine callback path.
func callbackURL(cfg *config.AppConfig) string {
	return strings.TrimRight(cfg.HTTP.BaseURL, "/") + cfg.Engine.CallbackPath
}

// resolveWebhookSecret returns the HMAC key for callback signatures.
// Development mode falls back to a well-known value so local stacks
// work without shared secrets; anything else must configure one.
func resolveWebhookSecret(cfg *config.AppConfig, logger *slog.Logger) (string, error) {
	if cfg.Engine.WebhookSecret != "" {
		return cfg.Engine.WebhookSecret, nil
	}
	if cfg.IsDev {
		logger.Warn("no webhook secret configured; using development default")
		return devWebhookSecret, nil
	}
	return "", errors.New("ENGINE_WEBHOOK_SECRET is required outside development mode")
}

// NewServices wires repositories, adapters and domain services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps and config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	secret, err := resolveWebhookSecret(cfg, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	repos := buildRepositories(deps.DB, deps.RedisClient)
	metricsSink := buildMetricsSink(cfg.Metrics, logger)

	engineClient, err := engine.NewClient(engine.ClientOptions{
		Config: cfg.Engine,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create engine client: %w", err)
	}

	reports := service.MustNewReportService(service.ReportServiceOptions{
		Reports:  repos.ReportRepo,
		Cache:    cacheOrNil(repos),
		CacheTTL: cfg.Cache.ReportTTL,
		Logger:   logger,
	})

	usage := service.MustNewUsageService(service.UsageServiceOptions{
		Usage:  repos.UsageRepo,
		Logger: logger,
	})

	jobs := service.MustNewJobService(service.JobServiceOptions{
		Jobs:        repos.JobRepo,
		Reports:     repos.ReportRepo,
		Engine:      engineClient,
		CallbackURL: callbackURL(cfg),
		Logger:      logger,
	})

	callbacks := service.MustNewCallbackService(service.CallbackServiceOptions{
		Callbacks:     repos.CallbackRepo,
		Views:         repos.CallbackViewRepo,
		Jobs:          repos.JobRepo,
		Reports:       reports,
		WebhookSecret: secret,
		Metrics:       sinkOrNil(metricsSink),
		Logger:        logger,
	})

	generate, err := newGenerateService(generateServiceDeps{
		Config:  cfg.Generation,
		Repos:   repos,
		Reports: reports,
		Usage:   usage,
		Logger:  logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	reconcile := reconciler.MustNewRunner(reconciler.RunnerOptions{
		Jobs:    repos.JobRepo,
		Config:  cfg.Reconciler,
		Metrics: sinkOrNil(metricsSink),
		Logger:  logger,
	})

	return ServiceContainer{
		Jobs:      jobs,
		Reports:   reports,
		Callbacks: callbacks,
		Usage:     usage,
		Generate:  generate,
		Reconcile: reconcile,
		Metrics:   metricsSink,
	}, nil
}

// buildMetricsSink dials StatsD when metrics are enabled. Failures are
// logged and metrics stay off; the service runs fine without them.
func buildMetricsSink(cfg config.MetricsConfig, logger *slog.Logger) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  "reportapi",
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

// sinkOrNil returns a nil interface when metrics are disabled, so
// consumers see a true nil rather than a typed nil pointer.
func sinkOrNil(client *statsd.Client) statsd.Sink {
	if client == nil {
		return nil
	}
	return client
}

type generateServiceDeps struct {
	Config  config.GenerationConfig
	Repos   *serviceRepositories
	Reports *service.ReportService
	Usage   *service.UsageService
	Logger  *slog.Logger
}

// newGenerateService builds the direct generation service when enabled.
func newGenerateService(deps generateServiceDeps) (*service.GenerateService, error) {
	if !deps.Config.Enabled {
		return nil, nil
	}

	generator, err := anthropic.NewGenerator(anthropic.GeneratorOptions{
		Config: deps.Config,
		Logger: deps.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create content generator: %w", err)
	}

	return service.MustNewGenerateService(service.GenerateServiceOptions{
		Jobs:      deps.Repos.JobRepo,
		Reports:   deps.Reports,
		Generator: generator,
		Usage:     deps.Usage,
		Logger:    deps.Logger,
	}), nil
}

// cacheOrNil returns a nil interface when Redis is not configured, so
// services see a true nil rather than a typed nil pointer.
func cacheOrNil(repos *serviceRepositories) core.CacheRepository {
	if repos.CacheRepo == nil {
		return nil
	}
	return repos.CacheRepo
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	name string
	done <-chan struct{}
}

// RunServicesWithShutdown starts the enabled services and blocks until
// a shutdown signal arrives or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}

	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, errorChannelBufferSize(enabled))

	var httpServer *http.Server
	if enabled[config.ServiceModeHTTP] {
		httpServer = StartHTTPServer(&HTTPServerConfig{
			Config:   cfg.Config,
			Services: cfg.Services,
			Logger:   logger,
		})
	}

	var backgrounds []backgroundServiceHandle
	if enabled[config.ServiceModeReconciler] && cfg.Services.Reconcile != nil {
		done := make(chan struct{})
		go func() {
			defer close(done)
			if runErr := cfg.Services.Reconcile.Run(serviceCtx); runErr != nil {
				select {
				case errCh <- fmt.Errorf("reconciler failed: %w", runErr):
				case <-serviceCtx.Done():
				}
			}
		}()
		logger.Info("background service started", "service", "reconciler")
		backgrounds = append(backgrounds, backgroundServiceHandle{name: "reconciler", done: done})
	}

	return waitForShutdown(shutdownConfig{
		ctx:         serviceCtx,
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  httpServer,
		logger:      logger,
		backgrounds: backgrounds,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	modes := []config.ServiceMode{
		config.ServiceModeHTTP,
		config.ServiceModeReconciler,
	}

	count := 0
	for _, mode := range modes {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	size := errorChannelCapacity(enabled) + 1
	if size < 1 {
		return 1
	}
	return size
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx         context.Context
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  *http.Server
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel() // Cancel service context before waiting
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel() // Cancel service context before waiting
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(cfg shutdownConfig) error {
	// Gracefully stop HTTP server if running
	if cfg.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
		defer cancel()

		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		}); err != nil {
			return err
		}
	}

	// Wait for background services to finish
	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
