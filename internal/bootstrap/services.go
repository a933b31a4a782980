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
	"syscall"
	"time"

	"github.com/openlearn/lms-api/config"
	"github.com/openlearn/lms-api/internal/adapters/jwt"
	"github.com/openlearn/lms-api/internal/adapters/oidc"
	redisadapter "github.com/openlearn/lms-api/internal/adapters/redis"
	"github.com/openlearn/lms-api/internal/adapters/smtp"
	"github.com/openlearn/lms-api/internal/adapters/sweeper"
	"github.com/openlearn/lms-api/internal/data"
	"github.com/openlearn/lms-api/internal/ports"
	"github.com/openlearn/lms-api/internal/service"
	"github.com/redis/go-redis/v9"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Courses       *service.CourseService
	Orders        *service.OrderService
	Notifications *service.NotificationService
	Layouts       *service.LayoutService
	Analytics     *service.AnalyticsService

	// Auth collaborators shared with the HTTP guard middleware.
	Tokens   ports.TokenService
	Sessions ports.SessionCache
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
	DB               *sql.DB
	Redis            redis.UniversalClient
	UserRepo         *data.UserRepo
	CourseRepo       *data.CourseRepo
	OrderRepo        *data.OrderRepo
	NotificationRepo *data.NotificationRepo
	LayoutRepo       *data.LayoutRepo
	AnalyticsRepo    *data.AnalyticsRepo
	CacheRepo        *data.RedisCacheRepo
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redis redis.UniversalClient) *serviceRepositories {
	return &serviceRepositories{
		DB:               db,
		Redis:            redis,
		UserRepo:         data.NewUserRepo(db),
		CourseRepo:       data.NewCourseRepo(db),
		OrderRepo:        data.NewOrderRepo(db),
		NotificationRepo: data.NewNotificationRepo(db),
		LayoutRepo:       data.NewLayoutRepo(db),
		AnalyticsRepo:    data.NewAnalyticsRepo(db),
		CacheRepo:        data.NewRedisCacheRepo(redis),
	}
}

// authAdapters groups the authentication collaborators built from config.
type authAdapters struct {
	Tokens   ports.TokenService
	Sessions ports.SessionCache
	Mailer   ports.Mailer
	Social   ports.SocialVerifier
}

// buildAuthAdapters wires token signing, the session cache, outbound mail,
// and the optional social login verifier.
func buildAuthAdapters(cfg *config.AppConfig, redisClient redis.UniversalClient, logger *slog.Logger) (authAdapters, error) {
	tokens, err := jwt.NewService(jwt.Options{
		AccessSecret:     cfg.Auth.AccessTokenSecret,
		RefreshSecret:    cfg.Auth.RefreshTokenSecret,
		ActivationSecret: cfg.Auth.ActivationTokenSecret,
		AccessTTL:        cfg.Auth.AccessTokenTTL,
		RefreshTTL:       cfg.Auth.RefreshTokenTTL,
		ActivationTTL:    cfg.Auth.ActivationTokenTTL,
	})
	if err != nil {
		return authAdapters{}, fmt.Errorf("build token service: %w", err)
	}

	sessions := redisadapter.NewSessionCacheWithOptions(redisClient, "", cfg.Auth.SessionTTL)

	adapters := authAdapters{
		Tokens:   tokens,
		Sessions: sessions,
	}

	if cfg.Mail.Enabled() {
		mailer, mailErr := smtp.NewMailer(smtp.Options{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			FromName: cfg.Mail.FromName,
			Timeout:  cfg.Mail.Timeout,
		})
		if mailErr != nil {
			return authAdapters{}, fmt.Errorf("build mailer: %w", mailErr)
		}
		adapters.Mailer = mailer
	} else {
		logger.Warn("outbound mail is not configured; mail delivery disabled")
	}

	if cfg.Auth.Social.Enabled() {
		verifier, socialErr := oidc.NewVerifier(context.Background(), oidc.VerifierConfig{
			ClientID:  cfg.Auth.Social.ClientID,
			IssuerURL: cfg.Auth.Social.IssuerURL,
		})
		if socialErr != nil {
			// Social login is optional; a failed discovery should not take
			// down password login.
			logger.Error("social login verifier unavailable", "error", socialErr)
		} else {
			adapters.Social = verifier
		}
	}

	return adapters, nil
}

// NewServices wires repositories and adapters into the application services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil {
		return ServiceContainer{}, errors.New("service deps are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps missing AppConfig")
	}

	repos := buildRepositories(deps.DB, deps.RedisClient)

	adapters, err := buildAuthAdapters(deps.Config, deps.RedisClient, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	authService, err := service.NewAuthService(service.AuthServiceOptions{
		Users:    repos.UserRepo,
		Tokens:   adapters.Tokens,
		Sessions: adapters.Sessions,
		Social:   adapters.Social,
		Mailer:   adapters.Mailer,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	userService, err := service.NewUserService(service.UserServiceOptions{
		Users:    repos.UserRepo,
		Sessions: adapters.Sessions,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build user service: %w", err)
	}

	courseService, err := service.NewCourseService(service.CourseServiceOptions{
		Courses:       repos.CourseRepo,
		Cache:         repos.CacheRepo,
		Users:         repos.UserRepo,
		Notifications: repos.NotificationRepo,
		Mailer:        adapters.Mailer,
		CacheTTL:      deps.Config.Cache.CourseTTL,
		Logger:        logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build course service: %w", err)
	}

	orderService, err := service.NewOrderService(service.OrderServiceOptions{
		Orders:        repos.OrderRepo,
		Courses:       repos.CourseRepo,
		Users:         repos.UserRepo,
		Sessions:      adapters.Sessions,
		Cache:         repos.CacheRepo,
		Notifications: repos.NotificationRepo,
		Mailer:        adapters.Mailer,
		Logger:        logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build order service: %w", err)
	}

	notificationService, err := service.NewNotificationService(service.NotificationServiceOptions{
		Repo:   repos.NotificationRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build notification service: %w", err)
	}

	layoutService, err := service.NewLayoutService(service.LayoutServiceOptions{
		Repo:   repos.LayoutRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build layout service: %w", err)
	}

	analyticsService, err := service.NewAnalyticsService(service.AnalyticsServiceOptions{
		Repo:   repos.AnalyticsRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build analytics service: %w", err)
	}

	return ServiceContainer{
		Auth:          authService,
		Users:         userService,
		Courses:       courseService,
		Orders:        orderService,
		Notifications: notificationService,
		Layouts:       layoutService,
		Analytics:     analyticsService,
		Tokens:        adapters.Tokens,
		Sessions:      adapters.Sessions,
	}, nil
}

// ServiceOrchestrationConfig contains dependencies for running services.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for starting services.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) *http.Server {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		Logger:   deps.logger,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				deps.logger.WarnContext(ctx, "dropping background service error", "service", descriptor.name, "error", errMsg)
			}
		}
	}()

	deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)

	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}

		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

func newSweeperBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeSweeper,
		name: "notification sweeper",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil {
				return nil
			}
			var sweeperCfg config.SweeperConfig
			if deps.cfg.Config != nil {
				sweeperCfg = deps.cfg.Config.Sweeper
			}
			runner, err := sweeper.NewRunner(sweeper.RunnerOptions{
				DB:     deps.cfg.DB,
				Config: sweeperCfg,
				Logger: deps.logger,
			})
			if err != nil {
				return fmt.Errorf("build sweeper runner: %w", err)
			}
			return runner.Run(ctx)
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newSweeperBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) ServiceStartupResult {
	return ServiceStartupResult{
		HTTPServer: startHTTPServerIfEnabled(deps),
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	ctx := context.Background()
	serviceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	// Determine which services are enabled
	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	// Start all enabled services
	result := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})

	// Wait for shutdown signal or error
	return waitForShutdown(shutdownConfig{
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  result.HTTPServer,
		logger:      logger,
		backgrounds: result.Background,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	modes := []config.ServiceMode{
		config.ServiceModeHTTP,
		config.ServiceModeSweeper,
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
		// The service context is already canceled, so the shutdown timeout
		// needs a fresh parent.
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
