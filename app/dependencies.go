package app

import (
	"context"
	"fmt"
	"time"

	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/config"
	"github.com/upb/casting-agency/middleware"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/repositories/postgres"
	"github.com/upb/casting-agency/services"
	"github.com/upb/casting-agency/services/audit"
	"go.uber.org/zap"
)

// auditStopTimeout bounds how long shutdown waits for queued audit entries
const auditStopTimeout = 5 * time.Second

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Movies    repositories.MovieRepository
	Actors    repositories.ActorRepository
	AuditLogs repositories.AuditRepository
	TxManager repositories.TransactionManager

	// Auth
	KeyCache       *auth.KeySetCache
	Guard          *auth.Guard
	AuthMiddleware *middleware.AuthMiddleware

	// Services
	Audit        *audit.AuditService
	MovieService *services.MovieService
	ActorService *services.ActorService
}

// NewDependencies opens the database and wires every component
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps, err := NewDependenciesWithFactory(ctx, cfg, factory, logger)
	if err != nil {
		_ = factory.Close()
		return nil, err
	}
	return deps, nil
}

// NewDependenciesWithFactory wires every component around an open database
func NewDependenciesWithFactory(ctx context.Context, cfg *config.Config, factory *postgres.RepositoryFactory, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		RepoFactory: factory,
		DB:          factory.GetDB(),
	}

	deps.initRepositories()

	if err := deps.initAuth(ctx, cfg.Auth); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Movies = repos.Movies
	d.Actors = repos.Actors
	d.AuditLogs = repos.AuditLogs
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

// initAuth builds key set cache -> verifier -> guard -> middleware
func (d *Dependencies) initAuth(ctx context.Context, cfg config.AuthConfig) error {
	fetcher := auth.NewHTTPKeyFetcher(cfg.JWKSURL, cfg.JWKSTimeout)
	d.KeyCache = auth.NewKeySetCache(fetcher, auth.KeySetCacheConfig{
		MinRefreshInterval: cfg.MinRefreshInterval,
	}, d.Logger.Named("jwks"))

	verifier, err := auth.NewVerifier(d.KeyCache, auth.VerifierConfig{
		Issuer:    cfg.Issuer,
		Audience:  cfg.Audience,
		Algorithm: cfg.Algorithm,
	})
	if err != nil {
		return err
	}

	d.Guard, err = auth.NewGuard(verifier)
	if err != nil {
		return err
	}
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Guard, d.Logger)

	if cfg.Prefetch {
		d.prefetchKeys(ctx, cfg.JWKSTimeout)
	}

	d.Logger.Info("auth initialized",
		zap.String("issuer", cfg.Issuer),
		zap.String("audience", cfg.Audience),
		zap.String("jwks_url", cfg.JWKSURL))
	return nil
}

// prefetchKeys warms the key cache. Failure is not fatal: the next request retries.
func (d *Dependencies) prefetchKeys(ctx context.Context, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := d.KeyCache.Refresh(ctx); err != nil {
		d.Logger.Warn("signing key prefetch failed", zap.Error(err))
	}
}

func (d *Dependencies) initServices() error {
	d.Audit = audit.NewAuditService(d.AuditLogs, d.Logger.Named("audit"), audit.DefaultConfig())
	if err := d.Audit.Start(); err != nil {
		return err
	}

	d.MovieService = services.NewMovieService(d.Movies, d.TxManager, d.Audit, d.Logger)
	d.ActorService = services.NewActorService(d.Actors, d.TxManager, d.Audit, d.Logger)
	return nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	// Drain audit entries before the database goes away
	if d.Audit != nil {
		timeout := auditStopTimeout
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		if err := d.Audit.Stop(timeout); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop audit service: %w", err))
		}
	}

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
