package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/upb/casting-agency/app"
	"github.com/upb/casting-agency/config"
	"github.com/upb/casting-agency/internal/observability"
	"github.com/upb/casting-agency/repositories/postgres"
	"github.com/upb/casting-agency/routes"
	"go.uber.org/zap"
)

type CLI struct {
	Serve   ServeCmd   `cmd:"" default:"1" help:"Run the casting agency API."`
	Migrate MigrateCmd `cmd:"" help:"Manage the database schema."`
}

type ServeCmd struct{}

func (c *ServeCmd) Run(ctx context.Context, logger *zap.Logger) error {
	cfg, err := config.New(ctx)
	if err != nil {
		return err
	}

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := deps.Close(closeCtx); err != nil {
			logger.Error("failed to release dependencies", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		migrator, err := deps.DB.NewMigrator()
		if err != nil {
			return err
		}
		if err := migrator.Up(ctx); err != nil {
			return err
		}
	}

	listener, err := net.Listen("tcp", cfg.Server.Address())
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := &http.Server{
		Handler:           routes.SetupRoutes(deps),
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("casting agency API listening",
		zap.String("address", listener.Addr().String()),
		zap.String("environment", cfg.Environment))

	return serve(ctx, srv, listener, cfg.Server.ShutdownTimeout, logger)
}

// serve runs srv on listener until ctx is cancelled, then drains in-flight
// requests for at most shutdownTimeout.
func serve(ctx context.Context, srv *http.Server, listener net.Listener, shutdownTimeout time.Duration, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

type MigrateCmd struct {
	Up     MigrateUpCmd     `cmd:"" help:"Apply all pending migrations."`
	Down   MigrateDownCmd   `cmd:"" help:"Roll back the most recent migration."`
	Status MigrateStatusCmd `cmd:"" help:"Show which migrations are applied."`
}

type MigrateUpCmd struct{}

func (c *MigrateUpCmd) Run(ctx context.Context, logger *zap.Logger) error {
	return withMigrator(logger, func(m *postgres.Migrator) error {
		return m.Up(ctx)
	})
}

type MigrateDownCmd struct{}

func (c *MigrateDownCmd) Run(ctx context.Context, logger *zap.Logger) error {
	return withMigrator(logger, func(m *postgres.Migrator) error {
		return m.Down(ctx)
	})
}

type MigrateStatusCmd struct{}

func (c *MigrateStatusCmd) Run(ctx context.Context, logger *zap.Logger) error {
	return withMigrator(logger, func(m *postgres.Migrator) error {
		states, err := m.Status(ctx)
		if err != nil {
			return err
		}
		return printStatus(os.Stdout, states)
	})
}

func withMigrator(logger *zap.Logger, fn func(*postgres.Migrator) error) error {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	db, err := postgres.NewDB(dbCfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	migrator, err := db.NewMigrator()
	if err != nil {
		return err
	}
	return fn(migrator)
}

func printStatus(w io.Writer, states []postgres.MigrationState) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATE\tFILE")
	for _, s := range states {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Version, state, s.File)
	}
	return tw.Flush()
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("casting-agency"),
		kong.Description("Casting agency API: movies and actors behind Auth0 permissions."),
		kong.UsageOnError(),
	)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cliCtx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	logger, err := observability.NewLogger(config.LoadObservability())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	cliCtx.BindTo(ctx, (*context.Context)(nil))
	cliCtx.Bind(logger)

	if err := cliCtx.Run(); err != nil {
		logger.Error("command failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
