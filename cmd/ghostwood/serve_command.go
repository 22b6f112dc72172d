package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"ghostwood/internal/compare"
	"ghostwood/internal/config"
	"ghostwood/internal/design"
	"ghostwood/internal/generation"
	"ghostwood/internal/heritage"
	"ghostwood/internal/history"
	"ghostwood/internal/logging"
	"ghostwood/internal/preflight"
	"ghostwood/internal/server"
	"ghostwood/internal/services"
	"ghostwood/internal/specgen"
	"ghostwood/internal/wizard"
)

// errAlreadyRunning is returned when another server holds the instance lock.
var errAlreadyRunning = errors.New("another ghostwood server is already running")

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP configurator",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if value := strings.TrimSpace(bind); value != "" {
				cfg.Paths.APIBind = value
			}
			return runServer(cmd, cfg)
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Override paths.api_bind")
	return cmd
}

func runServer(cmd *cobra.Command, cfg *config.Config) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if failed := preflight.Failed(preflight.CheckDirectories(cfg)); len(failed) > 0 {
		return fmt.Errorf("%s: %s", failed[0].Name, failed[0].Detail)
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	if !locked {
		return errAlreadyRunning
	}
	defer func() { _ = lock.Unlock() }()

	store, err := history.OpenFromConfig(signalCtx, cfg, logger)
	if err != nil {
		logger.Warn("design history unavailable; saved designs will not persist",
			logging.Error(err))
	}
	defer store.Close()

	provider, err := services.NewProvider(signalCtx, cfg, logger)
	if err != nil {
		logger.Warn("generation provider unavailable; generation requests will fail",
			logging.Error(err))
		provider = nil
	}

	srv := server.New(server.Options{
		Bind:    cfg.Paths.APIBind,
		Token:   cfg.Paths.APIToken,
		Wizard:  wizardDeps(cfg, provider, store, logger),
		History: store,
		Logger:  logger,
	})
	if err := srv.Start(signalCtx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Ghostwood listening on http://%s\n", srv.Addr())

	go loadStartup(signalCtx, cfg, provider, srv, logger)

	<-signalCtx.Done()
	logger.Info("ghostwood shutting down")
	srv.Stop()
	return nil
}

func wizardDeps(cfg *config.Config, provider generation.Service, store *history.Store, logger *slog.Logger) wizard.Deps {
	return wizard.Deps{
		Generator: specgen.New(provider, specgen.Options{
			Brand:           cfg.Brand.Name,
			FallbackContext: cfg.Brand.FallbackContext,
			Logger:          logger,
		}),
		Analyzer: compare.NewEngine(provider, cfg.Brand.Name, nil, logger),
		History:  store,
		Factory:  design.DefaultFactory,
		Pricing: wizard.Pricing{
			Cents:    cfg.Checkout.PriceCents,
			Currency: cfg.Checkout.Currency,
			LeadTime: cfg.Checkout.LeadTime,
		},
		Logger: logger,
	}
}

// loadStartup runs the brand lookups once and publishes the result. Without
// a provider the defaults are published immediately.
func loadStartup(ctx context.Context, cfg *config.Config, provider generation.Service, srv *server.Server, logger *slog.Logger) {
	if provider == nil {
		srv.SetStartup(heritage.Startup{Demos: []generation.Link{}})
		return
	}
	svc := heritage.New(provider, heritage.Options{
		Brand:        cfg.Brand.Name,
		Query:        cfg.Brand.HeritageQuery,
		Channel:      cfg.Brand.DemoChannel,
		DemoPatterns: cfg.Brand.DemoURLPatterns,
		Logger:       logger,
	})
	srv.SetStartup(svc.LoadStartup(ctx))
}
