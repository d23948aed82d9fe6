package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/TrainingReg/internal/app"
	"github.com/JonMunkholm/TrainingReg/internal/config"
	"github.com/JonMunkholm/TrainingReg/internal/core"
	"github.com/JonMunkholm/TrainingReg/internal/logging"
	"github.com/JonMunkholm/TrainingReg/internal/metrics"
	"github.com/JonMunkholm/TrainingReg/internal/review"
	"github.com/JonMunkholm/TrainingReg/internal/web"
)

func main() {
	// Overload lets a local .env win over the shell environment.
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"database", cfg.UsesDatabase(),
		"feed", cfg.FeedDriver(),
		"rate_limit_enabled", cfg.Rate.Enabled,
		"export_locale", cfg.Export.Locale,
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog, err := core.LoadCatalog(cfg.Form.CatalogPath)
	if err != nil {
		return err
	}

	backend, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	reviewOpts, err := app.ReviewOptions(cfg)
	if err != nil {
		return err
	}

	m := metrics.New()
	reviewOpts.Logger = logger
	reviewOpts.Metrics = m
	pipeline := review.NewPipeline(backend.Store, reviewOpts)

	service := core.NewService(backend.Store, catalog,
		core.WithPublisher(backend.Publisher),
		core.WithSubmitRecorder(m),
		core.WithWriteLimiter(core.NewWriteLimiter(cfg.Submit.MaxConcurrent, cfg.Submit.MaxWait)),
	)

	opts := web.Options{
		RequestTimeout: cfg.Server.RequestTimeout,
		EventHeartbeat: cfg.Server.EventHeartbeat,
		TrustedProxies: cfg.Security.TrustedProxies,
		EnableCSP:      cfg.Security.EnableCSP,
		Location:       reviewOpts.Location,
	}
	if cfg.Rate.Enabled {
		opts.SubmitPerMinute = cfg.Rate.SubmitPerMinute
	}
	server := web.NewServer(web.Deps{
		Service:  service,
		Pipeline: pipeline,
		Metrics:  m,
		Health:   backend.Health,
	}, opts)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return pipeline.Watch(gctx, backend.Store)
	})

	g.Go(func() error {
		return server.Start(cfg.Server.Addr(),
			cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if err := service.WaitForWrites(shutdownCtx); err != nil {
			logger.Warn("registrations still being saved at shutdown", "error", err)
		}
		return nil
	})

	return g.Wait()
}
