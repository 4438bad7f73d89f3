package main

import (
	"context"
	"fmt"
	"strings"

	"talentflow/internal/boardserver"
	"talentflow/internal/config"
	"talentflow/internal/fallback"
	"talentflow/internal/logging"
	"talentflow/internal/stage"
)

type serveOptions struct {
	seed bool
	bind string
}

// run holds the single-instance lock for the lifetime of the server.
func run(ctx context.Context, cfg *config.Config, opts serveOptions, ready chan<- string) error {
	logger, err := logging.NewFromConfig(cfg, "talentflowd.log")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	lock, err := boardserver.AcquireLock(cfg.LockPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release lock", logging.Error(err))
		}
	}()

	store, err := boardserver.Open(cfg)
	if err != nil {
		return fmt.Errorf("open board store: %w", err)
	}
	defer store.Close()

	registry, err := stage.FromConfig(cfg.Stages)
	if err != nil {
		return fmt.Errorf("stage registry: %w", err)
	}

	if opts.seed {
		cache, err := fallback.New(fallback.WithRegistry(registry), fallback.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("load fixtures: %w", err)
		}
		report, err := store.SeedFixtures(ctx, cache)
		if err != nil {
			return err
		}
		logger.Info("seeded fixture jobs",
			logging.Int("jobs", report.Jobs),
			logging.Int("applications", report.Applications),
		)
	}

	jobs, apps, err := store.Counts(ctx)
	if err != nil {
		return err
	}
	logger.Info("talentflowd starting",
		logging.String("db", store.Path()),
		logging.String("lock", cfg.LockPath()),
		logging.Int("jobs", jobs),
		logging.Int("applications", apps),
	)

	bind := strings.TrimSpace(opts.bind)
	if bind == "" {
		bind = cfg.Server.Bind
	}
	server := boardserver.NewServer(store, registry,
		boardserver.WithLogger(logger),
		boardserver.WithAPIToken(cfg.Server.APIToken),
		boardserver.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
	)
	if err := server.Run(ctx, bind, ready); err != nil {
		return err
	}
	logger.Info("talentflowd shutting down")
	return nil
}
