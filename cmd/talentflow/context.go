package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"talentflow/internal/board"
	"talentflow/internal/config"
	"talentflow/internal/fallback"
	"talentflow/internal/logging"
	"talentflow/internal/pipeline"
	"talentflow/internal/reconciler"
	"talentflow/internal/remote"
	"talentflow/internal/stage"
	"talentflow/internal/view"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// logger writes to the command's stderr so stdout stays machine-readable.
func (c *commandContext) logger(cmd *cobra.Command) *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil {
		return logging.NewNop()
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) registry() (*stage.Registry, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	registry, err := stage.FromConfig(cfg.Stages)
	if err != nil {
		return nil, fmt.Errorf("stage registry: %w", err)
	}
	return registry, nil
}

// session is the wired stack one CLI invocation works with.
type session struct {
	cfg        *config.Config
	registry   *stage.Registry
	reconciler *reconciler.Reconciler
	board      *board.Controller
	mode       reconciler.Mode
}

func (c *commandContext) openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	registry, err := c.registry()
	if err != nil {
		return nil, err
	}
	logger := c.logger(cmd)

	cache, err := fallback.New(fallback.WithRegistry(registry), fallback.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("fallback dataset: %w", err)
	}
	client, err := remote.New(cfg.Remote.BaseURL,
		remote.WithToken(cfg.Remote.APIToken),
		remote.WithTimeout(cfg.RequestTimeout()),
		remote.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("remote client: %w", err)
	}
	// A nil *remote.Client must not become a non-nil interface.
	var remoteSource reconciler.Source
	if client != nil {
		remoteSource = client
	}

	rec := reconciler.New(remoteSource, cache, reconciler.Options{
		ProbeTimeout:   cfg.ProbeTimeout(),
		RequestTimeout: cfg.RequestTimeout(),
		PersistTimeout: cfg.PersistTimeout(),
		Logger:         logger,
	})
	mode := rec.Init(ctx)

	key, err := view.ParseSortKey(cfg.Board.DefaultSort)
	if err != nil {
		return nil, err
	}
	dir, err := view.ParseDirection(cfg.Board.DefaultDirection)
	if err != nil {
		return nil, err
	}
	store := pipeline.NewStore(registry, pipeline.WithLogger(logger))
	ctrl := board.New(store, rec, board.Options{
		Logger:             logger,
		SortKey:            key,
		Direction:          dir,
		ConfirmDestructive: cfg.Board.ConfirmDestructive,
	})

	return &session{
		cfg:        cfg,
		registry:   registry,
		reconciler: rec,
		board:      ctrl,
		mode:       mode,
	}, nil
}

// loadBoard opens a session and loads jobID into it.
func (c *commandContext) loadBoard(cmd *cobra.Command, jobID string) (*session, board.LoadReport, error) {
	sess, err := c.openSession(cmd.Context(), cmd)
	if err != nil {
		return nil, board.LoadReport{}, err
	}
	report, err := sess.board.Load(cmd.Context(), jobID)
	if err != nil {
		return nil, report, err
	}
	return sess, report, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
