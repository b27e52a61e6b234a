package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"gleaner/internal/catalog"
	"gleaner/internal/config"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// configPath returns the value of the root --config flag, empty when
// the default resolution order should apply.
func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger(cfg *config.Config) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		c.logger, c.loggerErr = newConfiguredLogger(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) withStore(fn func(*catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg.CatalogPath())
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// resolveRun looks up a run by UUID, or the most recent run when the
// flag is empty.
func resolveRun(ctx context.Context, store *catalog.Store, runFlag string) (*catalog.Run, error) {
	runFlag = strings.TrimSpace(runFlag)
	if runFlag == "" {
		run, err := store.LatestRun(ctx)
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, errors.New("no runs recorded yet; start one with `gleaner run <playlist-id>`")
		}
		return run, err
	}
	run, err := store.FindRun(ctx, runFlag)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, fmt.Errorf("run %s not found; list runs with `gleaner runs`", runFlag)
	}
	return run, err
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
