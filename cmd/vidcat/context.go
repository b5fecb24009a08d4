package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"vidcat/internal/assets"
	"vidcat/internal/config"
	"vidcat/internal/logging"
	"vidcat/internal/services"
	"vidcat/internal/store"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
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

// logLevel returns the --log-level override, falling back to warn so
// routine build chatter stays off the terminal.
func (c *commandContext) logLevel() string {
	if c.logLevelFlag != nil {
		if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
			return level
		}
	}
	return "warn"
}

// logger writes console records to stderr so command output stays clean.
func (c *commandContext) logger() *slog.Logger {
	logger, err := logging.New(logging.Options{
		Level:       c.logLevel(),
		Format:      "console",
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) withStore(fn func(*store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

// loadCatalog reads the persisted catalog.
func loadCatalog(ctx context.Context, st *store.Store) (*assets.Catalog, error) {
	cat, err := st.LoadCatalog(ctx)
	if errors.Is(err, services.ErrNotFound) {
		return nil, fmt.Errorf("no catalog has been built yet; run `vidcat build` first")
	}
	return cat, err
}

func findAsset(ctx context.Context, st *store.Store, id string) (assets.Asset, error) {
	asset, err := st.Get(ctx, strings.TrimSpace(id))
	if errors.Is(err, services.ErrNotFound) {
		return assets.Asset{}, fmt.Errorf("asset %q not found", id)
	}
	return asset, err
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
