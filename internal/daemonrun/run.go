package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"vidcat/internal/config"
	"vidcat/internal/logging"
	"vidcat/internal/portal"
	"vidcat/internal/store"
)

// Options configures portal process runtime behavior.
type Options struct {
	LogLevel string
	// Bind overrides paths.api_bind when set.
	Bind string
}

// PIDFileName is written to the data directory while the portal runs.
const PIDFileName = "vidcatd.pid"

// Run starts the portal and blocks until ctx is cancelled or the process
// receives SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runCfg := *cfg
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		runCfg.Logging.Level = level
	}
	if bind := strings.TrimSpace(opts.Bind); bind != "" {
		runCfg.Paths.APIBind = bind
	}
	if err := runCfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(&runCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logConfigSnapshot(logger, &runCfg)

	pidPath := filepath.Join(runCfg.Paths.DataDir, PIDFileName)
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	st, err := store.Open(&runCfg)
	if err != nil {
		logger.Error("open catalog store", logging.Error(err))
		return err
	}
	defer st.Close()

	p, err := portal.New(&runCfg, st, logger)
	if err != nil {
		return fmt.Errorf("create portal: %w", err)
	}
	defer p.Close()

	if err := p.Start(signalCtx); err != nil {
		logging.ErrorWithContext(logger, "portal start failed", "portal_start_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.api_bind and that no other portal uses this data directory"),
		)
		return err
	}

	<-signalCtx.Done()
	logger.Info("vidcat portal shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logConfigSnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	logger.Info("configuration snapshot",
		logging.String(logging.FieldEventType, "config_snapshot"),
		logging.String("source", cfg.SourceLocation()),
		logging.String("api_bind", cfg.Paths.APIBind),
		logging.Bool("api_token_present", cfg.Paths.APIToken != ""),
		logging.Bool("issues_enabled", cfg.Issues.Enabled),
		logging.Duration("refresh_interval", cfg.RefreshInterval()),
		logging.String("database", cfg.DatabasePath()),
	)
}
