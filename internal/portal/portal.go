package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"vidcat/internal/assets"
	"vidcat/internal/catalog"
	"vidcat/internal/config"
	"vidcat/internal/issues"
	"vidcat/internal/logging"
	"vidcat/internal/services"
	"vidcat/internal/source"
	"vidcat/internal/store"
)

// Portal serves the catalog over HTTP and keeps it fresh. Only one portal
// may run per data directory.
type Portal struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	source  source.Source
	builder *catalog.Builder
	issues  issues.Service
	metrics *metrics
	api     *apiServer
	now     func() time.Time

	lockPath string
	lock     *flock.Flock

	reloadMu sync.Mutex
	mu       sync.RWMutex
	catalog  *assets.Catalog
	stats    catalog.BuildStats
	loadedAt time.Time
	lastErr  error

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status reports portal runtime information.
type Status struct {
	Running       bool               `json:"running"`
	Assets        int                `json:"assets"`
	Source        string             `json:"source"`
	LastBuild     time.Time          `json:"lastBuild,omitzero"`
	LoadedAt      time.Time          `json:"loadedAt,omitzero"`
	LastError     string             `json:"lastError,omitempty"`
	Breaker       string             `json:"breaker,omitempty"`
	BuildStats    catalog.BuildStats `json:"buildStats"`
	IssuesEnabled bool               `json:"issuesEnabled"`
	DatabasePath  string             `json:"databasePath"`
	LockFilePath  string             `json:"lockFilePath"`
	Address       string             `json:"address,omitempty"`
}

// Option customizes a Portal.
type Option func(*Portal)

// WithSource replaces the configured CSV source.
func WithSource(src source.Source) Option {
	return func(p *Portal) {
		if src != nil {
			p.source = src
		}
	}
}

// WithIssueService replaces the configured issue tracker client.
func WithIssueService(svc issues.Service) Option {
	return func(p *Portal) {
		if svc != nil {
			p.issues = svc
		}
	}
}

// WithClock overrides the time source used for build stamps and filenames.
func WithClock(now func() time.Time) Option {
	return func(p *Portal) {
		if now != nil {
			p.now = now
		}
	}
}

// New constructs a portal with initialized dependencies.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, opts ...Option) (*Portal, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("portal requires config and store")
	}
	logger = logging.NewComponentLogger(logger, "portal")
	lockPath := cfg.LockPath()
	p := &Portal{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		metrics:  newMetrics(),
		now:      time.Now,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.source == nil {
		src, err := source.New(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("portal source: %w", err)
		}
		p.source = src
	}
	if p.issues == nil {
		p.issues = issues.NewService(cfg, logger)
	}
	p.builder = catalog.NewBuilder(logger, catalog.WithVersion(cfg.Catalog.Version), catalog.WithClock(p.now))
	p.api = newAPIServer(cfg, p, logger)
	return p, nil
}

// Start acquires the portal lock, loads the catalog, and begins serving.
// A failed initial load does not stop the portal: the last persisted catalog
// is served if one exists, and the error is reported until a reload succeeds.
func (p *Portal) Start(ctx context.Context) error {
	if p.running.Load() {
		return errors.New("portal already running")
	}

	ok, err := p.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another vidcat portal instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if _, err := p.Reload(runCtx); err != nil {
		p.restore(runCtx)
	}

	if err := p.api.start(runCtx); err != nil {
		cancel()
		_ = p.lock.Unlock()
		return err
	}
	p.cancel = cancel

	if interval := p.cfg.RefreshInterval(); interval > 0 {
		p.wg.Add(1)
		go p.refreshLoop(runCtx, interval)
	}

	p.running.Store(true)
	p.logger.Info("vidcat portal started",
		logging.String("lock", p.lockPath),
		logging.String("source", p.source.Location()),
		logging.Int("assets", p.Catalog().Len()),
	)
	return nil
}

// Stop stops serving and releases the portal lock.
func (p *Portal) Stop() {
	if !p.running.Load() {
		return
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.api.stop()
	p.wg.Wait()
	if err := p.lock.Unlock(); err != nil {
		p.logger.Warn("failed to release portal lock", logging.Error(err))
	}
	p.running.Store(false)
	p.logger.Info("vidcat portal stopped")
}

// Close releases resources held by the portal. The store is owned by the
// caller and left open.
func (p *Portal) Close() error {
	p.Stop()
	return nil
}

// Handler exposes the HTTP API without binding a listener.
func (p *Portal) Handler() http.Handler {
	return p.api.server.Handler
}

// Address reports the bound API address once started.
func (p *Portal) Address() string {
	return p.api.address()
}

// Catalog returns the catalog currently served, or nil when none loaded.
func (p *Portal) Catalog() *assets.Catalog {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.catalog
}

// LastError returns the error from the most recent load attempt, or nil when
// it succeeded.
func (p *Portal) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// Reload fetches and rebuilds the catalog. On failure the previous catalog
// stays in service and the error is returned.
func (p *Portal) Reload(ctx context.Context) (catalog.BuildStats, error) {
	p.reloadMu.Lock()
	defer p.reloadMu.Unlock()

	start := time.Now()
	cat, stats, err := p.build(ctx)
	if err != nil {
		p.metrics.observeBuild(buildFailure, time.Since(start))
		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()
		logging.WarnWithContext(logging.WithContext(ctx, p.logger), "catalog reload failed", "catalog_reload_failed",
			logging.String("source", p.source.Location()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the CSV source and retry with POST /api/reload"),
			logging.String(logging.FieldImpact, "previous catalog remains in service"),
		)
		return stats, err
	}
	p.metrics.observeBuild(buildSuccess, time.Since(start))
	p.metrics.skippedRows.Add(float64(stats.Skipped))

	if err := p.store.ReplaceCatalog(ctx, cat); err != nil {
		logging.WarnWithContext(p.logger, "catalog not persisted", "catalog_persist_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "catalog served from memory only"),
		)
	}
	p.install(cat, stats, nil)
	return stats, nil
}

func (p *Portal) build(ctx context.Context) (*assets.Catalog, catalog.BuildStats, error) {
	text, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, catalog.BuildStats{}, err
	}
	return p.builder.Build(text, p.source.Location())
}

// restore serves the last persisted catalog after a failed initial load.
// The load error stays visible in status.
func (p *Portal) restore(ctx context.Context) {
	loadErr := p.LastError()
	cat, err := p.store.LoadCatalog(ctx)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			p.logger.Warn("persisted catalog unavailable", logging.Error(err))
		}
		return
	}
	p.install(cat, catalog.BuildStats{Assets: cat.Len()}, loadErr)
	p.logger.Info("serving persisted catalog",
		logging.Int("assets", cat.Len()),
		logging.String("built", cat.Metadata.BuildTimestamp.Format(time.RFC3339)),
	)
}

func (p *Portal) install(cat *assets.Catalog, stats catalog.BuildStats, loadErr error) {
	p.mu.Lock()
	p.catalog = cat
	p.stats = stats
	p.loadedAt = p.now()
	p.lastErr = loadErr
	p.mu.Unlock()
	p.metrics.assets.Set(float64(cat.Len()))
	if !cat.Metadata.BuildTimestamp.IsZero() {
		p.metrics.lastBuild.Set(float64(cat.Metadata.BuildTimestamp.Unix()))
	}
}

func (p *Portal) refreshLoop(ctx context.Context, interval time.Duration) {
	defer p.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.Reload(ctx); err == nil {
				p.logger.Debug("scheduled catalog refresh complete")
			}
		}
	}
}

// Status returns portal runtime information.
func (p *Portal) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	status := Status{
		Running:       p.running.Load(),
		Assets:        p.catalog.Len(),
		Source:        p.source.Location(),
		LoadedAt:      p.loadedAt,
		BuildStats:    p.stats,
		IssuesEnabled: p.issues.Enabled(),
		DatabasePath:  p.store.Path(),
		LockFilePath:  p.lockPath,
		Address:       p.api.address(),
	}
	if p.catalog != nil {
		status.LastBuild = p.catalog.Metadata.BuildTimestamp
	}
	if p.lastErr != nil {
		status.LastError = p.lastErr.Error()
	}
	if b, ok := p.source.(interface{ BreakerState() string }); ok {
		status.Breaker = b.BreakerState()
	}
	return status
}
