package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"vidcat/internal/config"
	"vidcat/internal/logging"
	"vidcat/internal/services"
)

// DefaultUserAgent identifies catalog fetches.
const DefaultUserAgent = "Mozilla/5.0 (compatible; VideoAssetsPortal/1.0)"

// DefaultTimeout bounds a single fetch when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// DefaultMaxBodyBytes caps the CSV body size when no limit is configured.
const DefaultMaxBodyBytes = 64 << 20

// Source yields the raw CSV text of the catalog.
type Source interface {
	Fetch(ctx context.Context) (string, error)
	Location() string
}

// New selects an HTTP or file source for the configured location.
func New(cfg *config.Config, logger *slog.Logger) (Source, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "source", "new", "configuration is nil", nil)
	}
	return ForLocation(cfg.SourceLocation(), cfg, logger)
}

// ForLocation builds a source for an explicit location, using cfg for
// timeouts, user agent, and breaker settings.
func ForLocation(location string, cfg *config.Config, logger *slog.Logger) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, services.Wrap(services.ErrConfiguration, "source", "new", "no CSV location configured", nil)
	}
	if IsURL(location) {
		opts := HTTPOptions{}
		if cfg != nil {
			opts = HTTPOptions{
				Timeout:         cfg.SourceTimeout(),
				UserAgent:       cfg.Source.UserAgent,
				BreakerFailures: cfg.Source.BreakerFailures,
				BreakerCooldown: time.Duration(cfg.Source.BreakerCooldownSeconds) * time.Second,
			}
		}
		return NewHTTP(location, opts, logger), nil
	}
	path, err := config.ExpandPath(location)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "source", "new", "resolve CSV path", err)
	}
	return NewFile(path), nil
}

// IsURL reports whether location is an http or https URL.
func IsURL(location string) bool {
	lower := strings.ToLower(strings.TrimSpace(location))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// HTTPOptions tunes an HTTP source. Zero values fall back to defaults.
type HTTPOptions struct {
	Timeout         time.Duration
	UserAgent       string
	BreakerFailures int
	BreakerCooldown time.Duration
	// MaxBodyBytes rejects larger bodies instead of truncating them.
	MaxBodyBytes    int64
	Client          *http.Client
}

// HTTP fetches the CSV over HTTP.
type HTTP struct {
	url       string
	userAgent string
	client    *http.Client
	breaker   *Breaker
	maxBody   int64
	logger    *slog.Logger
}

// NewHTTP constructs an HTTP source for url.
func NewHTTP(url string, opts HTTPOptions, logger *slog.Logger) *HTTP {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = DefaultUserAgent
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	logger = logging.NewComponentLogger(logger, "source")
	return &HTTP{
		url:       url,
		userAgent: ua,
		client:    client,
		breaker:   NewBreaker("catalog-csv", opts.BreakerFailures, opts.BreakerCooldown, logger),
		maxBody:   maxBody,
		logger:    logger,
	}
}

// Location returns the URL being fetched.
func (h *HTTP) Location() string { return h.url }

// BreakerState reports the circuit breaker state (closed, half-open, open).
func (h *HTTP) BreakerState() string { return h.breaker.State() }

// Fetch downloads the CSV. The request is abandoned when ctx ends or the
// client timeout elapses.
func (h *HTTP) Fetch(ctx context.Context) (string, error) {
	start := time.Now()
	text, err := h.breaker.Execute(func() (string, error) {
		return h.fetch(ctx)
	})
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, h.logger), "catalog fetch failed", "source_fetch_failed",
			logging.String("url", h.url),
			logging.Error(err),
			logging.Duration("elapsed", time.Since(start)),
			logging.String(logging.FieldErrorHint, "check network access to the CSV source"),
			logging.String(logging.FieldImpact, "catalog not rebuilt"),
		)
		return "", err
	}
	h.logger.Info("catalog fetched",
		logging.String(logging.FieldEventType, "source_fetched"),
		logging.String("url", h.url),
		logging.Int("bytes", len(text)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return text, nil
}

func (h *HTTP) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "source", "build request", "invalid CSV URL", err)
	}
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", classify(err, "request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		message := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		if detail := strings.TrimSpace(string(snippet)); detail != "" {
			message += " (" + detail + ")"
		}
		return "", services.Wrap(services.ErrTransient, "source", "fetch", message, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBody+1))
	if err != nil {
		return "", classify(err, "read body")
	}
	if int64(len(body)) > h.maxBody {
		return "", services.Wrap(services.ErrValidation, "source", "fetch",
			fmt.Sprintf("CSV exceeds size limit of %d bytes", h.maxBody), nil)
	}
	if strings.TrimSpace(string(body)) == "" {
		return "", services.Wrap(services.ErrValidation, "source", "fetch", "CSV file is empty or could not be read", nil)
	}
	return string(body), nil
}

func classify(err error, operation string) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return services.Wrap(services.ErrTimeout, "source", operation, "request timed out", err)
	}
	return services.Wrap(services.ErrTransient, "source", operation, "network error", err)
}

// File reads the CSV from the local filesystem.
type File struct {
	path string
}

// NewFile constructs a file source.
func NewFile(path string) *File {
	return &File{path: path}
}

// Location returns the file path.
func (f *File) Location() string { return f.path }

// Fetch reads the whole file.
func (f *File) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", classify(err, "read file")
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", services.Wrap(services.ErrNotFound, "source", "read file", f.path, err)
		}
		return "", services.Wrap(services.ErrConfiguration, "source", "read file", f.path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", services.Wrap(services.ErrValidation, "source", "read file", "CSV file is empty or could not be read", nil)
	}
	return string(data), nil
}
