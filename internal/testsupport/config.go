package testsupport

import (
	"path/filepath"
	"testing"

	"vidcat/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Source.CSVURL = ""
	cfgVal.Source.CSVPath = filepath.Join(base, "assets.csv")
	cfgVal.Logging.Format = "json"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSourceURL points the catalog source at an HTTP URL instead of the
// temp CSV file.
func WithSourceURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Source.CSVPath = ""
		b.cfg.Source.CSVURL = url
	}
}

// WithAPIToken guards the portal's reload endpoint with token.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
	}
}

// WithIssueTracker enables issue filing against baseURL.
func WithIssueTracker(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Issues.Enabled = true
		b.cfg.Issues.APIBaseURL = baseURL
		b.cfg.Issues.Owner = "owner"
		b.cfg.Issues.Repo = "repo"
		b.cfg.Issues.Token = "token"
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
