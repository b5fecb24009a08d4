package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"vidcat/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("VIDCAT_CSV_URL", "")
	t.Setenv("GITHUB_PERSONAL_ACCESS_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "vidcat")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "vidcat.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.Paths.APIBind != "127.0.0.1:7488" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Source.CSVURL != config.Default().Source.CSVURL {
		t.Fatalf("unexpected csv url: %q", cfg.Source.CSVURL)
	}
	if cfg.SourceTimeout() != 30*time.Second {
		t.Fatalf("unexpected source timeout: %s", cfg.SourceTimeout())
	}
	if cfg.RefreshInterval() != 0 {
		t.Fatalf("expected refresh disabled by default, got %s", cfg.RefreshInterval())
	}
	if cfg.Issues.Enabled {
		t.Fatal("expected issues disabled by default")
	}
	if cfg.Catalog.Version != "1.0.0" {
		t.Fatalf("unexpected catalog version: %q", cfg.Catalog.Version)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vidcat.toml")
	csvPath := filepath.Join(tempDir, "assets.csv")

	type payload struct {
		Source struct {
			CSVPath                string `toml:"csv_path"`
			TimeoutSeconds         int    `toml:"timeout_seconds"`
			RefreshIntervalMinutes int    `toml:"refresh_interval_minutes"`
		} `toml:"source"`
		Portal struct {
			CORSOrigins []string `toml:"cors_origins"`
		} `toml:"portal"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Source.CSVPath = csvPath
	custom.Source.TimeoutSeconds = 5
	custom.Source.RefreshIntervalMinutes = 15
	custom.Portal.CORSOrigins = []string{"https://ui.example.com/", " https://ui.example.com", ""}
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.SourceLocation() != csvPath {
		t.Fatalf("expected csv path to win, got %q", cfg.SourceLocation())
	}
	if cfg.SourceTimeout() != 5*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.SourceTimeout())
	}
	if cfg.RefreshInterval() != 15*time.Minute {
		t.Fatalf("unexpected refresh interval: %s", cfg.RefreshInterval())
	}
	if len(cfg.Portal.CORSOrigins) != 1 || cfg.Portal.CORSOrigins[0] != "https://ui.example.com" {
		t.Fatalf("unexpected cors origins: %v", cfg.Portal.CORSOrigins)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json format, got %q", cfg.Logging.Format)
	}
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vidcat.toml")

	type payload struct {
		Paths struct {
			APIToken string `toml:"api_token"`
		} `toml:"paths"`
		Source struct {
			CSVURL string `toml:"csv_url"`
		} `toml:"source"`
		Issues struct {
			Token string `toml:"token"`
		} `toml:"issues"`
	}
	custom := payload{}
	custom.Paths.APIToken = "file-api"
	custom.Source.CSVURL = "https://file.example.com/assets.csv"
	custom.Issues.Token = "file-github"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	t.Setenv("VIDCAT_API_TOKEN", "env-api")
	t.Setenv("VIDCAT_CSV_URL", "https://env.example.com/assets.csv")
	t.Setenv("GITHUB_PERSONAL_ACCESS_TOKEN", "env-github")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.APIToken != "env-api" {
		t.Errorf("expected API token from env, got %q", cfg.Paths.APIToken)
	}
	if cfg.Source.CSVURL != "https://env.example.com/assets.csv" {
		t.Errorf("expected csv url from env, got %q", cfg.Source.CSVURL)
	}
	if cfg.Issues.Token != "env-github" {
		t.Errorf("expected github token from env, got %q", cfg.Issues.Token)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "your_github_owner") {
		t.Fatalf("sample config missing placeholder owner: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.DataDir, "vidcat") {
		t.Fatalf("expected data dir to contain vidcat, got %q", cfg.Paths.DataDir)
	}
	if cfg.Source.TimeoutSeconds != 30 {
		t.Fatalf("unexpected sample timeout: %d", cfg.Source.TimeoutSeconds)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Source.TimeoutSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive timeout")
	}

	cfg = config.Default()
	cfg.Source.CSVURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without any source")
	}

	cfg = config.Default()
	cfg.Source.CSVURL = "ftp://example.com/a.csv"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-http source url")
	}

	cfg = config.Default()
	cfg.Issues.Enabled = true
	cfg.Issues.Owner = "owner"
	cfg.Issues.Repo = "repo"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when issues enabled without token")
	}

	cfg = config.Default()
	cfg.Portal.IssueRateLimit = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero rate limit")
	}

	cfg = config.Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}

	cfg = config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}
