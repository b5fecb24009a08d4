package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateIssues(); err != nil {
		return err
	}
	if err := c.validatePortal(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSource() error {
	if c.Source.CSVURL == "" && c.Source.CSVPath == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("source.csv_url or source.csv_path is required. Set VIDCAT_CSV_URL or edit %s (create with 'vidcat config init')", defaultPath)
	}
	if c.Source.CSVURL != "" && c.Source.CSVPath == "" {
		parsed, err := url.Parse(c.Source.CSVURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("source.csv_url must be an absolute http(s) URL, got %q", c.Source.CSVURL)
		}
	}
	if err := ensurePositiveMap(map[string]int{
		"source.timeout_seconds":          c.Source.TimeoutSeconds,
		"source.breaker_failures":         c.Source.BreakerFailures,
		"source.breaker_cooldown_seconds": c.Source.BreakerCooldownSeconds,
	}); err != nil {
		return err
	}
	if strings.TrimSpace(c.Catalog.Version) == "" {
		return errors.New("catalog.version must be set")
	}
	return nil
}

func (c *Config) validateIssues() error {
	if c.Issues.TimeoutSeconds <= 0 {
		return errors.New("issues.timeout_seconds must be positive")
	}
	if !c.Issues.Enabled {
		return nil
	}
	if c.Issues.Owner == "" {
		return errors.New("issues.owner must be set when issues.enabled is true")
	}
	if c.Issues.Repo == "" {
		return errors.New("issues.repo must be set when issues.enabled is true")
	}
	if c.Issues.Token == "" {
		return errors.New("issues.token must be set when issues.enabled is true (or set GITHUB_PERSONAL_ACCESS_TOKEN)")
	}
	return nil
}

func (c *Config) validatePortal() error {
	return ensurePositiveMap(map[string]int{
		"portal.issue_rate_limit":          c.Portal.IssueRateLimit,
		"portal.issue_rate_window_seconds": c.Portal.IssueRateWindowSeconds,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
