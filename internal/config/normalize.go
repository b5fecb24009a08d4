package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeSource(); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizeIssues()
	c.normalizePortal()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if value, ok := lookupEnv("VIDCAT_API_TOKEN"); ok {
		c.Paths.APIToken = value
	}
	return nil
}

func (c *Config) normalizeSource() error {
	c.Source.CSVURL = strings.TrimSpace(c.Source.CSVURL)
	if value, ok := lookupEnv("VIDCAT_CSV_URL"); ok {
		c.Source.CSVURL = value
	}
	c.Source.CSVPath = strings.TrimSpace(c.Source.CSVPath)
	if c.Source.CSVPath != "" {
		expanded, err := expandPath(c.Source.CSVPath)
		if err != nil {
			return fmt.Errorf("source.csv_path: %w", err)
		}
		c.Source.CSVPath = expanded
	}
	c.Source.UserAgent = strings.TrimSpace(c.Source.UserAgent)
	if c.Source.UserAgent == "" {
		c.Source.UserAgent = defaultSourceUserAgent
	}
	if c.Source.RefreshIntervalMinutes < 0 {
		c.Source.RefreshIntervalMinutes = 0
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	c.Catalog.Version = strings.TrimSpace(c.Catalog.Version)
	if c.Catalog.Version == "" {
		c.Catalog.Version = defaultCatalogVersion
	}
}

func (c *Config) normalizeIssues() {
	c.Issues.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.Issues.APIBaseURL), "/")
	if c.Issues.APIBaseURL == "" {
		c.Issues.APIBaseURL = defaultIssuesAPIBaseURL
	}
	c.Issues.Owner = strings.TrimSpace(c.Issues.Owner)
	c.Issues.Repo = strings.TrimSpace(c.Issues.Repo)
	c.Issues.Token = strings.TrimSpace(c.Issues.Token)
	if value, ok := lookupEnv("GITHUB_PERSONAL_ACCESS_TOKEN"); ok {
		c.Issues.Token = value
	} else if value, ok := lookupEnv("GITHUB_TOKEN"); ok {
		c.Issues.Token = value
	}
	c.Issues.DispatchEvent = strings.TrimSpace(c.Issues.DispatchEvent)
}

func (c *Config) normalizePortal() {
	origins := make([]string, 0, len(c.Portal.CORSOrigins))
	seen := make(map[string]struct{}, len(c.Portal.CORSOrigins))
	for _, origin := range c.Portal.CORSOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" {
			continue
		}
		if _, exists := seen[origin]; exists {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	c.Portal.CORSOrigins = origins
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}
