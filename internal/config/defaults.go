package config

const (
	defaultConfigPath             = "~/.config/vidcat/config.toml"
	projectConfigFile             = "vidcat.toml"
	defaultDataDir                = "~/.local/share/vidcat"
	defaultLogDir                 = "~/.local/share/vidcat/logs"
	defaultAPIBind                = "127.0.0.1:7488"
	defaultCSVURL                 = "https://hebbkx1anhila5yf.public.blob.vercel-storage.com/FINAL-consolidated-video-test-assets-jdHni20uYFY2xAC7Hzgw7CvJh9lSDt.csv"
	defaultSourceTimeoutSeconds   = 30
	defaultSourceUserAgent        = "Mozilla/5.0 (compatible; VideoAssetsPortal/1.0)"
	defaultBreakerFailures        = 3
	defaultBreakerCooldownSeconds = 60
	defaultCatalogVersion         = "1.0.0"
	defaultIssuesAPIBaseURL       = "https://api.github.com"
	defaultIssuesTimeoutSeconds   = 15
	defaultIssueRateLimit         = 5
	defaultIssueRateWindowSeconds = 60
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Source: Source{
			CSVURL:                 defaultCSVURL,
			TimeoutSeconds:         defaultSourceTimeoutSeconds,
			UserAgent:              defaultSourceUserAgent,
			BreakerFailures:        defaultBreakerFailures,
			BreakerCooldownSeconds: defaultBreakerCooldownSeconds,
		},
		Catalog: Catalog{
			Version: defaultCatalogVersion,
		},
		Issues: Issues{
			APIBaseURL:     defaultIssuesAPIBaseURL,
			TimeoutSeconds: defaultIssuesTimeoutSeconds,
		},
		Portal: Portal{
			IssueRateLimit:         defaultIssueRateLimit,
			IssueRateWindowSeconds: defaultIssueRateWindowSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
