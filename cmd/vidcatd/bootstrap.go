package main

import (
	"os"
	"strings"

	"vidcat/internal/daemonrun"
)

const (
	envConfig   = "VIDCAT_CONFIG"
	envLogLevel = "VIDCAT_LOG_LEVEL"
	envAPIBind  = "VIDCAT_API_BIND"
)

// configPathFromEnv returns an explicit config path, or "" to use the
// default search locations.
func configPathFromEnv() string {
	return strings.TrimSpace(os.Getenv(envConfig))
}

func daemonOptionsFromEnv() daemonrun.Options {
	return daemonrun.Options{
		LogLevel: strings.TrimSpace(os.Getenv(envLogLevel)),
		Bind:     strings.TrimSpace(os.Getenv(envAPIBind)),
	}
}
