// Command vidcatd runs the catalog portal as a long-lived service.
//
// It loads configuration from VIDCAT_CONFIG (or the default locations),
// serves the HTTP API until SIGINT or SIGTERM, and honours
// VIDCAT_LOG_LEVEL and VIDCAT_API_BIND overrides.
package main
