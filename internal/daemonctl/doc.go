// Package daemonctl inspects and controls a running portal from the CLI: it
// reads the pid file and calls the portal's status and reload endpoints.
package daemonctl
