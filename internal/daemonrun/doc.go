// Package daemonrun hosts the foreground portal process shared by vidcatd and
// `vidcat serve`: logger setup, pid file, store, portal lifecycle, and signal
// handling.
package daemonrun
