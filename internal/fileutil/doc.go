// Package fileutil writes CLI outputs (catalog JSON files and exports)
// atomically so a failed run never leaves a truncated file behind.
package fileutil
