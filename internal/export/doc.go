// Package export writes asset lists as CSV, JSON, XLSX workbooks, or plain
// text reports, optionally with quality scores and recommendations.
package export
