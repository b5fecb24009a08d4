package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"vidcat/internal/assets"
	"vidcat/internal/extract"
)

// MinColumns is the minimum number of values a data row must carry.
const MinColumns = 4

// IDLength is the number of hex characters kept from the URL digest.
const IDLength = 16

// DefaultCategory labels rows with a blank category.
const DefaultCategory = "Uncategorized"

// Unknown is used for host and scheme when the URL cannot be parsed.
const Unknown = "unknown"

// ErrSkipRow marks a row that produced no asset.
var ErrSkipRow = errors.New("row skipped")

// Skip reasons reported through SkipError.
const (
	ReasonTooFewColumns = "insufficient_columns"
	ReasonEmptyURL      = "empty_url"
)

// SkipError explains why a row was skipped. It matches ErrSkipRow with
// errors.Is.
type SkipError struct {
	Reason  string
	Columns int
}

func (e *SkipError) Error() string {
	if e.Reason == ReasonTooFewColumns {
		return fmt.Sprintf("row skipped: insufficient columns (%d)", e.Columns)
	}
	return "row skipped: " + strings.ReplaceAll(e.Reason, "_", " ")
}

func (e *SkipError) Is(target error) bool {
	return target == ErrSkipRow
}

// Row is one raw row in the simple four-column layout.
type Row struct {
	URL      string
	Category string
	Format   string
	Notes    string
}

// RowFromValues maps tokenized values onto the simple layout. Extra values
// are ignored.
func RowFromValues(values []string) (Row, error) {
	if len(values) < MinColumns {
		return Row{}, &SkipError{Reason: ReasonTooFewColumns, Columns: len(values)}
	}
	return Row{URL: values[0], Category: values[1], Format: values[2], Notes: values[3]}, nil
}

// Asset converts one simple row into an asset.
func Asset(row Row) (assets.Asset, error) {
	raw := strings.TrimSpace(row.URL)
	if raw == "" {
		return assets.Asset{}, &SkipError{Reason: ReasonEmptyURL}
	}
	normalized := URL(raw)
	host, scheme := HostScheme(normalized)
	fields := extract.All(normalized, row.Format, row.Notes)
	return assets.Asset{
		ID:         ID(normalized),
		URL:        normalized,
		Host:       host,
		Scheme:     scheme,
		Category:   Category(row.Category),
		Protocol:   fields.Protocol,
		Codec:      fields.Codec,
		Resolution: fields.Resolution,
		HDR:        fields.HDR,
		Container:  fields.Container,
		Features:   fields.Features,
		Notes:      strings.TrimSpace(row.Notes),
	}, nil
}

var schemePrefix = regexp.MustCompile(`^https?://`)

// URL trims raw and prefixes https:// when it lacks an http or https scheme.
func URL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if schemePrefix.MatchString(trimmed) {
		return trimmed
	}
	return "https://" + trimmed
}

// HostScheme parses a normalized URL. Both values are "unknown" when the URL
// does not parse to an absolute URL with a host.
func HostScheme(raw string) (string, string) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Hostname() == "" {
		return Unknown, Unknown
	}
	return strings.ToLower(parsed.Hostname()), strings.ToLower(parsed.Scheme)
}

// ID derives the stable asset identifier from a normalized URL.
func ID(normalizedURL string) string {
	sum := sha256.Sum256([]byte(normalizedURL))
	return hex.EncodeToString(sum[:])[:IDLength]
}

// Category trims a category and applies the default.
func Category(raw string) string {
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		return trimmed
	}
	return DefaultCategory
}
