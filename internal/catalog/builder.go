package catalog

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"vidcat/internal/assets"
	"vidcat/internal/csvline"
	"vidcat/internal/logging"
	"vidcat/internal/normalize"
	"vidcat/internal/services"
)

const progressEvery = 100

// BuildStats summarizes one build pass.
type BuildStats struct {
	Rows        int            `json:"rows"`
	Assets      int            `json:"assets"`
	Skipped     int            `json:"skipped"`
	Duplicates  int            `json:"duplicates"`
	SkipReasons map[string]int `json:"skipReasons"`
	Extended    bool           `json:"extended"`
}

// Builder turns CSV text into catalogs.
type Builder struct {
	logger  *slog.Logger
	version string
	now     func() time.Time
}

// Option customizes a Builder.
type Option func(*Builder)

// WithVersion overrides the metadata version stamp.
func WithVersion(version string) Option {
	return func(b *Builder) {
		if strings.TrimSpace(version) != "" {
			b.version = version
		}
	}
}

// WithClock overrides the build timestamp source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder constructs a builder logging through logger.
func NewBuilder(logger *slog.Logger, opts ...Option) *Builder {
	b := &Builder{
		logger:  logging.NewComponentLogger(logger, "catalog"),
		version: assets.CatalogVersion,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build parses text into a catalog. Structural problems with the document as
// a whole (empty text, no data rows) fail the build; problems with single rows
// only skip those rows.
func (b *Builder) Build(text, sourceURL string) (*assets.Catalog, BuildStats, error) {
	stats := BuildStats{SkipReasons: map[string]int{}}
	if strings.TrimSpace(text) == "" {
		return nil, stats, services.Wrap(services.ErrValidation, "catalog", "build", "CSV file is empty or could not be read", nil)
	}
	lines := csvline.Lines(text)
	if len(lines) < 2 {
		return nil, stats, services.Wrap(services.ErrValidation, "catalog", "build", "CSV file must have at least a header row and one data row", nil)
	}

	header := csvline.Header(lines[0])
	stats.Extended = normalize.IsExtended(header)
	columns := normalize.NewHeader(header)
	b.logger.Debug("catalog header parsed",
		logging.Int("columns", len(header)),
		logging.Bool("extended", stats.Extended),
		logging.Int("rows", len(lines)-1),
	)

	list := make([]assets.Asset, 0, len(lines)-1)
	seen := make(map[string]int, len(lines)-1)
	for i, line := range lines[1:] {
		row := i + 1
		stats.Rows++

		asset, err := b.normalizeLine(stats.Extended, columns, line)
		if err != nil {
			reason := "invalid_row"
			var skip *normalize.SkipError
			if errors.As(err, &skip) {
				reason = skip.Reason
			}
			stats.Skipped++
			stats.SkipReasons[reason]++
			logging.WarnWithContext(b.logger, "row skipped", "row_skipped",
				logging.Int(logging.FieldRow, row),
				logging.String("reason", reason),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "fix the row in the source CSV"),
				logging.String(logging.FieldImpact, "asset omitted from catalog"),
			)
			continue
		}
		if first, dup := seen[asset.ID]; dup {
			stats.Duplicates++
			b.logger.Debug("duplicate url ignored",
				logging.Int(logging.FieldRow, row),
				logging.Int("first_row", first),
				logging.String(logging.FieldAssetID, asset.ID),
			)
			continue
		}
		if asset.Host == normalize.Unknown {
			logging.WarnWithContext(b.logger, "url did not parse", "url_unparsed",
				logging.Int(logging.FieldRow, row),
				logging.String("url", asset.URL),
				logging.String(logging.FieldImpact, "asset kept with unknown host and scheme"),
			)
		}
		seen[asset.ID] = row
		list = append(list, asset)

		if len(list)%progressEvery == 0 {
			b.logger.Debug("catalog build progress",
				logging.Int("processed", len(list)),
				logging.Int("total_rows", len(lines)-1),
			)
		}
	}
	stats.Assets = len(list)

	cat := &assets.Catalog{
		Assets:      list,
		FacetCounts: CountFacets(list),
		Metadata: assets.Metadata{
			TotalAssets:    len(list),
			BuildTimestamp: b.now().UTC().Truncate(time.Second),
			SourceURL:      sourceURL,
			Version:        b.version,
		},
	}
	b.logger.Info("catalog built",
		logging.String(logging.FieldEventType, "catalog_built"),
		logging.Int("assets", stats.Assets),
		logging.Int("rows", stats.Rows),
		logging.Int("skipped", stats.Skipped),
		logging.Int("duplicates", stats.Duplicates),
		logging.String("source", sourceURL),
	)
	return cat, stats, nil
}

func (b *Builder) normalizeLine(extended bool, columns normalize.Header, line string) (assets.Asset, error) {
	values := csvline.Split(line)
	if extended {
		return normalize.ExtendedAsset(columns, values)
	}
	row, err := normalize.RowFromValues(values)
	if err != nil {
		return assets.Asset{}, err
	}
	return normalize.Asset(row)
}
