package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vidcat/internal/assets"
	"vidcat/internal/services"
)

// ReplaceCatalog swaps the stored catalog for cat in a single transaction.
func (s *Store) ReplaceCatalog(ctx context.Context, cat *assets.Catalog) error {
	ctx = ensureContext(ctx)
	if cat == nil {
		return services.Wrap(services.ErrValidation, "store", "replace catalog", "catalog is nil", nil)
	}
	facets, err := json.Marshal(cat.FacetCounts)
	if err != nil {
		return fmt.Errorf("marshal facet counts: %w", err)
	}
	rows := make([][]byte, len(cat.Assets))
	for i, a := range cat.Assets {
		if rows[i], err = json.Marshal(a); err != nil {
			return fmt.Errorf("marshal asset %s: %w", a.ID, err)
		}
	}
	storedAt := s.now().UTC().Format(time.RFC3339Nano)

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM assets"); err != nil {
			return fmt.Errorf("clear assets: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO assets (
                id, position, url, host, scheme, category, hdr, container, resolution_label, asset_json
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare asset insert: %w", err)
		}
		defer stmt.Close()
		for i, a := range cat.Assets {
			if _, err := stmt.ExecContext(ctx,
				a.ID, i, a.URL, a.Host, a.Scheme, a.Category, string(a.HDR),
				nullableString(string(a.Container)), nullableString(a.ResolutionLabel()), string(rows[i]),
			); err != nil {
				return fmt.Errorf("insert asset %s: %w", a.ID, err)
			}
		}
		meta := cat.Metadata
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO catalog_metadata (
                id, total_assets, build_timestamp, source_url, version, facet_counts_json, stored_at
            ) VALUES (1, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(id) DO UPDATE SET
                total_assets = excluded.total_assets,
                build_timestamp = excluded.build_timestamp,
                source_url = excluded.source_url,
                version = excluded.version,
                facet_counts_json = excluded.facet_counts_json,
                stored_at = excluded.stored_at`,
			meta.TotalAssets, meta.BuildTimestamp.UTC().Format(time.RFC3339Nano), meta.SourceURL, meta.Version,
			string(facets), storedAt,
		); err != nil {
			return fmt.Errorf("write catalog metadata: %w", err)
		}
		return nil
	})
}

// LoadCatalog reads the stored catalog in build order. It returns an
// ErrNotFound error when nothing has been stored yet.
func (s *Store) LoadCatalog(ctx context.Context) (*assets.Catalog, error) {
	ctx = ensureContext(ctx)
	meta, facets, err := s.metadata(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, "SELECT asset_json FROM assets ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	list := make([]assets.Asset, 0, meta.TotalAssets)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return &assets.Catalog{Assets: list, FacetCounts: facets, Metadata: meta}, nil
}

// Get returns one asset by id.
func (s *Store) Get(ctx context.Context, id string) (assets.Asset, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), "SELECT asset_json FROM assets WHERE id = ?", id)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return assets.Asset{}, services.Wrap(services.ErrNotFound, "store", "get asset", "no asset with id "+id, nil)
	}
	if err != nil {
		return assets.Asset{}, err
	}
	return a, nil
}

// Metadata returns the stored catalog metadata.
func (s *Store) Metadata(ctx context.Context) (assets.Metadata, error) {
	meta, _, err := s.metadata(ensureContext(ctx))
	return meta, err
}

func (s *Store) metadata(ctx context.Context) (assets.Metadata, assets.FacetCounts, error) {
	var (
		meta      assets.Metadata
		built     string
		facetJSON string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT total_assets, build_timestamp, source_url, version, facet_counts_json FROM catalog_metadata WHERE id = 1",
	).Scan(&meta.TotalAssets, &built, &meta.SourceURL, &meta.Version, &facetJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return meta, nil, services.Wrap(services.ErrNotFound, "store", "load catalog", "no catalog stored; run a build first", nil)
	}
	if err != nil {
		return meta, nil, fmt.Errorf("read catalog metadata: %w", err)
	}
	if meta.BuildTimestamp, err = time.Parse(time.RFC3339Nano, built); err != nil {
		return meta, nil, fmt.Errorf("parse build timestamp: %w", err)
	}
	var facets assets.FacetCounts
	if err := json.Unmarshal([]byte(facetJSON), &facets); err != nil {
		return meta, nil, fmt.Errorf("decode facet counts: %w", err)
	}
	return meta, facets, nil
}

func scanAsset(scanner interface{ Scan(dest ...any) error }) (assets.Asset, error) {
	var raw string
	if err := scanner.Scan(&raw); err != nil {
		return assets.Asset{}, err
	}
	var a assets.Asset
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return assets.Asset{}, fmt.Errorf("decode asset: %w", err)
	}
	return a, nil
}

// Stats summarizes what the store holds.
type Stats struct {
	Assets         int       `json:"assets"`
	Hosts          int       `json:"hosts"`
	Categories     int       `json:"categories"`
	LastBuild      time.Time `json:"lastBuild,omitzero"`
	SourceURL      string    `json:"sourceUrl,omitempty"`
	SavedSearches  int       `json:"savedSearches"`
	HistoryEntries int       `json:"historyEntries"`
}

// Stats counts stored assets, distinct hosts and categories, and searches.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT
            (SELECT COUNT(1) FROM assets),
            (SELECT COUNT(DISTINCT host) FROM assets),
            (SELECT COUNT(DISTINCT category) FROM assets),
            (SELECT COUNT(1) FROM saved_searches),
            (SELECT COUNT(1) FROM search_history)`,
	).Scan(&st.Assets, &st.Hosts, &st.Categories, &st.SavedSearches, &st.HistoryEntries)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	meta, err := s.Metadata(ctx)
	switch {
	case err == nil:
		st.LastBuild = meta.BuildTimestamp
		st.SourceURL = meta.SourceURL
	case !errors.Is(err, services.ErrNotFound):
		return Stats{}, err
	}
	return st, nil
}
