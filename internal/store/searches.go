package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"vidcat/internal/services"
)

// HistoryLimit is the number of distinct recent queries kept.
const HistoryLimit = 10

// SavedSearch is a named advanced query.
type SavedSearch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"createdAt"`
	LastUsed  time.Time `json:"lastUsed"`
}

// SaveSearch stores a new named query.
func (s *Store) SaveSearch(ctx context.Context, name, query string) (SavedSearch, error) {
	name = strings.TrimSpace(name)
	query = strings.TrimSpace(query)
	if name == "" || query == "" {
		return SavedSearch{}, services.Wrap(services.ErrValidation, "store", "save search", "name and query are required", nil)
	}
	now := s.now().UTC()
	saved := SavedSearch{ID: uuid.NewString(), Name: name, Query: query, CreatedAt: now, LastUsed: now}
	if err := s.execWithRetry(ctx,
		"INSERT INTO saved_searches (id, name, query, created_at, last_used) VALUES (?, ?, ?, ?, ?)",
		saved.ID, saved.Name, saved.Query, now.UnixNano(), now.UnixNano(),
	); err != nil {
		return SavedSearch{}, fmt.Errorf("insert saved search: %w", err)
	}
	return saved, nil
}

// ListSearches returns saved searches, most recently used first.
func (s *Store) ListSearches(ctx context.Context) ([]SavedSearch, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT id, name, query, created_at, last_used FROM saved_searches ORDER BY last_used DESC, name")
	if err != nil {
		return nil, fmt.Errorf("query saved searches: %w", err)
	}
	defer rows.Close()

	out := []SavedSearch{}
	for rows.Next() {
		saved, err := scanSearch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, saved)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved searches: %w", err)
	}
	return out, nil
}

// UseSearch marks a saved search as used now and returns it.
func (s *Store) UseSearch(ctx context.Context, id string) (SavedSearch, error) {
	ctx = ensureContext(ctx)
	var saved SavedSearch
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE saved_searches SET last_used = ? WHERE id = ?", s.now().UTC().UnixNano(), id)
		if err != nil {
			return fmt.Errorf("touch saved search: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return services.Wrap(services.ErrNotFound, "store", "use search", "no saved search with id "+id, nil)
		}
		row := tx.QueryRowContext(ctx, "SELECT id, name, query, created_at, last_used FROM saved_searches WHERE id = ?", id)
		saved, err = scanSearch(row)
		return err
	})
	return saved, err
}

// DeleteSearch removes a saved search.
func (s *Store) DeleteSearch(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, "DELETE FROM saved_searches WHERE id = ?", id)
		if err != nil {
			return err
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete saved search: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "delete search", "no saved search with id "+id, nil)
	}
	return nil
}

func scanSearch(scanner interface{ Scan(dest ...any) error }) (SavedSearch, error) {
	var (
		saved         SavedSearch
		created, used int64
	)
	if err := scanner.Scan(&saved.ID, &saved.Name, &saved.Query, &created, &used); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SavedSearch{}, err
		}
		return SavedSearch{}, fmt.Errorf("scan saved search: %w", err)
	}
	saved.CreatedAt = time.Unix(0, created).UTC()
	saved.LastUsed = time.Unix(0, used).UTC()
	return saved, nil
}

// AddHistory records query as the most recent search, keeping the newest
// HistoryLimit distinct entries. Blank queries are ignored.
func (s *Store) AddHistory(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	ctx = ensureContext(ctx)
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO search_history (query, seq)
             VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM search_history))
             ON CONFLICT(query) DO UPDATE SET seq = excluded.seq`,
			query,
		); err != nil {
			return fmt.Errorf("record history: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM search_history WHERE query NOT IN (
                SELECT query FROM search_history ORDER BY seq DESC LIMIT ?
            )`,
			HistoryLimit,
		); err != nil {
			return fmt.Errorf("trim history: %w", err)
		}
		return nil
	})
}

// History returns recent queries, newest first.
func (s *Store) History(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), "SELECT query FROM search_history ORDER BY seq DESC")
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

// ClearHistory drops all history entries.
func (s *Store) ClearHistory(ctx context.Context) error {
	if err := s.execWithRetry(ctx, "DELETE FROM search_history"); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
