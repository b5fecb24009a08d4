package testsupport

import (
	"context"
	"testing"

	"vidcat/internal/assets"
	"vidcat/internal/catalog"
	"vidcat/internal/config"
	"vidcat/internal/logging"
	"vidcat/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// MustBuild builds a catalog from CSV text.
func MustBuild(t testing.TB, text string) *assets.Catalog {
	t.Helper()

	cat, _, err := catalog.NewBuilder(logging.NewNop()).Build(text, "test://catalog")
	if err != nil {
		t.Fatalf("catalog build: %v", err)
	}
	return cat
}

// MustStoreCatalog builds text and replaces the stored catalog with it.
func MustStoreCatalog(t testing.TB, st *store.Store, text string) *assets.Catalog {
	t.Helper()

	cat := MustBuild(t, text)
	if err := st.ReplaceCatalog(context.Background(), cat); err != nil {
		t.Fatalf("store.ReplaceCatalog: %v", err)
	}
	return cat
}
