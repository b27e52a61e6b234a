package testsupport

import (
	"testing"

	"gleaner/internal/catalog"
	"gleaner/internal/config"
)

// MustOpenStore opens a catalog store under the config's data directory
// and closes it when the test finishes.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(cfg.CatalogPath())
	if err != nil {
		t.Fatalf("open catalog store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
