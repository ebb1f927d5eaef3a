package testsupport

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"reclaim/internal/catalog"
)

// CatalogRow describes one seeded catalog entry. Nil pointers land as SQL
// NULLs so tests can exercise the nullable-column handling.
type CatalogRow struct {
	Model    string
	Basename string
	Parent   string
	Size     *int64
	PHash    *string
	Duration *float64
}

const catalogSchema = `
CREATE TABLE files (
    file_id       INTEGER PRIMARY KEY AUTOINCREMENT,
    file_model    TEXT,
    file_basename TEXT,
    file_parent   TEXT,
    file_size     INTEGER,
    phash         TEXT,
    duration      REAL,
    video_codec   TEXT,
    audio_codec   TEXT,
    video_format  TEXT,
    width         INTEGER,
    height        INTEGER,
    bit_rate      INTEGER,
    frame_rate    TEXT
)`

// SeedCatalog creates a catalog database at path with the given rows.
func SeedCatalog(t testing.TB, path string, rows ...CatalogRow) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open catalog for seeding: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(catalogSchema); err != nil {
		t.Fatalf("create files table: %v", err)
	}
	for _, row := range rows {
		_, err := db.Exec(`
            INSERT INTO files (file_model, file_basename, file_parent, file_size, phash, duration)
            VALUES (?, ?, ?, ?, ?, ?)`,
			row.Model, row.Basename, row.Parent, row.Size, row.PHash, row.Duration)
		if err != nil {
			t.Fatalf("insert catalog row %q: %v", row.Basename, err)
		}
	}
}

// MustOpenCatalog opens a catalog.Store for tests and registers cleanup.
func MustOpenCatalog(t testing.TB, path string) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(path)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Int64 returns a pointer to v, for building CatalogRow values.
func Int64(v int64) *int64 { return &v }

// String returns a pointer to v, for building CatalogRow values.
func String(v string) *string { return &v }

// Float64 returns a pointer to v, for building CatalogRow values.
func Float64(v float64) *float64 { return &v }
