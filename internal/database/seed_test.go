package database

import (
	"testing"

	"pagecraft/internal/converter"
	"pagecraft/internal/registry"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed creates data only when no template exists. Other test packages
	// may share the database, so it is not cleared first.
	conv := converter.New(registry.Default())
	if err := Seed(db, conv); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db, conv); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var tmplCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM templates").Scan(&tmplCount); err != nil {
		t.Fatalf("count templates: %v", err)
	}
	if tmplCount < 2 {
		t.Errorf("expected at least 2 templates, got %d", tmplCount)
	}

	var sections int
	err = db.QueryRow(`
		SELECT jsonb_array_length(content->'sections') FROM templates
		WHERE name = 'Default header'
	`).Scan(&sections)
	if err != nil {
		t.Skipf("default header not seeded by this run: %v", err)
	}
	if sections < 1 {
		t.Errorf("expected converted header to hold sections, got %d", sections)
	}
}
