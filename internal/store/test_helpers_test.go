package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedRule inserts one rule row directly.
func seedRule(t *testing.T, s *Store, from, to, label, containment string, isDefault bool) {
	t.Helper()
	_, err := s.DB().Exec(`
		INSERT INTO edge_rules (from_type, to_type, label, containment, is_default)
		VALUES (?, ?, ?, ?, ?)
	`, from, to, label, containment, isDefault)
	if err != nil {
		t.Fatalf("seed rule %s/%s: %v", from, to, err)
	}
}
