package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/graphdsl/internal/edgerules"
	"github.com/roach88/graphdsl/internal/ir"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added pair index on edge_rules
const currentSchemaVersion = 1

// Store is a SQLite edge-rule snapshot.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// uriEscaper escapes the characters SQLite treats specially in a file: URI.
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// OpenReadOnly opens an existing snapshot without modifying the file. No
// pragmas are written and neither the schema nor migrations are applied;
// the edge_rules table must already exist.
func OpenReadOnly(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	dsn := "file:" + uriEscaper.Replace(path) + "?mode=ro&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	var tables int
	err = db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'edge_rules'`).Scan(&tables)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}
	if tables == 0 {
		db.Close()
		return nil, fmt.Errorf("no edge_rules table in %s", path)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - the store itself never writes rules.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Rules returns every stored rule in insertion order.
// Returns an empty slice (not nil) when the table is empty.
func (s *Store) Rules(ctx context.Context) ([]ir.EdgeRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT from_type, to_type, label, containment, is_default
		FROM edge_rules
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query edge rules: %w", err)
	}
	defer rows.Close()

	rules := []ir.EdgeRule{}
	for rows.Next() {
		var (
			r         ir.EdgeRule
			from, to  string
			isDefault bool
		)
		if err := rows.Scan(&from, &to, &r.Label, &r.Containment, &isDefault); err != nil {
			return nil, fmt.Errorf("scan edge rule: %w", err)
		}
		r.From = ir.NodeType(from)
		r.To = ir.NodeType(to)
		r.Default = isDefault
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edge rules: %w", err)
	}
	return rules, nil
}

// Snapshot loads the current table into an immutable registry.
func (s *Store) Snapshot(ctx context.Context) (*edgerules.MemoryRegistry, error) {
	rules, err := s.Rules(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := edgerules.NewMemoryRegistry(rules...)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}
	return reg, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the pair index on edge_rules.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_edge_rules_pair
		ON edge_rules(from_type, to_type)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
