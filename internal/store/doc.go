// Package store provides a SQLite-backed edge-rule snapshot.
//
// Rules live in a single edge_rules table. The store only reads them:
// Snapshot loads every row into an edgerules.MemoryRegistry, which is what
// the compiler consults. Populating the table is the job of whatever
// synchronises the schema service; tests do it through DB().
//
// # Database Configuration
//
//   - WAL mode: concurrent readers while the table is refreshed
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - user_version: schema migrations are applied on Open
//
// Snapshot reads rows in id order so that rules for the same pair keep
// their insertion order, which matters for default-rule selection.
package store
