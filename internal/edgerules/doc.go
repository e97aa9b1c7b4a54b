// Package edgerules classifies traversal steps as tree (containment) or
// cousin (lateral) edges using a registry of edge rules.
//
// A Registry is a read-only snapshot. Rules are keyed by the unordered pair
// of node types, so "pserver → p-interface" and "p-interface → pserver"
// name the same relationship.
//
// Resolution is deliberately lenient: a missing rule, an ambiguous match or
// any other lookup error classifies as Cousin. Schema gaps never abort a
// compile.
//
// Snapshots come from YAML (LoadYAML), CUE (LoadCUE), or the SQLite store
// package.
package edgerules
