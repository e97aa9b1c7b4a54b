// Package harness runs conformance scenarios against the compiler.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: pserver_interfaces
//	description: "pserver hops to its interfaces over a tree edge"
//	rules:
//	  - from: pserver
//	    to: p-interface
//	    containment: OUT
//	rules_file: ../rules/inventory.cue   # optional, relative to the scenario
//	query:
//	  - node: pserver
//	    filters:
//	      - [hostname, test-pserver]
//	  - traverse:
//	      - node: p-interface
//	assertions:
//	  - type: valid
//	  - type: op_count
//	    op: traverse_edge
//	    count: 1
//
// The query is a parse tree in the parsetree YAML form. Inline rules and
// the rules file are merged into one snapshot.
//
// # Assertion Types
//
//   - valid: the program passes queryir.Validate
//   - empty: the query could not be compiled (empty program)
//   - ops_equal: top-level ops, as op strings, match exactly
//   - op_count: ops of one kind, counted through branches and bodies
//   - builder_equals: the builder-text rendering matches exactly
//   - hash_stable: recompiling yields the same fingerprint
//
// Every scenario compiles with a fresh registry and compiler, so scenarios
// never share state.
package harness
