// Package compiler turns a DSL parse tree into a queryir.Program.
//
// The walk is a single pre-order pass. All mutable bookkeeping (current and
// previous node type, the scope-frame stack, pending store flags and the
// accumulated limits) lives in a state value created fresh for each
// Compile call, so one Compiler can be shared across goroutines.
//
// Hops and anchors:
//
//	pserver > p-interface          TraverseEdge(pserver, p-interface)
//	pserver > [ > a, > b ]         Union: a and b both anchor on pserver
//	pserver > (> complex) > x      Where: x still anchors on pserver
//
// A node step is a hop when it sits under a traverse step or inside an
// open union or where scope. Its anchor is the union anchor when it is the
// first step of a union branch, the where anchor when it is the first step
// of a where body, and the previous node type otherwise.
//
// Failure model: malformed filter steps (fewer than two tokens) are
// skipped. Anything else unexpected, including a panic in the edge
// resolver, aborts the walk and Compile returns an empty program. An empty
// program means "could not compile", never "matched nothing".
package compiler
