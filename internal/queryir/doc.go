// Package queryir provides the compiled, engine-agnostic query program that
// the DSL compiler produces and execution engines consume.
//
// ARCHITECTURE:
//
//	[parse tree] → [compiler] → [Program] → [execution engine]
//	                                      → [builder-text serializer]
//
// A Program is an ordered list of Ops. Nested scopes of the DSL appear as
// nested Programs: each Union branch and each Where lookahead is its own
// Program, so the representation is a tree of flat op lists rather than a
// string of builder calls.
//
// SEALED INTERFACE:
//
// Op is sealed with the marker method pattern. Only types in this package
// implement it, which enables exhaustive type switches in backends:
//
//	switch op := op.(type) {
//	case SelectByType:
//	case TraverseEdge:
//	case FilterProperty:
//	case StoreMarker:
//	case Union:
//	case Where:
//	case FinalizeDedupUnfold:
//	case Limit:
//	}
//
// SHAPE INVARIANTS (checked by Validate):
//   - exactly one FinalizeDedupUnfold at the top level
//   - only Limit ops follow it, in declaration order
//   - sub-programs (union branches, where bodies) never contain
//     FinalizeDedupUnfold or Limit
//
// An empty Program is the compiler's "could not compile" signal. It never
// means "matched nothing"; a successful compile always contains at least
// FinalizeDedupUnfold.
//
// ENCODING:
//
// Programs encode to JSON with an "op" discriminator per element. MarshalJSON
// emits canonical JSON (sorted keys, no HTML escaping), so identical programs
// are byte-identical and Hash is a stable fingerprint.
package queryir
