// Package parsetree defines the parse-tree contract between the external DSL
// parser and the compiler.
//
// The grammar itself lives outside this repository. Whatever produces the
// tree must emit this shape:
//
//	Query
//	├── NodeStep "pserver" (store)
//	│   └── FilterStep ["hostname", "test-pserver"]
//	├── TraverseStep
//	│   └── NodeStep "p-interface"
//	├── UnionStep
//	│   ├── Statement
//	│   │   └── TraverseStep → NodeStep "l-interface"
//	│   └── Statement
//	│       └── TraverseStep → NodeStep "sriov-vf"
//	├── FilterTraverseStep
//	│   └── TraverseStep → NodeStep "complex"
//	└── LimitStep "10"
//
// Trees are read-only inputs: the compiler never mutates a Node.
//
// Trees can also be decoded from YAML (see Decode), which is the hand-off
// format used by the CLI and by conformance scenarios.
package parsetree
