package ir

import "strings"

// NodeType identifies a schema entity (a vertex label such as "pserver").
type NodeType string

// EdgeKind classifies a single traversal step.
type EdgeKind int

const (
	// Cousin is a lateral, non-containment edge. It is also the fallback
	// when no usable rule exists for a pair.
	Cousin EdgeKind = iota

	// Tree is a hierarchical containment edge.
	Tree
)

// String returns the upper-case name used by the builder-text rendering.
func (k EdgeKind) String() string {
	switch k {
	case Tree:
		return "TREE"
	case Cousin:
		return "COUSIN"
	default:
		return "UNKNOWN"
	}
}

// ParseEdgeKind is the inverse of EdgeKind.String (case-insensitive).
func ParseEdgeKind(s string) (EdgeKind, bool) {
	switch strings.ToUpper(s) {
	case "TREE":
		return Tree, true
	case "COUSIN":
		return Cousin, true
	default:
		return Cousin, false
	}
}

// NoContainment is the containment sentinel meaning "this edge does not
// contain the other vertex". Comparison is case-insensitive.
const NoContainment = "NONE"

// EdgeRule is relationship metadata for an unordered pair of node types.
type EdgeRule struct {
	From        NodeType `json:"from" yaml:"from"`
	To          NodeType `json:"to" yaml:"to"`
	Label       string   `json:"label" yaml:"label"`
	Containment string   `json:"containment" yaml:"containment"`

	// Default marks the preferred rule when several rules exist for the
	// same pair.
	Default bool `json:"default,omitempty" yaml:"default,omitempty"`
}

// Contains reports whether the rule expresses containment. Anything other
// than the NoContainment sentinel counts as containment.
func (r EdgeRule) Contains() bool {
	return !strings.EqualFold(strings.TrimSpace(r.Containment), NoContainment)
}

// Pair returns the rule's endpoints in canonical (sorted) order so the same
// relationship keys identically regardless of declaration direction.
func (r EdgeRule) Pair() (NodeType, NodeType) {
	return OrderedPair(r.From, r.To)
}

// OrderedPair returns a and b sorted lexically.
func OrderedPair(a, b NodeType) (NodeType, NodeType) {
	if b < a {
		return b, a
	}
	return a, b
}
