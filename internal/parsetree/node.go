package parsetree

import "fmt"

// Kind tags a parse-tree node.
type Kind string

const (
	// KindQuery is the root; its children are the top-level statement
	// sequence.
	KindQuery Kind = "query"

	// KindStatement is a step sequence. Each child of a UnionStep is one.
	KindStatement Kind = "statement"

	// KindNodeStep names a node type (Token) with an optional store flag.
	// Its children are the filter steps applied to that node.
	KindNodeStep Kind = "node"

	// KindFilterStep carries key/value Tokens and an optional NOT flag.
	KindFilterStep Kind = "filter"

	// KindFilterTraverseStep wraps a lookahead (where) sub-tree.
	KindFilterTraverseStep Kind = "where"

	// KindUnionStep wraps N sibling branch statements.
	KindUnionStep Kind = "union"

	// KindTraverseStep marks that its children are hops, not fresh scans.
	KindTraverseStep Kind = "traverse"

	// KindLimitStep carries a numeric Token.
	KindLimitStep Kind = "limit"
)

// Node is one parse-tree node. Which fields are meaningful depends on Kind.
type Node struct {
	Kind Kind

	// Token is the node type for NodeStep and the number for LimitStep.
	Token string

	// Store is the NodeStep store flag ("*" in the DSL).
	Store bool

	// Not is the FilterStep negation flag ("!" in the DSL).
	Not bool

	// Tokens are the FilterStep key/value tokens, key first.
	Tokens []string

	Children []*Node
}

// String renders the node header, without children.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case KindNodeStep:
		if n.Store {
			return fmt.Sprintf("%s(%s*)", n.Kind, n.Token)
		}
		return fmt.Sprintf("%s(%s)", n.Kind, n.Token)
	case KindLimitStep:
		return fmt.Sprintf("%s(%s)", n.Kind, n.Token)
	case KindFilterStep:
		if n.Not {
			return fmt.Sprintf("!%s%q", n.Kind, n.Tokens)
		}
		return fmt.Sprintf("%s%q", n.Kind, n.Tokens)
	default:
		return string(n.Kind)
	}
}

// Size returns the number of nodes in the tree rooted at n.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	size := 1
	for _, c := range n.Children {
		size += c.Size()
	}
	return size
}

// Query builds a root node over the given top-level steps.
func Query(steps ...*Node) *Node {
	return &Node{Kind: KindQuery, Children: steps}
}

// Statement builds a step sequence, used as a union branch.
func Statement(steps ...*Node) *Node {
	return &Node{Kind: KindStatement, Children: steps}
}

// Step builds a node step for nodeType with optional filters.
func Step(nodeType string, filters ...*Node) *Node {
	return &Node{Kind: KindNodeStep, Token: nodeType, Children: filters}
}

// StoredStep is Step with the store flag set.
func StoredStep(nodeType string, filters ...*Node) *Node {
	n := Step(nodeType, filters...)
	n.Store = true
	return n
}

// Filter builds a filter step; tokens are key first, then values.
func Filter(tokens ...string) *Node {
	return &Node{Kind: KindFilterStep, Tokens: tokens}
}

// NotFilter builds a negated filter step.
func NotFilter(tokens ...string) *Node {
	n := Filter(tokens...)
	n.Not = true
	return n
}

// Traverse builds a traverse step over the given hops.
func Traverse(steps ...*Node) *Node {
	return &Node{Kind: KindTraverseStep, Children: steps}
}

// Where builds a lookahead filter over the given steps.
func Where(steps ...*Node) *Node {
	return &Node{Kind: KindFilterTraverseStep, Children: steps}
}

// Union builds a union over branch statements.
func Union(branches ...*Node) *Node {
	return &Node{Kind: KindUnionStep, Children: branches}
}

// Limit builds a limit step with a raw numeric token.
func Limit(token string) *Node {
	return &Node{Kind: KindLimitStep, Token: token}
}
