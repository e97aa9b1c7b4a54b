package compiler

import (
	"github.com/roach88/graphdsl/internal/ir"
	"github.com/roach88/graphdsl/internal/queryir"
)

type scopeKind int

const (
	unionScope scopeKind = iota
	whereScope
)

// scope is one open union or where. justEntered is set when a union branch
// or where body starts and cleared by its first node step.
type scope struct {
	kind        scopeKind
	anchor      ir.NodeType
	justEntered bool
}

// state is the per-call compile state. It is never shared between calls.
type state struct {
	currentType  ir.NodeType
	previousType ir.NodeType

	scopes        []*scope
	traverseDepth int

	pendingStore map[ir.NodeType]bool
	limits       []queryir.Op
}

func newState() *state {
	return &state{pendingStore: make(map[ir.NodeType]bool)}
}

func (s *state) push(kind scopeKind, anchor ir.NodeType) *scope {
	sc := &scope{kind: kind, anchor: anchor}
	s.scopes = append(s.scopes, sc)
	return sc
}

func (s *state) pop() {
	s.scopes = s.scopes[:len(s.scopes)-1]
}

func (s *state) top() *scope {
	if len(s.scopes) == 0 {
		return nil
	}
	return s.scopes[len(s.scopes)-1]
}

// inHop reports whether a node step compiled now is a traversal hop.
func (s *state) inHop() bool {
	return s.traverseDepth > 0 || len(s.scopes) > 0
}

// anchor picks the source type for a hop and consumes the just-entered
// marker of the innermost scope.
func (s *state) anchor() ir.NodeType {
	if sc := s.top(); sc != nil && sc.justEntered {
		sc.justEntered = false
		return sc.anchor
	}
	return s.previousType
}
