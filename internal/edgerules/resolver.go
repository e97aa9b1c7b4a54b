package edgerules

import (
	"errors"
	"strconv"
	"strings"

	"github.com/roach88/graphdsl/internal/ir"
	"github.com/roach88/graphdsl/internal/metrics"
)

// Resolver classifies traversal steps against a registry snapshot.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	registry Registry
}

// NewResolver creates a Resolver over registry. A nil registry resolves
// every pair to Cousin.
func NewResolver(registry Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve returns the edge kind for a hop between from and to.
//
//   - no rule, ambiguous rule, or any lookup error: Cousin
//   - containment "NONE" (any case): Cousin
//   - any other containment: Tree
//
// The pair is put in canonical order before the lookup, and a directional
// registry is asked both ways round, so Resolve(a, b) == Resolve(b, a).
func (r *Resolver) Resolve(from, to ir.NodeType) ir.EdgeKind {
	rule, err := r.lookup(from, to)
	if err != nil {
		record(ir.Cousin, true)
		return ir.Cousin
	}
	if !rule.Contains() {
		record(ir.Cousin, false)
		return ir.Cousin
	}
	record(ir.Tree, false)
	return ir.Tree
}

func (r *Resolver) lookup(from, to ir.NodeType) (ir.EdgeRule, error) {
	if r == nil || r.registry == nil {
		return ir.EdgeRule{}, ErrNoRule
	}
	a, b := ir.OrderedPair(from, to)
	rule, err := r.registry.Lookup(a, b)
	if errors.Is(err, ErrNoRule) {
		return r.registry.Lookup(b, a)
	}
	return rule, err
}

func record(kind ir.EdgeKind, fallback bool) {
	metrics.EdgeResolutions.WithLabelValues(strings.ToLower(kind.String()), strconv.FormatBool(fallback)).Inc()
}
