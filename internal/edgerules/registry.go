package edgerules

import (
	"errors"
	"fmt"

	"github.com/tidwall/btree"

	"github.com/roach88/graphdsl/internal/ir"
)

var (
	// ErrNoRule reports that no rule exists for a pair.
	ErrNoRule = errors.New("no edge rule")

	// ErrAmbiguousRule reports several candidate rules for a pair with no
	// single default among them.
	ErrAmbiguousRule = errors.New("ambiguous edge rule")
)

// Registry looks up the edge rule for an unordered pair of node types.
// Implementations must be safe for concurrent reads.
type Registry interface {
	Lookup(a, b ir.NodeType) (ir.EdgeRule, error)
}

// MemoryRegistry is an immutable in-memory snapshot of edge rules, indexed
// by ordered pair key.
type MemoryRegistry struct {
	pairs btree.Map[string, []ir.EdgeRule]
	count int
}

// NewMemoryRegistry builds a snapshot from rules. Rules with an empty
// endpoint are rejected.
func NewMemoryRegistry(rules ...ir.EdgeRule) (*MemoryRegistry, error) {
	r := &MemoryRegistry{}
	for i, rule := range rules {
		if rule.From == "" || rule.To == "" {
			return nil, fmt.Errorf("rule[%d]: from and to are required", i)
		}
		key := pairKey(rule.From, rule.To)
		existing, _ := r.pairs.Get(key)
		r.pairs.Set(key, append(existing, rule))
		r.count++
	}
	return r, nil
}

// MustMemoryRegistry is like NewMemoryRegistry but panics on error.
// Use only in tests or with rules known to be valid.
func MustMemoryRegistry(rules ...ir.EdgeRule) *MemoryRegistry {
	r, err := NewMemoryRegistry(rules...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the rule for the unordered pair {a, b}.
//
// With several rules for a pair, the single rule flagged Default wins;
// otherwise the lookup is ambiguous.
func (r *MemoryRegistry) Lookup(a, b ir.NodeType) (ir.EdgeRule, error) {
	candidates, ok := r.pairs.Get(pairKey(a, b))
	if !ok {
		return ir.EdgeRule{}, fmt.Errorf("%w for %s/%s", ErrNoRule, a, b)
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	var chosen []ir.EdgeRule
	for _, c := range candidates {
		if c.Default {
			chosen = append(chosen, c)
		}
	}
	if len(chosen) != 1 {
		return ir.EdgeRule{}, fmt.Errorf("%w for %s/%s: %d candidates, %d defaults",
			ErrAmbiguousRule, a, b, len(candidates), len(chosen))
	}
	return chosen[0], nil
}

// Len returns the number of rules in the snapshot.
func (r *MemoryRegistry) Len() int {
	return r.count
}

// Rules returns every rule ordered by pair, then declaration order.
func (r *MemoryRegistry) Rules() []ir.EdgeRule {
	out := make([]ir.EdgeRule, 0, r.count)
	r.pairs.Scan(func(_ string, rules []ir.EdgeRule) bool {
		out = append(out, rules...)
		return true
	})
	return out
}

// Hash fingerprints the snapshot so logs can tell which rule set a
// program was compiled against.
func (r *MemoryRegistry) Hash() (string, error) {
	rules := r.Rules()
	arr := make(ir.IRArray, len(rules))
	for i, rule := range rules {
		arr[i] = ir.IRObject{
			"from":        ir.IRString(rule.From),
			"to":          ir.IRString(rule.To),
			"label":       ir.IRString(rule.Label),
			"containment": ir.IRString(rule.Containment),
			"default":     ir.IRBool(rule.Default),
		}
	}
	return ir.Digest(ir.DomainRuleSet, arr)
}

// pairKey joins the ordered pair with a NUL, which cannot occur in a type
// name.
func pairKey(a, b ir.NodeType) string {
	lo, hi := ir.OrderedPair(a, b)
	return string(lo) + "\x00" + string(hi)
}
