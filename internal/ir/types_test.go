package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeRuleContains(t *testing.T) {
	tests := []struct {
		containment string
		want        bool
	}{
		{"NONE", false},
		{"none", false},
		{" None ", false},
		{"OUT", true},
		{"IN", true},
		{"!OUT", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.containment, func(t *testing.T) {
			r := EdgeRule{From: "a", To: "b", Containment: tt.containment}
			assert.Equal(t, tt.want, r.Contains())
		})
	}
}

func TestEdgeRulePairIsOrderIndependent(t *testing.T) {
	fwd := EdgeRule{From: "pserver", To: "p-interface"}
	rev := EdgeRule{From: "p-interface", To: "pserver"}

	a1, b1 := fwd.Pair()
	a2, b2 := rev.Pair()
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
	assert.Equal(t, NodeType("p-interface"), a1)
}

func TestEdgeKindString(t *testing.T) {
	assert.Equal(t, "TREE", Tree.String())
	assert.Equal(t, "COUSIN", Cousin.String())

	k, ok := ParseEdgeKind("tree")
	assert.True(t, ok)
	assert.Equal(t, Tree, k)

	_, ok = ParseEdgeKind("sideways")
	assert.False(t, ok)
}
