package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/graphdsl/internal/ir"
)

func sampleProgram() Program {
	return Program{
		SelectByType{Type: "pserver"},
		FilterProperty{Key: "hostname", Value: "test-pserver"},
		Union{Branches: []Program{
			{TraverseEdge{From: "pserver", To: "p-interface", Edge: ir.Tree}, StoreMarker{Type: "p-interface"}},
			{TraverseEdge{From: "pserver", To: "complex", Edge: ir.Cousin}},
		}},
		Where{Sub: Program{
			TraverseEdge{From: "pserver", To: "cloud-region", Edge: ir.Cousin},
			FilterProperty{Key: "cloud-owner", Value: "att", Exclude: true},
		}},
		FinalizeDedupUnfold{},
		Limit{N: 5},
	}
}

func TestOpKinds(t *testing.T) {
	tests := []struct {
		op   Op
		kind OpKind
	}{
		{SelectByType{}, KindSelectByType},
		{TraverseEdge{}, KindTraverseEdge},
		{FilterProperty{}, KindFilterProperty},
		{StoreMarker{}, KindStoreMarker},
		{Union{}, KindUnion},
		{Where{}, KindWhere},
		{FinalizeDedupUnfold{}, KindFinalizeDedupUnfold},
		{Limit{}, KindLimit},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.op.Kind())
		})
	}
}

func TestTraverseEdgeKindAndEdge(t *testing.T) {
	op := TraverseEdge{From: "pserver", To: "p-interface", Edge: ir.Tree}

	assert.Equal(t, KindTraverseEdge, op.Kind())
	assert.Equal(t, ir.Tree, op.Edge)

	obj := opToIR(op)
	assert.Equal(t, ir.IRString("TREE"), obj["kind"])
	assert.Equal(t, ir.IRString(KindTraverseEdge), obj["op"])
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "SelectByType(pserver)", SelectByType{Type: "pserver"}.String())
	assert.Equal(t, "TraverseEdge(pserver, p-interface, TREE)",
		TraverseEdge{From: "pserver", To: "p-interface", Edge: ir.Tree}.String())
	assert.Equal(t, `FilterProperty(hostname = "a")`, FilterProperty{Key: "hostname", Value: "a"}.String())
	assert.Equal(t, `FilterProperty(hostname != "a")`, FilterProperty{Key: "hostname", Value: "a", Exclude: true}.String())
	assert.Equal(t, "Limit(10)", Limit{N: 10}.String())
}

func TestProgramCountDescendsIntoScopes(t *testing.T) {
	p := sampleProgram()

	assert.Equal(t, 3, p.Count(KindTraverseEdge))
	assert.Equal(t, 2, p.Count(KindFilterProperty))
	assert.Equal(t, 1, p.Count(KindStoreMarker))
	assert.Equal(t, 1, p.Count(KindFinalizeDedupUnfold))
	assert.Equal(t, 1, p.Count(KindLimit))
}

func TestProgramIsEmpty(t *testing.T) {
	assert.True(t, Program(nil).IsEmpty())
	assert.True(t, Program{}.IsEmpty())
	assert.False(t, Program{FinalizeDedupUnfold{}}.IsEmpty())
}

func TestFormatNestsScopes(t *testing.T) {
	out := Format(sampleProgram())

	assert.Equal(t, `SelectByType(pserver)
FilterProperty(hostname = "test-pserver")
Union(2 branches)
  branch 0:
    TraverseEdge(pserver, p-interface, TREE)
    StoreMarker(p-interface)
  branch 1:
    TraverseEdge(pserver, complex, COUSIN)
Where(2 ops)
  TraverseEdge(pserver, cloud-region, COUSIN)
  FilterProperty(cloud-owner != "att")
FinalizeDedupUnfold
Limit(5)
`, out)
}
