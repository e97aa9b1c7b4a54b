package queryir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphdsl/internal/ir"
)

func TestMarshalJSONIsCanonical(t *testing.T) {
	p := Program{
		SelectByType{Type: "pserver"},
		TraverseEdge{From: "pserver", To: "p-interface", Edge: ir.Cousin},
		FinalizeDedupUnfold{},
		Limit{N: 5},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	assert.Equal(t,
		`[{"op":"select_by_type","type":"pserver"},`+
			`{"from":"pserver","kind":"COUSIN","op":"traverse_edge","to":"p-interface"},`+
			`{"op":"finalize_dedup_unfold"},`+
			`{"n":5,"op":"limit"}]`,
		string(data))
}

func TestJSONRoundTripNestedProgram(t *testing.T) {
	original := sampleProgram()

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Program
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.True(t, original.Equal(decoded))
	assert.Equal(t, original, decoded)
}

func TestUnmarshalJSONRejectsBadOps(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"not an array", `{"op":"limit"}`, "JSON array"},
		{"unknown op", `[{"op":"teleport"}]`, `unknown op "teleport"`},
		{"missing discriminator", `[{"type":"pserver"}]`, "missing op"},
		{"unknown field", `[{"op":"select_by_type","type":"a","label":"x"}]`, "unknown field"},
		{"bad edge kind", `[{"op":"traverse_edge","from":"a","to":"b","kind":"SIDEWAYS"}]`, "invalid edge kind"},
		{"limit without n", `[{"op":"limit"}]`, "limit requires n"},
		{"nested error", `[{"op":"where","sub":[{"op":"nope"}]}]`, "op[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Program
			err := json.Unmarshal([]byte(tt.input), &p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHashStableAndSensitive(t *testing.T) {
	h1, err := sampleProgram().Hash()
	require.NoError(t, err)
	h2, err := sampleProgram().Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	changed := sampleProgram()
	changed[len(changed)-1] = Limit{N: 6}
	h3, err := changed.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestHashRejectsNilOp(t *testing.T) {
	_, err := Program{nil}.Hash()
	require.Error(t, err)

	assert.False(t, Program{nil}.Equal(Program{nil}))
}

func TestEqualDistinguishesExcludeFlag(t *testing.T) {
	a := Program{FilterProperty{Key: "k", Value: "v"}}
	b := Program{FilterProperty{Key: "k", Value: "v", Exclude: true}}

	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(Program{FilterProperty{Key: "k", Value: "v"}}))
}
