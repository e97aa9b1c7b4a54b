package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_ResolvesRulesFile(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "traverse_tree.yaml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("testdata", "rules", "inventory.cue"), s.RulesFile)
	assert.Equal(t, "traverse_tree", s.Name)
	assert.Len(t, s.Query, 2)
	assert.Len(t, s.Assertions, 3)
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown field",
			content: "name: x\ndescription: y\nquery: [{node: a}]\nassertion: []\n",
			wantErr: "field assertion not found",
		},
		{
			name:    "missing name",
			content: "description: y\nquery: [{node: a}]\nassertions: [{type: valid}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: x\nquery: [{node: a}]\nassertions: [{type: valid}]\n",
			wantErr: "description is required",
		},
		{
			name:    "missing query",
			content: "name: x\ndescription: y\nassertions: [{type: valid}]\n",
			wantErr: "query is required",
		},
		{
			name:    "missing assertions",
			content: "name: x\ndescription: y\nquery: [{node: a}]\n",
			wantErr: "assertions list is required",
		},
		{
			name:    "missing rules file",
			content: "name: x\ndescription: y\nrules_file: nope.cue\nquery: [{node: a}]\nassertions: [{type: valid}]\n",
			wantErr: "rules file not found",
		},
		{
			name:    "rule without endpoint",
			content: "name: x\ndescription: y\nrules: [{from: a}]\nquery: [{node: a}]\nassertions: [{type: valid}]\n",
			wantErr: "rules[0]: from and to are required",
		},
		{
			name:    "unknown assertion type",
			content: "name: x\ndescription: y\nquery: [{node: a}]\nassertions: [{type: trace_order}]\n",
			wantErr: `unknown assertion type "trace_order"`,
		},
		{
			name:    "op_count with unknown op",
			content: "name: x\ndescription: y\nquery: [{node: a}]\nassertions: [{type: op_count, op: join, count: 1}]\n",
			wantErr: `unknown op kind "join"`,
		},
		{
			name:    "ops_equal without ops",
			content: "name: x\ndescription: y\nquery: [{node: a}]\nassertions: [{type: ops_equal}]\n",
			wantErr: "ops list is required",
		},
		{
			name:    "builder_equals without builder",
			content: "name: x\ndescription: y\nquery: [{node: a}]\nassertions: [{type: builder_equals}]\n",
			wantErr: "builder is required",
		},
		{
			name:    "negative runs",
			content: "name: x\ndescription: y\nquery: [{node: a}]\nassertions: [{type: hash_stable, runs: -1}]\n",
			wantErr: "runs must be non-negative",
		},
		{
			name:    "missing type",
			content: "name: x\ndescription: y\nquery: [{node: a}]\nassertions: [{count: 1}]\n",
			wantErr: "assertions[0]: type is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), tt.content)

			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
