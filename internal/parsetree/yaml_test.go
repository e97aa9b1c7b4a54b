package parsetree

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFullTree(t *testing.T) {
	doc := `
query:
  - node: pserver
    store: true
    filters:
      - [hostname, test-pserver]
      - {not: true, tokens: [equip-type, switch]}
  - traverse:
      - node: p-interface
  - union:
      - [{traverse: [{node: l-interface}]}]
      - [{traverse: [{node: sriov-vf}]}]
  - where:
      - traverse: [{node: complex}]
  - limit: 10
`
	got, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	want := Query(
		&Node{Kind: KindNodeStep, Token: "pserver", Store: true, Children: []*Node{
			Filter("hostname", "test-pserver"),
			NotFilter("equip-type", "switch"),
		}},
		Traverse(Step("p-interface")),
		Union(Statement(Traverse(Step("l-interface"))), Statement(Traverse(Step("sriov-vf")))),
		Where(Traverse(Step("complex"))),
		Limit("10"),
	)
	assert.Equal(t, want, got)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"empty document", "", "empty parse-tree document"},
		{"unknown field", "query:\n  - nod: pserver\n", "field nod not found"},
		{"two kinds in one step", "query:\n  - node: a\n    limit: 1\n", "query[0]: exactly one of"},
		{"no kind", "query:\n  - store: true\n", "query[0]: exactly one of"},
		{"nested error path", "query:\n  - traverse:\n      - {}\n", "query[0].traverse[0]"},
		{"union branch path", "query:\n  - union:\n      - [{}]\n", "query[0].union[0][0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte("query:\n  - node: pserver\n"), 0644))

	got, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, Query(Step("pserver")), got)

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read parse-tree file")
}
