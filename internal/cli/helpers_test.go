package cli

import (
	"bytes"
	"path/filepath"
	"testing"
)

var (
	rulesFile     = filepath.Join("testdata", "rules.yaml")
	pserverTree   = filepath.Join("testdata", "trees", "pserver_interfaces.yaml")
	badLimitTree  = filepath.Join("testdata", "trees", "bad_limit.yaml")
	scenariosDir  = filepath.Join("testdata", "scenarios")
	harnessRules  = filepath.Join("..", "harness", "testdata", "rules", "inventory.cue")
	harnessScenes = filepath.Join("..", "harness", "testdata", "scenarios")
)

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
