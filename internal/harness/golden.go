package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/graphdsl/internal/ir"
)

// ProgramSnapshot is the golden-file form of a scenario run.
type ProgramSnapshot struct {
	ScenarioName string
	Result       *Result
}

// toIR converts the snapshot to an IR object for canonical serialization.
func (s *ProgramSnapshot) toIR() ir.IRObject {
	obj := ir.IRObject{
		"scenario_name": ir.IRString(s.ScenarioName),
		"program":       s.Result.Program.ToIR(),
	}
	if s.Result.Builder != "" {
		obj["builder"] = ir.IRString(s.Result.Builder)
	}
	if s.Result.Fault != "" {
		obj["fault"] = ir.IRString(s.Result.Fault)
	}
	return obj
}

// RunWithGolden runs a scenario and compares its canonical program
// snapshot against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the scenario cannot be run. Test failure (via goldie)
// occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}

// Snapshot returns the canonical JSON bytes stored in a scenario's golden
// file. The CLI test command compares and rewrites golden files with it.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := ProgramSnapshot{ScenarioName: scenarioName, Result: result}
	return ir.MarshalCanonical(snapshot.toIR())
}
