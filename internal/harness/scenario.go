package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/graphdsl/internal/ir"
	"github.com/roach88/graphdsl/internal/parsetree"
	"github.com/roach88/graphdsl/internal/queryir"
)

// Scenario defines a compile conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rules are inline edge rules.
	Rules []ir.EdgeRule `yaml:"rules,omitempty"`

	// RulesFile is an optional .yaml/.yml/.cue rule file. Relative paths
	// are resolved against the scenario file's directory.
	RulesFile string `yaml:"rules_file,omitempty"`

	// Query is the parse tree to compile.
	Query parsetree.Steps `yaml:"query"`

	// Assertions validate the compiled program.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates the compile result.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Op is the op kind counted by op_count.
	Op string `yaml:"op,omitempty"`

	// Count is the expected number of ops (op_count).
	Count int `yaml:"count,omitempty"`

	// Ops are the expected top-level op strings (ops_equal).
	Ops []string `yaml:"ops,omitempty"`

	// Builder is the expected builder text (builder_equals).
	Builder string `yaml:"builder,omitempty"`

	// Runs is how many recompiles hash_stable performs. Default 3.
	Runs int `yaml:"runs,omitempty"`
}

// Assertion type constants.
const (
	AssertValid         = "valid"
	AssertEmpty         = "empty"
	AssertOpsEqual      = "ops_equal"
	AssertOpCount       = "op_count"
	AssertBuilderEquals = "builder_equals"
	AssertHashStable    = "hash_stable"
)

var knownOpKinds = map[queryir.OpKind]bool{
	queryir.KindSelectByType:        true,
	queryir.KindTraverseEdge:        true,
	queryir.KindFilterProperty:      true,
	queryir.KindStoreMarker:         true,
	queryir.KindUnion:               true,
	queryir.KindWhere:               true,
	queryir.KindFinalizeDedupUnfold: true,
	queryir.KindLimit:               true,
}

// LoadScenario reads and parses a scenario YAML file. A relative
// rules_file is resolved against the scenario's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.RulesFile != "" && !filepath.IsAbs(scenario.RulesFile) {
		scenario.RulesFile = filepath.Join(filepath.Dir(path), scenario.RulesFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Query) == 0 {
		return fmt.Errorf("query is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.RulesFile != "" {
		if _, err := os.Stat(s.RulesFile); os.IsNotExist(err) {
			return fmt.Errorf("rules file not found: %s", s.RulesFile)
		}
	}

	for i, r := range s.Rules {
		if r.From == "" || r.To == "" {
			return fmt.Errorf("rules[%d]: from and to are required", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertValid, AssertEmpty:
	case AssertOpsEqual:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for ops_equal", index)
		}
	case AssertOpCount:
		if !knownOpKinds[queryir.OpKind(a.Op)] {
			return fmt.Errorf("assertions[%d]: unknown op kind %q for op_count", index, a.Op)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for op_count", index)
		}
	case AssertBuilderEquals:
		if a.Builder == "" {
			return fmt.Errorf("assertions[%d]: builder is required for builder_equals", index)
		}
	case AssertHashStable:
		if a.Runs < 0 {
			return fmt.Errorf("assertions[%d]: runs must be non-negative for hash_stable", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
