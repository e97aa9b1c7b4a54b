package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/graphdsl/internal/compiler"
	"github.com/roach88/graphdsl/internal/edgerules"
	"github.com/roach88/graphdsl/internal/ir"
	"github.com/roach88/graphdsl/internal/parsetree"
	"github.com/roach88/graphdsl/internal/querybuilder"
	"github.com/roach88/graphdsl/internal/queryir"
)

// Harness compiles one scenario. It is created per Run call.
type Harness struct {
	scenario *Scenario
	registry *edgerules.MemoryRegistry
	tree     *parsetree.Node
	logger   *slog.Logger
}

// Run compiles a scenario and evaluates its assertions.
//
// Execution flow:
// 1. Build the rule snapshot from inline rules and the rules file
// 2. Build the parse tree from the scenario query
// 3. Compile with a fresh compiler
// 4. Render builder text for non-empty programs
// 5. Evaluate assertions
//
// An error return means the scenario itself is broken (bad rules, bad
// tree). A compile fault is not an error: it is recorded in Result.Fault
// and judged by the assertions.
func Run(scenario *Scenario) (*Result, error) {
	registry, err := buildRegistry(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to build rules: %w", err)
	}

	tree, err := scenario.Query.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to build query tree: %w", err)
	}

	h := &Harness{
		scenario: scenario,
		registry: registry,
		tree:     tree,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	prog, compileErr := h.compile()
	result.Program = prog
	if compileErr != nil {
		result.Fault = compileErr.Error()
	}
	if !prog.IsEmpty() {
		builder, err := querybuilder.Render(prog)
		if err != nil {
			return nil, fmt.Errorf("failed to render builder text: %w", err)
		}
		result.Builder = builder
	}

	h.logger.Info("scenario compiled",
		"scenario", scenario.Name,
		"ops", len(prog),
		"fault", result.Fault,
	)

	actx := &AssertionContext{Recompile: h.compile}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// compile runs a fresh compiler over the scenario tree.
func (h *Harness) compile() (queryir.Program, error) {
	c := compiler.New(edgerules.NewResolver(h.registry), compiler.WithLogger(h.logger))
	return c.CompileWithError(h.tree)
}

// buildRegistry merges the rules file (first) and inline rules.
func buildRegistry(s *Scenario) (*edgerules.MemoryRegistry, error) {
	var rules []ir.EdgeRule
	if s.RulesFile != "" {
		fileReg, err := edgerules.LoadFile(s.RulesFile)
		if err != nil {
			return nil, err
		}
		rules = append(rules, fileReg.Rules()...)
	}
	rules = append(rules, s.Rules...)
	return edgerules.NewMemoryRegistry(rules...)
}
