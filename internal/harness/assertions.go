package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/graphdsl/internal/queryir"
)

// defaultHashRuns is the number of recompiles hash_stable performs when
// the scenario does not say.
const defaultHashRuns = 3

// AssertionError is returned when an assertion fails.
// It includes the compiled program to help debug the failure.
type AssertionError struct {
	Type     string          // Assertion type for categorization
	Expected string          // Human-readable expected outcome
	Actual   string          // Human-readable actual outcome
	Program  queryir.Program // Compiled program for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nProgram:\n")
	if e.Program.IsEmpty() {
		fmt.Fprintf(&buf, "  (empty)\n")
	}
	for _, line := range strings.Split(strings.TrimSuffix(queryir.Format(e.Program), "\n"), "\n") {
		if line != "" {
			fmt.Fprintf(&buf, "  %s\n", line)
		}
	}

	return buf.String()
}

// AssertionContext carries what assertions need beyond the result.
type AssertionContext struct {
	// Recompile compiles the scenario again from scratch (hash_stable).
	Recompile func() (queryir.Program, error)
}

// EvaluateAssertions runs every assertion and returns failure messages in
// assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertValid:
		return assertValid(result)
	case AssertEmpty:
		return assertEmpty(result)
	case AssertOpsEqual:
		return assertOpsEqual(result, a)
	case AssertOpCount:
		return assertOpCount(result, a)
	case AssertBuilderEquals:
		return assertBuilderEquals(result, a)
	case AssertHashStable:
		return assertHashStable(result, a, actx)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertValid(result *Result) error {
	v := queryir.Validate(result.Program)
	if v.Valid {
		return nil
	}
	actual := strings.Join(v.Errors, "; ")
	if result.Fault != "" {
		actual = result.Fault
	}
	return &AssertionError{
		Type:     AssertValid,
		Expected: "a valid program",
		Actual:   actual,
		Program:  result.Program,
	}
}

func assertEmpty(result *Result) error {
	if result.Program.IsEmpty() {
		return nil
	}
	return &AssertionError{
		Type:     AssertEmpty,
		Expected: "empty program (query could not be compiled)",
		Actual:   fmt.Sprintf("%d ops", len(result.Program)),
		Program:  result.Program,
	}
}

func assertOpsEqual(result *Result, a Assertion) error {
	actual := make([]string, len(result.Program))
	for i, op := range result.Program {
		actual[i] = fmt.Sprint(op)
	}

	if len(actual) == len(a.Ops) {
		same := true
		for i := range actual {
			if actual[i] != a.Ops[i] {
				same = false
				break
			}
		}
		if same {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertOpsEqual,
		Expected: "[" + strings.Join(a.Ops, ", ") + "]",
		Actual:   "[" + strings.Join(actual, ", ") + "]",
		Program:  result.Program,
	}
}

func assertOpCount(result *Result, a Assertion) error {
	got := result.Program.Count(queryir.OpKind(a.Op))
	if got == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertOpCount,
		Expected: fmt.Sprintf("%d %s ops", a.Count, a.Op),
		Actual:   fmt.Sprintf("%d %s ops", got, a.Op),
		Program:  result.Program,
	}
}

func assertBuilderEquals(result *Result, a Assertion) error {
	if result.Builder == a.Builder {
		return nil
	}
	return &AssertionError{
		Type:     AssertBuilderEquals,
		Expected: a.Builder,
		Actual:   result.Builder,
		Program:  result.Program,
	}
}

func assertHashStable(result *Result, a Assertion, actx *AssertionContext) error {
	if actx == nil || actx.Recompile == nil {
		return fmt.Errorf("hash_stable requires a recompile function")
	}

	want, err := result.Program.Hash()
	if err != nil {
		return fmt.Errorf("hash program: %w", err)
	}

	runs := a.Runs
	if runs == 0 {
		runs = defaultHashRuns
	}
	for i := 0; i < runs; i++ {
		prog, _ := actx.Recompile()
		got, err := prog.Hash()
		if err != nil {
			return fmt.Errorf("hash recompile %d: %w", i, err)
		}
		if got != want {
			return &AssertionError{
				Type:     AssertHashStable,
				Expected: want,
				Actual:   fmt.Sprintf("%s on recompile %d", got, i),
				Program:  prog,
			}
		}
	}
	return nil
}
