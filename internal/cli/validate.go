package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/graphdsl/internal/queryir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Ops    int      `json:"ops"`
	Errors []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <program.json>",
		Short: "Check a compiled program's shape",
		Long: `Validate a program JSON file (as written by compile --output).

Checks that the program has exactly one finalize op at the top level,
that only limits follow it, and that sub-programs hold neither.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, programPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if err := checkExists(programPath, "program file"); err != nil {
		return commandError(formatter, err)
	}

	data, err := os.ReadFile(programPath)
	if err != nil {
		return commandError(formatter, fmt.Errorf("reading program file: %w", err))
	}

	var prog queryir.Program
	if err := prog.UnmarshalJSON(data); err != nil {
		return commandError(formatter, &LoadError{Code: ErrCodeProgramParse, Message: err.Error()})
	}
	formatter.VerboseLog("Decoded %d op(s) from %s", len(prog), programPath)

	res := queryir.Validate(prog)
	result := ValidationResult{Valid: res.Valid, Ops: len(prog), Errors: res.Errors}

	if !res.Valid {
		return outputValidationErrors(formatter, result)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Program valid (%d op(s))\n", result.Ops)
	return nil
}

func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	msg := fmt.Sprintf("program has %d violation(s)", len(result.Errors))
	if formatter.Format == "json" {
		if err := formatter.Error(ErrCodeInvalidProgram, msg, result.Errors); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	fmt.Fprintf(formatter.Writer, "✗ Validation failed with %d error(s):\n\n", len(result.Errors))
	for _, e := range result.Errors {
		fmt.Fprintf(formatter.Writer, "  [%s] %s\n", ErrCodeInvalidProgram, e)
	}
	return NewExitError(ExitFailure, msg)
}
