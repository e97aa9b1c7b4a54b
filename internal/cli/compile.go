package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/graphdsl/internal/compiler"
	"github.com/roach88/graphdsl/internal/edgerules"
	"github.com/roach88/graphdsl/internal/querybuilder"
	"github.com/roach88/graphdsl/internal/queryir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Rules   string // edge-rule source
	Output  string // program JSON output file
	Builder bool   // also render builder text
}

// CompilationResult is the compile command's success payload.
type CompilationResult struct {
	QueryID string          `json:"query_id"`
	Program queryir.Program `json:"program"`
	Ops     int             `json:"ops"`
	Hash    string          `json:"hash"`
	Builder string          `json:"builder,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <tree.yaml>",
		Short: "Compile a parse tree to a query program",
		Long: `Compile a YAML parse tree into a query program.

Each traversal hop is classified as a tree or cousin edge using the rule
set given by --rules (.yaml, .yml, .cue, .db or .sqlite). A query that
cannot be compiled yields an empty program and exit code 1.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Rules, "rules", "", "edge-rule source (.yaml|.yml|.cue|.db|.sqlite)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write program JSON to this file")
	cmd.Flags().BoolVar(&opts.Builder, "builder", false, "also render builder text")

	return cmd
}

func runCompile(opts *CompileOptions, treePath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	registry, err := loadRules(cmd.Context(), opts.Rules)
	if err != nil {
		return commandError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d edge rule(s) from %s", registry.Len(), opts.Rules)

	tree, err := loadTree(treePath)
	if err != nil {
		return commandError(formatter, err)
	}

	queryID, err := uuid.NewV7()
	if err != nil {
		return commandError(formatter, fmt.Errorf("generating query id: %w", err))
	}

	logger := formatter.Logger().With("query_id", queryID.String())
	c := compiler.New(edgerules.NewResolver(registry), compiler.WithLogger(logger))

	prog, err := c.CompileWithError(tree)
	if err != nil {
		logger.Error("query could not be compiled", "error", err, "event", "compile_fault")
		msg := "query could not be compiled"
		if outErr := formatter.Error(ErrCodeCompileFault, msg, err.Error()); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, msg, err)
	}

	hash, err := prog.Hash()
	if err != nil {
		return commandError(formatter, fmt.Errorf("hashing program: %w", err))
	}

	result := &CompilationResult{
		QueryID: queryID.String(),
		Program: prog,
		Ops:     len(prog),
		Hash:    hash,
	}
	if opts.Builder {
		builder, err := querybuilder.Render(prog)
		if err != nil {
			return commandError(formatter, fmt.Errorf("rendering builder text: %w", err))
		}
		result.Builder = builder
	}

	if opts.Output != "" {
		if err := writeProgramToFile(prog, opts.Output); err != nil {
			return commandError(formatter, &LoadError{
				Code:    ErrCodeWriteFailed,
				Message: fmt.Sprintf("writing output file: %v", err),
			})
		}
		formatter.VerboseLog("Wrote program to %s", opts.Output)
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✓ Compiled %d op(s) (%s)\n", result.Ops, result.Hash)
	sb.WriteString(queryir.Format(result.Program))
	if result.Builder != "" {
		fmt.Fprintf(&sb, "\n%s\n", result.Builder)
	}
	if outputFile != "" {
		fmt.Fprintf(&sb, "\nProgram written to: %s\n", outputFile)
	}
	fmt.Fprint(formatter.Writer, sb.String())
	return nil
}

// writeProgramToFile writes the canonical program JSON.
func writeProgramToFile(prog queryir.Program, filename string) error {
	data, err := prog.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshaling program: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}
