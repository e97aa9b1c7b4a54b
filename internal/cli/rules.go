package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/graphdsl/internal/edgerules"
	"github.com/roach88/graphdsl/internal/ir"
)

// RulesOptions holds flags shared by the rules subcommands.
type RulesOptions struct {
	*RootOptions
	Rules  string
	Strict bool // resolve: fail instead of falling back to cousin
}

// RuleListResult is the payload of rules list.
type RuleListResult struct {
	Count int           `json:"count"`
	Hash  string        `json:"hash"`
	Rules []ir.EdgeRule `json:"rules"`
}

// ResolveResult is the payload of rules resolve.
type ResolveResult struct {
	From     ir.NodeType  `json:"from"`
	To       ir.NodeType  `json:"to"`
	Kind     string       `json:"kind"`
	Fallback bool         `json:"fallback"`
	Reason   string       `json:"reason,omitempty"`
	Rule     *ir.EdgeRule `json:"rule,omitempty"`
}

// NewRulesCommand creates the rules command group.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RulesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect an edge-rule set",
	}
	cmd.PersistentFlags().StringVar(&opts.Rules, "rules", "", "edge-rule source (.yaml|.yml|.cue|.db|.sqlite)")

	list := &cobra.Command{
		Use:           "list",
		Short:         "List the rules of a rule set in pair order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesList(opts, cmd)
		},
	}

	resolve := &cobra.Command{
		Use:   "resolve <from> <to>",
		Short: "Show the edge kind chosen for a pair of node types",
		Long: `Resolve the edge kind between two node types.

A pair without a usable rule (missing or ambiguous) falls back to a
cousin edge. With --strict that fallback is reported as an error.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesResolve(opts, ir.NodeType(args[0]), ir.NodeType(args[1]), cmd)
		},
	}
	resolve.Flags().BoolVar(&opts.Strict, "strict", false, "fail when no usable rule exists")

	cmd.AddCommand(list, resolve)
	return cmd
}

func runRulesList(opts *RulesOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	registry, err := loadRules(cmd.Context(), opts.Rules)
	if err != nil {
		return commandError(formatter, err)
	}

	hash, err := registry.Hash()
	if err != nil {
		return commandError(formatter, fmt.Errorf("hashing rules: %w", err))
	}

	result := RuleListResult{Count: registry.Len(), Hash: hash, Rules: registry.Rules()}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "%d rule(s) (%s)\n", result.Count, result.Hash)
	for _, r := range result.Rules {
		marker := ""
		if r.Default {
			marker = " [default]"
		}
		fmt.Fprintf(formatter.Writer, "  %s -> %s  containment=%s label=%s%s\n",
			r.From, r.To, r.Containment, r.Label, marker)
	}
	return nil
}

func runRulesResolve(opts *RulesOptions, from, to ir.NodeType, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	registry, err := loadRules(cmd.Context(), opts.Rules)
	if err != nil {
		return commandError(formatter, err)
	}

	kind := edgerules.NewResolver(registry).Resolve(from, to)
	result := ResolveResult{From: from, To: to, Kind: kind.String()}

	rule, lookupErr := lookupEitherWay(registry, from, to)
	if lookupErr != nil {
		result.Fallback = true
		result.Reason = lookupErr.Error()
	} else {
		result.Rule = &rule
	}

	if opts.Strict && result.Fallback {
		msg := fmt.Sprintf("no usable rule for %s/%s", from, to)
		if err := formatter.Error(ErrCodeNoRule, msg, result.Reason); err != nil {
			return err
		}
		return WrapExitError(ExitFailure, msg, lookupErr)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "%s -> %s: %s\n", from, to, result.Kind)
	if result.Fallback {
		fmt.Fprintf(formatter.Writer, "  fallback: %s\n", result.Reason)
	} else {
		fmt.Fprintf(formatter.Writer, "  rule: %s -> %s containment=%s\n", rule.From, rule.To, rule.Containment)
	}
	return nil
}

// lookupEitherWay mirrors the resolver's order-independent lookup so the
// reported rule is the one that decided the kind.
func lookupEitherWay(registry edgerules.Registry, from, to ir.NodeType) (ir.EdgeRule, error) {
	a, b := ir.OrderedPair(from, to)
	rule, err := registry.Lookup(a, b)
	if errors.Is(err, edgerules.ErrNoRule) {
		return registry.Lookup(b, a)
	}
	return rule, err
}
