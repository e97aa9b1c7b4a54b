package compiler

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/roach88/graphdsl/internal/ir"
	"github.com/roach88/graphdsl/internal/metrics"
	"github.com/roach88/graphdsl/internal/parsetree"
	"github.com/roach88/graphdsl/internal/queryir"
)

// EdgeResolver classifies a hop between two node types.
// *edgerules.Resolver satisfies it.
type EdgeResolver interface {
	Resolve(from, to ir.NodeType) ir.EdgeKind
}

// Compiler compiles parse trees against a fixed edge resolver.
// It holds no per-compile state and is safe for concurrent use.
type Compiler struct {
	resolver EdgeResolver
	logger   *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used for fault and debug output.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// New creates a Compiler that classifies hops with resolver.
func New(resolver EdgeResolver, opts ...Option) *Compiler {
	c := &Compiler{
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles root into a program. On any internal fault it logs the
// fault and returns an empty program.
func (c *Compiler) Compile(root *parsetree.Node) queryir.Program {
	prog, err := c.CompileWithError(root)
	if err != nil {
		c.logger.Error("query could not be compiled",
			"error", err,
			"event", "compile_fault",
		)
	}
	return prog
}

// CompileWithError is Compile but also returns the fault. The returned
// program is empty whenever err is non-nil.
func (c *Compiler) CompileWithError(root *parsetree.Node) (prog queryir.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			prog = nil
			err = faultf(FaultPanic, "%v", r)
		}
		if err != nil {
			metrics.CompilesTotal.WithLabelValues(metrics.ResultFault).Inc()
			return
		}
		metrics.CompilesTotal.WithLabelValues(metrics.ResultOK).Inc()
		metrics.CompiledOps.Observe(float64(len(prog)))
	}()

	prog, err = c.compileRoot(newState(), root)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("query compiled",
		"nodes", root.Size(),
		"ops", len(prog),
		"traversals", prog.Count(queryir.KindTraverseEdge),
		"limits", prog.Count(queryir.KindLimit),
	)
	return prog, nil
}

func (c *Compiler) compileRoot(s *state, root *parsetree.Node) (queryir.Program, error) {
	if root == nil {
		return nil, faultf(FaultNilNode, "nil parse tree")
	}
	if root.Kind != parsetree.KindQuery {
		return nil, faultf(FaultBadRoot, "root must be a query node, got %s", root)
	}

	var out queryir.Program
	if err := c.walkChildren(s, root, &out); err != nil {
		return nil, err
	}

	out = append(out, queryir.FinalizeDedupUnfold{})
	out = append(out, s.limits...)
	return out, nil
}

func (c *Compiler) walkChildren(s *state, n *parsetree.Node, out *queryir.Program) error {
	for i, child := range n.Children {
		if child == nil {
			return faultf(FaultNilNode, "%s: child %d is nil", n, i)
		}
		if err := c.walk(s, child, out); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) walk(s *state, n *parsetree.Node, out *queryir.Program) error {
	switch n.Kind {
	case parsetree.KindStatement:
		return c.walkChildren(s, n, out)
	case parsetree.KindNodeStep:
		return c.nodeStep(s, n, out)
	case parsetree.KindFilterStep:
		filterStep(n, out)
		return nil
	case parsetree.KindTraverseStep:
		s.traverseDepth++
		defer func() { s.traverseDepth-- }()
		return c.walkChildren(s, n, out)
	case parsetree.KindUnionStep:
		return c.unionStep(s, n, out)
	case parsetree.KindFilterTraverseStep:
		return c.whereStep(s, n, out)
	case parsetree.KindLimitStep:
		return limitStep(s, n)
	case parsetree.KindQuery:
		return faultf(FaultBadRoot, "query node below the root")
	default:
		return faultf(FaultUnknownKind, "unknown node kind %q", n.Kind)
	}
}

func (c *Compiler) nodeStep(s *state, n *parsetree.Node, out *queryir.Program) error {
	if n.Token == "" {
		return faultf(FaultEmptyType, "node step without a type")
	}
	s.previousType = s.currentType
	s.currentType = ir.NodeType(n.Token)

	if s.inHop() {
		from := s.anchor()
		if from == "" {
			return faultf(FaultNoAnchor, "hop to %s has no source type", s.currentType)
		}
		*out = append(*out, queryir.TraverseEdge{
			From: from,
			To:   s.currentType,
			Edge: c.resolver.Resolve(from, s.currentType),
		})
	} else {
		*out = append(*out, queryir.SelectByType{Type: s.currentType})
	}

	if n.Store {
		s.pendingStore[s.currentType] = true
	}

	if err := c.walkChildren(s, n, out); err != nil {
		return err
	}

	if s.pendingStore[s.currentType] {
		*out = append(*out, queryir.StoreMarker{Type: s.currentType})
		delete(s.pendingStore, s.currentType)
	}
	return nil
}

// unionStep compiles each branch into its own program. Every branch starts
// from the type current when the union opened; afterwards currentType is
// whatever the last branch left.
func (c *Compiler) unionStep(s *state, n *parsetree.Node, out *queryir.Program) error {
	if len(n.Children) == 0 {
		return faultf(FaultEmptyUnion, "union without branches")
	}

	// The union is the enclosing scope's first step; hops after it chain
	// from the last branch.
	if outer := s.top(); outer != nil {
		outer.justEntered = false
	}
	sc := s.push(unionScope, s.currentType)
	defer s.pop()

	branches := make([]queryir.Program, 0, len(n.Children))
	for i, branch := range n.Children {
		if branch == nil {
			return faultf(FaultNilNode, "union branch %d is nil", i)
		}
		sc.justEntered = true

		var p queryir.Program
		if err := c.walk(s, branch, &p); err != nil {
			return fmt.Errorf("union branch %d: %w", i, err)
		}
		branches = append(branches, p)
	}

	*out = append(*out, queryir.Union{Branches: branches})
	return nil
}

// whereStep compiles a lookahead. The main path resumes from the anchor.
func (c *Compiler) whereStep(s *state, n *parsetree.Node, out *queryir.Program) error {
	anchor := s.currentType
	sc := s.push(whereScope, anchor)
	sc.justEntered = true

	var sub queryir.Program
	err := c.walkChildren(s, n, &sub)
	s.pop()
	if err != nil {
		return fmt.Errorf("where: %w", err)
	}

	*out = append(*out, queryir.Where{Sub: sub})
	s.currentType = anchor
	return nil
}

func filterStep(n *parsetree.Node, out *queryir.Program) {
	if len(n.Tokens) < 2 {
		return
	}
	key := n.Tokens[0]
	for _, value := range n.Tokens[1:] {
		*out = append(*out, queryir.FilterProperty{
			Key:     key,
			Value:   value,
			Exclude: n.Not,
		})
	}
}

func limitStep(s *state, n *parsetree.Node) error {
	v, err := strconv.ParseInt(n.Token, 10, 64)
	if err != nil {
		return faultf(FaultBadLimit, "limit %q is not a number", n.Token)
	}
	if v < 0 {
		return faultf(FaultBadLimit, "negative limit %d", v)
	}
	s.limits = append(s.limits, queryir.Limit{N: v})
	return nil
}
