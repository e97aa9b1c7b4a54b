// Package querybuilder renders a queryir.Program as traversal-builder call
// text, the form consumed by engines that evaluate chained builder calls:
//
//	builder.getVerticesByProperty('aai-node-type', 'pserver')
//		.createEdgeTraversal(EdgeType.TREE, 'pserver','p-interface')
//		.cap('x').unfold().dedup()
//
// (shown wrapped; the output is a single line). The program model stays
// the source of truth; this is a serialization pass on top of it.
package querybuilder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/graphdsl/internal/ir"
	"github.com/roach88/graphdsl/internal/queryir"
)

// ErrEmptyProgram is returned for the empty program, which means the query
// could not be compiled and has no builder form.
var ErrEmptyProgram = errors.New("empty program has no builder text")

const (
	// DefaultTypeProperty is the vertex property holding the node type.
	DefaultTypeProperty = "aai-node-type"

	// DefaultStoreLabel is the side-effect label used by store and cap.
	DefaultStoreLabel = "x"
)

// Renderer renders programs to builder text.
type Renderer struct {
	// TypeProperty is the property matched by SelectByType.
	TypeProperty string

	// StoreLabel names the collection StoreMarker writes to and
	// FinalizeDedupUnfold caps.
	StoreLabel string
}

// NewRenderer creates a Renderer with the default property and label.
func NewRenderer() *Renderer {
	return &Renderer{
		TypeProperty: DefaultTypeProperty,
		StoreLabel:   DefaultStoreLabel,
	}
}

// Render renders p with a default Renderer.
func Render(p queryir.Program) (string, error) {
	return NewRenderer().Render(p)
}

// Render converts p to builder text. Union branches and where bodies each
// start from builder.newInstance().
func (r *Renderer) Render(p queryir.Program) (string, error) {
	if p.IsEmpty() {
		return "", ErrEmptyProgram
	}

	var sb strings.Builder
	sb.WriteString("builder")
	if err := r.renderOps(&sb, p); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *Renderer) renderOps(sb *strings.Builder, p queryir.Program) error {
	for i, op := range p {
		if err := r.renderOp(sb, op); err != nil {
			return fmt.Errorf("op[%d]: %w", i, err)
		}
	}
	return nil
}

func (r *Renderer) renderOp(sb *strings.Builder, op queryir.Op) error {
	switch o := op.(type) {
	case queryir.SelectByType:
		fmt.Fprintf(sb, ".getVerticesByProperty(%s, %s)", quote(r.TypeProperty), quote(string(o.Type)))
	case queryir.TraverseEdge:
		kind, err := edgeType(o.Edge)
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, ".createEdgeTraversal(EdgeType.%s, %s,%s)", kind, quote(string(o.From)), quote(string(o.To)))
	case queryir.FilterProperty:
		method := "getVerticesByProperty"
		if o.Exclude {
			method = "getVerticesExcludeByProperty"
		}
		fmt.Fprintf(sb, ".%s(%s, %s)", method, quote(o.Key), quote(o.Value))
	case queryir.StoreMarker:
		fmt.Fprintf(sb, ".store(%s)", quote(r.StoreLabel))
	case queryir.Union:
		if len(o.Branches) == 0 {
			return errors.New("union without branches")
		}
		sb.WriteString(".union(")
		for i, b := range o.Branches {
			if i > 0 {
				sb.WriteString(",")
			}
			if err := r.renderSub(sb, b); err != nil {
				return fmt.Errorf("branch %d: %w", i, err)
			}
		}
		sb.WriteString(")")
	case queryir.Where:
		sb.WriteString(".where(")
		if err := r.renderSub(sb, o.Sub); err != nil {
			return fmt.Errorf("where: %w", err)
		}
		sb.WriteString(")")
	case queryir.FinalizeDedupUnfold:
		fmt.Fprintf(sb, ".cap(%s).unfold().dedup()", quote(r.StoreLabel))
	case queryir.Limit:
		fmt.Fprintf(sb, ".limit(%d)", o.N)
	default:
		return fmt.Errorf("unsupported op type: %T", op)
	}
	return nil
}

func (r *Renderer) renderSub(sb *strings.Builder, p queryir.Program) error {
	sb.WriteString("builder.newInstance()")
	return r.renderOps(sb, p)
}

func edgeType(k ir.EdgeKind) (string, error) {
	switch k {
	case ir.Tree, ir.Cousin:
		return k.String(), nil
	default:
		return "", fmt.Errorf("unknown edge kind %d", int(k))
	}
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// quote wraps s in single quotes, escaping backslashes and quotes.
func quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}
