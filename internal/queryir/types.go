package queryir

import (
	"fmt"

	"github.com/roach88/graphdsl/internal/ir"
)

// OpKind is the discriminator used in the JSON encoding of an Op.
type OpKind string

const (
	KindSelectByType        OpKind = "select_by_type"
	KindTraverseEdge        OpKind = "traverse_edge"
	KindFilterProperty      OpKind = "filter_property"
	KindStoreMarker         OpKind = "store_marker"
	KindUnion               OpKind = "union"
	KindWhere               OpKind = "where"
	KindFinalizeDedupUnfold OpKind = "finalize_dedup_unfold"
	KindLimit               OpKind = "limit"
)

// Op is one compiled instruction.
//
// This is a sealed interface - only types in this package implement it.
type Op interface {
	Kind() OpKind
	String() string

	queryOp() // Marker method - seals interface to this package
}

// Program is an ordered sequence of Ops. Treat it as immutable once
// produced; the compiler never hands out a slice it still appends to.
type Program []Op

// SelectByType starts a fresh scan of every vertex of one node type.
type SelectByType struct {
	Type ir.NodeType
}

// TraverseEdge hops from the From type to the To type. Edge is resolved at
// compile time.
type TraverseEdge struct {
	From ir.NodeType
	To   ir.NodeType
	Edge ir.EdgeKind
}

// FilterProperty keeps (or, with Exclude, drops) vertices whose Key
// property equals Value.
type FilterProperty struct {
	Key     string
	Value   string
	Exclude bool
}

// StoreMarker records the current vertices of Type in the result set.
type StoreMarker struct {
	Type ir.NodeType
}

// Union runs every branch from the same anchor and merges the results.
type Union struct {
	Branches []Program
}

// Where keeps the current vertices only if Sub matches from them. Sub does
// not advance the main path.
type Where struct {
	Sub Program
}

// FinalizeDedupUnfold emits the stored result set, unfolded and
// deduplicated.
type FinalizeDedupUnfold struct{}

// Limit caps the number of results.
type Limit struct {
	N int64
}

func (SelectByType) Kind() OpKind        { return KindSelectByType }
func (TraverseEdge) Kind() OpKind        { return KindTraverseEdge }
func (FilterProperty) Kind() OpKind      { return KindFilterProperty }
func (StoreMarker) Kind() OpKind         { return KindStoreMarker }
func (Union) Kind() OpKind               { return KindUnion }
func (Where) Kind() OpKind               { return KindWhere }
func (FinalizeDedupUnfold) Kind() OpKind { return KindFinalizeDedupUnfold }
func (Limit) Kind() OpKind               { return KindLimit }

func (SelectByType) queryOp()        {}
func (TraverseEdge) queryOp()        {}
func (FilterProperty) queryOp()      {}
func (StoreMarker) queryOp()         {}
func (Union) queryOp()               {}
func (Where) queryOp()               {}
func (FinalizeDedupUnfold) queryOp() {}
func (Limit) queryOp()               {}

func (o SelectByType) String() string { return fmt.Sprintf("SelectByType(%s)", o.Type) }

func (o TraverseEdge) String() string {
	return fmt.Sprintf("TraverseEdge(%s, %s, %s)", o.From, o.To, o.Edge)
}

func (o FilterProperty) String() string {
	if o.Exclude {
		return fmt.Sprintf("FilterProperty(%s != %q)", o.Key, o.Value)
	}
	return fmt.Sprintf("FilterProperty(%s = %q)", o.Key, o.Value)
}

func (o StoreMarker) String() string { return fmt.Sprintf("StoreMarker(%s)", o.Type) }

func (o Union) String() string { return fmt.Sprintf("Union(%d branches)", len(o.Branches)) }

func (o Where) String() string { return fmt.Sprintf("Where(%d ops)", len(o.Sub)) }

func (FinalizeDedupUnfold) String() string { return "FinalizeDedupUnfold" }

func (o Limit) String() string { return fmt.Sprintf("Limit(%d)", o.N) }

// IsEmpty reports whether p is the "could not compile" program.
func (p Program) IsEmpty() bool {
	return len(p) == 0
}

// Count returns the number of ops of the given kind, descending into union
// branches and where bodies.
func (p Program) Count(kind OpKind) int {
	n := 0
	for _, op := range p {
		if op.Kind() == kind {
			n++
		}
		switch o := op.(type) {
		case Union:
			for _, b := range o.Branches {
				n += b.Count(kind)
			}
		case Where:
			n += o.Sub.Count(kind)
		}
	}
	return n
}
