package queryir

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/graphdsl/internal/ir"
)

// ToIR converts p to the constrained IR value family used for canonical
// encoding. Every op becomes an object with an "op" discriminator.
func (p Program) ToIR() ir.IRArray {
	arr := make(ir.IRArray, len(p))
	for i, op := range p {
		if op == nil {
			continue // left nil so canonical encoding rejects it
		}
		arr[i] = opToIR(op)
	}
	return arr
}

func opToIR(op Op) ir.IRObject {
	obj := ir.IRObject{"op": ir.IRString(op.Kind())}
	switch o := op.(type) {
	case SelectByType:
		obj["type"] = ir.IRString(o.Type)
	case TraverseEdge:
		obj["from"] = ir.IRString(o.From)
		obj["to"] = ir.IRString(o.To)
		obj["kind"] = ir.IRString(o.Edge.String())
	case FilterProperty:
		obj["key"] = ir.IRString(o.Key)
		obj["value"] = ir.IRString(o.Value)
		obj["exclude"] = ir.IRBool(o.Exclude)
	case StoreMarker:
		obj["type"] = ir.IRString(o.Type)
	case Union:
		branches := make(ir.IRArray, len(o.Branches))
		for i, b := range o.Branches {
			branches[i] = b.ToIR()
		}
		obj["branches"] = branches
	case Where:
		obj["sub"] = o.Sub.ToIR()
	case Limit:
		obj["n"] = ir.IRInt(o.N)
	}
	return obj
}

// MarshalJSON encodes p as canonical JSON.
func (p Program) MarshalJSON() ([]byte, error) {
	return ir.MarshalCanonical(p.ToIR())
}

// Hash returns the content-addressed fingerprint of p. Identical programs
// always hash identically.
func (p Program) Hash() (string, error) {
	return ir.Digest(ir.DomainProgram, p.ToIR())
}

// Equal reports whether p and other encode identically.
func (p Program) Equal(other Program) bool {
	a, errA := p.MarshalJSON()
	b, errB := other.MarshalJSON()
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// wireOp is the union of every op's JSON fields.
type wireOp struct {
	Op       OpKind    `json:"op"`
	Type     string    `json:"type"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	Kind     string    `json:"kind"`
	Key      string    `json:"key"`
	Value    string    `json:"value"`
	Exclude  bool      `json:"exclude"`
	N        *int64    `json:"n"`
	Branches []Program `json:"branches"`
	Sub      Program   `json:"sub"`
}

// UnmarshalJSON decodes the encoding produced by MarshalJSON. Unknown op
// kinds and unknown fields are rejected.
func (p *Program) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("program must be a JSON array: %w", err)
	}

	out := make(Program, 0, len(raw))
	for i, msg := range raw {
		op, err := decodeOp(msg)
		if err != nil {
			return fmt.Errorf("op[%d]: %w", i, err)
		}
		out = append(out, op)
	}
	*p = out
	return nil
}

func decodeOp(msg json.RawMessage) (Op, error) {
	var w wireOp
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return nil, err
	}

	switch w.Op {
	case KindSelectByType:
		return SelectByType{Type: ir.NodeType(w.Type)}, nil
	case KindTraverseEdge:
		kind, ok := ir.ParseEdgeKind(w.Kind)
		if !ok {
			return nil, fmt.Errorf("invalid edge kind %q", w.Kind)
		}
		return TraverseEdge{From: ir.NodeType(w.From), To: ir.NodeType(w.To), Edge: kind}, nil
	case KindFilterProperty:
		return FilterProperty{Key: w.Key, Value: w.Value, Exclude: w.Exclude}, nil
	case KindStoreMarker:
		return StoreMarker{Type: ir.NodeType(w.Type)}, nil
	case KindUnion:
		return Union{Branches: w.Branches}, nil
	case KindWhere:
		return Where{Sub: w.Sub}, nil
	case KindFinalizeDedupUnfold:
		return FinalizeDedupUnfold{}, nil
	case KindLimit:
		if w.N == nil {
			return nil, fmt.Errorf("limit requires n")
		}
		return Limit{N: *w.N}, nil
	case "":
		return nil, fmt.Errorf("missing op discriminator")
	default:
		return nil, fmt.Errorf("unknown op %q", w.Op)
	}
}
