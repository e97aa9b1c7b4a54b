package queryir

import "fmt"

// ValidationResult reports whether a program satisfies the shape invariants
// that execution engines rely on.
type ValidationResult struct {
	// Valid is true when Errors is empty.
	Valid bool

	// Errors lists every violated invariant, in program order.
	Errors []string
}

// Validate checks p against the program shape rules:
//  1. p is non-empty (an empty program means "could not compile")
//  2. exactly one FinalizeDedupUnfold at the top level
//  3. only Limit ops follow FinalizeDedupUnfold
//  4. sub-programs never contain FinalizeDedupUnfold or Limit
//  5. type names are non-empty, limits non-negative, unions non-empty
//
// Validate is a pure function with no side effects and reports all
// violations rather than stopping at the first.
func Validate(p Program) ValidationResult {
	v := &validator{errors: []string{}}
	v.validateTop(p)

	return ValidationResult{
		Valid:  len(v.errors) == 0,
		Errors: v.errors,
	}
}

// validator accumulates errors during traversal.
type validator struct {
	errors []string
}

func (v *validator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *validator) validateTop(p Program) {
	if p.IsEmpty() {
		v.addError("empty program - query could not be compiled")
		return
	}

	finalizeAt := -1
	for i, op := range p {
		if op == nil {
			v.addError("op[%d]: nil op", i)
			continue
		}
		switch op.(type) {
		case FinalizeDedupUnfold:
			if finalizeAt >= 0 {
				v.addError("op[%d]: duplicate finalize_dedup_unfold (first at op[%d])", i, finalizeAt)
				continue
			}
			finalizeAt = i
			continue
		case Limit:
			if finalizeAt < 0 {
				v.addError("op[%d]: limit before finalize_dedup_unfold", i)
			}
		default:
			if finalizeAt >= 0 {
				v.addError("op[%d]: %s after finalize_dedup_unfold", i, op.Kind())
			}
		}
		v.validateOp(fmt.Sprintf("op[%d]", i), op)
	}

	if finalizeAt < 0 {
		v.addError("missing finalize_dedup_unfold")
	}
}

func (v *validator) validateSub(path string, p Program) {
	for i, op := range p {
		at := fmt.Sprintf("%s[%d]", path, i)
		if op == nil {
			v.addError("%s: nil op", at)
			continue
		}
		switch op.(type) {
		case FinalizeDedupUnfold, Limit:
			v.addError("%s: %s not allowed inside a sub-program", at, op.Kind())
			continue
		}
		v.validateOp(at, op)
	}
}

func (v *validator) validateOp(at string, op Op) {
	switch o := op.(type) {
	case SelectByType:
		if o.Type == "" {
			v.addError("%s: select_by_type with empty type", at)
		}
	case TraverseEdge:
		if o.From == "" || o.To == "" {
			v.addError("%s: traverse_edge requires both endpoints (from=%q, to=%q)", at, o.From, o.To)
		}
	case FilterProperty:
		if o.Key == "" {
			v.addError("%s: filter_property with empty key", at)
		}
	case StoreMarker:
		if o.Type == "" {
			v.addError("%s: store_marker with empty type", at)
		}
	case Union:
		if len(o.Branches) == 0 {
			v.addError("%s: union without branches", at)
		}
		for i, b := range o.Branches {
			v.validateSub(fmt.Sprintf("%s.branches[%d]", at, i), b)
		}
	case Where:
		v.validateSub(at+".sub", o.Sub)
	case Limit:
		if o.N < 0 {
			v.addError("%s: negative limit %d", at, o.N)
		}
	}
}
