package compiler

import "fmt"

// Fault kinds.
const (
	FaultNilNode     = "nil_node"
	FaultUnknownKind = "unknown_kind"
	FaultBadRoot     = "bad_root"
	FaultEmptyType   = "empty_type"
	FaultNoAnchor    = "no_anchor"
	FaultEmptyUnion  = "empty_union"
	FaultBadLimit    = "bad_limit"
	FaultPanic       = "panic"
)

// FaultError is an internal compile fault. Compile swallows it and
// returns an empty program; CompileWithError hands it to the caller.
type FaultError struct {
	Kind    string
	Message string
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("compile fault (%s): %s", e.Kind, e.Message)
}

func faultf(kind, format string, args ...any) *FaultError {
	return &FaultError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
