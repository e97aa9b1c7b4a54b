package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/graphdsl/internal/edgerules"
	"github.com/roach88/graphdsl/internal/parsetree"
	"github.com/roach88/graphdsl/internal/store"
)

// Error codes for CLI responses.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeTreeParse      = "E002" // Parse-tree file could not be decoded
	ErrCodeRulesLoad      = "E003" // Edge-rule source could not be loaded
	ErrCodeProgramParse   = "E004" // Program JSON could not be decoded
	ErrCodeNotFound       = "E005" // Path not found
	ErrCodeUnsupported    = "E006" // Unsupported rules file extension
	ErrCodeWriteFailed    = "E007" // File write error
	ErrCodeInvalidProgram = "E008" // Program violates shape invariants
	ErrCodeNoRule         = "E009" // No usable rule for a pair
	ErrCodeCompileFault   = "E010" // Query could not be compiled
)

// LoadError is a loader failure tagged with its CLI error code.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// loadRules opens an edge-rule source and returns its in-memory snapshot.
// The source kind is chosen by extension: .yaml/.yml and .cue are rule
// documents, .db/.sqlite are SQLite snapshots opened read-only.
func loadRules(ctx context.Context, path string) (*edgerules.MemoryRegistry, error) {
	if path == "" {
		return nil, &LoadError{Code: ErrCodeRulesLoad, Message: "--rules is required"}
	}
	if err := checkExists(path, "rules file"); err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite":
		return loadRulesSnapshot(ctx, path)
	case ".yaml", ".yml", ".cue":
		registry, err := edgerules.LoadFile(path)
		if err != nil {
			return nil, convertRulesError(err)
		}
		return registry, nil
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported rules file %q: want .yaml, .yml, .cue, .db or .sqlite", path),
		}
	}
}

func loadRulesSnapshot(ctx context.Context, path string) (*edgerules.MemoryRegistry, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.OpenReadOnly(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRulesLoad, Message: fmt.Sprintf("opening rules database: %v", err)}
	}
	defer st.Close()

	registry, err := st.Snapshot(ctx)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRulesLoad, Message: fmt.Sprintf("reading rules snapshot: %v", err)}
	}
	return registry, nil
}

// loadTree decodes a YAML parse-tree file.
func loadTree(path string) (*parsetree.Node, error) {
	if err := checkExists(path, "parse-tree file"); err != nil {
		return nil, err
	}
	tree, err := parsetree.DecodeFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeTreeParse, Message: err.Error()}
	}
	return tree, nil
}

func checkExists(path, what string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found: %s", what, path)}
	}
	if err != nil {
		return &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing %s: %v", what, err)}
	}
	if info.IsDir() {
		return &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s is a directory: %s", what, path)}
	}
	return nil
}

// convertRulesError keeps the source position of rule-document errors.
func convertRulesError(err error) *LoadError {
	var ruleErr *edgerules.LoadError
	if errors.As(err, &ruleErr) {
		msg := ruleErr.Message
		if ruleErr.Field != "" {
			msg = ruleErr.Field + ": " + msg
		}
		return &LoadError{Code: ErrCodeRulesLoad, Message: msg, Pos: ruleErr.Pos}
	}
	return &LoadError{Code: ErrCodeRulesLoad, Message: err.Error()}
}

// errorCode extracts the CLI error code of err, defaulting to E001.
func errorCode(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		if loadErr.Pos.IsValid() {
			return loadErr.Code, fmt.Sprintf("%s:%d:%d: %s",
				loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column(), loadErr.Message)
		}
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// commandError reports err through the formatter and returns the
// matching ExitError. Missing inputs are command errors (exit 2).
func commandError(formatter *OutputFormatter, err error) error {
	code, msg := errorCode(err)
	if outErr := formatter.Error(code, msg, nil); outErr != nil {
		return outErr
	}
	return WrapExitError(ExitCommandError, msg, err)
}
