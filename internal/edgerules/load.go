package edgerules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/graphdsl/internal/ir"
)

// LoadError is a rule-file error. Pos is set for CUE sources.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadFile reads a rule snapshot, choosing the format by extension:
// .yaml/.yml or .cue.
func LoadFile(path string) (*MemoryRegistry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".cue":
		return LoadCUE(path)
	default:
		return nil, fmt.Errorf("unsupported rules file %q: want .yaml, .yml or .cue", path)
	}
}

// ruleDocument is the top-level shape of a YAML rule file.
type ruleDocument struct {
	Rules []ir.EdgeRule `yaml:"rules"`
}

// LoadYAML reads a rule snapshot from a YAML file.
func LoadYAML(path string) (*MemoryRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseYAML(bytes.NewReader(data))
}

// ParseYAML decodes a rule snapshot of the form:
//
//	rules:
//	  - from: pserver
//	    to: p-interface
//	    label: tosca.relationships.network.BindsTo
//	    containment: OUT
//
// Unknown fields are rejected.
func ParseYAML(r io.Reader) (*MemoryRegistry, error) {
	var doc ruleDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Field: "rules", Message: "empty rules document"}
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return NewMemoryRegistry(doc.Rules...)
}

// LoadCUE reads a rule snapshot from a CUE file.
func LoadCUE(path string) (*MemoryRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseCUE(data, path)
}

// ParseCUE compiles CUE source and extracts its rules list:
//
//	rules: [
//		{from: "pserver", to: "p-interface", containment: "OUT"},
//	]
//
// CUE constraints and references are evaluated before extraction, so rule
// files may share definitions. Fields other than from, to, label,
// containment and default are rejected.
func ParseCUE(data []byte, filename string) (*MemoryRegistry, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	rulesVal := v.LookupPath(cue.ParsePath("rules"))
	if !rulesVal.Exists() {
		return nil, &LoadError{Field: "rules", Message: "rules list is required", Pos: v.Pos()}
	}
	iter, err := rulesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rules []ir.EdgeRule
	for i := 0; iter.Next(); i++ {
		rule, err := parseCUERule(iter.Value(), fmt.Sprintf("rules[%d]", i))
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return NewMemoryRegistry(rules...)
}

func parseCUERule(v cue.Value, path string) (ir.EdgeRule, error) {
	var rule ir.EdgeRule
	fields, err := v.Fields()
	if err != nil {
		return rule, formatCUEError(err)
	}
	for fields.Next() {
		label := fields.Label()
		fv := fields.Value()
		field := path + "." + label

		switch label {
		case "from", "to", "label", "containment":
			s, err := fv.String()
			if err != nil {
				return rule, &LoadError{Field: field, Message: "must be a string", Pos: fv.Pos()}
			}
			switch label {
			case "from":
				rule.From = ir.NodeType(s)
			case "to":
				rule.To = ir.NodeType(s)
			case "label":
				rule.Label = s
			default:
				rule.Containment = s
			}
		case "default":
			b, err := fv.Bool()
			if err != nil {
				return rule, &LoadError{Field: field, Message: "must be a bool", Pos: fv.Pos()}
			}
			rule.Default = b
		default:
			return rule, &LoadError{Field: field, Message: "unknown field", Pos: fv.Pos()}
		}
	}
	if rule.From == "" || rule.To == "" {
		return rule, &LoadError{Field: path, Message: "from and to are required", Pos: v.Pos()}
	}
	return rule, nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		return &LoadError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return err
}
