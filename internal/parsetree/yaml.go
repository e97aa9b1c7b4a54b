package parsetree

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Steps is the YAML form of a statement sequence.
//
//	- node: pserver
//	  store: true
//	  filters:
//	    - [hostname, test-pserver]
//	    - {not: true, tokens: [equip-type, switch]}
//	- traverse:
//	    - node: p-interface
//	- union:
//	    - [{traverse: [{node: l-interface}]}]
//	    - [{traverse: [{node: sriov-vf}]}]
//	- where:
//	    - traverse: [{node: complex}]
//	- limit: 10
type Steps []StepSpec

// StepSpec is one YAML step. Exactly one of Node, Traverse, Where, Union or
// Limit must be set.
type StepSpec struct {
	Node     string       `yaml:"node,omitempty"`
	Store    bool         `yaml:"store,omitempty"`
	Filters  []FilterSpec `yaml:"filters,omitempty"`
	Traverse Steps        `yaml:"traverse,omitempty"`
	Where    Steps        `yaml:"where,omitempty"`
	Union    []Steps      `yaml:"union,omitempty"`
	Limit    string       `yaml:"limit,omitempty"`
}

// FilterSpec is a YAML filter step: either a bare token list
// ([key, value, ...]) or a mapping with not/tokens.
type FilterSpec struct {
	Not    bool     `yaml:"not,omitempty"`
	Tokens []string `yaml:"tokens"`
}

// UnmarshalYAML accepts both the sequence and the mapping form.
func (f *FilterSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var tokens []string
		if err := value.Decode(&tokens); err != nil {
			return err
		}
		*f = FilterSpec{Tokens: tokens}
		return nil
	}

	type plain FilterSpec
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*f = FilterSpec(p)
	return nil
}

// Document is the top-level YAML layout of a parse-tree file.
type Document struct {
	Query Steps `yaml:"query"`
}

// Tree converts the YAML steps to a Query root.
func (s Steps) Tree() (*Node, error) {
	children, err := s.nodes("query")
	if err != nil {
		return nil, err
	}
	return Query(children...), nil
}

func (s Steps) nodes(path string) ([]*Node, error) {
	out := make([]*Node, 0, len(s))
	for i, step := range s {
		n, err := step.node(fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (s StepSpec) node(path string) (*Node, error) {
	set := 0
	for _, present := range []bool{s.Node != "", s.Traverse != nil, s.Where != nil, s.Union != nil, s.Limit != ""} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%s: exactly one of node, traverse, where, union, limit is required", path)
	}

	switch {
	case s.Node != "":
		n := &Node{Kind: KindNodeStep, Token: s.Node, Store: s.Store}
		for _, f := range s.Filters {
			n.Children = append(n.Children, &Node{Kind: KindFilterStep, Not: f.Not, Tokens: f.Tokens})
		}
		return n, nil
	case s.Store || len(s.Filters) > 0:
		return nil, fmt.Errorf("%s: store and filters are only valid on a node step", path)
	case s.Traverse != nil:
		children, err := s.Traverse.nodes(path + ".traverse")
		if err != nil {
			return nil, err
		}
		return Traverse(children...), nil
	case s.Where != nil:
		children, err := s.Where.nodes(path + ".where")
		if err != nil {
			return nil, err
		}
		return Where(children...), nil
	case s.Union != nil:
		branches := make([]*Node, 0, len(s.Union))
		for i, b := range s.Union {
			children, err := b.nodes(fmt.Sprintf("%s.union[%d]", path, i))
			if err != nil {
				return nil, err
			}
			branches = append(branches, Statement(children...))
		}
		return Union(branches...), nil
	default:
		return Limit(s.Limit), nil
	}
}

// Decode parses a YAML parse-tree document. Unknown fields are rejected.
func Decode(r io.Reader) (*Node, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty parse-tree document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return doc.Query.Tree()
}

// DecodeFile reads and decodes a YAML parse-tree file.
func DecodeFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parse-tree file: %w", err)
	}
	return Decode(bytes.NewReader(data))
}
