package qexpr

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Resolver builds the atoms named in an encoded expression.
type Resolver interface {
	Ket(class string, label []Expr) (State, error)
	Bra(class string, label []Expr) (State, error)
	Operator(class string, label []Expr) (Operator, error)
	Basis(name string) (Basis, error)
}

// Node is the wire form of an expression tree, shared by JSON and YAML.
//
//	{"type": "product", "args": [{"type": "bra", "class": "SHO", "label": ["1"]},
//	                             {"type": "ket", "class": "SHO", "label": ["1"]}]}
type Node struct {
	Type  string   `json:"type" yaml:"type"`
	Class string   `json:"class,omitempty" yaml:"class,omitempty"`
	Name  string   `json:"name,omitempty" yaml:"name,omitempty"`
	Value string   `json:"value,omitempty" yaml:"value,omitempty"`
	Label []string `json:"label,omitempty" yaml:"label,omitempty"`
	Args  []Node   `json:"args,omitempty" yaml:"args,omitempty"`
}

// DecodeJSON parses a JSON encoded expression.
func DecodeJSON(data []byte, r Resolver) (Expr, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to parse expression: %w", err)
	}
	return n.Build(r)
}

// DecodeYAML parses a YAML encoded expression.
func DecodeYAML(data []byte, r Resolver) (Expr, error) {
	var n Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to parse expression: %w", err)
	}
	return n.Build(r)
}

// Build turns the node into an expression. Composite nodes are built raw so
// the tree keeps exactly the shape that was written.
func (n Node) Build(r Resolver) (Expr, error) {
	args := make([]Expr, len(n.Args))
	for i, a := range n.Args {
		e, err := a.Build(r)
		if err != nil {
			return nil, err
		}
		args[i] = e
	}
	label := make([]Expr, len(n.Label))
	for i, l := range n.Label {
		label[i] = LabelValue(l)
	}

	switch n.Type {
	case "number":
		return ParseNumber(n.Value)
	case "complex":
		var re, im float64
		if _, err := fmt.Sscanf(n.Value, "%g,%g", &re, &im); err != nil {
			return nil, fmt.Errorf("invalid complex %q: %w", n.Value, err)
		}
		return Complex(complex(re, im)), nil
	case "I":
		return I, nil
	case "pi":
		return Pi, nil
	case "E":
		return E, nil
	case "symbol":
		if n.Name == "" {
			return nil, fmt.Errorf("symbol without name")
		}
		return Sym(n.Name), nil
	case "ket":
		return r.Ket(n.Class, label)
	case "bra":
		return r.Bra(n.Class, label)
	case "operator":
		return r.Operator(n.Class, label)
	case "sum":
		if err := n.arity(len(args) > 0); err != nil {
			return nil, err
		}
		return NewSum(args...), nil
	case "product":
		if err := n.arity(len(args) > 0); err != nil {
			return nil, err
		}
		return NewProduct(args...), nil
	case "tensor":
		if err := n.arity(len(args) > 0); err != nil {
			return nil, err
		}
		return NewTensorProduct(args...), nil
	case "power":
		if err := n.arity(len(args) == 2); err != nil {
			return nil, err
		}
		return NewPower(args[0], args[1]), nil
	case "dagger":
		if err := n.arity(len(args) == 1); err != nil {
			return nil, err
		}
		return NewAdjoint(args[0]), nil
	case "commutator":
		if err := n.arity(len(args) == 2); err != nil {
			return nil, err
		}
		return NewCommutator(args[0], args[1]), nil
	case "anticommutator":
		if err := n.arity(len(args) == 2); err != nil {
			return nil, err
		}
		return NewAntiCommutator(args[0], args[1]), nil
	case "innerproduct":
		if err := n.arity(len(args) == 2); err != nil {
			return nil, err
		}
		if !IsBra(args[0]) || !IsKet(args[1]) {
			return nil, fmt.Errorf("innerproduct needs a bra and a ket")
		}
		return NewInnerProduct(args[0].(State), args[1].(State)), nil
	}
	return nil, fmt.Errorf("unknown node type %q", n.Type)
}

func (n Node) arity(ok bool) error {
	if ok {
		return nil
	}
	return fmt.Errorf("%s node has %d arguments", n.Type, len(n.Args))
}
