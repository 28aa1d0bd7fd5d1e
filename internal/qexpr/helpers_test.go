package qexpr

import "fmt"

// numKet is an orthonormal ket labelled by a non-negative integer.
type numKet struct{ StateBase }

func nket(n int64) *numKet { return &numKet{StateBase{Family: "num", Args: []Expr{Integer(n)}}} }

func (k *numKet) Dual() State { return &numBra{StateBase{Family: "num", Args: k.Args, Bra: true}} }

func (k *numKet) EvalInnerProduct(bra State) (Expr, bool) {
	if bra.Class() != "num" {
		return nil, false
	}
	if argsEqual(bra.Label(), k.Args) {
		return Integer(1), true
	}
	return Integer(0), true
}

type numBra struct{ StateBase }

func nbra(n int64) *numBra {
	return &numBra{StateBase{Family: "num", Args: []Expr{Integer(n)}, Bra: true}}
}

func (b *numBra) Dual() State { return &numKet{StateBase{Family: "num", Args: b.Args}} }

// lower acts as a|n> = sqrt(n)|n-1>.
type lower struct{ OperatorBase }

func newLower() *lower { return &lower{OperatorBase{Family: "a"}} }

func (l *lower) ApplyTo(ket State) (Expr, bool) {
	if ket.Class() != "num" {
		return nil, false
	}
	n := int64(ket.Label()[0].(Integer))
	if n == 0 {
		return Integer(0), true
	}
	return Mul(Sqrt(Integer(n)), nket(n-1)), true
}

type testResolver struct{}

func (testResolver) Ket(class string, label []Expr) (State, error) {
	if class == "num" {
		return &numKet{StateBase{Family: class, Args: label}}, nil
	}
	return NewKet(label...), nil
}

func (testResolver) Bra(class string, label []Expr) (State, error) {
	if class == "num" {
		return &numBra{StateBase{Family: class, Args: label, Bra: true}}, nil
	}
	return NewBra(label...), nil
}

func (testResolver) Operator(class string, label []Expr) (Operator, error) {
	switch class {
	case "a":
		return newLower(), nil
	case "":
		if len(label) != 1 {
			return nil, fmt.Errorf("operator needs a name")
		}
		return NewOperator(label[0].String()), nil
	}
	return nil, fmt.Errorf("unknown operator %q", class)
}

func (testResolver) Basis(name string) (Basis, error) {
	return nil, fmt.Errorf("unknown basis %q", name)
}
