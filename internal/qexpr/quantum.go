package qexpr

import (
	"strings"
)

// BasisKind tags a basis for rule dispatch, e.g. "Jz" or "N".
type BasisKind string

// State is a ket or a bra.
type State interface {
	Expr
	Class() string
	Label() []Expr
	IsBra() bool
	Dual() State
}

// Operator is an atomic quantum operator.
type Operator interface {
	Expr
	Class() string
	Label() []Expr
	isOperator()
}

// Basis identifies a set of orthonormal eigenvectors.
type Basis interface {
	Kind() BasisKind
	// HasBasisSet reports whether BasisSet can enumerate eigenkets.
	HasBasisSet() bool
	// BasisSet returns count consecutive basis kets starting at the 1-based
	// index start.
	BasisSet(start, count int) ([]State, error)
}

// BasisFactory instantiates a default basis.
type BasisFactory func() Basis

// BasisOperatorProvider is implemented by states that have a natural basis.
// A nil factory means there is none.
type BasisOperatorProvider interface {
	BasisOperator() BasisFactory
}

// BasisKetProvider is implemented by operators that can enumerate the kets of
// their own eigenbasis.
type BasisKetProvider interface {
	NaturalBasisKets(start, count int) ([]State, bool)
}

// Actor is implemented by operators that know how they act on some kets.
// ApplyTo returns false when it has no rule for the ket.
type Actor interface {
	ApplyTo(ket State) (Expr, bool)
}

// InnerProductEvaluator is implemented by kets that can evaluate <bra|ket>.
type InnerProductEvaluator interface {
	EvalInnerProduct(bra State) (Expr, bool)
}

// Hermitian is implemented by operators equal to their own adjoint.
type Hermitian interface {
	IsHermitian() bool
}

// StateBase carries the identity shared by every ket and bra. Concrete
// states embed it and implement Dual.
type StateBase struct {
	Family string
	Args   []Expr
	Bra    bool
}

func (s StateBase) Class() string { return s.Family }

func (s StateBase) Label() []Expr { return append([]Expr(nil), s.Args...) }

func (s StateBase) IsBra() bool { return s.Bra }

func (s StateBase) String() string {
	if s.Bra {
		return "<" + joinLabel(s.Args) + "|"
	}
	return "|" + joinLabel(s.Args) + ">"
}

func (s StateBase) Equal(other Expr) bool {
	o, ok := other.(State)
	return ok && o.Class() == s.Family && o.IsBra() == s.Bra && argsEqual(o.Label(), s.Args)
}

// OperatorBase carries the identity shared by operators.
type OperatorBase struct {
	Family string
	Args   []Expr
}

func (o OperatorBase) Class() string { return o.Family }

func (o OperatorBase) Label() []Expr { return append([]Expr(nil), o.Args...) }

func (o OperatorBase) String() string {
	if len(o.Args) == 0 {
		return o.Family
	}
	return joinLabel(o.Args)
}

func (o OperatorBase) Equal(other Expr) bool {
	op, ok := other.(Operator)
	return ok && op.Class() == o.Family && argsEqual(op.Label(), o.Args)
}

func (OperatorBase) isOperator() {}

// Ket is a generic ket with no representation rules.
type Ket struct{ StateBase }

// NewKet returns |label>.
func NewKet(label ...Expr) *Ket {
	return &Ket{StateBase{Family: "Ket", Args: label}}
}

func (k *Ket) Dual() State { return &Bra{StateBase{Family: k.Family, Args: k.Args, Bra: true}} }

// Bra is a generic bra with no representation rules.
type Bra struct{ StateBase }

// NewBra returns <label|.
func NewBra(label ...Expr) *Bra {
	return &Bra{StateBase{Family: "Ket", Args: label, Bra: true}}
}

func (b *Bra) Dual() State { return &Ket{StateBase{Family: b.Family, Args: b.Args}} }

// Op is a generic named operator.
type Op struct {
	OperatorBase
	Herm bool
}

// NewOperator returns an operator labelled by name.
func NewOperator(name string) *Op {
	return &Op{OperatorBase: OperatorBase{Family: "Operator", Args: []Expr{Sym(name)}}}
}

// NewHermitianOperator returns an operator that is its own adjoint.
func NewHermitianOperator(name string) *Op {
	op := NewOperator(name)
	op.Herm = true
	return op
}

func (o *Op) IsHermitian() bool { return o.Herm }

func (o *Op) Key() string {
	if o.Herm {
		return "hermitian"
	}
	return ""
}

// IsKet reports whether e is a ket.
func IsKet(e Expr) bool {
	s, ok := e.(State)
	return ok && !s.IsBra()
}

// IsBra reports whether e is a bra.
func IsBra(e Expr) bool {
	s, ok := e.(State)
	return ok && s.IsBra()
}

// IsOperator reports whether e is an atomic operator.
func IsOperator(e Expr) bool {
	_, ok := e.(Operator)
	return ok
}

// LabelValue parses a label token: numbers become numeric literals, anything
// else a Symbol.
func LabelValue(s string) Expr {
	if n, err := ParseNumber(s); err == nil {
		return n
	}
	return Sym(s)
}

func joinLabel(args []Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}
