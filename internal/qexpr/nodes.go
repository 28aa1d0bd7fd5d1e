package qexpr

import (
	"fmt"
	"strings"
)

// Sum is an unevaluated sum of terms.
type Sum struct {
	terms []Expr
}

// NewSum builds a sum without simplifying it. Use Add for folding.
func NewSum(terms ...Expr) *Sum {
	return &Sum{terms: append([]Expr(nil), terms...)}
}

// Terms returns the summands in order.
func (s *Sum) Terms() []Expr { return append([]Expr(nil), s.terms...) }

func (s *Sum) String() string {
	parts := make([]string, len(s.terms))
	for i, t := range s.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

func (s *Sum) Equal(other Expr) bool {
	o, ok := other.(*Sum)
	return ok && argsEqual(s.terms, o.terms)
}

// Product is an ordered, non-commutative product of factors.
type Product struct {
	factors []Expr
}

// NewProduct builds a product without simplifying it. Nested products are
// flattened; the order of factors is kept.
func NewProduct(factors ...Expr) *Product {
	flat := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if p, ok := f.(*Product); ok {
			flat = append(flat, p.factors...)
			continue
		}
		flat = append(flat, f)
	}
	return &Product{factors: flat}
}

// Factors returns the factors in order.
func (p *Product) Factors() []Expr { return append([]Expr(nil), p.factors...) }

func (p *Product) String() string {
	parts := make([]string, len(p.factors))
	for i, f := range p.factors {
		parts[i] = parenthesize(f)
	}
	return strings.Join(parts, "*")
}

func (p *Product) Equal(other Expr) bool {
	o, ok := other.(*Product)
	return ok && argsEqual(p.factors, o.factors)
}

// Power is Base raised to Exp.
type Power struct {
	Base Expr
	Exp  Expr
}

// NewPower builds an unevaluated power. Use Pow for folding.
func NewPower(base, exp Expr) *Power { return &Power{Base: base, Exp: exp} }

func (p *Power) String() string {
	return fmt.Sprintf("%s**%s", parenthesize(p.Base), parenthesize(p.Exp))
}

func (p *Power) Equal(other Expr) bool {
	o, ok := other.(*Power)
	return ok && p.Base.Equal(o.Base) && p.Exp.Equal(o.Exp)
}

// TensorProduct is an ordered tensor product of factors.
type TensorProduct struct {
	factors []Expr
}

// NewTensorProduct builds a tensor product of the given factors.
func NewTensorProduct(factors ...Expr) *TensorProduct {
	return &TensorProduct{factors: append([]Expr(nil), factors...)}
}

// Factors returns the factors in order.
func (t *TensorProduct) Factors() []Expr { return append([]Expr(nil), t.factors...) }

func (t *TensorProduct) String() string {
	parts := make([]string, len(t.factors))
	for i, f := range t.factors {
		parts[i] = parenthesize(f)
	}
	return strings.Join(parts, "x")
}

func (t *TensorProduct) Equal(other Expr) bool {
	o, ok := other.(*TensorProduct)
	return ok && argsEqual(t.factors, o.factors)
}

// Adjoint is the unevaluated Hermitian conjugate of its argument.
type Adjoint struct {
	Arg Expr
}

// NewAdjoint wraps e without evaluating. Use Dagger to evaluate.
func NewAdjoint(e Expr) *Adjoint { return &Adjoint{Arg: e} }

func (a *Adjoint) String() string { return fmt.Sprintf("Dagger(%s)", a.Arg) }

func (a *Adjoint) Equal(other Expr) bool {
	o, ok := other.(*Adjoint)
	return ok && a.Arg.Equal(o.Arg)
}

// Commutator is [A, B] = AB - BA.
type Commutator struct {
	A, B Expr
}

// NewCommutator builds [a, b].
func NewCommutator(a, b Expr) *Commutator { return &Commutator{A: a, B: b} }

func (c *Commutator) String() string { return fmt.Sprintf("[%s,%s]", c.A, c.B) }

func (c *Commutator) Equal(other Expr) bool {
	o, ok := other.(*Commutator)
	return ok && c.A.Equal(o.A) && c.B.Equal(o.B)
}

// AntiCommutator is {A, B} = AB + BA.
type AntiCommutator struct {
	A, B Expr
}

// NewAntiCommutator builds {a, b}.
func NewAntiCommutator(a, b Expr) *AntiCommutator { return &AntiCommutator{A: a, B: b} }

func (c *AntiCommutator) String() string { return fmt.Sprintf("{%s,%s}", c.A, c.B) }

func (c *AntiCommutator) Equal(other Expr) bool {
	o, ok := other.(*AntiCommutator)
	return ok && c.A.Equal(o.A) && c.B.Equal(o.B)
}

// Conjugate is the unevaluated complex conjugate of a scalar.
type Conjugate struct {
	Arg Expr
}

func (c *Conjugate) String() string { return fmt.Sprintf("conjugate(%s)", c.Arg) }

func (c *Conjugate) Equal(other Expr) bool {
	o, ok := other.(*Conjugate)
	return ok && c.Arg.Equal(o.Arg)
}

func argsEqual(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func parenthesize(e Expr) string {
	switch e.(type) {
	case *Sum:
		return "(" + e.String() + ")"
	case *Rational, Complex:
		return "(" + e.String() + ")"
	}
	return e.String()
}
