// Package qexpr provides the expression tree used to describe quantum
// expressions: scalar leaves, quantum atoms (kets, bras, operators) and the
// composite nodes built from them.
//
// The package carries only as much algebra as representation needs: numeric
// folding for sums, products and powers, symbolic matrices, conjugation,
// adjoints, inner product evaluation and operator application.
package qexpr

import (
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
	"strconv"
	"strings"
)

// Expr is a node of an expression tree. Nodes are immutable once built.
type Expr interface {
	String() string
	Equal(other Expr) bool
}

// Integer is an exact integer literal.
type Integer int64

func (n Integer) String() string { return strconv.FormatInt(int64(n), 10) }

func (n Integer) Equal(other Expr) bool {
	switch o := other.(type) {
	case Integer:
		return n == o
	case *Rational:
		return o.r.IsInt() && o.r.Num().IsInt64() && o.r.Num().Int64() == int64(n)
	}
	return false
}

// Float is an inexact real literal.
type Float float64

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

func (f Float) Equal(other Expr) bool {
	o, ok := other.(Float)
	return ok && f == o
}

// Rational is an exact fraction. Use NewRational to build one; integral
// values are returned as Integer.
type Rational struct {
	r *big.Rat
}

// NewRational returns p/q, normalised to an Integer when q divides p.
func NewRational(p, q int64) Expr {
	if q == 0 {
		panic("qexpr: zero denominator")
	}
	return ratExpr(new(big.Rat).SetFrac64(p, q))
}

// Rat returns a copy of the underlying fraction.
func (r *Rational) Rat() *big.Rat { return new(big.Rat).Set(r.r) }

// Float64 returns the nearest float64.
func (r *Rational) Float64() float64 {
	f, _ := r.r.Float64()
	return f
}

func (r *Rational) String() string { return r.r.RatString() }

func (r *Rational) Equal(other Expr) bool {
	switch o := other.(type) {
	case *Rational:
		return r.r.Cmp(o.r) == 0
	case Integer:
		return o.Equal(r)
	}
	return false
}

// Complex is an inexact complex literal.
type Complex complex128

func (c Complex) String() string {
	return strings.Trim(strconv.FormatComplex(complex128(c), 'g', -1, 128), "()")
}

func (c Complex) Equal(other Expr) bool {
	o, ok := other.(Complex)
	return ok && c == o
}

// NumberSymbol is a named real constant such as pi.
type NumberSymbol struct {
	Name  string
	Value float64
}

var (
	Pi = NumberSymbol{Name: "pi", Value: math.Pi}
	E  = NumberSymbol{Name: "E", Value: math.E}
)

func (s NumberSymbol) String() string { return s.Name }

func (s NumberSymbol) Equal(other Expr) bool {
	o, ok := other.(NumberSymbol)
	return ok && o.Name == s.Name
}

// ImaginaryUnit is the exact square root of -1.
type ImaginaryUnit struct{}

// I is the imaginary unit.
var I = ImaginaryUnit{}

func (ImaginaryUnit) String() string { return "I" }

func (ImaginaryUnit) Equal(other Expr) bool {
	_, ok := other.(ImaginaryUnit)
	return ok
}

// Symbol is a free scalar symbol.
type Symbol struct {
	Name string
}

// Sym returns the symbol with the given name.
func Sym(name string) Symbol { return Symbol{Name: name} }

func (s Symbol) String() string { return s.Name }

func (s Symbol) Equal(other Expr) bool {
	o, ok := other.(Symbol)
	return ok && o.Name == s.Name
}

// IsNumber reports whether e is a numeric literal: Integer, Float, Rational,
// Complex, a NumberSymbol or the imaginary unit.
func IsNumber(e Expr) bool {
	switch e.(type) {
	case Integer, Float, *Rational, Complex, NumberSymbol, ImaginaryUnit:
		return true
	}
	return false
}

// ParseNumber parses integer, fraction ("1/2") and float literals.
func ParseNumber(s string) (Expr, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Integer(n), nil
	}
	if strings.Contains(s, "/") {
		r, ok := new(big.Rat).SetString(s)
		if !ok {
			return nil, fmt.Errorf("invalid fraction %q", s)
		}
		return ratExpr(r), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return Float(f), nil
}

// Eval evaluates e numerically. It fails for expressions containing free
// symbols or quantum atoms.
func Eval(e Expr) (complex128, bool) {
	switch v := e.(type) {
	case Integer:
		return complex(float64(v), 0), true
	case Float:
		return complex(float64(v), 0), true
	case *Rational:
		return complex(v.Float64(), 0), true
	case Complex:
		return complex128(v), true
	case NumberSymbol:
		return complex(v.Value, 0), true
	case ImaginaryUnit:
		return 1i, true
	case *Sum:
		var total complex128
		for _, t := range v.terms {
			x, ok := Eval(t)
			if !ok {
				return 0, false
			}
			total += x
		}
		return total, true
	case *Product:
		total := complex128(1)
		for _, f := range v.factors {
			x, ok := Eval(f)
			if !ok {
				return 0, false
			}
			total *= x
		}
		return total, true
	case *Power:
		b, ok := Eval(v.Base)
		if !ok {
			return 0, false
		}
		if n, isInt := v.Exp.(Integer); isInt {
			return intPow(b, int64(n)), true
		}
		x, ok := Eval(v.Exp)
		if !ok {
			return 0, false
		}
		return cmplx.Pow(b, x), true
	case *Conjugate:
		x, ok := Eval(v.Arg)
		if !ok {
			return 0, false
		}
		return cmplx.Conj(x), true
	}
	return 0, false
}

func intPow(b complex128, n int64) complex128 {
	if n < 0 {
		return 1 / intPow(b, -n)
	}
	result := complex128(1)
	for n > 0 {
		if n&1 == 1 {
			result *= b
		}
		b *= b
		n >>= 1
	}
	return result
}

func ratExpr(r *big.Rat) Expr {
	if r.IsInt() && r.Num().IsInt64() {
		return Integer(r.Num().Int64())
	}
	return &Rational{r: r}
}
