package qexpr

import (
	"math"
	"math/big"
	"math/cmplx"
)

// Add returns the sum of terms with nested sums flattened and numeric terms
// folded into a single leading number.
func Add(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if s, ok := t.(*Sum); ok {
			flat = append(flat, s.terms...)
			continue
		}
		flat = append(flat, t)
	}

	re, im := new(big.Rat), new(big.Rat)
	var approx complex128
	exact, inexact := false, false
	rest := make([]Expr, 0, len(flat))
	for _, t := range flat {
		if r, i, ok := gaussian(t); ok {
			re.Add(re, r)
			im.Add(im, i)
			exact = true
			continue
		}
		if c, ok := inexactValue(t); ok {
			approx += c
			inexact = true
			continue
		}
		rest = append(rest, t)
	}

	var num Expr
	switch {
	case inexact:
		num = fromComplex(approx + gaussComplex(re, im))
	case exact:
		num = fromGaussian(re, im)
	}
	if num != nil && (!isZero(num) || len(rest) == 0) {
		lead := []Expr{num}
		if s, ok := num.(*Sum); ok {
			lead = s.terms
		}
		rest = append(lead, rest...)
	}

	switch len(rest) {
	case 0:
		return Integer(0)
	case 1:
		return rest[0]
	}
	return &Sum{terms: rest}
}

// Sub returns a - b.
func Sub(a, b Expr) Expr { return Add(a, Neg(b)) }

// Neg returns -e.
func Neg(e Expr) Expr { return Mul(Integer(-1), e) }

// Mul returns the product of factors. Numeric factors and integer-based
// powers are folded into a leading coefficient; the relative order of every
// other factor is preserved, so kets, bras and operators never commute.
func Mul(factors ...Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if p, ok := f.(*Product); ok {
			flat = append(flat, p.factors...)
			continue
		}
		flat = append(flat, f)
	}

	re, im := big.NewRat(1, 1), new(big.Rat)
	approx := complex128(1)
	inexact := false
	var radicalBases []int64
	radicals := make(map[int64]*big.Rat)
	rest := make([]Expr, 0, len(flat))
	for _, f := range flat {
		if r, i, ok := gaussian(f); ok {
			re, im = gaussMul(re, im, r, i)
			continue
		}
		if c, ok := inexactValue(f); ok {
			approx *= c
			inexact = true
			continue
		}
		if base, exp, ok := radical(f); ok {
			if _, seen := radicals[base]; !seen {
				radicalBases = append(radicalBases, base)
				radicals[base] = new(big.Rat)
			}
			radicals[base].Add(radicals[base], exp)
			continue
		}
		rest = append(rest, f)
	}

	var scalars []Expr
	for _, base := range radicalBases {
		p := Pow(Integer(base), ratExpr(radicals[base]))
		if r, i, ok := gaussian(p); ok {
			re, im = gaussMul(re, im, r, i)
			continue
		}
		scalars = append(scalars, p)
	}

	var coeff Expr
	if inexact {
		c := approx * gaussComplex(re, im)
		if c == 0 {
			return Float(0)
		}
		coeff = fromComplex(c)
	} else {
		if re.Sign() == 0 && im.Sign() == 0 {
			return Integer(0)
		}
		coeff = fromGaussian(re, im)
	}

	out := make([]Expr, 0, len(scalars)+len(rest)+2)
	if !coeff.Equal(Integer(1)) || len(scalars)+len(rest) == 0 {
		if p, ok := coeff.(*Product); ok {
			out = append(out, p.factors...)
		} else {
			out = append(out, coeff)
		}
	}
	out = append(out, scalars...)
	out = append(out, rest...)
	if len(out) == 1 {
		return out[0]
	}
	return &Product{factors: out}
}

// Pow returns base**exp, folding exact integer powers of numbers and
// perfect square roots of integers.
func Pow(base, exp Expr) Expr {
	if n, ok := exp.(Integer); ok {
		switch n {
		case 0:
			return Integer(1)
		case 1:
			return base
		}
		if re, im, ok := gaussian(base); ok {
			if r, i, ok := gaussPow(re, im, int64(n)); ok {
				return fromGaussian(r, i)
			}
		}
	}
	if q, ok := exp.(*Rational); ok {
		if b, ok := base.(Integer); ok && b > 0 && q.r.Denom().IsInt64() && q.r.Denom().Int64() == 2 {
			root := int64(math.Round(math.Sqrt(float64(b))))
			if root*root == int64(b) && q.r.Num().IsInt64() {
				return Pow(Integer(root), Integer(q.r.Num().Int64()))
			}
		}
	}
	if c, ok := inexactValue(base); ok {
		if x, ok := Eval(exp); ok {
			return fromComplex(cmplx.Pow(c, x))
		}
	}
	return &Power{Base: base, Exp: exp}
}

// Sqrt returns e**(1/2).
func Sqrt(e Expr) Expr { return Pow(e, NewRational(1, 2)) }

// Conj returns the complex conjugate of a scalar expression.
func Conj(e Expr) Expr {
	switch v := e.(type) {
	case Integer, Float, *Rational, NumberSymbol:
		return e
	case Complex:
		return Complex(cmplx.Conj(complex128(v)))
	case ImaginaryUnit:
		return &Product{factors: []Expr{Integer(-1), I}}
	case *Sum:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = Conj(t)
		}
		return Add(terms...)
	case *Product:
		if !IsScalar(v) {
			return Dagger(v)
		}
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = Conj(f)
		}
		return Mul(factors...)
	case *Power:
		switch v.Exp.(type) {
		case Integer, *Rational, Float:
			return Pow(Conj(v.Base), v.Exp)
		}
	case *Conjugate:
		return v.Arg
	case *Matrix:
		return v.apply(Conj)
	case *InnerProduct:
		return Dagger(v)
	}
	return &Conjugate{Arg: e}
}

// Dagger returns the Hermitian conjugate of e: conjugate transpose for
// matrices, the dual for states, reversed adjoints for products.
func Dagger(e Expr) Expr {
	switch v := e.(type) {
	case *Matrix:
		return v.Adjoint()
	case State:
		return v.Dual()
	case Operator:
		if h, ok := v.(Hermitian); ok && h.IsHermitian() {
			return v
		}
		return &Adjoint{Arg: v}
	case *Adjoint:
		return v.Arg
	case *Sum:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = Dagger(t)
		}
		return Add(terms...)
	case *Product:
		n := len(v.factors)
		factors := make([]Expr, n)
		for i, f := range v.factors {
			factors[n-1-i] = Dagger(f)
		}
		return Mul(factors...)
	case *Power:
		if _, ok := v.Exp.(Integer); ok {
			return Pow(Dagger(v.Base), v.Exp)
		}
		return &Adjoint{Arg: v}
	case *TensorProduct:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = Dagger(f)
		}
		return NewTensorProduct(factors...)
	case *Commutator:
		return NewCommutator(Dagger(v.B), Dagger(v.A))
	case *AntiCommutator:
		return NewAntiCommutator(Dagger(v.A), Dagger(v.B))
	case *InnerProduct:
		return NewInnerProduct(v.Ket.Dual(), v.Bra.Dual())
	}
	return Conj(e)
}

// IsScalar reports whether e contains no quantum atoms and no matrices.
func IsScalar(e Expr) bool {
	switch v := e.(type) {
	case Integer, Float, *Rational, Complex, NumberSymbol, ImaginaryUnit, Symbol, *Conjugate, *InnerProduct:
		return true
	case *Sum:
		return allScalar(v.terms)
	case *Product:
		return allScalar(v.factors)
	case *Power:
		return IsScalar(v.Base) && IsScalar(v.Exp)
	}
	return false
}

func allScalar(args []Expr) bool {
	for _, a := range args {
		if !IsScalar(a) {
			return false
		}
	}
	return true
}

// gaussian returns the exact value of e as a Gaussian rational re + im*I
// when e is built from integers, fractions and the imaginary unit only.
func gaussian(e Expr) (*big.Rat, *big.Rat, bool) {
	switch v := e.(type) {
	case Integer:
		return new(big.Rat).SetInt64(int64(v)), new(big.Rat), true
	case *Rational:
		return v.Rat(), new(big.Rat), true
	case ImaginaryUnit:
		return new(big.Rat), big.NewRat(1, 1), true
	case *Sum:
		re, im := new(big.Rat), new(big.Rat)
		for _, t := range v.terms {
			r, i, ok := gaussian(t)
			if !ok {
				return nil, nil, false
			}
			re.Add(re, r)
			im.Add(im, i)
		}
		return re, im, true
	case *Product:
		re, im := big.NewRat(1, 1), new(big.Rat)
		for _, f := range v.factors {
			r, i, ok := gaussian(f)
			if !ok {
				return nil, nil, false
			}
			re, im = gaussMul(re, im, r, i)
		}
		return re, im, true
	case *Power:
		n, ok := v.Exp.(Integer)
		if !ok {
			return nil, nil, false
		}
		re, im, ok := gaussian(v.Base)
		if !ok {
			return nil, nil, false
		}
		return gaussPow(re, im, int64(n))
	}
	return nil, nil, false
}

func gaussMul(a, b, c, d *big.Rat) (*big.Rat, *big.Rat) {
	ac := new(big.Rat).Mul(a, c)
	bd := new(big.Rat).Mul(b, d)
	ad := new(big.Rat).Mul(a, d)
	bc := new(big.Rat).Mul(b, c)
	return ac.Sub(ac, bd), ad.Add(ad, bc)
}

// MaxExactExponent bounds the integer powers that are folded exactly or
// expanded by Apply. Larger powers stay unevaluated.
const MaxExactExponent = 1024

func gaussPow(re, im *big.Rat, n int64) (*big.Rat, *big.Rat, bool) {
	if n > MaxExactExponent || n < -MaxExactExponent {
		return nil, nil, false
	}
	if n < 0 {
		norm := new(big.Rat).Add(new(big.Rat).Mul(re, re), new(big.Rat).Mul(im, im))
		if norm.Sign() == 0 {
			return nil, nil, false
		}
		re = new(big.Rat).Quo(re, norm)
		im = new(big.Rat).Neg(new(big.Rat).Quo(im, norm))
		n = -n
	}
	rr, ri := big.NewRat(1, 1), new(big.Rat)
	for n > 0 {
		if n&1 == 1 {
			rr, ri = gaussMul(rr, ri, re, im)
		}
		n >>= 1
		if n > 0 {
			re, im = gaussMul(re, im, re, im)
		}
	}
	return rr, ri, true
}

func gaussComplex(re, im *big.Rat) complex128 {
	r, _ := re.Float64()
	i, _ := im.Float64()
	return complex(r, i)
}

func fromGaussian(re, im *big.Rat) Expr {
	if im.Sign() == 0 {
		return ratExpr(re)
	}
	var imPart Expr = I
	if im.Cmp(big.NewRat(1, 1)) != 0 {
		imPart = &Product{factors: []Expr{ratExpr(im), I}}
	}
	if re.Sign() == 0 {
		return imPart
	}
	return &Sum{terms: []Expr{ratExpr(re), imPart}}
}

func fromComplex(c complex128) Expr {
	if imag(c) == 0 {
		return Float(real(c))
	}
	return Complex(c)
}

func inexactValue(e Expr) (complex128, bool) {
	switch v := e.(type) {
	case Float:
		return complex(float64(v), 0), true
	case Complex:
		return complex128(v), true
	}
	return 0, false
}

// radical matches b**q for a positive integer b and a fractional q.
func radical(e Expr) (int64, *big.Rat, bool) {
	p, ok := e.(*Power)
	if !ok {
		return 0, nil, false
	}
	b, ok := p.Base.(Integer)
	if !ok || b <= 0 {
		return 0, nil, false
	}
	q, ok := p.Exp.(*Rational)
	if !ok {
		return 0, nil, false
	}
	return int64(b), q.Rat(), true
}

func isZero(e Expr) bool {
	switch v := e.(type) {
	case Integer:
		return v == 0
	case Float:
		return v == 0
	case Complex:
		return v == 0
	}
	return false
}
