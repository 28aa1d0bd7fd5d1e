package backend

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/qrep/internal/qexpr"
)

// Add returns a + b. Neither operand is modified.
func Add(a, b Value) (Value, error) {
	a, b, err := align(a, b)
	if err != nil {
		return nil, err
	}
	switch x := a.(type) {
	case Number:
		if y, ok := b.(Number); ok {
			return x.add(y), nil
		}
	case *Dense:
		if y, ok := b.(*Dense); ok {
			return x.axpy(1, y)
		}
	case *Sparse:
		if y, ok := b.(*Sparse); ok {
			return x.axpy(1, y)
		}
	case Expr:
		if y, ok := b.(Expr); ok {
			e, err := symAdd(x.E, y.E)
			if err != nil {
				return nil, err
			}
			return Expr{E: e}, nil
		}
	}
	return nil, mismatch("add", a, b)
}

// Sub returns a - b.
func Sub(a, b Value) (Value, error) {
	neg, err := Mul(Int(-1), b)
	if err != nil {
		return nil, err
	}
	return Add(a, neg)
}

// Mul returns the product a·b in that order. Tensors of equal arity multiply
// factor by factor; scalars scale the first factor of a tensor.
func Mul(a, b Value) (Value, error) {
	if t, u, ok := tensorPair(a, b); ok {
		factors := make([]Value, len(t.Factors))
		for i := range t.Factors {
			f, err := Mul(t.Factors[i], u.Factors[i])
			if err != nil {
				return nil, err
			}
			factors[i] = f
		}
		return NewTensor(factors...), nil
	}
	if t, ok := a.(*Tensor); ok && isScalar(b) {
		return scaleTensor(t, b)
	}
	if t, ok := b.(*Tensor); ok && isScalar(a) {
		return scaleTensor(t, a)
	}

	a, b, err := align(a, b)
	if err != nil {
		return nil, err
	}
	switch x := a.(type) {
	case Number:
		switch y := b.(type) {
		case Number:
			return x.mul(y), nil
		case *Dense:
			return y.scale(x.Value), nil
		case *Sparse:
			return y.scale(x.Value), nil
		}
	case *Dense:
		switch y := b.(type) {
		case Number:
			return x.scale(y.Value), nil
		case *Dense:
			return x.mul(y)
		}
	case *Sparse:
		switch y := b.(type) {
		case Number:
			return x.scale(y.Value), nil
		case *Sparse:
			return x.mul(y)
		}
	case Expr:
		if y, ok := b.(Expr); ok {
			e, err := symMul(x.E, y.E)
			if err != nil {
				return nil, err
			}
			return Expr{E: e}, nil
		}
	}
	return nil, mismatch("multiply", a, b)
}

// Pow returns base**exp. Numeric matrices accept non-negative integer
// exponents only.
func Pow(base, exp Value) (Value, error) {
	switch x := base.(type) {
	case *Tensor:
		factors := make([]Value, len(x.Factors))
		for i, f := range x.Factors {
			p, err := Pow(f, exp)
			if err != nil {
				return nil, err
			}
			factors[i] = p
		}
		return NewTensor(factors...), nil
	case Expr:
		var e qexpr.Expr
		switch y := exp.(type) {
		case Expr:
			e = y.E
		case Number:
			e = toExpr(y)
		default:
			return nil, mismatch("raise", base, exp)
		}
		p, err := symPow(x.E, e)
		if err != nil {
			return nil, err
		}
		return Expr{E: p}, nil
	}

	n, ok := exp.(Number)
	if !ok {
		return nil, fmt.Errorf("exponent %s: %w", exp, ErrNotNumeric)
	}
	switch x := base.(type) {
	case Number:
		return x.pow(n)
	case *Dense:
		k, err := matrixExponent(n)
		if err != nil {
			return nil, err
		}
		return x.pow(k)
	case *Sparse:
		k, err := matrixExponent(n)
		if err != nil {
			return nil, err
		}
		return x.pow(k)
	}
	return nil, mismatch("raise", base, exp)
}

func matrixExponent(n Number) (int, error) {
	if !n.IsInteger() || real(n.Value) < 0 {
		return 0, fmt.Errorf("matrix power %s: %w", n, ErrUnsupported)
	}
	if real(n.Value) > MaxExponent {
		return 0, fmt.Errorf("matrix power %s above %d: %w", n, MaxExponent, ErrTooLarge)
	}
	return int(real(n.Value)), nil
}

// Dagger returns the conjugate transpose of v.
func Dagger(v Value) (Value, error) {
	switch x := v.(type) {
	case Number:
		return x.conj(), nil
	case *Dense:
		return x.adjoint(), nil
	case *Sparse:
		return x.adjoint(), nil
	case Expr:
		return Expr{E: qexpr.Dagger(x.E)}, nil
	case *Tensor:
		factors := make([]Value, len(x.Factors))
		for i, f := range x.Factors {
			d, err := Dagger(f)
			if err != nil {
				return nil, err
			}
			factors[i] = d
		}
		return NewTensor(factors...), nil
	}
	return nil, fmt.Errorf("dagger of %s: %w", v.Kind(), ErrUnsupported)
}

// FlattenScalar collapses a 1×1 matrix into its single entry. Other values
// are returned unchanged.
func FlattenScalar(v Value) Value {
	switch x := v.(type) {
	case *Dense:
		if r, c := x.Dims(); r == 1 && c == 1 {
			return Cplx(x.At(0, 0))
		}
	case *Sparse:
		if x.rows == 1 && x.cols == 1 {
			return Cplx(x.At(0, 0))
		}
	case Expr:
		if m, ok := x.E.(*qexpr.Matrix); ok {
			if r, c := m.Dims(); r == 1 && c == 1 {
				return Expr{E: m.At(0, 0)}
			}
		}
	}
	return v
}

// ApproxEqual reports whether a and b hold the same value within tol.
// Symbolic values are compared structurally.
func ApproxEqual(a, b Value, tol float64) bool {
	switch x := a.(type) {
	case Number:
		y, ok := b.(Number)
		return ok && cmplx.Abs(x.Value-y.Value) <= tol
	case *Dense:
		y, ok := b.(*Dense)
		if !ok {
			return false
		}
		ar, ac := x.Dims()
		br, bc := y.Dims()
		return ar == br && ac == bc && mat.CEqualApprox(x.m, y.m, tol)
	case *Sparse:
		y, ok := b.(*Sparse)
		if !ok || x.rows != y.rows || x.cols != y.cols {
			return false
		}
		for c, v := range x.data {
			if cmplx.Abs(v-y.data[c]) > tol {
				return false
			}
		}
		for c, v := range y.data {
			if cmplx.Abs(v-x.data[c]) > tol {
				return false
			}
		}
		return true
	case Expr:
		y, ok := b.(Expr)
		return ok && x.E.Equal(y.E)
	case *Tensor:
		y, ok := b.(*Tensor)
		if !ok || len(x.Factors) != len(y.Factors) {
			return false
		}
		for i := range x.Factors {
			if !ApproxEqual(x.Factors[i], y.Factors[i], tol) {
				return false
			}
		}
		return true
	}
	return false
}

// align flattens tensors and lifts native scalars next to symbolic values so
// both operands share one container family.
func align(a, b Value) (Value, Value, error) {
	var err error
	if a, err = flatten(a); err != nil {
		return nil, nil, err
	}
	if b, err = flatten(b); err != nil {
		return nil, nil, err
	}
	if n, ok := a.(Number); ok {
		if _, sym := b.(Expr); sym {
			a = Expr{E: toExpr(n)}
		}
	}
	if n, ok := b.(Number); ok {
		if _, sym := a.(Expr); sym {
			b = Expr{E: toExpr(n)}
		}
	}
	return a, b, nil
}

func tensorPair(a, b Value) (*Tensor, *Tensor, bool) {
	t, ok := a.(*Tensor)
	if !ok {
		return nil, nil, false
	}
	u, ok := b.(*Tensor)
	if !ok || len(t.Factors) != len(u.Factors) {
		return nil, nil, false
	}
	return t, u, true
}

func isScalar(v Value) bool {
	switch x := v.(type) {
	case Number:
		return true
	case Expr:
		return qexpr.IsScalar(x.E)
	}
	return false
}

func scaleTensor(t *Tensor, s Value) (Value, error) {
	if len(t.Factors) == 0 {
		return t, nil
	}
	factors := append([]Value(nil), t.Factors...)
	first, err := Mul(s, factors[0])
	if err != nil {
		return nil, err
	}
	factors[0] = first
	return NewTensor(factors...), nil
}

func mismatch(op string, a, b Value) error {
	return fmt.Errorf("%s %s and %s: %w", op, a.Kind(), b.Kind(), ErrUnsupported)
}

// isFinite guards conversions from evaluated expressions.
func isFinite(c complex128) bool {
	return !math.IsNaN(real(c)) && !math.IsNaN(imag(c)) && !math.IsInf(real(c), 0) && !math.IsInf(imag(c), 0)
}
