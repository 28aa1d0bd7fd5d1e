package backend

import (
	"fmt"
	"strings"

	"github.com/aristath/qrep/internal/qexpr"
)

// Tensor is an ordered tensor product of representations. It is kept
// unflattened until arithmetic needs a single container.
type Tensor struct {
	Factors []Value
}

// NewTensor builds a tensor product of the given factors.
func NewTensor(factors ...Value) *Tensor {
	return &Tensor{Factors: append([]Value(nil), factors...)}
}

func (*Tensor) Kind() Kind { return KindTensor }

func (t *Tensor) String() string {
	parts := make([]string, len(t.Factors))
	for i, f := range t.Factors {
		parts[i] = "(" + f.String() + ")"
	}
	return strings.Join(parts, " x ")
}

// Flatten folds the factors into one container with Kronecker products.
// Symbolic factors that are not matrices stay a symbolic tensor product.
func Flatten(t *Tensor) (Value, error) {
	if len(t.Factors) == 0 {
		return nil, fmt.Errorf("flatten empty tensor: %w", ErrShape)
	}
	acc, err := flatten(t.Factors[0])
	if err != nil {
		return nil, err
	}
	for _, f := range t.Factors[1:] {
		next, err := flatten(f)
		if err != nil {
			return nil, err
		}
		if acc, err = kron(acc, next); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func flatten(v Value) (Value, error) {
	if t, ok := v.(*Tensor); ok {
		return Flatten(t)
	}
	return v, nil
}

func kron(a, b Value) (Value, error) {
	if err := checkKronDims(a, b); err != nil {
		return nil, err
	}
	switch x := a.(type) {
	case Number:
		return Mul(x, b)
	case *Dense:
		switch y := b.(type) {
		case *Dense:
			return x.kron(y), nil
		case Number:
			return x.scale(y.Value), nil
		}
	case *Sparse:
		switch y := b.(type) {
		case *Sparse:
			return x.kron(y), nil
		case Number:
			return x.scale(y.Value), nil
		}
	case Expr:
		var other qexpr.Expr
		switch y := b.(type) {
		case Expr:
			other = y.E
		case Number:
			other = toExpr(y)
		default:
			return nil, fmt.Errorf("kron of %s and %s: %w", a.Kind(), b.Kind(), ErrUnsupported)
		}
		am, aok := x.E.(*qexpr.Matrix)
		bm, bok := other.(*qexpr.Matrix)
		switch {
		case aok && bok:
			return Expr{E: qexpr.Kron(am, bm)}, nil
		case qexpr.IsScalar(x.E) || qexpr.IsScalar(other):
			e, err := symMul(x.E, other)
			if err != nil {
				return nil, err
			}
			return Expr{E: e}, nil
		}
		return Expr{E: qexpr.NewTensorProduct(x.E, other)}, nil
	}
	return nil, fmt.Errorf("kron of %s and %s: %w", a.Kind(), b.Kind(), ErrUnsupported)
}

func checkKronDims(a, b Value) error {
	ra, ca, ok := dims(a)
	if !ok {
		return nil
	}
	rb, cb, ok := dims(b)
	if !ok {
		return nil
	}
	return CheckDims(ra*rb, ca*cb)
}

func dims(v Value) (int, int, bool) {
	switch x := v.(type) {
	case *Dense:
		r, c := x.Dims()
		return r, c, true
	case *Sparse:
		r, c := x.Dims()
		return r, c, true
	case Expr:
		if m, ok := x.E.(*qexpr.Matrix); ok {
			r, c := m.Dims()
			return r, c, true
		}
	}
	return 0, 0, false
}
