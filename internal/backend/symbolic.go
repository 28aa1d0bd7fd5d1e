package backend

import (
	"fmt"

	"github.com/aristath/qrep/internal/qexpr"
)

// Expr is a symbolic result: a scalar expression, a symbolic matrix or an
// unevaluated quantum expression.
type Expr struct {
	E qexpr.Expr
}

func (Expr) Kind() Kind { return KindSymbolic }

func (e Expr) String() string { return e.E.String() }

func symAdd(a, b qexpr.Expr) (qexpr.Expr, error) {
	am, aok := a.(*qexpr.Matrix)
	bm, bok := b.(*qexpr.Matrix)
	switch {
	case aok && bok:
		return qexpr.MatAdd(am, bm)
	case aok || bok:
		return nil, fmt.Errorf("add matrix and scalar: %w", ErrShape)
	}
	return qexpr.Add(a, b), nil
}

func symMul(a, b qexpr.Expr) (qexpr.Expr, error) {
	am, aok := a.(*qexpr.Matrix)
	bm, bok := b.(*qexpr.Matrix)
	switch {
	case aok && bok:
		return qexpr.MatMul(am, bm)
	case aok && qexpr.IsScalar(b):
		return am.Scale(b), nil
	case bok && qexpr.IsScalar(a):
		return bm.Scale(a), nil
	case aok || bok:
		return nil, fmt.Errorf("multiply matrix by %s: %w", pick(aok, b, a), ErrUnsupported)
	}
	return qexpr.Mul(a, b), nil
}

func symPow(base, exp qexpr.Expr) (qexpr.Expr, error) {
	m, ok := base.(*qexpr.Matrix)
	if !ok {
		return qexpr.Pow(base, exp), nil
	}
	n, ok := exp.(qexpr.Integer)
	if !ok || n < 0 {
		return nil, fmt.Errorf("matrix power %s: %w", exp, ErrUnsupported)
	}
	if n > MaxExponent {
		return nil, fmt.Errorf("matrix power %s above %d: %w", exp, MaxExponent, ErrTooLarge)
	}
	return qexpr.MatPow(m, int(n))
}

func pick(first bool, a, b qexpr.Expr) qexpr.Expr {
	if first {
		return a
	}
	return b
}

// toExpr lifts a native scalar into the symbolic world.
func toExpr(n Number) qexpr.Expr {
	switch n.Type {
	case IntType:
		return qexpr.Integer(int64(real(n.Value)))
	case FloatType:
		return qexpr.Float(real(n.Value))
	}
	return qexpr.Complex(n.Value)
}
