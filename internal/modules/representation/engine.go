// Package representation turns quantum expressions into vectors, matrices
// and scalars in a chosen basis.
//
// Atoms represent themselves through Representable. When an atom has no rule
// for the basis in use, kets and bras fall back to brackets against basis
// eigenkets and operators fall back to matrix elements between them. The
// original failure is reported if the fallback fails too.
package representation

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/qexpr"
)

// Engine walks expression trees and builds their representations.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates an engine that logs fallback activity at debug level.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log.With().Str("component", "representation").Logger()}
}

// Represent represents expr with a silent engine.
func Represent(expr qexpr.Expr, opts Options) (backend.Value, error) {
	return NewEngine(zerolog.Nop()).Represent(expr, opts)
}

// Represent returns the representation of expr under opts.
func (e *Engine) Represent(expr qexpr.Expr, opts Options) (backend.Value, error) {
	switch v := expr.(type) {
	case qexpr.State, qexpr.Operator:
		return e.representAtom(v, opts)
	case *qexpr.Sum:
		return e.representSum(v, opts)
	case *qexpr.Power:
		return e.representPower(v, opts)
	case *qexpr.TensorProduct:
		factors := v.Factors()
		reps := make([]backend.Value, len(factors))
		for i, f := range factors {
			r, err := e.Represent(f, opts)
			if err != nil {
				return nil, err
			}
			reps[i] = r
		}
		return backend.NewTensor(reps...), nil
	case *qexpr.Adjoint:
		r, err := e.Represent(v.Arg, opts)
		if err != nil {
			return nil, err
		}
		return backend.Dagger(r)
	case *qexpr.Commutator:
		return e.representPair(v.A, v.B, opts, backend.Sub)
	case *qexpr.AntiCommutator:
		return e.representPair(v.A, v.B, opts, backend.Add)
	case *qexpr.InnerProduct:
		return e.Represent(qexpr.NewProduct(v.Bra, v.Ket), opts)
	case *qexpr.Product:
		return e.representProduct(v, opts)
	}

	if opts.format().IsNumeric() {
		n, err := ToScalar(expr)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	return backend.Expr{E: expr}, nil
}

func (e *Engine) representAtom(atom qexpr.Expr, opts Options) (backend.Value, error) {
	v, err := representSelf(atom, opts)
	if err == nil || !errors.Is(err, ErrNotImplementedRule) {
		return v, err
	}

	var fallback func(qexpr.Expr, Options) (backend.Value, error)
	name := "expectation"
	switch atom.(type) {
	case qexpr.State:
		fallback, name = e.RepInnerProduct, "inner product"
	case qexpr.Operator:
		fallback = e.RepExpectation
	default:
		return nil, err
	}

	e.log.Debug().Str("atom", atom.String()).Str("fallback", name).Err(err).Msg("No direct rule, trying fallback")
	fv, ferr := fallback(atom, opts)
	if ferr == nil {
		return fv, nil
	}
	if recoverable(ferr) {
		e.log.Debug().Str("atom", atom.String()).Str("fallback", name).Err(ferr).Msg("Fallback failed")
		return nil, err
	}
	return nil, ferr
}

func representSelf(atom qexpr.Expr, opts Options) (backend.Value, error) {
	r, ok := atom.(Representable)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no representation rules", ErrNotImplementedRule, atom)
	}
	return r.Represent(opts)
}

func (e *Engine) representSum(s *qexpr.Sum, opts Options) (backend.Value, error) {
	terms := s.Terms()
	if len(terms) == 0 {
		return e.Represent(qexpr.Integer(0), opts)
	}
	result, err := e.Represent(terms[0], opts)
	if err != nil {
		return nil, err
	}
	for _, t := range terms[1:] {
		r, err := e.Represent(t, opts)
		if err != nil {
			return nil, err
		}
		if result, err = backend.Add(result, r); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (e *Engine) representPower(p *qexpr.Power, opts Options) (backend.Value, error) {
	var exp backend.Value = backend.Expr{E: p.Exp}
	if opts.format().IsNumeric() {
		n, err := ToScalar(p.Exp)
		if err != nil {
			return nil, fmt.Errorf("power exponent: %w", err)
		}
		exp = n
	}
	base, err := e.Represent(p.Base, opts)
	if err != nil {
		return nil, err
	}
	return backend.Pow(base, exp)
}

// representPair returns a·b op b·a.
func (e *Engine) representPair(a, b qexpr.Expr, opts Options, op func(x, y backend.Value) (backend.Value, error)) (backend.Value, error) {
	ra, err := e.Represent(a, opts)
	if err != nil {
		return nil, err
	}
	rb, err := e.Represent(b, opts)
	if err != nil {
		return nil, err
	}
	ab, err := backend.Mul(ra, rb)
	if err != nil {
		return nil, err
	}
	ba, err := backend.Mul(rb, ra)
	if err != nil {
		return nil, err
	}
	return op(ab, ba)
}

// representProduct walks the factors right to left. The index moves on past
// every operator and past every closed bra-ket pair, so each fallback in the
// chain resolves against its own basis slot.
func (e *Engine) representProduct(expr qexpr.Expr, opts Options) (backend.Value, error) {
	p, ok := expr.(*qexpr.Product)
	if !ok {
		return nil, fmt.Errorf("%w: product expected, got %s", ErrType, expr)
	}
	factors := p.Factors()
	if len(factors) == 0 {
		return e.Represent(qexpr.Integer(1), opts)
	}

	index := 1
	if opts.Index > 0 {
		index = opts.Index + 1
	}
	last := factors[len(factors)-1]
	result, err := e.Represent(last, opts.WithIndex(index))
	if err != nil {
		return nil, err
	}

	for i := len(factors) - 2; i >= 0; i-- {
		current := factors[i]
		if qexpr.IsOperator(last) || (qexpr.IsBra(last) && qexpr.IsKet(current)) {
			index++
		}
		r, err := e.Represent(current, opts.WithIndex(index))
		if err != nil {
			return nil, err
		}
		if result, err = backend.Mul(r, result); err != nil {
			return nil, err
		}
		last = current
	}
	return backend.FlattenScalar(result), nil
}

// RepInnerProduct represents a ket or bra by its bracket with an eigenket of
// the resolved basis at the current index.
func (e *Engine) RepInnerProduct(expr qexpr.Expr, opts Options) (backend.Value, error) {
	state, ok := expr.(qexpr.State)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a ket or bra", ErrType, expr)
	}
	basis, err := ResolveBasis(state, opts.Basis)
	if err != nil {
		return nil, err
	}
	kets, err := basisPair(basis, opts.IndexOrDefault())
	if err != nil {
		return nil, err
	}

	var bra, ket qexpr.State
	if state.IsBra() {
		bra, ket = state, kets[0]
		if kets[0].Dual().Equal(state) {
			ket = kets[1]
		}
	} else {
		bra, ket = kets[0].Dual(), state
		if kets[0].Equal(state) {
			bra = kets[1].Dual()
		}
	}

	value := qexpr.NewInnerProduct(bra, ket).Doit()
	e.log.Debug().Str("bra", bra.String()).Str("ket", ket.String()).Str("value", value.String()).Msg("Evaluated basis bracket")
	return formatScalar(state, value, opts.format())
}

// RepExpectation represents an operator by the matrix element between two
// consecutive kets of its own eigenbasis. An explicit basis in opts is not
// consulted.
func (e *Engine) RepExpectation(expr qexpr.Expr, opts Options) (backend.Value, error) {
	op, ok := expr.(qexpr.Operator)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an operator", ErrType, expr)
	}
	provider, ok := op.(qexpr.BasisKetProvider)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no basis kets", ErrBasisResolution, op)
	}
	kets, ok := provider.NaturalBasisKets(opts.IndexOrDefault(), 2)
	if !ok || len(kets) != 2 {
		return nil, fmt.Errorf("%w: %s has no basis kets at index %d", ErrBasisResolution, op, opts.IndexOrDefault())
	}

	bra, ket := kets[1].Dual(), kets[0]
	value := qexpr.Apply(qexpr.Mul(bra, op, ket))
	e.log.Debug().Str("operator", op.String()).Str("value", value.String()).Msg("Evaluated matrix element")
	return formatScalar(op, value, opts.format())
}

func formatScalar(obj, value qexpr.Expr, format backend.Format) (backend.Value, error) {
	if f, ok := obj.(Formatter); ok {
		return f.FormatScalar(value, format)
	}
	return backend.FromExpr(value, format)
}
