package oscillator

import (
	"fmt"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/modules/representation"
	"github.com/aristath/qrep/internal/qexpr"
)

// Family is the class name shared by number kets and bras.
const Family = "SHO"

// Ket is the number state |n>.
type Ket struct{ qexpr.StateBase }

// NewKet returns |n>.
func NewKet(n qexpr.Expr) *Ket {
	return &Ket{qexpr.StateBase{Family: Family, Args: []qexpr.Expr{n}}}
}

// Level returns n.
func (k *Ket) Level() qexpr.Expr { return k.Args[0] }

func (k *Ket) Dual() qexpr.State {
	return &Bra{qexpr.StateBase{Family: Family, Args: k.Args, Bra: true}}
}

// EvalInnerProduct is a Kronecker delta. Distinct symbolic levels stay
// unevaluated.
func (k *Ket) EvalInnerProduct(bra qexpr.State) (qexpr.Expr, bool) {
	if bra.Class() != Family {
		return nil, false
	}
	other := bra.Label()[0]
	switch {
	case other.Equal(k.Args[0]):
		return qexpr.Integer(1), true
	case qexpr.IsNumber(other) && qexpr.IsNumber(k.Args[0]):
		return qexpr.Integer(0), true
	}
	return nil, false
}

func (k *Ket) BasisOperator() qexpr.BasisFactory { return numberBasis }

func (k *Ket) Represent(opts representation.Options) (backend.Value, error) {
	return levelRules(k.Args[0], false).Dispatch(opts)
}

// Bra is the number state <n|.
type Bra struct{ qexpr.StateBase }

// NewBra returns <n|.
func NewBra(n qexpr.Expr) *Bra {
	return &Bra{qexpr.StateBase{Family: Family, Args: []qexpr.Expr{n}, Bra: true}}
}

func (b *Bra) Dual() qexpr.State {
	return &Ket{qexpr.StateBase{Family: Family, Args: b.Args}}
}

func (b *Bra) BasisOperator() qexpr.BasisFactory { return numberBasis }

func (b *Bra) Represent(opts representation.Options) (backend.Value, error) {
	return levelRules(b.Args[0], true).Dispatch(opts)
}

func numberBasis() qexpr.Basis { return N() }

func levelRules(level qexpr.Expr, bra bool) representation.Rules {
	return representation.Rules{
		Default: KindN,
		ByKind: map[qexpr.BasisKind]representation.Rule{
			KindN: func(_ qexpr.Basis, opts representation.Options) (backend.Value, error) {
				n, ok := level.(qexpr.Integer)
				if !ok {
					return nil, fmt.Errorf("%w: level %s is not a number", representation.ErrNotImplementedRule, level)
				}
				ndim, err := dimension(opts)
				if err != nil {
					return nil, err
				}
				if n < 0 || int(n) >= ndim {
					return nil, fmt.Errorf("%w: level %d outside the %d dimensional space", representation.ErrInvalidInput, n, ndim)
				}
				entries := make([]qexpr.Expr, ndim)
				for i := range entries {
					entries[i] = qexpr.Integer(0)
				}
				entries[n] = qexpr.Integer(1)

				m := qexpr.ColumnVector(entries...)
				if bra {
					m = qexpr.RowVector(entries...)
				}
				return backend.FromExpr(m, opts.Format)
			},
		},
	}
}
