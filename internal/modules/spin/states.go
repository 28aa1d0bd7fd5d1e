package spin

import (
	"fmt"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/modules/representation"
	"github.com/aristath/qrep/internal/qexpr"
)

// Family is the class name shared by Jz kets and bras.
const Family = "Jz"

// Ket is the Jz eigenket |j,m>.
type Ket struct{ qexpr.StateBase }

// NewKet returns |j,m>.
func NewKet(j, m qexpr.Expr) *Ket {
	return &Ket{qexpr.StateBase{Family: Family, Args: []qexpr.Expr{j, m}}}
}

func (k *Ket) J() qexpr.Expr { return k.Args[0] }
func (k *Ket) M() qexpr.Expr { return k.Args[1] }

func (k *Ket) Dual() qexpr.State {
	return &Bra{qexpr.StateBase{Family: Family, Args: k.Args, Bra: true}}
}

// EvalInnerProduct is a Kronecker delta on (j, m). Brackets between
// distinct symbolic labels stay unevaluated.
func (k *Ket) EvalInnerProduct(bra qexpr.State) (qexpr.Expr, bool) {
	if bra.Class() != Family {
		return nil, false
	}
	return delta(bra.Label(), k.Args)
}

func (k *Ket) BasisOperator() qexpr.BasisFactory { return basisFor(k.Args) }

func (k *Ket) Represent(opts representation.Options) (backend.Value, error) {
	return stateRules(k.Args, false).Dispatch(opts)
}

// Bra is the Jz eigenbra <j,m|.
type Bra struct{ qexpr.StateBase }

// NewBra returns <j,m|.
func NewBra(j, m qexpr.Expr) *Bra {
	return &Bra{qexpr.StateBase{Family: Family, Args: []qexpr.Expr{j, m}, Bra: true}}
}

func (b *Bra) Dual() qexpr.State {
	return &Ket{qexpr.StateBase{Family: Family, Args: b.Args}}
}

func (b *Bra) BasisOperator() qexpr.BasisFactory { return basisFor(b.Args) }

func (b *Bra) Represent(opts representation.Options) (backend.Value, error) {
	return stateRules(b.Args, true).Dispatch(opts)
}

func basisFor(label []qexpr.Expr) qexpr.BasisFactory {
	twoJ, ok := twice(label[0])
	if !ok {
		twoJ = 1
	}
	return func() qexpr.Basis { return Jz().WithSpin(twoJ) }
}

func delta(a, b []qexpr.Expr) (qexpr.Expr, bool) {
	if len(a) != len(b) {
		return nil, false
	}
	same := true
	for i := range a {
		if a[i].Equal(b[i]) {
			continue
		}
		if !qexpr.IsNumber(a[i]) || !qexpr.IsNumber(b[i]) {
			return nil, false
		}
		same = false
	}
	if same {
		return qexpr.Integer(1), true
	}
	return qexpr.Integer(0), true
}

func stateRules(label []qexpr.Expr, bra bool) representation.Rules {
	return representation.Rules{
		Default: KindJz,
		ByKind: map[qexpr.BasisKind]representation.Rule{
			KindJz: func(_ qexpr.Basis, opts representation.Options) (backend.Value, error) {
				return stateVector(label, bra, opts, jzColumn)
			},
			KindJx: func(_ qexpr.Basis, opts representation.Options) (backend.Value, error) {
				return stateVector(label, bra, opts, jxColumn)
			},
		},
	}
}

// stateVector builds the column for a ket, or its conjugate transpose for a
// bra.
func stateVector(label []qexpr.Expr, bra bool, opts representation.Options,
	column func(twoJ, twoM int64) ([]qexpr.Expr, error)) (backend.Value, error) {
	twoJ, okJ := twice(label[0])
	twoM, okM := twice(label[1])
	if !okJ || !okM {
		return nil, fmt.Errorf("%w: |%s,%s> has symbolic labels", representation.ErrNotImplementedRule, label[0], label[1])
	}
	if !validPair(twoJ, twoM) {
		return nil, fmt.Errorf("%w: invalid spin state |%s,%s>", representation.ErrInvalidInput, label[0], label[1])
	}
	if err := checkSize(twoJ); err != nil {
		return nil, err
	}
	entries, err := column(twoJ, twoM)
	if err != nil {
		return nil, err
	}
	m := qexpr.ColumnVector(entries...)
	if bra {
		m = m.Adjoint()
	}
	return backend.FromExpr(m, opts.Format)
}

func jzColumn(twoJ, twoM int64) ([]qexpr.Expr, error) {
	entries := make([]qexpr.Expr, twoJ+1)
	for i := range entries {
		entries[i] = qexpr.Integer(0)
	}
	entries[(twoJ-twoM)/2] = qexpr.Integer(1)
	return entries, nil
}

// jxColumn expands a spin 1/2 Jz eigenket over the Jx eigenkets
// |+x> = (|+> + |->)/sqrt(2) and |-x> = (|+> - |->)/sqrt(2).
func jxColumn(twoJ, twoM int64) ([]qexpr.Expr, error) {
	if twoJ != 1 {
		return nil, fmt.Errorf("%w: Jx basis for spin %s", representation.ErrNotImplementedRule, half(twoJ))
	}
	c := qexpr.Mul(qexpr.NewRational(1, 2), qexpr.Sqrt(qexpr.Integer(2)))
	if twoM == 1 {
		return []qexpr.Expr{c, c}, nil
	}
	return []qexpr.Expr{c, qexpr.Neg(c)}, nil
}
