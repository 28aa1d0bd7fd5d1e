package representation

import (
	"errors"
	"fmt"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/qexpr"
)

const kindE qexpr.BasisKind = "E"

// eBasis is a two-level orthonormal basis |0>, |1>.
type eBasis struct{}

func (eBasis) Kind() qexpr.BasisKind { return kindE }
func (eBasis) HasBasisSet() bool     { return true }

func (eBasis) BasisSet(start, count int) ([]qexpr.State, error) {
	if start < 1 || start-1+count > 2 {
		return nil, fmt.Errorf("levels %d..%d out of range", start-1, start-2+count)
	}
	kets := make([]qexpr.State, count)
	for i := range kets {
		kets[i] = ek(int64(start - 1 + i))
	}
	return kets, nil
}

// flatBasis has no enumerable kets.
type flatBasis struct{}

func (flatBasis) Kind() qexpr.BasisKind                      { return "Z" }
func (flatBasis) HasBasisSet() bool                          { return false }
func (flatBasis) BasisSet(int, int) ([]qexpr.State, error) { return nil, errors.New("no basis set") }

type eKet struct{ qexpr.StateBase }

func ek(n int64) *eKet {
	return &eKet{qexpr.StateBase{Family: "e", Args: []qexpr.Expr{qexpr.Integer(n)}}}
}

func (k *eKet) Dual() qexpr.State {
	return &eBra{qexpr.StateBase{Family: "e", Args: k.Args, Bra: true}}
}

func (k *eKet) EvalInnerProduct(bra qexpr.State) (qexpr.Expr, bool) {
	if bra.Class() != "e" {
		return nil, false
	}
	if bra.Label()[0].Equal(k.Args[0]) {
		return qexpr.Integer(1), true
	}
	return qexpr.Integer(0), true
}

func (k *eKet) BasisOperator() qexpr.BasisFactory {
	return func() qexpr.Basis { return eBasis{} }
}

func (k *eKet) Represent(opts Options) (backend.Value, error) {
	return levelRules(k.Args[0], false).Dispatch(opts)
}

type eBra struct{ qexpr.StateBase }

func eb(n int64) *eBra {
	return &eBra{qexpr.StateBase{Family: "e", Args: []qexpr.Expr{qexpr.Integer(n)}, Bra: true}}
}

func (b *eBra) Dual() qexpr.State { return &eKet{qexpr.StateBase{Family: "e", Args: b.Args}} }

func (b *eBra) Represent(opts Options) (backend.Value, error) {
	return levelRules(b.Args[0], true).Dispatch(opts)
}

func levelRules(level qexpr.Expr, bra bool) Rules {
	return Rules{
		Default: kindE,
		ByKind: map[qexpr.BasisKind]Rule{
			kindE: func(_ qexpr.Basis, opts Options) (backend.Value, error) {
				entries := []qexpr.Expr{qexpr.Integer(0), qexpr.Integer(0)}
				entries[int(level.(qexpr.Integer))] = qexpr.Integer(1)
				m := qexpr.ColumnVector(entries...)
				if bra {
					m = qexpr.RowVector(entries...)
				}
				return backend.FromExpr(m, opts.format())
			},
		},
	}
}

// matOp is a 2×2 operator on the two-level space.
type matOp struct {
	qexpr.OperatorBase
	m      [2][2]qexpr.Expr
	noRule bool
}

func newMatOp(name string, a, b, c, d qexpr.Expr) *matOp {
	return &matOp{OperatorBase: qexpr.OperatorBase{Family: name}, m: [2][2]qexpr.Expr{{a, b}, {c, d}}}
}

func opX() *matOp {
	return newMatOp("X", qexpr.Integer(0), qexpr.Integer(1), qexpr.Integer(1), qexpr.Integer(0))
}

func opZ() *matOp {
	return newMatOp("Z", qexpr.Integer(1), qexpr.Integer(0), qexpr.Integer(0), qexpr.Integer(-1))
}

func (o *matOp) matrix() *qexpr.Matrix {
	return qexpr.NewMatrix(2, 2, o.m[0][0], o.m[0][1], o.m[1][0], o.m[1][1])
}

func (o *matOp) Represent(opts Options) (backend.Value, error) {
	if o.noRule {
		return nil, fmt.Errorf("%w: %s", ErrNotImplementedRule, o)
	}
	return Rules{
		Default: kindE,
		ByKind: map[qexpr.BasisKind]Rule{
			kindE: func(_ qexpr.Basis, opts Options) (backend.Value, error) {
				return backend.FromExpr(o.matrix(), opts.format())
			},
		},
	}.Dispatch(opts)
}

func (o *matOp) NaturalBasisKets(start, count int) ([]qexpr.State, bool) {
	kets, err := eBasis{}.BasisSet(start, count)
	return kets, err == nil
}

func (o *matOp) ApplyTo(ket qexpr.State) (qexpr.Expr, bool) {
	k, ok := ket.(*eKet)
	if !ok {
		return nil, false
	}
	l := int(k.Args[0].(qexpr.Integer))
	return qexpr.Add(qexpr.Mul(o.m[0][l], ek(0)), qexpr.Mul(o.m[1][l], ek(1))), true
}

// ampKet has no rules; its brackets with the two-level basis are amps.
type ampKet struct {
	qexpr.StateBase
	amps []qexpr.Expr
}

func newAmpKet(name string, amps ...qexpr.Expr) *ampKet {
	return &ampKet{StateBase: qexpr.StateBase{Family: "amp", Args: []qexpr.Expr{qexpr.Sym(name)}}, amps: amps}
}

func (k *ampKet) Dual() qexpr.State {
	return &ampBra{StateBase: qexpr.StateBase{Family: "amp", Args: k.Args, Bra: true}, amps: k.amps}
}

func (k *ampKet) EvalInnerProduct(bra qexpr.State) (qexpr.Expr, bool) {
	if bra.Class() != "e" {
		return nil, false
	}
	return k.amps[int(bra.Label()[0].(qexpr.Integer))], true
}

func (k *ampKet) BasisOperator() qexpr.BasisFactory {
	return func() qexpr.Basis { return eBasis{} }
}

type ampBra struct {
	qexpr.StateBase
	amps []qexpr.Expr
}

func newAmpBra(name string, amps ...qexpr.Expr) *ampBra {
	return newAmpKet(name, amps...).Dual().(*ampBra)
}

func (b *ampBra) Dual() qexpr.State {
	return &ampKet{StateBase: qexpr.StateBase{Family: "amp", Args: b.Args}, amps: b.amps}
}

func (b *ampBra) BasisOperator() qexpr.BasisFactory {
	return func() qexpr.Basis { return eBasis{} }
}

// customKet has a user supplied rule returning a fixed value.
type customKet struct {
	qexpr.StateBase
	value backend.Value
	err   error
}

func (k *customKet) Dual() qexpr.State { return qexpr.NewBra(k.Args...) }

func (k *customKet) Represent(opts Options) (backend.Value, error) {
	return Rules{ByKind: map[qexpr.BasisKind]Rule{
		kindE: func(qexpr.Basis, Options) (backend.Value, error) { return k.value, k.err },
	}}.Dispatch(opts)
}

// formattedKet formats every bracket as 42.
type formattedKet struct{ *ampKet }

func (formattedKet) FormatScalar(qexpr.Expr, backend.Format) (backend.Value, error) {
	return backend.Int(42), nil
}

// recorders note the index they were represented with.
type recordingKet struct {
	qexpr.StateBase
	log *[]string
}

func (p *recordingKet) Dual() qexpr.State {
	return &recordingKet{StateBase: qexpr.StateBase{Family: "recorder", Args: p.Args, Bra: !p.Bra}, log: p.log}
}

func (p *recordingKet) Represent(opts Options) (backend.Value, error) {
	*p.log = append(*p.log, fmt.Sprintf("%s:%d", p.Args[0], opts.Index))
	return backend.Int(1), nil
}

type recordingOp struct {
	qexpr.OperatorBase
	log *[]string
}

func (p *recordingOp) Represent(opts Options) (backend.Value, error) {
	*p.log = append(*p.log, fmt.Sprintf("%s:%d", p.Args[0], opts.Index))
	return backend.Int(1), nil
}

func recorders(log *[]string) (ket, bra func(string) *recordingKet, op func(string) *recordingOp) {
	ket = func(name string) *recordingKet {
		return &recordingKet{StateBase: qexpr.StateBase{Family: "recorder", Args: []qexpr.Expr{qexpr.Sym(name)}}, log: log}
	}
	bra = func(name string) *recordingKet {
		return &recordingKet{StateBase: qexpr.StateBase{Family: "recorder", Args: []qexpr.Expr{qexpr.Sym(name)}, Bra: true}, log: log}
	}
	op = func(name string) *recordingOp {
		return &recordingOp{OperatorBase: qexpr.OperatorBase{Family: "recorder", Args: []qexpr.Expr{qexpr.Sym(name)}}, log: log}
	}
	return ket, bra, op
}

func dense(rows, cols int, data ...complex128) *backend.Dense {
	return backend.NewDense(rows, cols, data)
}
