// Package spin provides angular momentum operators and the Jz eigenstates
// |j,m>, with matrix rules in the Jz basis. Units have hbar = 1.
package spin

import (
	"fmt"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/modules/representation"
	"github.com/aristath/qrep/internal/qexpr"
)

// Component selects which angular momentum operator an Operator is.
type Component uint8

const (
	Z Component = iota
	X
	Y
	Raising
	Lowering
	Squared
)

var componentNames = [...]string{
	Z:        "Jz",
	X:        "Jx",
	Y:        "Jy",
	Raising:  "J+",
	Lowering: "J-",
	Squared:  "J2",
}

func (c Component) String() string { return componentNames[c] }

// ParseComponent returns the component named s, e.g. "Jx".
func ParseComponent(s string) (Component, error) {
	for c, name := range componentNames {
		if name == s {
			return Component(c), nil
		}
	}
	return 0, fmt.Errorf("unknown spin operator %q", s)
}

const (
	KindJz qexpr.BasisKind = "Jz"
	KindJx qexpr.BasisKind = "Jx"
)

// Operator is one of Jx, Jy, Jz, J+, J- and J2. Every operator doubles as
// the basis of its own eigenkets; only Jz can enumerate them.
type Operator struct {
	qexpr.OperatorBase
	Component Component
	// TwoJ is twice the spin used for basis sets and default matrices.
	// Zero means spin 1/2.
	TwoJ int64
}

// NewOperator returns the operator for c.
func NewOperator(c Component) *Operator {
	return &Operator{OperatorBase: qexpr.OperatorBase{Family: c.String()}, Component: c}
}

func Jz() *Operator     { return NewOperator(Z) }
func Jx() *Operator     { return NewOperator(X) }
func Jy() *Operator     { return NewOperator(Y) }
func JPlus() *Operator  { return NewOperator(Raising) }
func JMinus() *Operator { return NewOperator(Lowering) }
func J2() *Operator     { return NewOperator(Squared) }

// WithSpin returns a copy of o acting on spin j = twoJ/2.
func (o *Operator) WithSpin(twoJ int64) *Operator {
	c := *o
	c.TwoJ = twoJ
	return &c
}

func (o *Operator) twoJ() int64 {
	if o.TwoJ <= 0 {
		return 1
	}
	return o.TwoJ
}

// Key tells operators of different spins apart.
func (o *Operator) Key() string { return fmt.Sprintf("2j=%d", o.twoJ()) }

func (o *Operator) Kind() qexpr.BasisKind { return qexpr.BasisKind(o.Component.String()) }

func (o *Operator) HasBasisSet() bool { return o.Component == Z }

// BasisSet returns Jz eigenkets ordered by decreasing m, so index 1 is
// |j,j>.
func (o *Operator) BasisSet(start, count int) ([]qexpr.State, error) {
	if o.Component != Z {
		return nil, fmt.Errorf("%s cannot enumerate its eigenkets", o)
	}
	twoJ := o.twoJ()
	kets := make([]qexpr.State, count)
	for k := range kets {
		twoM := twoJ - 2*int64(start-1+k)
		if start < 1 || !validPair(twoJ, twoM) {
			return nil, fmt.Errorf("basis index %d outside spin %s", start+k, half(twoJ))
		}
		kets[k] = NewKet(half(twoJ), half(twoM))
	}
	return kets, nil
}

func (o *Operator) IsHermitian() bool {
	return o.Component != Raising && o.Component != Lowering
}

// NaturalBasisKets returns Jz eigenkets for the operator's spin.
func (o *Operator) NaturalBasisKets(start, count int) ([]qexpr.State, bool) {
	kets, err := Jz().WithSpin(o.twoJ()).BasisSet(start, count)
	return kets, err == nil
}

// ApplyTo acts on Jz eigenkets. Jz and J2 accept symbolic labels; the
// ladder operators need numeric ones.
func (o *Operator) ApplyTo(ket qexpr.State) (qexpr.Expr, bool) {
	k, ok := ket.(*Ket)
	if !ok {
		return nil, false
	}
	j, m := k.J(), k.M()

	switch o.Component {
	case Z:
		return qexpr.Mul(m, k), true
	case Squared:
		return qexpr.Mul(j, qexpr.Add(j, qexpr.Integer(1)), k), true
	}

	twoJ, okJ := twice(j)
	twoM, okM := twice(m)
	if !okJ || !okM || !validPair(twoJ, twoM) {
		return nil, false
	}
	up, down := step(twoJ, twoM, 1), step(twoJ, twoM, -1)
	switch o.Component {
	case Raising:
		return up, true
	case Lowering:
		return down, true
	case X:
		h := qexpr.NewRational(1, 2)
		return qexpr.Add(qexpr.Mul(h, up), qexpr.Mul(h, down)), true
	case Y:
		h := qexpr.Mul(qexpr.NewRational(1, 2), qexpr.I)
		return qexpr.Add(qexpr.Mul(qexpr.Neg(h), up), qexpr.Mul(h, down)), true
	}
	return nil, false
}

// step applies J+ (s=1) or J- (s=-1) to |j,m>.
func step(twoJ, twoM, s int64) qexpr.Expr {
	next := twoM + 2*s
	if !validPair(twoJ, next) {
		return qexpr.Integer(0)
	}
	return qexpr.Mul(ladder(twoJ, twoM, s), NewKet(half(twoJ), half(next)))
}

// Represent builds the operator matrix in the Jz basis.
func (o *Operator) Represent(opts representation.Options) (backend.Value, error) {
	return representation.Rules{
		Default: KindJz,
		ByKind:  map[qexpr.BasisKind]representation.Rule{KindJz: o.representJz},
	}.Dispatch(opts)
}

func (o *Operator) representJz(basis qexpr.Basis, opts representation.Options) (backend.Value, error) {
	twoJ, err := o.matrixSpin(basis, opts)
	if err != nil {
		return nil, err
	}
	m, err := o.Matrix(twoJ)
	if err != nil {
		return nil, err
	}
	return backend.FromExpr(m, opts.Format)
}

// matrixSpin picks the spin from the "j" option, then the basis, then the
// operator itself.
func (o *Operator) matrixSpin(basis qexpr.Basis, opts representation.Options) (int64, error) {
	twoJ, ok, err := spinOption(opts)
	if err != nil {
		return 0, err
	}
	if ok {
		return twoJ, nil
	}
	if b, ok := basis.(*Operator); ok && b.TwoJ > 0 {
		return b.TwoJ, nil
	}
	return o.twoJ(), nil
}

// Matrix returns the (2j+1)×(2j+1) matrix of o in the Jz basis, rows and
// columns ordered by decreasing m.
func (o *Operator) Matrix(twoJ int64) (*qexpr.Matrix, error) {
	if twoJ < 0 {
		return nil, fmt.Errorf("%w: negative spin %s", representation.ErrInvalidInput, half(twoJ))
	}
	if err := checkSize(twoJ); err != nil {
		return nil, err
	}
	size := int(twoJ + 1)
	m := make([]qexpr.Expr, size*size)
	for i := range m {
		m[i] = qexpr.Integer(0)
	}
	mAt := func(i int) int64 { return twoJ - 2*int64(i) }

	for k := 0; k < size; k++ {
		switch o.Component {
		case Z:
			m[k*size+k] = half(mAt(k))
		case Squared:
			m[k*size+k] = qexpr.NewRational(twoJ*(twoJ+2), 4)
		}
	}
	if o.Component == Z || o.Component == Squared {
		return qexpr.NewMatrix(size, size, m...), nil
	}

	for k := 0; k < size; k++ {
		// column k holds o|m_k>; J+ feeds row k-1, J- feeds row k+1
		var up, down qexpr.Expr = qexpr.Integer(0), qexpr.Integer(0)
		if k > 0 {
			up = ladder(twoJ, mAt(k), 1)
		}
		if k < size-1 {
			down = ladder(twoJ, mAt(k), -1)
		}
		switch o.Component {
		case Raising:
			down = qexpr.Integer(0)
		case Lowering:
			up = qexpr.Integer(0)
		case X:
			up = qexpr.Mul(qexpr.NewRational(1, 2), up)
			down = qexpr.Mul(qexpr.NewRational(1, 2), down)
		case Y:
			up = qexpr.Mul(qexpr.NewRational(-1, 2), qexpr.I, up)
			down = qexpr.Mul(qexpr.NewRational(1, 2), qexpr.I, down)
		}
		if k > 0 {
			m[(k-1)*size+k] = up
		}
		if k < size-1 {
			m[(k+1)*size+k] = down
		}
	}
	return qexpr.NewMatrix(size, size, m...), nil
}
