// Package oscillator provides the one dimensional harmonic oscillator: the
// ladder operators, the number operator, the Hamiltonian and the number
// states |n>. Matrices are truncated to the "ndim" option. Units have
// hbar = omega = 1.
package oscillator

import (
	"fmt"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/modules/representation"
	"github.com/aristath/qrep/internal/qexpr"
)

// KindN is the basis of number states.
const KindN qexpr.BasisKind = "N"

// DefaultDim is the matrix size used when "ndim" is not set.
const DefaultDim = 4

// Role selects which oscillator operator an Operator is.
type Role uint8

const (
	Number Role = iota
	Raising
	Lowering
	Hamiltonian
)

var roleNames = [...]string{
	Number:      "N",
	Raising:     "RaisingOp",
	Lowering:    "LoweringOp",
	Hamiltonian: "H",
}

func (r Role) String() string { return roleNames[r] }

// ParseRole returns the role named s.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return Role(r), nil
		}
	}
	return 0, fmt.Errorf("unknown oscillator operator %q", s)
}

// Operator is a harmonic oscillator operator. The number operator is also
// the basis of number states.
type Operator struct {
	qexpr.OperatorBase
	Role Role
}

// NewOperator returns the operator for r.
func NewOperator(r Role) *Operator {
	return &Operator{OperatorBase: qexpr.OperatorBase{Family: r.String()}, Role: r}
}

func N() *Operator    { return NewOperator(Number) }
func A() *Operator    { return NewOperator(Lowering) }
func ADag() *Operator { return NewOperator(Raising) }
func H() *Operator    { return NewOperator(Hamiltonian) }

func (o *Operator) Kind() qexpr.BasisKind {
	if o.Role == Number {
		return KindN
	}
	return qexpr.BasisKind(o.Role.String())
}

func (o *Operator) HasBasisSet() bool { return o.Role == Number }

// BasisSet returns |start-1>, |start>, ...
func (o *Operator) BasisSet(start, count int) ([]qexpr.State, error) {
	if o.Role != Number {
		return nil, fmt.Errorf("%s cannot enumerate its eigenkets", o)
	}
	if start < 1 {
		return nil, fmt.Errorf("basis index %d out of range", start)
	}
	kets := make([]qexpr.State, count)
	for k := range kets {
		kets[k] = NewKet(qexpr.Integer(int64(start - 1 + k)))
	}
	return kets, nil
}

func (o *Operator) IsHermitian() bool { return o.Role == Number || o.Role == Hamiltonian }

func (o *Operator) NaturalBasisKets(start, count int) ([]qexpr.State, bool) {
	kets, err := N().BasisSet(start, count)
	return kets, err == nil
}

// ApplyTo acts on number states. Symbolic levels are accepted; only a
// numeric |0> is annihilated.
func (o *Operator) ApplyTo(ket qexpr.State) (qexpr.Expr, bool) {
	k, ok := ket.(*Ket)
	if !ok {
		return nil, false
	}
	n := k.Level()
	switch o.Role {
	case Number:
		return qexpr.Mul(n, k), true
	case Hamiltonian:
		return qexpr.Mul(qexpr.Add(n, qexpr.NewRational(1, 2)), k), true
	case Raising:
		next := qexpr.Add(n, qexpr.Integer(1))
		return qexpr.Mul(qexpr.Sqrt(next), NewKet(next)), true
	case Lowering:
		if n.Equal(qexpr.Integer(0)) {
			return qexpr.Integer(0), true
		}
		return qexpr.Mul(qexpr.Sqrt(n), NewKet(qexpr.Add(n, qexpr.Integer(-1)))), true
	}
	return nil, false
}

func (o *Operator) Represent(opts representation.Options) (backend.Value, error) {
	return representation.Rules{
		Default: KindN,
		ByKind: map[qexpr.BasisKind]representation.Rule{
			KindN: func(_ qexpr.Basis, opts representation.Options) (backend.Value, error) {
				ndim, err := dimension(opts)
				if err != nil {
					return nil, err
				}
				return backend.FromExpr(o.Matrix(ndim), opts.Format)
			},
		},
	}.Dispatch(opts)
}

// Matrix returns the ndim×ndim truncation of o in the number basis.
func (o *Operator) Matrix(ndim int) *qexpr.Matrix {
	entries := make([]qexpr.Expr, 0, ndim*ndim)
	for i := 0; i < ndim; i++ {
		for j := 0; j < ndim; j++ {
			entries = append(entries, o.element(i, j))
		}
	}
	return qexpr.NewMatrix(ndim, ndim, entries...)
}

// element returns <i|o|j>.
func (o *Operator) element(i, j int) qexpr.Expr {
	switch {
	case o.Role == Number && i == j:
		return qexpr.Integer(int64(i))
	case o.Role == Hamiltonian && i == j:
		return qexpr.NewRational(int64(2*i+1), 2)
	case o.Role == Lowering && j == i+1:
		return qexpr.Sqrt(qexpr.Integer(int64(j)))
	case o.Role == Raising && i == j+1:
		return qexpr.Sqrt(qexpr.Integer(int64(i)))
	}
	return qexpr.Integer(0)
}

func dimension(opts representation.Options) (int, error) {
	ndim, err := opts.Int("ndim", DefaultDim)
	if err != nil {
		return 0, err
	}
	if ndim < 1 || ndim > backend.MaxDim {
		return 0, fmt.Errorf("%w: ndim must be between 1 and %d, got %d", representation.ErrInvalidInput, backend.MaxDim, ndim)
	}
	return ndim, nil
}
