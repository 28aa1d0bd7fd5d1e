package oscillator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/modules/representation"
	"github.com/aristath/qrep/internal/qexpr"
)

const tol = 1e-12

// positionBasis stands in for a continuous basis with no number rules.
type positionBasis struct{}

func (positionBasis) Kind() qexpr.BasisKind                      { return "X" }
func (positionBasis) HasBasisSet() bool                          { return false }
func (positionBasis) BasisSet(int, int) ([]qexpr.State, error) { return nil, nil }

func dense(rows, cols int, data ...complex128) *backend.Dense {
	return backend.NewDense(rows, cols, data)
}

func diag(values ...complex128) *backend.Dense {
	n := len(values)
	data := make([]complex128, n*n)
	for i, v := range values {
		data[i*n+i] = v
	}
	return backend.NewDense(n, n, data)
}

func numeric(ndim int) representation.Options {
	return representation.NewOptions(backend.DenseNumeric).WithExtra("ndim", ndim)
}

func represent(t *testing.T, e qexpr.Expr, opts representation.Options) backend.Value {
	t.Helper()
	v, err := representation.Represent(e, opts)
	require.NoError(t, err)
	return v
}

func TestOperatorMatrices(t *testing.T) {
	r2 := complex(math.Sqrt2, 0)
	tests := []struct {
		op   *Operator
		want *backend.Dense
	}{
		{A(), dense(3, 3, 0, 1, 0, 0, 0, r2, 0, 0, 0)},
		{ADag(), dense(3, 3, 0, 0, 0, 1, 0, 0, 0, r2, 0)},
		{N(), diag(0, 1, 2)},
		{H(), diag(0.5, 1.5, 2.5)},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			v := represent(t, tt.op, numeric(3))
			assert.True(t, backend.ApproxEqual(v, tt.want, tol), "got %s", v)
		})
	}
}

func TestDefaultDimension(t *testing.T) {
	v := represent(t, N(), representation.NewOptions(backend.DenseNumeric))
	assert.True(t, backend.ApproxEqual(v, diag(0, 1, 2, 3), tol))

	_, err := representation.Represent(N(), numeric(backend.MaxDim))
	assert.NoError(t, err)

	for _, opts := range []representation.Options{
		numeric(0),
		numeric(backend.MaxDim + 1),
		numeric(1_000_000_000),
		representation.NewOptions(backend.DenseNumeric).WithExtra("ndim", "x"),
		representation.NewOptions(backend.DenseNumeric).WithExtra("ndim", 2.5),
	} {
		_, err = representation.Represent(N(), opts)
		assert.ErrorIs(t, err, representation.ErrInvalidInput, "ndim=%v", opts.Extra["ndim"])
	}
}

func TestPowerLimits(t *testing.T) {
	v := represent(t, qexpr.NewPower(A(), qexpr.Integer(backend.MaxExponent)), numeric(3))
	assert.True(t, backend.ApproxEqual(v, backend.NewDense(3, 3, make([]complex128, 9)), tol), "got %s", v)

	for _, format := range []backend.Format{backend.DenseNumeric, backend.SparseNumeric, backend.Symbolic} {
		opts := representation.NewOptions(format).WithExtra("ndim", 3)
		_, err := representation.Represent(qexpr.NewPower(N(), qexpr.Integer(1_000_000_000_000)), opts)
		assert.ErrorIs(t, err, backend.ErrTooLarge, "%s", format)
	}
}

func TestLadderAlgebra(t *testing.T) {
	// a†a reproduces N exactly inside the truncation
	v := represent(t, qexpr.NewProduct(ADag(), A()), numeric(4))
	assert.True(t, backend.ApproxEqual(v, diag(0, 1, 2, 3), tol), "got %s", v)

	// [a, a†] = 1 except in the last level, where truncation shows up
	v = represent(t, qexpr.NewCommutator(A(), ADag()), numeric(4))
	assert.True(t, backend.ApproxEqual(v, diag(1, 1, 1, -3), tol), "got %s", v)

	// H = a†a + 1/2, with the identity written as a^0
	h := represent(t, H(), numeric(4))
	identity := qexpr.NewPower(A(), qexpr.Integer(0))
	sum := represent(t, qexpr.NewSum(
		qexpr.NewProduct(ADag(), A()),
		qexpr.NewProduct(qexpr.NewRational(1, 2), identity),
	), numeric(4))
	assert.True(t, backend.ApproxEqual(h, sum, tol), "got %s", sum)

	// a bare scalar cannot be added to a matrix
	_, err := representation.Represent(qexpr.NewSum(N(), qexpr.NewRational(1, 2)), numeric(4))
	assert.Error(t, err)

	v = represent(t, qexpr.Dagger(A()), numeric(3))
	assert.True(t, backend.ApproxEqual(v, represent(t, ADag(), numeric(3)), tol))
}

func TestStates(t *testing.T) {
	v := represent(t, NewKet(qexpr.Integer(2)), numeric(4))
	assert.True(t, backend.ApproxEqual(v, dense(4, 1, 0, 0, 1, 0), tol))

	v = represent(t, NewBra(qexpr.Integer(1)), representation.NewOptions(backend.SparseNumeric).WithExtra("ndim", 3))
	sp, ok := v.(*backend.Sparse)
	require.True(t, ok)
	assert.Equal(t, 1, sp.NNZ())
	assert.Equal(t, complex128(1), sp.At(0, 1))

	_, err := representation.Represent(NewKet(qexpr.Integer(5)), numeric(4))
	assert.ErrorIs(t, err, representation.ErrInvalidInput)
	assert.NotErrorIs(t, err, representation.ErrNotImplementedRule)
}

func TestMatrixElement(t *testing.T) {
	expr := qexpr.NewProduct(NewBra(qexpr.Integer(1)), A(), NewKet(qexpr.Integer(2)))
	v := represent(t, expr, numeric(3))
	assert.True(t, backend.ApproxEqual(v, backend.Cplx(complex(math.Sqrt2, 0)), tol), "got %s", v)
}

func TestApplyTo(t *testing.T) {
	three := NewKet(qexpr.Integer(3))
	got := qexpr.Apply(qexpr.Mul(A(), three))
	assert.True(t, got.Equal(qexpr.Mul(qexpr.Sqrt(qexpr.Integer(3)), NewKet(qexpr.Integer(2)))), "got %s", got)

	zero := NewKet(qexpr.Integer(0))
	assert.True(t, qexpr.Apply(qexpr.Mul(A(), zero)).Equal(qexpr.Integer(0)))
	assert.True(t, qexpr.Apply(qexpr.Mul(ADag(), zero)).Equal(NewKet(qexpr.Integer(1))))

	got = qexpr.Apply(qexpr.Mul(NewBra(qexpr.Integer(3)), N(), three))
	assert.True(t, got.Equal(qexpr.Integer(3)), "got %s", got)

	got = qexpr.Apply(qexpr.Mul(NewBra(qexpr.Integer(3)), H(), three))
	assert.True(t, got.Equal(qexpr.NewRational(7, 2)), "got %s", got)

	n := NewKet(qexpr.Sym("n"))
	got = qexpr.Apply(qexpr.Mul(N(), n))
	assert.True(t, got.Equal(qexpr.Mul(qexpr.Sym("n"), n)), "got %s", got)
}

func TestInnerProducts(t *testing.T) {
	one := NewKet(qexpr.Integer(1))
	assert.True(t, qexpr.NewInnerProduct(NewBra(qexpr.Integer(1)), one).Doit().Equal(qexpr.Integer(1)))
	assert.True(t, qexpr.NewInnerProduct(NewBra(qexpr.Integer(0)), one).Doit().Equal(qexpr.Integer(0)))

	ip := qexpr.NewInnerProduct(NewBra(qexpr.Integer(0)), NewKet(qexpr.Sym("n")))
	assert.True(t, ip.Doit().Equal(ip))
}

func TestOperatorWithoutRuleUsesExpectation(t *testing.T) {
	opts := representation.NewOptions(backend.Symbolic).WithBasis(positionBasis{})

	v := represent(t, ADag(), opts)
	assert.True(t, v.(backend.Expr).E.Equal(qexpr.Integer(1)), "got %s", v)

	v = represent(t, ADag(), opts.WithIndex(2))
	assert.True(t, v.(backend.Expr).E.Equal(qexpr.Sqrt(qexpr.Integer(2))), "got %s", v)
}

func TestStateWithoutBasisSetKeepsRuleError(t *testing.T) {
	expr := qexpr.NewProduct(NewBra(qexpr.Integer(1)), A(), NewKet(qexpr.Integer(2)))
	_, err := representation.Represent(expr, representation.NewOptions(backend.Symbolic).WithBasis(positionBasis{}))
	assert.ErrorIs(t, err, representation.ErrNotImplementedRule)
	assert.NotErrorIs(t, err, representation.ErrBasisResolution)
}

func TestSymbolicLevelFallsBackToBracket(t *testing.T) {
	n := NewKet(qexpr.Sym("n"))
	v := represent(t, n, representation.NewOptions(backend.Symbolic))
	want := qexpr.NewInnerProduct(NewBra(qexpr.Integer(0)), n)
	assert.True(t, v.(backend.Expr).E.Equal(want), "got %s", v)
}

func TestBasisSet(t *testing.T) {
	kets, err := N().BasisSet(3, 2)
	require.NoError(t, err)
	assert.True(t, kets[0].Equal(NewKet(qexpr.Integer(2))))
	assert.True(t, kets[1].Equal(NewKet(qexpr.Integer(3))))

	_, err = N().BasisSet(0, 2)
	assert.Error(t, err)
	assert.False(t, A().HasBasisSet())

	r, err := ParseRole("LoweringOp")
	require.NoError(t, err)
	assert.Equal(t, Lowering, r)
}
