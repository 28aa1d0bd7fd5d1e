package backend

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"
)

// Dense is a dense complex matrix backed by gonum.
type Dense struct {
	m *mat.CDense
}

// NewDense returns a rows×cols matrix. data is row-major and may be nil.
func NewDense(rows, cols int, data []complex128) *Dense {
	return &Dense{m: mat.NewCDense(rows, cols, data)}
}

// Matrix exposes the underlying gonum matrix.
func (d *Dense) Matrix() *mat.CDense { return d.m }

func (d *Dense) Dims() (int, int) { return d.m.Dims() }

func (d *Dense) At(i, j int) complex128 { return d.m.At(i, j) }

func (*Dense) Kind() Kind { return KindDense }

func (d *Dense) String() string {
	r, c := d.m.Dims()
	rows := make([]string, r)
	for i := 0; i < r; i++ {
		cells := make([]string, c)
		for j := 0; j < c; j++ {
			cells[j] = Cplx(d.m.At(i, j)).String()
		}
		rows[i] = "[" + strings.Join(cells, " ") + "]"
	}
	return strings.Join(rows, "\n")
}

func (d *Dense) clone() *Dense {
	r, c := d.m.Dims()
	out := mat.NewCDense(r, c, nil)
	copy(out.RawCMatrix().Data, d.m.RawCMatrix().Data)
	return &Dense{m: out}
}

func (d *Dense) vector() cblas128.Vector {
	raw := d.m.RawCMatrix()
	return cblas128.Vector{N: raw.Rows * raw.Cols, Inc: 1, Data: raw.Data}
}

// axpy returns alpha*d + o.
func (d *Dense) axpy(alpha complex128, o *Dense) (*Dense, error) {
	r, c := d.m.Dims()
	or, oc := o.m.Dims()
	if r != or || c != oc {
		return nil, fmt.Errorf("add %dx%d and %dx%d: %w", r, c, or, oc, ErrShape)
	}
	out := o.clone()
	cblas128.Axpy(alpha, d.vector(), out.vector())
	return out, nil
}

func (d *Dense) scale(alpha complex128) *Dense {
	out := d.clone()
	cblas128.Scal(alpha, out.vector())
	return out
}

func (d *Dense) mul(o *Dense) (*Dense, error) {
	r, k := d.m.Dims()
	k2, c := o.m.Dims()
	if k != k2 {
		return nil, fmt.Errorf("multiply %dx%d by %dx%d: %w", r, k, k2, c, ErrShape)
	}
	out := mat.NewCDense(r, c, nil)
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1, d.m.RawCMatrix(), o.m.RawCMatrix(), 0, out.RawCMatrix())
	return &Dense{m: out}, nil
}

func (d *Dense) pow(n int) (*Dense, error) {
	r, c := d.m.Dims()
	if r != c {
		return nil, fmt.Errorf("power of %dx%d matrix: %w", r, c, ErrShape)
	}
	result, base := identity(r), d
	for n > 0 {
		var err error
		if n&1 == 1 {
			if result, err = result.mul(base); err != nil {
				return nil, err
			}
		}
		n >>= 1
		if n > 0 {
			if base, err = base.mul(base); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

func (d *Dense) adjoint() *Dense {
	h := d.m.H()
	r, c := h.Dims()
	out := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, h.At(i, j))
		}
	}
	return &Dense{m: out}
}

func (d *Dense) kron(o *Dense) *Dense {
	ar, ac := d.m.Dims()
	br, bc := o.m.Dims()
	out := mat.NewCDense(ar*br, ac*bc, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			a := d.m.At(i, j)
			if a == 0 {
				continue
			}
			for k := 0; k < br; k++ {
				for l := 0; l < bc; l++ {
					out.Set(i*br+k, j*bc+l, a*o.m.At(k, l))
				}
			}
		}
	}
	return &Dense{m: out}
}

func identity(n int) *Dense {
	out := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		out.Set(i, i, 1)
	}
	return &Dense{m: out}
}
