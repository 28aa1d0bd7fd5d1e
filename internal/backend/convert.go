package backend

import (
	"fmt"

	"github.com/aristath/qrep/internal/qexpr"
)

// FromExpr converts a symbolic result into the container for format.
// Symbolic results are wrapped as they are. Numeric formats evaluate every
// entry and fail with ErrNotNumeric when an entry keeps free symbols.
func FromExpr(e qexpr.Expr, format Format) (Value, error) {
	switch format {
	case DenseNumeric:
		if m, ok := e.(*qexpr.Matrix); ok {
			return denseFromMatrix(m)
		}
		return numberFromExpr(e)
	case SparseNumeric:
		if m, ok := e.(*qexpr.Matrix); ok {
			return sparseFromMatrix(m)
		}
		return numberFromExpr(e)
	}
	return Expr{E: e}, nil
}

func numberFromExpr(e qexpr.Expr) (Number, error) {
	c, ok := qexpr.Eval(e)
	if !ok || !isFinite(c) {
		return Number{}, fmt.Errorf("evaluate %s: %w", e, ErrNotNumeric)
	}
	return Cplx(c), nil
}

func denseFromMatrix(m *qexpr.Matrix) (*Dense, error) {
	r, c := m.Dims()
	data := make([]complex128, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			n, err := numberFromExpr(m.At(i, j))
			if err != nil {
				return nil, err
			}
			data = append(data, n.Value)
		}
	}
	return NewDense(r, c, data), nil
}

func sparseFromMatrix(m *qexpr.Matrix) (*Sparse, error) {
	r, c := m.Dims()
	out := NewSparse(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			n, err := numberFromExpr(m.At(i, j))
			if err != nil {
				return nil, err
			}
			out.Set(i, j, n.Value)
		}
	}
	return out, nil
}

// ToSparse copies a dense matrix into sparse storage.
func ToSparse(d *Dense) *Sparse {
	r, c := d.Dims()
	out := NewSparse(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, d.At(i, j))
		}
	}
	return out
}

// ToDense copies a sparse matrix into dense storage.
func ToDense(s *Sparse) *Dense {
	out := NewDense(s.rows, s.cols, nil)
	for c, v := range s.data {
		out.m.Set(c.row, c.col, v)
	}
	return out
}
