package qexpr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrShape is returned when matrix dimensions do not agree.
var ErrShape = errors.New("matrix dimension mismatch")

// Matrix is a dense matrix of symbolic entries stored row-major.
type Matrix struct {
	rows, cols int
	entries    []Expr
}

// NewMatrix returns a rows×cols matrix. It panics if len(entries) does not
// match the dimensions.
func NewMatrix(rows, cols int, entries ...Expr) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic("qexpr: zero length matrix")
	}
	if len(entries) != rows*cols {
		panic(ErrShape)
	}
	return &Matrix{rows: rows, cols: cols, entries: append([]Expr(nil), entries...)}
}

// ColumnVector returns an n×1 matrix.
func ColumnVector(entries ...Expr) *Matrix { return NewMatrix(len(entries), 1, entries...) }

// RowVector returns a 1×n matrix.
func RowVector(entries ...Expr) *Matrix { return NewMatrix(1, len(entries), entries...) }

// Zeros returns a rows×cols matrix of exact zeros.
func Zeros(rows, cols int) *Matrix {
	entries := make([]Expr, rows*cols)
	for i := range entries {
		entries[i] = Integer(0)
	}
	return NewMatrix(rows, cols, entries...)
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Matrix {
	m := Zeros(n, n)
	for i := 0; i < n; i++ {
		m.entries[i*n+i] = Integer(1)
	}
	return m
}

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (int, int) { return m.rows, m.cols }

// At returns the entry at row i, column j.
func (m *Matrix) At(i, j int) Expr { return m.entries[i*m.cols+j] }

func (m *Matrix) String() string {
	rows := make([]string, m.rows)
	for i := 0; i < m.rows; i++ {
		cells := make([]string, m.cols)
		for j := 0; j < m.cols; j++ {
			cells[j] = m.At(i, j).String()
		}
		rows[i] = "[" + strings.Join(cells, ", ") + "]"
	}
	return "Matrix([" + strings.Join(rows, ", ") + "])"
}

func (m *Matrix) Equal(other Expr) bool {
	o, ok := other.(*Matrix)
	return ok && m.rows == o.rows && m.cols == o.cols && argsEqual(m.entries, o.entries)
}

// Scale multiplies every entry by the scalar c.
func (m *Matrix) Scale(c Expr) *Matrix {
	return m.apply(func(e Expr) Expr { return Mul(c, e) })
}

// Adjoint returns the conjugate transpose.
func (m *Matrix) Adjoint() *Matrix {
	out := &Matrix{rows: m.cols, cols: m.rows, entries: make([]Expr, len(m.entries))}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.entries[j*m.rows+i] = Conj(m.At(i, j))
		}
	}
	return out
}

func (m *Matrix) apply(fn func(Expr) Expr) *Matrix {
	out := &Matrix{rows: m.rows, cols: m.cols, entries: make([]Expr, len(m.entries))}
	for i, e := range m.entries {
		out.entries[i] = fn(e)
	}
	return out
}

// MatAdd returns a + b.
func MatAdd(a, b *Matrix) (*Matrix, error) {
	if a.rows != b.rows || a.cols != b.cols {
		return nil, fmt.Errorf("add %dx%d and %dx%d: %w", a.rows, a.cols, b.rows, b.cols, ErrShape)
	}
	out := &Matrix{rows: a.rows, cols: a.cols, entries: make([]Expr, len(a.entries))}
	for i := range a.entries {
		out.entries[i] = Add(a.entries[i], b.entries[i])
	}
	return out, nil
}

// MatMul returns the matrix product a·b.
func MatMul(a, b *Matrix) (*Matrix, error) {
	if a.cols != b.rows {
		return nil, fmt.Errorf("multiply %dx%d by %dx%d: %w", a.rows, a.cols, b.rows, b.cols, ErrShape)
	}
	out := &Matrix{rows: a.rows, cols: b.cols, entries: make([]Expr, a.rows*b.cols)}
	terms := make([]Expr, a.cols)
	for i := 0; i < a.rows; i++ {
		for j := 0; j < b.cols; j++ {
			for k := 0; k < a.cols; k++ {
				terms[k] = Mul(a.At(i, k), b.At(k, j))
			}
			out.entries[i*b.cols+j] = Add(terms...)
		}
	}
	return out, nil
}

// MatPow returns m**n for a square m and n >= 0.
func MatPow(m *Matrix, n int) (*Matrix, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("power of %dx%d matrix: %w", m.rows, m.cols, ErrShape)
	}
	if n < 0 {
		return nil, fmt.Errorf("negative matrix power %d is not supported", n)
	}
	result := Identity(m.rows)
	for n > 0 {
		var err error
		if n&1 == 1 {
			if result, err = MatMul(result, m); err != nil {
				return nil, err
			}
		}
		n >>= 1
		if n > 0 {
			if m, err = MatMul(m, m); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

// Kron returns the Kronecker product a⊗b.
func Kron(a, b *Matrix) *Matrix {
	rows, cols := a.rows*b.rows, a.cols*b.cols
	out := &Matrix{rows: rows, cols: cols, entries: make([]Expr, rows*cols)}
	for i := 0; i < a.rows; i++ {
		for j := 0; j < a.cols; j++ {
			for k := 0; k < b.rows; k++ {
				for l := 0; l < b.cols; l++ {
					out.entries[(i*b.rows+k)*cols+j*b.cols+l] = Mul(a.At(i, j), b.At(k, l))
				}
			}
		}
	}
	return out
}
