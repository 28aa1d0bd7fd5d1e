package backend

import (
	"fmt"
	"sort"
	"strings"
)

type coord struct{ row, col int }

// Entry is a stored element of a sparse matrix.
type Entry struct {
	Row   int
	Col   int
	Value complex128
}

// Sparse is a coordinate-map complex matrix. Zero entries are never stored.
type Sparse struct {
	rows, cols int
	data       map[coord]complex128
}

// NewSparse returns an empty rows×cols matrix.
func NewSparse(rows, cols int) *Sparse {
	if rows <= 0 || cols <= 0 {
		panic("backend: zero length sparse matrix")
	}
	return &Sparse{rows: rows, cols: cols, data: make(map[coord]complex128)}
}

func (s *Sparse) Dims() (int, int) { return s.rows, s.cols }

func (s *Sparse) At(i, j int) complex128 { return s.data[coord{i, j}] }

// Set stores v at (i, j); storing zero removes the entry.
func (s *Sparse) Set(i, j int, v complex128) {
	if i < 0 || i >= s.rows || j < 0 || j >= s.cols {
		panic(fmt.Sprintf("backend: index (%d, %d) out of range for %dx%d", i, j, s.rows, s.cols))
	}
	if v == 0 {
		delete(s.data, coord{i, j})
		return
	}
	s.data[coord{i, j}] = v
}

// NNZ returns the number of stored entries.
func (s *Sparse) NNZ() int { return len(s.data) }

// Entries returns the stored entries in row-major order.
func (s *Sparse) Entries() []Entry {
	out := make([]Entry, 0, len(s.data))
	for c, v := range s.data {
		out = append(out, Entry{Row: c.row, Col: c.col, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

func (*Sparse) Kind() Kind { return KindSparse }

func (s *Sparse) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "sparse %dx%d", s.rows, s.cols)
	for _, e := range s.Entries() {
		fmt.Fprintf(&b, "\n  (%d, %d) %s", e.Row, e.Col, Cplx(e.Value))
	}
	return b.String()
}

func (s *Sparse) axpy(alpha complex128, o *Sparse) (*Sparse, error) {
	if s.rows != o.rows || s.cols != o.cols {
		return nil, fmt.Errorf("add %dx%d and %dx%d: %w", s.rows, s.cols, o.rows, o.cols, ErrShape)
	}
	out := o.scale(1)
	for c, v := range s.data {
		out.Set(c.row, c.col, out.data[c]+alpha*v)
	}
	return out, nil
}

func (s *Sparse) scale(alpha complex128) *Sparse {
	out := NewSparse(s.rows, s.cols)
	for c, v := range s.data {
		out.Set(c.row, c.col, alpha*v)
	}
	return out
}

func (s *Sparse) mul(o *Sparse) (*Sparse, error) {
	if s.cols != o.rows {
		return nil, fmt.Errorf("multiply %dx%d by %dx%d: %w", s.rows, s.cols, o.rows, o.cols, ErrShape)
	}
	byRow := make(map[int][]Entry)
	for c, v := range o.data {
		byRow[c.row] = append(byRow[c.row], Entry{Row: c.row, Col: c.col, Value: v})
	}
	out := NewSparse(s.rows, o.cols)
	for c, v := range s.data {
		for _, e := range byRow[c.col] {
			out.Set(c.row, e.Col, out.data[coord{c.row, e.Col}]+v*e.Value)
		}
	}
	return out, nil
}

func (s *Sparse) pow(n int) (*Sparse, error) {
	if s.rows != s.cols {
		return nil, fmt.Errorf("power of %dx%d matrix: %w", s.rows, s.cols, ErrShape)
	}
	result := NewSparse(s.rows, s.rows)
	for i := 0; i < s.rows; i++ {
		result.Set(i, i, 1)
	}
	base := s
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

func (s *Sparse) adjoint() *Sparse {
	out := NewSparse(s.cols, s.rows)
	for c, v := range s.data {
		out.Set(c.col, c.row, complex(real(v), -imag(v)))
	}
	return out
}

func (s *Sparse) kron(o *Sparse) *Sparse {
	out := NewSparse(s.rows*o.rows, s.cols*o.cols)
	for a, av := range s.data {
		for b, bv := range o.data {
			out.Set(a.row*o.rows+b.row, a.col*o.cols+b.col, av*bv)
		}
	}
	return out
}
