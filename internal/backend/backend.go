// Package backend holds the containers a representation can produce and the
// arithmetic between them: native scalars, dense and sparse complex matrices,
// symbolic expressions and unflattened tensor products.
package backend

import (
	"errors"
	"fmt"
)

const (
	// MaxDim bounds the rows and columns of every matrix the backends build.
	MaxDim = 512
	// MaxExponent bounds integer matrix powers.
	MaxExponent = 1024
)

// CheckDims fails with ErrTooLarge when a rows×cols matrix would exceed MaxDim.
func CheckDims(rows, cols int) error {
	if rows > MaxDim || cols > MaxDim {
		return fmt.Errorf("%dx%d matrix exceeds %d rows or columns: %w", rows, cols, MaxDim, ErrTooLarge)
	}
	return nil
}

// Format selects the container family a representation is built in.
type Format string

const (
	Symbolic      Format = "symbolic"
	DenseNumeric  Format = "dense-numeric"
	SparseNumeric Format = "sparse-numeric"
)

// Formats lists every supported format.
var Formats = []Format{Symbolic, DenseNumeric, SparseNumeric}

// ParseFormat validates a format name. The empty string selects Symbolic.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return Symbolic, nil
	case Symbolic, DenseNumeric, SparseNumeric:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// IsNumeric reports whether the format needs concrete numbers.
func (f Format) IsNumeric() bool { return f == DenseNumeric || f == SparseNumeric }

// Kind names the container behind a Value.
type Kind string

const (
	KindScalar   Kind = "scalar"
	KindDense    Kind = "dense"
	KindSparse   Kind = "sparse"
	KindSymbolic Kind = "symbolic"
	KindTensor   Kind = "tensor"
)

// Value is a representation result.
type Value interface {
	Kind() Kind
	String() string
}

var (
	// ErrShape is returned when operand dimensions do not agree.
	ErrShape = errors.New("shape mismatch")
	// ErrUnsupported is returned for operations a container cannot perform.
	ErrUnsupported = errors.New("unsupported operation")
	// ErrNotNumeric is returned when a symbolic value has no numeric value.
	ErrNotNumeric = errors.New("expression is not numeric")
	// ErrTooLarge is returned when a result or an exponent exceeds the limits below.
	ErrTooLarge = errors.New("exceeds size limit")
)
