package backend

import (
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
	"strconv"
	"strings"
)

// NumberType records which native type a Number stands for.
type NumberType uint8

const (
	IntType NumberType = iota
	FloatType
	ComplexType
)

func (t NumberType) String() string {
	switch t {
	case IntType:
		return "int"
	case FloatType:
		return "float"
	}
	return "complex"
}

// Number is a native scalar. Integer and float values keep a zero imaginary
// part.
type Number struct {
	Type  NumberType
	Value complex128
}

// Int returns an integer scalar.
func Int(n int64) Number { return Number{Type: IntType, Value: complex(float64(n), 0)} }

// Real returns a float scalar.
func Real(f float64) Number { return Number{Type: FloatType, Value: complex(f, 0)} }

// Cplx returns a complex scalar.
func Cplx(c complex128) Number { return Number{Type: ComplexType, Value: c} }

func (Number) Kind() Kind { return KindScalar }

func (n Number) String() string {
	switch n.Type {
	case IntType:
		return strconv.FormatInt(int64(real(n.Value)), 10)
	case FloatType:
		return strconv.FormatFloat(real(n.Value), 'g', -1, 64)
	}
	return strings.Trim(strconv.FormatComplex(n.Value, 'g', -1, 128), "()")
}

// IsInteger reports whether n holds an integral real value.
func (n Number) IsInteger() bool {
	return imag(n.Value) == 0 && real(n.Value) == math.Trunc(real(n.Value))
}

func promote(a, b NumberType) NumberType {
	if a > b {
		return a
	}
	return b
}

func (n Number) add(o Number) Number {
	return Number{Type: promote(n.Type, o.Type), Value: n.Value + o.Value}
}

func (n Number) mul(o Number) Number {
	return Number{Type: promote(n.Type, o.Type), Value: n.Value * o.Value}
}

// maxExactInt is the largest integer a float64 holds exactly. Integer
// powers beyond it are promoted to float.
const maxExactInt = 1 << 53

func (n Number) pow(e Number) (Number, error) {
	if n.Type == IntType && e.Type == IntType && real(e.Value) >= 0 {
		b, k := real(n.Value), real(e.Value)
		if r, ok := exactIntPow(int64(b), k); ok {
			return Int(r), nil
		}
		f := math.Pow(b, k)
		if math.IsInf(f, 0) {
			return Number{}, fmt.Errorf("%s**%s overflows: %w", n, e, ErrTooLarge)
		}
		return Real(f), nil
	}
	v := cmplx.Pow(n.Value, e.Value)
	if cmplx.IsInf(v) || cmplx.IsNaN(v) {
		return Number{}, fmt.Errorf("%s**%s is not finite: %w", n, e, ErrUnsupported)
	}
	return Number{Type: promote(promote(n.Type, e.Type), FloatType), Value: v}, nil
}

// exactIntPow returns b**k when the result fits in maxExactInt.
func exactIntPow(b int64, k float64) (int64, bool) {
	switch {
	case k == 0 || b == 1:
		return 1, true
	case b == 0:
		return 0, true
	case b == -1:
		if math.Mod(k, 2) == 0 {
			return 1, true
		}
		return -1, true
	case k > 53:
		// |b| >= 2, so the result is at least 2**54
		return 0, false
	}
	r := new(big.Int).Exp(big.NewInt(b), big.NewInt(int64(k)), nil)
	if r.CmpAbs(big.NewInt(maxExactInt)) > 0 {
		return 0, false
	}
	return r.Int64(), true
}

func (n Number) conj() Number {
	return Number{Type: n.Type, Value: cmplx.Conj(n.Value)}
}
