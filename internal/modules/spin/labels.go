package spin

import (
	"fmt"
	"math"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/modules/representation"
	"github.com/aristath/qrep/internal/qexpr"
)

// Spin quantum numbers are half-integers. They are handled internally as
// twice their value so every computation stays in int64.

// twice returns 2e when e is an integer or a half-integer literal.
func twice(e qexpr.Expr) (int64, bool) {
	switch v := e.(type) {
	case qexpr.Integer:
		return 2 * int64(v), true
	case *qexpr.Rational:
		r := v.Rat()
		if !r.Denom().IsInt64() || !r.Num().IsInt64() {
			return 0, false
		}
		switch r.Denom().Int64() {
		case 1:
			return 2 * r.Num().Int64(), true
		case 2:
			return r.Num().Int64(), true
		}
	case qexpr.Float:
		f := 2 * float64(v)
		if f == math.Trunc(f) {
			return int64(f), true
		}
	}
	return 0, false
}

// half returns n/2 as an exact number.
func half(n int64) qexpr.Expr { return qexpr.NewRational(n, 2) }

// validPair reports whether (j, m) is an allowed pair of doubled quantum
// numbers.
func validPair(twoJ, twoM int64) bool {
	return twoJ >= 0 && twoM >= -twoJ && twoM <= twoJ && (twoJ-twoM)%2 == 0
}

// ladder returns sqrt(j(j+1) - m(m+s)) for the doubled values, the
// coefficient of J+ (s=1) or J- (s=-1) acting on |j,m>.
func ladder(twoJ, twoM, s int64) qexpr.Expr {
	n := twoJ*(twoJ+2) - twoM*(twoM+2*s)
	return qexpr.Mul(qexpr.NewRational(1, 2), qexpr.Sqrt(qexpr.Integer(n)))
}

// spinOption reads the "j" option. Integers, half-integer floats and
// fraction strings such as "3/2" are accepted.
func spinOption(opts representation.Options) (int64, bool, error) {
	v, ok := opts.Extra["j"]
	if !ok {
		return 0, false, nil
	}
	var e qexpr.Expr
	switch x := v.(type) {
	case int:
		e = qexpr.Integer(x)
	case int64:
		e = qexpr.Integer(x)
	case float64:
		e = qexpr.Float(x)
	case string:
		n, err := qexpr.ParseNumber(x)
		if err != nil {
			return 0, false, fmt.Errorf("%w: option j: %v", representation.ErrInvalidInput, err)
		}
		e = n
	case qexpr.Expr:
		e = x
	}
	if e == nil {
		return 0, false, fmt.Errorf("%w: option j: unsupported value %v", representation.ErrInvalidInput, v)
	}
	twoJ, ok := twice(e)
	if !ok || twoJ < 0 {
		return 0, false, fmt.Errorf("%w: option j: %v is not a non-negative half-integer", representation.ErrInvalidInput, v)
	}
	if err := checkSize(twoJ); err != nil {
		return 0, false, err
	}
	return twoJ, true, nil
}

// checkSize rejects spins whose 2j+1 dimensional space exceeds the backend
// limit.
func checkSize(twoJ int64) error {
	if twoJ >= backend.MaxDim {
		return fmt.Errorf("%w: spin %s needs %d dimensions, above %d", representation.ErrInvalidInput, half(twoJ), twoJ+1, backend.MaxDim)
	}
	return nil
}
