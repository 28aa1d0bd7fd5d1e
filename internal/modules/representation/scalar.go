package representation

import (
	"fmt"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/qexpr"
)

// ToScalar converts a numeric literal into a native number. Fractions become
// floats; constants and the imaginary unit become complex numbers.
func ToScalar(e qexpr.Expr) (backend.Number, error) {
	switch v := e.(type) {
	case qexpr.Integer:
		return backend.Int(int64(v)), nil
	case qexpr.Float:
		return backend.Real(float64(v)), nil
	case *qexpr.Rational:
		return backend.Real(v.Float64()), nil
	case qexpr.Complex:
		return backend.Cplx(complex128(v)), nil
	case qexpr.NumberSymbol:
		return backend.Cplx(complex(v.Value, 0)), nil
	case qexpr.ImaginaryUnit:
		return backend.Cplx(1i), nil
	}
	return backend.Number{}, fmt.Errorf("%w: expected number, got %s", ErrType, e)
}
