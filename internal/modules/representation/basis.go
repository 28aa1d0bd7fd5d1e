package representation

import (
	"fmt"

	"github.com/aristath/qrep/internal/qexpr"
)

// ResolveBasis returns explicit when set, otherwise the natural basis of obj.
func ResolveBasis(obj qexpr.Expr, explicit qexpr.Basis) (qexpr.Basis, error) {
	if explicit != nil {
		return explicit, nil
	}
	provider, ok := obj.(qexpr.BasisOperatorProvider)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no natural basis", ErrBasisResolution, obj)
	}
	factory := provider.BasisOperator()
	if factory == nil {
		return nil, fmt.Errorf("%w: %s has no natural basis", ErrBasisResolution, obj)
	}
	return factory(), nil
}

// basisPair fetches the two consecutive basis kets starting at index.
func basisPair(basis qexpr.Basis, index int) ([]qexpr.State, error) {
	if !basis.HasBasisSet() {
		return nil, fmt.Errorf("%w: basis %s has no basis set", ErrBasisResolution, basis.Kind())
	}
	kets, err := basis.BasisSet(index, 2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBasisResolution, err)
	}
	if len(kets) != 2 {
		return nil, fmt.Errorf("%w: basis %s returned %d kets", ErrBasisResolution, basis.Kind(), len(kets))
	}
	return kets, nil
}
