package representation

import (
	"fmt"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/qexpr"
)

// Representable is implemented by atoms that can represent themselves.
// Failing with ErrNotImplementedRule starts the fallback chain.
type Representable interface {
	Represent(opts Options) (backend.Value, error)
}

// Formatter is implemented by states that convert evaluated brackets into
// the requested format themselves.
type Formatter interface {
	FormatScalar(value qexpr.Expr, format backend.Format) (backend.Value, error)
}

// Rule represents an atom in one kind of basis. basis is nil when the
// atom's default basis was chosen.
type Rule func(basis qexpr.Basis, opts Options) (backend.Value, error)

// Rules maps basis kinds to the rules an atom knows.
type Rules struct {
	// Default is the kind used when no basis is given. Empty means the atom
	// has no default basis.
	Default qexpr.BasisKind
	ByKind  map[qexpr.BasisKind]Rule
}

// Dispatch picks the rule for opts.Basis, or the default rule when no basis
// is set.
func (r Rules) Dispatch(opts Options) (backend.Value, error) {
	if opts.Basis == nil {
		if r.Default == "" {
			return nil, fmt.Errorf("%w: no default basis", ErrNotImplementedRule)
		}
		rule, ok := r.ByKind[r.Default]
		if !ok {
			return nil, fmt.Errorf("%w: default basis %s", ErrNotImplementedRule, r.Default)
		}
		return rule(nil, opts)
	}
	rule, ok := r.ByKind[opts.Basis.Kind()]
	if !ok {
		return nil, fmt.Errorf("%w: basis %s", ErrNotImplementedRule, opts.Basis.Kind())
	}
	return rule(opts.Basis, opts)
}

// Kinds lists the basis kinds the rules cover.
func (r Rules) Kinds() []qexpr.BasisKind {
	kinds := make([]qexpr.BasisKind, 0, len(r.ByKind))
	for k := range r.ByKind {
		kinds = append(kinds, k)
	}
	return kinds
}
