// Package catalog maps the class names used in encoded expressions to the
// quantum objects that implement them.
package catalog

import (
	"fmt"
	"sort"

	"github.com/aristath/qrep/internal/modules/oscillator"
	"github.com/aristath/qrep/internal/modules/spin"
	"github.com/aristath/qrep/internal/qexpr"
)

// Entry describes one registered object.
type Entry struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Labels      string `json:"labels,omitempty"`
	Description string `json:"description"`
}

const (
	KindState    = "state"
	KindOperator = "operator"
	KindBasis    = "basis"
)

// StateFactory builds a ket from its label.
type StateFactory func(label []qexpr.Expr) (qexpr.State, error)

// OperatorFactory builds an operator from its label.
type OperatorFactory func(label []qexpr.Expr) (qexpr.Operator, error)

// Registry resolves names to kets, bras, operators and bases. It is
// populated at construction and read-only afterwards.
type Registry struct {
	states    map[string]StateFactory
	operators map[string]OperatorFactory
	bases     map[string]func() qexpr.Basis
	entries   []Entry
}

// New returns a registry holding the generic objects, the spin objects and
// the harmonic oscillator objects.
func New() *Registry {
	r := &Registry{
		states:    make(map[string]StateFactory),
		operators: make(map[string]OperatorFactory),
		bases:     make(map[string]func() qexpr.Basis),
	}
	registerGeneric(r)
	registerSpin(r)
	registerOscillator(r)
	return r
}

// RegisterState adds a ket family. Bras are the duals of its kets.
func (r *Registry) RegisterState(name, labels, description string, f StateFactory) {
	r.states[name] = f
	r.entries = append(r.entries, Entry{Name: name, Kind: KindState, Labels: labels, Description: description})
}

// RegisterOperator adds an operator.
func (r *Registry) RegisterOperator(name, labels, description string, f OperatorFactory) {
	r.operators[name] = f
	r.entries = append(r.entries, Entry{Name: name, Kind: KindOperator, Labels: labels, Description: description})
}

// RegisterBasis adds a named basis.
func (r *Registry) RegisterBasis(name, description string, f func() qexpr.Basis) {
	r.bases[name] = f
	r.entries = append(r.entries, Entry{Name: name, Kind: KindBasis, Description: description})
}

func (r *Registry) Ket(class string, label []qexpr.Expr) (qexpr.State, error) {
	f, ok := r.states[class]
	if !ok {
		return nil, fmt.Errorf("unknown state class %q", class)
	}
	return f(label)
}

func (r *Registry) Bra(class string, label []qexpr.Expr) (qexpr.State, error) {
	k, err := r.Ket(class, label)
	if err != nil {
		return nil, err
	}
	return k.Dual(), nil
}

func (r *Registry) Operator(class string, label []qexpr.Expr) (qexpr.Operator, error) {
	f, ok := r.operators[class]
	if !ok {
		return nil, fmt.Errorf("unknown operator %q", class)
	}
	return f(label)
}

func (r *Registry) Basis(name string) (qexpr.Basis, error) {
	f, ok := r.bases[name]
	if !ok {
		return nil, fmt.Errorf("unknown basis %q", name)
	}
	return f(), nil
}

// Entries lists the registered objects sorted by kind, then name.
func (r *Registry) Entries() []Entry {
	out := append([]Entry(nil), r.entries...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func labelCount(class string, label []qexpr.Expr, n int) error {
	if len(label) != n {
		return fmt.Errorf("%s takes %d labels, got %d", class, n, len(label))
	}
	return nil
}

func registerGeneric(r *Registry) {
	r.RegisterState("Ket", "any", "Generic ket without representation rules",
		func(label []qexpr.Expr) (qexpr.State, error) {
			if len(label) == 0 {
				return nil, fmt.Errorf("Ket needs at least one label")
			}
			return qexpr.NewKet(label...), nil
		})
	r.RegisterOperator("Operator", "name", "Generic operator without representation rules",
		func(label []qexpr.Expr) (qexpr.Operator, error) {
			if err := labelCount("Operator", label, 1); err != nil {
				return nil, err
			}
			return qexpr.NewOperator(label[0].String()), nil
		})
	r.RegisterOperator("HermitianOperator", "name", "Generic Hermitian operator",
		func(label []qexpr.Expr) (qexpr.Operator, error) {
			if err := labelCount("HermitianOperator", label, 1); err != nil {
				return nil, err
			}
			return qexpr.NewHermitianOperator(label[0].String()), nil
		})
}

func registerSpin(r *Registry) {
	r.RegisterState(spin.Family, "j, m", "Jz eigenstate |j,m>",
		func(label []qexpr.Expr) (qexpr.State, error) {
			if err := labelCount(spin.Family, label, 2); err != nil {
				return nil, err
			}
			return spin.NewKet(label[0], label[1]), nil
		})
	for _, c := range []spin.Component{spin.Z, spin.X, spin.Y, spin.Raising, spin.Lowering, spin.Squared} {
		c := c
		r.RegisterOperator(c.String(), "", "Angular momentum operator "+c.String(),
			func(label []qexpr.Expr) (qexpr.Operator, error) {
				if err := labelCount(c.String(), label, 0); err != nil {
					return nil, err
				}
				return spin.NewOperator(c), nil
			})
	}
	r.RegisterBasis(string(spin.KindJz), "Jz eigenbasis, spin from the j option (default 1/2)",
		func() qexpr.Basis { return spin.Jz() })
	r.RegisterBasis(string(spin.KindJx), "Jx eigenbasis (spin 1/2 states only)",
		func() qexpr.Basis { return spin.Jx() })
}

func registerOscillator(r *Registry) {
	r.RegisterState(oscillator.Family, "n", "Harmonic oscillator number state |n>",
		func(label []qexpr.Expr) (qexpr.State, error) {
			if err := labelCount(oscillator.Family, label, 1); err != nil {
				return nil, err
			}
			return oscillator.NewKet(label[0]), nil
		})
	for _, role := range []oscillator.Role{oscillator.Number, oscillator.Raising, oscillator.Lowering, oscillator.Hamiltonian} {
		role := role
		r.RegisterOperator(role.String(), "", "Harmonic oscillator operator "+role.String(),
			func(label []qexpr.Expr) (qexpr.Operator, error) {
				if err := labelCount(role.String(), label, 0); err != nil {
					return nil, err
				}
				return oscillator.NewOperator(role), nil
			})
	}
	r.RegisterBasis(string(oscillator.KindN), "Number state basis, truncated to the ndim option (default 4)",
		func() qexpr.Basis { return oscillator.N() })
}
