package qexpr

// term is one summand of an expanded product: a scalar coefficient times an
// ordered sequence of non-scalar factors.
type term struct {
	coeff Expr
	ops   []Expr
}

// Apply lets operators act on the kets to their right and closes adjacent
// bra-ket pairs into evaluated inner products. Sums are distributed. Factors
// without a known action are left in place.
func Apply(e Expr) Expr {
	switch v := e.(type) {
	case *Sum:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = Apply(t)
		}
		return Add(terms...)
	case *Product:
		return collect(applyFactors(v.factors))
	case *InnerProduct:
		return v.Doit()
	}
	return e
}

func applyFactors(factors []Expr) []term {
	terms := []term{{coeff: Integer(1)}}
	for i := len(factors) - 1; i >= 0; i-- {
		var next []term
		for _, t := range terms {
			next = append(next, applyFactor(factors[i], t)...)
		}
		terms = merge(next)
	}
	return terms
}

// applyFactor prepends f to t, acting with it where possible.
func applyFactor(f Expr, t term) []term {
	if IsScalar(f) {
		return []term{{coeff: Mul(f, t.coeff), ops: t.ops}}
	}
	switch v := f.(type) {
	case *Sum:
		var out []term
		for _, s := range v.terms {
			out = append(out, applyFactor(s, t)...)
		}
		return out
	case *Product:
		out := []term{t}
		for i := len(v.factors) - 1; i >= 0; i-- {
			var next []term
			for _, o := range out {
				next = append(next, applyFactor(v.factors[i], o)...)
			}
			out = next
		}
		return out
	case *Power:
		if n, ok := v.Exp.(Integer); ok && n > 0 && n <= MaxExactExponent && IsOperator(v.Base) {
			out := []term{t}
			for k := Integer(0); k < n; k++ {
				var next []term
				for _, o := range out {
					next = append(next, applyFactor(v.Base, o)...)
				}
				out = merge(next)
			}
			return out
		}
	}

	if len(t.ops) > 0 && IsKet(t.ops[0]) {
		ket := t.ops[0].(State)
		switch {
		case IsOperator(f):
			if actor, ok := f.(Actor); ok {
				if r, ok := actor.ApplyTo(ket); ok {
					var out []term
					for _, rt := range expand(r) {
						ops := append(append([]Expr(nil), rt.ops...), t.ops[1:]...)
						out = append(out, term{coeff: Mul(rt.coeff, t.coeff), ops: ops})
					}
					return out
				}
			}
		case IsBra(f):
			ip := NewInnerProduct(f.(State), ket).Doit()
			return []term{{coeff: Mul(ip, t.coeff), ops: t.ops[1:]}}
		}
	}
	ops := append([]Expr{f}, t.ops...)
	return []term{{coeff: t.coeff, ops: ops}}
}

// expand splits e into its scalar-weighted summands.
func expand(e Expr) []term {
	switch v := e.(type) {
	case *Sum:
		var out []term
		for _, t := range v.terms {
			out = append(out, expand(t)...)
		}
		return out
	case *Product:
		t := term{coeff: Integer(1)}
		for _, f := range v.factors {
			if IsScalar(f) {
				t.coeff = Mul(t.coeff, f)
				continue
			}
			t.ops = append(t.ops, f)
		}
		return []term{t}
	}
	if IsScalar(e) {
		return []term{{coeff: e}}
	}
	return []term{{coeff: Integer(1), ops: []Expr{e}}}
}

func collect(terms []term) Expr {
	out := make([]Expr, 0, len(terms))
	for _, t := range terms {
		out = append(out, Mul(append([]Expr{t.coeff}, t.ops...)...))
	}
	return Add(out...)
}

// merge combines terms with equal factor sequences and drops terms whose
// coefficient vanished, so repeated action cannot multiply the term count
// beyond the number of distinct states.
func merge(terms []term) []term {
	out := make([]term, 0, len(terms))
	for _, t := range terms {
		found := false
		for i := range out {
			if argsEqual(out[i].ops, t.ops) {
				out[i].coeff = Add(out[i].coeff, t.coeff)
				found = true
				break
			}
		}
		if !found {
			out = append(out, t)
		}
	}

	kept := out[:0]
	for _, t := range out {
		if !isZero(t.coeff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return []term{{coeff: Integer(0)}}
	}
	return kept
}
