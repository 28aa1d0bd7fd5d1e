package qexpr

import "fmt"

// InnerProduct is the unevaluated bracket <Bra|Ket>.
type InnerProduct struct {
	Bra State
	Ket State
}

// NewInnerProduct builds <bra|ket>. It panics when the arguments are not a
// bra and a ket in that order.
func NewInnerProduct(bra, ket State) *InnerProduct {
	if !bra.IsBra() || ket.IsBra() {
		panic(fmt.Sprintf("qexpr: inner product needs a bra and a ket, got %s and %s", bra, ket))
	}
	return &InnerProduct{Bra: bra, Ket: ket}
}

func (ip *InnerProduct) String() string {
	return "<" + joinLabel(ip.Bra.Label()) + "|" + joinLabel(ip.Ket.Label()) + ">"
}

func (ip *InnerProduct) Equal(other Expr) bool {
	o, ok := other.(*InnerProduct)
	return ok && ip.Bra.Equal(o.Bra) && ip.Ket.Equal(o.Ket)
}

// Doit evaluates the bracket. The ket is asked first; failing that the
// conjugate of <ket†|bra†> is tried. If neither side knows the other the
// bracket is returned unevaluated.
func (ip *InnerProduct) Doit() Expr {
	if ev, ok := ip.Ket.(InnerProductEvaluator); ok {
		if r, ok := ev.EvalInnerProduct(ip.Bra); ok {
			return r
		}
	}
	if ev, ok := ip.Bra.Dual().(InnerProductEvaluator); ok {
		if r, ok := ev.EvalInnerProduct(ip.Ket.Dual()); ok {
			return Conj(r)
		}
	}
	return ip
}
