package qexpr

import (
	"fmt"
	"strconv"
	"strings"
)

// Keyer is implemented by atoms whose identity goes beyond their class and
// label, for example an operator bound to a particular spin.
type Keyer interface {
	Key() string
}

// Key returns a canonical encoding of e. Two expressions share a key only
// when they have the same shape, the same atom types and classes, and the
// same labels and literals. Unlike String, atoms of different families
// never collide.
func Key(e Expr) string {
	var b strings.Builder
	writeKey(&b, e)
	return b.String()
}

func writeKey(b *strings.Builder, e Expr) {
	switch v := e.(type) {
	case State:
		fmt.Fprintf(b, "%T{%s;bra=%t;", e, strconv.Quote(v.Class()), v.IsBra())
		writeKeys(b, "label", v.Label()...)
		writeExtraKey(b, e)
		b.WriteByte('}')
	case Operator:
		fmt.Fprintf(b, "%T{%s;", e, strconv.Quote(v.Class()))
		writeKeys(b, "label", v.Label()...)
		writeExtraKey(b, e)
		b.WriteByte('}')
	case *Sum:
		writeKeys(b, "sum", v.terms...)
	case *Product:
		writeKeys(b, "product", v.factors...)
	case *Power:
		writeKeys(b, "power", v.Base, v.Exp)
	case *TensorProduct:
		writeKeys(b, "tensor", v.factors...)
	case *Adjoint:
		writeKeys(b, "adjoint", v.Arg)
	case *Commutator:
		writeKeys(b, "commutator", v.A, v.B)
	case *AntiCommutator:
		writeKeys(b, "anticommutator", v.A, v.B)
	case *Conjugate:
		writeKeys(b, "conjugate", v.Arg)
	case *InnerProduct:
		writeKeys(b, "innerproduct", v.Bra, v.Ket)
	case *Matrix:
		writeKeys(b, fmt.Sprintf("matrix%dx%d", v.rows, v.cols), v.entries...)
	default:
		fmt.Fprintf(b, "%T(%s)", e, strconv.Quote(e.String()))
	}
}

func writeKeys(b *strings.Builder, name string, args ...Expr) {
	b.WriteString(name)
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		writeKey(b, a)
	}
	b.WriteByte(')')
}

func writeExtraKey(b *strings.Builder, e Expr) {
	if k, ok := e.(Keyer); ok {
		b.WriteString(";")
		b.WriteString(strconv.Quote(k.Key()))
	}
}
