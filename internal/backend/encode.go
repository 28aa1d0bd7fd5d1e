package backend

// Payload is the transport form of a Value, shared by the HTTP API, the CLI
// and the result cache.
type Payload struct {
	Kind    Kind           `json:"kind" msgpack:"kind"`
	Type    string         `json:"type,omitempty" msgpack:"type,omitempty"`
	Rows    int            `json:"rows,omitempty" msgpack:"rows,omitempty"`
	Cols    int            `json:"cols,omitempty" msgpack:"cols,omitempty"`
	Re      []float64      `json:"re,omitempty" msgpack:"re,omitempty"`
	Im      []float64      `json:"im,omitempty" msgpack:"im,omitempty"`
	Entries []EntryPayload `json:"entries,omitempty" msgpack:"entries,omitempty"`
	Expr    string         `json:"expr,omitempty" msgpack:"expr,omitempty"`
	Factors []Payload      `json:"factors,omitempty" msgpack:"factors,omitempty"`
}

// EntryPayload is one stored element of a sparse result.
type EntryPayload struct {
	Row int     `json:"row" msgpack:"row"`
	Col int     `json:"col" msgpack:"col"`
	Re  float64 `json:"re" msgpack:"re"`
	Im  float64 `json:"im" msgpack:"im"`
}

// Encode converts v into its transport form.
func Encode(v Value) Payload {
	switch x := v.(type) {
	case Number:
		return Payload{
			Kind: KindScalar,
			Type: x.Type.String(),
			Re:   []float64{real(x.Value)},
			Im:   []float64{imag(x.Value)},
		}
	case *Dense:
		r, c := x.Dims()
		p := Payload{Kind: KindDense, Rows: r, Cols: c, Re: make([]float64, 0, r*c), Im: make([]float64, 0, r*c)}
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				z := x.At(i, j)
				p.Re = append(p.Re, real(z))
				p.Im = append(p.Im, imag(z))
			}
		}
		return p
	case *Sparse:
		p := Payload{Kind: KindSparse, Rows: x.rows, Cols: x.cols}
		for _, e := range x.Entries() {
			p.Entries = append(p.Entries, EntryPayload{Row: e.Row, Col: e.Col, Re: real(e.Value), Im: imag(e.Value)})
		}
		return p
	case Expr:
		return Payload{Kind: KindSymbolic, Expr: x.E.String()}
	case *Tensor:
		p := Payload{Kind: KindTensor, Factors: make([]Payload, len(x.Factors))}
		for i, f := range x.Factors {
			p.Factors[i] = Encode(f)
		}
		return p
	}
	return Payload{Kind: v.Kind(), Expr: v.String()}
}
