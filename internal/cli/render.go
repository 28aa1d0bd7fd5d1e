package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/aristath/qrep/internal/backend"
)

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderPayload prints a result: scalars and symbolic results on one line,
// matrices as tables, tensor products factor by factor.
func renderPayload(w io.Writer, p backend.Payload) error {
	switch p.Kind {
	case backend.KindScalar:
		_, err := fmt.Fprintln(w, formatComplex(p.Re[0], p.Im[0]))
		return err
	case backend.KindSymbolic:
		_, err := fmt.Fprintln(w, p.Expr)
		return err
	case backend.KindDense:
		renderDense(w, p)
		return nil
	case backend.KindSparse:
		renderSparse(w, p)
		return nil
	case backend.KindTensor:
		for i, f := range p.Factors {
			if _, err := fmt.Fprintf(w, "factor %d:\n", i+1); err != nil {
				return err
			}
			if err := renderPayload(w, f); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("cannot render %s result", p.Kind)
}

func renderDense(w io.Writer, p backend.Payload) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := table.Row{""}
	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignRight}}
	for j := 0; j < p.Cols; j++ {
		header = append(header, j)
		configs = append(configs, table.ColumnConfig{Number: j + 2, Align: text.AlignRight})
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	for i := 0; i < p.Rows; i++ {
		row := table.Row{i}
		for j := 0; j < p.Cols; j++ {
			k := i*p.Cols + j
			row = append(row, formatComplex(p.Re[k], p.Im[k]))
		}
		t.AppendRow(row)
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d x %d)\n", p.Rows, p.Cols)
}

func renderSparse(w io.Writer, p backend.Payload) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Row", "Col", "Value"})
	for _, e := range p.Entries {
		t.AppendRow(table.Row{e.Row, e.Col, formatComplex(e.Re, e.Im)})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d x %d, %d stored)\n", p.Rows, p.Cols, len(p.Entries))
}

// formatComplex prints re+im·i compactly, dropping zero parts.
func formatComplex(re, im float64) string {
	if re == 0 {
		re = 0 // drop the sign of -0
	}
	if im == 0 {
		im = 0
	}
	f := func(x float64) string { return strconv.FormatFloat(x, 'g', 6, 64) }
	switch {
	case im == 0:
		return f(re)
	case re == 0:
		return f(im) + "i"
	case im < 0:
		return f(re) + "-" + f(-im) + "i"
	}
	return f(re) + "+" + f(im) + "i"
}
