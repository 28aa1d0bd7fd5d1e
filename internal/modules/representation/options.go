package representation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/qexpr"
)

// Options configures a representation call. It is a value: every With*
// method returns a modified copy, so sibling subtrees never share state.
type Options struct {
	Format backend.Format
	Basis  qexpr.Basis
	// Index is the 1-based basis slot used by the fallbacks. Zero means
	// unset.
	Index int
	// Extra carries rule specific settings such as "ndim". It is never
	// written to after construction.
	Extra map[string]any
}

// NewOptions returns options for format with no basis and no index.
func NewOptions(format backend.Format) Options {
	return Options{Format: format}
}

func (o Options) WithIndex(index int) Options {
	o.Index = index
	return o
}

func (o Options) WithBasis(basis qexpr.Basis) Options {
	o.Basis = basis
	return o
}

// WithExtra returns a copy with key set to value.
func (o Options) WithExtra(key string, value any) Options {
	extra := make(map[string]any, len(o.Extra)+1)
	for k, v := range o.Extra {
		extra[k] = v
	}
	extra[key] = value
	o.Extra = extra
	return o
}

// IndexOrDefault returns Index, or 1 when it is unset.
func (o Options) IndexOrDefault() int {
	if o.Index <= 0 {
		return 1
	}
	return o.Index
}

func (o Options) format() backend.Format {
	if o.Format == "" {
		return backend.Symbolic
	}
	return o.Format
}

// Int reads an integer extra. JSON decoding yields float64, so whole floats
// are accepted.
func (o Options) Int(key string, def int) (int, error) {
	v, ok := o.Extra[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("%w: option %s: expected an integer, got %v", ErrInvalidInput, key, v)
}

// Fingerprint describes the options deterministically, for cache keys and
// logs.
func (o Options) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "format=%s", o.format())
	if o.Basis != nil {
		basis := string(o.Basis.Kind())
		if e, ok := o.Basis.(qexpr.Expr); ok {
			basis = qexpr.Key(e)
		}
		fmt.Fprintf(&b, ";basis=%s", basis)
	}
	if o.Index > 0 {
		fmt.Fprintf(&b, ";index=%d", o.Index)
	}
	keys := make([]string, 0, len(o.Extra))
	for k := range o.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, ";%s=%v", k, o.Extra[k])
	}
	return b.String()
}
