package representation

import "errors"

var (
	// ErrNotImplementedRule means an atom has no rule for the requested basis.
	ErrNotImplementedRule = errors.New("no representation rule")
	// ErrBasisResolution means no usable basis could be found for a fallback.
	ErrBasisResolution = errors.New("basis could not be resolved")
	// ErrType means a node of the wrong kind reached a handler.
	ErrType = errors.New("unexpected expression type")
	// ErrInvalidInput means an option or an atom label is malformed or out
	// of range. Rules wrap it around errors the caller can correct.
	ErrInvalidInput = errors.New("invalid input")
)

// recoverable reports whether a fallback failure should be swallowed in
// favour of the original error.
func recoverable(err error) bool {
	return errors.Is(err, ErrNotImplementedRule) || errors.Is(err, ErrBasisResolution)
}
