package approx

import "errors"

var (
	// ErrNilModel indicates a Manager constructed without a model.
	ErrNilModel = errors.New("approx: nil model")

	// ErrNilStore indicates a Manager constructed without a Jacobian store.
	ErrNilStore = errors.New("approx: nil jacobian store")

	// ErrBadMethod indicates complex step requested over a real-valued model.
	ErrBadMethod = errors.New("approx: complex step requires a complex-valued model")

	// ErrBadStep indicates a negative perturbation step.
	ErrBadStep = errors.New("approx: step must be positive")

	// ErrBadOption indicates an out-of-range lifecycle option.
	ErrBadOption = errors.New("approx: invalid option")

	// ErrBadWrtPattern indicates a malformed input-name glob pattern.
	ErrBadWrtPattern = errors.New("approx: malformed wrt pattern")

	// ErrNoWrtMatch indicates wrt patterns that match no input variable.
	ErrNoWrtMatch = errors.New("approx: wrt patterns match no input")

	// ErrNoCache indicates a static-coloring or save request without a
	// configured cache and key.
	ErrNoCache = errors.New("approx: no coloring cache configured")

	// ErrNoColoring indicates SaveColoring before any coloring exists.
	ErrNoColoring = errors.New("approx: no coloring to save")

	// ErrStaticMissing indicates UseFixedColoring with no cached entry
	// under the configured key.
	ErrStaticMissing = errors.New("approx: static coloring not found")

	// ErrSiblingMismatch indicates a shared-class sibling whose probed
	// sparsity disagrees with the published coloring. Fatal: adopting the
	// coloring anyway would silently corrupt derivatives.
	ErrSiblingMismatch = errors.New("approx: sibling sparsity mismatch")
)
