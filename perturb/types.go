package perturb

// Scalar is the numeric domain the runner operates in.
// float64 serves finite difference; complex128 serves complex step,
// where the delta is purely imaginary and the derivative lives in the
// imaginary part of the result.
type Scalar interface {
	float64 | complex128
}

// Mode selects which evaluation entry point of the model is exercised
// and which vector is observed afterwards.
type Mode int

const (
	// Total re-solves the whole model nonlinearly and observes the
	// output vector. Used for total-derivative approximation.
	Total Mode = iota

	// Partial evaluates a single block's residual function and observes
	// the residual vector. Used for partial-derivative approximation.
	Partial
)

// String returns the conventional name of the mode.
func (m Mode) String() string {
	switch m {
	case Total:
		return "total"
	case Partial:
		return "partial"
	default:
		return "unknown"
	}
}

// Model is the narrow surface the runner consumes. Implementations own the
// actual state storage; the runner only mutates it through flat views and
// always undoes its mutations.
//
// View must resolve names against outputs first, then inputs: a variable
// aliased as state (an output perturbed during total-derivative probing)
// shadows an input of the same name.
type Model[T Scalar] interface {
	// View returns a flat, writable view over the named variable,
	// or nil if the name is unknown.
	View(name string) []T

	// Evaluate runs the model once in the given mode, updating the
	// vector returned by Result(mode) in place.
	Evaluate(mode Mode) error

	// Result returns the shared result vector for the mode: the output
	// vector for Total, the residual vector for Partial. The slice is a
	// live view; Evaluate mutates it.
	Result(mode Mode) []T
}

// Perturbation is one (target, index-set, delta) triple. Delta is applied
// additively to every listed index of the target variable.
type Perturbation[T Scalar] struct {
	// Target is the variable name, resolved through Model.View.
	Target string

	// Indices are local indices into the target's flat view.
	Indices []int

	// Delta is the additive step. Real for finite difference; purely
	// imaginary for complex step. The runner does not interpret it.
	Delta T
}
