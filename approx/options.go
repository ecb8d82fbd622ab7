package approx

import (
	"log/slog"

	"github.com/katalvlaran/colorjac/colorcache"
)

// Method selects the difference scheme used to resolve Jacobian columns.
type Method int

const (
	// FiniteDifference approximates a column as (perturbed − base) / step.
	// The subtraction costs roughly half the significant digits, hence the
	// relatively coarse default step.
	FiniteDifference Method = iota

	// ComplexStep evaluates at x + i·step and reads imag(result) / step.
	// No subtractive cancellation, so the step can be driven to 1e-30 and
	// the column is exact to machine precision. Requires a model that
	// evaluates in complex arithmetic end to end.
	ComplexStep
)

// String returns the conventional short name of the method.
func (m Method) String() string {
	switch m {
	case FiniteDifference:
		return "fd"
	case ComplexStep:
		return "cs"
	default:
		return "unknown"
	}
}

// Default lifecycle parameters.
const (
	// DefaultFDStep is the finite-difference step when Options.Step is zero.
	DefaultFDStep = 1e-6

	// DefaultCSStep is the complex step when Options.Step is zero.
	DefaultCSStep = 1e-30

	// DefaultMinImprovePct is the minimum percentage of model evaluations a
	// coloring must save before it activates.
	DefaultMinImprovePct = 5.0

	// DefaultNumFullJacs is the number of randomized probe passes used to
	// finalize the sparsity pattern before coloring.
	DefaultNumFullJacs = 2
)

// Options configures a Manager. Zero-value numeric fields take the
// documented defaults via DefaultOptions; Logger, Cache, and Registry stay
// nil unless the corresponding feature is wanted.
type Options struct {
	// Method selects the difference scheme.
	Method Method

	// Step is the perturbation magnitude. Zero means the method default
	// (DefaultFDStep or DefaultCSStep); negative is ErrBadStep.
	Step float64

	// MinImprovePct is the activation threshold: a computed coloring whose
	// ImprovementPct falls below it is deactivated with a warning and
	// evaluation falls back to one run per column. Valid range [0, 100].
	MinImprovePct float64

	// NumFullJacs is the number of full randomized probe passes unioned
	// into the sparsity pattern before coloring. Must be >= 1.
	NumFullJacs int

	// PerInstance, when false, shares one coloring across all sibling
	// managers registered under the same Class in Registry.
	PerInstance bool

	// Wrt optionally restricts the coloring to input variables whose names
	// match any of these glob patterns (path.Match syntax). Columns of
	// unmatched variables are still approximated, one run per column.
	// Empty means every input participates.
	Wrt []string

	// Seed seeds the probe RNG. Seed 0 selects the fixed default stream,
	// so the zero value is still deterministic.
	Seed int64

	// Logger receives the deactivation warning. Nil means slog.Default().
	Logger *slog.Logger

	// Cache and CacheKey locate the persisted coloring for
	// UseFixedColoring and SaveColoring.
	Cache    colorcache.Cache
	CacheKey string

	// Registry and Class identify the sharing group when PerInstance is
	// false. Both are required in that case.
	Registry *Registry
	Class    string
}

// DefaultOptions returns per-instance finite difference with the
// documented defaults.
func DefaultOptions() Options {
	return Options{
		Method:        FiniteDifference,
		MinImprovePct: DefaultMinImprovePct,
		NumFullJacs:   DefaultNumFullJacs,
		PerInstance:   true,
	}
}
