package sparsity

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/colorjac/jacobian"
	"github.com/katalvlaran/colorjac/perturb"
)

// Default probe parameters. Two passes give two independent random deltas
// per column: the probability that both cancel a true dependency below the
// floor is negligible for non-pathological models, and the union can only
// widen the pattern. The floor sits well below any derivative of interest
// but above accumulated float64 round-off for unit-scale models.
const (
	DefaultPasses     = 2
	DefaultNoiseFloor = 1e-15
	DefaultDelta      = 1e-6
)

// Options configures a probe run. Zero-value fields take the documented
// defaults via DefaultOptions.
type Options struct {
	// Passes is the number of independent randomized probe passes whose
	// detections are unioned. Must be >= 1.
	Passes int

	// NoiseFloor is the absolute delta magnitude below which a result row
	// is considered numerically unmoved.
	NoiseFloor float64

	// Delta scales the random perturbation: each column receives a delta
	// drawn uniformly from [Delta, 2·Delta), guaranteed nonzero.
	Delta float64

	// BeforePass, if non-nil, runs before each pass with the pass index and
	// the probe's RNG. Callers use it to re-randomize collaborating state —
	// typically jacobian.(*Store).Randomize — so declared-structure values
	// cannot conspire to cancel.
	BeforePass func(pass int, rng *rand.Rand)
}

// DefaultOptions returns the documented probe defaults.
func DefaultOptions() Options {
	return Options{Passes: DefaultPasses, NoiseFloor: DefaultNoiseFloor, Delta: DefaultDelta}
}

// Probe empirically discovers the structural sparsity pattern of the
// Jacobian relating the model's result vector (in the given mode) to the
// flattened column space described by cols.
//
// Algorithm: for each pass, each column in turn is perturbed with an
// independent random nonzero delta and the model is evaluated once through
// perturb.Run; rows whose |result − base| exceeds the noise floor are
// marked. Passes union their marks — the pattern only widens. The model's
// sparsity structure is assumed invariant across a run, so one probe per
// requested Jacobian suffices; re-probing every iteration is wasted work.
//
// rng may be nil, in which case the deterministic seed-0 stream is used.
// Probe deltas are always real, so the same probe serves finite-difference
// and complex-step models alike.
//
// Cost: Passes × cols.Total() model evaluations.
func Probe[T perturb.Scalar](model perturb.Model[T], cols *jacobian.Layout, mode perturb.Mode, rng *rand.Rand, opts Options) (*Pattern, error) {
	if model == nil {
		return nil, perturb.ErrNilModel
	}
	if cols == nil {
		return nil, ErrNilLayout
	}
	if opts.Passes < 1 || opts.NoiseFloor <= 0 || opts.Delta <= 0 {
		return nil, fmt.Errorf("%w: passes=%d floor=%g delta=%g",
			ErrBadOptions, opts.Passes, opts.NoiseFloor, opts.Delta)
	}
	if rng == nil {
		rng = NewRNG(0)
	}

	nrows := len(model.Result(mode))
	ncols := cols.Total()
	pat, err := NewPattern(nrows, ncols)
	if err != nil {
		return nil, err
	}

	cache := make([]T, nrows)
	out := make([]T, nrows)
	pts := make([]perturb.Perturbation[T], 1)

	for pass := 0; pass < opts.Passes; pass++ {
		if opts.BeforePass != nil {
			opts.BeforePass(pass, rng)
		}
		for j := 0; j < ncols; j++ {
			name, local, ferr := cols.FindIndex(j)
			if ferr != nil {
				return nil, ferr
			}
			pts[0] = perturb.Perturbation[T]{
				Target:  name,
				Indices: []int{local},
				Delta:   perturb.FromReal[T]((rng.Float64() + 1.0) * opts.Delta),
			}
			if err = perturb.Run[T](model, pts, mode, cache, out); err != nil {
				return nil, err
			}
			for i := 0; i < nrows; i++ {
				if perturb.Abs(out[i]-cache[i]) > opts.NoiseFloor {
					pat.data[i*ncols+j] = 1
				}
			}
		}
	}
	return pat, nil
}
