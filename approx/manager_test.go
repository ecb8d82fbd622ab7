package approx_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/colorjac/approx"
	"github.com/katalvlaran/colorjac/coloring"
	"github.com/katalvlaran/colorjac/colorcache"
	"github.com/katalvlaran/colorjac/jacobian"
	"github.com/katalvlaran/colorjac/perturb"
)

// gridModel is y = A·x over one or more named input variables whose
// concatenation forms the column space, generic so the same fixture
// serves finite-difference and complex-step runs.
type gridModel[T perturb.Scalar] struct {
	rows, cols int
	a          []float64 // row-major rows×cols
	vars       []jacobian.Var
	xs         map[string][]T
	y          []T
	evals      int
}

func newGridModel[T perturb.Scalar](rows int, a []float64, vars ...jacobian.Var) *gridModel[T] {
	g := &gridModel[T]{rows: rows, a: a, vars: vars, xs: make(map[string][]T), y: make([]T, rows)}
	for _, v := range vars {
		g.xs[v.Name] = make([]T, v.Size)
		g.cols += v.Size
	}
	return g
}

func (g *gridModel[T]) View(name string) []T { return g.xs[name] }

func (g *gridModel[T]) Evaluate(perturb.Mode) error {
	g.evals++
	for i := range g.y {
		g.y[i] = 0
	}
	col := 0
	for _, v := range g.vars {
		for _, xv := range g.xs[v.Name] {
			for r := 0; r < g.rows; r++ {
				g.y[r] += perturb.FromReal[T](g.a[r*g.cols+col]) * xv
			}
			col++
		}
	}
	return nil
}

func (g *gridModel[T]) Result(perturb.Mode) []T { return g.y }

// denseStore declares one dense ("y", var) pair per input variable.
func denseStore(t *testing.T, rows int, vars ...jacobian.Var) *jacobian.Store {
	t.Helper()
	of, err := jacobian.NewLayout(jacobian.Var{Name: "y", Size: rows})
	require.NoError(t, err)
	wrt, err := jacobian.NewLayout(vars...)
	require.NoError(t, err)
	s, err := jacobian.NewStore("model.block", of, wrt)
	require.NoError(t, err)
	for _, v := range vars {
		require.NoError(t, s.Declare("y", v.Name))
	}
	return s
}

// blockDiag builds a k-block diagonal matrix of dense w×w blocks with
// distinct nonzero entries.
func blockDiag(k, w int) []float64 {
	n := k * w
	a := make([]float64, n*n)
	for b := 0; b < k; b++ {
		for r := 0; r < w; r++ {
			for c := 0; c < w; c++ {
				a[(b*w+r)*n+b*w+c] = float64(1 + b + r + c)
			}
		}
	}
	return a
}

func assertDense(t *testing.T, want, got []float64, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, "entry %d", i)
	}
}

// TestManager_UncoloredFiniteDifference verifies the plain path: one run
// per column, values matching the true Jacobian to finite-difference
// tolerance.
func TestManager_UncoloredFiniteDifference(t *testing.T) {
	a := []float64{
		2, 0, 1,
		0, 3, 0,
		5, 0, 7,
	}
	m := newGridModel[float64](3, a, jacobian.Var{Name: "x", Size: 3})
	store := denseStore(t, 3, jacobian.Var{Name: "x", Size: 3})

	mgr, err := approx.NewManager[float64](m, store, perturb.Total, approx.DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, mgr.Compute())
	assert.Equal(t, approx.Uncolored, mgr.State())
	assert.Equal(t, 3, mgr.Runs(), "one run per column")
	assertDense(t, a, store.Dense(), 1e-6)
}

// TestManager_ColoredMatchesUncolored verifies run-count equivalence: a
// block-diagonal structure colors to the block width, and the colored
// values match the uncolored ground truth to method tolerance.
func TestManager_ColoredMatchesUncolored(t *testing.T) {
	const k, w = 3, 2
	a := blockDiag(k, w)
	xv := jacobian.Var{Name: "x", Size: k * w}

	truth := denseStore(t, k*w, xv)
	plain, err := approx.NewManager[float64](newGridModel[float64](k*w, a, xv), truth, perturb.Total, approx.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, plain.Compute())
	assert.Equal(t, k*w, plain.Runs())

	store := denseStore(t, k*w, xv)
	mgr, err := approx.NewManager[float64](newGridModel[float64](k*w, a, xv), store, perturb.Total, approx.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, mgr.DeclareColoring())

	require.NoError(t, mgr.Compute())
	assert.Equal(t, approx.Active, mgr.State())
	assert.Equal(t, w, mgr.Coloring().NumColors())
	assert.Equal(t, w, mgr.Runs(), "one run per color")
	assertDense(t, truth.Dense(), store.Dense(), 1e-6)

	// Later computes stay colored.
	require.NoError(t, mgr.Compute())
	assert.Equal(t, 2*w, mgr.Runs())
}

// TestManager_ComplexStep verifies the complex-step scheme reconstructs
// the Jacobian to machine precision at the 1e-30 default step, and that
// requesting it over a real-valued model fails.
func TestManager_ComplexStep(t *testing.T) {
	a := []float64{
		2, 0, 1,
		0, 3, 0,
	}
	xv := jacobian.Var{Name: "x", Size: 3}
	store := denseStore(t, 2, xv)
	opts := approx.DefaultOptions()
	opts.Method = approx.ComplexStep

	mgr, err := approx.NewManager[complex128](newGridModel[complex128](2, a, xv), store, perturb.Total, opts)
	require.NoError(t, err)
	require.NoError(t, mgr.DeclareColoring())
	require.NoError(t, mgr.Compute())
	assertDense(t, a, store.Dense(), 1e-12)

	_, err = approx.NewManager[float64](newGridModel[float64](2, a, xv), store, perturb.Total, opts)
	assert.ErrorIs(t, err, approx.ErrBadMethod)
}

// TestManager_ThresholdFallback verifies the activation threshold: a
// 2-block structure saves exactly 50%, so a 60% minimum deactivates with
// a warning and forces one run per column, while 40% activates.
func TestManager_ThresholdFallback(t *testing.T) {
	const k, w = 2, 2
	a := blockDiag(k, w)
	xv := jacobian.Var{Name: "x", Size: k * w}

	var buf bytes.Buffer
	opts := approx.DefaultOptions()
	opts.MinImprovePct = 60
	opts.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	store := denseStore(t, k*w, xv)
	mgr, err := approx.NewManager[float64](newGridModel[float64](k*w, a, xv), store, perturb.Total, opts)
	require.NoError(t, err)
	require.NoError(t, mgr.DeclareColoring())
	require.NoError(t, mgr.Compute())

	assert.Equal(t, approx.Deactivated, mgr.State())
	assert.Nil(t, mgr.Coloring())
	assert.Equal(t, k*w, mgr.Runs(), "fallback is one run per column")
	assert.Contains(t, buf.String(),
		"Coloring was deactivated. Improvement of 50.0% was less than min allowed (60.0%).")
	assert.Contains(t, buf.String(), "model.block")

	// Deactivation is permanent and warned once.
	require.NoError(t, mgr.Compute())
	assert.Equal(t, 2*k*w, mgr.Runs())
	assert.Equal(t, 1, strings.Count(buf.String(), "deactivated"))

	opts.MinImprovePct = 40
	store2 := denseStore(t, k*w, xv)
	mgr2, err := approx.NewManager[float64](newGridModel[float64](k*w, a, xv), store2, perturb.Total, opts)
	require.NoError(t, err)
	require.NoError(t, mgr2.DeclareColoring())
	require.NoError(t, mgr2.Compute())
	assert.Equal(t, approx.Active, mgr2.State())
	assert.Equal(t, w, mgr2.Runs())
}

// TestManager_StaticRoundTrip verifies SaveColoring → UseFixedColoring
// reproduces the colored evaluation without probing, and that loading
// into a structurally different model is a fatal fingerprint error.
func TestManager_StaticRoundTrip(t *testing.T) {
	const k, w = 3, 2
	a := blockDiag(k, w)
	xv := jacobian.Var{Name: "x", Size: k * w}
	cache := colorcache.NewMemory()

	opts := approx.DefaultOptions()
	opts.Cache = cache
	opts.CacheKey = "model.block"

	store := denseStore(t, k*w, xv)
	mgr, err := approx.NewManager[float64](newGridModel[float64](k*w, a, xv), store, perturb.Total, opts)
	require.NoError(t, err)
	require.NoError(t, mgr.DeclareColoring())
	require.NoError(t, mgr.Compute())
	require.NoError(t, mgr.SaveColoring())

	m2 := newGridModel[float64](k*w, a, xv)
	store2 := denseStore(t, k*w, xv)
	mgr2, err := approx.NewManager[float64](m2, store2, perturb.Total, opts)
	require.NoError(t, err)
	require.NoError(t, mgr2.UseFixedColoring())
	require.NoError(t, mgr2.Compute())

	assert.Equal(t, approx.Active, mgr2.State())
	assert.Equal(t, mgr.Coloring().Fingerprint, mgr2.Coloring().Fingerprint)
	assert.Equal(t, mgr.Coloring().Groups, mgr2.Coloring().Groups)
	assert.Equal(t, w, mgr2.Runs(), "static path skips probing entirely")
	assert.Equal(t, w, m2.evals, "no probe evaluations either")
	assertDense(t, store.Dense(), store2.Dense(), 1e-12)

	// Different variable count: fatal mismatch, never a silent recompute.
	bigger := jacobian.Var{Name: "x", Size: k*w + 1}
	big := make([]float64, (k*w)*(k*w+1))
	store3 := denseStore(t, k*w, bigger)
	mgr3, err := approx.NewManager[float64](newGridModel[float64](k*w, big, bigger), store3, perturb.Total, opts)
	require.NoError(t, err)
	require.NoError(t, mgr3.UseFixedColoring())
	err = mgr3.Compute()
	assert.ErrorIs(t, err, coloring.ErrFingerprint)
	assert.ErrorContains(t, err, "model.block")
}

// TestManager_SharedSiblings verifies class-level sharing: the engine
// runs once, later siblings pay a single probe pass and reference the
// same coloring object.
func TestManager_SharedSiblings(t *testing.T) {
	const k, w = 3, 2
	a := blockDiag(k, w)
	xv := jacobian.Var{Name: "x", Size: k * w}

	opts := approx.DefaultOptions()
	opts.PerInstance = false
	opts.Registry = approx.NewRegistry()
	opts.Class = "DiagBlock"

	models := make([]*gridModel[float64], 3)
	mgrs := make([]*approx.Manager[float64], 3)
	for i := range mgrs {
		models[i] = newGridModel[float64](k*w, a, xv)
		mgr, err := approx.NewManager[float64](models[i], denseStore(t, k*w, xv), perturb.Total, opts)
		require.NoError(t, err)
		require.NoError(t, mgr.DeclareColoring())
		require.NoError(t, mgr.Compute())
		mgrs[i] = mgr
	}

	assert.Same(t, mgrs[0].Coloring(), mgrs[1].Coloring())
	assert.Same(t, mgrs[0].Coloring(), mgrs[2].Coloring())
	assert.Equal(t, opts.NumFullJacs*k*w+w, models[0].evals, "first sibling probes fully")
	assert.Equal(t, 1*k*w+w, models[1].evals, "later siblings pay one probe pass")

	// A sibling whose structure disagrees is fatal.
	bad := blockDiag(k, w)
	bad[1*(k*w)+3] = 9 // nonzero outside the shared structure
	mbad, err := approx.NewManager[float64](newGridModel[float64](k*w, bad, xv), denseStore(t, k*w, xv), perturb.Total, opts)
	require.NoError(t, err)
	require.NoError(t, mbad.DeclareColoring())
	err = mbad.Compute()
	assert.ErrorIs(t, err, approx.ErrSiblingMismatch)
	assert.ErrorContains(t, err, "DiagBlock")
}

// TestManager_WrtScope verifies glob-scoped coloring: matched variables
// are colored, unmatched columns still resolve one run each.
func TestManager_WrtScope(t *testing.T) {
	a := []float64{
		1, 0, 0,
		0, 2, 0,
		0, 0, 3,
	}
	x0 := jacobian.Var{Name: "x0", Size: 2}
	x1 := jacobian.Var{Name: "x1", Size: 1}
	store := denseStore(t, 3, x0, x1)

	opts := approx.DefaultOptions()
	opts.Wrt = []string{"x0"}
	mgr, err := approx.NewManager[float64](newGridModel[float64](3, a, x0, x1), store, perturb.Total, opts)
	require.NoError(t, err)
	require.NoError(t, mgr.DeclareColoring())
	require.NoError(t, mgr.Compute())

	assert.Equal(t, approx.Active, mgr.State())
	assert.Equal(t, 1, mgr.Coloring().NumColors(), "disjoint diagonal columns share one color")
	assert.Equal(t, 2, mgr.Runs(), "one colored run plus one unmatched column")
	assertDense(t, a, store.Dense(), 1e-6)
}

// TestManager_DenseMaskScenario reconstructs a 5×7 dense mask with two
// zero rows and columns: forward coloring activates and the values match
// the known Jacobian to finite-difference tolerance.
func TestManager_DenseMaskScenario(t *testing.T) {
	const rows, cols = 5, 7
	a := make([]float64, rows*cols)
	v := 1.0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if r == 1 || r == 4 || c == 2 || c == 5 {
				continue
			}
			a[r*cols+c] = v
			v++
		}
	}
	xv := jacobian.Var{Name: "x", Size: cols}
	store := denseStore(t, rows, xv)

	mgr, err := approx.NewManager[float64](newGridModel[float64](rows, a, xv), store, perturb.Total, approx.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, mgr.DeclareColoring())
	require.NoError(t, mgr.Compute())

	assert.Equal(t, approx.Active, mgr.State())
	assert.Equal(t, 5, mgr.Coloring().NumColors(), "5 dense columns conflict, 2 empty columns fold in")
	assertDense(t, a, store.Dense(), 1e-6)
}

// TestManager_Validation exercises the constructor and declaration guards.
func TestManager_Validation(t *testing.T) {
	xv := jacobian.Var{Name: "x", Size: 1}
	store := denseStore(t, 1, xv)
	m := newGridModel[float64](1, []float64{1}, xv)

	_, err := approx.NewManager[float64](nil, store, perturb.Total, approx.DefaultOptions())
	assert.ErrorIs(t, err, approx.ErrNilModel)
	_, err = approx.NewManager[float64](m, nil, perturb.Total, approx.DefaultOptions())
	assert.ErrorIs(t, err, approx.ErrNilStore)

	opts := approx.DefaultOptions()
	opts.Step = -1e-6
	_, err = approx.NewManager[float64](m, store, perturb.Total, opts)
	assert.ErrorIs(t, err, approx.ErrBadStep)

	opts = approx.DefaultOptions()
	opts.Method = approx.Method(42)
	_, err = approx.NewManager[float64](m, store, perturb.Total, opts)
	assert.ErrorIs(t, err, approx.ErrBadOption)

	opts = approx.DefaultOptions()
	opts.MinImprovePct = 150
	mgr, err := approx.NewManager[float64](m, store, perturb.Total, opts)
	require.NoError(t, err)
	assert.ErrorIs(t, mgr.DeclareColoring(), approx.ErrBadOption)

	opts = approx.DefaultOptions()
	opts.NumFullJacs = 0
	mgr, err = approx.NewManager[float64](m, store, perturb.Total, opts)
	require.NoError(t, err)
	assert.ErrorIs(t, mgr.DeclareColoring(), approx.ErrBadOption)

	opts = approx.DefaultOptions()
	opts.PerInstance = false
	mgr, err = approx.NewManager[float64](m, store, perturb.Total, opts)
	require.NoError(t, err)
	assert.ErrorIs(t, mgr.DeclareColoring(), approx.ErrBadOption)

	opts = approx.DefaultOptions()
	opts.Wrt = []string{"["}
	mgr, err = approx.NewManager[float64](m, store, perturb.Total, opts)
	require.NoError(t, err)
	assert.ErrorIs(t, mgr.DeclareColoring(), approx.ErrBadWrtPattern)

	opts = approx.DefaultOptions()
	opts.Wrt = []string{"nope*"}
	mgr, err = approx.NewManager[float64](m, store, perturb.Total, opts)
	require.NoError(t, err)
	assert.ErrorIs(t, mgr.DeclareColoring(), approx.ErrNoWrtMatch)
}

// TestManager_CacheGuards exercises the static-path error surface.
func TestManager_CacheGuards(t *testing.T) {
	xv := jacobian.Var{Name: "x", Size: 1}
	store := denseStore(t, 1, xv)
	m := newGridModel[float64](1, []float64{1}, xv)

	mgr, err := approx.NewManager[float64](m, store, perturb.Total, approx.DefaultOptions())
	require.NoError(t, err)
	assert.ErrorIs(t, mgr.UseFixedColoring(), approx.ErrNoCache)
	assert.ErrorIs(t, mgr.SaveColoring(), approx.ErrNoCache)

	opts := approx.DefaultOptions()
	opts.Cache = colorcache.NewMemory()
	opts.CacheKey = "missing"
	mgr, err = approx.NewManager[float64](m, store, perturb.Total, opts)
	require.NoError(t, err)
	assert.ErrorIs(t, mgr.SaveColoring(), approx.ErrNoColoring)
	require.NoError(t, mgr.UseFixedColoring())
	assert.ErrorIs(t, mgr.Compute(), approx.ErrStaticMissing)
}
