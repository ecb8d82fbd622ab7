package approx

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"path"
	"strings"
	"time"

	"github.com/katalvlaran/colorjac/colorcache"
	"github.com/katalvlaran/colorjac/coloring"
	"github.com/katalvlaran/colorjac/jacobian"
	"github.com/katalvlaran/colorjac/perturb"
	"github.com/katalvlaran/colorjac/sparsity"
)

// Manager drives one block's approximated Jacobian through the coloring
// lifecycle. Compute fills the store; everything else configures how.
//
// A Manager is not safe for concurrent use: each Compute mutates and
// restores the model's shared state sequentially, one perturbed
// evaluation at a time.
type Manager[T perturb.Scalar] struct {
	model perturb.Model[T]
	store *jacobian.Store
	mode  perturb.Mode
	opts  Options
	log   *slog.Logger
	step  float64
	rng   *rand.Rand

	state    State
	declared bool // dynamic coloring requested
	static   bool // persisted coloring requested
	col      *coloring.Coloring
	shared   bool // col adopted from the registry, read-only

	// Wrt scope. With no patterns, sub is the full column layout and
	// matched is nil (coloring index == global column index). With
	// patterns, sub holds only the matched variables and matched maps a
	// coloring index to its global column.
	sub     *jacobian.Layout
	matched []int
	isWrt   []bool

	runs     int // evaluation-phase runner invocations, probing excluded
	cacheBuf []T
	outBuf   []T
	colBuf   []float64
}

// NewManager builds a Manager over a model, the store receiving the
// approximated values, and the evaluation mode. The method and step are
// fixed at construction; ComplexStep demands a complex-valued model.
func NewManager[T perturb.Scalar](model perturb.Model[T], store *jacobian.Store, mode perturb.Mode, opts Options) (*Manager[T], error) {
	if model == nil {
		return nil, ErrNilModel
	}
	if store == nil {
		return nil, ErrNilStore
	}
	switch opts.Method {
	case FiniteDifference:
	case ComplexStep:
		if !perturb.IsComplex[T]() {
			return nil, fmt.Errorf("%w: %s", ErrBadMethod, store.Path())
		}
	default:
		return nil, fmt.Errorf("%w: method %d", ErrBadOption, opts.Method)
	}

	step := opts.Step
	if step == 0 {
		step = DefaultFDStep
		if opts.Method == ComplexStep {
			step = DefaultCSStep
		}
	}
	if step < 0 {
		return nil, fmt.Errorf("%w: %g", ErrBadStep, step)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rows := store.RowLayout().Total()
	return &Manager[T]{
		model:    model,
		store:    store,
		mode:     mode,
		opts:     opts,
		log:      logger,
		step:     step,
		rng:      sparsity.NewRNG(opts.Seed),
		state:    Uncolored,
		sub:      store.ColLayout(),
		cacheBuf: make([]T, rows),
		outBuf:   make([]T, rows),
		colBuf:   make([]float64, rows),
	}, nil
}

// DeclareColoring requests dynamic coloring using the Manager's options:
// the first Compute will probe the sparsity pattern, color it, and apply
// the improvement threshold. Validates the lifecycle options; a sharing
// declaration (PerInstance false) requires both Registry and Class.
func (m *Manager[T]) DeclareColoring() error {
	if m.opts.MinImprovePct < 0 || m.opts.MinImprovePct > 100 {
		return fmt.Errorf("%w: min improve %g%% outside [0, 100]", ErrBadOption, m.opts.MinImprovePct)
	}
	if m.opts.NumFullJacs < 1 {
		return fmt.Errorf("%w: num full jacs %d", ErrBadOption, m.opts.NumFullJacs)
	}
	if !m.opts.PerInstance && (m.opts.Registry == nil || m.opts.Class == "") {
		return fmt.Errorf("%w: shared coloring needs a registry and class", ErrBadOption)
	}
	if err := m.resolveWrt(); err != nil {
		return err
	}
	m.declared = true
	return nil
}

// UseFixedColoring requests the static path: the first Compute loads the
// persisted coloring from the cache and fingerprint-checks it instead of
// probing. Takes precedence over DeclareColoring when both are requested.
func (m *Manager[T]) UseFixedColoring() error {
	if m.opts.Cache == nil || m.opts.CacheKey == "" {
		return fmt.Errorf("%w: %s", ErrNoCache, m.store.Path())
	}
	m.static = true
	return nil
}

// resolveWrt narrows the colored column space to the variables matched by
// the Wrt glob patterns.
func (m *Manager[T]) resolveWrt() error {
	if len(m.opts.Wrt) == 0 {
		return nil
	}
	cols := m.store.ColLayout()
	for _, pat := range m.opts.Wrt {
		if _, err := path.Match(pat, ""); err != nil {
			return fmt.Errorf("%w: %q", ErrBadWrtPattern, pat)
		}
	}

	var vars []jacobian.Var
	var matched []int
	isWrt := make([]bool, cols.Total())
	for _, name := range cols.Names() {
		hit := false
		for _, pat := range m.opts.Wrt {
			if ok, _ := path.Match(pat, name); ok {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		start, end, _ := cols.Range(name)
		vars = append(vars, jacobian.Var{Name: name, Size: end - start})
		for g := start; g < end; g++ {
			isWrt[g] = true
			matched = append(matched, g)
		}
	}
	if len(matched) == 0 {
		return fmt.Errorf("%w: %v", ErrNoWrtMatch, m.opts.Wrt)
	}

	sub, err := jacobian.NewLayout(vars...)
	if err != nil {
		return err
	}
	m.sub, m.matched, m.isWrt = sub, matched, isWrt
	return nil
}

// State returns the current lifecycle state.
func (m *Manager[T]) State() State { return m.state }

// Coloring returns the active coloring, or nil. Treat it as read-only: a
// shared instance is referenced by every sibling of the class.
func (m *Manager[T]) Coloring() *coloring.Coloring { return m.col }

// Shared reports whether the active coloring is the registry's shared
// instance rather than this Manager's own computation.
func (m *Manager[T]) Shared() bool { return m.shared }

// Runs returns the number of evaluation-phase runner invocations so far.
// Probe passes are not counted; their cost is NumFullJacs full sweeps.
func (m *Manager[T]) Runs() int { return m.runs }

// Compute fills the store with the approximated Jacobian at the model's
// current point. The first call settles the lifecycle — static load,
// probe + color + threshold, or neither — and every call then evaluates
// one run per color (Active) or one run per column (otherwise).
func (m *Manager[T]) Compute() error {
	if err := m.settle(); err != nil {
		return err
	}
	if m.state == Active {
		return m.evalColored()
	}
	return m.evalUncolored()
}

// settle performs the one-time lifecycle transitions.
func (m *Manager[T]) settle() error {
	if m.state == Active || m.state == Deactivated {
		return nil
	}
	if m.static {
		return m.loadStatic()
	}
	if m.declared {
		return m.colorDynamic()
	}
	return nil
}

// signature ties the fingerprint to the store structure and the colored
// column scope.
func (m *Manager[T]) signature() string {
	sig := m.store.Signature()
	if len(m.opts.Wrt) > 0 {
		sig += "|wrt=" + strings.Join(m.opts.Wrt, ",")
	}
	return sig
}

func (m *Manager[T]) loadStatic() error {
	entry, err := m.opts.Cache.Load(m.opts.CacheKey)
	if err != nil {
		if errors.Is(err, colorcache.ErrNotFound) {
			return fmt.Errorf("%s: %w: key %q", m.store.Path(), ErrStaticMissing, m.opts.CacheKey)
		}
		return fmt.Errorf("%s: load static coloring: %w", m.store.Path(), err)
	}
	m.state = StaticLoaded

	want := coloring.NewFingerprint(m.store.RowLayout().Total(), m.sub.Total(), m.signature())
	if err = entry.Coloring.Fingerprint.Check(want); err != nil {
		return fmt.Errorf("%s: static coloring: %w", m.store.Path(), err)
	}
	m.col = entry.Coloring
	m.state = Active
	return nil
}

func (m *Manager[T]) colorDynamic() error {
	if !m.opts.PerInstance {
		if shared := m.opts.Registry.Lookup(m.opts.Class); shared != nil {
			return m.adopt(shared)
		}
	}

	m.state = Probing
	pat, err := m.probe(m.opts.NumFullJacs)
	if err != nil {
		return err
	}

	c, err := coloring.Compute(pat, coloring.Forward, m.signature())
	if err != nil {
		return fmt.Errorf("%s: %w", m.store.Path(), err)
	}
	m.state = Colored

	if pct := c.ImprovementPct(); pct < m.opts.MinImprovePct {
		m.log.Warn(fmt.Sprintf(
			"Coloring was deactivated. Improvement of %.1f%% was less than min allowed (%.1f%%).",
			pct, m.opts.MinImprovePct),
			"block", m.store.Path(), "class", m.opts.Class)
		m.state = Deactivated
		return nil
	}

	if !m.opts.PerInstance {
		c = m.opts.Registry.Publish(m.opts.Class, c)
		m.shared = true
	}
	m.col = c
	m.state = Active
	return nil
}

// adopt takes over a sibling's published coloring after one cheap probe
// pass confirms this instance's structure is covered by it.
func (m *Manager[T]) adopt(shared *coloring.Coloring) error {
	m.state = Probing
	pat, err := m.probe(1)
	if err != nil {
		return err
	}
	if err = m.consistent(shared, pat); err != nil {
		return err
	}
	m.col = shared
	m.shared = true
	m.state = Active
	return nil
}

// consistent checks that every structural nonzero this instance probed is
// covered by the shared coloring's row sets. A single probe pass may miss
// entries the publisher saw, so the contract is coverage, not equality;
// an entry probed here that the shared coloring does not know about means
// the siblings do not actually share a structure.
func (m *Manager[T]) consistent(shared *coloring.Coloring, pat *sparsity.Pattern) error {
	if shared.N != pat.Cols() {
		return fmt.Errorf("%s <class %s>: %w: coloring spans %d columns, this instance has %d",
			m.store.Path(), m.opts.Class, ErrSiblingMismatch, shared.N, pat.Cols())
	}
	for j := 0; j < pat.Cols(); j++ {
		set := shared.RowSets[j]
		k := 0
		for _, r := range pat.ColRows(j) {
			for k < len(set) && set[k] < r {
				k++
			}
			if k == len(set) || set[k] != r {
				return fmt.Errorf("%s <class %s>: %w: column %d row %d absent from the shared coloring",
					m.store.Path(), m.opts.Class, ErrSiblingMismatch, j, r)
			}
		}
	}
	return nil
}

// probe runs randomized sparsity passes over the colored column scope.
// Probe deltas are real and independent of the difference step: a 1e-30
// complex step would sit below the detection floor.
func (m *Manager[T]) probe(passes int) (*sparsity.Pattern, error) {
	popts := sparsity.DefaultOptions()
	popts.Passes = passes
	pat, err := sparsity.Probe[T](m.model, m.sub, m.mode, m.rng, popts)
	if err != nil {
		return nil, fmt.Errorf("%s: probe: %w", m.store.Path(), err)
	}
	return pat, nil
}

// globalCol maps a coloring index to its global column.
func (m *Manager[T]) globalCol(j int) int {
	if m.matched == nil {
		return j
	}
	return m.matched[j]
}

// delta is the perturbation applied to one column: step on the real axis
// for finite difference, step on the imaginary axis for complex step.
func (m *Manager[T]) delta() T {
	if m.opts.Method == ComplexStep {
		return perturb.FromImag[T](m.step)
	}
	return perturb.FromReal[T](m.step)
}

// extract recovers one Jacobian entry from a perturbed result row.
func (m *Manager[T]) extract(out, base T) float64 {
	if m.opts.Method == ComplexStep {
		return perturb.Imag(out) / m.step
	}
	return (perturb.Real(out) - perturb.Real(base)) / m.step
}

// run performs one perturbed evaluation into the shared buffers.
func (m *Manager[T]) run(pts []perturb.Perturbation[T]) error {
	m.runs++
	if err := perturb.Run(m.model, pts, m.mode, m.cacheBuf, m.outBuf); err != nil {
		return fmt.Errorf("%s: %w", m.store.Path(), err)
	}
	return nil
}

// evalColored resolves one color per run. Every member column of a color
// perturbs simultaneously; the independence invariant guarantees each
// result row is touched by at most one member, so each member's column is
// read back through its stored row set and scattered alone.
func (m *Manager[T]) evalColored() error {
	for i := range m.colBuf {
		m.colBuf[i] = 0
	}
	cols := m.store.ColLayout()
	delta := m.delta()

	pts := make([]perturb.Perturbation[T], 0, 8)
	for _, group := range m.col.Groups {
		pts = pts[:0]
		for _, j := range group {
			name, loc, err := cols.FindIndex(m.globalCol(j))
			if err != nil {
				return fmt.Errorf("%s: %w", m.store.Path(), err)
			}
			pts = append(pts, perturb.Perturbation[T]{Target: name, Indices: []int{loc}, Delta: delta})
		}
		if err := m.run(pts); err != nil {
			return err
		}
		for _, j := range group {
			rows := m.col.RowSets[j]
			for _, r := range rows {
				m.colBuf[r] = m.extract(m.outBuf[r], m.cacheBuf[r])
			}
			if err := m.store.ScatterColumn(m.globalCol(j), m.colBuf); err != nil {
				return err
			}
			for _, r := range rows {
				m.colBuf[r] = 0
			}
		}
	}

	// Columns outside the wrt scope are not colored; they resolve one per
	// run, exactly as the uncolored path would.
	if m.matched != nil {
		for g := 0; g < cols.Total(); g++ {
			if !m.isWrt[g] {
				if err := m.runColumn(g); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// evalUncolored resolves every global column with its own run.
func (m *Manager[T]) evalUncolored() error {
	for g := 0; g < m.store.ColLayout().Total(); g++ {
		if err := m.runColumn(g); err != nil {
			return err
		}
	}
	return nil
}

// runColumn perturbs one global column alone and scatters the full
// resulting column. Leaves colBuf fully overwritten, hence dirty.
func (m *Manager[T]) runColumn(g int) error {
	name, loc, err := m.store.ColLayout().FindIndex(g)
	if err != nil {
		return fmt.Errorf("%s: %w", m.store.Path(), err)
	}
	pts := []perturb.Perturbation[T]{{Target: name, Indices: []int{loc}, Delta: m.delta()}}
	if err = m.run(pts); err != nil {
		return err
	}
	for r := range m.colBuf {
		m.colBuf[r] = m.extract(m.outBuf[r], m.cacheBuf[r])
	}
	return m.store.ScatterColumn(g, m.colBuf)
}

// SaveColoring persists the current coloring under the configured cache
// key, for a later UseFixedColoring to load.
func (m *Manager[T]) SaveColoring() error {
	if m.opts.Cache == nil || m.opts.CacheKey == "" {
		return fmt.Errorf("%w: %s", ErrNoCache, m.store.Path())
	}
	if m.col == nil {
		return fmt.Errorf("%s: %w", m.store.Path(), ErrNoColoring)
	}
	return m.opts.Cache.Save(m.opts.CacheKey, &colorcache.Entry{Coloring: m.col, SavedAt: time.Now()})
}
