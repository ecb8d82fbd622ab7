package jacobian

import (
	"fmt"
	"strings"
)

// Key is the ordered (output, input) name pair identifying a sub-Jacobian.
type Key struct {
	Of  string
	Wrt string
}

// SubJac holds one declared sub-Jacobian block.
//
// Rows/Cols, if non-nil, are parallel coordinate lists (COO) fixed for the
// life of the declaration; Value is then parallel to them. With Rows nil the
// block is dense and Value has outSize*inSize entries in row-major order.
// Only Value mutates after declaration, during scatter.
type SubJac struct {
	Rows      []int
	Cols      []int
	Value     []float64
	Dependent bool

	// probed sparsity for dense entries: coordinates known to be the only
	// structural nonzeros, used to seed randomized values consistently with
	// structure. Nil until SetSparsity.
	spRows []int
	spCols []int

	outSize int
	inSize  int
}

// IsDense reports whether the block is stored densely.
func (sj *SubJac) IsDense() bool { return sj.Rows == nil }

// Shape returns (output size, input size) of the block.
func (sj *SubJac) Shape() (int, int) { return sj.outSize, sj.inSize }

// DeclareOption customizes a single Declare call.
type DeclareOption func(*SubJac)

// WithPattern declares the block sparse, storing values only at the given
// (row, col) coordinate pairs, local to the block.
func WithPattern(rows, cols []int) DeclareOption {
	return func(sj *SubJac) {
		sj.Rows = rows
		sj.Cols = cols
	}
}

// AsIndependent declares the pair structurally always-zero: it carries no
// values and is excluded from perturbation entirely.
func AsIndependent() DeclareOption {
	return func(sj *SubJac) { sj.Dependent = false }
}

// Store is the dictionary of declared sub-Jacobians for one owning block.
type Store struct {
	path string // owning block path, for error messages only
	of   *Layout
	wrt  *Layout

	subs  map[Key]*SubJac
	order []Key // deterministic iteration, declaration order
}

// NewStore creates an empty store over the given row (of) and column (wrt)
// layouts. path identifies the owning block in error messages.
func NewStore(path string, of, wrt *Layout) (*Store, error) {
	if of == nil || wrt == nil {
		return nil, ErrNilLayout
	}
	return &Store{path: path, of: of, wrt: wrt, subs: make(map[Key]*SubJac)}, nil
}

// RowLayout returns the output-space layout.
func (s *Store) RowLayout() *Layout { return s.of }

// ColLayout returns the input-space layout.
func (s *Store) ColLayout() *Layout { return s.wrt }

// Path returns the owning block path.
func (s *Store) Path() string { return s.path }

// Declare registers a (of, wrt) sub-Jacobian. Must precede any Get or Set on
// the pair. Dense by default; WithPattern switches to COO storage;
// AsIndependent marks the pair structurally always-zero.
func (s *Store) Declare(of, wrt string, opts ...DeclareOption) error {
	osz, ok := s.of.Size(of)
	if !ok {
		return fmt.Errorf("%s: %w: output %q", s.path, ErrUnknownVar, of)
	}
	isz, ok := s.wrt.Size(wrt)
	if !ok {
		return fmt.Errorf("%s: %w: input %q", s.path, ErrUnknownVar, wrt)
	}
	key := Key{Of: of, Wrt: wrt}
	if _, ok = s.subs[key]; ok {
		return fmt.Errorf("%s: %w: pair (%q, %q)", s.path, ErrRedeclared, of, wrt)
	}

	sj := &SubJac{Dependent: true, outSize: osz, inSize: isz}
	for _, opt := range opts {
		opt(sj)
	}
	if (sj.Rows == nil) != (sj.Cols == nil) || len(sj.Rows) != len(sj.Cols) {
		return fmt.Errorf("%s: %w: pair (%q, %q)", s.path, ErrPatternMismatch, of, wrt)
	}
	for k := range sj.Rows {
		if sj.Rows[k] < 0 || sj.Rows[k] >= osz || sj.Cols[k] < 0 || sj.Cols[k] >= isz {
			return fmt.Errorf("%s: %w: pair (%q, %q) entry %d = (%d, %d), block %dx%d",
				s.path, ErrPatternRange, of, wrt, k, sj.Rows[k], sj.Cols[k], osz, isz)
		}
	}
	if sj.Dependent {
		if sj.IsDense() {
			sj.Value = make([]float64, osz*isz)
		} else {
			sj.Value = make([]float64, len(sj.Rows))
		}
	}

	s.subs[key] = sj
	s.order = append(s.order, key)
	return nil
}

// lookup fetches a declared pair or builds the canonical not-declared error.
func (s *Store) lookup(of, wrt string) (*SubJac, error) {
	sj, ok := s.subs[Key{Of: of, Wrt: wrt}]
	if !ok {
		return nil, fmt.Errorf("%s: variable name pair (%q, %q) %w", s.path, of, wrt, ErrNotDeclared)
	}
	return sj, nil
}

// Get returns the value slice of a declared pair: dense row-major, or
// parallel to the declared rows/cols. The slice is live; mutating it mutates
// the store.
func (s *Store) Get(of, wrt string) ([]float64, error) {
	sj, err := s.lookup(of, wrt)
	if err != nil {
		return nil, err
	}
	if !sj.Dependent {
		return nil, fmt.Errorf("%s: pair (%q, %q): %w", s.path, of, wrt, ErrIndependent)
	}
	return sj.Value, nil
}

// Meta returns the declaration metadata for a pair.
func (s *Store) Meta(of, wrt string) (*SubJac, error) {
	return s.lookup(of, wrt)
}

// Set assigns a pair's value. Dense pairs accept a single element, broadcast
// to the whole block, or a full row-major block; COO pairs require exactly
// len(rows) entries. Anything else is ErrShape.
func (s *Store) Set(of, wrt string, value []float64) error {
	sj, err := s.lookup(of, wrt)
	if err != nil {
		return err
	}
	if !sj.Dependent {
		return fmt.Errorf("%s: pair (%q, %q): %w", s.path, of, wrt, ErrIndependent)
	}

	if sj.IsDense() && len(value) == 1 {
		for i := range sj.Value {
			sj.Value[i] = value[0]
		}
		return nil
	}
	if len(value) != len(sj.Value) {
		want := len(sj.Value)
		if !sj.IsDense() {
			return fmt.Errorf("%s: sub-jacobian for pair (%q, %q) has the wrong shape (%d), expected (%d): %w",
				s.path, of, wrt, len(value), want, ErrShape)
		}
		return fmt.Errorf("%s: sub-jacobian for pair (%q, %q) has the wrong shape (%d), expected (%dx%d): %w",
			s.path, of, wrt, len(value), sj.outSize, sj.inSize, ErrShape)
	}
	copy(sj.Value, value)
	return nil
}

// Contains reports whether the pair was declared.
func (s *Store) Contains(of, wrt string) bool {
	_, ok := s.subs[Key{Of: of, Wrt: wrt}]
	return ok
}

// Keys returns the declared pairs in declaration order (a copy).
func (s *Store) Keys() []Key {
	out := make([]Key, len(s.order))
	copy(out, s.order)
	return out
}

// Items calls fn for each declared dependent pair, in declaration order,
// with its live value slice. Iteration stops when fn returns false.
func (s *Store) Items(fn func(key Key, value []float64) bool) {
	for _, key := range s.order {
		sj := s.subs[key]
		if !sj.Dependent {
			continue
		}
		if !fn(key, sj.Value) {
			return
		}
	}
}

// SetSparsity records a probed (rows, cols) nonzero set for a dense pair,
// used by Randomize to keep the zero structure exact. The coordinates must
// come from a probe against the same declaration (structural invariant).
func (s *Store) SetSparsity(of, wrt string, rows, cols []int) error {
	sj, err := s.lookup(of, wrt)
	if err != nil {
		return err
	}
	if len(rows) != len(cols) {
		return fmt.Errorf("%s: %w: pair (%q, %q)", s.path, ErrPatternMismatch, of, wrt)
	}
	for k := range rows {
		if rows[k] < 0 || rows[k] >= sj.outSize || cols[k] < 0 || cols[k] >= sj.inSize {
			return fmt.Errorf("%s: %w: pair (%q, %q) entry %d = (%d, %d), block %dx%d",
				s.path, ErrPatternRange, of, wrt, k, rows[k], cols[k], sj.outSize, sj.inSize)
		}
	}
	sj.spRows = rows
	sj.spCols = cols
	return nil
}

// Signature renders the store's structure — layouts, declared pairs, their
// coordinate lists and dependent flags — as a canonical string. Two stores
// with equal signatures are structurally interchangeable; a coloring
// fingerprinted against one applies to the other.
func (s *Store) Signature() string {
	var sb strings.Builder
	sb.WriteString("of=")
	s.of.signature(&sb)
	sb.WriteString("|wrt=")
	s.wrt.signature(&sb)
	for _, key := range s.order {
		sj := s.subs[key]
		fmt.Fprintf(&sb, "|%s/%s:dep=%t", key.Of, key.Wrt, sj.Dependent)
		if !sj.IsDense() {
			fmt.Fprintf(&sb, ":coo=%v,%v", sj.Rows, sj.Cols)
		}
	}
	return sb.String()
}

// Dense assembles the full (rowTotal x colTotal) Jacobian in row-major order.
// Independent pairs and undeclared blocks contribute zeros. Intended for
// verification and small problems; O(R·C) memory.
func (s *Store) Dense() []float64 {
	rt, ct := s.of.Total(), s.wrt.Total()
	full := make([]float64, rt*ct)
	for _, key := range s.order {
		sj := s.subs[key]
		if !sj.Dependent {
			continue
		}
		rstart, _, _ := s.of.Range(key.Of)
		cstart, _, _ := s.wrt.Range(key.Wrt)
		if sj.IsDense() {
			for r := 0; r < sj.outSize; r++ {
				copy(full[(rstart+r)*ct+cstart:(rstart+r)*ct+cstart+sj.inSize],
					sj.Value[r*sj.inSize:(r+1)*sj.inSize])
			}
		} else {
			for k := range sj.Rows {
				full[(rstart+sj.Rows[k])*ct+cstart+sj.Cols[k]] = sj.Value[k]
			}
		}
	}
	return full
}
