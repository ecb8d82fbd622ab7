package jacobian

import (
	"fmt"
	"sort"
	"strings"
)

// Var names one block variable and its flattened size.
type Var struct {
	Name string
	Size int
}

// Layout is an ordered mapping from variable name to an
// [offset, offset+size) half-open range in a flattened vector space.
//
// A Layout is immutable after construction. Structural change to the model
// (variables added, removed, or resized) requires a fresh Layout — and
// invalidates any coloring computed against the old one.
type Layout struct {
	names   []string
	offsets []int // parallel to names
	sizes   []int // parallel to names
	index   map[string]int
	total   int
}

// NewLayout builds a layout from the ordered variable list.
// Order is significant: it defines the global index space.
func NewLayout(vars ...Var) (*Layout, error) {
	l := &Layout{
		names:   make([]string, 0, len(vars)),
		offsets: make([]int, 0, len(vars)),
		sizes:   make([]int, 0, len(vars)),
		index:   make(map[string]int, len(vars)),
	}
	for _, v := range vars {
		if v.Size <= 0 {
			return nil, fmt.Errorf("%w: %q has size %d", ErrBadSize, v.Name, v.Size)
		}
		if _, ok := l.index[v.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDupVar, v.Name)
		}
		l.index[v.Name] = len(l.names)
		l.names = append(l.names, v.Name)
		l.offsets = append(l.offsets, l.total)
		l.sizes = append(l.sizes, v.Size)
		l.total += v.Size
	}
	return l, nil
}

// Total returns the size of the flattened space.
func (l *Layout) Total() int { return l.total }

// Names returns the variable names in layout order (a copy).
func (l *Layout) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Range returns the [start, end) range of the named variable.
func (l *Layout) Range(name string) (start, end int, ok bool) {
	i, ok := l.index[name]
	if !ok {
		return 0, 0, false
	}
	return l.offsets[i], l.offsets[i] + l.sizes[i], true
}

// Size returns the size of the named variable.
func (l *Layout) Size(name string) (int, bool) {
	i, ok := l.index[name]
	if !ok {
		return 0, false
	}
	return l.sizes[i], true
}

// FindIndex maps a global flattened index to (variable name, local index).
// O(log V) by binary search over the offset table.
func (l *Layout) FindIndex(global int) (name string, local int, err error) {
	if global < 0 || global >= l.total {
		return "", 0, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexRange, global, l.total)
	}
	// First offset strictly greater than global, minus one.
	i := sort.SearchInts(l.offsets, global+1) - 1
	return l.names[i], global - l.offsets[i], nil
}

// signature renders the layout as a canonical string for fingerprinting.
func (l *Layout) signature(sb *strings.Builder) {
	for i, n := range l.names {
		fmt.Fprintf(sb, "%s:%d;", n, l.sizes[i])
	}
}
