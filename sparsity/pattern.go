package sparsity

import "fmt"

// Pattern is a boolean sparsity matrix, row-major, int8 backed.
// Build it (Set), then treat it as read-only; the coloring engine and the
// colored scatter both index into it concurrently-read-only.
type Pattern struct {
	rows, cols int
	data       []int8
}

// NewPattern allocates an all-zero rows x cols pattern.
func NewPattern(rows, cols int) (*Pattern, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadShape, rows, cols)
	}
	return &Pattern{rows: rows, cols: cols, data: make([]int8, rows*cols)}, nil
}

// FromDense marks every entry of a row-major dense matrix whose magnitude
// exceeds tol. Convenience for tests and for declared-structure seeding.
func FromDense(rows, cols int, vals []float64, tol float64) (*Pattern, error) {
	p, err := NewPattern(rows, cols)
	if err != nil {
		return nil, err
	}
	if len(vals) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for %dx%d", ErrBadShape, len(vals), rows, cols)
	}
	for i, v := range vals {
		if v > tol || v < -tol {
			p.data[i] = 1
		}
	}
	return p, nil
}

// Rows returns the row dimension.
func (p *Pattern) Rows() int { return p.rows }

// Cols returns the column dimension.
func (p *Pattern) Cols() int { return p.cols }

// Set marks (r, c) structurally nonzero.
func (p *Pattern) Set(r, c int) error {
	if r < 0 || r >= p.rows || c < 0 || c >= p.cols {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfRange, r, c, p.rows, p.cols)
	}
	p.data[r*p.cols+c] = 1
	return nil
}

// Has reports whether (r, c) is marked. Out-of-range coordinates are false.
func (p *Pattern) Has(r, c int) bool {
	if r < 0 || r >= p.rows || c < 0 || c >= p.cols {
		return false
	}
	return p.data[r*p.cols+c] != 0
}

// NNZ counts the marked entries.
func (p *Pattern) NNZ() int {
	n := 0
	for _, v := range p.data {
		if v != 0 {
			n++
		}
	}
	return n
}

// ColRows returns the sorted nonzero row indices of column c.
func (p *Pattern) ColRows(c int) []int {
	var out []int
	for r := 0; r < p.rows; r++ {
		if p.data[r*p.cols+c] != 0 {
			out = append(out, r)
		}
	}
	return out
}

// RowCols returns the sorted nonzero column indices of row r.
func (p *Pattern) RowCols(r int) []int {
	var out []int
	for c := 0; c < p.cols; c++ {
		if p.data[r*p.cols+c] != 0 {
			out = append(out, c)
		}
	}
	return out
}

// EmptyCols returns the columns with no nonzero row — the probe's warning
// signal. Such columns are legitimate (a dependency may cancel) but the
// coloring layer treats them conservatively.
func (p *Pattern) EmptyCols() []int {
	var out []int
	for c := 0; c < p.cols; c++ {
		empty := true
		for r := 0; r < p.rows; r++ {
			if p.data[r*p.cols+c] != 0 {
				empty = false
				break
			}
		}
		if empty {
			out = append(out, c)
		}
	}
	return out
}

// Transpose returns a new pattern with rows and columns swapped.
func (p *Pattern) Transpose() *Pattern {
	t := &Pattern{rows: p.cols, cols: p.rows, data: make([]int8, len(p.data))}
	for r := 0; r < p.rows; r++ {
		for c := 0; c < p.cols; c++ {
			t.data[c*t.cols+r] = p.data[r*p.cols+c]
		}
	}
	return t
}

// Clone returns a deep copy.
func (p *Pattern) Clone() *Pattern {
	c := &Pattern{rows: p.rows, cols: p.cols, data: make([]int8, len(p.data))}
	copy(c.data, p.data)
	return c
}

// Equal reports shape and entry-wise equality.
func (p *Pattern) Equal(q *Pattern) bool {
	if q == nil || p.rows != q.rows || p.cols != q.cols {
		return false
	}
	for i := range p.data {
		if p.data[i] != q.data[i] {
			return false
		}
	}
	return true
}
