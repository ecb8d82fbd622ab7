package coloring

import (
	"fmt"

	"github.com/katalvlaran/colorjac/sparsity"
)

// Validate re-checks a coloring's two invariants against a pattern:
//
//   - Partition: every index 0..N-1 appears in exactly one color.
//   - Independence: within one color, no two members share a nonzero row.
//
// It also verifies the stored row sets agree with the pattern, which is what
// a static (persisted) coloring relies on at load time. Any violation is
// returned as a sentinel error naming the offending color and indices.
func Validate(c *Coloring, p *sparsity.Pattern) error {
	if p == nil {
		return ErrNilPattern
	}
	pat := p
	if c.Direction == Reverse {
		pat = p.Transpose()
	}
	if c.N != pat.Cols() {
		return fmt.Errorf("%w: coloring spans %d, pattern has %d (%s)",
			ErrShapeMismatch, c.N, pat.Cols(), c.Direction)
	}

	seen := make([]int, c.N)
	for g, group := range c.Groups {
		for _, j := range group {
			if j < 0 || j >= c.N {
				return fmt.Errorf("%w: color %d holds index %d outside [0, %d)", ErrPartition, g, j, c.N)
			}
			seen[j]++
		}
	}
	for j, n := range seen {
		if n != 1 {
			return fmt.Errorf("%w: index %d appears %d times", ErrPartition, j, n)
		}
	}

	if len(c.RowSets) != c.N {
		return fmt.Errorf("%w: %d row sets for %d indices", ErrRowSets, len(c.RowSets), c.N)
	}
	for j := 0; j < c.N; j++ {
		want := pat.ColRows(j)
		if len(want) != len(c.RowSets[j]) {
			return fmt.Errorf("%w: index %d has %d stored rows, pattern has %d",
				ErrRowSets, j, len(c.RowSets[j]), len(want))
		}
		for k, r := range want {
			if c.RowSets[j][k] != r {
				return fmt.Errorf("%w: index %d row %d: stored %d, pattern %d",
					ErrRowSets, j, k, c.RowSets[j][k], r)
			}
		}
	}

	rows := pat.Rows()
	owner := make([]int, rows)
	for g, group := range c.Groups {
		for i := range owner {
			owner[i] = -1
		}
		for _, j := range group {
			for _, r := range c.RowSets[j] {
				if owner[r] >= 0 {
					return fmt.Errorf("%w: color %d, indices %d and %d both hit row %d",
						ErrIndependence, g, owner[r], j, r)
				}
				owner[r] = j
			}
		}
	}
	return nil
}
