package coloring

import (
	"sort"

	"github.com/katalvlaran/colorjac/sparsity"
)

// Compute — greedy distance-1 coloring of one axis of a sparsity pattern.
//
// Algorithm Outline:
//  1. Orient: Forward colors pattern columns; Reverse transposes first and
//     colors what were rows.
//  2. Order columns by decreasing nonzero-row count (ties by index). The
//     largest-first heuristic tends to reduce the final color count.
//  3. For each column, intersect its row bitset against each existing
//     color's accumulated row bitset; assign the lowest color with an empty
//     intersection, creating a new color when all are forbidden. This makes
//     the independence invariant hold by construction.
//  4. Columns with zero nonzero rows conflict with nothing: they all join
//     the first color, or form a single trivial color of their own when no
//     column has any nonzero row.
//
// The signature (see jacobian.Store.Signature) is digested into the
// coloring's Fingerprint together with the pattern shape.
//
// Complexity: O(N·K·W) where K is the color count and W the bitset word
// count — comfortably fast for the block sizes this engine targets.
func Compute(p *sparsity.Pattern, dir Direction, signature string) (*Coloring, error) {
	if p == nil {
		return nil, ErrNilPattern
	}
	switch dir {
	case Forward:
	case Reverse:
		p = p.Transpose()
	default:
		return nil, ErrBadDirection
	}

	nrows, ncols := p.Rows(), p.Cols()
	words := (nrows + 63) / 64

	// Per-column row bitsets, nonzero counts, and stored row sets.
	colBits := make([][]uint64, ncols)
	rowSets := make([][]int, ncols)
	counts := make([]int, ncols)
	for j := 0; j < ncols; j++ {
		rows := p.ColRows(j)
		rowSets[j] = rows
		counts[j] = len(rows)
		bits := make([]uint64, words)
		for _, r := range rows {
			bits[r/64] |= 1 << (r % 64)
		}
		colBits[j] = bits
	}

	order := make([]int, ncols)
	for j := range order {
		order[j] = j
	}
	sort.SliceStable(order, func(a, b int) bool {
		if counts[order[a]] != counts[order[b]] {
			return counts[order[a]] > counts[order[b]]
		}
		return order[a] < order[b]
	})

	var groups [][]int
	var groupBits [][]uint64
	var empty []int

	for _, j := range order {
		if counts[j] == 0 {
			empty = append(empty, j)
			continue
		}
		assigned := false
		for g := range groups {
			if !intersects(groupBits[g], colBits[j]) {
				groups[g] = append(groups[g], j)
				orInto(groupBits[g], colBits[j])
				assigned = true
				break
			}
		}
		if !assigned {
			groups = append(groups, []int{j})
			groupBits = append(groupBits, append([]uint64(nil), colBits[j]...))
		}
	}
	if len(empty) > 0 {
		sort.Ints(empty)
		if len(groups) == 0 {
			groups = append(groups, empty)
		} else {
			groups[0] = append(groups[0], empty...)
		}
	}

	// Report shape in the pattern's original orientation.
	fpRows, fpCols := nrows, ncols
	if dir == Reverse {
		fpRows, fpCols = ncols, nrows
	}

	return &Coloring{
		Direction:   dir,
		Groups:      groups,
		RowSets:     rowSets,
		N:           ncols,
		Fingerprint: NewFingerprint(fpRows, fpCols, signature),
	}, nil
}

// Best computes both directions and returns whichever needs fewer colors,
// preferring Forward on a tie. Use it when the caller can evaluate the model
// in either direction.
func Best(p *sparsity.Pattern, signature string) (*Coloring, error) {
	fwd, err := Compute(p, Forward, signature)
	if err != nil {
		return nil, err
	}
	rev, err := Compute(p, Reverse, signature)
	if err != nil {
		return nil, err
	}
	if rev.NumColors() < fwd.NumColors() {
		return rev, nil
	}
	return fwd, nil
}

func intersects(a, b []uint64) bool {
	for i := range a {
		if a[i]&b[i] != 0 {
			return true
		}
	}
	return false
}

func orInto(dst, src []uint64) {
	for i := range dst {
		dst[i] |= src[i]
	}
}
