package jacobian

import (
	"fmt"
	"math/rand"
)

// ScatterColumn writes one solved global Jacobian column into every block it
// intersects. The global index is mapped through the column layout to an
// (input block, local offset); for each output block, only the entries whose
// declared rows/cols actually reference that local column are written.
// Entries outside the declared sparsity are silently dropped — a column may
// perturb variables that have no declared dependency on some outputs, and
// that is not an error.
//
// column must span the full flattened row space.
func (s *Store) ScatterColumn(icol int, column []float64) error {
	if len(column) != s.of.Total() {
		return fmt.Errorf("%s: %w: got %d, row space is %d", s.path, ErrVectorSize, len(column), s.of.Total())
	}
	wrt, loc, err := s.wrt.FindIndex(icol)
	if err != nil {
		return fmt.Errorf("%s: %w", s.path, err)
	}

	for _, of := range s.of.names {
		sj, ok := s.subs[Key{Of: of, Wrt: wrt}]
		if !ok || !sj.Dependent {
			continue
		}
		start, _, _ := s.of.Range(of)
		if sj.IsDense() {
			for r := 0; r < sj.outSize; r++ {
				sj.Value[r*sj.inSize+loc] = column[start+r]
			}
		} else {
			for k, c := range sj.Cols {
				if c == loc {
					sj.Value[k] = column[start+sj.Rows[k]]
				}
			}
		}
	}
	return nil
}

// ScatterRow is the reverse-direction dual of ScatterColumn: it writes one
// solved global Jacobian row, mapped through the row layout, into every
// block it intersects. row must span the full flattened column space.
func (s *Store) ScatterRow(irow int, row []float64) error {
	if len(row) != s.wrt.Total() {
		return fmt.Errorf("%s: %w: got %d, column space is %d", s.path, ErrVectorSize, len(row), s.wrt.Total())
	}
	of, loc, err := s.of.FindIndex(irow)
	if err != nil {
		return fmt.Errorf("%s: %w", s.path, err)
	}

	for _, wrt := range s.wrt.names {
		sj, ok := s.subs[Key{Of: of, Wrt: wrt}]
		if !ok || !sj.Dependent {
			continue
		}
		start, _, _ := s.wrt.Range(wrt)
		if sj.IsDense() {
			copy(sj.Value[loc*sj.inSize:(loc+1)*sj.inSize], row[start:start+sj.inSize])
		} else {
			for k, r := range sj.Rows {
				if r == loc {
					sj.Value[k] = row[start+sj.Cols[k]]
				}
			}
		}
	}
	return nil
}

// Randomize fills every dependent block with random()+1.0 values while
// keeping the zero structure exact: COO blocks get values only at their
// declared coordinates, dense blocks with probed sparsity (SetSparsity) only
// at the probed coordinates, and dense blocks without any known sparsity are
// filled entirely. The +1.0 shift keeps every value away from zero so a
// false near-zero cancellation cannot mask a structurally nonzero entry
// during randomized sparsity estimation.
//
// rng must not be nil: randomness is always injected, never ambient, so
// probing is reproducible under a fixed seed.
func (s *Store) Randomize(rng *rand.Rand) {
	for _, key := range s.order {
		sj := s.subs[key]
		if !sj.Dependent {
			continue
		}
		switch {
		case !sj.IsDense():
			for k := range sj.Value {
				sj.Value[k] = rng.Float64() + 1.0
			}
		case sj.spRows != nil:
			for i := range sj.Value {
				sj.Value[i] = 0
			}
			for k := range sj.spRows {
				sj.Value[sj.spRows[k]*sj.inSize+sj.spCols[k]] = rng.Float64() + 1.0
			}
		default:
			for i := range sj.Value {
				sj.Value[i] = rng.Float64() + 1.0
			}
		}
	}
}
