package distrib

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNilComm indicates a nil communicator handed to NewReducer.
	ErrNilComm = errors.New("distrib: communicator is nil")

	// ErrVectorSize indicates a vector whose length differs from the
	// reducer's partition size.
	ErrVectorSize = errors.New("distrib: vector size mismatch")

	// ErrRangeOverlap indicates partition ranges that overlap or leave the
	// local span, which would make ownership ambiguous.
	ErrRangeOverlap = errors.New("distrib: malformed partition ranges")
)

// Range describes one variable's slice of the local vector and the rank
// that owns it. Entries of variables owned elsewhere are replicas held for
// local scatter access only.
type Range struct {
	Name  string
	Start int // inclusive
	End   int // exclusive
	Owner int
}

// DupIndices returns the local indices whose data is owned by another rank.
// Computed once per partition layout; the layout is fixed for a run.
func DupIndices(ranges []Range, rank, size int) ([]int, error) {
	var dup []int
	for _, r := range ranges {
		if r.Start < 0 || r.End < r.Start || r.End > size {
			return nil, fmt.Errorf("%w: %q spans [%d, %d) in size %d", ErrRangeOverlap, r.Name, r.Start, r.End, size)
		}
		if r.Owner != rank {
			for i := r.Start; i < r.End; i++ {
				dup = append(dup, i)
			}
		}
	}
	return dup, nil
}

// Reducer computes replica-aware global reductions for one rank's slice of
// a partitioned vector space.
type Reducer struct {
	comm    Communicator
	size    int
	dup     []int
	scratch []float64
}

// NewReducer builds a reducer over a local vector of the given size, with
// dup listing the locally held but non-owned indices (see DupIndices).
func NewReducer(comm Communicator, dup []int, size int) (*Reducer, error) {
	if comm == nil {
		return nil, ErrNilComm
	}
	for _, i := range dup {
		if i < 0 || i >= size {
			return nil, fmt.Errorf("%w: dup index %d in size %d", ErrVectorSize, i, size)
		}
	}
	r := &Reducer{comm: comm, size: size, dup: dup}
	if len(dup) > 0 {
		r.scratch = make([]float64, size)
	}
	return r, nil
}

// nodup returns v with every non-owned entry zeroed — in the scratch buffer,
// never in v itself. With no replicas it returns v without copying.
func (r *Reducer) nodup(v []float64) []float64 {
	if len(r.dup) == 0 {
		return v
	}
	copy(r.scratch, v)
	for _, i := range r.dup {
		r.scratch[i] = 0
	}
	return r.scratch
}

// Norm returns the global 2-norm of the partitioned vector: replicas are
// excluded, local sums of squares are reduced across all ranks, and the
// square root of the total is returned (identically on every rank).
func (r *Reducer) Norm(v []float64) (float64, error) {
	if len(v) != r.size {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrVectorSize, len(v), r.size)
	}
	local := 0.0
	for _, x := range r.nodup(v) {
		local += x * x
	}
	total, err := r.comm.AllReduceSum(local)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(total), nil
}

// Dot returns the global dot product of a and b. Replicated entries of a
// are zeroed before the local product so each logical entry contributes on
// exactly one rank.
func (r *Reducer) Dot(a, b []float64) (float64, error) {
	if len(a) != r.size || len(b) != r.size {
		return 0, fmt.Errorf("%w: got %d/%d, want %d", ErrVectorSize, len(a), len(b), r.size)
	}
	an := r.nodup(a)
	local := 0.0
	for i, x := range an {
		local += x * b[i]
	}
	return r.comm.AllReduceSum(local)
}
