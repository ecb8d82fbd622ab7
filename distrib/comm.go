package distrib

import (
	"errors"
	"sync"
)

// ErrBadGroupSize indicates Group was asked for a non-positive rank count.
var ErrBadGroupSize = errors.New("distrib: group size must be > 0")

// Communicator is the collective surface the Reducer needs. Implementations
// must be symmetric: AllReduceSum blocks until every rank in the group has
// contributed.
type Communicator interface {
	// Rank is this participant's index in [0, Size).
	Rank() int

	// Size is the number of cooperating participants.
	Size() int

	// AllReduceSum contributes x and returns the sum over all ranks.
	// Blocks until the whole group has called it.
	AllReduceSum(x float64) (float64, error)
}

// group is the shared state behind a set of LocalComms: a reusable barrier
// with a per-round sum.
type group struct {
	n       int
	mu      sync.Mutex
	cond    *sync.Cond
	arrived int
	acc     float64
	sum     float64
	gen     uint64
}

// LocalComm is one rank of an in-process communicator group.
type LocalComm struct {
	g    *group
	rank int
}

// Group creates n linked in-process communicators. Each must be used by
// exactly one goroutine. The barrier is reusable: ranks may call reductions
// any number of times, as long as all of them make the same sequence of
// calls.
func Group(n int) ([]*LocalComm, error) {
	if n <= 0 {
		return nil, ErrBadGroupSize
	}
	g := &group{n: n}
	g.cond = sync.NewCond(&g.mu)
	comms := make([]*LocalComm, n)
	for i := range comms {
		comms[i] = &LocalComm{g: g, rank: i}
	}
	return comms, nil
}

// Rank implements Communicator.
func (c *LocalComm) Rank() int { return c.rank }

// Size implements Communicator.
func (c *LocalComm) Size() int { return c.g.n }

// AllReduceSum implements Communicator. Deadlocks if any rank of the group
// never calls it; symmetric participation is a precondition, not detected.
func (c *LocalComm) AllReduceSum(x float64) (float64, error) {
	g := c.g
	g.mu.Lock()
	defer g.mu.Unlock()

	myGen := g.gen
	g.acc += x
	g.arrived++
	if g.arrived == g.n {
		// Last arrival publishes the round result and releases the barrier.
		g.sum = g.acc
		g.acc = 0
		g.arrived = 0
		g.gen++
		g.cond.Broadcast()
	} else {
		for g.gen == myGen {
			g.cond.Wait()
		}
	}
	// A rank cannot start round gen+1 until every rank has returned from
	// round gen, so g.sum is stable here.
	return g.sum, nil
}
