// Package distrib computes norms and dot products over vectors partitioned
// across cooperating processes, where some locally held entries are replicas
// of data another process owns.
//
// Without correction, a replicated entry is counted once per holding process
// and inflates every reduction by the replication factor. The Reducer zeroes
// the non-owned entries in a scratch copy — never in the caller's vector —
// before applying the global sum reduction. Ownership is determined once per
// partition layout (DupIndices) and does not change during a run.
//
// Collectives are barrier-like: every process in the group must call the
// same reduction together. A process calling while others do not is a
// deadlock, not a handled error — participation is a documented
// precondition, deliberately undetected, matching the cooperative symmetric
// model of the MPI-style systems this mirrors.
//
// Group builds an in-process communicator set (one per goroutine "rank")
// for tests and examples; production deployments plug their own
// Communicator over a real transport.
package distrib
