// Package approx approximates sparse Jacobians by perturbed model
// evaluation and manages the coloring lifecycle that makes it cheap.
//
// Two difference schemes are available. FiniteDifference resolves a
// Jacobian column as (perturbed − base) / step; ComplexStep evaluates at
// x + i·step and reads imag(result)/step, which has no subtractive
// cancellation and is exact to machine precision at step 1e-30.
//
// The Manager owns one block's lifecycle:
//
//	Uncolored → Probing → Colored → (Active | Deactivated)
//	StaticLoaded → Active
//
// With dynamic coloring declared, the first Compute probes the sparsity
// pattern (sparsity.Probe), colors it (coloring.Compute), and checks the
// improvement percentage against the configured minimum. Above threshold
// the coloring activates and every later Compute costs one model
// evaluation per color; below threshold a warning names the block and
// both percentages, and evaluation permanently falls back to one run per
// column. With UseFixedColoring, a persisted coloring is loaded from the
// cache instead and its fingerprint checked against the current
// structure — a mismatch is a fatal error, never a silent recompute.
//
// Sibling instances of one class may share a coloring through a Registry:
// the first instance to activate publishes by reference; later siblings
// run one cheap probe pass to confirm their structure agrees and adopt
// the shared object read-only. A sibling whose probe disagrees is a fatal
// ErrSiblingMismatch.
package approx
