// Package sparsity discovers and represents the structural nonzero pattern
// of a Jacobian.
//
// A Pattern is a boolean matrix over the full flattened row space by the
// full flattened column space, built once per coloring computation and
// treated as immutable afterwards. The probe fills it empirically: each
// column is perturbed with a small random nonzero delta through
// perturb.Run, and every row of the result that moves above a numerical
// noise floor is marked. Randomized — not deterministic unit — deltas are
// used because a 0/1 perturbation can coincidentally sum to zero in a
// linear combination and hide a true dependency; repeating with a second
// independent pass and taking the union shrinks that risk further.
//
// Correctness is prioritized over minimality: passes only ever widen the
// pattern. A column that shows no nonzero rows is not an error (it may
// legitimately cancel); it ends up in the coloring's trivial color and is
// reported by Pattern.EmptyCols for the caller to judge.
//
// Defaults: 2 probe passes, 1e-15 absolute noise floor. See Options.
package sparsity
