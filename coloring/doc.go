// Package coloring partitions the columns (or rows) of a sparsity pattern
// into colors such that no two members of a color share a nonzero row. All
// members of a color can then be perturbed together and resolved by a single
// model evaluation, shrinking the cost of a full Jacobian from N runs to
// NumColors runs.
//
// The engine is a greedy distance-1 coloring, the standard approach for
// sparse-Jacobian compression: columns are processed by decreasing nonzero
// count (a common heuristic that improves color count), each taking the
// lowest color not already used by a neighbor. Columns with no nonzero rows
// conflict with nothing and ride along in the first color. Best tries both
// directions and keeps whichever needs fewer colors.
//
// A Coloring carries everything a later run needs to reuse it — direction,
// groups, per-column nonzero row sets, and a Fingerprint of the structure it
// was computed against. A fingerprint mismatch on reuse means the model
// changed; that must surface as a fatal error, never a silent recompute.
package coloring
