// Package colorjac approximates sparse Jacobians of coupled computational
// blocks by perturbation (finite difference or complex step), compressing
// the number of model evaluations with graph coloring.
//
// 🚀 What is colorjac?
//
//	A pure-Go engine for derivative approximation when analytic derivatives
//	are unavailable:
//		• perturb/    — run the model once per perturbation group, restore state exactly
//		• jacobian/   — per-(output,input) sub-Jacobian storage, dense or COO, with scatter
//		• sparsity/   — randomized probing of the structural nonzero pattern
//		• coloring/   — greedy distance-1 coloring of the pattern, fewer runs per Jacobian
//		• colorcache/ — persisted colorings with fingerprint validation (YAML + LevelDB)
//		• approx/     — finite-difference / complex-step schemes and the coloring lifecycle
//		• distrib/    — replica-aware norms and dot products across cooperating processes
//
// The payoff: for a Jacobian whose columns partition into k independent
// groups, a full derivative evaluation costs k model runs instead of N.
//
// ✨ Design principles
//
//   - Determinism – every randomized step takes an explicit seedable RNG
//   - Safety – perturbations are always restored, even when evaluation fails
//   - Honesty – a stale or mismatched coloring is a fatal error, never a silent recompute
//   - Pure Go – no cgo, no hidden deps
//
// Start with approx.Manager for the full lifecycle, or use the packages
// individually. Runnable scenarios live under examples/.
package colorjac
