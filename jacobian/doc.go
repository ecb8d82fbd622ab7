// Package jacobian stores per-(output, input) sub-Jacobian blocks, dense or
// compressed (COO), and assembles solved columns or rows into them.
//
// The Store is a dictionary keyed by ordered name pairs. Structure — which
// pairs exist, their rows/cols coordinate lists, the dependent flags — is
// fixed at declaration time; only values mutate, during scatter of a solved
// perturbation result. Access to an undeclared pair is an error at the call
// site, never deferred.
//
// Variable geometry comes from two Layouts (row space over outputs, column
// space over inputs), ordered offset tables that map a global flattened index
// to a (block, local index) pair. A Layout must be rebuilt whenever the set
// or sizes of variables changes; anything derived from the old one — in
// particular a Coloring — is then stale by definition.
//
// The Store holds non-owning references to its Layouts and to the owning
// block's path (used only in error messages); the block owns both.
package jacobian
