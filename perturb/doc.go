// Package perturb applies grouped perturbations to a model's state, runs the
// model exactly once, and hands back the perturbed result vector — restoring
// the shared state to its pre-call values on every path, including failure.
//
// The runner knows nothing about sparsity, coloring, or derivative formulas.
// It is the one suspension point of the engine: callers (the approximation
// schemes in package approx) decide what the deltas mean (a real finite
// difference step, or a purely imaginary complex step) and divide them out
// after the run.
//
// Concurrency: Run is NOT reentrant with respect to one model instance. At
// most one call may be in flight against a given model at a time; colored
// evaluations invoke it strictly in sequence. Independent model instances
// with disjoint state may run concurrently.
package perturb
