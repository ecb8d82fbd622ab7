package perturb

// Run — perturbed single evaluation with guaranteed restore.
//
// Procedure:
//  1. Validate every perturbation target and index against the model
//     (no state is touched if validation fails).
//  2. Apply all deltas additively in place.
//  3. Snapshot the unperturbed result vector into cache.
//  4. Invoke the model's evaluation entry point exactly once.
//  5. Copy the resulting vector into out.
//  6. Restore the result vector from cache and subtract the deltas back
//     out — exact arithmetic undo, never a re-evaluation.
//
// Step 6 runs on every path: if Evaluate returns an error (divergence,
// NaN guard, analysis failure), the error propagates after the shared
// state has been restored. From the caller's perspective Run is
// side-effect free on the model regardless of outcome.
//
// cache and out must each have the same length as model.Result(mode);
// cache holds the unperturbed baseline afterwards, which is exactly what
// difference-quotient callers need.
//
// Complexity: O(P) perturbation work plus one model evaluation, where P
// is the total number of perturbed indices.
func Run[T Scalar](model Model[T], pts []Perturbation[T], mode Mode, cache, out []T) error {
	if model == nil {
		return ErrNilModel
	}

	result := model.Result(mode)
	if len(cache) != len(result) || len(out) != len(result) {
		return ErrBufferSize
	}

	// Validate up front so a bad triple cannot leave earlier triples applied.
	views := make([][]T, len(pts))
	for i, p := range pts {
		v := model.View(p.Target)
		if v == nil {
			return ErrUnknownTarget
		}
		for _, idx := range p.Indices {
			if idx < 0 || idx >= len(v) {
				return ErrIndexRange
			}
		}
		views[i] = v
	}

	for i, p := range pts {
		for _, idx := range p.Indices {
			views[i][idx] += p.Delta
		}
	}
	// Guaranteed cleanup: the perturbation is subtracted back out even when
	// Evaluate fails or panics.
	defer func() {
		for i, p := range pts {
			for _, idx := range p.Indices {
				views[i][idx] -= p.Delta
			}
		}
	}()

	copy(cache, result)
	if err := model.Evaluate(mode); err != nil {
		copy(result, cache)
		return err
	}

	copy(out, result)
	copy(result, cache)
	return nil
}
