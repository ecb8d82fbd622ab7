package coloring

import "errors"

var (
	// ErrNilPattern indicates a nil sparsity pattern.
	ErrNilPattern = errors.New("coloring: pattern is nil")

	// ErrBadDirection indicates an unknown coloring direction.
	ErrBadDirection = errors.New("coloring: unknown direction")

	// ErrShapeMismatch indicates a coloring validated against a pattern of a
	// different shape.
	ErrShapeMismatch = errors.New("coloring: pattern shape mismatch")

	// ErrPartition indicates the colors do not partition 0..N-1 exactly:
	// some index is missing, repeated, or out of range.
	ErrPartition = errors.New("coloring: groups are not a partition of the index space")

	// ErrIndependence indicates two members of one color share a nonzero
	// row — the coloring would corrupt derivative values if used.
	ErrIndependence = errors.New("coloring: columns in one color share a nonzero row")

	// ErrRowSets indicates the coloring's stored nonzero row sets disagree
	// with the pattern it claims to describe.
	ErrRowSets = errors.New("coloring: stored row sets disagree with pattern")

	// ErrFingerprint indicates a persisted or shared coloring no longer
	// matches the current structure. Stale colorings silently reused would
	// produce wrong derivatives, so this is fatal for the caller.
	ErrFingerprint = errors.New("coloring: fingerprint mismatch")
)
