package sparsity

import "errors"

var (
	// ErrBadShape indicates a pattern with a non-positive dimension.
	ErrBadShape = errors.New("sparsity: invalid pattern shape")

	// ErrOutOfRange indicates a (row, col) coordinate outside the pattern.
	ErrOutOfRange = errors.New("sparsity: coordinate out of range")

	// ErrBadOptions indicates nonsensical probe options (passes < 1,
	// non-positive noise floor or delta).
	ErrBadOptions = errors.New("sparsity: invalid probe options")

	// ErrNilLayout indicates a nil column layout handed to the probe.
	ErrNilLayout = errors.New("sparsity: column layout is nil")
)
