package jacobian

import "errors"

var (
	// ErrBadSize indicates a variable with size <= 0 was given to NewLayout.
	ErrBadSize = errors.New("jacobian: variable size must be > 0")

	// ErrDupVar indicates the same variable name appears twice in a layout.
	ErrDupVar = errors.New("jacobian: duplicate variable name")

	// ErrUnknownVar indicates a name not present in the relevant layout.
	ErrUnknownVar = errors.New("jacobian: unknown variable name")

	// ErrIndexRange indicates a global index outside the layout's span.
	ErrIndexRange = errors.New("jacobian: global index out of range")

	// ErrNotDeclared indicates access to a (of, wrt) pair that was never
	// declared. You cannot get or set an undeclared sub-Jacobian.
	ErrNotDeclared = errors.New("jacobian: sub-jacobian not declared")

	// ErrRedeclared indicates Declare was called twice for the same pair.
	ErrRedeclared = errors.New("jacobian: sub-jacobian already declared")

	// ErrPatternMismatch indicates rows and cols coordinate lists of
	// different lengths.
	ErrPatternMismatch = errors.New("jacobian: rows/cols length mismatch")

	// ErrPatternRange indicates a declared coordinate outside the block.
	ErrPatternRange = errors.New("jacobian: declared coordinate out of block range")

	// ErrShape indicates a Set value whose length matches neither the
	// declared nonzero count (COO) nor the full block (dense, with the
	// 1-element broadcast exception).
	ErrShape = errors.New("jacobian: value has the wrong shape")

	// ErrVectorSize indicates a scatter vector whose length does not match
	// the flattened row (ScatterColumn) or column (ScatterRow) space.
	ErrVectorSize = errors.New("jacobian: scatter vector size mismatch")

	// ErrIndependent indicates a value operation on a pair declared
	// structurally always-zero (dependent=false); such pairs carry no values
	// and are excluded from perturbation entirely.
	ErrIndependent = errors.New("jacobian: pair is declared independent")

	// ErrNilLayout indicates a nil layout handed to NewStore.
	ErrNilLayout = errors.New("jacobian: layout is nil")
)
