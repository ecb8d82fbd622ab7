package perturb

import "errors"

var (
	// ErrNilModel indicates a nil model was passed to Run.
	ErrNilModel = errors.New("perturb: model is nil")

	// ErrUnknownTarget indicates a perturbation names a variable the
	// model has no view for. Raised before any state is mutated.
	ErrUnknownTarget = errors.New("perturb: unknown perturbation target")

	// ErrIndexRange indicates a perturbation index falls outside its
	// target's view. Raised before any state is mutated.
	ErrIndexRange = errors.New("perturb: perturbation index out of range")

	// ErrBufferSize indicates the caller-supplied cache or result buffer
	// does not match the model's result vector length.
	ErrBufferSize = errors.New("perturb: buffer size mismatch")
)
