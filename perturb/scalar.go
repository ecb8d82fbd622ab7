package perturb

import "math"

// Scalar conversion and projection helpers shared by the probe and the
// approximation schemes. They let generic code stay agnostic to which of
// the two numeric domains it runs in.

// FromReal embeds a real value into T.
func FromReal[T Scalar](x float64) T {
	var z T
	switch p := any(&z).(type) {
	case *float64:
		*p = x
	case *complex128:
		*p = complex(x, 0)
	}
	return z
}

// FromImag builds a purely imaginary value of magnitude x. In the real
// domain there is no imaginary axis and the result is zero; callers that
// need an imaginary delta must ensure T is complex128 (see IsComplex).
func FromImag[T Scalar](x float64) T {
	var z T
	if p, ok := any(&z).(*complex128); ok {
		*p = complex(0, x)
	}
	return z
}

// Real projects the real part of x.
func Real[T Scalar](x T) float64 {
	switch v := any(x).(type) {
	case float64:
		return v
	case complex128:
		return real(v)
	}
	return 0
}

// Imag projects the imaginary part of x; zero in the real domain.
func Imag[T Scalar](x T) float64 {
	if v, ok := any(x).(complex128); ok {
		return imag(v)
	}
	return 0
}

// Abs is the magnitude of x: |x| for float64, the modulus for complex128.
func Abs[T Scalar](x T) float64 {
	switch v := any(x).(type) {
	case float64:
		return math.Abs(v)
	case complex128:
		return math.Hypot(real(v), imag(v))
	}
	return 0
}

// IsComplex reports whether T is the complex domain.
func IsComplex[T Scalar]() bool {
	var z T
	_, ok := any(z).(complex128)
	return ok
}
