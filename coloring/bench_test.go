package coloring_test

import (
	"testing"

	"github.com/katalvlaran/colorjac/coloring"
	"github.com/katalvlaran/colorjac/sparsity"
)

// benchmarkCompute colors an n×n banded pattern of the given bandwidth.
// It resets the timer after pattern construction and fails on unexpected
// errors.
func benchmarkCompute(b *testing.B, n, band int) {
	p, err := sparsity.NewPattern(n, n)
	if err != nil {
		b.Fatalf("pattern: %v", err)
	}
	for j := 0; j < n; j++ {
		for d := 0; d < band && j+d < n; d++ {
			if err = p.Set(j+d, j); err != nil {
				b.Fatalf("set: %v", err)
			}
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err = coloring.Compute(p, coloring.Forward, "banded"); err != nil {
			b.Fatalf("compute: %v", err)
		}
	}
}

// BenchmarkCompute_Banded100 colors a small 100×100 band, width 5.
func BenchmarkCompute_Banded100(b *testing.B) {
	benchmarkCompute(b, 100, 5)
}

// BenchmarkCompute_Banded1000 colors a 1000×1000 band, width 5.
func BenchmarkCompute_Banded1000(b *testing.B) {
	benchmarkCompute(b, 1000, 5)
}

// BenchmarkCompute_Banded1000Wide colors a 1000×1000 band, width 25.
func BenchmarkCompute_Banded1000Wide(b *testing.B) {
	benchmarkCompute(b, 1000, 25)
}

// BenchmarkBest_Banded500 runs both orientations on a 500×500 band.
func BenchmarkBest_Banded500(b *testing.B) {
	p, err := sparsity.NewPattern(500, 500)
	if err != nil {
		b.Fatalf("pattern: %v", err)
	}
	for j := 0; j < 500; j++ {
		for d := 0; d < 5 && j+d < 500; d++ {
			_ = p.Set(j+d, j)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err = coloring.Best(p, "banded"); err != nil {
			b.Fatalf("best: %v", err)
		}
	}
}
