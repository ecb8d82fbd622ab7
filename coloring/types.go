package coloring

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Direction states which axis of the pattern a coloring groups.
type Direction int

const (
	// Forward colors columns; one perturbed evaluation resolves one column
	// group. The usual choice when inputs are fewer than outputs.
	Forward Direction = iota

	// Reverse colors rows of the pattern (columns of its transpose).
	Reverse
)

// String returns the conventional name of the direction.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "fwd"
	case Reverse:
		return "rev"
	default:
		return "unknown"
	}
}

// Fingerprint identifies the structure a coloring was computed against:
// the pattern shape plus a digest of the declaring block's structural
// signature. Two structures with equal fingerprints are interchangeable
// for coloring reuse; anything else is a fatal mismatch.
type Fingerprint struct {
	Rows   int    `yaml:"rows"`
	Cols   int    `yaml:"cols"`
	Digest string `yaml:"digest"`
}

// NewFingerprint digests a structural signature (see jacobian.Store.Signature)
// together with the pattern shape.
func NewFingerprint(rows, cols int, signature string) Fingerprint {
	sum := sha256.Sum256([]byte(signature))
	return Fingerprint{Rows: rows, Cols: cols, Digest: hex.EncodeToString(sum[:])}
}

// Matches reports structural equality.
func (f Fingerprint) Matches(other Fingerprint) bool {
	return f.Rows == other.Rows && f.Cols == other.Cols && f.Digest == other.Digest
}

// Check returns a fatal ErrFingerprint describing the mismatched dimensions,
// or nil when the fingerprints agree.
func (f Fingerprint) Check(other Fingerprint) error {
	if f.Matches(other) {
		return nil
	}
	return fmt.Errorf("%w: have %dx%d digest %.8s…, want %dx%d digest %.8s…",
		ErrFingerprint, f.Rows, f.Cols, f.Digest, other.Rows, other.Cols, other.Digest)
}

// Coloring is an ordered partition of 0..N-1 into colors, plus the nonzero
// row sets needed to scatter a solved color back into sub-Jacobian blocks.
// Immutable after computation; shared instances read it concurrently.
type Coloring struct {
	// Direction records which axis the groups index: pattern columns
	// (Forward) or pattern rows (Reverse).
	Direction Direction `yaml:"direction"`

	// Groups lists the colors; each color lists its member indices. Every
	// index in 0..N-1 appears in exactly one color.
	Groups [][]int `yaml:"groups"`

	// RowSets[j] holds the sorted nonzero opposite-axis indices of member
	// j: rows of column j for Forward, columns of row j for Reverse.
	RowSets [][]int `yaml:"row_sets"`

	// N is the size of the colored index space.
	N int `yaml:"n"`

	// Fingerprint ties the coloring to the structure it describes.
	Fingerprint Fingerprint `yaml:"fingerprint"`
}

// NumColors returns the number of colors; each costs one model evaluation.
func (c *Coloring) NumColors() int { return len(c.Groups) }

// ImprovementPct is 100·(1 − colors/N): the fraction of model evaluations
// saved relative to uncolored one-run-per-column evaluation. Zero or
// negative means coloring buys nothing.
func (c *Coloring) ImprovementPct() float64 {
	if c.N == 0 {
		return 0
	}
	return 100 * (1 - float64(c.NumColors())/float64(c.N))
}
