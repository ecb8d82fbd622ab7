package colorcache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/colorjac/coloring"
)

var (
	// ErrNotFound indicates no entry exists under the requested key.
	ErrNotFound = errors.New("colorcache: entry not found")

	// ErrNilEntry indicates a Save with a nil entry or nil coloring.
	ErrNilEntry = errors.New("colorcache: nil entry")

	// ErrBadBlob indicates a blob that does not decode to a valid entry.
	ErrBadBlob = errors.New("colorcache: malformed blob")
)

// Entry is one persisted coloring. Created once, never mutated afterwards.
type Entry struct {
	Coloring *coloring.Coloring `yaml:"coloring"`
	SavedAt  time.Time          `yaml:"saved_at"`
}

// Encode renders an entry as an opaque YAML blob.
func Encode(e *Entry) ([]byte, error) {
	if e == nil || e.Coloring == nil {
		return nil, ErrNilEntry
	}
	blob, err := yaml.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("colorcache: encode: %w", err)
	}
	return blob, nil
}

// Decode parses a blob produced by Encode.
func Decode(blob []byte) (*Entry, error) {
	var e Entry
	if err := yaml.Unmarshal(blob, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBlob, err)
	}
	if e.Coloring == nil {
		return nil, fmt.Errorf("%w: no coloring", ErrBadBlob)
	}
	return &e, nil
}

// Cache is the keyed blob store the lifecycle layer persists through.
// Keys are derived from the declaring block's path or class name.
type Cache interface {
	// Save stores the entry under key, overwriting any previous entry.
	Save(key string, e *Entry) error

	// Load returns the entry under key, or ErrNotFound.
	Load(key string) (*Entry, error)
}

// Memory is an in-process Cache backed by a map. It stores encoded blobs,
// not live pointers, so a loaded entry never aliases a saved one.
type Memory struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemory returns an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

// Save implements Cache.
func (m *Memory) Save(key string, e *Entry) error {
	blob, err := Encode(e)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.blobs[key] = blob
	m.mu.Unlock()
	return nil
}

// Load implements Cache.
func (m *Memory) Load(key string) (*Entry, error) {
	m.mu.Lock()
	blob, ok := m.blobs[key]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: key %q", ErrNotFound, key)
	}
	return Decode(blob)
}
