package approx

// State is the coloring lifecycle position of one Manager.
//
// Dynamic path: Uncolored → Probing → Colored → (Active | Deactivated).
// Static path: Uncolored → StaticLoaded → Active, no probing or engine
// work. Active and Deactivated are terminal for the life of the Manager.
type State int

const (
	// Uncolored: no coloring work has happened yet. Compute in this state
	// without a declared coloring evaluates one run per column, forever.
	Uncolored State = iota

	// Probing: randomized sparsity passes are running.
	Probing

	// Colored: the engine has produced a coloring, threshold not yet
	// applied.
	Colored

	// Active: colored evaluation is in effect, one run per color.
	Active

	// Deactivated: the coloring fell below the improvement threshold;
	// evaluation permanently falls back to one run per column.
	Deactivated

	// StaticLoaded: a persisted coloring was loaded and is being
	// fingerprint-checked.
	StaticLoaded
)

// String returns the lifecycle state name.
func (s State) String() string {
	switch s {
	case Uncolored:
		return "uncolored"
	case Probing:
		return "probing"
	case Colored:
		return "colored"
	case Active:
		return "active"
	case Deactivated:
		return "deactivated"
	case StaticLoaded:
		return "static-loaded"
	default:
		return "unknown"
	}
}
