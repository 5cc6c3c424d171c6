package em

// State represents engine lifecycle state
type State int

const (
	// Uninitialized - engine created, no table yet
	Uninitialized State = iota + 1
	// Initialized - candidate sets built and table set uniformly
	Initialized
	// Iterating - EM loop is running
	Iterating
	// Converged - iteration budget used or table stopped changing
	Converged
	// Exported - results written
	Exported
)

var stateName = map[State]string{Uninitialized: "UNINITIALIZED", Initialized: "INITIALIZED",
	Iterating: "ITERATING", Converged: "CONVERGED", Exported: "EXPORTED"}

func (s State) String() string {
	if n, f := stateName[s]; f {
		return n
	}
	return "UNKNOWN"
}

// MarshalText writes state name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
