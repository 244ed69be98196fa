// Package section holds the view-models behind the three page sections.
//
// Each view-model owns a small state machine. It is created in the Loading
// phase, runs exactly one fetch sequence when mounted, and transitions at most
// once: to Success or Error for the list sections, to Ready for statistics.
// Renderers read copies of the state and may subscribe to be told when it
// changes; nothing else mutates it.
package section

import "fmt"

// Phase is the discrete state of a section.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseSuccess
	PhaseError
	PhaseReady
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// MarshalText renders the phase by name in JSON and YAML output.
func (p Phase) MarshalText() ([]byte, error) {
	if p < PhaseLoading || p > PhaseReady {
		return nil, fmt.Errorf("unknown phase %d", int(p))
	}
	return []byte(p.String()), nil
}

// State is the observable state of a list section. Items is meaningful only in
// PhaseSuccess and ErrorMessage only in PhaseError.
type State[T any] struct {
	Phase        Phase  `json:"phase" yaml:"phase"`
	Items        []T    `json:"items,omitempty" yaml:"items,omitempty"`
	ErrorMessage string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Snapshot holds the aggregate counts shown by the statistics section.
type Snapshot struct {
	Posts    int `json:"posts" yaml:"posts"`
	Users    int `json:"users" yaml:"users"`
	Comments int `json:"comments" yaml:"comments"`
	Photos   int `json:"photos" yaml:"photos"`
}

// StatsState is the observable state of the statistics section. Snapshot is
// meaningful only in PhaseReady.
type StatsState struct {
	Phase        Phase    `json:"phase" yaml:"phase"`
	Snapshot     Snapshot `json:"snapshot" yaml:"snapshot"`
	ErrorMessage string   `json:"error,omitempty" yaml:"error,omitempty"`
}
