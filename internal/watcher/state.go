package watcher

// State is a phase of the watcher lifecycle.
//
//	Initializing -> Running -> Draining -> Terminated
//
// A startup failure goes from Initializing straight to Terminated.
type State int32

const (
	// StateInitializing covers directory validation and the first snapshot.
	StateInitializing State = iota
	// StateRunning is the poll loop.
	StateRunning
	// StateDraining logs the shutdown summary.
	StateDraining
	// StateTerminated is final.
	StateTerminated
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
