package httpserver

// State is the lifecycle position of a Server.
//
//	Idle → Starting → Running → Closing → Closed
//	          └──────→ Failed
//
// Closed and Failed are terminal.
type State int32

const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateClosing
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// allStates is used to reset the state gauge on every transition.
var allStates = []State{StateIdle, StateStarting, StateRunning, StateClosing, StateClosed, StateFailed}
