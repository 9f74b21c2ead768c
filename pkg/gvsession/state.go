package gvsession

// State is a Session Driver state
type State int32

const (
	StateWaitingForFile State = iota
	StateStreaming
	StateQuit
	StateEndOfStream
	StateWaitTimeout
	StateCancelled
	StateFailed
)

// String returns a string representation of the state
func (s State) String() string {
	switch s {
	case StateWaitingForFile:
		return "WaitingForFile"
	case StateStreaming:
		return "Streaming"
	case StateQuit:
		return "Quit"
	case StateEndOfStream:
		return "EndOfStream"
	case StateWaitTimeout:
		return "WaitTimeout"
	case StateCancelled:
		return "Cancelled"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the driver has stopped in this state
func (s State) Terminal() bool {
	return s >= StateQuit
}
