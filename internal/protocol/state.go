package protocol

// State is the lifecycle state of a session.
type State int32

const (
	// StateDisconnected is both the initial state of a client and the
	// terminal state of a session.
	StateDisconnected State = iota
	// StateConnecting means the transport is up and the handshake has not begun.
	StateConnecting
	// StateAwaitingInit means the initialize request was sent and its reply is pending.
	StateAwaitingInit
	// StateReady means the handshake completed and requests may be sent.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAwaitingInit:
		return "awaiting_init"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}
