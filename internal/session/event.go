package session

// EventType classifies events pushed by the remote service.
type EventType int

const (
	EventSessionUpdated EventType = iota // session snapshot replaced
	EventScreenUpdated                   // screen info snapshot replaced
	EventError                           // remote runtime error
)

var eventNames = map[EventType]string{
	EventSessionUpdated: "session.updated",
	EventScreenUpdated:  "screen.updated",
	EventError:          "error",
}

func (t EventType) String() string {
	if n, ok := eventNames[t]; ok {
		return n
	}
	return "unknown"
}

// ParseEventType maps a wire event name to its EventType.
func ParseEventType(name string) (EventType, bool) {
	for t, n := range eventNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Event carries exactly one snapshot, selected by Type. Snapshots are
// owned by the receiver and safe to retain.
type Event struct {
	Type    EventType
	Session *Session
	Screen  *ScreenInfo
	Err     *Error

	// Seq is the frame sequence number the event arrived in; zero for
	// events that did not come off the wire.
	Seq uint64
}
