package session

import (
	"encoding/json"
	"time"
)

type State int

const (
	Unknown State = iota
	Pending
	Authorizing
	Active
	Ended
)

var stateNames = map[State]string{
	Pending:     "pending",
	Authorizing: "authorizing",
	Active:      "active",
	Ended:       "ended",
}

var stateFromName = map[string]State{
	"pending":     Pending,
	"authorizing": Authorizing,
	"active":      Active,
	"ended":       Ended,
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(data []byte) error {
	var n string
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if v, ok := stateFromName[n]; ok {
		*s = v
	} else {
		*s = Unknown
	}
	return nil
}

// FullDevice is the tri-state grant for control beyond the shared screen.
type FullDevice string

const (
	FullDeviceOff       FullDevice = "off"
	FullDeviceRequested FullDevice = "requested"
	FullDeviceOn        FullDevice = "on"
)

// Tool is the agent-side annotation or control tool.
type Tool string

const (
	ToolLaser   Tool = "laser"
	ToolDrawing Tool = "drawing"
	ToolControl Tool = "control"
)

// Tools lists the selectable tools in display order.
var Tools = []Tool{ToolLaser, ToolDrawing, ToolControl}

// Valid reports whether t is one of the known tools.
func (t Tool) Valid() bool {
	switch t {
	case ToolLaser, ToolDrawing, ToolControl:
		return true
	}
	return false
}

// Session is a snapshot of the remote session. Consumers replace it
// wholesale on every update and never mutate a received value.
type Session struct {
	ID         string     `json:"id"`
	State      State      `json:"state"`
	Activated  *time.Time `json:"activated,omitempty"`
	FullDevice FullDevice `json:"full_device,omitempty"`
}

// IsEnded reports whether the session reached its terminal state.
func (s *Session) IsEnded() bool {
	return s != nil && s.State == Ended
}

// Clone returns a deep copy so the copy can be mutated independently.
func (s *Session) Clone() *Session {
	c := *s
	if s.Activated != nil {
		t := *s.Activated
		c.Activated = &t
	}
	return &c
}

// ScreenInfo describes the last known remote video stream.
type ScreenInfo struct {
	Width   int        `json:"width"`
	Height  int        `json:"height,omitempty"`
	Updated *time.Time `json:"updated,omitempty"`
}

func (s *ScreenInfo) Clone() *ScreenInfo {
	c := *s
	if s.Updated != nil {
		t := *s.Updated
		c.Updated = &t
	}
	return &c
}

// Error is a remote-reported (or locally raised) error. Only ID is
// guaranteed to be set.
type Error struct {
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.ID
	}
	return e.ID + ": " + e.Message
}
