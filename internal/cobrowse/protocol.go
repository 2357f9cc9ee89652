// Package cobrowse is the agent-side client of a cobrowse service: it
// builds the embedding surface URL, attaches a Context to it and exposes
// the session's events and commands. Types here are the wire protocol
// shared with the mock service.
package cobrowse

import (
	"encoding/json"
	"fmt"

	"github.com/custom-agent-demo/agentui/internal/session"
)

// Envelope wraps every server-to-agent frame.
type Envelope struct {
	Type    string          `json:"type"`
	Seq     uint64          `json:"seq"`
	Payload json.RawMessage `json:"payload"`
}

// CommandName identifies an agent-to-server command.
type CommandName string

const (
	CmdSetTool          CommandName = "set_tool"
	CmdClearAnnotations CommandName = "clear_annotations"
	CmdSetFullDevice    CommandName = "set_full_device"
	CmdEndSession       CommandName = "end_session"
)

// commandType is the envelope type of every agent-to-server frame.
const commandType = "command"

// Command is an agent-to-server frame.
type Command struct {
	Type    string      `json:"type"`
	Command CommandName `json:"command"`
	Value   string      `json:"value,omitempty"`
}

// NewCommand builds a command frame.
func NewCommand(name CommandName, value string) Command {
	return Command{Type: commandType, Command: name, Value: value}
}

// IsCommand reports whether the frame is a command frame.
func (c Command) IsCommand() bool {
	return c.Type == commandType
}

// NewEnvelope marshals the snapshot carried by ev into a frame.
func NewEnvelope(ev session.Event, seq uint64) (Envelope, error) {
	var payload any
	switch ev.Type {
	case session.EventSessionUpdated:
		payload = ev.Session
	case session.EventScreenUpdated:
		payload = ev.Screen
	case session.EventError:
		payload = ev.Err
	default:
		return Envelope{}, fmt.Errorf("unknown event type %d", ev.Type)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: ev.Type.String(), Seq: seq, Payload: data}, nil
}

// DecodeEvent turns a frame into an event. A frame with an empty or null
// payload is rejected, since every event replaces a snapshot.
func DecodeEvent(env Envelope) (session.Event, error) {
	typ, ok := session.ParseEventType(env.Type)
	if !ok {
		return session.Event{}, fmt.Errorf("unknown event %q", env.Type)
	}
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return session.Event{}, fmt.Errorf("%s: empty payload", env.Type)
	}

	ev := session.Event{Type: typ, Seq: env.Seq}
	var err error
	switch typ {
	case session.EventSessionUpdated:
		ev.Session = &session.Session{}
		err = json.Unmarshal(env.Payload, ev.Session)
	case session.EventScreenUpdated:
		ev.Screen = &session.ScreenInfo{}
		err = json.Unmarshal(env.Payload, ev.Screen)
	case session.EventError:
		ev.Err = &session.Error{}
		err = json.Unmarshal(env.Payload, ev.Err)
	}
	if err != nil {
		return session.Event{}, fmt.Errorf("%s: %w", env.Type, err)
	}
	return ev, nil
}
