// Package mock is a stand-in cobrowse service. Each agent connection on
// /connect gets its own simulated device whose session walks a scripted
// lifecycle and reacts to the agent's commands.
package mock

import (
	"fmt"
	"sort"
	"time"

	"github.com/custom-agent-demo/agentui/internal/cobrowse"
	"github.com/custom-agent-demo/agentui/internal/session"
)

// Scenario selects the scripted lifecycle of a device.
type Scenario string

const (
	ScenarioHappy   Scenario = "happy"   // connects, is accepted, streams steadily
	ScenarioStall   Scenario = "stall"   // stream pauses long enough to trip the timeout warning
	ScenarioError   Scenario = "error"   // reports a runtime error shortly after activation
	ScenarioDecline Scenario = "decline" // the device user never accepts; session ends
)

var scenarios = map[Scenario]bool{
	ScenarioHappy:   true,
	ScenarioStall:   true,
	ScenarioError:   true,
	ScenarioDecline: true,
}

// ParseScenario validates a scenario name.
func ParseScenario(name string) (Scenario, error) {
	s := Scenario(name)
	if !scenarios[s] {
		return "", fmt.Errorf("unknown scenario %q (want one of %v)", name, ScenarioNames())
	}
	return s, nil
}

// ScenarioNames lists the known scenarios, sorted.
func ScenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for s := range scenarios {
		names = append(names, string(s))
	}
	sort.Strings(names)
	return names
}

// Lifecycle timing, in ticks.
const (
	authorizeAt      = 3  // pending -> authorizing
	activateAt       = 6  // authorizing -> active (or ended when declined)
	fullDeviceDelay  = 2  // requested -> on
	stallAfter       = 4  // active ticks before the stream stalls
	stallFor         = 30 // ticks without frames
	errorAfter       = 3  // active ticks before the scripted error
	screenWidth      = 1280
	screenHeight     = 720
	scriptedErrorID  = "E1"
	unknownCommandID = "unknown_command"
)

// Device is the simulated remote side of one session. It is not safe for
// concurrent use; one goroutine drives it.
type Device struct {
	scenario Scenario
	state    *session.Session
	screen   *session.ScreenInfo

	tick         int
	activeTicks  int
	fullDeviceAt int // tick at which a pending request is granted, 0 if none
	tool         session.Tool
	annotations  int // strokes drawn since the last clear
	erred        bool
}

// NewDevice creates a device for session id in its initial pending state.
func NewDevice(id string, scenario Scenario) *Device {
	return &Device{
		scenario: scenario,
		state: &session.Session{
			ID:         id,
			State:      session.Pending,
			FullDevice: session.FullDeviceOff,
		},
		tool: session.ToolLaser,
	}
}

// Session returns a copy of the current session snapshot.
func (d *Device) Session() *session.Session {
	return d.state.Clone()
}

// Tool returns the tool last selected by the agent.
func (d *Device) Tool() session.Tool {
	return d.tool
}

// Annotations returns the number of strokes on the shared screen. The
// agent adds one per streamed frame while the drawing tool is selected.
func (d *Device) Annotations() int {
	return d.annotations
}

// Ended reports whether the session reached its terminal state.
func (d *Device) Ended() bool {
	return d.state.IsEnded()
}

// Hello returns the events sent right after the agent attaches.
func (d *Device) Hello() []session.Event {
	return []session.Event{d.sessionEvent()}
}

// Step advances the script by one tick.
func (d *Device) Step(now time.Time) []session.Event {
	if d.Ended() {
		return nil
	}
	d.tick++

	var events []session.Event
	switch d.state.State {
	case session.Pending:
		if d.tick >= authorizeAt {
			d.state.State = session.Authorizing
			events = append(events, d.sessionEvent())
		}
		return events

	case session.Authorizing:
		if d.tick < activateAt {
			return nil
		}
		if d.scenario == ScenarioDecline {
			d.state.State = session.Ended
			return append(events, d.sessionEvent())
		}
		d.state.State = session.Active
		at := now
		d.state.Activated = &at
		events = append(events, d.sessionEvent())
	}

	d.activeTicks++

	if d.fullDeviceAt > 0 && d.tick >= d.fullDeviceAt {
		d.fullDeviceAt = 0
		d.state.FullDevice = session.FullDeviceOn
		events = append(events, d.sessionEvent())
	}

	if d.streaming() {
		at := now
		d.screen = &session.ScreenInfo{Width: screenWidth, Height: screenHeight, Updated: &at}
		events = append(events, session.Event{Type: session.EventScreenUpdated, Screen: d.screen.Clone()})
		if d.tool == session.ToolDrawing {
			d.annotations++
		}
	}

	if d.scenario == ScenarioError && !d.erred && d.activeTicks > errorAfter {
		d.erred = true
		events = append(events, session.Event{
			Type: session.EventError,
			Err:  &session.Error{ID: scriptedErrorID, Message: "device stream interrupted"},
		})
	}

	return events
}

// streaming reports whether the device sends a frame this tick.
func (d *Device) streaming() bool {
	if d.scenario != ScenarioStall {
		return true
	}
	phase := (d.activeTicks - 1) % (stallAfter + stallFor)
	return phase < stallAfter
}

// Apply handles one agent command.
func (d *Device) Apply(cmd cobrowse.Command) []session.Event {
	if d.Ended() {
		return nil
	}

	switch cmd.Command {
	case cobrowse.CmdSetTool:
		tool := session.Tool(cmd.Value)
		if !tool.Valid() {
			return []session.Event{d.errorEvent(unknownCommandID, "unknown tool "+cmd.Value)}
		}
		d.tool = tool

	case cobrowse.CmdClearAnnotations:
		d.annotations = 0

	case cobrowse.CmdSetFullDevice:
		switch session.FullDevice(cmd.Value) {
		case session.FullDeviceRequested:
			if d.state.FullDevice == session.FullDeviceOn {
				return nil
			}
			if d.state.FullDevice != session.FullDeviceRequested {
				d.state.FullDevice = session.FullDeviceRequested
				d.fullDeviceAt = d.tick + fullDeviceDelay
				return []session.Event{d.sessionEvent()}
			}
		case session.FullDeviceOff:
			d.fullDeviceAt = 0
			if d.state.FullDevice != session.FullDeviceOff {
				d.state.FullDevice = session.FullDeviceOff
				return []session.Event{d.sessionEvent()}
			}
		default:
			return []session.Event{d.errorEvent(unknownCommandID, "bad full_device value "+cmd.Value)}
		}

	case cobrowse.CmdEndSession:
		d.state.State = session.Ended
		return []session.Event{d.sessionEvent()}

	default:
		return []session.Event{d.errorEvent(unknownCommandID, "unknown command "+string(cmd.Command))}
	}
	return nil
}

func (d *Device) sessionEvent() session.Event {
	return session.Event{Type: session.EventSessionUpdated, Session: d.state.Clone()}
}

func (d *Device) errorEvent(id, msg string) session.Event {
	return session.Event{Type: session.EventError, Err: &session.Error{ID: id, Message: msg}}
}
