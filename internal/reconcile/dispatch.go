package reconcile

import (
	"errors"
	"fmt"

	"github.com/custom-agent-demo/agentui/internal/session"
)

var (
	// ErrNotAttached is returned when a command needs a live context and
	// there is none.
	ErrNotAttached = errors.New("no live cobrowse context")

	// ErrUnknownTool is returned for tools outside session.Tools.
	ErrUnknownTool = errors.New("unknown tool")
)

// Commander is the command surface of a live cobrowse context.
type Commander interface {
	SetTool(tool session.Tool) error
	ClearAnnotations() error
	SetFullDevice(value session.FullDevice) error
	EndSession() error
}

// Dispatcher tracks the locally selected tool and forwards operator
// actions. The zero value is not ready; use NewDispatcher.
type Dispatcher struct {
	tool session.Tool
}

func NewDispatcher() Dispatcher {
	return Dispatcher{tool: session.ToolLaser}
}

// Tool returns the locally selected tool.
func (d *Dispatcher) Tool() session.Tool {
	return d.tool
}

// SelectTool records the selection before forwarding it. The local
// selection stands even if forwarding fails, and a nil commander only
// updates the local selection.
func (d *Dispatcher) SelectTool(c Commander, tool session.Tool) error {
	if !tool.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTool, tool)
	}
	d.tool = tool
	if c == nil {
		return nil
	}
	if err := c.SetTool(tool); err != nil {
		return fmt.Errorf("set tool %s: %w", tool, err)
	}
	return nil
}

// Clear removes all annotations on the remote screen.
func (d *Dispatcher) Clear(c Commander) error {
	if c == nil {
		return ErrNotAttached
	}
	if err := c.ClearAnnotations(); err != nil {
		return fmt.Errorf("clear annotations: %w", err)
	}
	return nil
}

// ToggleFullDevice forwards NextFullDevice of the session's current value
// and returns what was sent.
func (d *Dispatcher) ToggleFullDevice(c Commander, s *session.Session) (session.FullDevice, error) {
	if c == nil {
		return "", ErrNotAttached
	}
	var current session.FullDevice
	if s != nil {
		current = s.FullDevice
	}
	next := NextFullDevice(current)
	if err := c.SetFullDevice(next); err != nil {
		return next, fmt.Errorf("set full device %s: %w", next, err)
	}
	return next, nil
}

// EndSession asks the remote side to end the session. The console only
// reaches its terminal view once the ended snapshot arrives.
func (d *Dispatcher) EndSession(c Commander) error {
	if c == nil {
		return ErrNotAttached
	}
	if err := c.EndSession(); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// NextFullDevice is off when the current value is on, requested otherwise.
// Toggling while a request is pending re-sends the request.
func NextFullDevice(current session.FullDevice) session.FullDevice {
	if current == session.FullDeviceOn {
		return session.FullDeviceOff
	}
	return session.FullDeviceRequested
}
