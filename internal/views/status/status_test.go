package status

import (
	"testing"

	"github.com/custom-agent-demo/agentui/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestViewBeforeSession(t *testing.T) {
	m := New("demo")
	m.Width = 120
	m.Link = LinkAttaching
	out := m.View()
	assert.Contains(t, out, "Attaching...")
	assert.Contains(t, out, "demo demo")
	assert.Contains(t, out, "none")
}

func TestViewWithSession(t *testing.T) {
	m := New("demo")
	m.Width = 120
	m.Link = LinkAttached
	m.Session = &session.Session{ID: "0123456789abcdef", State: session.Active}
	m.Tool = session.ToolControl
	m.Seq = 12

	out := m.View()
	assert.Contains(t, out, "Attached")
	assert.Contains(t, out, "session 01234567")
	assert.NotContains(t, out, "89abcdef")
	assert.Contains(t, out, "active")
	assert.Contains(t, out, "control")
	assert.Contains(t, out, "seq 12")
}
