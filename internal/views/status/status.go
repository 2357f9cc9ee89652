package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/custom-agent-demo/agentui/internal/session"
	"github.com/custom-agent-demo/agentui/internal/theme"
)

// Link is the state of the console's binding to the remote service.
type Link int

const (
	LinkIdle Link = iota
	LinkAttaching
	LinkAttached
	LinkDetached
)

// Model holds the status bar state.
type Model struct {
	Link    Link
	DemoID  string
	Session *session.Session
	Tool    session.Tool
	Seq     uint64
	Width   int
}

// New creates a status bar model.
func New(demoID string) Model {
	return Model{DemoID: demoID}
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	var linkStr string
	switch m.Link {
	case LinkAttached:
		linkStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● Attached")
	case LinkDetached:
		linkStr = lipgloss.NewStyle().Foreground(theme.ColorDanger).Render("○ Detached")
	case LinkAttaching:
		linkStr = lipgloss.NewStyle().Foreground(theme.ColorWarning).Render("○ Attaching...")
	default:
		linkStr = lipgloss.NewStyle().Foreground(theme.ColorDimmed).Render("○ Idle")
	}

	state := "none"
	id := "-"
	if m.Session != nil {
		state = m.Session.State.String()
		id = m.Session.ID
		if len(id) > 8 {
			id = id[:8]
		}
	}
	stateStr := lipgloss.NewStyle().Foreground(theme.StateColor(state)).
		Render(theme.StateGlyph(state) + " " + state)

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := linkStr + sep +
		fmt.Sprintf("demo %s", m.DemoID) + sep +
		fmt.Sprintf("session %s ", id) + stateStr + sep +
		lipgloss.NewStyle().Foreground(theme.ToolColor(string(m.Tool))).Render(string(m.Tool))
	if m.Seq > 0 {
		content += sep + theme.StyleDimmed.Render(fmt.Sprintf("seq %d", m.Seq))
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
