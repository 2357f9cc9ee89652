// Package controls renders the agent control cluster: session stopwatch,
// tool buttons, clear, full-device toggle and end session.
package controls

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/custom-agent-demo/agentui/internal/session"
	"github.com/custom-agent-demo/agentui/internal/theme"
)

var toolLabels = map[session.Tool]string{
	session.ToolLaser:   "Laser Pointer",
	session.ToolDrawing: "Draw",
	session.ToolControl: "Remote Control",
}

// Model holds the cluster's render inputs.
type Model struct {
	Tool       session.Tool
	FullDevice session.FullDevice
	Elapsed    time.Duration
	Width      int
}

func New() Model {
	return Model{Tool: session.ToolLaser, FullDevice: session.FullDeviceOff}
}

// FormatElapsed renders a stopwatch reading as MM:SS, or H:MM:SS once
// past an hour. Negative durations read as zero.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func button(label string, color lipgloss.Color, selected bool) string {
	style := lipgloss.NewStyle().
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder)
	if selected {
		style = style.
			Bold(true).
			Foreground(theme.ColorBright).
			Background(color).
			BorderForeground(color)
	} else {
		style = style.Foreground(color)
	}
	return style.Render(label)
}

// View renders the cluster on one row.
func (m Model) View() string {
	timer := lipgloss.NewStyle().
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorActive).
		Foreground(theme.ColorBright).
		Render(FormatElapsed(m.Elapsed))

	parts := []string{timer}
	for _, t := range session.Tools {
		label := toolLabels[t]
		if t == m.Tool {
			label = "▶ " + label
		}
		parts = append(parts, button(label, theme.ToolColor(string(t)), t == m.Tool))
	}

	fd := m.FullDevice
	if fd == "" {
		fd = session.FullDeviceOff
	}
	parts = append(parts,
		button("Clear Drawing", theme.ColorDimmed, false),
		button("Full Device: "+string(fd), theme.FullDeviceColor(string(fd)), fd == session.FullDeviceOn),
		button("End Screenshare", theme.ColorDanger, false),
	)

	row := lipgloss.JoinHorizontal(lipgloss.Center, parts...)
	if m.Width > 0 && lipgloss.Width(row) > m.Width {
		// Too narrow for one row: stack the buttons instead.
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
	return row
}
