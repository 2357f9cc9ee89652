// Package theme provides the Lip Gloss color palette and reusable styles
// for the agent console. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Session state colors.
var (
	ColorPending     = lipgloss.Color("#7c3aed")
	ColorAuthorizing = lipgloss.Color("#d97706")
	ColorActive      = lipgloss.Color("#16a34a")
	ColorEnded       = lipgloss.Color("#374151")
	ColorDefault     = lipgloss.Color("#9ca3af")
)

// Tool colors.
var (
	ColorLaser   = lipgloss.Color("#dc2626")
	ColorDrawing = lipgloss.Color("#3b82f6")
	ColorControl = lipgloss.Color("#a855f7")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorBg      = lipgloss.Color("#111827")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
	ColorInfo    = lipgloss.Color("#2563eb")
)

// StateColor returns the Lip Gloss color for a session state name.
func StateColor(state string) lipgloss.Color {
	switch state {
	case "pending":
		return ColorPending
	case "authorizing":
		return ColorAuthorizing
	case "active":
		return ColorActive
	case "ended":
		return ColorEnded
	default:
		return ColorDefault
	}
}

// ToolColor returns the Lip Gloss color for a tool name.
func ToolColor(tool string) lipgloss.Color {
	switch tool {
	case "laser":
		return ColorLaser
	case "drawing":
		return ColorDrawing
	case "control":
		return ColorControl
	default:
		return ColorDefault
	}
}

// FullDeviceColor returns the color for a full-device grant value.
func FullDeviceColor(value string) lipgloss.Color {
	switch value {
	case "on":
		return ColorHealthy
	case "requested":
		return ColorWarning
	default:
		return ColorDimmed
	}
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)
)

// StateGlyph returns a Unicode glyph representing a session state.
func StateGlyph(state string) string {
	switch state {
	case "pending":
		return "◎"
	case "authorizing":
		return "◌"
	case "active":
		return "●"
	case "ended":
		return "✓"
	default:
		return "·"
	}
}
