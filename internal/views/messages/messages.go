// Package messages renders the status banners shown above the controls.
package messages

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/custom-agent-demo/agentui/internal/reconcile"
	"github.com/custom-agent-demo/agentui/internal/theme"
	"github.com/custom-agent-demo/agentui/internal/views/screen"
)

// Banner copy.
const (
	Connecting    = "Custom connecting to device message..."
	Authorizing   = "Custom waiting for user to accept message..."
	LoadingStream = "Custom loading video stream message..."
	Timeout       = "Having trouble reaching the device!"
)

// Model renders banners.
type Model struct {
	Width    int
	Renderer screen.Renderer
}

func New() Model {
	return Model{}
}

// Text returns the plain copy for a banner. The error banner has no
// fixed copy and returns "".
func Text(b reconcile.Banner) string {
	switch b {
	case reconcile.BannerConnecting:
		return Connecting
	case reconcile.BannerAuthorizing:
		return Authorizing
	case reconcile.BannerLoadingStream:
		return LoadingStream
	case reconcile.BannerTimeout:
		return Timeout
	}
	return ""
}

func bannerColor(b reconcile.Banner) lipgloss.Color {
	switch b {
	case reconcile.BannerError:
		return theme.ColorDanger
	case reconcile.BannerTimeout:
		return theme.ColorWarning
	default:
		return theme.ColorInfo
	}
}

// View renders v's banners in order, one box each.
func (m Model) View(v reconcile.View) string {
	width := m.Width - 2
	if width < 30 {
		width = 30
	}

	var boxes []string
	for _, b := range v.Banners {
		body := Text(b)
		if b == reconcile.BannerError {
			body = m.Renderer.Error(v.Err)
		}
		style := lipgloss.NewStyle().
			Width(width).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(bannerColor(b))
		if b != reconcile.BannerError {
			style = style.Foreground(bannerColor(b))
		}
		boxes = append(boxes, style.Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}
