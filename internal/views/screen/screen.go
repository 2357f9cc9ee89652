// Package screen renders the console's custom full-text screens (session
// ended, remote error) from markdown.
package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/custom-agent-demo/agentui/internal/session"
)

const (
	EndedTitle = "The custom agent UI session has ended!"
	ErrorTitle = "Your custom error screen"
)

// Renderer turns markdown into styled terminal text. The zero value
// returns plain markdown.
type Renderer struct {
	md *glamour.TermRenderer
}

// New creates a renderer wrapping at width. style is a glamour standard
// style name ("dark", "light", "notty", ...); empty picks "dark".
func New(width int, style string) Renderer {
	if style == "" {
		style = "dark"
	}
	if width < 20 {
		width = 20
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return Renderer{}
	}
	return Renderer{md: md}
}

func (r Renderer) render(src string) string {
	if r.md == nil {
		return src
	}
	out, err := r.md.Render(src)
	if err != nil {
		return src
	}
	return strings.Trim(out, "\n")
}

// Ended renders the terminal screen. message is markdown shown as the
// heading; empty uses EndedTitle.
func (r Renderer) Ended(message string) string {
	if message == "" {
		message = EndedTitle
	}
	return r.render("# " + message + "\n")
}

// Error renders the error banner body for e.
func (r Renderer) Error(e *session.Error) string {
	if e == nil {
		return ""
	}
	src := fmt.Sprintf("**%s**\n\n`id = %s`\n", ErrorTitle, e.ID)
	if e.Message != "" {
		src += "\n" + e.Message + "\n"
	}
	return r.render(src)
}
