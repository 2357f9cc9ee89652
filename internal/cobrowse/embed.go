package cobrowse

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ConnectPath is the path of the embedding surface on the service.
const ConnectPath = "/connect"

// suppressChrome switches off the service's own agent UI, in this order.
var suppressChrome = []string{
	"end_action=none",
	"agent_tools=none",
	"device_controls=none",
	"session_details=none",
	"popout=none",
	"messages=none",
}

// ConnectURL builds the embedding surface URL for a demo session. The
// query layout is fixed by the remote service.
func ConnectURL(api, demoID, token string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(api, "/"))
	b.WriteString(ConnectPath)
	b.WriteString("?filter_demo_id=")
	b.WriteString(url.QueryEscape(demoID))
	b.WriteString("&token=")
	b.WriteString(url.QueryEscape(token))
	for _, flag := range suppressChrome {
		b.WriteByte('&')
		b.WriteString(flag)
	}
	return b.String()
}

// ErrNoSurface is returned when attaching without a surface URL.
var ErrNoSurface = errors.New("no embedding surface")

// dialURL maps an http(s) surface URL onto its websocket equivalent.
func dialURL(surface string) (string, error) {
	if surface == "" {
		return "", ErrNoSurface
	}
	u, err := url.Parse(surface)
	if err != nil {
		return "", fmt.Errorf("parse surface: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported surface scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("surface %q has no host", surface)
	}
	return u.String(), nil
}
