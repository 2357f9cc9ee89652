// Package reconcile derives the console's visible state from the latest
// session and screen snapshots, and maps operator actions onto commands.
// Nothing here performs I/O.
package reconcile

import (
	"time"

	"github.com/custom-agent-demo/agentui/internal/session"
)

// DefaultStaleAfter is how long the screen may go without a frame before
// the console warns that the device is unreachable.
const DefaultStaleAfter = 10 * time.Second

// Banner identifies a status message shown above the controls.
type Banner int

const (
	BannerError Banner = iota
	BannerConnecting
	BannerAuthorizing
	BannerLoadingStream
	BannerTimeout
)

var bannerNames = map[Banner]string{
	BannerError:         "error",
	BannerConnecting:    "connecting",
	BannerAuthorizing:   "authorizing",
	BannerLoadingStream: "loading_stream",
	BannerTimeout:       "timeout",
}

func (b Banner) String() string {
	if n, ok := bannerNames[b]; ok {
		return n
	}
	return "unknown"
}

// Input is everything the reconciler looks at.
type Input struct {
	Session *session.Session
	Screen  *session.ScreenInfo
	Err     *session.Error
	Now     time.Time

	// StaleAfter overrides DefaultStaleAfter when positive.
	StaleAfter time.Duration
}

// View is the reconciled UI state.
type View struct {
	// Ended suppresses everything else.
	Ended bool

	// Banners in render order: error, then at most one of
	// connecting/authorizing/loading, then timeout.
	Banners []Banner
	Err     *session.Error

	Controls   bool
	Elapsed    time.Duration
	FullDevice session.FullDevice
}

// Has reports whether b is among the view's banners.
func (v View) Has(b Banner) bool {
	for _, x := range v.Banners {
		if x == b {
			return true
		}
	}
	return false
}

// Reconcile is a pure function of its input.
func Reconcile(in Input) View {
	s := in.Session
	if s.IsEnded() {
		return View{Ended: true}
	}

	var v View
	if in.Err != nil {
		v.Banners = append(v.Banners, BannerError)
		v.Err = in.Err
	}

	switch {
	case s == nil || s.State == session.Pending:
		v.Banners = append(v.Banners, BannerConnecting)
	case s.State == session.Authorizing:
		v.Banners = append(v.Banners, BannerAuthorizing)
	case in.Screen == nil || in.Screen.Width <= 0:
		v.Banners = append(v.Banners, BannerLoadingStream)
	}

	if Stale(in) {
		v.Banners = append(v.Banners, BannerTimeout)
	}

	if s != nil && s.State == session.Active {
		v.Controls = true
		v.Elapsed = Elapsed(s, in.Now)
		v.FullDevice = s.FullDevice
	}
	return v
}

// Stale reports whether an active session's last frame is older than the
// stale threshold. The boundary itself is not stale.
func Stale(in Input) bool {
	if in.Session == nil || in.Session.State != session.Active {
		return false
	}
	if in.Screen == nil || in.Screen.Updated == nil {
		return false
	}
	limit := in.StaleAfter
	if limit <= 0 {
		limit = DefaultStaleAfter
	}
	return in.Now.Sub(*in.Screen.Updated) > limit
}

// Elapsed is the session timer value: time since activation, never negative.
func Elapsed(s *session.Session, now time.Time) time.Duration {
	if s == nil || s.Activated == nil {
		return 0
	}
	d := now.Sub(*s.Activated)
	if d < 0 {
		return 0
	}
	return d
}
