package reconcile

import (
	"testing"
	"time"

	"github.com/custom-agent-demo/agentui/internal/session"
	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := t0.Add(d)
	return &t
}

func TestReconcileEndedSuppressesEverything(t *testing.T) {
	screens := []*session.ScreenInfo{
		nil,
		{Width: 0},
		{Width: 640, Updated: at(0)},
	}
	errs := []*session.Error{nil, {ID: "E1"}}

	for _, screen := range screens {
		for _, e := range errs {
			v := Reconcile(Input{
				Session: &session.Session{State: session.Ended, Activated: at(0)},
				Screen:  screen,
				Err:     e,
				Now:     t0.Add(time.Hour),
			})
			assert.Equal(t, View{Ended: true}, v)
		}
	}
}

func TestReconcileBanners(t *testing.T) {
	fresh := &session.ScreenInfo{Width: 640, Updated: at(0)}

	tests := []struct {
		name    string
		session *session.Session
		screen  *session.ScreenInfo
		err     *session.Error
		now     time.Time
		want    []Banner
		control bool
	}{
		{
			name: "no session yet",
			want: []Banner{BannerConnecting},
		},
		{
			name:    "pending without screen",
			session: &session.Session{State: session.Pending},
			want:    []Banner{BannerConnecting},
		},
		{
			name:    "authorizing",
			session: &session.Session{State: session.Authorizing},
			want:    []Banner{BannerAuthorizing},
		},
		{
			name:    "active without screen",
			session: &session.Session{State: session.Active},
			want:    []Banner{BannerLoadingStream},
			control: true,
		},
		{
			name:    "active with zero width",
			session: &session.Session{State: session.Active},
			screen:  &session.ScreenInfo{Width: 0, Updated: at(0)},
			now:     t0.Add(time.Second),
			want:    []Banner{BannerLoadingStream},
			control: true,
		},
		{
			name:    "active and fresh",
			session: &session.Session{State: session.Active, Activated: at(-time.Minute)},
			screen:  fresh,
			now:     t0.Add(3 * time.Second),
			control: true,
		},
		{
			name:    "error alongside controls",
			session: &session.Session{State: session.Active},
			screen:  fresh,
			err:     &session.Error{ID: "E1"},
			now:     t0.Add(3 * time.Second),
			want:    []Banner{BannerError},
			control: true,
		},
		{
			name:    "error with connecting",
			session: &session.Session{State: session.Pending},
			err:     &session.Error{ID: "E1"},
			want:    []Banner{BannerError, BannerConnecting},
		},
		{
			name:    "stale stream, error first, timeout last",
			session: &session.Session{State: session.Active},
			screen:  &session.ScreenInfo{Width: 0, Updated: at(0)},
			err:     &session.Error{ID: "E1"},
			now:     t0.Add(11 * time.Second),
			want:    []Banner{BannerError, BannerLoadingStream, BannerTimeout},
			control: true,
		},
		{
			name:    "unknown state waits for stream",
			session: &session.Session{State: session.Unknown},
			want:    []Banner{BannerLoadingStream},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Reconcile(Input{Session: tt.session, Screen: tt.screen, Err: tt.err, Now: tt.now})
			assert.False(t, v.Ended)
			assert.Equal(t, tt.want, v.Banners)
			assert.Equal(t, tt.control, v.Controls)
			if tt.err != nil {
				assert.Same(t, tt.err, v.Err)
			}
		})
	}
}

func TestTimeoutBoundaryIsExclusive(t *testing.T) {
	active := &session.Session{State: session.Active}
	screen := &session.ScreenInfo{Width: 640, Updated: at(0)}

	tests := []struct {
		elapsed time.Duration
		want    bool
	}{
		{0, false},
		{9999 * time.Millisecond, false},
		{10000 * time.Millisecond, false},
		{10001 * time.Millisecond, true},
		{time.Minute, true},
	}

	for _, tt := range tests {
		v := Reconcile(Input{Session: active, Screen: screen, Now: t0.Add(tt.elapsed)})
		assert.Equal(t, tt.want, v.Has(BannerTimeout), "elapsed %v", tt.elapsed)
	}
}

func TestTimeoutOnlyWhenActiveWithTimestamp(t *testing.T) {
	late := t0.Add(time.Hour)

	assert.False(t, Stale(Input{
		Session: &session.Session{State: session.Authorizing},
		Screen:  &session.ScreenInfo{Width: 640, Updated: at(0)},
		Now:     late,
	}))
	assert.False(t, Stale(Input{
		Session: &session.Session{State: session.Active},
		Screen:  &session.ScreenInfo{Width: 640},
		Now:     late,
	}))
	assert.False(t, Stale(Input{Session: &session.Session{State: session.Active}, Now: late}))
}

func TestStaleAfterOverride(t *testing.T) {
	in := Input{
		Session:    &session.Session{State: session.Active},
		Screen:     &session.ScreenInfo{Width: 640, Updated: at(0)},
		Now:        t0.Add(3 * time.Second),
		StaleAfter: 2 * time.Second,
	}
	assert.True(t, Stale(in))

	in.StaleAfter = 0
	assert.False(t, Stale(in))
}

func TestControlsCarryTimerAndFullDevice(t *testing.T) {
	v := Reconcile(Input{
		Session: &session.Session{State: session.Active, Activated: at(0), FullDevice: session.FullDeviceOn},
		Screen:  &session.ScreenInfo{Width: 640, Updated: at(90 * time.Second)},
		Now:     t0.Add(93 * time.Second),
	})

	assert.True(t, v.Controls)
	assert.Empty(t, v.Banners)
	assert.Equal(t, 93*time.Second, v.Elapsed)
	assert.Equal(t, session.FullDeviceOn, v.FullDevice)
}

func TestElapsed(t *testing.T) {
	assert.Zero(t, Elapsed(nil, t0))
	assert.Zero(t, Elapsed(&session.Session{}, t0))
	assert.Zero(t, Elapsed(&session.Session{Activated: at(time.Minute)}, t0), "clock skew clamps to zero")
	assert.Equal(t, 5*time.Second, Elapsed(&session.Session{Activated: at(0)}, t0.Add(5*time.Second)))
}

func TestBannerString(t *testing.T) {
	assert.Equal(t, "timeout", BannerTimeout.String())
	assert.Equal(t, "unknown", Banner(99).String())
}
