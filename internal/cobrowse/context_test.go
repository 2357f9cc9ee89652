package cobrowse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/custom-agent-demo/agentui/internal/session"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService sends one pending session frame per connection and records
// every command it receives.
type fakeService struct {
	commands chan Command
}

func newFakeService(t *testing.T) (*httptest.Server, *fakeService) {
	t.Helper()
	f := &fakeService{commands: make(chan Command, 16)}
	upgrader := websocket.Upgrader{}

	mux := http.NewServeMux()
	mux.HandleFunc(ConnectPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") == "reject" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		env, _ := NewEnvelope(session.Event{
			Type:    session.EventSessionUpdated,
			Session: &session.Session{ID: "s1", State: session.Pending},
		}, 1)
		conn.WriteJSON(env)
		conn.WriteJSON(Envelope{Type: "bogus", Seq: 2, Payload: json.RawMessage(`{}`)})

		for {
			var cmd Command
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			f.commands <- cmd
		}
	})
	mux.HandleFunc("/api/sessions/s1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(session.Session{ID: "s1", State: session.Active})
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, f
}

func attachFake(t *testing.T, ts *httptest.Server) *Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := NewAPI(ts.URL).AttachContext(ctx, ConnectURL(ts.URL, "demo", "tok"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Destroy() })
	return c
}

func nextEvent(t *testing.T, c *Context) session.Event {
	t.Helper()
	select {
	case ev, ok := <-c.Events():
		require.True(t, ok, "event channel closed")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return session.Event{}
}

func nextCommand(t *testing.T, f *fakeService) Command {
	t.Helper()
	select {
	case cmd := <-f.commands:
		return cmd
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for command")
	}
	return Command{}
}

func TestContextDeliversEvents(t *testing.T) {
	ts, _ := newFakeService(t)
	c := attachFake(t, ts)

	ev := nextEvent(t, c)
	assert.Equal(t, session.EventSessionUpdated, ev.Type)
	assert.Equal(t, "s1", ev.Session.ID)
	assert.Equal(t, session.Pending, ev.Session.State)
	assert.Equal(t, uint64(1), ev.Seq)
}

func TestContextSendsCommands(t *testing.T) {
	ts, f := newFakeService(t)
	c := attachFake(t, ts)

	require.NoError(t, c.SetTool(session.ToolDrawing))
	require.NoError(t, c.ClearAnnotations())
	require.NoError(t, c.SetFullDevice(session.FullDeviceRequested))
	require.NoError(t, c.EndSession())

	assert.Equal(t, NewCommand(CmdSetTool, "drawing"), nextCommand(t, f))
	assert.Equal(t, NewCommand(CmdClearAnnotations, ""), nextCommand(t, f))
	assert.Equal(t, NewCommand(CmdSetFullDevice, "requested"), nextCommand(t, f))
	assert.Equal(t, NewCommand(CmdEndSession, ""), nextCommand(t, f))
}

func TestDestroyIsIdempotent(t *testing.T) {
	ts, _ := newFakeService(t)
	c := attachFake(t, ts)

	require.NoError(t, c.Destroy())
	assert.NoError(t, c.Destroy())

	assert.ErrorIs(t, c.SetTool(session.ToolLaser), ErrClosed)
	assert.ErrorIs(t, c.ClearAnnotations(), ErrClosed)
	assert.ErrorIs(t, c.SetFullDevice(session.FullDeviceOff), ErrClosed)
	assert.ErrorIs(t, c.EndSession(), ErrClosed)

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-c.Events():
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestAttachContextFailures(t *testing.T) {
	ts, _ := newFakeService(t)
	api := NewAPI(ts.URL)

	_, err := api.AttachContext(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSurface)

	_, err = api.AttachContext(context.Background(), ConnectURL(ts.URL, "demo", "reject"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestSessionLookup(t *testing.T) {
	ts, _ := newFakeService(t)
	api := NewAPI(ts.URL + "/")

	s, err := api.Session(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, session.Active, s.State)

	_, err = api.Session(context.Background(), "missing")
	assert.ErrorContains(t, err, "404")
}
