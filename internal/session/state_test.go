package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateUnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected State
	}{
		{`"pending"`, Pending},
		{`"authorizing"`, Authorizing},
		{`"active"`, Active},
		{`"ended"`, Ended},
		{`"paused"`, Unknown},
	}

	for _, tt := range tests {
		var s State
		require.NoError(t, json.Unmarshal([]byte(tt.input), &s), tt.input)
		assert.Equal(t, tt.expected, s, tt.input)
	}
}

func TestStateUnmarshalRejectsNonString(t *testing.T) {
	var s State
	assert.Error(t, json.Unmarshal([]byte(`3`), &s))
}

func TestSessionDecode(t *testing.T) {
	raw := `{"id":"s1","state":"active","activated":"2024-05-01T10:00:00Z","full_device":"requested"}`

	var s Session
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, Active, s.State)
	assert.Equal(t, FullDeviceRequested, s.FullDevice)
	require.NotNil(t, s.Activated)
	assert.True(t, s.Activated.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
}

func TestIsEnded(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.IsEnded())
	assert.False(t, (&Session{State: Active}).IsEnded())
	assert.True(t, (&Session{State: Ended}).IsEnded())
}

func TestSessionCloneIsDeep(t *testing.T) {
	at := time.Now()
	orig := &Session{ID: "s1", State: Active, Activated: &at}

	c := orig.Clone()
	*c.Activated = at.Add(time.Hour)
	c.State = Ended

	assert.Equal(t, Active, orig.State)
	assert.True(t, orig.Activated.Equal(at), "clone shared the activated pointer")
}

func TestScreenInfoCloneIsDeep(t *testing.T) {
	at := time.Now()
	orig := &ScreenInfo{Width: 640, Updated: &at}

	c := orig.Clone()
	*c.Updated = at.Add(time.Minute)

	assert.True(t, orig.Updated.Equal(at))
}

func TestToolValid(t *testing.T) {
	for _, tool := range Tools {
		assert.True(t, tool.Valid(), tool)
	}
	assert.False(t, Tool("eraser").Valid())
	assert.False(t, Tool("").Valid())
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "E1", (&Error{ID: "E1"}).Error())
	assert.Equal(t, "E1: boom", (&Error{ID: "E1", Message: "boom"}).Error())
}

func TestParseEventType(t *testing.T) {
	for _, typ := range []EventType{EventSessionUpdated, EventScreenUpdated, EventError} {
		got, ok := ParseEventType(typ.String())
		require.True(t, ok, typ.String())
		assert.Equal(t, typ, got)
	}

	_, ok := ParseEventType("frame.updated")
	assert.False(t, ok)
}
