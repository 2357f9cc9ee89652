package messages

import (
	"strings"
	"testing"

	"github.com/custom-agent-demo/agentui/internal/reconcile"
	"github.com/custom-agent-demo/agentui/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	assert.Equal(t, Connecting, Text(reconcile.BannerConnecting))
	assert.Equal(t, Authorizing, Text(reconcile.BannerAuthorizing))
	assert.Equal(t, "Custom loading video stream message...", Text(reconcile.BannerLoadingStream))
	assert.Equal(t, Timeout, Text(reconcile.BannerTimeout))
	assert.Empty(t, Text(reconcile.BannerError))
}

func TestViewOrder(t *testing.T) {
	m := New()
	m.Width = 100
	out := m.View(reconcile.View{
		Banners: []reconcile.Banner{reconcile.BannerError, reconcile.BannerLoadingStream, reconcile.BannerTimeout},
		Err:     &session.Error{ID: "E1"},
	})

	errAt := strings.Index(out, "id = E1")
	loadAt := strings.Index(out, LoadingStream)
	timeoutAt := strings.Index(out, Timeout)
	assert.True(t, errAt >= 0 && loadAt > errAt && timeoutAt > loadAt, out)
}

func TestViewEmpty(t *testing.T) {
	assert.Empty(t, New().View(reconcile.View{Controls: true}))
}
