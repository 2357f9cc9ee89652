package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agentui.log")

	logger, err := New(Config{Level: "debug", OutputPaths: []string{path}})
	require.NoError(t, err)
	logger.Debug("attached")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"attached"`)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	l, err := parseLevel("")
	require.NoError(t, err)
	assert.Equal(t, "info", l.String())
}
