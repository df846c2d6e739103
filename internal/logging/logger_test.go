package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("shown")
	require.NoError(t, l.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Contains(t, entry, "ts")
}

func TestNewConsoleDefaultLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(DefaultConfig(), &buf)
	require.NoError(t, err)

	l.Info("quiet")
	l.Warn("loud")
	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"}, nil)
	assert.Error(t, err)
}
