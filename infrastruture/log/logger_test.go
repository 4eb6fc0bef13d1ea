package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("APP", "\033[32m", &buf)
	require.NoError(t, err)

	l.Info("started")
	l.Warning("slow")
	l.Error("broken")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "INFO")
	assert.Contains(t, lines[0], "\033[32m[APP]\033[0m")
	assert.True(t, strings.HasSuffix(lines[0], "started"))
	assert.Contains(t, lines[1], "WARN")
	assert.Contains(t, lines[2], "ERROR")
	assert.True(t, strings.HasSuffix(lines[2], "broken"))
}

func TestNewWithoutWriter(t *testing.T) {
	_, err := New("APP", "", nil)
	assert.Error(t, err)
}
