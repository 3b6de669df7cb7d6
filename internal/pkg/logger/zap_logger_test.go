package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewCoreLogger(core)

	l.Info("GALLERY", "Discovery finished", map[string]interface{}{"items": 3})
	l.Error("BRIEFING", "Submit failed", map[string]interface{}{"error": "boom"})
	l.Debug("SESSION", "nil details", nil)

	entries := logs.All()
	require.Len(t, entries, 3)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "GALLERY", ctx["module"])
	assert.Equal(t, map[string]interface{}{"items": 3}, ctx["details"])

	assert.Equal(t, "boom", entries[1].ContextMap()["error_ref"])
	assert.Equal(t, map[string]interface{}{}, entries[2].ContextMap()["details"])
}

func TestIsolatedLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ws.log")
	l := NewIsolatedLogger(path)
	l.Info("WS", "connected", map[string]interface{}{"session": "abc"})
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"connected"`)
	assert.Contains(t, string(data), `"module":"WS"`)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Warn("X", "ignored", nil)
	assert.NoError(t, l.Sync())
}
