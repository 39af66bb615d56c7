package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{7, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestInitializeTo_JSON(t *testing.T) {
	defer func() { require.NoError(t, InitializeTo(&bytes.Buffer{}, false, 0)) }()

	var buf bytes.Buffer
	require.NoError(t, InitializeTo(&buf, true, VerbosityInfo))
	assert.True(t, JSONOutput)

	Named("writer").Infow("node written", "node", "packages/types", "files", 3)
	Cleanup()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "node written", entry["msg"])
	assert.Equal(t, "packages/types", entry["node"])
	assert.Equal(t, "writer", entry["logger"])
}

func TestInitializeTo_FiltersBelowLevel(t *testing.T) {
	defer func() { require.NoError(t, InitializeTo(&bytes.Buffer{}, false, 0)) }()

	var buf bytes.Buffer
	require.NoError(t, InitializeTo(&buf, false, VerbosityUser))
	Logger.Infow("hidden")
	Logger.Warnw("shown")
	Cleanup()

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
