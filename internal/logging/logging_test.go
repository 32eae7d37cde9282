package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/lawnmower/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(config.Log{Level: "info", Format: "json"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("coverage finished", zap.Int("visited", 13))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "coverage finished", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.EqualValues(t, 13, entry["visited"])
	assert.Contains(t, entry, "ts")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(config.Log{Level: "debug", Format: "console"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	log.Debug("seek backtrack")
	assert.Contains(t, buf.String(), "seek backtrack")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(config.Log{Level: "loud"}, nil)
	assert.Error(t, err)
}

func TestTestLogger(t *testing.T) {
	tl := NewTestLogger()
	tl.Debug("seek started", zap.String("target", "(2,3)"))
	tl.Warn("coverage aborted")

	tl.AssertLogged(t, zapcore.WarnLevel, "aborted")
	assert.Len(t, tl.All(), 2)
	assert.Equal(t, 1, tl.FilterMessage("seek started").Len())
}
