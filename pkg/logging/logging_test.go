package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-dashboard-builder/pkg/config"
)

func TestNewLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			logger, err := New(config.LoggingConfig{Level: level, Format: "json"})
			require.NoError(t, err)
			expected, _ := zapcore.ParseLevel(level)
			assert.True(t, logger.Core().Enabled(expected))
		})
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	logger, err := New(config.LoggingConfig{Level: "bogus", Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)
	logger.Debug("layout saved", zap.String("layout_id", "l1"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "layout saved", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "l1", entry["layout_id"])
}
