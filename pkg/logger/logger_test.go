package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestSetup_JSONFormat(t *testing.T) {
	t.Setenv("DEBUG", "")
	var buf bytes.Buffer
	log := Setup(Config{Level: "info", Format: "json", Output: &buf})

	log.Debug("hidden")
	log.Info("probe finished", "target", "Gate.io")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "probe finished", entry["msg"])
	assert.Equal(t, "Gate.io", entry["target"])
}

func TestSetup_DebugEnvForcesDebug(t *testing.T) {
	t.Setenv("DEBUG", "true")
	var buf bytes.Buffer
	log := Setup(Config{Level: "error", Format: "text", Output: &buf})

	log.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}
