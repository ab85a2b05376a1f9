package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProdLogsJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithLevel(&buf, "prod", "")

	log.Debug("hidden")
	log.Info("lead received", "lead_id", "lead_1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"lead received"`)
	assert.Contains(t, out, `"lead_id":"lead_1"`)
}

func TestLevelOverride(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithLevel(&buf, "dev", "warn")

	log.Info("quiet")
	log.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelError, parseLevel("ERROR", slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, parseLevel("", slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, parseLevel("loud", slog.LevelInfo))
}
