package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" DEBUG ": slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"Warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, expected := range cases {
		assert.Equal(t, expected, ParseLevel(in), "level %q", in)
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)

	log.Info("Analyzed etf", "etf", "NIFTYBEES")
	assert.Empty(t, buf.String())

	log.Warn("Skipping etf", "etf", "JUNIORBEES", "reason", "input file not found")
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "etf=JUNIORBEES")
	assert.Contains(t, out, `reason="input file not found"`)
}
