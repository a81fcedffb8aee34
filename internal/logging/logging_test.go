package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":         zerolog.InfoLevel,
		"info":     zerolog.InfoLevel,
		"DEBUG":    zerolog.DebugLevel,
		" warn ":   zerolog.WarnLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"off":      zerolog.Disabled,
		"trace":    zerolog.TraceLevel,
		"nonsense": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})

	log.Debug().Msg("hidden")
	log.Info().Str("item", "Drill").Msg("matched")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "matched", line["message"])
	assert.Equal(t, "Drill", line["item"])
	assert.Equal(t, "info", line["level"])
}

func TestAutoFormatIsJSONOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf})
	log.Info().Msg("hello")

	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "json", Output: &buf})

	ctx := WithLogger(context.Background(), log)
	got := FromContext(ctx)
	got.Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")

	// no logger stored: Nop, must not panic
	nop := FromContext(context.Background())
	nop.Info().Msg("dropped")
	assert.Equal(t, zerolog.Disabled, nop.GetLevel())
}

func TestIsTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, isTerminal(f), "regular file")
	assert.False(t, isTerminal(&bytes.Buffer{}), "not a file")
}
