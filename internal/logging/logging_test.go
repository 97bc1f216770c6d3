package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.InfoLevel)
	log.Warn().Str("value", "abc").Msg("unparsable amount")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "warn", event["level"])
	assert.Equal(t, "abc", event["value"])
	assert.Equal(t, "unparsable amount", event["message"])
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.WarnLevel)
	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
}

func TestParseLevel_IgnoresEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
}

func TestFromOptions_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fuelrecon.log")

	stderr, err := os.CreateTemp(t.TempDir(), "stderr")
	require.NoError(t, err)
	defer stderr.Close()

	log, closer, err := FromOptions(Options{Format: FormatJSON, File: path}, stderr)
	require.NoError(t, err)
	log.Info().Msg("registry loaded")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "registry loaded")

	console, err := os.ReadFile(stderr.Name())
	require.NoError(t, err)
	assert.Contains(t, string(console), "registry loaded")
}
