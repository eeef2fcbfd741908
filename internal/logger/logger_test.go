package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/blocked-report/internal/model"
)

func TestNew_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(model.LogConfig{Level: "warn"}, &buf, false)

	log.Info().Msg("hidden")
	log.Warn().Str("team", "Reliance").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"team":"Reliance"`)
	assert.Contains(t, out, `"message":"shown"`)
}

func TestNew_BadLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(model.LogConfig{Level: "loud"}, &buf, false)

	log.Debug().Msg("debug")
	log.Info().Msg("info")

	assert.NotContains(t, buf.String(), "debug")
	assert.Contains(t, buf.String(), "info")
}

func TestForTUI(t *testing.T) {
	log, closer, err := ForTUI(model.LogConfig{})
	require.NoError(t, err)
	log.Info().Msg("dropped")
	require.NoError(t, closer.Close())

	path := filepath.Join(t.TempDir(), "logs", "report.log")
	log, closer, err = ForTUI(model.LogConfig{File: path, Level: "info"})
	require.NoError(t, err)
	log.Info().Msg("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNew_LeavesGlobalTimeFormat(t *testing.T) {
	prev := zerolog.TimeFieldFormat
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	t.Cleanup(func() { zerolog.TimeFieldFormat = prev })

	New(model.LogConfig{}, &bytes.Buffer{}, false)
	New(model.LogConfig{}, &bytes.Buffer{}, true)

	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
}
