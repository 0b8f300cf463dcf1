package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelSplit(t *testing.T) {
	var out bytes.Buffer
	file := filepath.Join(t.TempDir(), "logs", "sentinel.log")

	logger, closer, err := New(Config{Level: "info", Format: "json", File: file, MaxSizeMB: 1, MaxAgeDays: 1}, &out)
	require.NoError(t, err)

	logger.Debug().Msg("debug only in file")
	logger.Info().Msg("info everywhere")
	require.NoError(t, closer.Close())

	assert.NotContains(t, out.String(), "debug only in file")
	assert.Contains(t, out.String(), "info everywhere")
	assert.Contains(t, out.String(), `"service":"sentinel"`)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debug only in file")
	assert.Contains(t, string(data), "info everywhere")
}

func TestNew_InvalidLevelDefaultsToInfo(t *testing.T) {
	var out bytes.Buffer

	logger, _, err := New(Config{Level: "loud"}, &out)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")
}

func TestComponent(t *testing.T) {
	var out bytes.Buffer

	logger, _, err := New(Config{Level: "debug"}, &out)
	require.NoError(t, err)

	componentLogger := Component(logger, "gatekeeper")
	componentLogger.Info().Msg("rule passed")
	assert.Contains(t, out.String(), `"component":"gatekeeper"`)
}
