package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, _, err := NewLogger(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := NewLogger(Config{Level: "warn", Console: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestNewLogger_WritesRotatingFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "architect.log")
	logger, closer, err := NewLogger(Config{Level: "debug", File: path, Console: &buf})
	require.NoError(t, err)

	logger.Debug().Str("flow", "analysis").Msg("started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"flow":"analysis"`)
	assert.Contains(t, string(data), `"message":"started"`)
}
