package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "unknown"} {
		logger, err := NewLogger(level, "json")
		require.NoError(t, err, level)
		assert.NotNil(t, logger, level)
	}
}

func TestNewLogger_DefaultsFormat(t *testing.T) {
	logger, err := NewLogger("info", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLogger_RejectsUnknownFormat(t *testing.T) {
	_, err := NewLogger("info", "carrier-pigeon")
	assert.Error(t, err)
}

func TestNewLoggerFromConfig_FallsBack(t *testing.T) {
	logger := NewLoggerFromConfig("info", "carrier-pigeon")
	assert.NotNil(t, logger)
}
