package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus", ""} {
		logger := New(level)
		require.NotNil(t, logger, "level %q", level)
		require.NotNil(t, logger.Logger)
	}
}

func TestDefault(t *testing.T) {
	logger := Default()
	require.NotNil(t, logger)
}

func TestNamed(t *testing.T) {
	logger := Default().Named("worker")
	require.NotNil(t, logger)
	assert.NotNil(t, logger.Logger)
}
