package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/reelcheck/config"
)

func TestSetupLogger(t *testing.T) {
	t.Run("json to console", func(t *testing.T) {
		var buf bytes.Buffer
		l := setupLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

		l.Info().Msg("hidden")
		l.Warn().Msg("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), `"message":"shown"`)
	})

	t.Run("no outputs", func(t *testing.T) {
		l := setupLogger(config.LoggingConfig{Level: "info", Format: "console"}, nil)
		assert.Equal(t, zerolog.Disabled, l.GetLevel())
	})

	t.Run("file only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reelcheck.log")
		l := setupLogger(config.LoggingConfig{
			Level:     "debug",
			Format:    "json",
			File:      path,
			MaxSizeMB: 1,
		}, nil)

		l.Debug().Str("query", "alien").Msg("Searching movies")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"query":"alien"`)
	})
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
}
