package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWriter(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	t.Run("json format writes structured lines", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, SetupWriter(&buf, "debug", "json"))

		log.Debug().Int("total", 3).Msg("Import started")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "Import started", entry["message"])
		assert.Equal(t, float64(3), entry["total"])
		assert.Equal(t, "debug", entry["level"])
	})

	t.Run("level filters lower entries", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, SetupWriter(&buf, "warn", "json"))

		log.Info().Msg("hidden")
		assert.Zero(t, buf.Len())
	})

	t.Run("empty level defaults to info", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, SetupWriter(&buf, "", "console"))
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		assert.Error(t, SetupWriter(&bytes.Buffer{}, "loud", "json"))
	})
}
