package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	log := New("prod", "warn", buf)

	log.Info().Msg("dropped")
	require.Equal(t, 0, buf.Len())

	log.Warn().Str("room", "101").Msg("kept")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "kept", line["message"])
	require.Equal(t, "101", line["room"])
	require.Equal(t, "hotel-reservation", line["service"])
}

func TestNewUnknownLevel(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	log := New("prod", "chatty", buf)
	log.Debug().Msg("dropped")
	log.Info().Msg("kept")
	require.Contains(t, buf.String(), "kept")
	require.NotContains(t, buf.String(), "dropped")
}
