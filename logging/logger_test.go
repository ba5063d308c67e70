package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestGlobalLogger(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { SetGlobalLogger(previous) })

	var buf bytes.Buffer
	SetGlobalLogger(NewLogger(&buf, "debug"))

	Debug().Str("cte", "t").Int("consumers", 2).Msg("registered")
	Err(errors.New("boom")).Msg("conversion failed")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.Equal(t, "debug", first["level"])
	require.Equal(t, "t", first["cte"])
	require.EqualValues(t, 2, first["consumers"])

	var second map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &second))
	require.Equal(t, "error", second["level"])
	require.Equal(t, "boom", second["error"])
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "not-a-level")
	require.Equal(t, zerolog.InfoLevel, logger.GetLevel())

	logger.Debug().Msg("hidden")
	require.Zero(t, buf.Len())

	require.Equal(t, zerolog.WarnLevel, NewLogger(&buf, "warn").GetLevel())
}
