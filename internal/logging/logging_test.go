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

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Str("file", "data.csv").Msg("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "data.csv")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	log := New("chatty", &bytes.Buffer{})
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())

	log = New("", &bytes.Buffer{})
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNewWithFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "clinicalops.log")

	log, f, err := NewWithFile("debug", &buf, path)
	require.NoError(t, err)
	log.Debug().Str("intent", "vitals").Msg("Rendering chart")
	require.NoError(t, f.Close())

	assert.Contains(t, buf.String(), "Rendering chart")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(b), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "vitals", line["intent"])
	assert.Equal(t, "Rendering chart", line["message"])
}
