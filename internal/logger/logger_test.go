package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWithWriterEmitsStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	log.Info().Str("component", "test").Msg("hello")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "hello", record["message"])
	require.Equal(t, "test", record["component"])
	require.NotEmpty(t, record["time"])
}
