package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return &Logger{Logger: zerolog.New(buf)}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	newBufferLogger(&buf).WithComponent("classifier").Info().Msg("ready")
	assert.Contains(t, buf.String(), `"component":"classifier"`)
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	newBufferLogger(&buf).WithRequestID("req-42").Info().Msg("request completed")
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
}

func TestWithModelVersion(t *testing.T) {
	var buf bytes.Buffer
	newBufferLogger(&buf).WithModelVersion("v1").Info().Msg("transcript analyzed")
	assert.Contains(t, buf.String(), `"model_version":"v1"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, parseLevel("trace"))
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("not-a-level"))
}

func TestNewNopDiscards(t *testing.T) {
	log := NewNop()
	log.Info().Msg("dropped")
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
}
