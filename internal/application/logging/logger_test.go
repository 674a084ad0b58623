package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStdLogger_FormatsSortedMetadata(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLogger(log.New(&buf, "", 0), "INFO")

	l.Log("info", "signup submitted", map[string]interface{}{"role": "r1", "battle": "b1"})
	l.Log("DEBUG", "dropped", nil)

	assert.Equal(t, "[INFO] signup submitted battle=b1 role=r1\n", buf.String())
}

func TestJSONLogger_WritesOneObjectPerEntry(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(log.New(&buf, "", 0), "warn")

	l.Log("INFO", "dropped", nil)
	l.Log("error", "store unavailable", map[string]interface{}{"request": "ListBattles"})

	var entry map[string]interface{}
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "store unavailable", entry["msg"])
	assert.Equal(t, "ListBattles", entry["request"])
	assert.NotEmpty(t, entry["time"])
}

func TestLoggerFromContext_DefaultsToNoOp(t *testing.T) {
	assert.NotPanics(t, func() {
		LoggerFromContext(context.Background()).Log("INFO", "x", nil)
	})

	var buf bytes.Buffer
	l := NewStdLogger(log.New(&buf, "", 0), "DEBUG")
	LoggerFromContext(WithLogger(context.Background(), l)).Log("DEBUG", "hello", nil)
	assert.Contains(t, buf.String(), "hello")
}

type submitSignupCommand struct{}

func TestRequestName(t *testing.T) {
	assert.Equal(t, "submitSignup", RequestName(&submitSignupCommand{}))
	assert.Equal(t, "unknown", RequestName(nil))
}
