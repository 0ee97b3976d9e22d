package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroLogger_Info(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Info("purchase settled", F("purchase_id", int64(7)), F("status", "COMPLETED"))

	output := buf.String()
	assert.Contains(t, output, `"message":"purchase settled"`)
	assert.Contains(t, output, `"purchase_id":7`)
	assert.Contains(t, output, `"status":"COMPLETED"`)
	assert.Contains(t, output, `"level":"info"`)
}

func TestZeroLogger_DebugHiddenInProduction(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("production", buf)

	log.Debug("debug-hidden")

	assert.Empty(t, buf.String())
}

func TestZeroLogger_DebugShownInDev(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Debug("debug-test")

	assert.Contains(t, buf.String(), "debug-test")
}

func TestZeroLogger_ErrorField(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Error("settle failed", F("err", errors.New("connection reset")))

	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"err":"connection reset"`)
}

func TestZeroLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf).With(F("component", "settlement"))

	log.Warn("queue full")

	assert.Contains(t, buf.String(), `"component":"settlement"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
