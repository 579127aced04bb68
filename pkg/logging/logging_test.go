package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/alecthomas/assert"
)

func TestSetOutput(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := New()

	logger.SetOutput(buf)
	logger.Error("error message")

	assert.Contains(t, buf.String(), "level=error")
	assert.Contains(t, buf.String(), "msg=\"error message\"")
}

func TestWithFields(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := New()

	logger.SetOutput(buf)
	logger.WithFields(map[string]interface{}{"track": "V1", "test": "AUAI Onus"}).Error("error message")

	assert.Contains(t, buf.String(), "track=V1")
	assert.Contains(t, buf.String(), "test=\"AUAI Onus\"")
}

func TestWithError(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := New()

	logger.SetOutput(buf)
	logger.WithError(errors.New("some-error")).Error("error message")

	assert.Contains(t, buf.String(), "error=some-error")
}

func TestLevelSetter(t *testing.T) {
	logger := New()
	logger.SetLevel("debug")
	assert.Equal(t, "debug", logger.GetLevel())
}

func TestNullLevelDiscards(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := New()

	logger.SetOutput(buf)
	logger.SetLevel("null")
	logger.Error("should not appear")

	assert.Equal(t, buf.String(), "")
}
