package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"w3intel/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LogConfig{Level: "debug", Format: "json"}, &buf)

	WithService(logger, "w3intel-api").WithField("k", "v").Debug("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "w3intel-api", line["service"])
	assert.Equal(t, "v", line["k"])
}

func TestNewLogger_InvalidLevelFallsBack(t *testing.T) {
	logger := newLogger(config.LogConfig{Level: "loud", Format: "text"}, &bytes.Buffer{})

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}
