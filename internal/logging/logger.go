package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"w3intel/internal/config"
)

// NewLogger creates a logger configured by cfg. Invalid levels fall back to info.
func NewLogger(cfg config.LogConfig) *logrus.Logger {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg config.LogConfig, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// WithService returns an entry tagging every line with the service name
func WithService(logger *logrus.Logger, serviceName string) *logrus.Entry {
	return logger.WithField("service", serviceName)
}
