package common

import (
	"io"

	"github.com/sirupsen/logrus"
)

// LogOption selects where the client emits its request diagnostics.
type LogOption struct {
	// LogLevel applies when no Logger is supplied.
	LogLevel logrus.Level
	// Logger takes precedence over LogLevel when set.
	Logger *logrus.Logger
}

// NewLogger materializes the logger for the given option. Without an option,
// diagnostics are discarded.
func NewLogger(opt ...LogOption) *logrus.Logger {
	if len(opt) > 0 && opt[0].Logger != nil {
		return opt[0].Logger
	}

	logger := logrus.New()
	if len(opt) == 0 {
		logger.Out = io.Discard
		return logger
	}

	logger.SetLevel(opt[0].LogLevel)
	return logger
}
