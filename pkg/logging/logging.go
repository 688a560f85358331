// Package logging provides the shared logger for GoSQLDev
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

// Initialize configures the shared logger. Debug mode enables the
// debug level used for subprocess output diagnostics.
func Initialize(debug bool) *logrus.Logger {
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return logger
}

// Logger returns the shared logger instance.
func Logger() *logrus.Logger {
	return logger
}
