// Package logging configures the logrus loggers used across the client.
package logging

import (
	"fmt"
	"io"
	"path"
	"runtime"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
)

// Level is a logrus level name, or None to disable logging.
type Level string

// Supported levels.
const (
	Error Level = "error"
	Warn  Level = "warn"
	Info  Level = "info"
	Debug Level = "debug"
	Trace Level = "trace"
	None  Level = "none"
)

// LogFormatter is the formatter installed by SetupLogger.
var LogFormatter = &formatter.Formatter{
	TimestampFormat: "2006-01-02 15:04:05",
	HideKeys:        true,
	FieldsOrder:     []string{"service", "subsystem", "req-id"},
	CallerFirst:     true,
	CustomCallerFormatter: func(f *runtime.Frame) string {
		filename := path.Base(f.File)
		return fmt.Sprintf(" [%s %s():%d]", filename, f.Function, f.Line)
	},
}

// SetupLogger returns a logger tagged with serviceID and subsystem. An
// empty or unknown level falls back to the global logrus level.
func SetupLogger(currentLevel Level, serviceID string, subsystem string) *logrus.Entry {
	var err error
	logger := logrus.New()
	logger.SetFormatter(LogFormatter)
	lSubsystem := logger.WithFields(logrus.Fields{
		"service":   serviceID,
		"subsystem": subsystem,
	})

	if currentLevel == None {
		lSubsystem.Logger.SetOutput(io.Discard)
		return lSubsystem
	}

	level := logrus.GetLevel()

	if currentLevel != "" {
		level, err = logrus.ParseLevel(string(currentLevel))
		if err != nil {
			logrus.Warnf("'%s' invalid '%s' log level. Defaulting to global log level", subsystem, currentLevel)
			level = logrus.GetLevel()
		}
	}

	lSubsystem.Logger.SetLevel(level)
	lSubsystem.Debugf("log level set to '%s'", level)

	return lSubsystem
}
