// Package logging configures the logrus loggers used by the binaries.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minesweeper-term/internal/config"
)

// Setup points log at stderr, or only at a rotating file when one is
// configured so the board on stdout stays readable. Development mode always
// logs at debug level.
func Setup(log *logrus.Logger, c *config.Config) error {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return fmt.Errorf("unable to parse log level %q: %w", c.Log.Level, err)
	}
	if c.Development() {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	log.SetOutput(os.Stderr)

	if c.Log.File == "" {
		return nil
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   c.Log.File,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
		Level:      level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return fmt.Errorf("unable to open log file %s: %w", c.Log.File, err)
	}
	log.AddHook(hook)
	log.SetOutput(io.Discard)
	return nil
}
