// Package logging configures logrus for the command line tool and hands out
// namespaced entries to the library packages.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Options contains the configuration values of the logger.
type Options struct {
	Level  string
	Output io.Writer
}

// Init configures the standard logrus logger. An empty level means "info" and
// a nil output means stderr.
func Init(opt Options) error {
	level := opt.Level
	if level == "" {
		level = "info"
	}
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	output := opt.Output
	if output == nil {
		output = os.Stderr
	}

	logger := logrus.StandardLogger()
	logger.SetLevel(logLevel)
	logger.SetOutput(output)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

// WithNamespace returns a logger with the specified nspace field.
func WithNamespace(nspace string) *logrus.Entry {
	return logrus.WithField("nspace", nspace)
}
