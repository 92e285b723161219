// Package logging provides the component logger used across the runtime.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the application logger type. It is a thin alias over
// *logrus.Entry so that call sites can attach component/field context once
// (via WithComponent) and then use the familiar Debugf/Infof/Warnf/Errorf
// family without re-threading a *logrus.Logger through every constructor.
type Logger = *logrus.Entry

// ParseLevel parses a level string (case-insensitive). Unrecognized values
// fall back to info, matching the rest of the runtime's "never fail on a bad
// log setting" posture.
func ParseLevel(s string) logrus.Level {
	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// New creates a root Logger writing to w (os.Stderr if nil) at the given
// level, with the given component name attached as a field.
func New(component string, level logrus.Level, w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	base := logrus.New()
	base.SetOutput(w)
	base.SetLevel(level)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return base.WithField("component", component)
}

// WithComponent returns a child logger scoped to a sub-component, preserving
// the parent's fields and output.
func WithComponent(parent Logger, component string) Logger {
	if parent == nil {
		return New(component, logrus.InfoLevel, nil)
	}
	return parent.WithField("subcomponent", component)
}

// Discard returns a logger that drops everything, for tests and for callers
// that decline to pass a logger.
func Discard() Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return base.WithField("component", "discard")
}
