// Package logrus adapts a *logrus.Entry to the urifs.Logger interface.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/urifs"
)

type Logger struct{ E *logrus.Entry }

var _ urifs.Logger = Logger{}

func New(e *logrus.Entry) Logger {
	if e == nil {
		e = logrus.NewEntry(logrus.StandardLogger())
	}
	return Logger{E: e}
}

func (l Logger) Debug(msg string, f urifs.Fields) { l.E.WithFields(logrus.Fields(f)).Debug(msg) }
func (l Logger) Info(msg string, f urifs.Fields)  { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l Logger) Warn(msg string, f urifs.Fields)  { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l Logger) Error(msg string, f urifs.Fields) { l.E.WithFields(logrus.Fields(f)).Error(msg) }
