// Package slog adapts a *slog.Logger to the urifs.Logger interface.
package slog

import (
	"context"
	stdslog "log/slog"

	"github.com/unkn0wn-root/urifs"
)

type Logger struct{ L *stdslog.Logger }

var _ urifs.Logger = Logger{}

func New(l *stdslog.Logger) Logger {
	if l == nil {
		l = stdslog.Default()
	}
	return Logger{L: l}
}

func (s Logger) Debug(msg string, f urifs.Fields) { s.log(stdslog.LevelDebug, msg, f) }
func (s Logger) Info(msg string, f urifs.Fields)  { s.log(stdslog.LevelInfo, msg, f) }
func (s Logger) Warn(msg string, f urifs.Fields)  { s.log(stdslog.LevelWarn, msg, f) }
func (s Logger) Error(msg string, f urifs.Fields) { s.log(stdslog.LevelError, msg, f) }

func (s Logger) log(level stdslog.Level, msg string, f urifs.Fields) {
	s.L.LogAttrs(context.Background(), level, msg, attrs(f)...)
}

func attrs(f urifs.Fields) []stdslog.Attr {
	if len(f) == 0 {
		return nil
	}
	out := make([]stdslog.Attr, 0, len(f))
	for k, v := range f {
		out = append(out, stdslog.Any(k, v))
	}
	return out
}
