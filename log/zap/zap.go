// Package zap adapts a *zap.Logger to the urifs.Logger interface.
package zap

import (
	"go.uber.org/zap"

	"github.com/unkn0wn-root/urifs"
)

type Logger struct{ L *zap.Logger }

var _ urifs.Logger = Logger{}

func New(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return Logger{L: l}
}

func (z Logger) Debug(msg string, f urifs.Fields) { z.L.Debug(msg, zf(f)...) }
func (z Logger) Info(msg string, f urifs.Fields)  { z.L.Info(msg, zf(f)...) }
func (z Logger) Warn(msg string, f urifs.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z Logger) Error(msg string, f urifs.Fields) { z.L.Error(msg, zf(f)...) }

func zf(f urifs.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
