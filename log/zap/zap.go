// Package zap adapts a zap logger to the prc Logger interface.
package zap

import (
	"github.com/erlcgo/prc"
	"go.uber.org/zap"
)

type Logger struct{ L *zap.Logger }

var _ prc.Logger = Logger{}

func (z Logger) Debug(msg string, f prc.Fields) { z.L.Debug(msg, zf(f)...) }
func (z Logger) Info(msg string, f prc.Fields)  { z.L.Info(msg, zf(f)...) }
func (z Logger) Warn(msg string, f prc.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z Logger) Error(msg string, f prc.Fields) { z.L.Error(msg, zf(f)...) }

func zf(f prc.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
