// Package logrus adapts a logrus entry to the prc Logger interface.
package logrus

import (
	"github.com/erlcgo/prc"
	"github.com/sirupsen/logrus"
)

type Logger struct{ E *logrus.Entry }

var _ prc.Logger = Logger{}

func (l Logger) Debug(msg string, f prc.Fields) { l.E.WithFields(logrus.Fields(f)).Debug(msg) }
func (l Logger) Info(msg string, f prc.Fields)  { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l Logger) Warn(msg string, f prc.Fields)  { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l Logger) Error(msg string, f prc.Fields) { l.E.WithFields(logrus.Fields(f)).Error(msg) }
