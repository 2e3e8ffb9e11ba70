package hlogging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewZapLogger(core zapcore.Core, options ...zap.Option) *zap.Logger {
	return zap.New(core, append([]zap.Option{zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)}, options...)...)
}

type HLogger struct {
	s *zap.SugaredLogger
}

func NewHLogger(l *zap.Logger, options ...zap.Option) *HLogger {
	return &HLogger{
		s: l.WithOptions(append(options, zap.AddCallerSkip(1))...).Sugar(),
	}
}

func (hl *HLogger) Debug(args ...interface{}) { hl.s.Debug(formatArgs(args)) }
func (hl *HLogger) Debugf(template string, args ...interface{}) {
	hl.s.Debugf(template, args...)
}
func (hl *HLogger) Debugw(msg string, kvs ...interface{}) { hl.s.Debugw(msg, kvs...) }

func (hl *HLogger) Info(args ...interface{}) { hl.s.Info(formatArgs(args)) }
func (hl *HLogger) Infof(template string, args ...interface{}) {
	hl.s.Infof(template, args...)
}
func (hl *HLogger) Infow(msg string, kvs ...interface{}) { hl.s.Infow(msg, kvs...) }

func (hl *HLogger) Warn(args ...interface{}) { hl.s.Warn(formatArgs(args)) }
func (hl *HLogger) Warnf(template string, args ...interface{}) {
	hl.s.Warnf(template, args...)
}
func (hl *HLogger) Warnw(msg string, kvs ...interface{}) { hl.s.Warnw(msg, kvs...) }

func (hl *HLogger) Error(args ...interface{}) { hl.s.Error(formatArgs(args)) }
func (hl *HLogger) Errorf(template string, args ...interface{}) {
	hl.s.Errorf(template, args...)
}
func (hl *HLogger) Errorw(msg string, kvs ...interface{}) { hl.s.Errorw(msg, kvs...) }

func (hl *HLogger) Panic(args ...interface{}) { hl.s.Panic(formatArgs(args)) }
func (hl *HLogger) Panicf(template string, args ...interface{}) {
	hl.s.Panicf(template, args...)
}
func (hl *HLogger) Panicw(msg string, kvs ...interface{}) { hl.s.Panicw(msg, kvs...) }

func (hl *HLogger) IsEnabledFor(level zapcore.Level) bool {
	return hl.s.Desugar().Core().Enabled(level)
}

func (hl *HLogger) With(args ...interface{}) *HLogger {
	return &HLogger{s: hl.s.With(args...)}
}

func (hl *HLogger) Named(name string) *HLogger {
	return &HLogger{s: hl.s.Named(name)}
}

func formatArgs(args []interface{}) string {
	return fmt.Sprint(args...)
}
