// Package logger настраивает zap и пересылку важных записей операторам.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sink принимает отформатированные записи журнала.
type Sink interface {
	Notify(text string)
}

// New создаёт журнал: production-конфигурация или development при debug.
func New(debug bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

// WithSink дублирует записи уровня level и выше в sink.
func WithSink(base *zap.Logger, sink Sink, level zapcore.Level) *zap.Logger {
	if sink == nil {
		return base
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	sinkCore := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(sinkWriter{sink}), level)

	return base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, sinkCore)
	}))
}

type sinkWriter struct {
	sink Sink
}

func (w sinkWriter) Write(p []byte) (int, error) {
	w.sink.Notify(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
