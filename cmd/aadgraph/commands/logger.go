package commands

import (
	"sort"

	"github.com/fivetwenty-io/aadgraph/pkg/graph"
	"go.uber.org/zap"
)

// zapLogger adapts a zap.Logger to graph.Logger.
type zapLogger struct {
	logger *zap.Logger
}

// NewZapLogger wraps logger as a graph.Logger.
func NewZapLogger(logger *zap.Logger) graph.Logger {
	return &zapLogger{logger: logger}
}

func (l *zapLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, zapFields(fields)...)
}

func (l *zapLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, zapFields(fields)...)
}

func (l *zapLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, zapFields(fields)...)
}

func (l *zapLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, zapFields(fields)...)
}

func zapFields(fields map[string]interface{}) []zap.Field {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	result := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		if err, ok := fields[key].(error); ok {
			result = append(result, zap.NamedError(key, err))

			continue
		}

		result = append(result, zap.Any(key, fields[key]))
	}

	return result
}

// newLogger returns a development logger writing to stderr when verbose is
// set, and a no-op logger otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}

	return zap.NewDevelopment()
}
