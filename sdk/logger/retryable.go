package logger

import (
	"fmt"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/jxo-me/cfddns/core/logger"
)

// leveledLogger adapts logger.ILogger to retryablehttp.LeveledLogger.
// Request chatter from the transport is demoted to debug.
type leveledLogger struct {
	logger logger.ILogger
}

func NewLeveledLogger(log logger.ILogger) retryablehttp.LeveledLogger {
	return &leveledLogger{logger: log}
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(fields(keysAndValues)).Trace(msg)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(fields(keysAndValues)).Warn(msg)
}

func fields(keysAndValues []interface{}) map[string]any {
	m := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		m[fmt.Sprint(keysAndValues[i])] = fmt.Sprint(keysAndValues[i+1])
	}
	return m
}
