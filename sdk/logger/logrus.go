package logger

import (
	"github.com/jxo-me/cfddns/core/logger"
	"github.com/sirupsen/logrus"
)

type logrusLogger struct {
	logger *logrus.Entry
}

func newLogrusLogger(options LoggerOptions) logger.ILogger {
	log := logrus.New()
	log.SetOutput(options.Output)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	lvl, err := logrus.ParseLevel(string(options.Level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	entry := logrus.NewEntry(log)
	if options.Name != "" {
		entry = entry.WithField("logger", options.Name)
	}
	return &logrusLogger{logger: entry}
}

func (l *logrusLogger) WithFields(fields map[string]any) logger.ILogger {
	return &logrusLogger{logger: l.logger.WithFields(logrus.Fields(fields))}
}

func (l *logrusLogger) Trace(args ...any) {
	l.logger.Trace(args...)
}

func (l *logrusLogger) Tracef(format string, args ...any) {
	l.logger.Tracef(format, args...)
}

func (l *logrusLogger) Debug(args ...any) {
	l.logger.Debug(args...)
}

func (l *logrusLogger) Debugf(format string, args ...any) {
	l.logger.Debugf(format, args...)
}

func (l *logrusLogger) Info(args ...any) {
	l.logger.Info(args...)
}

func (l *logrusLogger) Infof(format string, args ...any) {
	l.logger.Infof(format, args...)
}

func (l *logrusLogger) Warn(args ...any) {
	l.logger.Warn(args...)
}

func (l *logrusLogger) Warnf(format string, args ...any) {
	l.logger.Warnf(format, args...)
}

func (l *logrusLogger) Error(args ...any) {
	l.logger.Error(args...)
}

func (l *logrusLogger) Errorf(format string, args ...any) {
	l.logger.Errorf(format, args...)
}

func (l *logrusLogger) Fatal(args ...any) {
	l.logger.Fatal(args...)
}

func (l *logrusLogger) Fatalf(format string, args ...any) {
	l.logger.Fatalf(format, args...)
}

func (l *logrusLogger) GetLevel() logger.LogLevel {
	lvl := l.logger.Logger.GetLevel()
	if lvl == logrus.WarnLevel {
		return logger.WarnLevel
	}
	if lvl <= logrus.FatalLevel {
		return logger.FatalLevel
	}
	return logger.LogLevel(lvl.String())
}

func (l *logrusLogger) IsLevelEnabled(level logger.LogLevel) bool {
	lvl, err := logrus.ParseLevel(string(level))
	if err != nil {
		return false
	}
	return l.logger.Logger.IsLevelEnabled(lvl)
}
