package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jxo-me/cfddns/core/logger"
	"github.com/rs/zerolog"
)

type LoggerOptions struct {
	Name   string
	Output io.Writer
	Format logger.LogFormat
	Level  logger.LogLevel
}

type LoggerOption func(opts *LoggerOptions)

func NameLoggerOption(name string) LoggerOption {
	return func(opts *LoggerOptions) {
		opts.Name = name
	}
}

func OutputLoggerOption(out io.Writer) LoggerOption {
	return func(opts *LoggerOptions) {
		opts.Output = out
	}
}

func FormatLoggerOption(format logger.LogFormat) LoggerOption {
	return func(opts *LoggerOptions) {
		opts.Format = format
	}
}

func LevelLoggerOption(level logger.LogLevel) LoggerOption {
	return func(opts *LoggerOptions) {
		opts.Level = level
	}
}

type zeroLogger struct {
	logger zerolog.Logger
}

// NewLogger builds a logger.ILogger. The json and console formats are
// backed by zerolog, the text format by logrus.
func NewLogger(opts ...LoggerOption) logger.ILogger {
	options := LoggerOptions{
		Output: os.Stderr,
		Format: logger.JSONFormat,
		Level:  logger.InfoLevel,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Output == nil {
		options.Output = os.Stderr
	}

	switch options.Format {
	case logger.TextFormat:
		return newLogrusLogger(options)
	case logger.ConsoleFormat:
		options.Output = zerolog.ConsoleWriter{Out: options.Output, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(options.Output).Level(zeroLevel(options.Level)).With().Timestamp().Logger()
	if options.Name != "" {
		l = l.With().Str("logger", options.Name).Logger()
	}
	return &zeroLogger{logger: l}
}

// Nop returns a logger that discards everything.
func Nop() logger.ILogger {
	return &zeroLogger{logger: zerolog.Nop()}
}

func zeroLevel(level logger.LogLevel) zerolog.Level {
	lvl, err := zerolog.ParseLevel(string(level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithFields adds new fields to log.
func (l *zeroLogger) WithFields(fields map[string]any) logger.ILogger {
	return &zeroLogger{logger: l.logger.With().Fields(fields).Logger()}
}

func (l *zeroLogger) Trace(args ...any) {
	l.logger.Trace().Msg(fmt.Sprint(args...))
}

func (l *zeroLogger) Tracef(format string, args ...any) {
	l.logger.Trace().Msgf(format, args...)
}

func (l *zeroLogger) Debug(args ...any) {
	l.logger.Debug().Msg(fmt.Sprint(args...))
}

func (l *zeroLogger) Debugf(format string, args ...any) {
	l.logger.Debug().Msgf(format, args...)
}

func (l *zeroLogger) Info(args ...any) {
	l.logger.Info().Msg(fmt.Sprint(args...))
}

func (l *zeroLogger) Infof(format string, args ...any) {
	l.logger.Info().Msgf(format, args...)
}

func (l *zeroLogger) Warn(args ...any) {
	l.logger.Warn().Msg(fmt.Sprint(args...))
}

func (l *zeroLogger) Warnf(format string, args ...any) {
	l.logger.Warn().Msgf(format, args...)
}

func (l *zeroLogger) Error(args ...any) {
	l.logger.Error().Msg(fmt.Sprint(args...))
}

func (l *zeroLogger) Errorf(format string, args ...any) {
	l.logger.Error().Msgf(format, args...)
}

func (l *zeroLogger) Fatal(args ...any) {
	l.logger.Fatal().Msg(fmt.Sprint(args...))
}

func (l *zeroLogger) Fatalf(format string, args ...any) {
	l.logger.Fatal().Msgf(format, args...)
}

func (l *zeroLogger) GetLevel() logger.LogLevel {
	lvl := l.logger.GetLevel()
	if lvl > zerolog.FatalLevel {
		return logger.FatalLevel
	}
	return logger.LogLevel(lvl.String())
}

func (l *zeroLogger) IsLevelEnabled(level logger.LogLevel) bool {
	lvl, err := zerolog.ParseLevel(string(level))
	if err != nil {
		return false
	}
	current := l.logger.GetLevel()
	return current != zerolog.Disabled && lvl >= current
}
