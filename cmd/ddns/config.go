package main

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jxo-me/cfddns/config"
	"github.com/jxo-me/cfddns/config/parsing"
	"github.com/jxo-me/cfddns/core/logger"
	"github.com/jxo-me/cfddns/internal/util"
	xlogger "github.com/jxo-me/cfddns/sdk/logger"
	"github.com/jxo-me/cfddns/sdk/metrics"
	"gopkg.in/natefinch/lumberjack.v2"
)

func bootstrapLogger(debug bool) logger.ILogger {
	level := logger.InfoLevel
	if debug {
		level = logger.DebugLevel
	}
	return xlogger.NewLogger(
		xlogger.FormatLoggerOption(logger.ConsoleFormat),
		xlogger.LevelLoggerOption(level),
		xlogger.OutputLoggerOption(os.Stderr),
	)
}

func logFromConfig(cfg *config.LogConfig, debug bool) logger.ILogger {
	if cfg == nil {
		cfg = &config.LogConfig{Format: string(logger.ConsoleFormat)}
	}
	level := logger.LogLevel(cfg.Level)
	if debug {
		level = logger.DebugLevel
	}
	opts := []xlogger.LoggerOption{
		xlogger.NameLoggerOption("cfddns"),
		xlogger.FormatLoggerOption(logger.LogFormat(cfg.Format)),
		xlogger.LevelLoggerOption(level),
	}

	var out io.Writer = os.Stderr
	switch cfg.Output {
	case "none", "null":
		return xlogger.Nop()
	case "stdout":
		out = os.Stdout
	case "stderr", "":
		out = os.Stderr
	default:
		if cfg.Rotation != nil {
			out = &lumberjack.Logger{
				Filename:   cfg.Output,
				MaxSize:    cfg.Rotation.MaxSize,
				MaxAge:     cfg.Rotation.MaxAge,
				MaxBackups: cfg.Rotation.MaxBackups,
				LocalTime:  cfg.Rotation.LocalTime,
				Compress:   cfg.Rotation.Compress,
			}
		} else {
			_ = os.MkdirAll(filepath.Dir(cfg.Output), 0755)
			f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				logger.Default().Warn(err)
			} else {
				out = f
			}
		}
	}
	opts = append(opts, xlogger.OutputLoggerOption(out))

	return xlogger.NewLogger(opts...)
}

func httpClientFromConfig(cfg *config.HTTPConfig, log logger.ILogger) (*http.Client, error) {
	s, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	var opts []util.HTTPClientOption
	if s.Timeout > 0 {
		opts = append(opts, util.TimeoutHTTPClientOption(s.Timeout))
	}
	if s.Retries > 0 {
		opts = append(opts, util.RetriesHTTPClientOption(s.Retries, s.RetryWaitMin, s.RetryWaitMax))
	}
	if log.IsLevelEnabled(logger.TraceLevel) {
		opts = append(opts, util.LoggerHTTPClientOption(log))
	}
	return util.CreateHTTPClient(opts...), nil
}

// buildOptions creates the collaborators shared by every provider and resolver.
func buildOptions(root *config.Root, log logger.ILogger) (parsing.Options, error) {
	client, err := httpClientFromConfig(root.HTTP, log)
	if err != nil {
		return parsing.Options{}, err
	}
	return parsing.Options{
		Client:  client,
		Logger:  log,
		Metrics: metrics.New(),
	}, nil
}

func newMetricsServer(cfg *config.MetricsConfig, m *metrics.Metrics) *http.Server {
	if !cfg.Enabled() {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle(cfg.MetricsPath(), m.Handler())
	return &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
