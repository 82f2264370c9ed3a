// internal/infra/logger/logger.go
package logger

import (
	"io"
	"os"
	"strings"

	"homework_status_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSizeMB  = 50
	logFileMaxBackups = 1
)

// New builds a logger from application configuration.
// The returned cleanup closes the log file, if one is configured.
func New(cfg *config.AppConfig) (*logrus.Logger, func() error) {
	log := logrus.New()
	cleanup := func() error { return nil }

	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		file := rotatingFile(cfg.LogFile)
		out = io.MultiWriter(os.Stdout, file)
		cleanup = file.Close
	}
	Configure(log, cfg, out)
	return log, cleanup
}

// rotatingFile keeps the current log plus one backup of at most logFileMaxSizeMB each.
func rotatingFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
	}
}

// Configure applies level, formatter and output to an existing logger.
func Configure(log *logrus.Logger, cfg *config.AppConfig, out io.Writer) {
	log.SetOutput(out)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(level)
	}

	env := strings.ToLower(cfg.Environment)
	if env == "production" || env == "staging" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	log.Debugf("Log level set to: %s", log.GetLevel().String())
	log.Debugf("Log format set for environment: %s", cfg.Environment)
}
