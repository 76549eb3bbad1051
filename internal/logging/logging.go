package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"streamhub/config"
)

// New builds the application logger. Records go to stderr and, when a log file
// is configured, to a size-rotated file as JSON.
func New(settings config.LogSettings) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(settings.Level)))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), level),
	}

	if settings.File != "" {
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(fileCfg),
			zapcore.AddSync(RotatingWriter(settings.File, settings)),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// RotatingWriter returns a lumberjack writer for path using the rotation limits in settings.
func RotatingWriter(path string, settings config.LogSettings) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    settings.MaxSizeMB,
		MaxBackups: settings.MaxBackups,
		MaxAge:     settings.MaxAgeDays,
		Compress:   true,
	}
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// RecoveryLogger adapts a zap logger to the Println logger expected by
// gorilla/handlers.RecoveryHandler.
type RecoveryLogger struct {
	Logger *zap.Logger
}

// Println logs a recovered panic.
func (l RecoveryLogger) Println(v ...interface{}) {
	OrNop(l.Logger).Error("recovered from panic", zap.String("panic", fmt.Sprint(v...)))
}
