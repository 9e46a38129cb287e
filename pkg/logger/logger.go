package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Init builds the process logger from LOG_LEVEL and ENVIRONMENT: JSON output
// in production, colored console output everywhere else.
func Init() error {
	var level zapcore.Level
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var err error
	if os.Getenv("ENVIRONMENT") == "production" {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		log, err = cfg.Build()
	} else {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		log, err = cfg.Build()
	}
	return err
}

// L returns the process logger. Safe to call before Init (no-op logger).
func L() *zap.Logger {
	return log
}

func Sync() {
	_ = log.Sync()
}
