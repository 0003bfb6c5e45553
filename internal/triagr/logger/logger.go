package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.SugaredLogger

// LogConfig controls logger construction. Console output goes to stderr so
// NDJSON pipelines on stdout stay clean; the optional files receive debug
// and info levels respectively.
type LogConfig struct {
	Level        string // base level for file sinks: debug|info|warn|error
	ConsoleLevel string // stderr level; defaults to warn to keep pipelines quiet
	DebugFile    string // optional file receiving Level and above
	InfoFile     string // optional file receiving info and above
	Development  bool   // console encoder instead of JSON
}

func parseLevel(s string, fallback zapcore.Level) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return fallback
	}
}

// InitLogger initializes the global sugared logger from cfg.
func InitLogger(cfg LogConfig) error {
	baseLevel := parseLevel(cfg.Level, zapcore.InfoLevel)
	consoleLevel := parseLevel(cfg.ConsoleLevel, zapcore.WarnLevel)

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var consoleEnc zapcore.Encoder
	if cfg.Development {
		devCfg := zap.NewDevelopmentEncoderConfig()
		consoleEnc = zapcore.NewConsoleEncoder(devCfg)
	} else {
		consoleEnc = zapcore.NewJSONEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stderr), consoleLevel),
	}

	if cfg.DebugFile != "" {
		f, err := os.OpenFile(cfg.DebugFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open debug log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(f), baseLevel))
	}

	if cfg.InfoFile != "" {
		f, err := os.OpenFile(cfg.InfoFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open info log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(f), zapcore.InfoLevel))
	}

	z := zap.New(zapcore.NewTee(cores...))
	logger = z.Sugar()
	return nil
}

// L returns the global sugared logger.
// If InitLogger has not been called, it initializes with defaults.
func L() *zap.SugaredLogger {
	if logger == nil {
		_ = InitLogger(LogConfig{Level: "info"})
	}
	return logger
}
