// Package logging builds the server's zap logger.
//
// Logs never go to stdout: the MCP stdio transport owns it. Output goes to
// stderr, or to a size-rotated file when one is configured.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Formats accepted by Config.Format.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Rotation limits for file output.
const (
	maxFileSizeMB = 10
	maxBackups    = 3
	maxAgeDays    = 28
)

// Config selects level, encoding and destination.
type Config struct {
	Level  string
	Format string
	File   string
}

// New builds a logger for cfg. Empty fields mean info level, JSON, stderr.
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = l
	}

	var encCfg zapcore.EncoderConfig
	format := strings.ToLower(cfg.Format)
	switch format {
	case "", FormatJSON:
		encCfg = zap.NewProductionEncoderConfig()
	case FormatConsole:
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		if cfg.File == "" {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	default:
		return nil, fmt.Errorf("logging: unknown format %q (want %s or %s)", cfg.Format, FormatJSON, FormatConsole)
	}
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if format == FormatConsole {
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, writer(cfg.File), zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller()), nil
}

func writer(file string) zapcore.WriteSyncer {
	if file == "" {
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxFileSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	})
}
