package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the configuration for the logger
type Config struct {
	Level         string `yaml:"level"          json:"level"`
	FilePath      string `yaml:"file_path"      json:"file_path"`
	Format        string `yaml:"format"         json:"format"`
	WithTrace     bool   `yaml:"with_trace"     json:"with_trace"`
	EnableConsole bool   `yaml:"enable_console" json:"enable_console"`
	InstantSync   bool   `yaml:"instant_sync"   json:"instant_sync"`
}

// Initialize sets up the global logger with the given configuration,
// replacing any logger built before.
func Initialize(config Config) error {
	previous := GlobalLogFile
	GlobalLogFile = nil
	GlobalEnableConsoleLogger = config.EnableConsole
	GlobalEnableFileLogger = config.FilePath != ""
	GlobalInstantSync = config.InstantSync
	if config.FilePath != "" {
		GlobalLogPath = config.FilePath
	}
	GlobalLogLevel = config.Level
	if GlobalLogLevel == "" {
		GlobalLogLevel = InfoLogLevel
	}

	level := zap.NewAtomicLevelAt(getZapLevel(GlobalLogLevel))
	var cores []zapcore.Core

	if config.EnableConsole {
		cores = append(cores, createConsoleCore(level))
	}

	if config.FilePath != "" {
		encoderConfig := baseEncoderConfig()
		var encoder zapcore.Encoder
		if config.Format == "json" {
			encoder = zapcore.NewJSONEncoder(encoderConfig)
		} else {
			encoder = zapcore.NewConsoleEncoder(encoderConfig)
		}

		file, err := os.OpenFile(
			config.FilePath,
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			LogFilePermissions,
		)
		if err != nil {
			GlobalLogFile = previous
			return fmt.Errorf("failed to open log file: %w", err)
		}
		GlobalLogFile = file
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(file), level))
	}

	opts := []zap.Option{zap.AddCaller()}
	if config.WithTrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	// Mark the lazy initializer as done so Get does not replace this logger.
	once.Do(func() {})
	SetGlobalLogger(&Logger{Logger: zap.New(zapcore.NewTee(cores...), opts...).Named(LoggerName)})
	if previous != nil {
		_ = previous.Close()
	}
	return nil
}
