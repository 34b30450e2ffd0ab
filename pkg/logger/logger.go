// Package logger provides standardized logging utilities for the Quanta compiler
package logger

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global logger instance
var defaultLogger = zap.NewNop().Sugar()

// Config holds logger configuration
type Config struct {
	Debug   bool
	LogFile string
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() Config {
	return Config{}
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	var zcfg zap.Config
	if cfg.Debug {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zcfg.OutputPaths = []string{"stderr"}
	if cfg.LogFile != "" {
		zcfg.OutputPaths = []string{cfg.LogFile}
	}

	log, err := zcfg.Build()
	if err != nil {
		return errors.Wrap(err, "build logger")
	}

	defaultLogger = log.Sugar()
	return nil
}

// InitDev initializes logging for development (debug level, console format)
func InitDev() {
	_ = Init(Config{Debug: true})
}

// Sync flushes any buffered log entries
func Sync() {
	_ = defaultLogger.Sync()
}

// Debug logs a debug message with key/value pairs
func Debug(msg string, kv ...interface{}) {
	defaultLogger.Debugw(msg, kv...)
}

// Info logs an info message with key/value pairs
func Info(msg string, kv ...interface{}) {
	defaultLogger.Infow(msg, kv...)
}

// Warn logs a warning message with key/value pairs
func Warn(msg string, kv ...interface{}) {
	defaultLogger.Warnw(msg, kv...)
}

// Error logs an error message with key/value pairs
func Error(msg string, kv ...interface{}) {
	defaultLogger.Errorw(msg, kv...)
}

// With returns a logger with the given key/value pairs attached
func With(kv ...interface{}) *zap.SugaredLogger {
	return defaultLogger.With(kv...)
}

// Compiler-specific logging helpers

// LogStage logs the start of a compilation stage
func LogStage(stage string) {
	Debug("Starting compilation stage", "stage", stage)
}

// LogStageComplete logs the completion of a compilation stage
func LogStageComplete(stage string, duration string) {
	Debug("Completed compilation stage", "stage", stage, "duration", duration)
}

// LogOptimization logs an optimization pass result
func LogOptimization(pass string, changeCount uint64) {
	Debug("Optimization pass complete", "pass", pass, "changes", changeCount)
}

// LogCompilerComplete logs compiler completion
func LogCompilerComplete(success bool, duration string) {
	if success {
		Info("Compilation successful", "duration", duration)
	} else {
		Error("Compilation failed", "duration", duration)
	}
}
