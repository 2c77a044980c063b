// Package logging builds the process logger. Log output goes to a dated
// file under the .vitrine/logs directory rather than the terminal, so
// command output and the interactive browser stay clean. Components derive
// their own named loggers from the one returned here.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger writing under dir/logs. Verbose lowers the level to
// debug. Call Sync on the returned logger before exit.
func New(dir string, verbose bool) (*zap.Logger, error) {
	logsDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("logging: create %s: %w", logsDir, err)
	}

	// One file per day keeps rotation a matter of deleting old files.
	name := fmt.Sprintf("%s_vitrine.log", time.Now().Format("2006-01-02"))

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{filepath.Join(logsDir, name)}
	cfg.ErrorOutputPaths = []string{filepath.Join(logsDir, name)}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build: %w", err)
	}
	return logger, nil
}

// NewStderr builds a console logger for contexts where file logging is
// unwanted, such as one-shot scripted runs with --verbose.
func NewStderr(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return cfg.Build()
}
