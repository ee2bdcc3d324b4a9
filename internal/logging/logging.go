// Package logging builds the zap logger used across chatbtc.
//
// The chat TUI owns the terminal, so logs never go to stdout or stderr: they
// are written to a file, and only when verbose logging is requested.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the logger
type Options struct {
	Verbose bool
	Path    string
}

// New returns a file-backed production logger at debug level when verbose is
// set, and a no-op logger otherwise.
func New(opts Options) (*zap.Logger, error) {
	if !opts.Verbose {
		return zap.NewNop(), nil
	}
	if opts.Path == "" {
		return nil, fmt.Errorf("log path is required when verbose logging is enabled")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	config.OutputPaths = []string{opts.Path}
	config.ErrorOutputPaths = []string{opts.Path}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named("chatbtc"), nil
}
