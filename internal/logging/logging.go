// Package logging builds the application's zap logger.
//
// Entries go to stderr through a console encoder and, when a file path is
// configured, to a size-rotated JSON log file.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Level is the minimum level written. The zero value is info.
	Level zapcore.Level
	// File is the path of the rotated JSON log. Empty disables file output.
	File string
	// Rotation controls the file writer. Zero fields take defaults.
	Rotation FileWriterConfig
	// Development enables colour level names and caller annotations.
	Development bool
	// Console overrides stderr, mainly for tests.
	Console zapcore.WriteSyncer
}

// New returns a logger teeing console and file output.
func New(opts Options) *zap.Logger {
	console := opts.Console
	if console == nil {
		console = zapcore.Lock(os.Stderr)
	}
	encCfg := NewEncoderConfig()
	if opts.Development {
		encCfg = NewConsoleEncoderConfig()
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), console, opts.Level),
	}
	if opts.File != "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(NewEncoderConfig()),
			NewFileWriterWithConfig(opts.File, opts.Rotation),
			opts.Level,
		))
	}
	zopts := []zap.Option{}
	if opts.Development {
		zopts = append(zopts, zap.AddCaller(), zap.Development())
	}
	return zap.New(zapcore.NewTee(cores...), zopts...)
}

// Nop returns a logger that discards everything. Components default to it.
func Nop() *zap.Logger { return zap.NewNop() }
