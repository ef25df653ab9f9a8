// Package logging builds the zap logger shared by the foxtail commands.
//
// Informational progress is only emitted in verbose mode, warnings are
// emitted unless quiet mode is on, and errors are always emitted.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the logger
type Options struct {
	Verbose bool      // -v: emit Debug/Info entries
	Quiet   bool      // -w: suppress Warn entries
	Writer  io.Writer // defaults to os.Stderr
}

// New creates a console logger honouring the verbose and quiet flags.
func New(opts Options) *zap.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	encCfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		NameKey:        "logger",
		EncodeLevel:    levelEncoder,
		EncodeName:     zapcore.FullNameEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		Enabler(opts),
	)
	return zap.New(core)
}

// Enabler returns the level filter for the given options
func Enabler(opts Options) zap.LevelEnablerFunc {
	return func(l zapcore.Level) bool {
		switch {
		case l >= zapcore.ErrorLevel:
			return true
		case l == zapcore.WarnLevel:
			return !opts.Quiet
		default:
			return opts.Verbose
		}
	}
}

func levelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch l {
	case zapcore.DebugLevel:
		enc.AppendString("Debug:")
	case zapcore.InfoLevel:
		enc.AppendString("Info: ")
	case zapcore.WarnLevel:
		enc.AppendString("Warn: ")
	default:
		enc.AppendString("ERROR:")
	}
}

// OrNop returns logger, or a no-op logger when logger is nil
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
