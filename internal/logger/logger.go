package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the global SugaredLogger instance.
// Initialized with a no-op logger until Initialize is called.
var Log *zap.SugaredLogger = zap.NewNop().Sugar()

// CriticalLevel is the zap level rendered as CRITICAL.
// The logger is never built in development mode, so DPanic does not panic.
const CriticalLevel = zapcore.DPanicLevel

// Supported output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// ParseLevel converts DEBUG, INFO, WARNING, ERROR or CRITICAL (case-insensitive) to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zapcore.DebugLevel, nil
	case "INFO":
		return zapcore.InfoLevel, nil
	case "WARNING", "WARN":
		return zapcore.WarnLevel, nil
	case "ERROR":
		return zapcore.ErrorLevel, nil
	case "CRITICAL":
		return CriticalLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// New builds a logger with a single core writing to out at the given level.
// Any format other than "json" selects the plain-text encoder.
func New(level, format string, out zapcore.WriteSyncer) (*zap.SugaredLogger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = zapcore.Lock(os.Stdout)
	}

	var enc zapcore.Encoder
	if strings.EqualFold(format, FormatJSON) {
		enc = newJSONEncoder(time.Now)
	} else {
		enc = newTextEncoder(time.Now)
	}

	core := zapcore.NewCore(enc, out, zap.NewAtomicLevelAt(lvl))
	return zap.New(reservedKeysCore{core}, zap.ErrorOutput(out)).Sugar(), nil
}

// reservedKeysCore drops reserved keys from fields attached with With.
// Per-entry fields are filtered by the encoders.
type reservedKeysCore struct {
	zapcore.Core
}

func (c reservedKeysCore) With(fields []zapcore.Field) zapcore.Core {
	return reservedKeysCore{c.Core.With(passThrough(fields))}
}

func (c reservedKeysCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Initialize sets up the global logger with the given level and format.
// A second call replaces the previous logger entirely.
func Initialize(level, format string, out zapcore.WriteSyncer) error {
	l, err := New(level, format, out)
	if err != nil {
		return err
	}

	Log = l
	return nil
}

// Named returns a child of the global logger.
func Named(name string) *zap.SugaredLogger {
	return Log.Named(name)
}

// Exception returns the field carrying formatted error text.
func Exception(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	return zap.String(ExceptionKey, fmt.Sprintf("%+v", err))
}
