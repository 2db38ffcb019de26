package logger

import (
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Keys of the structured log line.
const (
	TimestampKey = "timestamp"
	LevelKey     = "level"
	LoggerKey    = "logger"
	MessageKey   = "message"
	ExceptionKey = "exception"
)

// RootName is used for entries logged without a logger name.
const RootName = "root"

// textTimeLayout mirrors the "2006-01-02 15:04:05,000" asctime layout.
const textTimeLayout = "2006-01-02 15:04:05,000"

var bufferPool = buffer.NewPool()

// reservedKeys cannot be overridden by caller-supplied fields.
var reservedKeys = map[string]struct{}{
	TimestampKey: {},
	LevelKey:     {},
	LoggerKey:    {},
	MessageKey:   {},
}

// LevelName returns the DEBUG/INFO/WARNING/ERROR/CRITICAL name of a zap level.
func LevelName(l zapcore.Level) string {
	switch {
	case l <= zapcore.DebugLevel:
		return "DEBUG"
	case l == zapcore.InfoLevel:
		return "INFO"
	case l == zapcore.WarnLevel:
		return "WARNING"
	case l == zapcore.ErrorLevel:
		return "ERROR"
	default:
		return "CRITICAL"
	}
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(LevelName(l))
}

func encodeUTCTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(time.RFC3339Nano))
}

// jsonEncoder writes one JSON object per entry. The timestamp is taken
// from now at encode time rather than from the entry.
type jsonEncoder struct {
	zapcore.Encoder
	now func() time.Time
}

func newJSONEncoder(now func() time.Time) zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		TimeKey:        TimestampKey,
		LevelKey:       LevelKey,
		NameKey:        LoggerKey,
		MessageKey:     MessageKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    encodeLevel,
		EncodeTime:     encodeUTCTime,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	return &jsonEncoder{Encoder: zapcore.NewJSONEncoder(cfg), now: now}
}

func (e *jsonEncoder) Clone() zapcore.Encoder {
	return &jsonEncoder{Encoder: e.Encoder.Clone(), now: e.now}
}

func (e *jsonEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	ent.Time = e.now()
	if ent.LoggerName == "" {
		ent.LoggerName = RootName
	}
	ent.Stack = ""
	ent.Caller = zapcore.EntryCaller{}
	return e.Encoder.EncodeEntry(ent, passThrough(fields))
}

// passThrough drops fields whose keys collide with the fixed keys.
func passThrough(fields []zapcore.Field) []zapcore.Field {
	out := fields[:0:0]
	for _, f := range fields {
		if _, ok := reservedKeys[f.Key]; ok {
			continue
		}
		out = append(out, f)
	}
	return out
}

// textEncoder renders "<timestamp> - <logger> - <level> - <message>".
// Structured fields are not part of the text layout.
type textEncoder struct {
	zapcore.Encoder
	now func() time.Time
}

func newTextEncoder(now func() time.Time) zapcore.Encoder {
	return &textEncoder{
		Encoder: zapcore.NewJSONEncoder(zapcore.EncoderConfig{}),
		now:     now,
	}
}

func (e *textEncoder) Clone() zapcore.Encoder {
	return &textEncoder{Encoder: e.Encoder.Clone(), now: e.now}
}

func (e *textEncoder) EncodeEntry(ent zapcore.Entry, _ []zapcore.Field) (*buffer.Buffer, error) {
	name := ent.LoggerName
	if name == "" {
		name = RootName
	}

	buf := bufferPool.Get()
	buf.AppendString(e.now().Format(textTimeLayout))
	buf.AppendString(" - ")
	buf.AppendString(name)
	buf.AppendString(" - ")
	buf.AppendString(LevelName(ent.Level))
	buf.AppendString(" - ")
	buf.AppendString(ent.Message)
	buf.AppendString(zapcore.DefaultLineEnding)
	return buf, nil
}
