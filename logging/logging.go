// Package logging provides the optional log sink of an export run: every
// message goes to a log file and errors are echoed on the console.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// Name is the logger name written on every line.
	Name = "photo_extract"
	// DefaultFile is where the log is written unless configured otherwise.
	DefaultFile = "photo_extract.log"
)

const timeFmt = "2006-01-02 15:04:05,000"

// Sink is a logger together with the file it writes to.
type Sink struct {
	*zap.Logger
	fileOnly *zap.Logger
	file     *os.File
}

// New opens (appending to) the log file at path and returns a sink writing
// debug and above to it and errors and above to console. Lines look like
//
//	2024-05-01 10:00:00,000 - photo_extract - WARNING - Photo x.jpg does not exist.
func New(path string, console io.Writer) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	enc := zapcore.NewConsoleEncoder(encoderConfig())
	fileCore := plainCore{zapcore.NewCore(enc, zapcore.Lock(f), zapcore.DebugLevel)}
	consoleCore := plainCore{zapcore.NewCore(enc.Clone(), zapcore.Lock(zapcore.AddSync(console)), zapcore.ErrorLevel)}
	return &Sink{
		Logger:   zap.New(zapcore.NewTee(fileCore, consoleCore)).Named(Name),
		fileOnly: zap.New(fileCore).Named(Name),
		file:     f,
	}, nil
}

// Nop returns a sink that discards everything.
func Nop() *Sink {
	return &Sink{Logger: zap.NewNop(), fileOnly: zap.NewNop()}
}

// FileOnly returns a logger writing to the log file but never to the
// console, for messages the console already shows some other way.
func (s *Sink) FileOnly() *zap.Logger {
	return s.fileOnly
}

// Close flushes the logger and closes the log file.
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	s.Logger.Sync()
	s.fileOnly.Sync()
	err := s.file.Close()
	s.file = nil
	return err
}

// encoderConfig renders "time - name - level - message". The console
// encoder puts the level ahead of the name, so the level encoder writes
// both and the name key is left empty.
func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(timeFmt),
		EncodeLevel:      encodeLevel,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	}
}

// plainCore writes the message of an entry and nothing else. Fields stay
// available to other cores such as test observers.
type plainCore struct {
	zapcore.Core
}

func (c plainCore) With([]zapcore.Field) zapcore.Core { return c }

func (c plainCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c plainCore) Write(ent zapcore.Entry, _ []zapcore.Field) error {
	return c.Core.Write(ent, nil)
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(Name)
	enc.AppendString(levelName(l))
}

func levelName(l zapcore.Level) string {
	switch l {
	case zapcore.WarnLevel:
		return "WARNING"
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return "CRITICAL"
	default:
		return l.CapitalString()
	}
}
