// Package logger provides the named, colored, leveled logger used across the service.
package logger

import (
	"errors"
	"io"

	"github.com/beka-birhanu/vinom-maze/service/i"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const colorReset = "\033[0m"

var _ i.Logger = &Logger{}

// Logger writes console lines of the form `time LEVEL [NAME] message`.
type Logger struct {
	z *zap.Logger
}

// New creates a logger whose name is printed in color on every line written to w.
func New(name, color string, w io.Writer) (*Logger, error) {
	if w == nil {
		return nil, errors.New("logger needs a writer")
	}

	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:     "time",
		LevelKey:    "level",
		NameKey:     "name",
		MessageKey:  "msg",
		EncodeTime:  zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05"),
		EncodeLevel: zapcore.CapitalLevelEncoder,
		EncodeName: func(n string, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(color + "[" + n + "]" + colorReset)
		},
		ConsoleSeparator: " ",
	})
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zapcore.DebugLevel)

	return &Logger{z: zap.New(core).Named(name)}, nil
}

func (l *Logger) Info(msg string) {
	l.z.Info(msg)
}

func (l *Logger) Warning(msg string) {
	l.z.Warn(msg)
}

func (l *Logger) Error(msg string) {
	l.z.Error(msg)
}

// Sync flushes buffered lines.
func (l *Logger) Sync() error {
	return l.z.Sync()
}
