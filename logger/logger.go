// Package logger provides the leveled, colored loggers shared by the service components.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log"
)

var ErrNilWriter = errors.New("logger: nil writer")

// Logger writes "[PREFIX] [LEVEL] message" lines through the standard log package.
type Logger struct {
	out *log.Logger
	tag string
}

// New creates a Logger whose prefix is printed in color. An empty color prints the prefix plain.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if w == nil {
		return nil, ErrNilWriter
	}
	tag := fmt.Sprintf("[%s]", prefix)
	if color != "" {
		tag = color + tag + ColorReset
	}
	return &Logger{
		out: log.New(w, "", log.LstdFlags),
		tag: tag,
	}, nil
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.print(levelInfoColor, "INFO", msg)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) {
	l.print(levelWarnColor, "WARN", msg)
}

// Error logs a failure.
func (l *Logger) Error(msg string) {
	l.print(levelErrorColor, "ERROR", msg)
}

func (l *Logger) print(color, level, msg string) {
	l.out.Printf("%s %s[%s]%s %s", l.tag, color, level, ColorReset, msg)
}
