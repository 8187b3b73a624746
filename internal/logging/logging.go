package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger with timestamps and caller information. An
// unknown level falls back to info.
func New(level string, out io.Writer) zerolog.Logger {
	return newLogger(level, consoleWriter(out))
}

// NewWithFile logs to the console and, as JSON lines, to the file at path.
// The caller closes the returned file.
func NewWithFile(level string, out io.Writer, path string) (zerolog.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := zerolog.MultiLevelWriter(consoleWriter(out), logFile)
	return newLogger(level, multiWriter), logFile, nil
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	if out == nil {
		out = os.Stdout
	}
	return zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = out
		w.TimeFormat = time.Kitchen
	})
}

func newLogger(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
}
