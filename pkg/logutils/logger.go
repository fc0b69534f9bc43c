// Package logutils builds the process-wide zerolog logger.
package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// New builds the root logger at level ("debug", "info", "warn", "error",
// "fatal" or "panic"). With a file, JSON lines are appended to it and the
// returned func closes it. Without one, output goes to stderr so stdout stays
// clean for command output, rendered for humans when stderr is a terminal.
func New(level string, file string) (zerolog.Logger, func(), error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, func() {}, fmt.Errorf("parse log level: %w", err)
	}

	w, closer, err := openOutput(file)
	if err != nil {
		return zerolog.Logger{}, func() {}, err
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), closer, nil
}

func openOutput(file string) (io.Writer, func(), error) {
	if file == "" {
		if term.IsTerminal(int(os.Stderr.Fd())) {
			return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, func() {}, nil
		}
		return os.Stderr, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create logs dir: %w", err)
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
