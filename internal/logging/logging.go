// Package logging builds the slog logger shared by the CLI and the HTTP server.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// Verbose lowers the level to Debug.
	Verbose bool

	// File, when set, receives a copy of every record with size-based rotation.
	File string

	// MaxSizeMB is the rotation size for File. Zero uses lumberjack's default.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept. Zero keeps all of them.
	MaxBackups int

	// Stderr overrides the console writer. Nil means os.Stderr.
	Stderr io.Writer
}

// Logger is a slog.Logger plus the file sink it may own.
type Logger struct {
	*slog.Logger
	file *lumberjack.Logger
}

// New returns a text logger writing to stderr and, if configured, to a
// rotating file.
func New(opts Options) *Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	if opts.Stderr != nil {
		w = opts.Stderr
	}

	l := &Logger{}
	if opts.File != "" {
		l.file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		w = io.MultiWriter(w, l.file)
	}

	l.Logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return l
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
