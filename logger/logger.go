package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Format represents the log format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Logger represents a logger instance
type Logger struct {
	*slog.Logger
	mu      sync.Mutex
	out     *switchWriter
	writers []io.Writer
	level   *slog.LevelVar
	format  Format
}

// switchWriter lets outputs change under a live handler.
type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *switchWriter) set(writers []io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = io.MultiWriter(writers...)
}

// New creates a new logger
func New(level slog.Level, format Format, writers ...io.Writer) *Logger {
	l := &Logger{
		out:     &switchWriter{w: io.MultiWriter(writers...)},
		writers: writers,
		level:   new(slog.LevelVar),
		format:  format,
	}
	l.level.Set(level)
	l.Logger = slog.New(l.handler())
	return l
}

func (l *Logger) handler() slog.Handler {
	opts := &slog.HandlerOptions{Level: l.level}
	if l.format == FormatJSON {
		return slog.NewJSONHandler(l.out, opts)
	}
	return slog.NewTextHandler(l.out, opts)
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Level returns the current log level
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// AddOutput adds a new output destination
func (l *Logger) AddOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writers = append(l.writers, w)
	l.out.set(l.writers)
}

// SetFormat changes the log format. It must not race with logging calls.
func (l *Logger) SetFormat(format Format) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.format = format
	l.Logger = slog.New(l.handler())
}

// Rotate closes the current log files and reopens output at path.
func (l *Logger) Rotate(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := openLogFile(path)
	if err != nil {
		return err
	}

	kept := make([]io.Writer, 0, len(l.writers)+1)
	var stale []*os.File
	for _, writer := range l.writers {
		if f, ok := writer.(*os.File); ok && f != os.Stdout && f != os.Stderr {
			stale = append(stale, f)
			continue
		}
		kept = append(kept, writer)
	}
	l.writers = append(kept, file)
	l.out.set(l.writers)

	for _, f := range stale {
		f.Close()
	}
	return nil
}

// Close closes all file writers
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, writer := range l.writers {
		if file, ok := writer.(*os.File); ok && file != os.Stdout && file != os.Stderr {
			if err := file.Close(); err != nil {
				return err
			}
		}
	}
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// Init initializes the default logger writing to stdout and the given files.
func Init(level slog.Level, format Format, paths ...string) error {
	return InitWithConsole(os.Stdout, level, format, paths...)
}

// InitWithConsole is Init with a different console stream. The stdio
// transport logs to stderr because stdout carries protocol frames.
func InitWithConsole(console io.Writer, level slog.Level, format Format, paths ...string) error {
	writers := []io.Writer{console}
	for _, path := range paths {
		if path == "" {
			continue
		}
		file, err := openLogFile(path)
		if err != nil {
			return err
		}
		writers = append(writers, file)
	}

	SetDefault(New(level, format, writers...))
	return nil
}

// GetLevelFromString returns the log level from a string
func GetLevelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(slog.LevelInfo, FormatText, os.Stderr)
)

// Default returns the process-wide logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Helper functions for common logging patterns
func Debug(msg string, args ...any) {
	Default().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Default().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Default().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Default().Error(msg, args...)
}

func DebugContext(ctx context.Context, msg string, args ...any) {
	Default().DebugContext(ctx, msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	Default().InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	Default().WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	Default().ErrorContext(ctx, msg, args...)
}
