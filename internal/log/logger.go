package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger provides centralized structured logging for the interpreter and its hosts
type Logger struct {
	logger *slog.Logger
	level  *slog.LevelVar
	file   *os.File
}

var globalLogger *Logger

// init creates the global logger with stderr output by default
func init() {
	globalLogger = newLogger(os.Stderr, nil, slog.LevelInfo)
}

func newLogger(w io.Writer, file *os.File, lvl slog.Level) *Logger {
	level := new(slog.LevelVar)
	level.Set(lvl)
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   slog.TimeKey,
					Value: slog.StringValue(a.Value.Time().Format("2006/01/02 15:04:05.000000")),
				}
			}
			return a
		},
	})
	return &Logger{
		logger: slog.New(handler),
		level:  level,
		file:   file,
	}
}

// SetFileOutput configures the logger to append to the specified file
func SetFileOutput(filename string) error {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return err
	}

	level := globalLogger.level.Level()
	Close()
	globalLogger = newLogger(file, file, level)
	return nil
}

// SetOutput redirects logging to w. Tests use io.Discard or a buffer.
func SetOutput(w io.Writer) {
	level := globalLogger.level.Level()
	Close()
	globalLogger = newLogger(w, nil, level)
}

// SetLevel accepts debug, info, warn or error. Unknown names keep the current level.
func SetLevel(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		globalLogger.level.Set(slog.LevelDebug)
	case "info":
		globalLogger.level.Set(slog.LevelInfo)
	case "warn", "warning":
		globalLogger.level.Set(slog.LevelWarn)
	case "error":
		globalLogger.level.Set(slog.LevelError)
	}
}

// With returns a logger carrying the given attributes on every record
func With(args ...any) *slog.Logger {
	return globalLogger.logger.With(args...)
}

// Standard logging methods
func Debug(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Debug(msg, args...)
	}
}

func Info(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Info(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Warn(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Error(msg, args...)
	}
}

// Close closes the log file if one is open
func Close() {
	if globalLogger != nil && globalLogger.file != nil {
		globalLogger.file.Close()
		globalLogger.file = nil
	}
}
