package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/manualhttp/manualhttp-go-client/internal/domain/port"
)

// Level is the minimum severity a Logger writes
type Level int

const (
	// LevelDebug is the level for debug messages
	LevelDebug Level = iota
	// LevelInfo is the level for informational messages
	LevelInfo
	// LevelWarn is the level for warning messages
	LevelWarn
	// LevelError is the level for error messages
	LevelError
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// ParseLevel converts a string to Level
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// TimeFormat is the timestamp layout of console output
const TimeFormat = "2006-01-02 15:04:05.000"

// Logger is an implementation of port.Logger backed by zerolog
type Logger struct {
	logger zerolog.Logger
	// level is shared with loggers derived through WithField
	level  *atomic.Int32
	writer io.Writer
}

// NewLogger creates a Logger that writes human readable lines to writer
func NewLogger(writer io.Writer, level string) *Logger {
	return newLogger(zerolog.New(consoleWriter(writer)).With().Timestamp().Logger(), writer, level)
}

// NewJSONLogger creates a Logger that writes one JSON object per line
func NewJSONLogger(writer io.Writer, level string) *Logger {
	return newLogger(zerolog.New(writer).With().Timestamp().Logger(), writer, level)
}

// NewFileLogger creates a JSON logger writing to a size-rotated file
func NewFileLogger(filePath string, level string) (*Logger, error) {
	file, err := openRotatingFile(filePath)
	if err != nil {
		return nil, err
	}
	return NewJSONLogger(file, level), nil
}

// NewTeeLogger writes console lines to writer and JSON lines to a size-rotated file
func NewTeeLogger(writer io.Writer, filePath string, level string) (*Logger, error) {
	file, err := openRotatingFile(filePath)
	if err != nil {
		return nil, err
	}
	multi := zerolog.MultiLevelWriter(consoleWriter(writer), file)
	return newLogger(zerolog.New(multi).With().Timestamp().Logger(), file, level), nil
}

func consoleWriter(writer io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        writer,
		TimeFormat: TimeFormat,
		NoColor:    true,
	}
}

func openRotatingFile(filePath string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}
	return &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}, nil
}

func newLogger(base zerolog.Logger, writer io.Writer, level string) *Logger {
	l := &Logger{
		logger: base,
		level:  new(atomic.Int32),
		writer: writer,
	}
	l.SetLevel(level)
	return l
}

// SetLevel changes the logging level
func (l *Logger) SetLevel(level string) {
	l.level.Store(int32(ParseLevel(level)))
}

// Level returns the current logging level
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if level < l.Level() {
		return
	}

	event := l.logger.WithLevel(level.zerolog())
	if len(args) > 0 {
		event.Msgf(format, args...)
		return
	}
	event.Msg(format)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// WithField returns a logger that adds key=value to every message
func (l *Logger) WithField(key string, value interface{}) port.Logger {
	return &Logger{
		logger: l.logger.With().Interface(key, value).Logger(),
		level:  l.level,
		writer: l.writer,
	}
}

// Close closes the writer if it implements io.Closer
func (l *Logger) Close() error {
	if closer, ok := l.writer.(io.Closer); ok && l.writer != os.Stderr && l.writer != os.Stdout {
		return closer.Close()
	}
	return nil
}

// Ensure Logger implements port.Logger
var _ port.Logger = (*Logger)(nil)
