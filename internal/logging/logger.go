package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity levels.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

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

// ParseLevel maps a LOG_LEVEL value to a Level. Matching is case-insensitive.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Fields carries structured context attached to a log entry.
type Fields map[string]interface{}

// LogEntry represents a structured log entry.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
}

// sink is shared by a logger and every logger derived from it so writes
// from derived loggers never interleave.
type sink struct {
	mu     sync.Mutex
	output io.Writer
}

// Logger provides structured JSON logging.
type Logger struct {
	sink   *sink
	mu     sync.RWMutex
	level  Level
	fields Fields
}

// New creates a Logger writing INFO and above to stdout.
func New() *Logger {
	return &Logger{
		sink:   &sink{output: os.Stdout},
		level:  LevelInfo,
		fields: Fields{},
	}
}

// SetOutput sets the output writer for the logger and its derived loggers.
func (l *Logger) SetOutput(w io.Writer) *Logger {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.output = w
	return l
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	return l
}

func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// WithField returns a new logger with an additional field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(Fields{key: value})
}

// WithFields returns a new logger with additional fields.
func (l *Logger) WithFields(fields Fields) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{
		sink:   l.sink,
		level:  l.level,
		fields: merged,
	}
}

func (l *Logger) Debug(msg string, fields ...Fields) {
	l.log(LevelDebug, msg, fields...)
}

func (l *Logger) Info(msg string, fields ...Fields) {
	l.log(LevelInfo, msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...Fields) {
	l.log(LevelWarn, msg, fields...)
}

func (l *Logger) Error(msg string, fields ...Fields) {
	l.log(LevelError, msg, fields...)
}

func (l *Logger) log(level Level, msg string, extra ...Fields) {
	l.mu.RLock()
	if level < l.level {
		l.mu.RUnlock()
		return
	}
	all := make(Fields, len(l.fields))
	for k, v := range l.fields {
		all[k] = v
	}
	l.mu.RUnlock()

	for _, f := range extra {
		for k, v := range f {
			all[k] = v
		}
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
	}
	if len(all) > 0 {
		entry.Fields = all
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		// Unencodable field values; keep the message.
		_, _ = fmt.Fprintf(l.sink.output, "%s %s %s\n", entry.Timestamp, entry.Level, msg)
		return
	}
	data = append(data, '\n')
	_, _ = l.sink.output.Write(data)
}

// Default is the default logger instance.
var Default = New()

// SetDefaultLevel sets the level for the default logger.
func SetDefaultLevel(level Level) {
	Default.SetLevel(level)
}

func Debug(msg string, fields ...Fields) {
	Default.Debug(msg, fields...)
}

func Info(msg string, fields ...Fields) {
	Default.Info(msg, fields...)
}

func Warn(msg string, fields ...Fields) {
	Default.Warn(msg, fields...)
}

func Error(msg string, fields ...Fields) {
	Default.Error(msg, fields...)
}
