// Package logging builds the slog loggers used across the runtime. The
// terminal belongs to the UI, so records go to a JSON file or nowhere.
package logging

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/odvcencio/dispatch/pkg/errors"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Category represents the subsystem generating the log
type Category string

const (
	CategoryRuntime       Category = "runtime"
	CategoryStore         Category = "store"
	CategoryInput         Category = "input"
	CategoryTasks         Category = "tasks"
	CategorySubscriptions Category = "subscriptions"
	CategorySources       Category = "sources"
	CategoryTelemetry     Category = "telemetry"
)

// CategoryKey is the attribute key carrying a record's Category.
const CategoryKey = "category"

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(name))) {
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelInfo, "":
		return slog.LevelInfo, nil
	case LevelWarn, "warning":
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.Newf(errors.ErrCodeInvalidInput, "unknown log level %q", name)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// For tags logger with a subsystem category. A nil logger yields Discard.
func For(logger *slog.Logger, category Category) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger.With(CategoryKey, string(category))
}

// Logger owns the file behind a slog logger.
type Logger struct {
	*slog.Logger

	mu   sync.Mutex
	file *os.File
}

// New builds a JSON logger writing to w at the given level.
func New(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// Open creates the log file at path, including missing parent directories,
// and returns a JSON logger appending to it. An empty path yields a logger
// that discards everything.
func Open(path, level string) (*Logger, error) {
	if path == "" {
		if _, err := ParseLevel(level); err != nil {
			return nil, err
		}
		return &Logger{Logger: Discard()}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "creating log directory").WithContext("path", path)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "opening log file").WithContext("path", path)
	}
	logger, err := New(file, level)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &Logger{Logger: logger, file: file}, nil
}

// Close closes the log file. It is safe to call more than once.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Record is one decoded JSON log line.
type Record map[string]any

// Message returns the record's msg field.
func (r Record) Message() string {
	s, _ := r[slog.MessageKey].(string)
	return s
}

// Level returns the record's level field.
func (r Record) Level() string {
	s, _ := r[slog.LevelKey].(string)
	return s
}

// ReadRecent returns the last count records in the log file at path.
// Lines that are not JSON objects are skipped.
func ReadRecent(path string, count int) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "opening log").WithContext("path", path)
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
		if count > 0 && len(records) > count {
			records = records[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "reading log").WithContext("path", path)
	}
	return records, nil
}
