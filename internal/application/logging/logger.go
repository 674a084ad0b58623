// Package logging carries a structured logger through request contexts.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

// Logger provides leveled logging with structured metadata
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (fallback when no logger in context)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {}

// StdLogger writes through the standard log package.
// Output: [LEVEL] message key=value key=value
type StdLogger struct {
	logger   *log.Logger
	minLevel int
	json     bool
}

var levelRank = map[string]int{"DEBUG": 0, "INFO": 1, "WARN": 2, "WARNING": 2, "ERROR": 3}

// NewStdLogger creates a logger that drops entries below minLevel (DEBUG, INFO, WARNING, ERROR)
func NewStdLogger(logger *log.Logger, minLevel string) *StdLogger {
	if logger == nil {
		logger = log.Default()
	}
	return &StdLogger{logger: logger, minLevel: levelRank[strings.ToUpper(minLevel)]}
}

// NewJSONLogger is like NewStdLogger but writes one JSON object per entry.
// The wrapped logger should have no prefix or flags.
func NewJSONLogger(logger *log.Logger, minLevel string) *StdLogger {
	l := NewStdLogger(logger, minLevel)
	l.json = true
	return l
}

func (l *StdLogger) Log(level, message string, metadata map[string]interface{}) {
	level = strings.ToUpper(level)
	if levelRank[level] < l.minLevel {
		return
	}

	if l.json {
		entry := make(map[string]interface{}, len(metadata)+3)
		for k, v := range metadata {
			entry[k] = v
		}
		entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)
		entry["level"] = level
		entry["msg"] = message
		raw, err := json.Marshal(entry)
		if err != nil {
			raw = []byte(fmt.Sprintf(`{"level":%q,"msg":%q,"error":"unencodable metadata"}`, level, message))
		}
		l.logger.Print(string(raw))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", level, message)

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, metadata[k])
	}
	l.logger.Print(b.String())
}
