package helper

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogHandlerSpy is a slog.Handler implementation that captures log records for testing.
type LogHandlerSpy struct {
	records     []slog.Record
	mu          sync.Mutex
	logToStdout bool
}

// NewLogHandlerSpy creates a new LogHandlerSpy
// Switchable to log to stdout, which can be useful for debugging tests by seeing the actual log output.
func NewLogHandlerSpy(logToStdOut bool) *LogHandlerSpy {
	return &LogHandlerSpy{
		records:     make([]slog.Record, 0),
		logToStdout: logToStdOut,
	}
}

// Handle implements slog.Handler interface.
func (s *LogHandlerSpy) Handle(ctx context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)

	if s.logToStdout {
		jsonHandler := slog.NewJSONHandler(os.Stdout, nil)
		_ = jsonHandler.Handle(ctx, record)
	}

	return nil
}

// Enabled implements slog.Handler interface.
func (s *LogHandlerSpy) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// WithAttrs implements slog.Handler interface.
func (s *LogHandlerSpy) WithAttrs(_ []slog.Attr) slog.Handler {
	return s
}

// WithGroup implements slog.Handler interface.
func (s *LogHandlerSpy) WithGroup(_ string) slog.Handler {
	return s
}

// GetRecordCount returns the number of captured log records.
func (s *LogHandlerSpy) GetRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// Reset clears all captured log records.
func (s *LogHandlerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = s.records[:0]
}

// HasLog checks if there's a log record of the given level with exactly the given message.
func (s *LogHandlerSpy) HasLog(level slog.Level, message string) bool {
	return s.find(level, func(msg string) bool { return msg == message }) != nil
}

// HasLogWithPrefix checks if there's a log record of the given level whose message starts with prefix.
func (s *LogHandlerSpy) HasLogWithPrefix(level slog.Level, prefix string) bool {
	return s.find(level, func(msg string) bool { return strings.HasPrefix(msg, prefix) }) != nil
}

// HasLogWithAttr checks if there's a log record of the given level and message carrying the attribute key.
func (s *LogHandlerSpy) HasLogWithAttr(level slog.Level, message, key string) bool {
	record := s.find(level, func(msg string) bool { return msg == message })
	if record == nil {
		return false
	}

	found := false
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == key {
			found = true
			return false
		}

		return true
	})

	return found
}

// HasDebugLogWithDurationMS checks if there is a debug-level log record with the specified message
// that contains a duration_ms attribute with a non-negative value.
func (s *LogHandlerSpy) HasDebugLogWithDurationMS(message string) bool {
	record := s.find(slog.LevelDebug, func(msg string) bool { return msg == message })
	if record == nil {
		return false
	}

	hasDurationMS := false
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key != "duration_ms" {
			return true
		}

		switch attr.Value.Kind() {
		case slog.KindInt64:
			hasDurationMS = attr.Value.Int64() >= 0
		case slog.KindFloat64:
			hasDurationMS = attr.Value.Float64() >= 0
		default:
		}

		return false
	})

	return hasDurationMS
}

func (s *LogHandlerSpy) find(level slog.Level, match func(string) bool) *slog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].Level == level && match(s.records[i].Message) {
			record := s.records[i]
			return &record
		}
	}

	return nil
}
