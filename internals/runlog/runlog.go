package runlog

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Buffer collects log entries for one scope of work (an HTTP request, a
// single task run) and flushes them as one grouped record on a destination
// logger. This keeps multi-step work readable: one record per scope with the
// steps inside, instead of interleaved lines from concurrent scopes.
//
// All methods are safe on a nil Buffer so callers pulled from a context do
// not need to guard.
type Buffer struct {
	mu      sync.Mutex
	scope   []slog.Attr
	entries []Entry
}

type Entry struct {
	Level   slog.Level
	Message string
	At      time.Time
	Attrs   []slog.Attr
}

func New(scope ...slog.Attr) *Buffer {
	b := &Buffer{}
	if len(scope) > 0 {
		b.scope = append(b.scope, scope...)
	}
	return b
}

// Scope appends attributes describing the whole scope (status, duration).
// They render as top-level attrs of the flushed record.
func (b *Buffer) Scope(attrs ...slog.Attr) {
	if b == nil || len(attrs) == 0 {
		return
	}
	b.mu.Lock()
	b.scope = append(b.scope, attrs...)
	b.mu.Unlock()
}

func (b *Buffer) Debug(msg string, attrs ...slog.Attr) {
	b.log(slog.LevelDebug, msg, attrs...)
}

func (b *Buffer) Info(msg string, attrs ...slog.Attr) {
	b.log(slog.LevelInfo, msg, attrs...)
}

func (b *Buffer) Warn(msg string, attrs ...slog.Attr) {
	b.log(slog.LevelWarn, msg, attrs...)
}

func (b *Buffer) Error(msg string, attrs ...slog.Attr) {
	b.log(slog.LevelError, msg, attrs...)
}

func (b *Buffer) log(level slog.Level, msg string, attrs ...slog.Attr) {
	if b == nil {
		return
	}
	entry := Entry{Level: level, Message: msg, At: time.Now()}
	if len(attrs) > 0 {
		entry.Attrs = append(entry.Attrs, attrs...)
	}
	b.mu.Lock()
	b.entries = append(b.entries, entry)
	b.mu.Unlock()
}

// Flush emits the buffered scope as a single record on logger and resets the
// buffer. The record's level is the highest level seen among the entries, so
// a scope containing an error surfaces as an error.
func (b *Buffer) Flush(logger *slog.Logger, msg string) {
	if b == nil || logger == nil {
		return
	}
	b.mu.Lock()
	scope := make([]slog.Attr, len(b.scope))
	copy(scope, b.scope)
	entries := make([]Entry, len(b.entries))
	copy(entries, b.entries)
	b.entries = b.entries[:0]
	b.mu.Unlock()

	level := slog.LevelInfo
	for _, entry := range entries {
		if entry.Level > level {
			level = entry.Level
		}
	}

	attrs := make([]slog.Attr, 0, len(scope)+1)
	attrs = append(attrs, scope...)
	attrs = append(attrs, slog.Any("entries", entriesToPayload(entries)))
	logger.LogAttrs(context.Background(), level, msg, attrs...)
}

func entriesToPayload(entries []Entry) []map[string]any {
	payload := make([]map[string]any, 0, len(entries))
	for i, entry := range entries {
		item := map[string]any{
			"seq":     i + 1,
			"level":   entry.Level.String(),
			"message": entry.Message,
			"at":      entry.At,
		}
		for key, value := range attrsToMap(entry.Attrs) {
			if _, reserved := item[key]; reserved {
				continue
			}
			item[key] = value
		}
		payload = append(payload, item)
	}
	return payload
}

func attrsToMap(attrs []slog.Attr) map[string]any {
	result := map[string]any{}
	for _, attr := range attrs {
		if attr.Key == "" {
			if attr.Value.Kind() == slog.KindGroup {
				for key, value := range attrsToMap(attr.Value.Group()) {
					result[key] = value
				}
			}
			continue
		}
		result[attr.Key] = valueToAny(attr.Value)
	}
	return result
}

func valueToAny(value slog.Value) any {
	switch value.Kind() {
	case slog.KindBool:
		return value.Bool()
	case slog.KindDuration:
		return value.Duration()
	case slog.KindFloat64:
		return value.Float64()
	case slog.KindInt64:
		return value.Int64()
	case slog.KindString:
		return value.String()
	case slog.KindTime:
		return value.Time()
	case slog.KindUint64:
		return value.Uint64()
	case slog.KindGroup:
		return attrsToMap(value.Group())
	default:
		return value.Any()
	}
}
