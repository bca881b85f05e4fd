package runlog

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type capturedRecord struct {
	level slog.Level
	msg   string
	attrs map[string]any
}

type captureHandler struct {
	mu      sync.Mutex
	records []capturedRecord
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, record slog.Record) error {
	attrs := map[string]any{}
	record.Attrs(func(attr slog.Attr) bool {
		attrs[attr.Key] = valueToAny(attr.Value)
		return true
	})
	h.mu.Lock()
	h.records = append(h.records, capturedRecord{level: record.Level, msg: record.Message, attrs: attrs})
	h.mu.Unlock()
	return nil
}

func (h *captureHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(_ string) slog.Handler      { return h }

func (h *captureHandler) last(t *testing.T) capturedRecord {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.records) == 0 {
		t.Fatalf("expected a flushed record")
	}
	return h.records[len(h.records)-1]
}

func TestFlushIncludesScopeAndEntries(t *testing.T) {
	handler := &captureHandler{}
	logger := slog.New(handler)

	buf := New(slog.String("request_id", "abc"))
	buf.Scope(slog.Int("status", 200))
	buf.Info("step one")
	buf.Info("step two", slog.String("detail", "fine"))
	buf.Flush(logger, "request")

	record := handler.last(t)
	if record.msg != "request" {
		t.Fatalf("expected msg %q, got %q", "request", record.msg)
	}
	if record.attrs["request_id"] != "abc" {
		t.Fatalf("expected request_id attr, got %v", record.attrs["request_id"])
	}
	if record.attrs["status"] != int64(200) {
		t.Fatalf("expected status attr, got %v", record.attrs["status"])
	}
	entries, ok := record.attrs["entries"].([]map[string]any)
	if !ok || len(entries) != 2 {
		t.Fatalf("expected two entries, got %v", record.attrs["entries"])
	}
	if entries[0]["message"] != "step one" || entries[0]["seq"] != 1 {
		t.Fatalf("expected ordered entries, got %v", entries[0])
	}
	if entries[1]["detail"] != "fine" {
		t.Fatalf("expected entry attrs preserved, got %v", entries[1])
	}
}

func TestFlushUsesHighestEntryLevel(t *testing.T) {
	handler := &captureHandler{}
	logger := slog.New(handler)

	buf := New()
	buf.Debug("fine")
	buf.Error("broke")
	buf.Info("kept going")
	buf.Flush(logger, "run")

	record := handler.last(t)
	if record.level != slog.LevelError {
		t.Fatalf("expected error level, got %v", record.level)
	}
}

func TestFlushResetsEntries(t *testing.T) {
	handler := &captureHandler{}
	logger := slog.New(handler)

	buf := New(slog.String("k", "v"))
	buf.Info("first")
	buf.Flush(logger, "one")

	buf.Info("second")
	buf.Flush(logger, "two")

	record := handler.last(t)
	entries, ok := record.attrs["entries"].([]map[string]any)
	if !ok || len(entries) != 1 {
		t.Fatalf("expected one entry after reset, got %v", record.attrs["entries"])
	}
	if entries[0]["message"] != "second" {
		t.Fatalf("expected only the new entry, got %v", entries[0])
	}
	if record.attrs["k"] != "v" {
		t.Fatalf("expected scope attrs to survive flush, got %v", record.attrs)
	}
}

func TestEntriesToPayloadDoesNotOverwriteReserved(t *testing.T) {
	now := time.Now().UTC()
	entries := []Entry{
		{
			Level:   slog.LevelInfo,
			Message: "hello",
			At:      now,
			Attrs: []slog.Attr{
				slog.String("message", "override"),
				slog.String("extra", "ok"),
			},
		},
	}

	payload := entriesToPayload(entries)
	if len(payload) != 1 {
		t.Fatalf("expected one payload entry")
	}
	item := payload[0]
	if item["message"] != "hello" {
		t.Fatalf("expected reserved message to stay, got %v", item["message"])
	}
	if item["extra"] != "ok" {
		t.Fatalf("expected extra attr, got %v", item["extra"])
	}
}

func TestNilBufferIsSafe(t *testing.T) {
	var buf *Buffer
	buf.Info("ignored")
	buf.Scope(slog.String("k", "v"))
	buf.Flush(slog.New(&captureHandler{}), "nothing")

	if FromContext(context.Background()) != nil {
		t.Fatalf("expected nil buffer from bare context")
	}
}

func TestContextCarriesBuffer(t *testing.T) {
	buf := New()
	ctx := WithContext(context.Background(), buf)
	if FromContext(ctx) != buf {
		t.Fatalf("expected buffer from context")
	}
}

func TestConcurrentLogging(t *testing.T) {
	handler := &captureHandler{}
	logger := slog.New(handler)

	buf := New()
	const count = 50
	var wg sync.WaitGroup
	wg.Add(count)
	for i := 0; i < count; i++ {
		go func(i int) {
			defer wg.Done()
			buf.Info("msg", slog.Int("i", i))
		}(i)
	}
	wg.Wait()
	buf.Flush(logger, "burst")

	record := handler.last(t)
	entries, ok := record.attrs["entries"].([]map[string]any)
	if !ok {
		t.Fatalf("expected entries slice")
	}
	if len(entries) != count {
		t.Fatalf("expected %d entries, got %d", count, len(entries))
	}
}
